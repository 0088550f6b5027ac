package server_test

import (
	"net/http"
	"testing"

	"github.com/jrsteele09/storefront-server/catalog"
	"github.com/jrsteele09/storefront-server/internal/paging"
	"github.com/jrsteele09/storefront-server/token"
	"github.com/jrsteele09/storefront-server/users"
	"github.com/stretchr/testify/require"
)

// roleToken issues an access token for a principal that only exists in the
// token itself. Admin endpoints never load the principal.
func (f *testFixture) roleToken(t *testing.T, role users.Role) string {
	t.Helper()
	pair, err := f.tokens.IssuePair(token.Subject{UserID: "staff-" + string(role), Email: string(role) + "@staff.example.com", Role: role})
	require.NoError(t, err)
	return pair.AccessToken
}

func (f *testFixture) createProduct(t *testing.T, bearer string, price float64) catalog.Product {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/admin/products", map[string]any{
		"nameEn":        "Chicken bowl",
		"nameAr":        "Chicken bowl",
		"category":      "meals",
		"price":         price,
		"stockQuantity": 10,
	}, withBearer(bearer))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeData[catalog.Product](t, rec)
}

func TestProducts(t *testing.T) {
	f := setupTestFixture(t)
	staff := f.roleToken(t, users.RoleManager)

	t.Run("create validates the body", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/api/admin/products", map[string]any{"nameEn": "No price"}, withBearer(staff))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		env := decode(t, rec)
		require.Contains(t, env.Error, "nameAr is required")
		require.Contains(t, env.Error, "price must be greater than 0")
	})

	t.Run("malformed json", func(t *testing.T) {
		req := f.do(t, http.MethodPost, "/api/admin/products", "not an object", withBearer(staff))
		require.Equal(t, http.StatusBadRequest, req.Code)
		require.Equal(t, "Invalid request body", decode(t, req).Error)
	})

	product := f.createProduct(t, staff, 42.5)
	require.True(t, product.IsActive)

	t.Run("get and update", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/admin/products/"+product.ID, nil, withBearer(staff))
		require.Equal(t, http.StatusOK, rec.Code)

		rec = f.do(t, http.MethodPut, "/api/admin/products/"+product.ID, map[string]any{"price": 39.0, "isFeatured": true}, withBearer(staff))
		require.Equal(t, http.StatusOK, rec.Code)
		updated := decodeData[catalog.Product](t, rec)
		require.Equal(t, 39.0, updated.Price)
		require.True(t, updated.IsFeatured)
		require.Equal(t, product.NameEn, updated.NameEn)

		rec = f.do(t, http.MethodPut, "/api/admin/products/"+product.ID, map[string]any{"price": 0}, withBearer(staff))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing product", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/admin/products/00000000-0000-0000-0000-000000000000", nil, withBearer(staff))
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Equal(t, "Product not found", decode(t, rec).Error)
	})

	t.Run("list is paginated", func(t *testing.T) {
		f.createProduct(t, staff, 10)
		f.createProduct(t, staff, 11)

		rec := f.do(t, http.MethodGet, "/api/admin/products?limit=2&page=2", nil, withBearer(staff))
		require.Equal(t, http.StatusOK, rec.Code)
		env := decode(t, rec)
		require.NotNil(t, env.Pagination)
		require.Equal(t, 3, env.Pagination.Total)
		require.Equal(t, 2, env.Pagination.TotalPages)
		require.Equal(t, 2, env.Pagination.Page)
		require.Len(t, decodeData[[]catalog.Product](t, rec), 1)
	})

	t.Run("delete is soft and hides the product from the storefront", func(t *testing.T) {
		rec := f.do(t, http.MethodDelete, "/api/admin/products/"+product.ID, nil, withBearer(staff))
		require.Equal(t, http.StatusOK, rec.Code)

		rec = f.do(t, http.MethodGet, "/api/admin/products/"+product.ID, nil, withBearer(staff))
		require.Equal(t, http.StatusOK, rec.Code)
		require.False(t, decodeData[catalog.Product](t, rec).IsActive)

		rec = f.do(t, http.MethodGet, "/api/products", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		for _, p := range decodeData[[]catalog.Product](t, rec) {
			require.NotEqual(t, product.ID, p.ID)
		}
	})
}

func TestSubscriptionPlans(t *testing.T) {
	f := setupTestFixture(t)
	staff := f.roleToken(t, users.RoleAdmin)

	for _, price := range []float64{300, 200} {
		rec := f.do(t, http.MethodPost, "/api/admin/subscription-plans", map[string]any{
			"nameEn": "Plan", "nameAr": "Plan", "monthlyPrice": price, "mealsPerMonth": 20,
		}, withBearer(staff))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := f.do(t, http.MethodPost, "/api/admin/subscription-plans", map[string]any{
		"nameEn": "Plan", "nameAr": "Plan", "monthlyPrice": 100,
	}, withBearer(staff))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, decode(t, rec).Error, "mealsPerMonth")

	rec = f.do(t, http.MethodGet, "/api/subscription-plans", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	plans := decodeData[[]catalog.SubscriptionPlan](t, rec)
	require.Len(t, plans, 2)
	require.Equal(t, 200.0, plans[0].MonthlyPrice)

	rec = f.do(t, http.MethodGet, "/api/admin/subscription-plans/00000000-0000-0000-0000-000000000000", nil, withBearer(staff))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Subscription plan not found", decode(t, rec).Error)
}

func TestProducts_PageFarPastTheEnd(t *testing.T) {
	f := setupTestFixture(t)
	staff := f.roleToken(t, users.RoleAdmin)
	f.createProduct(t, staff, 10)

	rec := f.do(t, http.MethodGet, "/api/admin/products?page=9223372036854775807", nil,
		withBearer(staff), withHeader("Accept-Encoding", "gzip"))
	require.Equal(t, http.StatusOK, rec.Code)

	env := gunzip(t, rec)
	require.True(t, env.Success)
	require.JSONEq(t, "[]", string(env.Data))
	require.Equal(t, paging.MaxPage, env.Pagination.Page)
	require.Equal(t, 1, env.Pagination.Total)
}
