package server_test

import (
	"net/http"
	"regexp"
	"testing"

	"github.com/jrsteele09/storefront-server/customers"
	"github.com/jrsteele09/storefront-server/orders"
	"github.com/jrsteele09/storefront-server/users"
	"github.com/stretchr/testify/require"
)

type createdOrder struct {
	OrderNumber string        `json:"orderNumber"`
	Total       float64       `json:"total"`
	Status      orders.Status `json:"status"`
}

func (f *testFixture) placeOrder(t *testing.T, productID string, quantity int) createdOrder {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/orders", map[string]any{
		"customer": map[string]any{
			"email":     "Jane@Example.com",
			"firstName": "Jane",
			"lastName":  "Doe",
		},
		"orderType": "one-time",
		"items":     []map[string]any{{"productId": productID, "quantity": quantity}},
		// A client supplied price is ignored
		"total": 0.01,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeData[createdOrder](t, rec)
}

func (f *testFixture) firstCustomerID(t *testing.T, bearer string) string {
	t.Helper()
	rec := f.do(t, http.MethodGet, "/api/admin/customers", nil, withBearer(bearer))
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeData[[]customers.Customer](t, rec)
	require.NotEmpty(t, list)
	return list[0].ID
}

func TestCreateOrder(t *testing.T) {
	f := setupTestFixture(t)
	staff := f.roleToken(t, users.RoleAdmin)
	product := f.createProduct(t, staff, 12.5)

	created := f.placeOrder(t, product.ID, 3)
	require.Regexp(t, regexp.MustCompile(`^ORD-20260617-[A-Z0-9]{6}$`), created.OrderNumber)
	require.Equal(t, 37.5, created.Total)
	require.Equal(t, orders.StatusPending, created.Status)

	t.Run("public lookup by order number", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/orders/"+created.OrderNumber, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		data := decodeData[map[string]any](t, rec)
		require.Equal(t, created.OrderNumber, data["orderNumber"])
		require.Equal(t, "pending", data["status"])
		require.NotContains(t, data, "customerId")
		require.NotContains(t, data, "shippingAddress")
	})

	t.Run("unknown order number", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/orders/ORD-20260617-ZZZZZZ", nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Equal(t, "Order not found", decode(t, rec).Error)
	})

	t.Run("unknown product", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/api/orders", map[string]any{
			"customer":  map[string]any{"email": "a@example.com", "firstName": "A", "lastName": "B"},
			"orderType": "one-time",
			"items":     []map[string]any{{"productId": "00000000-0000-0000-0000-000000000000", "quantity": 1}},
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "Product is not available", decode(t, rec).Error)
	})

	t.Run("missing customer details", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/api/orders", map[string]any{
			"orderType": "one-time",
			"items":     []map[string]any{{"productId": product.ID, "quantity": 1}},
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, decode(t, rec).Error, "email is required")
	})
}

func TestAdminOrders(t *testing.T) {
	f := setupTestFixture(t)
	staff := f.roleToken(t, users.RoleManager)
	product := f.createProduct(t, staff, 20)
	created := f.placeOrder(t, product.ID, 2)

	rec := f.do(t, http.MethodGet, "/api/admin/orders?status=pending", nil, withBearer(staff))
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeData[[]orders.Order](t, rec)
	require.Len(t, list, 1)
	orderID := list[0].ID

	rec = f.do(t, http.MethodGet, "/api/admin/orders/"+orderID, nil, withBearer(staff))
	require.Equal(t, http.StatusOK, rec.Code)
	order := decodeData[orders.Order](t, rec)
	require.Equal(t, created.OrderNumber, order.OrderNumber)
	require.NotNil(t, order.Customer)
	require.Equal(t, "jane@example.com", order.Customer.Email)

	rec = f.do(t, http.MethodPut, "/api/admin/orders/"+orderID+"/status", map[string]any{"status": "teleported"}, withBearer(staff))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Invalid order status", decode(t, rec).Error)

	rec = f.do(t, http.MethodPut, "/api/admin/orders/"+orderID+"/status", map[string]any{"status": "shipped"}, withBearer(staff))
	require.Equal(t, http.StatusOK, rec.Code)
	order = decodeData[orders.Order](t, rec)
	require.Equal(t, orders.StatusShipped, order.Status)
	require.NotNil(t, order.ShippedAt)

	rec = f.do(t, http.MethodPost, "/api/admin/orders/"+orderID+"/tracking",
		map[string]any{"status": "in transit", "location": "Riyadh hub"}, withBearer(staff))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/admin/orders/"+orderID+"/tracking", nil, withBearer(staff))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decodeData[[]orders.Tracking](t, rec), 2)

	rec = f.do(t, http.MethodGet, "/api/admin/orders/stats", nil, withBearer(staff))
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decodeData[orders.Stats](t, rec)
	require.Equal(t, 1, stats.Orders.Today)
	require.Equal(t, 1, stats.Orders.Total)
	require.Equal(t, 40.0, stats.Revenue.Today)
	require.Equal(t, 1, stats.ByStatus[orders.StatusShipped])
}

func TestAdminCustomers(t *testing.T) {
	f := setupTestFixture(t)
	staff := f.roleToken(t, users.RoleAdmin)
	product := f.createProduct(t, staff, 15)
	f.placeOrder(t, product.ID, 1)
	f.placeOrder(t, product.ID, 2)
	customerID := f.firstCustomerID(t, staff)

	rec := f.do(t, http.MethodGet, "/api/admin/customers?search=JANE", nil, withBearer(staff))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decodeData[[]customers.Customer](t, rec), 1)

	rec = f.do(t, http.MethodGet, "/api/admin/customers/"+customerID, nil, withBearer(staff))
	require.Equal(t, http.StatusOK, rec.Code)
	customer := decodeData[customers.Customer](t, rec)
	require.True(t, customer.IsGuest)
	require.Equal(t, 2, customer.OrderCount)
	require.NotNil(t, customer.TotalSpent)
	require.Equal(t, 45.0, *customer.TotalSpent)

	rec = f.do(t, http.MethodGet, "/api/admin/customers/"+customerID+"/orders", nil, withBearer(staff))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 2, decode(t, rec).Pagination.Total)

	rec = f.do(t, http.MethodPut, "/api/admin/customers/"+customerID, map[string]any{"city": "Jeddah"}, withBearer(staff))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Jeddah", *decodeData[customers.Customer](t, rec).City)

	rec = f.do(t, http.MethodGet, "/api/admin/customers/stats", nil, withBearer(staff))
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decodeData[customers.Stats](t, rec)
	require.Equal(t, 1, stats.Total)
	require.Equal(t, 1, stats.Guests)

	rec = f.do(t, http.MethodGet, "/api/admin/customers/"+customerID+"/subscriptions", nil, withBearer(staff))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, decodeData[[]customers.Subscription](t, rec))

	superAdmin := f.roleToken(t, users.RoleSuperAdmin)
	rec = f.do(t, http.MethodDelete, "/api/admin/customers/"+customerID, nil, withBearer(superAdmin))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/admin/customers/"+customerID, nil, withBearer(staff))
	require.False(t, decodeData[customers.Customer](t, rec).IsActive)

	rec = f.do(t, http.MethodGet, "/api/admin/customers/00000000-0000-0000-0000-000000000000", nil, withBearer(staff))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Customer not found", decode(t, rec).Error)
}
