package server_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/storefront-server/token"
	"github.com/jrsteele09/storefront-server/users"
	"github.com/stretchr/testify/require"
)

func TestRequireAuth(t *testing.T) {
	f := setupTestFixture(t)
	admin := f.addUser(t, "admin@example.com", users.RoleAdmin)
	pair, err := f.tokens.IssuePair(token.SubjectOf(admin))
	require.NoError(t, err)

	tests := []struct {
		name    string
		header  string
		message string
	}{
		{name: "missing header", header: "", message: "No token provided"},
		{name: "wrong scheme", header: "Basic " + pair.AccessToken, message: "No token provided"},
		{name: "lower case scheme", header: "bearer " + pair.AccessToken, message: "No token provided"},
		{name: "garbage token", header: "Bearer not.a.jwt", message: "Invalid token"},
		{name: "refresh token as access token", header: "Bearer " + pair.RefreshToken, message: "Invalid token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, http.MethodGet, "/api/admin/products", nil, withHeader("Authorization", tt.header))
			require.Equal(t, http.StatusUnauthorized, rec.Code)
			env := decode(t, rec)
			require.False(t, env.Success)
			require.Equal(t, tt.message, env.Error)
		})
	}

	t.Run("expired token", func(t *testing.T) {
		f.now = f.now.Add(16 * time.Minute)
		defer func() { f.now = f.now.Add(-16 * time.Minute) }()

		rec := f.do(t, http.MethodGet, "/api/admin/products", nil, withBearer(pair.AccessToken))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "Token expired", decode(t, rec).Error)
	})

	t.Run("valid token", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/admin/products", nil, withBearer(pair.AccessToken))
		require.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRequireAuth_TypeTagIsChecked(t *testing.T) {
	f := setupTestFixture(t)
	signer := token.NewHMACSigner("access-secret")
	claims := &token.Claims{UserID: "u-1", Email: "x@example.com", Role: users.RoleAdmin, Type: token.TypeRefresh}
	claims.ExpiresAt = jwt.NewNumericDate(f.now.Add(time.Hour))
	raw, err := signer.Sign(claims)
	require.NoError(t, err)

	rec := f.do(t, http.MethodGet, "/api/admin/products", nil, withBearer(raw))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Invalid token type", decode(t, rec).Error)
}

func TestRoleGates(t *testing.T) {
	f := setupTestFixture(t)
	staff := f.roleToken(t, users.RoleAdmin)
	product := f.createProduct(t, staff, 25)
	f.placeOrder(t, product.ID, 1)
	customerID := f.firstCustomerID(t, staff)

	tests := []struct {
		role        users.Role
		adminStatus int
		superStatus int
		superError  string
	}{
		{role: users.RoleSuperAdmin, adminStatus: http.StatusOK, superStatus: http.StatusOK},
		{role: users.RoleAdmin, adminStatus: http.StatusOK, superStatus: http.StatusForbidden, superError: "Super admin access required"},
		{role: users.RoleManager, adminStatus: http.StatusOK, superStatus: http.StatusForbidden, superError: "Super admin access required"},
		{role: users.RoleCustomer, adminStatus: http.StatusForbidden, superStatus: http.StatusForbidden, superError: "Super admin access required"},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			bearer := f.bearer(t, tt.role)

			rec := f.do(t, http.MethodGet, "/api/admin/customers", nil, withBearer(bearer))
			require.Equal(t, tt.adminStatus, rec.Code)
			if tt.adminStatus == http.StatusForbidden {
				require.Equal(t, "Access denied", decode(t, rec).Error)
			}

			// Non super admins are rejected before the customer is touched
			rec = f.do(t, http.MethodDelete, "/api/admin/customers/"+customerID, nil, withBearer(bearer))
			require.Equal(t, tt.superStatus, rec.Code)
			if tt.superError != "" {
				require.Equal(t, tt.superError, decode(t, rec).Error)
			}
		})
	}
}

func TestProfile_OnlyNeedsAuthentication(t *testing.T) {
	f := setupTestFixture(t)
	bearer := f.bearer(t, users.RoleCustomer)

	rec := f.do(t, http.MethodGet, "/api/auth/admin/me", nil, withBearer(bearer))
	require.Equal(t, http.StatusOK, rec.Code)
}
