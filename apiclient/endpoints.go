package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/jrsteele09/storefront-server/catalog"
	"github.com/jrsteele09/storefront-server/customers"
	"github.com/jrsteele09/storefront-server/internal/paging"
	"github.com/jrsteele09/storefront-server/orders"
	"github.com/jrsteele09/storefront-server/users"
)

type LoginResponse struct {
	AccessToken string        `json:"accessToken"`
	User        users.Profile `json:"user"`
}

// Login authenticates an admin and keeps the returned access token. The
// refresh cookie lands in the cookie jar.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var env envelope[LoginResponse]
	body := map[string]string{"email": email, "password": password}
	if err := c.doOnce(ctx, http.MethodPost, "/api/auth/admin/login", body, &env); err != nil {
		return nil, err
	}
	c.SetAccessToken(env.Data.AccessToken)
	return &env.Data, nil
}

// Logout clears the access token even when the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	defer c.SetAccessToken("")
	return c.doOnce(ctx, http.MethodPost, "/api/auth/admin/logout", nil, nil)
}

func (c *Client) Profile(ctx context.Context) (*users.Profile, error) {
	return data[users.Profile](ctx, c, http.MethodGet, "/api/auth/admin/me", nil)
}

func (c *Client) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	body := map[string]string{"currentPassword": currentPassword, "newPassword": newPassword}
	return c.Do(ctx, http.MethodPut, "/api/auth/admin/password", body, nil)
}

func (c *Client) ListProducts(ctx context.Context, query url.Values) (*paging.Page[catalog.Product], error) {
	return page[catalog.Product](ctx, c, "/api/admin/products", query)
}

func (c *Client) GetProduct(ctx context.Context, id string) (*catalog.Product, error) {
	return data[catalog.Product](ctx, c, http.MethodGet, "/api/admin/products/"+url.PathEscape(id), nil)
}

func (c *Client) CreateProduct(ctx context.Context, in catalog.ProductInput) (*catalog.Product, error) {
	return data[catalog.Product](ctx, c, http.MethodPost, "/api/admin/products", in)
}

func (c *Client) UpdateProduct(ctx context.Context, id string, update catalog.ProductUpdate) (*catalog.Product, error) {
	return data[catalog.Product](ctx, c, http.MethodPut, "/api/admin/products/"+url.PathEscape(id), update)
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.Do(ctx, http.MethodDelete, "/api/admin/products/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ListSubscriptionPlans(ctx context.Context, query url.Values) (*paging.Page[catalog.SubscriptionPlan], error) {
	return page[catalog.SubscriptionPlan](ctx, c, "/api/admin/subscription-plans", query)
}

func (c *Client) ListOrders(ctx context.Context, query url.Values) (*paging.Page[orders.Order], error) {
	return page[orders.Order](ctx, c, "/api/admin/orders", query)
}

func (c *Client) GetOrder(ctx context.Context, id string) (*orders.Order, error) {
	return data[orders.Order](ctx, c, http.MethodGet, "/api/admin/orders/"+url.PathEscape(id), nil)
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id string, update orders.StatusUpdate) (*orders.Order, error) {
	return data[orders.Order](ctx, c, http.MethodPut, "/api/admin/orders/"+url.PathEscape(id)+"/status", update)
}

func (c *Client) OrderStats(ctx context.Context) (*orders.Stats, error) {
	return data[orders.Stats](ctx, c, http.MethodGet, "/api/admin/orders/stats", nil)
}

func (c *Client) ListCustomers(ctx context.Context, query url.Values) (*paging.Page[customers.Customer], error) {
	return page[customers.Customer](ctx, c, "/api/admin/customers", query)
}

func (c *Client) GetCustomer(ctx context.Context, id string) (*customers.Customer, error) {
	return data[customers.Customer](ctx, c, http.MethodGet, "/api/admin/customers/"+url.PathEscape(id), nil)
}

func (c *Client) CustomerStats(ctx context.Context) (*customers.Stats, error) {
	return data[customers.Stats](ctx, c, http.MethodGet, "/api/admin/customers/stats", nil)
}

func data[T any](ctx context.Context, c *Client, method, endpoint string, body any) (*T, error) {
	var env envelope[T]
	if err := c.Do(ctx, method, endpoint, body, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

func page[T any](ctx context.Context, c *Client, endpoint string, query url.Values) (*paging.Page[T], error) {
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	var p paging.Page[T]
	if err := c.Do(ctx, http.MethodGet, endpoint, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
