package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	RouteHealth  = "/api/health"
	RouteMetrics = "/metrics"

	// Admin authentication
	RouteAuthLogin    = "/api/auth/admin/login"
	RouteAuthLogout   = "/api/auth/admin/logout"
	RouteAuthRefresh  = "/api/auth/admin/refresh"
	RouteAuthMe       = "/api/auth/admin/me"
	RouteAuthPassword = "/api/auth/admin/password"

	// Admin catalog
	RouteAdminProducts = "/api/admin/products"
	RouteAdminProduct  = "/api/admin/products/{id}"
	RouteAdminPlans    = "/api/admin/subscription-plans"
	RouteAdminPlan     = "/api/admin/subscription-plans/{id}"

	// Admin customers
	RouteAdminCustomers             = "/api/admin/customers"
	RouteAdminCustomerStats         = "/api/admin/customers/stats"
	RouteAdminCustomer              = "/api/admin/customers/{id}"
	RouteAdminCustomerOrders        = "/api/admin/customers/{id}/orders"
	RouteAdminCustomerSubscriptions = "/api/admin/customers/{id}/subscriptions"

	// Admin orders
	RouteAdminOrders        = "/api/admin/orders"
	RouteAdminOrderStats    = "/api/admin/orders/stats"
	RouteAdminOrder         = "/api/admin/orders/{id}"
	RouteAdminOrderStatus   = "/api/admin/orders/{id}/status"
	RouteAdminOrderTracking = "/api/admin/orders/{id}/tracking"

	// Storefront
	RouteProducts          = "/api/products"
	RouteSubscriptionPlans = "/api/subscription-plans"
	RouteOrders            = "/api/orders"
	RouteOrder             = "/api/orders/{orderNumber}"
)
