package server

import (
	"net/http"

	"github.com/jrsteele09/storefront-server/users"
)

func (s *Server) initRoutes() {
	api := s.APIMiddleware
	authenticated := func() []Middleware { return api(s.RequireAuth()) }
	admin := func() []Middleware { return api(s.RequireAuth(), s.RequireRoles(users.AdminRoles...)) }
	superAdmin := func() []Middleware { return api(s.RequireAuth(), s.RequireRoles(users.RoleSuperAdmin)) }

	s.RegisterRouteHandler("GET "+RouteHealth, ChainMiddleware(s.HealthHandler(), api()...))
	s.RegisterRouteHandler("GET "+RouteMetrics, s.metrics.Handler())

	// AUTH
	s.RegisterRouteHandler("POST "+RouteAuthLogin, ChainMiddleware(s.LoginHandler(), api()...))
	s.RegisterRouteHandler("POST "+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), api()...))
	s.RegisterRouteHandler("POST "+RouteAuthRefresh, ChainMiddleware(s.RefreshHandler(), api()...))
	s.RegisterRouteHandler("GET "+RouteAuthMe, ChainMiddleware(s.ProfileHandler(), authenticated()...))
	s.RegisterRouteHandler("PUT "+RouteAuthPassword, ChainMiddleware(s.ChangePasswordHandler(), authenticated()...))

	// CATALOG
	s.RegisterRouteHandler("GET "+RouteAdminProducts, ChainMiddleware(s.ListProductsHandler(), admin()...))
	s.RegisterRouteHandler("POST "+RouteAdminProducts, ChainMiddleware(s.CreateProductHandler(), admin()...))
	s.RegisterRouteHandler("GET "+RouteAdminProduct, ChainMiddleware(s.GetProductHandler(), admin()...))
	s.RegisterRouteHandler("PUT "+RouteAdminProduct, ChainMiddleware(s.UpdateProductHandler(), admin()...))
	s.RegisterRouteHandler("DELETE "+RouteAdminProduct, ChainMiddleware(s.DeleteProductHandler(), admin()...))

	s.RegisterRouteHandler("GET "+RouteAdminPlans, ChainMiddleware(s.ListPlansHandler(), admin()...))
	s.RegisterRouteHandler("POST "+RouteAdminPlans, ChainMiddleware(s.CreatePlanHandler(), admin()...))
	s.RegisterRouteHandler("GET "+RouteAdminPlan, ChainMiddleware(s.GetPlanHandler(), admin()...))
	s.RegisterRouteHandler("PUT "+RouteAdminPlan, ChainMiddleware(s.UpdatePlanHandler(), admin()...))
	s.RegisterRouteHandler("DELETE "+RouteAdminPlan, ChainMiddleware(s.DeletePlanHandler(), admin()...))

	s.RegisterRouteHandler("GET "+RouteProducts, ChainMiddleware(s.PublicProductsHandler(), api()...))
	s.RegisterRouteHandler("GET "+RouteSubscriptionPlans, ChainMiddleware(s.PublicPlansHandler(), api()...))

	// CUSTOMERS
	s.RegisterRouteHandler("GET "+RouteAdminCustomers, ChainMiddleware(s.ListCustomersHandler(), admin()...))
	s.RegisterRouteHandler("GET "+RouteAdminCustomerStats, ChainMiddleware(s.CustomerStatsHandler(), admin()...))
	s.RegisterRouteHandler("GET "+RouteAdminCustomer, ChainMiddleware(s.GetCustomerHandler(), admin()...))
	s.RegisterRouteHandler("PUT "+RouteAdminCustomer, ChainMiddleware(s.UpdateCustomerHandler(), admin()...))
	s.RegisterRouteHandler("DELETE "+RouteAdminCustomer, ChainMiddleware(s.DeactivateCustomerHandler(), superAdmin()...))
	s.RegisterRouteHandler("GET "+RouteAdminCustomerOrders, ChainMiddleware(s.CustomerOrdersHandler(), admin()...))
	s.RegisterRouteHandler("GET "+RouteAdminCustomerSubscriptions, ChainMiddleware(s.CustomerSubscriptionsHandler(), admin()...))

	// ORDERS
	s.RegisterRouteHandler("GET "+RouteAdminOrders, ChainMiddleware(s.ListOrdersHandler(), admin()...))
	s.RegisterRouteHandler("GET "+RouteAdminOrderStats, ChainMiddleware(s.OrderStatsHandler(), admin()...))
	s.RegisterRouteHandler("GET "+RouteAdminOrder, ChainMiddleware(s.GetOrderHandler(), admin()...))
	s.RegisterRouteHandler("PUT "+RouteAdminOrderStatus, ChainMiddleware(s.UpdateOrderStatusHandler(), admin()...))
	s.RegisterRouteHandler("GET "+RouteAdminOrderTracking, ChainMiddleware(s.OrderTrackingHandler(), admin()...))
	s.RegisterRouteHandler("POST "+RouteAdminOrderTracking, ChainMiddleware(s.AddOrderTrackingHandler(), admin()...))

	s.RegisterRouteHandler("POST "+RouteOrders, ChainMiddleware(s.CreateOrderHandler(), api()...))
	s.RegisterRouteHandler("GET "+RouteOrder, ChainMiddleware(s.PublicOrderHandler(), api()...))

	// Unknown API paths, and CORS preflight requests which the CORS middleware answers
	s.RegisterRouteHandler("/api/", ChainMiddleware(s.NotFoundHandler(), api()...))
}

// HealthHandler reports that the API is serving requests.
func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, response{Success: true, Message: "API is running"})
	}
}

func (s *Server) NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, response{Error: "Route not found"})
	}
}
