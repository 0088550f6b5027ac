package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jrsteele09/storefront-server/auth"
	"github.com/jrsteele09/storefront-server/catalog"
	"github.com/jrsteele09/storefront-server/customers"
	"github.com/jrsteele09/storefront-server/internal/config"
	"github.com/jrsteele09/storefront-server/internal/validation"
	"github.com/jrsteele09/storefront-server/orders"
	"github.com/jrsteele09/storefront-server/ratelimit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

// Services are the domain services the HTTP layer delegates to.
type Services struct {
	Auth         *auth.AuthService
	Catalog      *catalog.Service
	Customers    *customers.Service
	Orders       *orders.Service
	LoginLimiter ratelimit.Limiter
}

type Server struct {
	env       string // Environment (e.g., "DEV", "PROD")
	mux       *http.ServeMux
	routes    []string
	config    config.Config
	services  Services
	validator *validation.Validator
	metrics   *Metrics
	proxies   config.TrustedProxies

	registry *prometheus.Registry
	pool     *pgxpool.Pool
}

type ServerOption func(*Server)

// WithRegistry registers the HTTP metrics on the given registry instead of a
// private one.
func WithRegistry(registry *prometheus.Registry) ServerOption {
	return func(s *Server) {
		s.registry = registry
	}
}

// WithDBPool exports the connection pool statistics on /metrics.
func WithDBPool(pool *pgxpool.Pool) ServerOption {
	return func(s *Server) {
		s.pool = pool
	}
}

func New(config config.Config, services Services, options ...ServerOption) (*Server, error) {
	if services.Auth == nil || services.Catalog == nil || services.Customers == nil || services.Orders == nil {
		return nil, fmt.Errorf("[Server New] all domain services are required")
	}
	if services.LoginLimiter == nil {
		return nil, fmt.Errorf("[Server New] a login rate limiter is required")
	}

	s := &Server{
		mux:       http.NewServeMux(),
		config:    config,
		services:  services,
		validator: validation.New(),
	}
	for _, option := range options {
		option(s)
	}
	s.env = config.GetEnv()
	s.proxies = config.GetTrustedProxies()
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}

	metrics, err := NewMetrics(s.registry, s.pool)
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to register metrics: %w", err)
	}
	s.metrics = metrics

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

// logRoutes prints the route table at debug level in DEV.
func (s *Server) logRoutes() {
	if s.env != config.EnvDevelopment {
		return
	}
	for _, route := range s.routes {
		method, path, found := strings.Cut(route, " ")
		if !found {
			method, path = "ANY", route
		}
		log.Debug().Str("method", method).Str("path", path).Msg("route registered")
	}
}
