package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry     *prometheus.Registry
	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	inflight     prometheus.Gauge
	authFailures *prometheus.CounterVec
	loginLimited prometheus.Counter
	corsRejects  prometheus.Counter
}

func NewMetrics(registry *prometheus.Registry, pool *pgxpool.Pool) (*Metrics, error) {
	m := &Metrics{
		registry: registry,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Requests currently being served.",
		}),
		authFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_failures_total",
			Help: "Rejected bearer tokens and role checks by reason.",
		}, []string{"reason"}),
		loginLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "auth_login_rate_limited_total",
			Help: "Login attempts rejected by the rate limiter.",
		}),
		corsRejects: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "http_cors_rejected_total",
			Help: "Requests from origins outside the allow list.",
		}),
	}

	reg := &registrar{registry: registry}
	m.requests = register(reg, m.requests)
	m.duration = register(reg, m.duration)
	m.inflight = register(reg, m.inflight)
	m.authFailures = register(reg, m.authFailures)
	m.loginLimited = register(reg, m.loginLimited)
	m.corsRejects = register(reg, m.corsRejects)
	if pool != nil {
		register[prometheus.Collector](reg, newDBPoolCollector(pool))
	}
	if reg.err != nil {
		return nil, reg.err
	}
	return m, nil
}

// registrar keeps the first registration error so the collectors can be
// registered one after another.
type registrar struct {
	registry *prometheus.Registry
	err      error
}

// register returns the collector that ends up serving the registry: c itself,
// or the one registered earlier by another Server sharing the registry.
func register[T prometheus.Collector](reg *registrar, c T) T {
	if reg.err != nil {
		return c
	}
	err := reg.registry.Register(c)
	if err == nil {
		return c
	}
	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		if existing, ok := already.ExistingCollector.(T); ok {
			return existing
		}
	}
	reg.err = err
	return c
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency. Routes are labelled by their
// mux pattern so path parameters do not explode the label set.
func (m *Metrics) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m.inflight.Inc()
		defer m.inflight.Dec()

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(rec.statusCode())).Inc()
		m.duration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	}
}

type dbPoolCollector struct {
	pool         *pgxpool.Pool
	totalConns   *prometheus.Desc
	idleConns    *prometheus.Desc
	acquired     *prometheus.Desc
	maxConns     *prometheus.Desc
	acquireCount *prometheus.Desc
}

func newDBPoolCollector(pool *pgxpool.Pool) *dbPoolCollector {
	return &dbPoolCollector{
		pool:         pool,
		totalConns:   prometheus.NewDesc("db_pool_total_conns", "Total connections in the pool.", nil, nil),
		idleConns:    prometheus.NewDesc("db_pool_idle_conns", "Idle connections in the pool.", nil, nil),
		acquired:     prometheus.NewDesc("db_pool_acquired_conns", "Connections currently in use.", nil, nil),
		maxConns:     prometheus.NewDesc("db_pool_max_conns", "Maximum pool size.", nil, nil),
		acquireCount: prometheus.NewDesc("db_pool_acquire_total", "Cumulative successful acquires.", nil, nil),
	}
}

func (c *dbPoolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.totalConns
	ch <- c.idleConns
	ch <- c.acquired
	ch <- c.maxConns
	ch <- c.acquireCount
}

func (c *dbPoolCollector) Collect(ch chan<- prometheus.Metric) {
	stat := c.pool.Stat()
	ch <- prometheus.MustNewConstMetric(c.totalConns, prometheus.GaugeValue, float64(stat.TotalConns()))
	ch <- prometheus.MustNewConstMetric(c.idleConns, prometheus.GaugeValue, float64(stat.IdleConns()))
	ch <- prometheus.MustNewConstMetric(c.acquired, prometheus.GaugeValue, float64(stat.AcquiredConns()))
	ch <- prometheus.MustNewConstMetric(c.maxConns, prometheus.GaugeValue, float64(stat.MaxConns()))
	ch <- prometheus.MustNewConstMetric(c.acquireCount, prometheus.CounterValue, float64(stat.AcquireCount()))
}
