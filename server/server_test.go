package server_test

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jrsteele09/storefront-server/auth"
	"github.com/jrsteele09/storefront-server/catalog"
	fakecatalogrepo "github.com/jrsteele09/storefront-server/catalog/repofake"
	"github.com/jrsteele09/storefront-server/customers"
	fakecustomerrepo "github.com/jrsteele09/storefront-server/customers/repofake"
	"github.com/jrsteele09/storefront-server/internal/config"
	"github.com/jrsteele09/storefront-server/internal/paging"
	"github.com/jrsteele09/storefront-server/orders"
	fakeorderrepo "github.com/jrsteele09/storefront-server/orders/repofake"
	"github.com/jrsteele09/storefront-server/ratelimit"
	"github.com/jrsteele09/storefront-server/server"
	"github.com/jrsteele09/storefront-server/token"
	"github.com/jrsteele09/storefront-server/users"
	fakeuserrepo "github.com/jrsteele09/storefront-server/users/repofake"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testPassword  = "correct-horse-battery"
	allowedOrigin = "https://admin.example.com"
	loginLimit    = 3
)

type testConfig struct {
	config.Config
}

func (testConfig) GetAllowedOrigins() config.AllowedOrigins {
	return config.ParseAllowedOrigins(allowedOrigin)
}

type envelope struct {
	Success    bool               `json:"success"`
	Data       json.RawMessage    `json:"data"`
	Message    string             `json:"message"`
	Error      string             `json:"error"`
	Pagination *paging.Pagination `json:"pagination"`
}

type testFixture struct {
	server   *server.Server
	tokens   *token.Manager
	userRepo *fakeuserrepo.FakeUserRepo
	now      time.Time
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()
	f := &testFixture{now: time.Date(2026, 6, 17, 14, 0, 0, 0, time.UTC)}
	clock := func() time.Time { return f.now }

	tokens, err := token.New("access-secret", "refresh-secret", token.WithNowFunc(clock))
	require.NoError(t, err)
	f.tokens = tokens

	f.userRepo = fakeuserrepo.NewFakeUserRepo()
	authService, err := auth.NewAuthService(auth.Repos{Users: f.userRepo}, tokens,
		auth.WithNowTime(clock), auth.WithPasswordCost(bcrypt.MinCost))
	require.NoError(t, err)

	orderRepo := fakeorderrepo.NewFakeOrderRepo().WithNowTime(clock)
	catalogService := catalog.NewService(fakecatalogrepo.NewFakeCatalogRepo().WithNowTime(clock))
	customerService := customers.NewService(fakecustomerrepo.NewFakeCustomerRepo().WithNowTime(clock), orderRepo,
		catalogService, customers.WithNowTime(clock))
	orderService := orders.NewService(orderRepo, catalogService, customerService, orders.WithNowTime(clock))

	f.server, err = server.New(testConfig{Config: config.New()}, server.Services{
		Auth:         authService,
		Catalog:      catalogService,
		Customers:    customerService,
		Orders:       orderService,
		LoginLimiter: ratelimit.NewMemoryLimiter(loginLimit, 15*time.Minute, ratelimit.WithNowTime(clock)),
	})
	require.NoError(t, err)
	return f
}

func (f *testFixture) addUser(t *testing.T, email string, role users.Role) *users.User {
	t.Helper()
	hash, err := users.HashPasswordWithCost(testPassword, bcrypt.MinCost)
	require.NoError(t, err)
	u := &users.User{Email: email, PasswordHash: hash, FirstName: "Test", LastName: "User", Role: role, IsActive: true}
	require.NoError(t, f.userRepo.Upsert(context.Background(), u))
	return u
}

// bearer returns an access token for a freshly created principal with role.
func (f *testFixture) bearer(t *testing.T, role users.Role) string {
	t.Helper()
	u := f.addUser(t, string(role)+"@example.com", role)
	pair, err := f.tokens.IssuePair(token.SubjectOf(u))
	require.NoError(t, err)
	return pair.AccessToken
}

type requestOption func(*http.Request)

func withBearer(accessToken string) requestOption {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+accessToken) }
}

func withHeader(key, value string) requestOption {
	return func(r *http.Request) { r.Header.Set(key, value) }
}

func withRemoteAddr(addr string) requestOption {
	return func(r *http.Request) { r.RemoteAddr = addr }
}

func withCookie(c *http.Cookie) requestOption {
	return func(r *http.Request) { r.AddCookie(c) }
}

func (f *testFixture) do(t *testing.T, method, path string, body any, options ...requestOption) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, option := range options {
		option(req)
	}
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var data T
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &data))
	return data
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestHealth(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(t, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	env := decode(t, rec)
	require.True(t, env.Success)
	require.Equal(t, "API is running", env.Message)

	require.Equal(t, "SAMEORIGIN", rec.Header().Get("X-Frame-Options"))
	require.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	require.Equal(t, "no-referrer", rec.Header().Get("Referrer-Policy"))
}

func TestUnknownRoute(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(t, http.MethodGet, "/api/nothing-here", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.False(t, decode(t, rec).Success)
}

func TestMetricsEndpoint(t *testing.T) {
	f := setupTestFixture(t)
	f.do(t, http.MethodGet, "/api/health", nil)

	rec := f.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `http_requests_total{method="GET",route="GET /api/health",status="200"} 1`)
}

func TestMetrics_SharedRegistry(t *testing.T) {
	registry := prometheus.NewRegistry()
	first, err := server.NewMetrics(registry, nil)
	require.NoError(t, err)
	second, err := server.NewMetrics(registry, nil)
	require.NoError(t, err)

	noContent := func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) }
	for _, m := range []*server.Metrics{first, second} {
		m.Middleware(noContent)(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))
	}

	rec := httptest.NewRecorder()
	second.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Contains(t, rec.Body.String(), `http_requests_total{method="GET",route="unmatched",status="204"} 2`)
}

func TestCors(t *testing.T) {
	f := setupTestFixture(t)

	t.Run("allowed origin is echoed with credentials", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/health", nil, withHeader("Origin", allowedOrigin))
		require.Equal(t, allowedOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
		require.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("unknown origin gets no CORS headers", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/health", nil, withHeader("Origin", "https://evil.example.com"))
		require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		rec := f.do(t, http.MethodOptions, "/api/admin/products", nil, withHeader("Origin", allowedOrigin))
		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "DELETE")
		require.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
	})
}

func gunzip(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	require.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
	zr, err := gzip.NewReader(rec.Body)
	require.NoError(t, err)
	raw, err := io.ReadAll(zr)
	require.NoError(t, err)
	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env))
	return env
}

func TestCompression(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(t, http.MethodGet, "/api/health", nil, withHeader("Accept-Encoding", "gzip"))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Values("Vary"), "Accept-Encoding")
	require.Equal(t, "API is running", gunzip(t, rec).Message)
}

func TestRecover_PanicUnderCompressionIsPlain500(t *testing.T) {
	f := setupTestFixture(t)
	handler := server.ChainMiddleware(func(http.ResponseWriter, *http.Request) {
		panic("handler failed")
	}, f.server.RecoverMiddleware, f.server.CompressionMiddleware)

	req := httptest.NewRequest(http.MethodGet, "/api/anything", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	handler(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Empty(t, rec.Header().Get("Content-Encoding"))
	require.Equal(t, "Internal server error", decode(t, rec).Error)
}
