// Package app wires configuration, storage and the domain services together
// for the server binary and the admin CLI.
package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jrsteele09/storefront-server/auth"
	"github.com/jrsteele09/storefront-server/catalog"
	pgcatalog "github.com/jrsteele09/storefront-server/catalog/postgres"
	fakecatalogrepo "github.com/jrsteele09/storefront-server/catalog/repofake"
	"github.com/jrsteele09/storefront-server/customers"
	pgcustomers "github.com/jrsteele09/storefront-server/customers/postgres"
	fakecustomerrepo "github.com/jrsteele09/storefront-server/customers/repofake"
	"github.com/jrsteele09/storefront-server/internal/config"
	"github.com/jrsteele09/storefront-server/internal/database"
	"github.com/jrsteele09/storefront-server/orders"
	pgorders "github.com/jrsteele09/storefront-server/orders/postgres"
	fakeorderrepo "github.com/jrsteele09/storefront-server/orders/repofake"
	"github.com/jrsteele09/storefront-server/ratelimit"
	"github.com/jrsteele09/storefront-server/server"
	"github.com/jrsteele09/storefront-server/token"
	"github.com/jrsteele09/storefront-server/users"
	pgusers "github.com/jrsteele09/storefront-server/users/postgres"
	fakeuserrepo "github.com/jrsteele09/storefront-server/users/repofake"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const loginLimiterPrefix = "storefront:ratelimit:"

type Repos struct {
	Users     users.UserRepo
	Catalog   catalog.Repo
	Customers customers.Repo
	Orders    orders.Repo
}

type App struct {
	Config   config.Config
	Pool     *pgxpool.Pool // nil when running on the in-memory stores
	Redis    *redis.Client // nil when the login limiter is in-process
	Repos    Repos
	Services server.Services
}

// Build connects to postgres when DATABASE_URL is set and falls back to the
// in-memory stores otherwise.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	a := &App{Config: cfg}
	if dsn := cfg.GetDatabaseURL(); dsn != "" {
		pool, err := database.Open(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("[app.Build] %w", err)
		}
		a.Pool = pool
		a.Repos = Repos{
			Users:     pgusers.NewUserRepo(pool),
			Catalog:   pgcatalog.NewCatalogRepo(pool),
			Customers: pgcustomers.NewCustomerRepo(pool),
			Orders:    pgorders.NewOrderRepo(pool),
		}
	} else {
		log.Warn().Msg("DATABASE_URL not set, using in-memory stores; data is lost on restart")
		a.Repos = Repos{
			Users:     fakeuserrepo.NewFakeUserRepo(),
			Catalog:   fakecatalogrepo.NewFakeCatalogRepo(),
			Customers: fakecustomerrepo.NewFakeCustomerRepo(),
			Orders:    fakeorderrepo.NewFakeOrderRepo(),
		}
	}

	tokens, err := newTokenManager(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	authService, err := auth.NewAuthService(auth.Repos{Users: a.Repos.Users}, tokens, auth.WithPasswordCost(cfg.GetBcryptCost()))
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("[app.Build] %w", err)
	}

	limiter, err := a.newLoginLimiter(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	catalogService := catalog.NewService(a.Repos.Catalog)
	customerService := customers.NewService(a.Repos.Customers, a.Repos.Orders, catalogService)
	a.Services = server.Services{
		Auth:         authService,
		Catalog:      catalogService,
		Customers:    customerService,
		Orders:       orders.NewService(a.Repos.Orders, catalogService, customerService),
		LoginLimiter: limiter,
	}
	return a, nil
}

// BootstrapAdmin provisions the configured super admin. Only a generated
// password is logged, once.
func (a *App) BootstrapAdmin(ctx context.Context) error {
	email := a.Config.GetBootstrapAdminEmail()
	if email == "" {
		return nil
	}
	user, generated, err := auth.EnsureAdmin(ctx, a.Repos.Users, auth.AdminSpec{
		Email:     email,
		Password:  a.Config.GetBootstrapAdminPassword(),
		FirstName: "System",
		LastName:  "Administrator",
		Role:      users.RoleSuperAdmin,
	}, a.Config.GetBcryptCost())
	if err != nil {
		return fmt.Errorf("[app.BootstrapAdmin] %w", err)
	}
	if generated != "" {
		log.Warn().Str("email", user.Email).Str("password", generated).Msg("super admin created, change this password after the first login")
	}
	return nil
}

func (a *App) Close() {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			log.Err(err).Msg("failed to close redis client")
		}
	}
	if a.Pool != nil {
		a.Pool.Close()
	}
}

func (a *App) newLoginLimiter(ctx context.Context) (ratelimit.Limiter, error) {
	limit, window := a.Config.GetLoginRateLimit(), a.Config.GetLoginRateWindow()
	addr := a.Config.GetRedisAddr()
	if addr == "" {
		return ratelimit.NewMemoryLimiter(limit, window), nil
	}

	client := redis.NewClient(&redis.Options{Addr: addr, DB: a.Config.GetRedisDB()})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("[app.Build] redis ping failed: %w", err)
	}
	a.Redis = client
	return ratelimit.NewRedisLimiter(client, loginLimiterPrefix, limit, window), nil
}

// newTokenManager uses the configured secrets. Outside production missing
// secrets are replaced by random ones, which invalidates every token on restart.
func newTokenManager(cfg config.Config) (*token.Manager, error) {
	access, refresh := cfg.GetAccessTokenSecret(), cfg.GetRefreshTokenSecret()
	if !cfg.IsProduction() && (access == "" || refresh == "") {
		log.Warn().Msg("JWT secrets not set, using random secrets for this process")
		access, refresh = randomSecret(), randomSecret()
	}
	tokens, err := token.New(access, refresh, token.WithTokenExpiry(cfg.GetAccessTokenExpiry(), cfg.GetRefreshTokenExpiry()))
	if err != nil {
		return nil, fmt.Errorf("[app.Build] %w", err)
	}
	return tokens, nil
}

func randomSecret() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
