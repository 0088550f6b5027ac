package config

import "time"

type AuthConfig interface {
	GetAccessTokenSecret() string
	GetRefreshTokenSecret() string
	GetAccessTokenExpiry() time.Duration
	GetRefreshTokenExpiry() time.Duration
	GetBcryptCost() int
	GetRefreshCookieName() string
	GetSecureCookies() bool
	GetBootstrapAdminEmail() string
	GetBootstrapAdminPassword() string
}

type Auth struct{}

var _ AuthConfig = Auth{}

func (Auth) GetAccessTokenSecret() string {
	return GetEnv("JWT_ACCESS_SECRET", "")
}

func (Auth) GetRefreshTokenSecret() string {
	return GetEnv("JWT_REFRESH_SECRET", "")
}

func (Auth) GetAccessTokenExpiry() time.Duration {
	return 15 * time.Minute
}

func (Auth) GetRefreshTokenExpiry() time.Duration {
	return 7 * 24 * time.Hour // 7 days
}

func (Auth) GetBcryptCost() int {
	return 12
}

func (Auth) GetRefreshCookieName() string {
	return "refreshToken"
}

// GetSecureCookies marks the refresh cookie Secure in production only, so the
// admin app can be developed against plain http on localhost.
func (Auth) GetSecureCookies() bool {
	return EnvVars{}.IsProduction()
}

// GetBootstrapAdminEmail names the super admin created at startup when no
// principal with that email exists. Empty disables the bootstrap.
func (Auth) GetBootstrapAdminEmail() string {
	return GetEnv("SUPER_ADMIN_EMAIL", "")
}

// GetBootstrapAdminPassword is optional; a random one is generated and logged
// once when it is empty.
func (Auth) GetBootstrapAdminPassword() string {
	return GetEnv("SUPER_ADMIN_PASSWORD", "")
}
