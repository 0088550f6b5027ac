package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/jrsteele09/storefront-server/auth"
	"github.com/jrsteele09/storefront-server/token"
	"github.com/jrsteele09/storefront-server/users"
	fakeuserrepo "github.com/jrsteele09/storefront-server/users/repofake"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "correct-horse-battery"

type testFixture struct {
	authService *auth.AuthService
	userRepo    *fakeuserrepo.FakeUserRepo
	tokens      *token.Manager
	now         time.Time
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tokens, err := token.New("access-secret", "refresh-secret", token.WithNowFunc(func() time.Time { return now }))
	require.NoError(t, err)

	userRepo := fakeuserrepo.NewFakeUserRepo()
	authService, err := auth.NewAuthService(
		auth.Repos{Users: userRepo},
		tokens,
		auth.WithNowTime(func() time.Time { return now }),
		auth.WithPasswordCost(bcrypt.MinCost),
	)
	require.NoError(t, err)

	return &testFixture{authService: authService, userRepo: userRepo, tokens: tokens, now: now}
}

func (f *testFixture) addUser(t *testing.T, email string, role users.Role, active bool) *users.User {
	t.Helper()
	hash, err := users.HashPasswordWithCost(testPassword, bcrypt.MinCost)
	require.NoError(t, err)
	u := &users.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    "Test",
		LastName:     "User",
		Role:         role,
		IsActive:     active,
	}
	require.NoError(t, f.userRepo.Upsert(context.Background(), u))
	return u
}

func TestNewAuthService_RequiresDependencies(t *testing.T) {
	tokens, err := token.New("a", "b")
	require.NoError(t, err)

	_, err = auth.NewAuthService(auth.Repos{}, tokens)
	require.Error(t, err)

	_, err = auth.NewAuthService(auth.Repos{Users: fakeuserrepo.NewFakeUserRepo()}, nil)
	require.Error(t, err)
}

func TestLogin_Success(t *testing.T) {
	f := setupTestFixture(t)
	u := f.addUser(t, "manager@example.com", users.RoleManager, true)

	result, err := f.authService.Login(context.Background(), "manager@example.com", testPassword)
	require.NoError(t, err)
	require.Equal(t, u.Profile(), result.User)
	require.Equal(t, f.now.Add(7*24*time.Hour), result.RefreshExpiresAt)

	claims, err := f.tokens.VerifyAccessToken(result.AccessToken)
	require.NoError(t, err)
	require.Equal(t, u.ID, claims.UserID)
	require.Equal(t, users.RoleManager, claims.Role)

	_, err = f.tokens.VerifyRefreshToken(result.RefreshToken)
	require.NoError(t, err)

	stored, err := f.userRepo.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastLoginAt)
	require.Equal(t, f.now, *stored.LastLoginAt)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	f := setupTestFixture(t)
	f.addUser(t, "admin@example.com", users.RoleAdmin, true)
	f.addUser(t, "inactive@example.com", users.RoleAdmin, false)
	f.addUser(t, "customer@example.com", users.RoleCustomer, true)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"unknown email", "nobody@example.com", testPassword},
		{"wrong password", "admin@example.com", "wrong-password"},
		{"inactive user", "inactive@example.com", testPassword},
		{"non admin role", "customer@example.com", testPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := f.authService.Login(context.Background(), tt.email, tt.password)
			require.Nil(t, result)
			require.ErrorIs(t, err, auth.ErrInvalidCredentials)
			require.Equal(t, auth.ErrInvalidCredentials.Error(), err.Error())
		})
	}
}

func TestRefresh(t *testing.T) {
	f := setupTestFixture(t)
	f.addUser(t, "admin@example.com", users.RoleAdmin, true)

	login, err := f.authService.Login(context.Background(), "admin@example.com", testPassword)
	require.NoError(t, err)

	refreshed, err := f.authService.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	claims, err := f.authService.Authenticate(refreshed.AccessToken)
	require.NoError(t, err)
	require.Equal(t, login.User.ID, claims.UserID)

	_, err = f.authService.Refresh(context.Background(), "")
	require.ErrorIs(t, err, auth.ErrNoRefreshToken)

	_, err = f.authService.Refresh(context.Background(), login.AccessToken)
	require.ErrorIs(t, err, auth.ErrInvalidRefreshToken)

	_, err = f.authService.Refresh(context.Background(), "garbage")
	require.ErrorIs(t, err, auth.ErrInvalidRefreshToken)
}

func TestProfile(t *testing.T) {
	f := setupTestFixture(t)
	u := f.addUser(t, "admin@example.com", users.RoleSuperAdmin, true)

	profile, err := f.authService.Profile(context.Background(), u.ID)
	require.NoError(t, err)
	require.Equal(t, u.Profile(), *profile)

	_, err = f.authService.Profile(context.Background(), "missing")
	require.ErrorIs(t, err, auth.ErrUserNotFound)
}

func TestChangePassword(t *testing.T) {
	f := setupTestFixture(t)
	u := f.addUser(t, "admin@example.com", users.RoleAdmin, true)
	ctx := context.Background()

	require.ErrorIs(t, f.authService.ChangePassword(ctx, u.ID, testPassword, "short"), auth.ErrPasswordTooShort)
	require.ErrorIs(t, f.authService.ChangePassword(ctx, u.ID, "not-the-password", "new-password-1"), auth.ErrIncorrectPassword)
	require.ErrorIs(t, f.authService.ChangePassword(ctx, "missing", testPassword, "new-password-1"), auth.ErrUserNotFound)

	require.NoError(t, f.authService.ChangePassword(ctx, u.ID, testPassword, "new-password-1"))

	_, err := f.authService.Login(ctx, "admin@example.com", testPassword)
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = f.authService.Login(ctx, "admin@example.com", "new-password-1")
	require.NoError(t, err)
}

func TestEnsureAdmin(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	user, generated, err := auth.EnsureAdmin(ctx, f.userRepo, auth.AdminSpec{
		Email: " Owner@Example.com ", FirstName: "Shop", LastName: "Owner", Role: users.RoleSuperAdmin,
	}, bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEmpty(t, generated)
	require.Equal(t, "owner@example.com", user.Email)

	result, err := f.authService.Login(ctx, "owner@example.com", generated)
	require.NoError(t, err)
	require.Equal(t, users.RoleSuperAdmin, result.User.Role)

	again, generated, err := auth.EnsureAdmin(ctx, f.userRepo, auth.AdminSpec{Email: "owner@example.com", Role: users.RoleAdmin}, bcrypt.MinCost)
	require.NoError(t, err)
	require.Empty(t, generated)
	require.Equal(t, user.ID, again.ID)
	require.Equal(t, users.RoleSuperAdmin, again.Role)
}

func TestEnsureAdmin_Rejects(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	_, _, err := auth.EnsureAdmin(ctx, f.userRepo, auth.AdminSpec{Email: "shopper@example.com", Role: users.RoleCustomer}, bcrypt.MinCost)
	require.Error(t, err)

	_, _, err = auth.EnsureAdmin(ctx, f.userRepo, auth.AdminSpec{Email: "weak@example.com", Password: "password", Role: users.RoleAdmin}, bcrypt.MinCost)
	require.Error(t, err)

	_, _, err = auth.EnsureAdmin(ctx, f.userRepo, auth.AdminSpec{Role: users.RoleAdmin}, bcrypt.MinCost)
	require.Error(t, err)
}

func TestLogin_MatchesEmailAsConfigured(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	_, _, err := auth.EnsureAdmin(ctx, f.userRepo, auth.AdminSpec{
		Email: "Owner@Shop.com", Password: "Sup3rSecret", Role: users.RoleSuperAdmin,
	}, bcrypt.MinCost)
	require.NoError(t, err)

	for _, email := range []string{"Owner@Shop.com", "owner@shop.com", "  OWNER@SHOP.COM "} {
		result, err := f.authService.Login(ctx, email, "Sup3rSecret")
		require.NoError(t, err, email)
		require.Equal(t, "owner@shop.com", result.User.Email)
	}
}
