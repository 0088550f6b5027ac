package auth

import (
	"context"
	"sync"
	"time"

	"github.com/jrsteele09/storefront-server/token"
	"github.com/jrsteele09/storefront-server/users"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const minPasswordLength = 8

// LoginResult is returned by a successful login. RefreshToken is meant for an
// HttpOnly cookie and must never be put in a response body.
type LoginResult struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
	User             users.Profile
}

type RefreshResult struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"-"`
}

// Repos holds all repository dependencies for the AuthService
type Repos struct {
	Users users.UserRepo
}

// AuthService authenticates dashboard principals and issues their tokens.
type AuthService struct {
	repos        Repos
	tokens       *token.Manager
	nowTime      func() time.Time
	passwordCost int

	dummyHashOnce sync.Once
	dummyHash     string
}

// AuthServiceOption defines a function type to modify the AuthService instance.
type AuthServiceOption func(*AuthService)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) AuthServiceOption {
	return func(as *AuthService) {
		as.nowTime = nowFunc
	}
}

// WithPasswordCost overrides the bcrypt cost used for new password hashes.
func WithPasswordCost(cost int) AuthServiceOption {
	return func(as *AuthService) {
		as.passwordCost = cost
	}
}

func NewAuthService(repos Repos, tokens *token.Manager, options ...AuthServiceOption) (*AuthService, error) {
	if repos.Users == nil {
		return nil, errors.New("[NewAuthService] Users repo is required")
	}
	if tokens == nil {
		return nil, errors.New("[NewAuthService] token manager is required")
	}

	as := &AuthService{
		repos:        repos,
		tokens:       tokens,
		nowTime:      time.Now,
		passwordCost: users.PasswordCost,
	}
	for _, opt := range options {
		opt(as)
	}
	return as, nil
}

// Login verifies the credentials of a dashboard principal and mints a token
// pair. Every failure collapses into ErrInvalidCredentials.
func (as *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := as.repos.Users.GetByEmail(ctx, users.NormalizeEmail(email))
	if err != nil {
		if !errors.Is(err, users.ErrUserNotFound) {
			return nil, errors.Wrap(err, "[AuthService.Login] GetByEmail")
		}
		// Burn the same bcrypt time as a real comparison.
		users.CheckPasswordHash(password, as.fallbackHash())
		return nil, ErrInvalidCredentials
	}

	if !users.CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive || !user.Role.IsAdmin() {
		return nil, ErrInvalidCredentials
	}

	pair, err := as.tokens.IssuePair(token.SubjectOf(user))
	if err != nil {
		return nil, errors.Wrap(err, "[AuthService.Login] IssuePair")
	}

	if err := as.repos.Users.SetLastLogin(ctx, user.ID, as.nowTime()); err != nil {
		log.Err(err).Str("user_id", user.ID).Msg("failed to record last login")
	}

	return &LoginResult{
		AccessToken:      pair.AccessToken,
		AccessExpiresAt:  pair.AccessExpiresAt,
		RefreshToken:     pair.RefreshToken,
		RefreshExpiresAt: pair.RefreshExpiresAt,
		User:             user.Profile(),
	}, nil
}

// Refresh derives a new access token from a still valid refresh token.
func (as *AuthService) Refresh(_ context.Context, refreshToken string) (*RefreshResult, error) {
	if refreshToken == "" {
		return nil, ErrNoRefreshToken
	}
	access, exp, err := as.tokens.Refresh(refreshToken)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidRefreshToken, err.Error())
	}
	return &RefreshResult{AccessToken: access, ExpiresAt: exp}, nil
}

// Authenticate verifies a bearer access token.
func (as *AuthService) Authenticate(accessToken string) (*token.Claims, error) {
	return as.tokens.VerifyAccessToken(accessToken)
}

func (as *AuthService) Profile(ctx context.Context, userID string) (*users.Profile, error) {
	user, err := as.repos.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrap(err, "[AuthService.Profile] GetByID")
	}
	profile := user.Profile()
	return &profile, nil
}

func (as *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return ErrPasswordTooShort
	}

	user, err := as.repos.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return errors.Wrap(err, "[AuthService.ChangePassword] GetByID")
	}

	if !users.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return ErrIncorrectPassword
	}

	hash, err := users.HashPasswordWithCost(newPassword, as.passwordCost)
	if err != nil {
		return errors.Wrap(err, "[AuthService.ChangePassword] HashPassword")
	}
	if err := as.repos.Users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return errors.Wrap(err, "[AuthService.ChangePassword] UpdatePassword")
	}
	return nil
}

func (as *AuthService) fallbackHash() string {
	as.dummyHashOnce.Do(func() {
		as.dummyHash, _ = users.HashPasswordWithCost("storefront-unknown-user", users.PasswordCost)
	})
	return as.dummyHash
}
