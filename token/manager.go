package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	DefaultAccessTokenExpiry  = 15 * time.Minute
	DefaultRefreshTokenExpiry = 7 * 24 * time.Hour
)

// Pair is issued at login: a short-lived access token and the refresh token
// that stands in for the session.
type Pair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// Manager issues and verifies access and refresh tokens. Each kind is signed
// with its own secret so a leaked access secret cannot mint refresh tokens.
type Manager struct {
	accessSigner       Signer
	refreshSigner      Signer
	accessTokenExpiry  time.Duration
	refreshTokenExpiry time.Duration
	nowFunc            func() time.Time
}

type ManagerOption func(*Manager)

func WithTokenExpiry(accessTokenExpiry, refreshTokenExpiry time.Duration) ManagerOption {
	return func(m *Manager) {
		if accessTokenExpiry > 0 {
			m.accessTokenExpiry = accessTokenExpiry
		}
		if refreshTokenExpiry > 0 {
			m.refreshTokenExpiry = refreshTokenExpiry
		}
	}
}

func WithNowFunc(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowFunc = now
	}
}

func New(accessSecret, refreshSecret string, options ...ManagerOption) (*Manager, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, errors.New("[token.New] access and refresh secrets are required")
	}
	if accessSecret == refreshSecret {
		return nil, errors.New("[token.New] access and refresh secrets must differ")
	}

	m := &Manager{
		accessSigner:       NewHMACSigner(accessSecret),
		refreshSigner:      NewHMACSigner(refreshSecret),
		accessTokenExpiry:  DefaultAccessTokenExpiry,
		refreshTokenExpiry: DefaultRefreshTokenExpiry,
		nowFunc:            time.Now,
	}
	for _, opt := range options {
		opt(m)
	}
	return m, nil
}

func (m *Manager) AccessTokenExpiry() time.Duration {
	return m.accessTokenExpiry
}

func (m *Manager) RefreshTokenExpiry() time.Duration {
	return m.refreshTokenExpiry
}

// IssuePair mints an access and a refresh token for the same subject.
func (m *Manager) IssuePair(subject Subject) (*Pair, error) {
	access, accessExp, err := m.IssueAccessToken(subject)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := m.issue(subject, TypeRefresh, m.refreshSigner, m.refreshTokenExpiry)
	if err != nil {
		return nil, errors.Wrap(err, "[Manager.IssuePair] refresh token")
	}
	return &Pair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (m *Manager) IssueAccessToken(subject Subject) (string, time.Time, error) {
	raw, exp, err := m.issue(subject, TypeAccess, m.accessSigner, m.accessTokenExpiry)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "[Manager.IssueAccessToken]")
	}
	return raw, exp, nil
}

// VerifyAccessToken checks signature, expiry and that the token is tagged as
// an access token.
func (m *Manager) VerifyAccessToken(raw string) (*Claims, error) {
	return m.verify(raw, TypeAccess, m.accessSigner)
}

// VerifyRefreshToken checks signature, expiry and that the token is tagged as
// a refresh token.
func (m *Manager) VerifyRefreshToken(raw string) (*Claims, error) {
	return m.verify(raw, TypeRefresh, m.refreshSigner)
}

// Refresh exchanges a valid refresh token for a new access token. The refresh
// token itself is not rotated.
func (m *Manager) Refresh(rawRefreshToken string) (string, time.Time, error) {
	claims, err := m.VerifyRefreshToken(rawRefreshToken)
	if err != nil {
		return "", time.Time{}, err
	}
	return m.IssueAccessToken(claims.Subject())
}

func (m *Manager) issue(subject Subject, tokenType Type, signer Signer, expiry time.Duration) (string, time.Time, error) {
	now := m.nowFunc()
	exp := now.Add(expiry)
	claims := &Claims{
		UserID: subject.UserID,
		Email:  subject.Email,
		Role:   subject.Role,
		Type:   tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.New().String(),
		},
	}
	raw, err := signer.Sign(claims)
	if err != nil {
		return "", time.Time{}, err
	}
	return raw, exp, nil
}

func (m *Manager) verify(raw string, want Type, signer Signer) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, signer.Keyfunc,
		jwt.WithValidMethods([]string{signer.Algorithm()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.nowFunc),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, errors.Wrap(ErrTokenInvalid, err.Error())
	}
	if !parsed.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.Type != want {
		return nil, ErrInvalidTokenType
	}
	return claims, nil
}
