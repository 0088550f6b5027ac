package token_test

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/storefront-server/token"
	"github.com/jrsteele09/storefront-server/users"
	"github.com/stretchr/testify/require"
)

const (
	accessSecret  = "access-secret-for-tests"
	refreshSecret = "refresh-secret-for-tests"
)

// testClock is a settable clock shared by the manager under test.
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newManager(t *testing.T) (*token.Manager, *testClock) {
	t.Helper()
	clock := &testClock{now: time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)}
	m, err := token.New(accessSecret, refreshSecret, token.WithNowFunc(clock.Now))
	require.NoError(t, err)
	return m, clock
}

var testSubject = token.Subject{UserID: "user-1", Email: "admin@example.com", Role: users.RoleManager}

func TestNew_RequiresDistinctSecrets(t *testing.T) {
	_, err := token.New("", refreshSecret)
	require.Error(t, err)

	_, err = token.New("same", "same")
	require.Error(t, err)
}

func TestIssuePair_TypesAndClaims(t *testing.T) {
	m, clock := newManager(t)

	pair, err := m.IssuePair(testSubject)
	require.NoError(t, err)
	require.Equal(t, clock.now.Add(15*time.Minute), pair.AccessExpiresAt)
	require.Equal(t, clock.now.Add(7*24*time.Hour), pair.RefreshExpiresAt)

	access, err := m.VerifyAccessToken(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, token.TypeAccess, access.Type)
	require.Equal(t, testSubject, access.Subject())

	refresh, err := m.VerifyRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, token.TypeRefresh, refresh.Type)
	require.Equal(t, testSubject, refresh.Subject())
	require.NotEqual(t, access.ID, refresh.ID)
}

func TestVerifyAccessToken_Expiry(t *testing.T) {
	m, clock := newManager(t)
	pair, err := m.IssuePair(testSubject)
	require.NoError(t, err)

	clock.Advance(14 * time.Minute)
	_, err = m.VerifyAccessToken(pair.AccessToken)
	require.NoError(t, err)

	clock.Advance(time.Minute + time.Second)
	_, err = m.VerifyAccessToken(pair.AccessToken)
	require.ErrorIs(t, err, token.ErrTokenExpired)
}

func TestVerifyRefreshToken_Expiry(t *testing.T) {
	m, clock := newManager(t)
	pair, err := m.IssuePair(testSubject)
	require.NoError(t, err)

	clock.Advance(6 * 24 * time.Hour)
	_, err = m.VerifyRefreshToken(pair.RefreshToken)
	require.NoError(t, err)

	clock.Advance(24*time.Hour + time.Second)
	_, err = m.VerifyRefreshToken(pair.RefreshToken)
	require.ErrorIs(t, err, token.ErrTokenExpired)
}

func TestCrossPresentation_FailsSignature(t *testing.T) {
	m, _ := newManager(t)
	pair, err := m.IssuePair(testSubject)
	require.NoError(t, err)

	_, err = m.VerifyAccessToken(pair.RefreshToken)
	require.ErrorIs(t, err, token.ErrTokenInvalid)

	_, err = m.VerifyRefreshToken(pair.AccessToken)
	require.ErrorIs(t, err, token.ErrTokenInvalid)
}

func TestVerifyAccessToken_WrongTypeWithValidSignature(t *testing.T) {
	m, clock := newManager(t)

	// A refresh-typed payload signed with the access secret passes the
	// signature check and must still be refused.
	forged := &token.Claims{
		UserID: testSubject.UserID,
		Email:  testSubject.Email,
		Role:   testSubject.Role,
		Type:   token.TypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(clock.now),
			ExpiresAt: jwt.NewNumericDate(clock.now.Add(time.Hour)),
		},
	}
	raw, err := token.NewHMACSigner(accessSecret).Sign(forged)
	require.NoError(t, err)

	_, err = m.VerifyAccessToken(raw)
	require.ErrorIs(t, err, token.ErrInvalidTokenType)
}

func TestVerifyAccessToken_Malformed(t *testing.T) {
	m, _ := newManager(t)

	_, err := m.VerifyAccessToken("not-a-jwt")
	require.ErrorIs(t, err, token.ErrTokenInvalid)

	pair, err := m.IssuePair(testSubject)
	require.NoError(t, err)
	parts := strings.Split(pair.AccessToken, ".")
	tampered := parts[0] + "." + parts[1] + ".c2lnbmF0dXJl"
	_, err = m.VerifyAccessToken(tampered)
	require.ErrorIs(t, err, token.ErrTokenInvalid)
}

func TestVerifyAccessToken_RejectsNoneAlgorithm(t *testing.T) {
	m, clock := newManager(t)
	claims := &token.Claims{
		UserID: "user-1",
		Type:   token.TypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(clock.now.Add(time.Hour)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = m.VerifyAccessToken(raw)
	require.ErrorIs(t, err, token.ErrTokenInvalid)
}

func TestRefresh_IssuesNewAccessTokenOnly(t *testing.T) {
	m, clock := newManager(t)
	pair, err := m.IssuePair(testSubject)
	require.NoError(t, err)

	clock.Advance(3 * 24 * time.Hour)
	access, exp, err := m.Refresh(pair.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, clock.now.Add(15*time.Minute), exp)

	claims, err := m.VerifyAccessToken(access)
	require.NoError(t, err)
	require.Equal(t, testSubject, claims.Subject())

	// The original refresh token keeps its original expiry.
	clock.Advance(4*24*time.Hour + time.Second)
	_, _, err = m.Refresh(pair.RefreshToken)
	require.ErrorIs(t, err, token.ErrTokenExpired)
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	m, _ := newManager(t)
	pair, err := m.IssuePair(testSubject)
	require.NoError(t, err)

	_, _, err = m.Refresh(pair.AccessToken)
	require.Error(t, err)
}
