package token

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// Signer signs tokens with one key and hands the same key back to the parser.
// Access and refresh tokens use separate signers so neither verifies as the
// other.
type Signer interface {
	Sign(claims jwt.Claims) (string, error)
	Keyfunc(parsed *jwt.Token) (any, error)
	Algorithm() string
}

// HMACSigner is an HS256 Signer over a shared secret.
type HMACSigner struct {
	secret []byte
}

var _ Signer = (*HMACSigner)(nil)

func NewHMACSigner(secret string) *HMACSigner {
	return &HMACSigner{secret: []byte(secret)}
}

func (s *HMACSigner) Sign(claims jwt.Claims) (string, error) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "[token.HMACSigner.Sign]")
	}
	return signed, nil
}

// Keyfunc refuses anything but HMAC so an "alg": "none" or RS256 header can
// never select a different verification path.
func (s *HMACSigner) Keyfunc(parsed *jwt.Token) (any, error) {
	if _, ok := parsed.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, errors.Errorf("unexpected signing method %v", parsed.Header["alg"])
	}
	return s.secret, nil
}

func (s *HMACSigner) Algorithm() string {
	return jwt.SigningMethodHS256.Alg()
}
