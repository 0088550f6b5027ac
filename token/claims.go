package token

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/storefront-server/users"
)

// Type tags a token as access or refresh. Both share the same payload shape,
// so the tag is the only thing telling them apart.
type Type string

const (
	TypeAccess  Type = "access"
	TypeRefresh Type = "refresh"
)

var (
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenInvalid     = errors.New("invalid token")
	ErrInvalidTokenType = errors.New("invalid token type")
)

// Claims is the payload of both access and refresh tokens.
type Claims struct {
	UserID string     `json:"userId"`
	Email  string     `json:"email"`
	Role   users.Role `json:"role"`
	Type   Type       `json:"type"`
	jwt.RegisteredClaims
}

// Subject is the principal data baked into a token.
type Subject struct {
	UserID string
	Email  string
	Role   users.Role
}

func SubjectOf(u *users.User) Subject {
	return Subject{UserID: u.ID, Email: u.Email, Role: u.Role}
}

func (c *Claims) Subject() Subject {
	return Subject{UserID: c.UserID, Email: c.Email, Role: c.Role}
}
