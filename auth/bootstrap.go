package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/jrsteele09/storefront-server/users"
	"github.com/pkg/errors"
)

// AdminSpec describes a dashboard principal to provision.
type AdminSpec struct {
	Email     string
	Password  string // empty generates a random password
	FirstName string
	LastName  string
	Role      users.Role
}

// EnsureAdmin creates the principal unless one with the same email already
// exists. When the password was generated it is returned so it can be shown
// once; otherwise the returned password is empty.
func EnsureAdmin(ctx context.Context, repo users.UserRepo, spec AdminSpec, cost int) (user *users.User, generatedPassword string, err error) {
	spec.Email = users.NormalizeEmail(spec.Email)
	if spec.Email == "" {
		return nil, "", errors.New("[auth.EnsureAdmin] email is required")
	}
	if !spec.Role.IsAdmin() {
		return nil, "", fmt.Errorf("[auth.EnsureAdmin] role %q cannot use the dashboard", spec.Role)
	}

	existing, err := repo.GetByEmail(ctx, spec.Email)
	if err == nil {
		return existing, "", nil
	}
	if !errors.Is(err, users.ErrUserNotFound) {
		return nil, "", errors.Wrap(err, "[auth.EnsureAdmin] GetByEmail")
	}

	password := spec.Password
	if password == "" {
		passwordBytes := make([]byte, 16)
		if _, err := rand.Read(passwordBytes); err != nil {
			return nil, "", errors.Wrap(err, "[auth.EnsureAdmin] failed to generate password")
		}
		password = base64.RawURLEncoding.EncodeToString(passwordBytes)
		generatedPassword = password
	} else if err := users.ValidatePasswordStrength(password); err != nil {
		return nil, "", err
	}

	hash, err := users.HashPasswordWithCost(password, cost)
	if err != nil {
		return nil, "", errors.Wrap(err, "[auth.EnsureAdmin] failed to hash password")
	}

	user = &users.User{
		Email:        spec.Email,
		PasswordHash: hash,
		FirstName:    spec.FirstName,
		LastName:     spec.LastName,
		Role:         spec.Role,
		IsActive:     true,
	}
	if err := repo.Upsert(ctx, user); err != nil {
		return nil, "", errors.Wrap(err, "[auth.EnsureAdmin] failed to create admin")
	}
	return user, generatedPassword, nil
}
