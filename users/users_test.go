package users_test

import (
	"testing"

	"github.com/jrsteele09/storefront-server/users"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRole_IsAdmin(t *testing.T) {
	require.True(t, users.RoleAdmin.IsAdmin())
	require.True(t, users.RoleManager.IsAdmin())
	require.True(t, users.RoleSuperAdmin.IsAdmin())
	require.False(t, users.RoleCustomer.IsAdmin())
	require.False(t, users.Role("root").IsAdmin())
}

func TestParseRole(t *testing.T) {
	r, err := users.ParseRole(" Super_Admin ")
	require.NoError(t, err)
	require.Equal(t, users.RoleSuperAdmin, r)

	_, err = users.ParseRole("owner")
	require.Error(t, err)
}

func TestHashPassword_UsesCost12(t *testing.T) {
	hash, err := users.HashPassword("Sup3rSecret")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	require.Equal(t, users.PasswordCost, cost)

	require.True(t, users.CheckPasswordHash("Sup3rSecret", hash))
	require.False(t, users.CheckPasswordHash("sup3rsecret", hash))
	require.False(t, users.CheckPasswordHash("Sup3rSecret", ""))
}

func TestValidatePasswordStrength(t *testing.T) {
	require.NoError(t, users.ValidatePasswordStrength("Abcdefg1"))
	require.ErrorContains(t, users.ValidatePasswordStrength("Ab1"), "at least 8")
	require.ErrorContains(t, users.ValidatePasswordStrength("abcdefg1"), "uppercase")
	require.ErrorContains(t, users.ValidatePasswordStrength("ABCDEFG1"), "lowercase")
	require.ErrorContains(t, users.ValidatePasswordStrength("Abcdefgh"), "number")
}

func TestProfile_OmitsPasswordHash(t *testing.T) {
	u := &users.User{ID: "u1", Email: "a@b.c", PasswordHash: "secret", FirstName: "A", LastName: "B", Role: users.RoleAdmin}
	p := u.Profile()
	require.Equal(t, users.Profile{ID: "u1", Email: "a@b.c", FirstName: "A", LastName: "B", Role: users.RoleAdmin}, p)
}
