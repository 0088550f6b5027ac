package validation_test

import (
	"net/http"
	"testing"

	apperrors "github.com/jrsteele09/storefront-server/internal/errors"
	"github.com/jrsteele09/storefront-server/internal/validation"
	"github.com/stretchr/testify/require"
)

type loginBody struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6"`
	Price    float64 `json:"price" validate:"gt=0"`
}

func TestValidate(t *testing.T) {
	v := validation.New()

	require.NoError(t, v.Validate(loginBody{Email: "a@b.co", Password: "secret", Price: 1}))

	err := v.Validate(loginBody{Email: "nope", Password: "abc"})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, http.StatusBadRequest, appErr.Status)
	require.Equal(t,
		"email must be a valid email address; password must be at least 6 characters; price must be greater than 0",
		appErr.Message)
}
