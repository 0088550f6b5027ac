package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/jrsteele09/storefront-server/auth"
	apperrors "github.com/jrsteele09/storefront-server/internal/errors"
	"github.com/jrsteele09/storefront-server/internal/paging"
	"github.com/jrsteele09/storefront-server/token"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	maxBodyBytes = 1 << 20

	msgInternalError  = "Internal server error"
	msgInvalidBody    = "Invalid request body"
	msgNoToken        = "No token provided"
	msgNotAuthed      = "Not authenticated"
	msgAccessDenied   = "Access denied"
	msgSuperAdminOnly = "Super admin access required"
	msgTooManyLogins  = "Too many login attempts, please try again later"
)

// response is the envelope every API endpoint answers with.
type response struct {
	Success    bool               `json:"success"`
	Data       any                `json:"data,omitempty"`
	Message    string             `json:"message,omitempty"`
	Error      string             `json:"error,omitempty"`
	Pagination *paging.Pagination `json:"pagination,omitempty"`
}

// errorMappings covers the sentinel errors that are not AppErrors.
var errorMappings = []struct {
	err     error
	status  int
	message string
}{
	{auth.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},
	{auth.ErrNoRefreshToken, http.StatusUnauthorized, "No refresh token provided"},
	{auth.ErrInvalidRefreshToken, http.StatusUnauthorized, "Invalid refresh token"},
	{auth.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{auth.ErrIncorrectPassword, http.StatusBadRequest, "Current password is incorrect"},
	{auth.ErrPasswordTooShort, http.StatusBadRequest, "New password must be at least 8 characters"},
	{token.ErrTokenExpired, http.StatusUnauthorized, "Token expired"},
	{token.ErrInvalidTokenType, http.StatusUnauthorized, "Invalid token type"},
	{token.ErrTokenInvalid, http.StatusUnauthorized, "Invalid token"},
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Err(err).Msg("failed to encode response")
	}
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, response{Success: true, Data: data})
}

func writePage[T any](w http.ResponseWriter, page paging.Page[T]) {
	writeJSON(w, http.StatusOK, response{Success: true, Data: page.Data, Pagination: &page.Pagination})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, response{Success: false, Error: message})
}

// writeError renders err as {success:false, error}. Errors without a known
// mapping are logged and reported as a bare 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := statusAndMessage(err)
	if status == http.StatusInternalServerError {
		log.Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
	}
	writeMessage(w, status, message)
}

func statusAndMessage(err error) (int, string) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Status, appErr.Message
	}
	for _, mapping := range errorMappings {
		if errors.Is(err, mapping.err) {
			return mapping.status, mapping.message
		}
	}
	return http.StatusInternalServerError, msgInternalError
}

// decodeJSON reads a bounded JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.BadRequest(msgInvalidBody)
		}
		return &apperrors.AppError{Status: http.StatusBadRequest, Message: msgInvalidBody, Err: err}
	}
	return nil
}

// decodeAndValidate decodes the body and runs the struct validation tags.
func (s *Server) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := decodeJSON(w, r, dst); err != nil {
		return err
	}
	return s.validator.Validate(dst)
}
