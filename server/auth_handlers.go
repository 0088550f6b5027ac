package server

import (
	"math"
	"net/http"
	"strconv"

	"github.com/jrsteele09/storefront-server/users"
	"github.com/rs/zerolog/log"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginResponse struct {
	AccessToken string        `json:"accessToken"`
	User        users.Profile `json:"user"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required,min=6"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
}

// LoginHandler exchanges admin credentials for an access token. The refresh
// token is only ever set as a cookie.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.allowLogin(w, r) {
			return
		}

		var req loginRequest
		if err := s.decodeAndValidate(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}

		result, err := s.services.Auth.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			writeError(w, r, err)
			return
		}

		s.setRefreshCookie(w, result.RefreshToken, result.RefreshExpiresAt)
		writeData(w, http.StatusOK, loginResponse{AccessToken: result.AccessToken, User: result.User})
	}
}

// allowLogin applies the per client login rate limit. A failing limiter lets
// the request through.
func (s *Server) allowLogin(w http.ResponseWriter, r *http.Request) bool {
	ip := s.clientIP(r)
	res, err := s.services.LoginLimiter.Allow(r.Context(), "login:"+ip)
	if err != nil {
		log.Err(err).Str("ip", ip).Msg("login rate limiter unavailable")
		return true
	}
	if res.Allowed {
		return true
	}

	s.metrics.loginLimited.Inc()
	log.Warn().Str("ip", ip).Int64("hits", res.CurrentHits).Msg("login rate limit exceeded")
	w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(res.RetryAfter.Seconds()))))
	writeMessage(w, http.StatusTooManyRequests, msgTooManyLogins)
	return false
}

// LogoutHandler always succeeds and expires the refresh cookie.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.clearRefreshCookie(w)
		writeJSON(w, http.StatusOK, response{Success: true, Message: "Logged out successfully"})
	}
}

func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := s.services.Auth.Refresh(r.Context(), s.refreshCookie(r))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeData(w, http.StatusOK, result)
	}
}

func (s *Server) ProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			writeMessage(w, http.StatusUnauthorized, msgNotAuthed)
			return
		}

		profile, err := s.services.Auth.Profile(r.Context(), claims.UserID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeData(w, http.StatusOK, profile)
	}
}

func (s *Server) ChangePasswordHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			writeMessage(w, http.StatusUnauthorized, msgNotAuthed)
			return
		}

		var req changePasswordRequest
		if err := s.decodeAndValidate(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}

		if err := s.services.Auth.ChangePassword(r.Context(), claims.UserID, req.CurrentPassword, req.NewPassword); err != nil {
			writeError(w, r, err)
			return
		}
		writeData(w, http.StatusOK, map[string]string{"message": "Password updated successfully"})
	}
}
