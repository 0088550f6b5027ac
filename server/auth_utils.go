package server

import (
	"net"
	"net/http"
	"strings"
	"time"
)

// setRefreshCookie stores the refresh token in an HttpOnly cookie. It never
// appears in a response body.
func (s *Server) setRefreshCookie(w http.ResponseWriter, refreshToken string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.config.GetRefreshCookieName(),
		Value:    refreshToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.config.GetSecureCookies(),
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(s.config.GetRefreshTokenExpiry().Seconds()),
		Expires:  expiresAt,
	})
}

func (s *Server) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.config.GetRefreshCookieName(),
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.config.GetSecureCookies(),
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	})
}

func (s *Server) refreshCookie(r *http.Request) string {
	cookie, err := r.Cookie(s.config.GetRefreshCookieName())
	if err != nil {
		return ""
	}
	return cookie.Value
}

// clientIP keys a request by its connection address. X-Forwarded-For is only
// read when that address is a trusted proxy, walking the hops right to left
// and returning the first one not owned by a trusted proxy.
func (s *Server) clientIP(r *http.Request) string {
	remote := remoteHost(r)
	if !s.proxies.Contains(remote) {
		return remote
	}
	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop != "" && !s.proxies.Contains(hop) {
			return hop
		}
	}
	return remote
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
