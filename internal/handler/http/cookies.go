package http

import (
	"net/http"
	"time"

	"github.com/gatherly/identity/internal/domain"
)

// Cookie names for the browser session. The same tokens also appear in the
// response body for non-browser clients.
const (
	accessTokenCookie  = "access_token"
	refreshTokenCookie = "refresh_token"
)

// CookieConfig controls the session cookie attributes.
type CookieConfig struct {
	// Secure marks cookies as HTTPS-only. Disabled only for local setups
	// without TLS.
	Secure bool
}

// setSessionCookies writes both token cookies. Each cookie lives exactly as
// long as the token it carries.
func setSessionCookies(w http.ResponseWriter, cfg CookieConfig, tokens *domain.TokenPair) {
	now := time.Now().UTC()

	http.SetCookie(w, sessionCookie(cfg, accessTokenCookie, tokens.AccessToken, tokens.AccessTokenExpiresAt.Sub(now)))
	http.SetCookie(w, sessionCookie(cfg, refreshTokenCookie, tokens.RefreshToken, tokens.RefreshTokenExpiresAt.Sub(now)))
}

// clearSessionCookies expires both token cookies.
func clearSessionCookies(w http.ResponseWriter, cfg CookieConfig) {
	http.SetCookie(w, sessionCookie(cfg, accessTokenCookie, "", -time.Second))
	http.SetCookie(w, sessionCookie(cfg, refreshTokenCookie, "", -time.Second))
}

func sessionCookie(cfg CookieConfig, name, value string, maxAge time.Duration) *http.Cookie {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteStrictMode,
	}
	if maxAge > 0 {
		c.MaxAge = int(maxAge / time.Second)
	} else {
		c.MaxAge = -1
	}
	return c
}

// refreshTokenFromRequest returns the refresh token from the request body
// value when present, falling back to the refresh_token cookie.
func refreshTokenFromRequest(r *http.Request, bodyToken string) string {
	if bodyToken != "" {
		return bodyToken
	}
	if cookie, err := r.Cookie(refreshTokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}
