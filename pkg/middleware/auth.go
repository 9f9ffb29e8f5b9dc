package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

type contextKeyType string

const authUserKey contextKeyType = "auth_user"

// AuthUser is the verified identity extracted by the auth middleware.
type AuthUser struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	DisplayName *string `json:"display_name"`
}

// TokenValidator verifies an access token and returns the identity it proves.
// The service injects its own verification logic.
type TokenValidator func(token string) (*AuthUser, error)

// accessTokenCookie is the fallback bearer source for browser clients.
const accessTokenCookie = "access_token"

// ExtractBearer returns the access token from the Authorization header, or
// from the access_token cookie when no header is present. An empty string
// means no credential was supplied.
func ExtractBearer(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}

	if cookie, err := r.Cookie(accessTokenCookie); err == nil {
		return cookie.Value
	}

	return ""
}

// Auth validates the bearer credential and injects the verified identity into
// the request context. Requests without a valid credential get a 401.
func Auth(validate TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractBearer(r)
			if token == "" {
				writeAuthError(w, "missing credentials")
				return
			}

			user, err := validate(token)
			if err != nil {
				writeAuthError(w, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), authUserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AuthUserFromContext extracts the verified identity from the request
// context, or nil when the request did not pass the Auth middleware.
func AuthUserFromContext(ctx context.Context) *AuthUser {
	if u, ok := ctx.Value(authUserKey).(*AuthUser); ok {
		return u
	}
	return nil
}

func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"code":    "UNAUTHORIZED",
		"message": message,
	})
}
