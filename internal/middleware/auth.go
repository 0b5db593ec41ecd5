package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Strob0t/StayForge/internal/domain/backoffice"
	"github.com/Strob0t/StayForge/internal/service"
)

type authUserCtxKey struct{}

// publicPaths are exempt from authentication.
var publicPaths = map[string]bool{
	"/health":            true,
	"/api/v1/auth/login": true,
}

// Auth returns middleware that validates Bearer token credentials and
// stores the authenticated backoffice user in the request context.
func Auth(authSvc *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if publicPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			// WebSocket auth via ?token= query parameter: browsers cannot
			// set headers on WebSocket upgrade requests.
			token := ""
			if r.URL.Path == "/ws" {
				token = r.URL.Query().Get("token")
			} else {
				authHeader := r.Header.Get("Authorization")
				if authHeader != "" {
					token = strings.TrimPrefix(authHeader, "Bearer ")
					if token == authHeader {
						http.Error(w, `{"error":"invalid authorization header"}`, http.StatusUnauthorized)
						return
					}
				}
			}
			if token == "" {
				http.Error(w, `{"error":"authorization required"}`, http.StatusUnauthorized)
				return
			}

			claims, err := authSvc.ValidateAccessToken(token)
			if err != nil {
				http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusUnauthorized)
				return
			}

			u := &backoffice.User{
				ID:     claims.UserID,
				Email:  claims.Email,
				Name:   claims.Name,
				Role:   claims.Role,
				Status: backoffice.StatusActive,
			}

			ctx := context.WithValue(r.Context(), authUserCtxKey{}, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the authenticated user from the request context.
func UserFromContext(ctx context.Context) *backoffice.User {
	u, _ := ctx.Value(authUserCtxKey{}).(*backoffice.User)
	return u
}

// WithUser stores a backoffice user in the context. Used by handlers that
// perform their own token extraction and by tests.
func WithUser(ctx context.Context, u *backoffice.User) context.Context {
	return context.WithValue(ctx, authUserCtxKey{}, u)
}
