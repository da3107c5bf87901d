// File: internal/infra/web/auth.go
package web

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

type authCtxKey string

const (
	ctxUserID    authCtxKey = "user_id"
	ctxUserEmail authCtxKey = "user_email"
)

func UserID(ctx context.Context) string {
	v, _ := ctx.Value(ctxUserID).(string)
	return v
}

func UserEmail(ctx context.Context) string {
	v, _ := ctx.Value(ctxUserEmail).(string)
	return v
}

type supabaseClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// SupabaseAuth verifies the HS256 access token issued by Supabase and puts
// the subject and email into the request context. Login itself happens on
// the Supabase side; this service only trusts the shared-secret signature.
func SupabaseAuth(jwtSecret string, logger *zerolog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if jwtSecret == "" {
				logger.Error().Msg("supabase jwt secret is not configured")
				writeError(w, http.StatusInternalServerError, "auth not configured")
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				writeError(w, http.StatusUnauthorized, "malformed authorization header")
				return
			}

			claims := &supabaseClaims{}
			token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(jwtSecret), nil
			}, jwt.WithValidMethods([]string{"HS256"}))
			if err != nil || !token.Valid || claims.Subject == "" {
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), ctxUserID, claims.Subject)
			ctx = context.WithValue(ctx, ctxUserEmail, strings.ToLower(claims.Email))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminKey gates the admin panel on a single shared key sent in the
// X-Admin-Key header. Constant-time compare; an unset key disables the
// panel entirely.
func AdminKey(key string, logger *zerolog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key == "" {
				logger.Error().Msg("admin key is not configured")
				writeError(w, http.StatusForbidden, "admin panel disabled")
				return
			}
			got := r.Header.Get("X-Admin-Key")
			if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				writeError(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
