package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"parkinglot/internal/logging"
)

type claimsKey struct{}

// ClaimsFromContext returns the claims stored by RequireRole.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*Claims)
	return c, ok
}

// RequireRole admits requests carrying a valid bearer token for role.
// Missing or bad tokens get 401, a valid token with another role gets 403.
func RequireRole(secret []byte, role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				deny(w, http.StatusUnauthorized, "Missing bearer token")
				return
			}
			claims, err := ParseToken(secret, strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				logging.Debug(r.Context()).Err(err).Msg("rejected bearer token")
				deny(w, http.StatusUnauthorized, "Invalid token")
				return
			}
			if claims.Role != role {
				deny(w, http.StatusForbidden, "Forbidden")
				return
			}

			l := logging.FromContext(r.Context()).With().Str("account", claims.Account).Logger()
			ctx := logging.NewContext(r.Context(), l)
			ctx = context.WithValue(ctx, claimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func deny(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": msg})
}
