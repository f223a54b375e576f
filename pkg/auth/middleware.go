package auth

import (
	"net/http"
	"strings"

	"github.com/platinummonkey/kgsearch/pkg/contextkeys"
	"github.com/platinummonkey/kgsearch/pkg/httputil"
	"github.com/platinummonkey/kgsearch/pkg/observability"
)

// Middleware authenticates the bearer token of the request when present.
// Anonymous requests continue without principal, invalid tokens get 401.
func Middleware(verifier TokenVerifier, logger *observability.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
				httputil.WriteUnauthorized(w, "invalid authorization header format")
				return
			}
			token := parts[1]

			principal, err := verifier.Verify(r.Context(), token)
			if err != nil {
				logger.WithError(err).Warn("Rejected bearer token")
				httputil.WriteUnauthorized(w, "invalid or expired token")
				return
			}

			ctx := contextkeys.WithPrincipal(r.Context(), principal)
			ctx = contextkeys.WithUserToken(ctx, token)
			ctx = contextkeys.WithUserID(ctx, principal.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
