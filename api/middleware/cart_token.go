package middleware

import (
	"net/http"
	"strings"

	"github.com/medmarket-io/medmarket-backend/internal/cart"
	"github.com/medmarket-io/medmarket-backend/pkg/logger"
)

const cartTokenHeader = "X-Cart-Token"

// CartToken reads the client's cart token or mints a fresh one, echoing it
// back so the client can persist it. The token is an opaque claim check; it
// carries no identity.
func CartToken(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimSpace(r.Header.Get(cartTokenHeader))
			if token == "" {
				token = cart.NewToken()
			}

			w.Header().Set(cartTokenHeader, token)

			ctx := WithCartToken(r.Context(), token)
			if logg != nil {
				ctx = logg.WithCartToken(ctx, token)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
