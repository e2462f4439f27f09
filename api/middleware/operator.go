package middleware

import (
	"context"
	"net/http"

	"github.com/dmayasari/optikpos-backend/pkg/logger"
)

const operatorHeader = "X-Operator"

type operatorKey struct{}

// Operator reads the cashier name from the request header and carries it in
// the context. Writes persist it into the user column, so a missing header
// falls back to "Unknown" rather than an empty cell.
func Operator(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			name := r.Header.Get(operatorHeader)
			if name == "" {
				name = "Unknown"
			}

			ctx := context.WithValue(r.Context(), operatorKey{}, name)
			if logg != nil {
				ctx = logg.WithOperator(ctx, name)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OperatorFrom returns the cashier name carried by the context.
func OperatorFrom(ctx context.Context) string {
	if name, ok := ctx.Value(operatorKey{}).(string); ok && name != "" {
		return name
	}
	return "Unknown"
}
