package logger

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// CorrelationHeader names the header carrying the request correlation id.
// Inbound values are echoed back; absent ones are minted.
const CorrelationHeader = "X-Correlation-ID"

type correlationIDKey struct{}

// CorrelationIDFromContext returns the correlation id stored in ctx, or an
// empty string when absent.
func CorrelationIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey{}).(string); ok {
		return id
	}

	return ""
}

// Middleware propagates the request's correlation id: an inbound header
// value is reused, otherwise a fresh uuid is minted. The id is stored in
// the request context and echoed in the response header so log lines and
// client traces can be joined.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(CorrelationHeader)
		if id == "" {
			id = uuid.NewString()
		}

		w.Header().Set(CorrelationHeader, id)

		ctx := context.WithValue(r.Context(), correlationIDKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
