package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/snackstand/snackstand-backend/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// RequestID tags every request with an id that follows it through the log
// stream. An inbound X-Request-Id (set by a proxy or a retrying client) is
// trusted and echoed back; otherwise a fresh uuid is minted. The id is
// attached to the context logger so cart, checkout and order entries for the
// same request can be correlated.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get(requestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, reqID)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, reqID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
