package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/frahmantamala/legal-practice/internal"
	"github.com/frahmantamala/legal-practice/pkg/logger"
)

const RequestIDHeader = "X-Request-ID"

// RequestID accepts an inbound X-Request-ID or mints one, binds it to the request logger and echoes it back.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := internal.ContextWithRequestID(r.Context(), requestID)
		ctx = logger.With(ctx, "request_id", requestID)

		w.Header().Set(RequestIDHeader, requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
