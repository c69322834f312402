package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const (
	// RequestIDHeader is the header name for request ID.
	RequestIDHeader = "X-Request-ID"

	// RunIDHeader carries the ID of a run recorded while serving the request.
	RunIDHeader  = "X-Run-ID"
	requestIDKey = contextKey("request_id")

	maxRequestIDLen = 64
)

// RequestIDFromContext returns the request ID from context.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// RunSource names the origin of a run recorded while serving ctx, so a stored
// run can be traced back to the request log.
func RunSource(ctx context.Context) string {
	if id := RequestIDFromContext(ctx); id != "" {
		return "http:" + id
	}
	return "http"
}

// RequestID keeps a client supplied X-Request-ID when it is a short token of
// letters, digits, '-', '_' or '.', and generates a UUID otherwise. The ID is
// echoed in the response and stored in the context.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if !validRequestID(requestID) {
			requestID = uuid.NewString()
		}

		w.Header().Set(RequestIDHeader, requestID)
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for _, c := range id {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-', c == '_', c == '.':
		default:
			return false
		}
	}
	return true
}
