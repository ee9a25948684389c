package server

import (
	"context"
	"net/http"
	"time"

	"github.com/compozy/demoutils/pkg/logger"
	"github.com/google/uuid"
)

type ctxKey string

const ctxKeyRequestID ctxKey = "req_id"

// RequestIDHeader carries the request id on every response
const RequestIDHeader = "X-Request-ID"

// RequestID injects a uuid request id into the context and response header.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.New().String()
		r = r.WithContext(context.WithValue(r.Context(), ctxKeyRequestID, reqID))
		w.Header().Set(RequestIDHeader, reqID)
		next.ServeHTTP(w, r)
	})
}

// RequestIDFromContext returns the id set by RequestID, if any
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyRequestID).(string)
	return id
}

// Logger logs one structured line per request.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rlw := &respLogger{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rlw, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rlw.status,
			"dur_ms", time.Since(start).Milliseconds(),
			"ip", IPFromRequest(r, false),
			"forwarded_for", r.Header.Get("X-Forwarded-For"),
			"req_id", RequestIDFromContext(r.Context()),
		)
	})
}

type respLogger struct {
	http.ResponseWriter
	status int
}

func (r *respLogger) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// CORS allows cross-origin requests so the demo page can be opened from anywhere.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RateLimit enforces per-IP rate limiting. trustProxy selects whether the
// client is identified by X-Forwarded-For or by the peer address.
func RateLimit(lm *LimiterMap, trustProxy bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !lm.Allow(IPFromRequest(r, trustProxy)) {
				writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limited"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
