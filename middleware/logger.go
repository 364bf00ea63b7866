package middleware

import (
	"net/http"
	"strings"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	glog "github.com/goliatone/go-logger/glog"

	"github.com/blogem/contact-importer/logging"
)

// RequestLogger logs one line per request with its status and duration.
// Query strings are never logged since the callback URL carries the authorization code.
func RequestLogger(logger glog.Logger) func(http.Handler) http.Handler {
	logger = logging.Resolve(logger)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			started := time.Now()

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			args := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration", time.Since(started),
				"ip", getIPAddress(r),
			}
			if requestID := chimiddleware.GetReqID(r.Context()); requestID != "" {
				args = append(args, "request_id", requestID)
			}

			reqLogger := logger.WithContext(r.Context())
			if status >= http.StatusInternalServerError {
				reqLogger.Error("request failed", args...)
				return
			}
			reqLogger.Info("request handled", args...)
		})
	}
}

// getIPAddress extracts IP address from request, checking X-Forwarded-For first
func getIPAddress(r *http.Request) string {
	// Check X-Forwarded-For header (proxy/load balancer)
	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded != "" {
		// Take first IP if multiple
		ips := strings.Split(forwarded, ",")
		return strings.TrimSpace(ips[0])
	}

	// Check X-Real-IP header
	realIP := r.Header.Get("X-Real-IP")
	if realIP != "" {
		return realIP
	}

	// Fall back to RemoteAddr
	ip := r.RemoteAddr
	// Remove port if present
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}
