package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"studyabroad-backend/internal/auth"

	"go.uber.org/zap"
)

// APILogging writes one structured line per request. Health probes, metrics
// scrapes and static assets are skipped.
func APILogging(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if shouldSkipLogging(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			// Authenticate runs deeper in the chain and fills the holder
			holder := &callerHolder{}
			next.ServeHTTP(wrapped, r.WithContext(withHolder(r.Context(), holder)))

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", sanitizePath(r.URL.Path)),
				zap.Int("status", wrapped.statusCode),
				zap.Duration("duration", time.Since(start)),
				zap.Int("response_size", wrapped.bytes),
				zap.String("ip", ClientIP(r)),
				zap.String("user_agent", r.UserAgent()),
			}
			if holder.caller != nil {
				fields = append(fields,
					zap.String("admin_id", holder.caller.ID),
					zap.String("role", string(holder.caller.Role)),
				)
			}

			switch {
			case wrapped.statusCode >= 500:
				log.Error("request", fields...)
			case wrapped.statusCode >= 400:
				log.Warn("request", fields...)
			default:
				log.Info("request", fields...)
			}
		})
	}
}

func shouldSkipLogging(path string) bool {
	skipPaths := []string{
		"/static/",
		"/health",
		"/metrics",
		"/favicon.ico",
		"/robots.txt",
	}

	for _, skip := range skipPaths {
		if strings.HasPrefix(path, skip) {
			return true
		}
	}
	return false
}

// sanitizePath drops the query string and truncates very long paths.
func sanitizePath(path string) string {
	if idx := strings.Index(path, "?"); idx != -1 {
		path = path[:idx]
	}
	if len(path) > 500 {
		path = path[:500]
	}
	return path
}

type callerHolder struct {
	caller *auth.Caller
}

func withHolder(ctx context.Context, h *callerHolder) context.Context {
	return context.WithValue(ctx, holderKey, h)
}
