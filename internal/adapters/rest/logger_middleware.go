package rest

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"moderation-console/internal/contextkeys"
	"moderation-console/internal/core/port"
)

const traceHeader = "X-Trace-ID"

// LoggerMiddleware связывает запрос с trace_id консоли. Некорректный или
// отсутствующий заголовок заменяется новым uuid, итог отдается клиенту.
func LoggerMiddleware(logger port.LoggerPort) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := r.Header.Get(traceHeader)
			if _, err := uuid.Parse(traceID); err != nil {
				traceID = uuid.NewString()
			}
			w.Header().Set(traceHeader, traceID)

			reqLogger := logger.WithFields(port.Fields{"trace_id": traceID})
			ctx := contextkeys.ContextWithTraceID(contextkeys.ContextWithLogger(r.Context(), reqLogger), traceID)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			started := time.Now()
			next.ServeHTTP(ww, r.WithContext(ctx))

			fields := port.Fields{
				"http_method": r.Method,
				"http_path":   r.URL.Path,
				"status_code": ww.Status(),
				"duration_ms": time.Since(started).Milliseconds(),
			}
			if r.URL.RawQuery != "" {
				fields["query"] = r.URL.RawQuery
			}
			if ww.Status() >= http.StatusInternalServerError {
				reqLogger.Warn("Request failed", fields)
				return
			}
			reqLogger.Info("Request handled", fields)
		})
	}
}
