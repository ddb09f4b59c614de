package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/repowiki/pkg/domain/types"
)

// LoggingMiddleware returns a middleware that logs HTTP requests. The request
// context carries the logger so that use cases log with the request id.
func LoggingMiddleware(ctx context.Context) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			logger := ctxlog.From(ctx).With("request_id", middleware.GetReqID(r.Context()))

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				logger.Info("HTTP request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration_ms", time.Since(start).Milliseconds(),
				)
			}()

			next.ServeHTTP(ww, r.WithContext(ctxlog.With(r.Context(), logger)))
		})
	}
}

const invalidRepoFormatMessage = `Invalid repository format. Use "owner/repo", a full Git URL, or local path.`

// statusOf maps error tags to a response status
func statusOf(err error) int {
	switch {
	case types.HasTag(err, types.ErrTagInvalidRepoFormat),
		types.HasTag(err, types.ErrTagInvalidArgument),
		types.HasTag(err, types.ErrTagUnsupported):
		return http.StatusBadRequest
	case types.HasTag(err, types.ErrTagUnauthorized):
		return http.StatusUnauthorized
	case types.HasTag(err, types.ErrTagNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// handleError logs err, reports server errors to Sentry and writes the response
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	logger := ctxlog.From(r.Context())

	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", "error", err)
		if hub := sentry.GetHubFromContext(r.Context()); hub != nil {
			hub.CaptureException(err)
		}
		writeError(w, err, status)
		return
	}

	logger.Warn("Request rejected", "error", err, "status", status)
	if types.HasTag(err, types.ErrTagInvalidRepoFormat) {
		writeErrorMessage(w, invalidRepoFormatMessage, status)
		return
	}
	writeError(w, err, status)
}

// writeError writes an error response
func writeError(w http.ResponseWriter, err error, status int) {
	writeErrorMessage(w, err.Error(), status)
}

func writeErrorMessage(w http.ResponseWriter, msg string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(map[string]string{
		"error": msg,
	}); err != nil {
		// Can't get context here, so use background context
		ctxlog.From(context.Background()).Error("Failed to encode error response", "error", err)
	}
}

// writeJSON writes v with status 200
func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		ctxlog.From(r.Context()).Error("Failed to encode response", "error", err)
	}
}
