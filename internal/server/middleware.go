package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/aelexs/phonekit/internal/domain"
	"github.com/aelexs/phonekit/internal/errmap"
	"github.com/aelexs/phonekit/internal/observability"
	"github.com/aelexs/phonekit/pkg/api"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// requestID accepts a well-formed incoming X-Request-ID or assigns a new
// UUID, echoes it in the response and stores it where chi's middleware
// helpers expect it.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := domain.NewRequestID(r.Header.Get(RequestIDHeader))
		if err != nil {
			id = domain.GenerateRequestID()
		}
		w.Header().Set(RequestIDHeader, id.String())
		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, id.String())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// logRequests logs one line per request at info level.
func logRequests(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			observability.WithTraceID(r.Context(), logger).InfoContext(r.Context(), "http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Duration("duration", time.Since(start)),
				slog.String("request_id", middleware.GetReqID(r.Context())),
				slog.String("remote_addr", r.RemoteAddr),
			)
		})
	}
}

// rateLimit limits each client IP to requests per window. Rejections use
// the API error body.
func rateLimit(requests int, window time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(requests, window,
		httprate.WithKeyFuncs(httprate.KeyByRealIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
			writeError(w, domain.ErrRateLimited)
		}),
	)
}

func writeError(w http.ResponseWriter, err error) {
	httpErr := errmap.ToHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	if domain.IsRetryable(err) && w.Header().Get("Retry-After") == "" {
		w.Header().Set("Retry-After", strconv.Itoa(int(domain.DefaultRateLimitWindow.Seconds())))
	}
	w.WriteHeader(httpErr.StatusCode)
	_ = json.NewEncoder(w).Encode(api.ErrorResponse{Code: httpErr.Code, Message: httpErr.Message})
}
