package middle

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mstgnz/paybridge/infra/logger"
	"github.com/mstgnz/paybridge/infra/opensearch"
)

const maxCapturedBody = 64 << 10

// ActivityLogger receives one document per checkout or webhook request
type ActivityLogger interface {
	LogActivity(ctx context.Context, entry opensearch.ActivityLog) error
}

// responseWriter wraps http.ResponseWriter to capture response data
type responseWriter struct {
	http.ResponseWriter
	body       *bytes.Buffer
	statusCode int
	startTime  time.Time
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		body:           &bytes.Buffer{},
		statusCode:     http.StatusOK,
		startTime:      time.Now(),
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if rw.body.Len() < maxCapturedBody {
		rw.body.Write(b)
	}
	return rw.ResponseWriter.Write(b)
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

// RequestLoggingMiddleware writes one structured line per request
func RequestLoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		ctx := logger.LogContext{
			RequestID: GetRequestID(r.Context()),
			Fields: map[string]any{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   rw.statusCode,
				"duration": time.Since(rw.startTime).String(),
				"ip":       GetClientIP(r),
			},
		}

		if rw.statusCode >= http.StatusInternalServerError {
			logger.Warn("HTTP request failed", ctx)
			return
		}
		logger.Info("HTTP request", ctx)
	})
}

// ActivityLogMiddleware ships checkout and webhook requests to the activity sink.
// Writes happen after the response in a separate goroutine.
func ActivityLogMiddleware(sink ActivityLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			kind := activityKind(r.URL.Path)
			if sink == nil || kind == "" {
				next.ServeHTTP(w, r)
				return
			}

			// keep the stream intact so handlers still see every byte
			var captured []byte
			if r.Body != nil {
				captured, _ = io.ReadAll(io.LimitReader(r.Body, maxCapturedBody))
				r.Body = struct {
					io.Reader
					io.Closer
				}{io.MultiReader(bytes.NewReader(captured), r.Body), r.Body}
			}

			rw := newResponseWriter(w)
			next.ServeHTTP(rw, r)

			entry := opensearch.ActivityLog{
				Timestamp:        rw.startTime,
				Kind:             kind,
				Provider:         chi.URLParam(r, "provider"),
				Method:           r.Method,
				Endpoint:         r.URL.Path,
				RequestID:        GetRequestID(r.Context()),
				UserAgent:        r.UserAgent(),
				ClientIP:         GetClientIP(r),
				StatusCode:       rw.statusCode,
				ProcessingTimeMs: time.Since(rw.startTime).Milliseconds(),
				Outcome:          outcomeOf(rw.statusCode),
				RequestBody:      string(captured),
			}
			if rw.statusCode >= http.StatusBadRequest {
				entry.Error = extractErrorMessage(rw.body.Bytes())
			}

			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()

				if err := sink.LogActivity(ctx, entry); err != nil {
					logger.Warn("failed to ship activity log", logger.LogContext{
						Provider:  entry.Provider,
						RequestID: entry.RequestID,
						Fields:    map[string]any{"error": err.Error()},
					})
				}
			}()
		})
	}
}

func activityKind(path string) string {
	switch {
	case strings.HasPrefix(path, "/api/checkout/"):
		return opensearch.KindCheckout
	case strings.HasPrefix(path, "/webhook/"):
		return opensearch.KindWebhook
	case strings.HasPrefix(path, "/api/notify/"):
		return opensearch.KindNotify
	default:
		return ""
	}
}

func outcomeOf(status int) string {
	switch {
	case status >= http.StatusInternalServerError:
		return "server_error"
	case status >= http.StatusBadRequest:
		return "client_error"
	default:
		return "ok"
	}
}

// extractErrorMessage reads the error field of a JSON body, or the body itself when it is plain text
func extractErrorMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return strings.TrimSpace(string(body))
	}
	if payload.Error != "" {
		return payload.Error
	}
	return payload.Message
}
