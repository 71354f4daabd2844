package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"
)

// ActivityLog is one checkout, webhook or notification request as seen by the gateway
type ActivityLog struct {
	Timestamp        time.Time `json:"timestamp"`
	Kind             string    `json:"kind"`
	Provider         string    `json:"provider,omitempty"`
	Method           string    `json:"method"`
	Endpoint         string    `json:"endpoint"`
	RequestID        string    `json:"request_id"`
	UserAgent        string    `json:"user_agent,omitempty"`
	ClientIP         string    `json:"client_ip,omitempty"`
	StatusCode       int       `json:"status_code"`
	ProcessingTimeMs int64     `json:"processing_time_ms"`
	Outcome          string    `json:"outcome,omitempty"`
	RequestBody      string    `json:"request_body,omitempty"`
	Error            string    `json:"error,omitempty"`
}

// Logger indexes activity documents
type Logger struct {
	client *Client
}

// NewLogger creates a new OpenSearch logger
func NewLogger(client *Client) *Logger {
	return &Logger{
		client: client,
	}
}

// LogActivity indexes one activity document. It is a no-op when logging is disabled.
func (l *Logger) LogActivity(ctx context.Context, entry ActivityLog) error {
	if !l.client.IsEnabled() {
		return nil
	}

	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	if entry.RequestID == "" {
		entry.RequestID = uuid.New().String()
	}
	if entry.Kind == "" {
		entry.Kind = KindCheckout
	}
	entry.RequestBody = SanitizeForLog(entry.RequestBody)

	doc, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal log: %w", err)
	}

	req := opensearchapi.IndexRequest{
		Index: l.client.GetLogIndexName(entry.Kind),
		Body:  bytes.NewReader(doc),
	}

	res, err := req.Do(ctx, l.client.GetClient())
	if err != nil {
		return fmt.Errorf("failed to index log: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("opensearch error: %s", res.String())
	}

	return nil
}

var sensitivePatterns = func() []*regexp.Regexp {
	fields := []string{
		"password", "token", "secret", "client_secret", "authorization", "api_key",
		"phone", "customer_phone",
	}

	patterns := make([]*regexp.Regexp, 0, len(fields))
	for _, field := range fields {
		patterns = append(patterns, regexp.MustCompile(fmt.Sprintf(`"(%s)"\s*:\s*"[^"]*"`, field)))
	}
	return patterns
}()

// SanitizeForLog masks credential and phone values in a JSON body
func SanitizeForLog(data string) string {
	result := data
	for _, re := range sensitivePatterns {
		result = re.ReplaceAllString(result, `"$1":"***REDACTED***"`)
	}
	return result
}
