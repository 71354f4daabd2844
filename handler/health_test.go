package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler_CheckHealth(t *testing.T) {
	tests := []struct {
		name      string
		providers []string
		status    string
	}{
		{name: "ok", providers: []string{"paypal", "stripe"}, status: "ok"},
		{name: "degraded", providers: nil, status: "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(func() []string { return tt.providers }, "log")

			rec := httptest.NewRecorder()
			h.CheckHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			require.Equal(t, http.StatusOK, rec.Code)

			var got HealthStatus
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, tt.status, got.Status)
			assert.Equal(t, "log", got.NotifyTransport)
			assert.NotNil(t, got.Providers)
			assert.Len(t, got.Providers, len(tt.providers))
			assert.NotEmpty(t, got.Uptime)
		})
	}
}
