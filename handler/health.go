package handler

import (
	"net/http"
	"time"

	"github.com/mstgnz/paybridge/infra/response"
)

// HealthStatus represents overall service health
type HealthStatus struct {
	Status          string   `json:"status"`
	Providers       []string `json:"providers"`
	NotifyTransport string   `json:"notify_transport"`
	Uptime          string   `json:"uptime"`
}

// HealthHandler handles health check requests
type HealthHandler struct {
	providers func() []string
	transport string
	startTime time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(providers func() []string, notifyTransport string) *HealthHandler {
	return &HealthHandler{
		providers: providers,
		transport: notifyTransport,
		startTime: time.Now(),
	}
}

// CheckHealth reports "degraded" when no provider is registered
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	names := h.providers()
	if names == nil {
		names = []string{}
	}

	status := "ok"
	if len(names) == 0 {
		status = "degraded"
	}

	response.WriteJSON(w, http.StatusOK, HealthStatus{
		Status:          status,
		Providers:       names,
		NotifyTransport: h.transport,
		Uptime:          time.Since(h.startTime).Round(time.Second).String(),
	})
}
