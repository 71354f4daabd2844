package handler

import (
	"context"
	"net/http"

	"github.com/mstgnz/paybridge/infra/logger"
	"github.com/mstgnz/paybridge/infra/middle"
	"github.com/mstgnz/paybridge/infra/response"
	"github.com/mstgnz/paybridge/notify"
	"github.com/mstgnz/paybridge/provider"
)

// NotificationSender delivers one notification and reports the result
type NotificationSender interface {
	Send(ctx context.Context, event *provider.WebhookEvent) error
}

type notifyResult struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// NotifyHandler exercises the dispatcher with a synthetic order
type NotifyHandler struct {
	sender NotificationSender
}

func NewNotifyHandler(sender NotificationSender) *NotifyHandler {
	return &NotifyHandler{sender: sender}
}

// SendTest is the only place a delivery error reaches a client
func (h *NotifyHandler) SendTest(w http.ResponseWriter, r *http.Request) {
	if err := h.sender.Send(r.Context(), notify.SampleEvent()); err != nil {
		logger.WithRequest("", middle.GetRequestID(r.Context())).Error("test notification failed", err)
		response.WriteJSON(w, http.StatusBadGateway, notifyResult{OK: false, Error: err.Error()})
		return
	}

	response.WriteJSON(w, http.StatusOK, notifyResult{OK: true})
}
