package response

import (
	"encoding/json"
	"net/http"
)

// Response is the envelope used by infrastructure endpoints and middleware rejections
type Response struct {
	Code    int    `json:"code"`
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// CheckoutResult is the unified answer of the checkout endpoint for every provider
type CheckoutResult struct {
	OK          bool   `json:"ok"`
	Provider    string `json:"provider,omitempty"`
	CheckoutURL string `json:"checkout_url,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Ack is returned to providers once a webhook has been taken in
type Ack struct {
	Received bool `json:"received"`
}

// WriteJSON encodes data with the given status code
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// Text writes a plain text body
func Text(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(statusCode)
	_, _ = w.Write([]byte(message))
}

// Success writes a successful response with data
func Success(w http.ResponseWriter, statusCode int, message string, data any) {
	WriteJSON(w, statusCode, Response{
		Code:    statusCode,
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error writes an error response
func Error(w http.ResponseWriter, statusCode int, message string, err error) {
	resp := Response{
		Code:    statusCode,
		Success: false,
		Message: message,
	}

	if err != nil {
		resp.Error = err.Error()
	}

	WriteJSON(w, statusCode, resp)
}

// CheckoutOK writes {ok:true, provider, checkout_url}
func CheckoutOK(w http.ResponseWriter, provider, checkoutURL string) {
	WriteJSON(w, http.StatusOK, CheckoutResult{
		OK:          true,
		Provider:    provider,
		CheckoutURL: checkoutURL,
	})
}

// CheckoutError writes {ok:false, error}
func CheckoutError(w http.ResponseWriter, statusCode int, err error) {
	WriteJSON(w, statusCode, CheckoutResult{
		OK:    false,
		Error: err.Error(),
	})
}

// Received acknowledges a webhook delivery
func Received(w http.ResponseWriter) {
	WriteJSON(w, http.StatusOK, Ack{Received: true})
}
