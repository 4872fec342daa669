package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/strefethen/sonos-transport/internal/apperrors"
)

// StripeErrorResponse wraps errors in Stripe format.
type StripeErrorResponse struct {
	Error apperrors.StripeErrorBody `json:"error"`
}

// WriteJSON sends a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(payload)
}

// WriteError serializes an error into the Stripe-style error response.
// Response format: {"error": {"type": "...", "code": "...", "message": "..."}}
// Errors from the SOAP layer are mapped to their API codes first.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperrors.FromSoap(err)
	if appErr.StatusCode >= http.StatusInternalServerError {
		svrLog.Warningf("Request %s failed with %s: %v", GetRequestID(r), appErr.Code, err)
	} else {
		svrLog.Debugf("Request %s rejected with %s: %v", GetRequestID(r), appErr.Code, err)
	}

	_ = WriteJSON(w, appErr.StatusCode, StripeErrorResponse{
		Error: appErr.StripeErrorBody(),
	})
}

// WriteResource writes a single resource directly (Stripe-style, no wrapper).
// The resource should already have an "object" field set.
func WriteResource(w http.ResponseWriter, status int, resource any) error {
	return WriteJSON(w, status, resource)
}

// WriteAction writes an action result directly (Stripe-style, no wrapper).
// Example: WriteAction(w, http.StatusOK, map[string]any{"object": "transport_action", "action": "stop"})
func WriteAction(w http.ResponseWriter, status int, result any) error {
	return WriteJSON(w, status, result)
}

// RFC3339Millis formats t in UTC with millisecond precision.
func RFC3339Millis(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
