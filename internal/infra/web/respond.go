// File: internal/infra/web/respond.go
package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"adobe-subscription-store/internal/domain"
	"adobe-subscription-store/internal/domain/ports/adapter"
)

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// writeDomainError maps the error taxonomy onto HTTP statuses. Gateway
// failures keep their provider issue code so the storefront can show a
// specific message for declines.
func writeDomainError(w http.ResponseWriter, err error) {
	var ge *adapter.GatewayError
	if errors.As(err, &ge) {
		switch ge.Kind {
		case adapter.GatewayErrCardDeclined:
			writeJSON(w, http.StatusPaymentRequired, errorBody{Error: "payment declined", Code: ge.Code})
		case adapter.GatewayErrInvalidRequest:
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "payment request rejected", Code: ge.Code})
		case adapter.GatewayErrRateLimited:
			writeJSON(w, http.StatusTooManyRequests, errorBody{Error: "payment processor busy", Code: ge.Code})
		case adapter.GatewayErrAuth, adapter.GatewayErrUnavailable:
			writeJSON(w, http.StatusBadGateway, errorBody{Error: "payment processor unavailable", Code: ge.Code})
		default:
			writeJSON(w, http.StatusBadGateway, errorBody{Error: "payment failed", Code: ge.Code})
		}
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrUnknownPlan):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotConfigured):
		writeError(w, http.StatusInternalServerError, "feature not configured")
	case errors.Is(err, domain.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, "too many requests")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
