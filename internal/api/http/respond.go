package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"leasehold-backend/internal/domain"
	"leasehold-backend/internal/logger"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

// writeError maps an engine error onto an HTTP status and a stable
// machine-readable tag. Unrecognized errors become 500 without leaking
// internals to the client.
func writeError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	resp := errorResponse{Error: domain.ErrorKind(err), Message: err.Error()}
	if status == http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
		resp.Message = "internal error"
	}
	writeJSON(w, status, resp)
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrAdminOnly),
		errors.Is(err, domain.ErrAccessDenied),
		errors.Is(err, domain.ErrAssetNotControlled):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyPosted),
		errors.Is(err, domain.ErrNotAccessible),
		errors.Is(err, domain.ErrLeaseInProgress),
		errors.Is(err, domain.ErrLeaseEnded):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidValue),
		errors.Is(err, domain.ErrInvalidTimeframe):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_request", Message: message})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeBadRequest(w, "malformed request body")
		return false
	}
	return true
}
