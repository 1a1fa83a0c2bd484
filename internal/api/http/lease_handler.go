package http

import (
	"net/http"
	"strconv"

	"leasehold-backend/internal/service"
)

type LeaseHandler struct {
	leases service.LeaseService
}

func NewLeaseHandler(leases service.LeaseService) *LeaseHandler {
	return &LeaseHandler{leases: leases}
}

type leaseAssetRequest struct {
	Term uint64 `json:"term"`
}

func (h *LeaseHandler) LeaseAsset(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r)
	if !ok {
		return
	}
	var req leaseAssetRequest
	if !decodeBody(w, r, &req) {
		return
	}

	caller := ClaimsFromContext(r.Context()).UserID
	receipt, err := h.leases.LeaseAsset(r.Context(), caller, postID, req.Term)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, receipt)
}

func (h *LeaseHandler) ReturnAsset(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r)
	if !ok {
		return
	}
	caller := ClaimsFromContext(r.Context()).UserID
	if err := h.leases.ReturnAsset(r.Context(), caller, postID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// AutoReturnExpired reclaims an expired lease. Any authenticated caller may
// trigger it; the engine verifies expiry itself.
func (h *LeaseHandler) AutoReturnExpired(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.leases.AutoReturnExpired(r.Context(), postID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

type resolveConflictRequest struct {
	ReturnDepositToLessee bool `json:"return_deposit_to_lessee"`
}

func (h *LeaseHandler) ResolveConflict(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r)
	if !ok {
		return
	}
	var req resolveConflictRequest
	if !decodeBody(w, r, &req) {
		return
	}

	caller := ClaimsFromContext(r.Context()).UserID
	if err := h.leases.ResolveConflict(r.Context(), caller, postID, req.ReturnDepositToLessee); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *LeaseHandler) GetCurrentLease(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r)
	if !ok {
		return
	}
	l, err := h.leases.GetCurrentLease(r.Context(), postID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *LeaseHandler) EstimateLease(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r)
	if !ok {
		return
	}
	term, err := strconv.ParseUint(r.URL.Query().Get("term"), 10, 64)
	if err != nil {
		writeBadRequest(w, "invalid term")
		return
	}

	quote, err := h.leases.EstimateLease(r.Context(), postID, term)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

func (h *LeaseHandler) IsLeaseExpired(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r)
	if !ok {
		return
	}
	expired, err := h.leases.IsLeaseExpired(r.Context(), postID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"expired": expired})
}
