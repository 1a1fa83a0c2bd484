package http

import (
	"net/http"

	"leasehold-backend/internal/service"
)

type PlatformHandler struct {
	admin service.AdminService
}

func NewPlatformHandler(admin service.AdminService) *PlatformHandler {
	return &PlatformHandler{admin: admin}
}

func (h *PlatformHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.admin.PlatformStatistics(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

type setServiceFeeRequest struct {
	Bps uint64 `json:"bps"`
}

func (h *PlatformHandler) SetServiceFee(w http.ResponseWriter, r *http.Request) {
	var req setServiceFeeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	caller := ClaimsFromContext(r.Context()).UserID
	if err := h.admin.SetServiceFee(r.Context(), caller, req.Bps); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

type setTermLimitsRequest struct {
	MinimumBlocks uint64 `json:"minimum_blocks"`
	MaximumBlocks uint64 `json:"maximum_blocks"`
}

func (h *PlatformHandler) SetTermLimits(w http.ResponseWriter, r *http.Request) {
	var req setTermLimitsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	caller := ClaimsFromContext(r.Context()).UserID
	if err := h.admin.SetTermLimits(r.Context(), caller, req.MinimumBlocks, req.MaximumBlocks); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

type withdrawRequest struct {
	Amount uint64 `json:"amount"`
}

func (h *PlatformHandler) WithdrawServiceFees(w http.ResponseWriter, r *http.Request) {
	var req withdrawRequest
	if !decodeBody(w, r, &req) {
		return
	}
	caller := ClaimsFromContext(r.Context()).UserID
	if err := h.admin.WithdrawServiceFees(r.Context(), caller, req.Amount); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
