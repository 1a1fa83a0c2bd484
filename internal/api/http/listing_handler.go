package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"leasehold-backend/internal/domain"
	"leasehold-backend/internal/service"
)

type ListingHandler struct {
	listings service.ListingService
}

func NewListingHandler(listings service.ListingService) *ListingHandler {
	return &ListingHandler{listings: listings}
}

type postAssetRequest struct {
	Contract     string `json:"contract"`
	AssetID      uint64 `json:"asset_id"`
	RatePerBlock uint64 `json:"rate_per_block"`
	MinimumTerm  uint64 `json:"minimum_term"`
	MaximumTerm  uint64 `json:"maximum_term"`
}

func (h *ListingHandler) PostAsset(w http.ResponseWriter, r *http.Request) {
	var req postAssetRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Contract == "" {
		writeBadRequest(w, "contract is required")
		return
	}

	caller := ClaimsFromContext(r.Context()).UserID
	asset := domain.AssetRef{Contract: req.Contract, AssetID: req.AssetID}
	p, err := h.listings.PostAsset(r.Context(), caller, asset, req.RatePerBlock, req.MinimumTerm, req.MaximumTerm)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

type updateRateRequest struct {
	RatePerBlock uint64 `json:"rate_per_block"`
}

func (h *ListingHandler) UpdateLeaseRate(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r)
	if !ok {
		return
	}
	var req updateRateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	caller := ClaimsFromContext(r.Context()).UserID
	p, err := h.listings.UpdateLeaseRate(r.Context(), caller, postID, req.RatePerBlock)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ListingHandler) RemovePosting(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r)
	if !ok {
		return
	}
	caller := ClaimsFromContext(r.Context()).UserID
	if err := h.listings.RemovePosting(r.Context(), caller, postID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *ListingHandler) GetPosting(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r)
	if !ok {
		return
	}
	p, err := h.listings.GetPosting(r.Context(), postID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ListingHandler) GetPostingByAsset(w http.ResponseWriter, r *http.Request) {
	contract := r.URL.Query().Get("contract")
	if contract == "" {
		writeBadRequest(w, "contract is required")
		return
	}
	assetID, err := strconv.ParseUint(r.URL.Query().Get("asset_id"), 10, 64)
	if err != nil {
		writeBadRequest(w, "invalid asset_id")
		return
	}

	p, err := h.listings.GetPostingByAsset(r.Context(), domain.AssetRef{Contract: contract, AssetID: assetID})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type listPostingsResponse struct {
	Postings []domain.Posting `json:"postings"`
	Total    int32            `json:"total"`
	Page     int32            `json:"page"`
	PageSize int32            `json:"page_size"`
}

func (h *ListingHandler) ListPostings(w http.ResponseWriter, r *http.Request) {
	holder := r.URL.Query().Get("holder")
	page, pageSize := paginationParams(r)

	postings, total, err := h.listings.ListPostings(r.Context(), holder, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listPostingsResponse{
		Postings: postings,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

func (h *ListingHandler) TotalPostings(w http.ResponseWriter, r *http.Request) {
	total, err := h.listings.TotalPostings(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]uint64{"total_postings": total})
}

// pathID parses the {id} route variable; a malformed id is a 400.
func pathID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil || id == 0 {
		writeBadRequest(w, "invalid posting id")
		return 0, false
	}
	return id, true
}

func paginationParams(r *http.Request) (page, pageSize int32) {
	page, pageSize = 1, 20
	if v, err := strconv.ParseInt(r.URL.Query().Get("page"), 10, 32); err == nil && v > 0 {
		page = int32(v)
	}
	if v, err := strconv.ParseInt(r.URL.Query().Get("page_size"), 10, 32); err == nil && v > 0 && v <= 100 {
		pageSize = int32(v)
	}
	return page, pageSize
}
