package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"leasehold-backend/internal/domain"
	"leasehold-backend/internal/security"
	"leasehold-backend/internal/service"
)

type UserHandler struct {
	metrics service.MetricsService
}

func NewUserHandler(metrics service.MetricsService) *UserHandler {
	return &UserHandler{metrics: metrics}
}

func (h *UserHandler) GetUserMetrics(w http.ResponseWriter, r *http.Request) {
	user := mux.Vars(r)["user"]
	m, err := h.metrics.GetUserMetrics(r.Context(), user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

type listTransactionsResponse struct {
	Transactions []domain.TransactionRecord `json:"transactions"`
	Total        int32                      `json:"total"`
	Page         int32                      `json:"page"`
	PageSize     int32                      `json:"page_size"`
}

func (h *UserHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	user := mux.Vars(r)["user"]
	page, pageSize := paginationParams(r)

	records, total, err := h.metrics.ListTransactions(r.Context(), user, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listTransactionsResponse{
		Transactions: records,
		Total:        total,
		Page:         page,
		PageSize:     pageSize,
	})
}

// GetBalance is restricted to the account owner and the admin.
func (h *UserHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	user := mux.Vars(r)["user"]
	claims := ClaimsFromContext(r.Context())
	if claims.UserID != user && !claims.HasRole(security.RoleAdmin) {
		writeError(w, domain.ErrAccessDenied)
		return
	}

	balance, err := h.metrics.GetBalance(r.Context(), user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user, "balance": balance})
}
