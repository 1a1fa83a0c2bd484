package http

import (
	"net/http"

	"leasehold-backend/internal/service"
)

type AuthHandler struct {
	auth service.AuthService
}

func NewAuthHandler(auth service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type loginRequest struct {
	UserID   string `json:"user_id"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.UserID == "" || req.Password == "" {
		writeBadRequest(w, "user_id and password are required")
		return
	}

	token, err := h.auth.Login(r.Context(), req.UserID, req.Password)
	if err != nil {
		// Uniform response for unknown user and wrong password.
		writeJSON(w, http.StatusUnauthorized, errorResponse{
			Error:   "unauthorized",
			Message: "invalid credentials",
		})
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

type issueTokenRequest struct {
	UserID string `json:"user_id"`
}

func (h *AuthHandler) IssueUserToken(w http.ResponseWriter, r *http.Request) {
	var req issueTokenRequest
	if !decodeBody(w, r, &req) {
		return
	}

	caller := ClaimsFromContext(r.Context()).UserID
	token, err := h.auth.IssueUserToken(r.Context(), caller, req.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tokenResponse{Token: token})
}
