package handlers

import (
	"net/http"

	"codejourney-backend/internal/models"
)

type tokenIssuer interface {
	IssueToken(req models.TokenRequest) (*models.AuthToken, error)
}

type AuthHandler struct {
	auth tokenIssuer
}

func NewAuthHandler(auth tokenIssuer) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	var req models.TokenRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	token, err := h.auth.IssueToken(req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, token)
}
