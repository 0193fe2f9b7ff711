package handler

import (
	"net/http"

	"go-notes-api/internal/model"
	"go-notes-api/internal/service"
)

type UserHandler struct {
	service *service.UserService
}

func NewUserHandler(service *service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request, principal model.Principal) {
	profile, err := h.service.Profile(r.Context(), principal)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, profile)
}

func (h *UserHandler) LinkWallet(w http.ResponseWriter, r *http.Request, principal model.Principal) {
	var payload model.WalletLinkRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	resp, err := h.service.LinkWallet(r.Context(), principal, payload.WalletAddress)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, resp)
}

func (h *UserHandler) LinkSecondaryWallet(w http.ResponseWriter, r *http.Request, principal model.Principal) {
	var payload model.WalletLinkRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	resp, err := h.service.LinkSecondaryWallet(r.Context(), principal, payload.WalletAddress)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, resp)
}
