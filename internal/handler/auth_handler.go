package handler

import (
	"net/http"

	"go-notes-api/internal/model"
	"go-notes-api/internal/service"
)

type AuthHandler struct {
	service *service.AuthService
}

func NewAuthHandler(service *service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var payload model.Credentials
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	if _, err := h.service.Register(r.Context(), payload.Identifier(), payload.Password); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, model.MessageResponse{Message: "User registered successfully"})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload model.Credentials
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.service.Login(r.Context(), payload.Identifier(), payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, result)
}
