package handler

import (
	"net/http"
	"strconv"
	"strings"

	"go-notes-api/internal/model"
	"go-notes-api/internal/service"
	"go-notes-api/pkg/apierror"
)

type AuditHandler struct {
	service *service.AuditService
}

func NewAuditHandler(service *service.AuditService) *AuditHandler {
	return &AuditHandler{service: service}
}

// List returns the caller's own audit trail, newest first.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request, principal model.Principal) {
	page, err := queryInt(r, "page")
	if err != nil {
		writeError(w, err)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.service.List(r.Context(), principal, page, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, result)
}

func queryInt(r *http.Request, key string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return 0, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, apierror.Wrap(model.ErrValidation, "BAD_REQUEST", "invalid '"+key+"' query parameter", raw, http.StatusBadRequest)
	}
	return value, nil
}
