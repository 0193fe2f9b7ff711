package handler

import (
	"context"
	"net/http"
	"time"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	store pinger
}

func NewHealthHandler(store pinger) *HealthHandler {
	return &HealthHandler{store: store}
}

type healthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		writeSuccess(w, http.StatusServiceUnavailable, healthResponse{Status: "degraded", Store: "unavailable"})
		return
	}

	writeSuccess(w, http.StatusOK, healthResponse{Status: "ok", Store: "ok"})
}
