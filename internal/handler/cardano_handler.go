package handler

import (
	"net/http"

	"go-notes-api/internal/model"
	"go-notes-api/internal/service"
)

type CardanoHandler struct {
	service *service.CardanoService
}

func NewCardanoHandler(service *service.CardanoService) *CardanoHandler {
	return &CardanoHandler{service: service}
}

func (h *CardanoHandler) UTxOs(w http.ResponseWriter, r *http.Request, _ model.Principal) {
	utxos, err := h.service.UTxOs(r.Context(), r.URL.Query().Get("address"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, utxos)
}

func (h *CardanoHandler) BuildUnsignedTx(w http.ResponseWriter, r *http.Request, _ model.Principal) {
	writeError(w, h.service.BuildUnsignedTransaction(r.Context()))
}

func (h *CardanoHandler) SubmitTx(w http.ResponseWriter, r *http.Request, _ model.Principal) {
	var payload model.SubmitTxRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	resp, err := h.service.SubmitTransaction(r.Context(), payload.SignedTxHex)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, resp)
}
