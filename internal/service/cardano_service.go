package service

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"go-notes-api/internal/model"
	"go-notes-api/pkg/apierror"
)

var addressPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// CardanoService proxies read and submit calls to the Blockfrost API. It
// does not build transactions.
type CardanoService struct {
	baseURL   string
	projectID string
	client    *http.Client
}

func NewCardanoService(baseURL string, projectID string, timeout time.Duration) *CardanoService {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if strings.TrimSpace(projectID) == "" {
		slog.Warn("BLOCKFROST_PROJECT_ID is empty; blockchain proxy calls will be rejected upstream")
	}

	return &CardanoService{
		baseURL:   strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		projectID: strings.TrimSpace(projectID),
		client:    &http.Client{Timeout: timeout},
	}
}

type blockfrostError struct {
	StatusCode int    `json:"status_code"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}

func (s *CardanoService) UTxOs(ctx context.Context, address string) ([]model.UTxO, error) {
	address = strings.TrimSpace(address)
	if err := validation.Validate(address, validation.Required, validation.Length(1, 200), validation.Match(addressPattern)); err != nil {
		return nil, validationError("invalid address", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/addresses/"+url.PathEscape(address)+"/utxos", nil)
	if err != nil {
		return nil, fmt.Errorf("build utxo request: %w", err)
	}

	resp, err := s.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// Blockfrost answers 404 for addresses that never appeared on chain.
	if resp.StatusCode == http.StatusNotFound {
		return []model.UTxO{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, upstreamError("fetch utxos", resp)
	}

	utxos := make([]model.UTxO, 0)
	if err := json.NewDecoder(resp.Body).Decode(&utxos); err != nil {
		return nil, apierror.Wrap(model.ErrUpstream, "UPSTREAM_ERROR", "blockchain provider returned an unreadable response", "fetch utxos", http.StatusBadGateway)
	}
	return utxos, nil
}

func (s *CardanoService) SubmitTransaction(ctx context.Context, signedTxHex string) (model.SubmitTxResponse, error) {
	payload := model.SubmitTxRequest{SignedTxHex: strings.TrimSpace(signedTxHex)}
	if err := payload.Validate(); err != nil {
		return model.SubmitTxResponse{}, validationError("signed transaction hex is required", err)
	}

	cbor, _ := hex.DecodeString(payload.SignedTxHex)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/tx/submit", bytes.NewReader(cbor))
	if err != nil {
		return model.SubmitTxResponse{}, fmt.Errorf("build submit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/cbor")

	resp, err := s.do(req)
	if err != nil {
		return model.SubmitTxResponse{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusBadRequest {
		upstream := readBlockfrostError(resp)
		return model.SubmitTxResponse{}, apierror.Wrap(model.ErrValidation, "TX_REJECTED", "transaction rejected by the network", upstream.Message, http.StatusBadRequest)
	}
	if resp.StatusCode != http.StatusOK {
		return model.SubmitTxResponse{}, upstreamError("submit transaction", resp)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return model.SubmitTxResponse{}, apierror.Wrap(model.ErrUpstream, "UPSTREAM_ERROR", "blockchain provider returned an unreadable response", "submit transaction", http.StatusBadGateway)
	}

	var txHash string
	if err := json.Unmarshal(body, &txHash); err != nil {
		txHash = strings.TrimSpace(string(body))
	}

	slog.Info("transaction submitted", "tx_hash", txHash)
	return model.SubmitTxResponse{TxHash: txHash}, nil
}

// BuildUnsignedTransaction is deliberately unsupported on the server; the
// wallet builds and signs transactions client side.
func (s *CardanoService) BuildUnsignedTransaction(context.Context) error {
	return apierror.Wrap(model.ErrNotImplemented, "NOT_IMPLEMENTED", "transaction building is not available on the server", "", http.StatusNotImplemented)
}

func (s *CardanoService) do(req *http.Request) (*http.Response, error) {
	req.Header.Set("project_id", s.projectID)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		slog.Warn("blockfrost request failed", "path", req.URL.Path, "error", err)
		return nil, apierror.Wrap(model.ErrUpstream, "UPSTREAM_ERROR", "blockchain provider is unreachable", "", http.StatusBadGateway)
	}
	return resp, nil
}

func upstreamError(op string, resp *http.Response) *apierror.APIError {
	upstream := readBlockfrostError(resp)
	slog.Warn("blockfrost request rejected", "op", op, "status", resp.StatusCode, "error", upstream.Error, "message", upstream.Message)
	return apierror.Wrap(model.ErrUpstream, "UPSTREAM_ERROR", "blockchain provider request failed", fmt.Sprintf("%s: upstream status %d", op, resp.StatusCode), http.StatusBadGateway)
}

func readBlockfrostError(resp *http.Response) blockfrostError {
	var parsed blockfrostError
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return parsed
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		parsed.Message = strings.TrimSpace(string(body))
	}
	return parsed
}
