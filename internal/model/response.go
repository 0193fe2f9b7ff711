package model

// APIResponse is the failure envelope. Successful responses carry the
// resource itself so existing clients can read fields such as token directly.
type APIResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type WalletLinkResponse struct {
	Message       string `json:"message"`
	WalletAddress string `json:"walletAddress"`
}

type UTxO struct {
	TxHash      string        `json:"tx_hash"`
	OutputIndex int           `json:"output_index"`
	Address     string        `json:"address"`
	Amount      []AssetAmount `json:"amount"`
	Block       string        `json:"block,omitempty"`
	DataHash    *string       `json:"data_hash,omitempty"`
}

type AssetAmount struct {
	Unit     string `json:"unit"`
	Quantity string `json:"quantity"`
}

type SubmitTxResponse struct {
	TxHash string `json:"txHash"`
}
