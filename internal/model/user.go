package model

import (
	"strings"
	"time"
)

const (
	RoleUser = "user"

	MaxWalletAddressLength          = 42
	MaxSecondaryWalletAddressLength = 100
)

// Identity is the stored user record. PasswordHash never leaves the server.
type Identity struct {
	ID                     string    `json:"id"`
	Username               string    `json:"username"`
	PasswordHash           string    `json:"-"`
	Role                   string    `json:"role"`
	WalletAddress          string    `json:"wallet_address,omitempty"`
	SecondaryWalletAddress string    `json:"secondary_wallet_address,omitempty"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// Authorities returns the granted authorities derived from the role.
func (i Identity) Authorities() []string {
	role := strings.TrimSpace(i.Role)
	if role == "" {
		role = RoleUser
	}
	return []string{"ROLE_" + strings.ToUpper(role)}
}

// Principal is the authenticated caller attached to a single request.
type Principal struct {
	UserID      string   `json:"user_id"`
	Username    string   `json:"username"`
	Authorities []string `json:"authorities"`
}

func PrincipalFor(identity Identity) Principal {
	return Principal{
		UserID:      identity.ID,
		Username:    identity.Username,
		Authorities: identity.Authorities(),
	}
}

type Profile struct {
	ID                     string    `json:"id"`
	Username               string    `json:"username"`
	WalletAddress          string    `json:"walletAddress"`
	SecondaryWalletAddress string    `json:"secondaryWalletAddress"`
	CreatedAt              time.Time `json:"created_at"`
}

type LoginResult struct {
	Token     string    `json:"token"`
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NormalizeUsername is applied before every lookup and insert.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
