package model

import (
	"encoding/hex"
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
)

// bcrypt ignores input past 72 bytes, so longer passwords are refused.
const maxPasswordBytes = 72

type Credentials struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

// Identifier picks the login name; the web client posts email on signup.
func (c Credentials) Identifier() string {
	if strings.TrimSpace(c.Username) != "" {
		return c.Username
	}
	return c.Email
}

func (c Credentials) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Username, validation.Required),
		validation.Field(&c.Password, validation.Required, validation.By(maxBytes(maxPasswordBytes))),
	)
}

type NoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (r NoteRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, MaxNoteTitleLength)),
	)
}

type WalletLinkRequest struct {
	WalletAddress string `json:"walletAddress"`
}

// ValidateFor checks the address against the column limit of the slot it
// is being written to.
func (r WalletLinkRequest) ValidateFor(maxLength int) error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.WalletAddress, validation.Required, validation.Length(1, maxLength)),
	)
}

type SubmitTxRequest struct {
	SignedTxHex string `json:"signedTxHex"`
}

func (r SubmitTxRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.SignedTxHex, validation.Required, validation.By(isHex)),
	)
}

func maxBytes(limit int) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if len(s) > limit {
			return errors.New("must be at most 72 bytes")
		}
		return nil
	}
}

func isHex(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := hex.DecodeString(s); err != nil {
		return errors.New("must be a hex encoded string")
	}
	return nil
}
