// Package auth holds the credential primitives: password hashing and the
// signed, time-bound bearer token.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"go-notes-api/internal/model"
)

const (
	// MinSecretLength is the HS512 key floor (512 bits).
	MinSecretLength = 64
	DefaultTokenTTL = time.Hour
)

type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

type TokenOption func(*TokenCodec)

// WithClock overrides the time source used for issuing and verifying.
func WithClock(now func() time.Time) TokenOption {
	return func(c *TokenCodec) {
		c.now = now
	}
}

func WithIssuer(issuer string) TokenOption {
	return func(c *TokenCodec) {
		c.issuer = strings.TrimSpace(issuer)
	}
}

func NewTokenCodec(secret []byte, ttl time.Duration, opts ...TokenOption) (*TokenCodec, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("token secret must be at least %d bytes, got %d", MinSecretLength, len(secret))
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	key := make([]byte, len(secret))
	copy(key, secret)

	codec := &TokenCodec{secret: key, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(codec)
	}

	return codec, nil
}

func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a token asserting subject, valid for the configured TTL.
func (c *TokenCodec) Issue(subject string) (string, time.Time, error) {
	// Claims carry whole seconds; keep the returned deadline in step.
	now := c.now().UTC().Truncate(time.Second)
	expiresAt := now.Add(c.ttl)

	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    c.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return signed, expiresAt, nil
}

// Parse verifies the signature and expiry and returns the subject. Failures
// are one of model.ErrTokenMalformed, model.ErrTokenInvalidSignature or
// model.ErrTokenExpired.
func (c *TokenCodec) Parse(tokenString string) (string, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	}
	if c.issuer != "" {
		opts = append(opts, jwt.WithIssuer(c.issuer))
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(strings.TrimSpace(tokenString), claims, func(token *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, opts...)
	if err != nil {
		return "", classify(err)
	}

	if strings.TrimSpace(claims.Subject) == "" {
		return "", model.ErrTokenMalformed
	}

	return claims.Subject, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return model.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return model.ErrTokenInvalidSignature
	default:
		return model.ErrTokenMalformed
	}
}
