package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-notes-api/internal/model"
)

var testSecret = []byte(strings.Repeat("k", MinSecretLength))

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestNewTokenCodec_RejectsShortSecret(t *testing.T) {
	_, err := NewTokenCodec([]byte(strings.Repeat("k", MinSecretLength-1)), time.Hour)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 64 bytes")
}

func TestNewTokenCodec_DefaultTTL(t *testing.T) {
	codec, err := NewTokenCodec(testSecret, 0)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, codec.TTL())
}

func TestTokenCodec_IssueAndParse(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	codec, err := NewTokenCodec(testSecret, time.Hour, WithClock(clock.Now), WithIssuer("go-notes-api"))
	require.NoError(t, err)

	token, expiresAt, err := codec.Issue("bob@x.com")
	require.NoError(t, err)
	assert.Equal(t, clock.now.Add(time.Hour).UTC(), expiresAt)

	subject, err := codec.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "bob@x.com", subject)
}

func TestTokenCodec_ReturnedExpiryMatchesClaim(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 900_000_000)}
	codec, err := NewTokenCodec(testSecret, time.Hour, WithClock(clock.Now))
	require.NoError(t, err)

	token, expiresAt, err := codec.Issue("alice")
	require.NoError(t, err)

	claims := jwt.RegisteredClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, &claims)
	require.NoError(t, err)
	assert.True(t, claims.ExpiresAt.Time.Equal(expiresAt), "claim %v, returned %v", claims.ExpiresAt.Time, expiresAt)
	assert.Equal(t, time.Unix(1_700_003_600, 0).UTC(), expiresAt)

	_, err = codec.Parse(token)
	require.NoError(t, err)
}

func TestTokenCodec_Expiry(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	codec, err := NewTokenCodec(testSecret, time.Second, WithClock(clock.Now))
	require.NoError(t, err)

	token, _, err := codec.Issue("alice")
	require.NoError(t, err)

	subject, err := codec.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)

	clock.Advance(2 * time.Second)
	_, err = codec.Parse(token)
	assert.ErrorIs(t, err, model.ErrTokenExpired)
}

func TestTokenCodec_ExpiresExactlyAtDeadline(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	codec, err := NewTokenCodec(testSecret, time.Second, WithClock(clock.Now))
	require.NoError(t, err)

	token, _, err := codec.Issue("alice")
	require.NoError(t, err)

	clock.Advance(time.Second)
	_, err = codec.Parse(token)
	assert.ErrorIs(t, err, model.ErrTokenExpired)
}

func TestTokenCodec_ForeignSecret(t *testing.T) {
	codec, err := NewTokenCodec(testSecret, time.Hour)
	require.NoError(t, err)
	other, err := NewTokenCodec([]byte(strings.Repeat("z", MinSecretLength)), time.Hour)
	require.NoError(t, err)

	token, _, err := other.Issue("mallory")
	require.NoError(t, err)

	_, err = codec.Parse(token)
	assert.ErrorIs(t, err, model.ErrTokenInvalidSignature)
}

func TestTokenCodec_RejectsOtherAlgorithms(t *testing.T) {
	codec, err := NewTokenCodec(testSecret, time.Hour)
	require.NoError(t, err)

	claims := jwt.RegisteredClaims{
		Subject:   "mallory",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)

	_, err = codec.Parse(token)
	assert.ErrorIs(t, err, model.ErrTokenInvalidSignature)
}

func TestTokenCodec_Malformed(t *testing.T) {
	codec, err := NewTokenCodec(testSecret, time.Hour)
	require.NoError(t, err)

	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		_, err := codec.Parse(raw)
		assert.ErrorIs(t, err, model.ErrTokenMalformed, raw)
	}
}

func TestTokenCodec_RequiresSubjectAndExpiry(t *testing.T) {
	codec, err := NewTokenCodec(testSecret, time.Hour)
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(testSecret)
	require.NoError(t, err)
	_, err = codec.Parse(noSubject)
	assert.ErrorIs(t, err, model.ErrTokenMalformed)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject: "bob",
	}).SignedString(testSecret)
	require.NoError(t, err)
	_, err = codec.Parse(noExpiry)
	assert.ErrorIs(t, err, model.ErrTokenMalformed)
}

func TestTokenCodec_IssuerMismatch(t *testing.T) {
	issuer, err := NewTokenCodec(testSecret, time.Hour, WithIssuer("someone-else"))
	require.NoError(t, err)
	verifier, err := NewTokenCodec(testSecret, time.Hour, WithIssuer("go-notes-api"))
	require.NoError(t, err)

	token, _, err := issuer.Issue("bob")
	require.NoError(t, err)

	_, err = verifier.Parse(token)
	assert.ErrorIs(t, err, model.ErrTokenMalformed)
}
