package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"go-notes-api/internal/auth"
	"go-notes-api/internal/metrics"
	"go-notes-api/internal/model"
	"go-notes-api/internal/repository"
	"go-notes-api/pkg/apierror"
)

func newRealAuthService(t *testing.T) (*AuthService, *auth.TokenCodec, *metrics.Metrics) {
	t.Helper()

	hasher, err := auth.NewHasher(bcrypt.MinCost)
	require.NoError(t, err)
	codec, err := auth.NewTokenCodec([]byte(strings.Repeat("x", auth.MinSecretLength)), time.Hour)
	require.NoError(t, err)
	m := metrics.New()

	svc, err := NewAuthService(repository.NewMemoryUserRepository(), hasher, codec, m)
	require.NoError(t, err)
	return svc, codec, m
}

func TestAuthService_RegisterThenLogin(t *testing.T) {
	ctx := context.Background()
	svc, codec, m := newRealAuthService(t)

	created, err := svc.Register(ctx, "  Alice@Example.com ", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", created.Username)
	assert.NotEqual(t, "s3cret-pass", created.PasswordHash)

	result, err := svc.Login(ctx, "ALICE@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "Login successful", result.Message)

	subject, err := codec.Parse(result.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", subject)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SignupsTotal.WithLabelValues(metrics.ResultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LoginsTotal.WithLabelValues(metrics.ResultSuccess)))
}

func TestAuthService_RegisterDuplicateAcrossCasing(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newRealAuthService(t)

	_, err := svc.Register(ctx, "Bob@x.com", "first")
	require.NoError(t, err)

	_, err = svc.Register(ctx, " bob@x.com ", "second")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrDuplicateUser)

	var apiErr *apierror.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 409, apiErr.HTTPStatus)
}

func TestAuthService_InvalidCredentialsAreIndistinguishable(t *testing.T) {
	ctx := context.Background()
	svc, _, m := newRealAuthService(t)

	_, err := svc.Register(ctx, "user", "rightpass")
	require.NoError(t, err)

	_, wrongPassword := svc.Login(ctx, "user", "wrongpass")
	_, unknownUser := svc.Login(ctx, "nouser", "anything")

	require.Error(t, wrongPassword)
	require.Error(t, unknownUser)
	assert.ErrorIs(t, wrongPassword, model.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, model.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())

	var a, b *apierror.APIError
	require.True(t, errors.As(wrongPassword, &a))
	require.True(t, errors.As(unknownUser, &b))
	assert.Equal(t, *a, *b)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.LoginsTotal.WithLabelValues(metrics.ResultInvalid)))
}

func TestAuthService_RegisterValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newRealAuthService(t)

	cases := map[string][2]string{
		"empty username":      {"", "password"},
		"whitespace username": {"   ", "password"},
		"empty password":      {"bob", ""},
		"oversized password":  {"bob", strings.Repeat("p", 73)},
	}

	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Register(ctx, input[0], input[1])
			assert.ErrorIs(t, err, model.ErrValidation)
		})
	}
}

func TestAuthService_RegisterMapsConstraintViolationToDuplicate(t *testing.T) {
	ctx := context.Background()
	store := new(MockUserStore)
	svc, err := NewAuthService(store, plainHasher{}, &stubIssuer{}, nil)
	require.NoError(t, err)

	// The existence check passes but a concurrent signup wins the insert.
	store.On("ExistsByUsername", ctx, "carol").Return(false, nil)
	store.On("Create", ctx, mock.AnythingOfType("model.Identity")).Return(model.Identity{}, model.ErrDuplicateUser)

	_, err = svc.Register(ctx, "Carol", "pw")
	assert.ErrorIs(t, err, model.ErrDuplicateUser)
	store.AssertExpectations(t)
}

func TestAuthService_RegisterPersistsHashedIdentity(t *testing.T) {
	ctx := context.Background()
	store := new(MockUserStore)
	svc, err := NewAuthService(store, plainHasher{}, &stubIssuer{}, nil)
	require.NoError(t, err)

	store.On("ExistsByUsername", ctx, "dave").Return(false, nil)
	store.On("Create", ctx, model.Identity{Username: "dave", PasswordHash: "hashed:pw", Role: model.RoleUser}).
		Return(model.Identity{ID: "u-1", Username: "dave", PasswordHash: "hashed:pw", Role: model.RoleUser}, nil)

	created, err := svc.Register(ctx, "dave", "pw")
	require.NoError(t, err)
	assert.Equal(t, "u-1", created.ID)
	store.AssertExpectations(t)
}

func TestAuthService_StoreFailures(t *testing.T) {
	ctx := context.Background()
	driverErr := errors.New("dial tcp 10.0.0.5:5432: connection refused")

	t.Run("register", func(t *testing.T) {
		store := new(MockUserStore)
		svc, err := NewAuthService(store, plainHasher{}, &stubIssuer{}, nil)
		require.NoError(t, err)
		store.On("ExistsByUsername", ctx, "erin").Return(false, driverErr)

		_, err = svc.Register(ctx, "erin", "pw")
		assert.ErrorIs(t, err, model.ErrStoreUnavailable)
		assert.NotContains(t, err.Error(), "10.0.0.5")
	})

	t.Run("login", func(t *testing.T) {
		store := new(MockUserStore)
		svc, err := NewAuthService(store, plainHasher{}, &stubIssuer{}, nil)
		require.NoError(t, err)
		store.On("FindByUsername", ctx, "erin").Return(model.Identity{}, driverErr)

		_, err = svc.Login(ctx, "erin", "pw")
		assert.ErrorIs(t, err, model.ErrStoreUnavailable)
		assert.NotErrorIs(t, err, model.ErrInvalidCredentials)
	})
}

func TestAuthService_LoginIssuesTokenForStoredUsername(t *testing.T) {
	ctx := context.Background()
	store := new(MockUserStore)
	expiresAt := time.Unix(1_700_003_600, 0).UTC()
	issuer := &stubIssuer{token: "signed", expiresAt: expiresAt}
	svc, err := NewAuthService(store, plainHasher{}, issuer, nil)
	require.NoError(t, err)

	store.On("FindByUsername", ctx, "frank").
		Return(model.Identity{ID: "u-2", Username: "frank", PasswordHash: "hashed:pw"}, nil)

	result, err := svc.Login(ctx, " FRANK", "pw")
	require.NoError(t, err)
	assert.Equal(t, "signed", result.Token)
	assert.Equal(t, expiresAt, result.ExpiresAt)
	assert.Equal(t, "frank", issuer.subject)
}
