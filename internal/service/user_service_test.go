package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-notes-api/internal/model"
	"go-notes-api/internal/repository"
)

func registeredUser(t *testing.T, users *repository.MemoryUserRepository, username string) model.Principal {
	t.Helper()
	identity, err := users.Create(context.Background(), model.Identity{Username: username, PasswordHash: "x", Role: model.RoleUser})
	require.NoError(t, err)
	return model.PrincipalFor(identity)
}

func TestUserService_LinkWallet(t *testing.T) {
	ctx := context.Background()
	users := repository.NewMemoryUserRepository()
	cache := &recordingInvalidator{}
	svc := NewUserService(users, cache)
	principal := registeredUser(t, users, "alice")

	resp, err := svc.LinkWallet(ctx, principal, "  0x71C7656EC7ab88b098defB751B7401B5f6d8976F ")
	require.NoError(t, err)
	assert.Equal(t, "Wallet successfully linked.", resp.Message)
	assert.Equal(t, "0x71C7656EC7ab88b098defB751B7401B5f6d8976F", resp.WalletAddress)
	assert.Equal(t, []string{"alice"}, cache.invalidated)

	profile, err := svc.Profile(ctx, principal)
	require.NoError(t, err)
	assert.Equal(t, "0x71C7656EC7ab88b098defB751B7401B5f6d8976F", profile.WalletAddress)
	assert.Empty(t, profile.SecondaryWalletAddress)
}

func TestUserService_LinkSecondaryWalletAcceptsLongerAddresses(t *testing.T) {
	ctx := context.Background()
	users := repository.NewMemoryUserRepository()
	svc := NewUserService(users, nil)
	principal := registeredUser(t, users, "bob")

	cardano := "addr_test1" + strings.Repeat("q", 80)

	_, err := svc.LinkWallet(ctx, principal, cardano)
	assert.ErrorIs(t, err, model.ErrValidation)

	resp, err := svc.LinkSecondaryWallet(ctx, principal, cardano)
	require.NoError(t, err)
	assert.Equal(t, cardano, resp.WalletAddress)

	profile, err := svc.Profile(ctx, principal)
	require.NoError(t, err)
	assert.Equal(t, cardano, profile.SecondaryWalletAddress)
	assert.Empty(t, profile.WalletAddress)
}

func TestUserService_LinkWalletValidation(t *testing.T) {
	ctx := context.Background()
	users := repository.NewMemoryUserRepository()
	svc := NewUserService(users, nil)
	principal := registeredUser(t, users, "carol")

	_, err := svc.LinkWallet(ctx, principal, "   ")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrValidation)
	assert.Contains(t, err.Error(), "wallet address is required")

	_, err = svc.LinkSecondaryWallet(ctx, principal, strings.Repeat("a", model.MaxSecondaryWalletAddressLength+1))
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestUserService_LinkWalletForDeletedUser(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(repository.NewMemoryUserRepository(), nil)

	_, err := svc.LinkWallet(ctx, model.Principal{UserID: "gone", Username: "gone"}, "0xabc")
	assert.ErrorIs(t, err, model.ErrUserNotFound)
	assert.Equal(t, 404, statusOf(t, err))
}

func TestUserService_StoreFailureDoesNotInvalidate(t *testing.T) {
	ctx := context.Background()
	store := new(MockUserStore)
	cache := &recordingInvalidator{}
	svc := NewUserService(store, cache)

	store.On("UpdateWalletAddress", ctx, "u-1", "0xabc").Return(errors.New("broken pipe"))

	_, err := svc.LinkWallet(ctx, model.Principal{UserID: "u-1", Username: "dave"}, "0xabc")
	assert.ErrorIs(t, err, model.ErrStoreUnavailable)
	assert.Empty(t, cache.invalidated)
	store.AssertExpectations(t)
}
