package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"go-notes-api/internal/event"
	"go-notes-api/internal/model"
)

type WalletStore interface {
	FindByUsername(ctx context.Context, username string) (model.Identity, error)
	UpdateWalletAddress(ctx context.Context, userID string, address string) error
	UpdateSecondaryWalletAddress(ctx context.Context, userID string, address string) error
}

type identityInvalidator interface {
	Invalidate(username string)
}

type UserService struct {
	users  WalletStore
	cache  identityInvalidator
	events EventPublisher
}

func NewUserService(users WalletStore, cache identityInvalidator) *UserService {
	return &UserService{users: users, cache: cache}
}

func (s *UserService) SetPublisher(p EventPublisher) {
	s.events = p
}

func (s *UserService) Profile(ctx context.Context, principal model.Principal) (model.Profile, error) {
	identity, err := s.users.FindByUsername(ctx, principal.Username)
	if errors.Is(err, model.ErrUserNotFound) {
		return model.Profile{}, userNotFoundError()
	}
	if err != nil {
		return model.Profile{}, storeUnavailable("find user", err)
	}

	return model.Profile{
		ID:                     identity.ID,
		Username:               identity.Username,
		WalletAddress:          identity.WalletAddress,
		SecondaryWalletAddress: identity.SecondaryWalletAddress,
		CreatedAt:              identity.CreatedAt,
	}, nil
}

// LinkWallet attaches or replaces the primary (EVM) wallet address.
func (s *UserService) LinkWallet(ctx context.Context, principal model.Principal, address string) (model.WalletLinkResponse, error) {
	return s.link(ctx, principal, address, "primary", model.MaxWalletAddressLength, s.users.UpdateWalletAddress)
}

// LinkSecondaryWallet attaches or replaces the Cardano wallet address.
func (s *UserService) LinkSecondaryWallet(ctx context.Context, principal model.Principal, address string) (model.WalletLinkResponse, error) {
	return s.link(ctx, principal, address, "secondary", model.MaxSecondaryWalletAddressLength, s.users.UpdateSecondaryWalletAddress)
}

func (s *UserService) link(
	ctx context.Context,
	principal model.Principal,
	address string,
	slot string,
	maxLength int,
	update func(ctx context.Context, userID string, address string) error,
) (model.WalletLinkResponse, error) {
	address = strings.TrimSpace(address)

	req := model.WalletLinkRequest{WalletAddress: address}
	if err := req.ValidateFor(maxLength); err != nil {
		message := "invalid wallet address"
		if address == "" {
			message = "wallet address is required"
		}
		return model.WalletLinkResponse{}, validationError(message, err)
	}

	err := update(ctx, principal.UserID, address)
	if errors.Is(err, model.ErrUserNotFound) {
		return model.WalletLinkResponse{}, userNotFoundError()
	}
	if err != nil {
		return model.WalletLinkResponse{}, storeUnavailable("link wallet", err)
	}

	if s.cache != nil {
		s.cache.Invalidate(principal.Username)
	}

	publish(s.events, event.TypeWalletLinked, principal.UserID, slot)
	slog.Info("wallet linked", "user_id", principal.UserID, "slot", slot)
	return model.WalletLinkResponse{
		Message:       "Wallet successfully linked.",
		WalletAddress: address,
	}, nil
}
