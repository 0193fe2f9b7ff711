package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go-notes-api/internal/event"
	"go-notes-api/internal/metrics"
	"go-notes-api/internal/model"
)

type UserStore interface {
	FindByUsername(ctx context.Context, username string) (model.Identity, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, identity model.Identity) (model.Identity, error)
}

type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext string, digest string) bool
}

type TokenIssuer interface {
	Issue(subject string) (string, time.Time, error)
}

type AuthService struct {
	users   UserStore
	hasher  PasswordHasher
	tokens  TokenIssuer
	metrics *metrics.Metrics
	events  EventPublisher

	// compared against when the user does not exist so both login failure
	// paths pay for one bcrypt comparison.
	dummyHash string
}

func NewAuthService(users UserStore, hasher PasswordHasher, tokens TokenIssuer, m *metrics.Metrics) (*AuthService, error) {
	dummyHash, err := hasher.Hash("login-timing-equalizer")
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}

	return &AuthService{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		metrics:   m,
		dummyHash: dummyHash,
	}, nil
}

// SetPublisher enables domain events for registrations and logins.
func (s *AuthService) SetPublisher(p EventPublisher) {
	s.events = p
}

func (s *AuthService) Register(ctx context.Context, username string, password string) (model.Identity, error) {
	username = model.NormalizeUsername(username)

	creds := model.Credentials{Username: username, Password: password}
	if err := creds.Validate(); err != nil {
		s.metrics.Signup(metrics.ResultValidation)
		return model.Identity{}, validationError("username and password are required", err)
	}

	exists, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		s.metrics.Signup(metrics.ResultError)
		return model.Identity{}, storeUnavailable("check username", err)
	}
	if exists {
		s.metrics.Signup(metrics.ResultDuplicate)
		return model.Identity{}, duplicateUserError(username)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.metrics.Signup(metrics.ResultError)
		return model.Identity{}, err
	}

	created, err := s.users.Create(ctx, model.Identity{
		Username:     username,
		PasswordHash: hash,
		Role:         model.RoleUser,
	})
	if errors.Is(err, model.ErrDuplicateUser) {
		// Lost the race against a concurrent signup; the unique index decided.
		s.metrics.Signup(metrics.ResultDuplicate)
		return model.Identity{}, duplicateUserError(username)
	}
	if err != nil {
		s.metrics.Signup(metrics.ResultError)
		return model.Identity{}, storeUnavailable("create user", err)
	}

	s.metrics.Signup(metrics.ResultSuccess)
	publish(s.events, event.TypeUserRegistered, created.ID, "")
	slog.Info("user registered", "user_id", created.ID)
	return created, nil
}

// Login never tells the caller whether the username or the password was
// wrong.
func (s *AuthService) Login(ctx context.Context, username string, password string) (model.LoginResult, error) {
	username = model.NormalizeUsername(username)

	identity, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, model.ErrUserNotFound) {
		s.hasher.Verify(password, s.dummyHash)
		s.metrics.Login(metrics.ResultInvalid)
		return model.LoginResult{}, invalidCredentialsError()
	}
	if err != nil {
		s.metrics.Login(metrics.ResultError)
		return model.LoginResult{}, storeUnavailable("find user", err)
	}

	if !s.hasher.Verify(password, identity.PasswordHash) {
		s.metrics.Login(metrics.ResultInvalid)
		publish(s.events, event.TypeLoginFailed, identity.ID, "")
		return model.LoginResult{}, invalidCredentialsError()
	}

	token, expiresAt, err := s.tokens.Issue(identity.Username)
	if err != nil {
		s.metrics.Login(metrics.ResultError)
		return model.LoginResult{}, err
	}

	s.metrics.Login(metrics.ResultSuccess)
	publish(s.events, event.TypeLoginSucceeded, identity.ID, "")
	return model.LoginResult{
		Token:     token,
		Message:   "Login successful",
		ExpiresAt: expiresAt,
	}, nil
}
