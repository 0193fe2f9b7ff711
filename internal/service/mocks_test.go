package service

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"go-notes-api/internal/event"
	"go-notes-api/internal/model"
)

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) FindByUsername(ctx context.Context, username string) (model.Identity, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(model.Identity), args.Error(1)
}

func (m *MockUserStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserStore) Create(ctx context.Context, identity model.Identity) (model.Identity, error) {
	args := m.Called(ctx, identity)
	return args.Get(0).(model.Identity), args.Error(1)
}

func (m *MockUserStore) UpdateWalletAddress(ctx context.Context, userID string, address string) error {
	args := m.Called(ctx, userID, address)
	return args.Error(0)
}

func (m *MockUserStore) UpdateSecondaryWalletAddress(ctx context.Context, userID string, address string) error {
	args := m.Called(ctx, userID, address)
	return args.Error(0)
}

type MockNoteStore struct {
	mock.Mock
}

func (m *MockNoteStore) ListByOwner(ctx context.Context, ownerID string) ([]model.Note, error) {
	args := m.Called(ctx, ownerID)
	notes, _ := args.Get(0).([]model.Note)
	return notes, args.Error(1)
}

func (m *MockNoteStore) FindByID(ctx context.Context, id string) (model.Note, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Note), args.Error(1)
}

func (m *MockNoteStore) Create(ctx context.Context, note model.Note) (model.Note, error) {
	args := m.Called(ctx, note)
	return args.Get(0).(model.Note), args.Error(1)
}

func (m *MockNoteStore) Update(ctx context.Context, note model.Note) (model.Note, error) {
	args := m.Called(ctx, note)
	return args.Get(0).(model.Note), args.Error(1)
}

func (m *MockNoteStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// plainHasher keeps service tests independent of bcrypt timing.
type plainHasher struct{}

func (plainHasher) Hash(plaintext string) (string, error) { return "hashed:" + plaintext, nil }

func (plainHasher) Verify(plaintext string, digest string) bool { return digest == "hashed:"+plaintext }

type stubIssuer struct {
	token     string
	subject   string
	expiresAt time.Time
}

func (s *stubIssuer) Issue(subject string) (string, time.Time, error) {
	s.subject = subject
	return s.token, s.expiresAt, nil
}

type recordingInvalidator struct {
	invalidated []string
}

func (r *recordingInvalidator) Invalidate(username string) {
	r.invalidated = append(r.invalidated, username)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []event.Event
}

func (p *recordingPublisher) Publish(e event.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) types() []event.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]event.Type, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}
