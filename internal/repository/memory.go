package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"go-notes-api/internal/model"
)

// MemoryUserRepository keeps identities in process. The username index is
// maintained under the same lock as the insert, standing in for the
// database's unique constraint.
type MemoryUserRepository struct {
	mu         sync.RWMutex
	byID       map[string]model.Identity
	byUsername map[string]string
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byID:       map[string]model.Identity{},
		byUsername: map[string]string{},
	}
}

func (r *MemoryUserRepository) FindByUsername(_ context.Context, username string) (model.Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUsername[username]
	if !ok {
		return model.Identity{}, model.ErrUserNotFound
	}
	return r.byID[id], nil
}

func (r *MemoryUserRepository) ExistsByUsername(_ context.Context, username string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byUsername[username]
	return ok, nil
}

func (r *MemoryUserRepository) Create(_ context.Context, u model.Identity) (model.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byUsername[u.Username]; taken {
		return model.Identity{}, model.ErrDuplicateUser
	}

	now := time.Now().UTC()
	u.ID = uuid.NewString()
	u.CreatedAt = now
	u.UpdatedAt = now

	r.byID[u.ID] = u
	r.byUsername[u.Username] = u.ID
	return u, nil
}

func (r *MemoryUserRepository) UpdateWalletAddress(_ context.Context, userID string, address string) error {
	return r.update(userID, func(u *model.Identity) { u.WalletAddress = address })
}

func (r *MemoryUserRepository) UpdateSecondaryWalletAddress(_ context.Context, userID string, address string) error {
	return r.update(userID, func(u *model.Identity) { u.SecondaryWalletAddress = address })
}

func (r *MemoryUserRepository) Ping(context.Context) error {
	return nil
}

func (r *MemoryUserRepository) update(userID string, apply func(*model.Identity)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[userID]
	if !ok {
		return model.ErrUserNotFound
	}
	apply(&u)
	u.UpdatedAt = time.Now().UTC()
	r.byID[userID] = u
	return nil
}

type MemoryNoteRepository struct {
	mu    sync.RWMutex
	notes map[string]model.Note
}

func NewMemoryNoteRepository() *MemoryNoteRepository {
	return &MemoryNoteRepository{notes: map[string]model.Note{}}
}

func (r *MemoryNoteRepository) ListByOwner(_ context.Context, ownerID string) ([]model.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	notes := make([]model.Note, 0)
	for _, n := range r.notes {
		if n.OwnerID == ownerID {
			notes = append(notes, n)
		}
	}
	sort.Slice(notes, func(i, j int) bool {
		if notes[i].CreatedAt.Equal(notes[j].CreatedAt) {
			return notes[i].ID < notes[j].ID
		}
		return notes[i].CreatedAt.Before(notes[j].CreatedAt)
	})
	return notes, nil
}

func (r *MemoryNoteRepository) FindByID(_ context.Context, id string) (model.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.notes[id]
	if !ok {
		return model.Note{}, model.ErrNoteNotFound
	}
	return n, nil
}

func (r *MemoryNoteRepository) Create(_ context.Context, n model.Note) (model.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	n.ID = uuid.NewString()
	n.CreatedAt = now
	n.UpdatedAt = now
	r.notes[n.ID] = n
	return n, nil
}

func (r *MemoryNoteRepository) Update(_ context.Context, n model.Note) (model.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.notes[n.ID]
	if !ok {
		return model.Note{}, model.ErrNoteNotFound
	}
	existing.Title = n.Title
	existing.Content = n.Content
	existing.UpdatedAt = time.Now().UTC()
	r.notes[n.ID] = existing
	return existing, nil
}

func (r *MemoryNoteRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.notes[id]; !ok {
		return model.ErrNoteNotFound
	}
	delete(r.notes, id)
	return nil
}

type MemoryAuditRepository struct {
	mu      sync.RWMutex
	entries []model.AuditEntry
}

func NewMemoryAuditRepository() *MemoryAuditRepository {
	return &MemoryAuditRepository{}
}

func (r *MemoryAuditRepository) Insert(_ context.Context, entry model.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.entries {
		if existing.ID == entry.ID {
			return nil
		}
	}
	r.entries = append(r.entries, entry)
	return nil
}

func (r *MemoryAuditRepository) ListByActor(_ context.Context, query model.AuditQuery) ([]model.AuditEntry, int, error) {
	query = query.Normalize()

	r.mu.RLock()
	matched := make([]model.AuditEntry, 0)
	for _, e := range r.entries {
		if e.ActorID == query.ActorID {
			matched = append(matched, e)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].OccurredAt.After(matched[j].OccurredAt)
	})

	total := len(matched)
	start := min(query.Offset(), total)
	end := min(start+query.Limit, total)
	return matched[start:end], total, nil
}
