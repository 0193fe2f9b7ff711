package event

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeUserRegistered Type = "user.registered"
	TypeLoginSucceeded Type = "auth.login_succeeded"
	TypeLoginFailed    Type = "auth.login_failed"
	TypeNoteCreated    Type = "note.created"
	TypeNoteUpdated    Type = "note.updated"
	TypeNoteDeleted    Type = "note.deleted"
	TypeWalletLinked   Type = "wallet.linked"
)

type Event struct {
	ID         string    `json:"id"`
	Type       Type      `json:"type"`
	ActorID    string    `json:"actor_id,omitempty"` // empty when the caller is not a known user
	Resource   string    `json:"resource,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func New(t Type, actorID string, resource string) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		ActorID:    actorID,
		Resource:   resource,
		OccurredAt: time.Now().UTC(),
	}
}

type Bus interface {
	Publish(e Event)
	Subscribe() (<-chan Event, func()) // Returns channel and unsubscribe function
}
