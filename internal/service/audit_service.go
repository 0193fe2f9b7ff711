package service

import (
	"context"
	"log/slog"

	"go-notes-api/internal/event"
	"go-notes-api/internal/model"
)

type AuditStore interface {
	Insert(ctx context.Context, entry model.AuditEntry) error
	ListByActor(ctx context.Context, query model.AuditQuery) ([]model.AuditEntry, int, error)
}

// EventPublisher is satisfied by event.InMemoryBus.
type EventPublisher interface {
	Publish(e event.Event)
}

// AuditService turns domain events into a per-user audit trail.
type AuditService struct {
	store AuditStore
}

func NewAuditService(store AuditStore) *AuditService {
	return &AuditService{store: store}
}

// Run persists events until events is closed. When ctx is cancelled first,
// whatever is already buffered is still recorded before Run returns.
func (s *AuditService) Run(ctx context.Context, events <-chan event.Event) {
	for {
		if ctx.Err() != nil {
			s.drain(context.WithoutCancel(ctx), events)
			return
		}

		select {
		case <-ctx.Done():
		case e, ok := <-events:
			if !ok {
				return
			}
			s.Record(ctx, e)
		}
	}
}

func (s *AuditService) drain(ctx context.Context, events <-chan event.Event) {
	for {
		select {
		case e, ok := <-events:
			if !ok {
				return
			}
			s.Record(ctx, e)
		default:
			return
		}
	}
}

// Record stores e. Events without a known actor only reach the log.
func (s *AuditService) Record(ctx context.Context, e event.Event) {
	if e.ActorID == "" {
		slog.Info("audit event without actor", "action", string(e.Type), "resource", e.Resource)
		return
	}

	entry := model.AuditEntry{
		ID:         e.ID,
		ActorID:    e.ActorID,
		Action:     string(e.Type),
		Resource:   e.Resource,
		OccurredAt: e.OccurredAt,
	}
	if err := s.store.Insert(ctx, entry); err != nil {
		slog.Error("record audit entry", "action", entry.Action, "actor_id", entry.ActorID, "error", err)
	}
}

func (s *AuditService) List(ctx context.Context, principal model.Principal, page int, limit int) (model.AuditPage, error) {
	query := model.AuditQuery{ActorID: principal.UserID, Page: page, Limit: limit}.Normalize()

	items, total, err := s.store.ListByActor(ctx, query)
	if err != nil {
		return model.AuditPage{}, storeUnavailable("list audit entries", err)
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + query.Limit - 1) / query.Limit
	}

	return model.AuditPage{
		Items:      items,
		Page:       query.Page,
		Limit:      query.Limit,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

func publish(p EventPublisher, t event.Type, actorID string, resource string) {
	if p == nil {
		return
	}
	p.Publish(event.New(t, actorID, resource))
}
