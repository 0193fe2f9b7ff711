package service

import (
	"context"
	"errors"
	"strings"

	"go-notes-api/internal/event"
	"go-notes-api/internal/model"
)

type NoteStore interface {
	ListByOwner(ctx context.Context, ownerID string) ([]model.Note, error)
	FindByID(ctx context.Context, id string) (model.Note, error)
	Create(ctx context.Context, note model.Note) (model.Note, error)
	Update(ctx context.Context, note model.Note) (model.Note, error)
	Delete(ctx context.Context, id string) error
}

type NoteService struct {
	notes  NoteStore
	events EventPublisher
}

func NewNoteService(notes NoteStore) *NoteService {
	return &NoteService{notes: notes}
}

func (s *NoteService) SetPublisher(p EventPublisher) {
	s.events = p
}

func (s *NoteService) List(ctx context.Context, principal model.Principal) ([]model.Note, error) {
	notes, err := s.notes.ListByOwner(ctx, principal.UserID)
	if err != nil {
		return nil, storeUnavailable("list notes", err)
	}
	return notes, nil
}

func (s *NoteService) Create(ctx context.Context, principal model.Principal, req model.NoteRequest) (model.Note, error) {
	if err := validateNote(req); err != nil {
		return model.Note{}, err
	}

	note, err := s.notes.Create(ctx, model.Note{
		OwnerID: principal.UserID,
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return model.Note{}, storeUnavailable("create note", err)
	}
	publish(s.events, event.TypeNoteCreated, principal.UserID, note.ID)
	return note, nil
}

func (s *NoteService) Update(ctx context.Context, principal model.Principal, id string, req model.NoteRequest) (model.Note, error) {
	if err := validateNote(req); err != nil {
		return model.Note{}, err
	}

	note, err := s.owned(ctx, principal, id)
	if err != nil {
		return model.Note{}, err
	}

	note.Title = req.Title
	note.Content = req.Content

	updated, err := s.notes.Update(ctx, note)
	if errors.Is(err, model.ErrNoteNotFound) {
		return model.Note{}, noteNotFoundError(id)
	}
	if err != nil {
		return model.Note{}, storeUnavailable("update note", err)
	}
	publish(s.events, event.TypeNoteUpdated, principal.UserID, id)
	return updated, nil
}

func (s *NoteService) Delete(ctx context.Context, principal model.Principal, id string) error {
	if _, err := s.owned(ctx, principal, id); err != nil {
		return err
	}

	err := s.notes.Delete(ctx, id)
	if errors.Is(err, model.ErrNoteNotFound) {
		return noteNotFoundError(id)
	}
	if err != nil {
		return storeUnavailable("delete note", err)
	}
	publish(s.events, event.TypeNoteDeleted, principal.UserID, id)
	return nil
}

// owned loads the note and enforces that principal created it.
func (s *NoteService) owned(ctx context.Context, principal model.Principal, id string) (model.Note, error) {
	note, err := s.notes.FindByID(ctx, id)
	if errors.Is(err, model.ErrNoteNotFound) {
		return model.Note{}, noteNotFoundError(id)
	}
	if err != nil {
		return model.Note{}, storeUnavailable("find note", err)
	}

	if note.OwnerID != principal.UserID {
		return model.Note{}, forbiddenError("note belongs to another user")
	}
	return note, nil
}

// Whitespace-only titles are rejected, but the title is stored as sent.
func validateNote(req model.NoteRequest) error {
	check := req
	check.Title = strings.TrimSpace(req.Title)
	if err := check.Validate(); err != nil {
		return validationError("invalid note", err)
	}
	return nil
}
