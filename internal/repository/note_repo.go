package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-notes-api/internal/model"
)

type NoteRepository struct {
	pool *pgxpool.Pool
}

func NewNoteRepository(pool *pgxpool.Pool) *NoteRepository {
	return &NoteRepository{pool: pool}
}

func (r *NoteRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Note, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, owner_id, title, content, created_at, updated_at
		 FROM notes WHERE owner_id = $1 ORDER BY created_at, id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	notes := make([]model.Note, 0)
	for rows.Next() {
		var n model.Note
		if err := rows.Scan(&n.ID, &n.OwnerID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (r *NoteRepository) FindByID(ctx context.Context, id string) (model.Note, error) {
	if _, err := uuid.Parse(id); err != nil {
		return model.Note{}, model.ErrNoteNotFound
	}

	var n model.Note
	err := r.pool.QueryRow(ctx,
		`SELECT id, owner_id, title, content, created_at, updated_at
		 FROM notes WHERE id = $1`, id).
		Scan(&n.ID, &n.OwnerID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Note{}, model.ErrNoteNotFound
	}
	if err != nil {
		return model.Note{}, fmt.Errorf("find note: %w", err)
	}
	return n, nil
}

func (r *NoteRepository) Create(ctx context.Context, n model.Note) (model.Note, error) {
	now := time.Now().UTC()
	n.ID = uuid.NewString()
	n.CreatedAt = now
	n.UpdatedAt = now

	_, err := r.pool.Exec(ctx,
		`INSERT INTO notes (id, owner_id, title, content, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		n.ID, n.OwnerID, n.Title, n.Content, n.CreatedAt, n.UpdatedAt)
	if err != nil {
		return model.Note{}, fmt.Errorf("create note: %w", err)
	}
	return n, nil
}

func (r *NoteRepository) Update(ctx context.Context, n model.Note) (model.Note, error) {
	n.UpdatedAt = time.Now().UTC()

	tag, err := r.pool.Exec(ctx,
		`UPDATE notes SET title = $2, content = $3, updated_at = $4 WHERE id = $1`,
		n.ID, n.Title, n.Content, n.UpdatedAt)
	if err != nil {
		return model.Note{}, fmt.Errorf("update note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.Note{}, model.ErrNoteNotFound
	}
	return n, nil
}

func (r *NoteRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNoteNotFound
	}
	return nil
}
