package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"go-notes-api/internal/model"
)

type AuditRepository struct {
	pool *pgxpool.Pool
}

func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

func (r *AuditRepository) Insert(ctx context.Context, entry model.AuditEntry) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO audit_entries (id, actor_id, action, resource, occurred_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO NOTHING`,
		entry.ID, entry.ActorID, entry.Action, entry.Resource, entry.OccurredAt)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// ListByActor returns the newest entries first along with the total count.
func (r *AuditRepository) ListByActor(ctx context.Context, query model.AuditQuery) ([]model.AuditEntry, int, error) {
	query = query.Normalize()

	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM audit_entries WHERE actor_id = $1`, query.ActorID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count audit entries: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, actor_id, action, resource, occurred_at
		 FROM audit_entries WHERE actor_id = $1
		 ORDER BY occurred_at DESC, id
		 LIMIT $2 OFFSET $3`,
		query.ActorID, query.Limit, query.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	items := make([]model.AuditEntry, 0, query.Limit)
	for rows.Next() {
		var e model.AuditEntry
		if err := rows.Scan(&e.ID, &e.ActorID, &e.Action, &e.Resource, &e.OccurredAt); err != nil {
			return nil, 0, fmt.Errorf("scan audit entry: %w", err)
		}
		items = append(items, e)
	}
	return items, total, rows.Err()
}
