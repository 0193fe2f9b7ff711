package model

import "time"

const (
	DefaultAuditPageSize = 50
	MaxAuditPageSize     = 200
)

// AuditEntry is one security-relevant action taken by, or against, a user.
type AuditEntry struct {
	ID         string    `json:"id"`
	ActorID    string    `json:"-"`
	Action     string    `json:"action"`
	Resource   string    `json:"resource,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type AuditQuery struct {
	ActorID string
	Page    int
	Limit   int
}

// Normalize clamps paging to sane bounds.
func (q AuditQuery) Normalize() AuditQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = DefaultAuditPageSize
	}
	if q.Limit > MaxAuditPageSize {
		q.Limit = MaxAuditPageSize
	}
	return q
}

func (q AuditQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

type AuditPage struct {
	Items      []AuditEntry `json:"items"`
	Page       int          `json:"page"`
	Limit      int          `json:"limit"`
	Total      int          `json:"total"`
	TotalPages int          `json:"total_pages"`
}
