package ledger

import (
	"context"

	"transtock/internal/core/id"
)

// Repository defines the storage contract for movement records.
// Movements are append-only: there is deliberately no update or delete.
type Repository interface {
	// Insert appends a movement record.
	Insert(ctx context.Context, m *Movement) error

	// ListByArticle returns movement history for an article, newest first.
	ListByArticle(ctx context.Context, articleID id.ID, filter MovementFilter) ([]Movement, error)

	// ListValidByArticleAsc returns all status=valid movements for an
	// article in chronological order, for replay.
	ListValidByArticleAsc(ctx context.Context, articleID id.ID) ([]Movement, error)
}

// AuditLogger records before/after snapshots alongside ledger writes.
// Implemented by the postgres audit trail; optional (nil disables it).
type AuditLogger interface {
	LogChange(ctx context.Context, entityType string, entityID id.ID, action string, changes map[string]any) error
}
