package articles

import (
	"context"

	"transtock/internal/core/id"
)

// ListFilter narrows article listings.
type ListFilter struct {
	Search string
	Limit  int
	Offset int
}

// Repository defines the storage contract for the article registry.
// ApplyValuation and GetByIDForUpdate are reserved for the ledger and the
// recomputation engine, which call them inside their own transactions.
type Repository interface {
	// Create inserts a new article.
	Create(ctx context.Context, article *Article) error

	// GetByID returns the article or a NotFound error.
	GetByID(ctx context.Context, articleID id.ID) (*Article, error)

	// GetByIDForUpdate returns the article with its row locked for the
	// duration of the enclosing transaction.
	GetByIDForUpdate(ctx context.Context, articleID id.ID) (*Article, error)

	// List returns articles matching the filter.
	List(ctx context.Context, filter ListFilter) ([]Article, error)

	// ListIDs returns every article id, for batch recomputation.
	ListIDs(ctx context.Context) ([]id.ID, error)

	// ApplyValuation overwrites the three valuation fields and the
	// last-modified timestamp. No arithmetic happens here.
	ApplyValuation(ctx context.Context, articleID id.ID, v Valuation) error
}
