package articles

import (
	"context"
	"time"

	"transtock/internal/core/id"
	"transtock/internal/core/tx"
	"transtock/internal/core/types"
	"transtock/pkg/logger"
)

// Service provides article-master operations.
// Valuation mutations are NOT here: they belong to the ledger.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new article registry service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
	}
}

// Create registers a new article with zero stock.
func (s *Service) Create(ctx context.Context, article *Article) error {
	if err := article.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(article.ID) {
		article.ID = id.New()
	}

	now := time.Now().UTC()
	if article.CreatedAt.IsZero() {
		article.CreatedAt = now
	}
	article.UpdatedAt = now
	article.StockOnHand = types.Zero()
	article.WeightedAvgCost = types.Zero()
	article.StockValue = types.Zero()

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, article)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "article created",
		"id", article.ID,
		"code", article.Code,
	)
	return nil
}

// GetByID retrieves current article state.
func (s *Service) GetByID(ctx context.Context, articleID id.ID) (*Article, error) {
	return s.repo.GetByID(ctx, articleID)
}

// List retrieves articles with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Article, error) {
	return s.repo.List(ctx, filter)
}
