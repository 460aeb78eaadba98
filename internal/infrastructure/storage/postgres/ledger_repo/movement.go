// Package ledger_repo provides the PostgreSQL implementation of the
// movement ledger repository. Movements are append-only; the table has
// no update path.
package ledger_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"transtock/internal/core/apperror"
	"transtock/internal/core/id"
	"transtock/internal/domain/ledger"
	"transtock/internal/infrastructure/storage/postgres"
)

const movementsTable = "stock_movements"

var movementColumns = []string{
	"id", "number", "kind", "status",
	"article_id", "article_code", "article_name", "unit",
	"quantity", "unit_price", "amount",
	"cost_before", "cost_after", "balance_before", "balance_after",
	"agency", "actor_id", "actor_name",
	"reference", "notes", "created_at",
}

// MovementRepo implements ledger.Repository.
type MovementRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewMovementRepo creates a new movement repository.
func NewMovementRepo(txManager *postgres.TxManager) *MovementRepo {
	return &MovementRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Insert appends a movement record.
func (r *MovementRepo) Insert(ctx context.Context, m *ledger.Movement) error {
	q := r.builder.Insert(movementsTable).
		Columns(movementColumns...).
		Values(
			m.ID, m.Number, m.Kind, m.Status,
			m.ArticleID, m.ArticleCode, m.ArticleName, m.Unit,
			m.Quantity, m.UnitPrice, m.Amount,
			m.CostBefore, m.CostAfter, m.BalanceBefore, m.BalanceAfter,
			m.Agency, m.ActorID, m.ActorName,
			m.Reference, m.Notes, m.CreatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return apperror.NewDatabase(fmt.Errorf("insert movement: %w", err))
	}

	return nil
}

// ListByArticle returns movement history for an article, newest first.
func (r *MovementRepo) ListByArticle(ctx context.Context, articleID id.ID, filter ledger.MovementFilter) ([]ledger.Movement, error) {
	q := r.builder.Select(movementColumns...).
		From(movementsTable).
		Where(squirrel.Eq{"article_id": articleID})

	if filter.Kind != nil {
		q = q.Where(squirrel.Eq{"kind": *filter.Kind})
	}
	if filter.Agency != nil {
		q = q.Where(squirrel.Eq{"agency": *filter.Agency})
	}
	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *filter.FromDate})
	}
	if filter.ToDate != nil {
		q = q.Where(squirrel.LtOrEq{"created_at": *filter.ToDate})
	}

	q = q.OrderBy("created_at DESC", "number DESC")

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var movements []ledger.Movement
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &movements, sql, args...); err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("select movements: %w", err))
	}

	return movements, nil
}

// ListValidByArticleAsc returns all valid movements for an article in
// chronological order. Feeds the replay fold, so ordering must match the
// order the movements were recorded in.
func (r *MovementRepo) ListValidByArticleAsc(ctx context.Context, articleID id.ID) ([]ledger.Movement, error) {
	q := r.builder.Select(movementColumns...).
		From(movementsTable).
		Where(squirrel.Eq{
			"article_id": articleID,
			"status":     ledger.StatusValid,
		}).
		OrderBy("created_at ASC", "number ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var movements []ledger.Movement
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &movements, sql, args...); err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("select movements for replay: %w", err))
	}

	return movements, nil
}

// Ensure interface compliance.
var _ ledger.Repository = (*MovementRepo)(nil)
