// Package article_repo provides the PostgreSQL implementation of the
// article registry repository.
package article_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"transtock/internal/core/apperror"
	"transtock/internal/core/id"
	"transtock/internal/domain/articles"
	"transtock/internal/infrastructure/storage/postgres"
)

const articlesTable = "articles"

var articleColumns = []string{
	"id", "code", "name", "unit",
	"stock_on_hand", "weighted_avg_cost", "stock_value",
	"created_at", "updated_at",
}

// ArticleRepo implements articles.Repository.
type ArticleRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewArticleRepo creates a new article repository.
func NewArticleRepo(txManager *postgres.TxManager) *ArticleRepo {
	return &ArticleRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new article.
func (r *ArticleRepo) Create(ctx context.Context, art *articles.Article) error {
	q := r.builder.Insert(articlesTable).
		Columns(articleColumns...).
		Values(
			art.ID, art.Code, art.Name, art.Unit,
			art.StockOnHand, art.WeightedAvgCost, art.StockValue,
			art.CreatedAt, art.UpdatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return apperror.NewDuplicate("article", "code", art.Code)
		}
		return apperror.NewDatabase(fmt.Errorf("insert article: %w", err))
	}

	return nil
}

// GetByID retrieves an article by ID.
func (r *ArticleRepo) GetByID(ctx context.Context, articleID id.ID) (*articles.Article, error) {
	q := r.builder.Select(articleColumns...).
		From(articlesTable).
		Where(squirrel.Eq{"id": articleID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var art articles.Article
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &art, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("article", articleID.String())
		}
		return nil, apperror.NewDatabase(fmt.Errorf("get article: %w", err))
	}

	return &art, nil
}

// GetByIDForUpdate retrieves an article with a row lock. Must be called
// inside a transaction; the lock serializes concurrent valuation writes
// on the same article.
func (r *ArticleRepo) GetByIDForUpdate(ctx context.Context, articleID id.ID) (*articles.Article, error) {
	sql := `
		SELECT id, code, name, unit,
		       stock_on_hand, weighted_avg_cost, stock_value,
		       created_at, updated_at
		FROM articles
		WHERE id = $1
		FOR UPDATE
	`

	var art articles.Article
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &art, sql, articleID); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("article", articleID.String())
		}
		return nil, apperror.NewDatabase(fmt.Errorf("get article for update: %w", err))
	}

	return &art, nil
}

// GetByCode retrieves an article by its unique code.
func (r *ArticleRepo) GetByCode(ctx context.Context, code string) (*articles.Article, error) {
	q := r.builder.Select(articleColumns...).
		From(articlesTable).
		Where(squirrel.Eq{"code": code})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var art articles.Article
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &art, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("article", code)
		}
		return nil, apperror.NewDatabase(fmt.Errorf("get article by code: %w", err))
	}

	return &art, nil
}

// List returns articles matching the filter, ordered by code.
func (r *ArticleRepo) List(ctx context.Context, filter articles.ListFilter) ([]articles.Article, error) {
	q := r.builder.Select(articleColumns...).
		From(articlesTable)

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"code": pattern},
			squirrel.ILike{"name": pattern},
		})
	}

	q = q.OrderBy("code")

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

	var result []articles.Article
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &result, sql, args...); err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("list articles: %w", err))
	}

	return result, nil
}

// ListIDs returns the IDs of all articles, ordered by code.
func (r *ArticleRepo) ListIDs(ctx context.Context) ([]id.ID, error) {
	q := r.builder.Select("id").
		From(articlesTable).
		OrderBy("code")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var ids []id.ID
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &ids, sql, args...); err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("list article ids: %w", err))
	}

	return ids, nil
}

// ApplyValuation writes a new valuation onto the article row.
func (r *ArticleRepo) ApplyValuation(ctx context.Context, articleID id.ID, v articles.Valuation) error {
	q := r.builder.Update(articlesTable).
		Set("stock_on_hand", v.Balance).
		Set("weighted_avg_cost", v.Cost).
		Set("stock_value", v.Value).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": articleID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewDatabase(fmt.Errorf("apply valuation: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("article", articleID.String())
	}

	return nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Ensure interface compliance.
var _ articles.Repository = (*ArticleRepo)(nil)
