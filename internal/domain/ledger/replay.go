package ledger

import (
	"context"

	"transtock/internal/core/id"
	"transtock/internal/core/tx"
	"transtock/internal/core/types"
	"transtock/internal/domain/articles"
	"transtock/pkg/logger"
)

// Replay folds an article's valid movements, oldest first, into the
// valuation it should carry. The fold starts from zero and uses the same
// arithmetic as the live ledger: entries blend the average, consumptions
// subtract quantity × current cost. Pure function, independently testable
// from storage.
func Replay(movements []Movement) articles.Valuation {
	stock := types.Zero()
	cost := types.Zero()
	value := types.Zero()

	for _, m := range movements {
		if m.Status != StatusValid {
			continue
		}
		if m.Quantity.IsPositive() {
			value = value.Add(types.RoundAmount(m.Quantity.Mul(m.UnitPrice)))
			stock = stock.Add(m.Quantity)
			if stock.IsPositive() {
				cost = value.DivRound(stock, types.CostScale)
			} else {
				cost = types.Zero()
			}
		} else {
			issued := m.Quantity.Neg()
			stock = stock.Sub(issued)
			value = value.Sub(types.RoundAmount(issued.Mul(cost)))
		}
	}

	return articles.Valuation{Cost: cost, Balance: stock, Value: value}
}

// RecomputeResult counts the outcome of a bulk recomputation.
type RecomputeResult struct {
	Recomputed int `json:"recomputed"`
	Failed     int `json:"failed"`
}

// Recomputer rebuilds article valuation from movement history.
// Used to repair drift or backfill after data migration; expected to run
// without concurrent entry/consumption traffic on the same articles.
type Recomputer struct {
	movements Repository
	articles  articles.Repository
	txManager tx.Manager
}

// NewRecomputer creates a new valuation recomputation engine.
func NewRecomputer(movements Repository, articleRepo articles.Repository, txManager tx.Manager) *Recomputer {
	return &Recomputer{
		movements: movements,
		articles:  articleRepo,
		txManager: txManager,
	}
}

// RecomputeArticle rederives one article's valuation from its full
// movement history and writes it back, in one transaction.
func (r *Recomputer) RecomputeArticle(ctx context.Context, articleID id.ID) (articles.Valuation, error) {
	var result articles.Valuation
	err := r.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := r.articles.GetByIDForUpdate(ctx, articleID); err != nil {
			return err
		}

		history, err := r.movements.ListValidByArticleAsc(ctx, articleID)
		if err != nil {
			return err
		}

		result = Replay(history)
		return r.articles.ApplyValuation(ctx, articleID, result)
	})
	if err != nil {
		return articles.Valuation{}, err
	}
	return result, nil
}

// RecomputeAll rebuilds valuation for every article. One transaction per
// article; a failure is logged and counted, the batch continues.
func (r *Recomputer) RecomputeAll(ctx context.Context) (RecomputeResult, error) {
	ids, err := r.articles.ListIDs(ctx)
	if err != nil {
		return RecomputeResult{}, err
	}

	var result RecomputeResult
	for _, articleID := range ids {
		if _, err := r.RecomputeArticle(ctx, articleID); err != nil {
			logger.Error(ctx, "article recompute failed",
				"article_id", articleID,
				"error", err,
			)
			result.Failed++
			continue
		}
		result.Recomputed++
	}

	logger.Info(ctx, "valuation recompute finished",
		"recomputed", result.Recomputed,
		"failed", result.Failed,
	)
	return result, nil
}
