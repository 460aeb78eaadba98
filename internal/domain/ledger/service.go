package ledger

import (
	"context"
	"fmt"
	"time"

	"transtock/internal/core/actor"
	"transtock/internal/core/apperror"
	"transtock/internal/core/id"
	"transtock/internal/core/numerator"
	"transtock/internal/core/tx"
	"transtock/internal/core/types"
	"transtock/internal/domain/articles"
	"transtock/pkg/logger"
)

// Service records stock entries and consumptions.
//
// Each operation runs as one transaction: the article row is read under a
// row lock, the new valuation is computed, a movement number is minted,
// and the movement insert plus the article valuation update commit or
// roll back together. No partial state is ever observable.
type Service struct {
	movements Repository
	articles  articles.Repository
	numerator numerator.Generator
	txManager tx.Manager
	audit     AuditLogger
}

// NewService creates a new movement ledger service.
// audit may be nil to disable the audit trail.
func NewService(
	movements Repository,
	articleRepo articles.Repository,
	numGen numerator.Generator,
	txManager tx.Manager,
	audit AuditLogger,
) *Service {
	return &Service{
		movements: movements,
		articles:  articleRepo,
		numerator: numGen,
		txManager: txManager,
		audit:     audit,
	}
}

// RecordEntry records incoming stock and re-blends the weighted average cost.
func (s *Service) RecordEntry(ctx context.Context, input EntryInput) (*Movement, error) {
	if id.IsNil(input.ArticleID) {
		return nil, apperror.NewValidation("article is required").
			WithDetail("field", "articleId")
	}
	if !input.Quantity.IsPositive() {
		return nil, apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity")
	}
	if input.UnitPrice.IsNegative() {
		return nil, apperror.NewValidation("unit price cannot be negative").
			WithDetail("field", "unitPrice")
	}
	if !input.Agency.Valid() {
		return nil, apperror.NewValidation("unknown agency").
			WithDetail("field", "agency").
			WithDetail("agency", string(input.Agency))
	}

	var movement *Movement
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		art, err := s.articles.GetByIDForUpdate(ctx, input.ArticleID)
		if err != nil {
			return err
		}

		balanceBefore := art.StockOnHand
		costBefore := art.WeightedAvgCost
		valueBefore := art.StockValue

		entryValue := types.RoundAmount(input.Quantity.Mul(input.UnitPrice))
		balanceAfter := balanceBefore.Add(input.Quantity)

		var costAfter, valueAfter types.Money
		if balanceBefore.IsZero() {
			// First stock for this article: the weighted formula is
			// undefined at zero base, the entry price IS the cost.
			costAfter = types.RoundCost(input.UnitPrice)
			valueAfter = entryValue
		} else {
			valueAfter = valueBefore.Add(entryValue)
			costAfter = valueAfter.DivRound(balanceAfter, types.CostScale)
		}

		now := time.Now().UTC()
		number, err := s.numerator.NextNumber(ctx, numerator.SeriesMovement, input.Agency, now)
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}

		movement = &Movement{
			ID:            id.New(),
			Number:        number,
			Kind:          KindEntry,
			Status:        StatusValid,
			ArticleID:     art.ID,
			ArticleCode:   art.Code,
			ArticleName:   art.Name,
			Unit:          art.Unit,
			Quantity:      input.Quantity,
			UnitPrice:     input.UnitPrice,
			Amount:        entryValue,
			CostBefore:    costBefore,
			CostAfter:     costAfter,
			BalanceBefore: balanceBefore,
			BalanceAfter:  balanceAfter,
			Agency:        input.Agency,
			Reference:     input.Reference,
			Notes:         input.Notes,
			CreatedAt:     now,
		}
		if a := actor.GetActor(ctx); a != nil {
			movement.ActorID = a.ID
			movement.ActorName = a.Name
		}

		if err := s.movements.Insert(ctx, movement); err != nil {
			return fmt.Errorf("insert movement: %w", err)
		}

		after := articles.Valuation{Cost: costAfter, Balance: balanceAfter, Value: valueAfter}
		if err := s.articles.ApplyValuation(ctx, art.ID, after); err != nil {
			return fmt.Errorf("apply valuation: %w", err)
		}

		return s.logAudit(ctx, art, movement, after)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "stock entry recorded",
		"number", movement.Number,
		"article_id", movement.ArticleID,
		"quantity", movement.Quantity,
		"cost_after", movement.CostAfter,
	)
	return movement, nil
}

// RecordConsumption issues stock to a dossier at the current weighted
// average cost. The cost itself does not change on issue.
func (s *Service) RecordConsumption(ctx context.Context, input ConsumptionInput) (*Movement, error) {
	if id.IsNil(input.ArticleID) {
		return nil, apperror.NewValidation("article is required").
			WithDetail("field", "articleId")
	}
	if !input.Quantity.IsPositive() {
		return nil, apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity")
	}
	if !input.Agency.Valid() {
		return nil, apperror.NewValidation("unknown agency").
			WithDetail("field", "agency").
			WithDetail("agency", string(input.Agency))
	}

	var movement *Movement
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		art, err := s.articles.GetByIDForUpdate(ctx, input.ArticleID)
		if err != nil {
			return err
		}

		balanceBefore := art.StockOnHand
		costBefore := art.WeightedAvgCost
		valueBefore := art.StockValue

		if balanceBefore.LessThan(input.Quantity) {
			return apperror.NewInsufficientStock(
				art.ID.String(),
				input.Quantity.String(),
				balanceBefore.String(),
				art.Unit,
			)
		}

		balanceAfter := balanceBefore.Sub(input.Quantity)
		exitValue := types.RoundAmount(input.Quantity.Mul(costBefore))
		valueAfter := valueBefore.Sub(exitValue)
		costAfter := costBefore

		now := time.Now().UTC()
		number, err := s.numerator.NextNumber(ctx, numerator.SeriesMovement, input.Agency, now)
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}

		movement = &Movement{
			ID:            id.New(),
			Number:        number,
			Kind:          KindConsumption,
			Status:        StatusValid,
			ArticleID:     art.ID,
			ArticleCode:   art.Code,
			ArticleName:   art.Name,
			Unit:          art.Unit,
			Quantity:      input.Quantity.Neg(),
			UnitPrice:     costBefore,
			Amount:        exitValue.Neg(),
			CostBefore:    costBefore,
			CostAfter:     costAfter,
			BalanceBefore: balanceBefore,
			BalanceAfter:  balanceAfter,
			Agency:        input.Agency,
			Reference:     input.Reference,
			Notes:         input.Notes,
			CreatedAt:     now,
		}
		if a := actor.GetActor(ctx); a != nil {
			movement.ActorID = a.ID
			movement.ActorName = a.Name
		}

		if err := s.movements.Insert(ctx, movement); err != nil {
			return fmt.Errorf("insert movement: %w", err)
		}

		after := articles.Valuation{Cost: costAfter, Balance: balanceAfter, Value: valueAfter}
		if err := s.articles.ApplyValuation(ctx, art.ID, after); err != nil {
			return fmt.Errorf("apply valuation: %w", err)
		}

		return s.logAudit(ctx, art, movement, after)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "stock consumption recorded",
		"number", movement.Number,
		"article_id", movement.ArticleID,
		"quantity", movement.Quantity,
	)
	return movement, nil
}

// GetMovements returns movement history for an article, newest first.
func (s *Service) GetMovements(ctx context.Context, articleID id.ID, filter MovementFilter) ([]Movement, error) {
	if _, err := s.articles.GetByID(ctx, articleID); err != nil {
		return nil, err
	}
	return s.movements.ListByArticle(ctx, articleID, filter)
}

// logAudit writes the valuation change to the audit trail, inside the
// same transaction as the ledger write.
func (s *Service) logAudit(ctx context.Context, art *articles.Article, m *Movement, after articles.Valuation) error {
	if s.audit == nil {
		return nil
	}
	changes := map[string]any{
		"movement_number": m.Number,
		"kind":            string(m.Kind),
		"stock_on_hand":   map[string]any{"old": m.BalanceBefore.String(), "new": after.Balance.String()},
		"weighted_cost":   map[string]any{"old": m.CostBefore.String(), "new": after.Cost.String()},
		"stock_value":     map[string]any{"old": art.StockValue.String(), "new": after.Value.String()},
	}
	if err := s.audit.LogChange(ctx, "article", art.ID, string(m.Kind), changes); err != nil {
		return fmt.Errorf("audit log: %w", err)
	}
	return nil
}
