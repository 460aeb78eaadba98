// Package articles provides the stock article registry.
// Valuation fields are owned by the movement ledger; everything else in
// the system reads them, nothing else writes them.
package articles

import (
	"context"
	"strings"
	"time"

	"transtock/internal/core/apperror"
	"transtock/internal/core/id"
	"transtock/internal/core/types"
)

// Article is a stock-managed item with its current valuation state.
type Article struct {
	ID   id.ID  `db:"id" json:"id"`
	Code string `db:"code" json:"code"`
	Name string `db:"name" json:"name"`
	Unit string `db:"unit" json:"unit"`

	// Valuation state. Invariant: StockValue ≈ StockOnHand × WeightedAvgCost,
	// modulo the write-boundary rounding policy.
	StockOnHand     types.Quantity `db:"stock_on_hand" json:"stockOnHand"`
	WeightedAvgCost types.Money    `db:"weighted_avg_cost" json:"weightedAvgCost"`
	StockValue      types.Money    `db:"stock_value" json:"stockValue"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Valuation is the article valuation triple written back by the ledger
// or the recomputation engine.
type Valuation struct {
	Cost    types.Money
	Balance types.Quantity
	Value   types.Money
}

// ZeroValuation returns the valuation of an article with no stock.
func ZeroValuation() Valuation {
	return Valuation{
		Cost:    types.Zero(),
		Balance: types.Zero(),
		Value:   types.Zero(),
	}
}

// Validate checks article master data before creation.
func (a *Article) Validate(ctx context.Context) error {
	if strings.TrimSpace(a.Code) == "" {
		return apperror.NewValidation("code is required").
			WithDetail("field", "code")
	}
	if strings.TrimSpace(a.Name) == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if strings.TrimSpace(a.Unit) == "" {
		return apperror.NewValidation("unit is required").
			WithDetail("field", "unit")
	}
	if a.StockOnHand.IsNegative() {
		return apperror.NewValidation("stock on hand cannot be negative").
			WithDetail("field", "stockOnHand")
	}
	return nil
}
