// Package ledger provides the weighted-average-cost movement ledger.
// It is the sole authority for mutating stock valuation: every valuation
// change is paired with an immutable, sequentially numbered movement
// record, written in the same transaction.
package ledger

import (
	"time"

	"transtock/internal/core/agency"
	"transtock/internal/core/id"
	"transtock/internal/core/types"
)

// Kind classifies a movement.
type Kind string

const (
	// KindEntry is incoming stock from a purchase receipt. Quantity positive.
	KindEntry Kind = "entry"

	// KindConsumption is stock issued to a freight dossier. Quantity negative.
	KindConsumption Kind = "consumption"
)

// Status of a movement record.
// Void is reserved for future compensating reversals; no operation sets
// it today — corrections go through offsetting movements or recomputation.
type Status string

const (
	StatusValid Status = "valid"
	StatusVoid  Status = "void"
)

// Movement is an append-only ledger record of one stock quantity change
// and its valuation effect. Financial fields are never edited after the
// record is written.
type Movement struct {
	ID     id.ID  `db:"id" json:"id"`
	Number string `db:"number" json:"number"`
	Kind   Kind   `db:"kind" json:"kind"`
	Status Status `db:"status" json:"status"`

	// Article reference plus code/name snapshot at write time.
	ArticleID   id.ID  `db:"article_id" json:"articleId"`
	ArticleCode string `db:"article_code" json:"articleCode"`
	ArticleName string `db:"article_name" json:"articleName"`
	Unit        string `db:"unit" json:"unit"`

	// Quantity is signed: positive for entries, negative for consumptions.
	Quantity types.Quantity `db:"quantity" json:"quantity"`

	// UnitPrice is the purchase price for entries, and the article's
	// weighted average cost at time of issue for consumptions.
	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`

	// Amount is quantity × unit price, signed like the quantity.
	Amount types.Money `db:"amount" json:"amount"`

	// Valuation snapshot. Invariant: BalanceAfter = BalanceBefore + Quantity.
	CostBefore    types.Money    `db:"cost_before" json:"costBefore"`
	CostAfter     types.Money    `db:"cost_after" json:"costAfter"`
	BalanceBefore types.Quantity `db:"balance_before" json:"balanceBefore"`
	BalanceAfter  types.Quantity `db:"balance_after" json:"balanceAfter"`

	Agency    agency.Code `db:"agency" json:"agency"`
	ActorID   string      `db:"actor_id" json:"actorId"`
	ActorName string      `db:"actor_name" json:"actorName"`

	// Reference links the originating document: purchase order, goods
	// receipt or freight dossier number.
	Reference string `db:"reference" json:"reference,omitempty"`
	Notes     string `db:"notes" json:"notes,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// EntryInput describes a goods-receipt confirmation.
type EntryInput struct {
	ArticleID id.ID
	Quantity  types.Quantity
	UnitPrice types.Money
	Agency    agency.Code
	Reference string
	Notes     string
}

// ConsumptionInput describes a stock issue to a dossier.
type ConsumptionInput struct {
	ArticleID id.ID
	Quantity  types.Quantity
	Agency    agency.Code
	Reference string
	Notes     string
}

// MovementFilter narrows movement history queries.
type MovementFilter struct {
	Kind     *Kind
	Agency   *agency.Code
	FromDate *time.Time
	ToDate   *time.Time
	Limit    int
	Offset   int
}
