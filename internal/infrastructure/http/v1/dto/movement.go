package dto

import (
	"time"

	"transtock/internal/domain/ledger"
)

// RecordEntryRequest confirms a goods receipt into stock.
type RecordEntryRequest struct {
	ArticleID string `json:"articleId" binding:"required,uuid"`
	Quantity  string `json:"quantity" binding:"required"`
	UnitPrice string `json:"unitPrice" binding:"required"`
	Agency    string `json:"agency" binding:"required"`
	Reference string `json:"reference"`
	Notes     string `json:"notes"`
}

// RecordConsumptionRequest issues stock to a freight dossier.
type RecordConsumptionRequest struct {
	ArticleID string `json:"articleId" binding:"required,uuid"`
	Quantity  string `json:"quantity" binding:"required"`
	Agency    string `json:"agency" binding:"required"`
	Reference string `json:"reference"`
	Notes     string `json:"notes"`
}

// MovementHistoryFilter narrows movement history queries.
type MovementHistoryFilter struct {
	PaginationRequest
	DateRangeFilter
	Kind   string `form:"kind" binding:"omitempty,oneof=entry consumption"`
	Agency string `form:"agency"`
}

// MovementResponse represents a ledger record in API responses.
// All monetary and quantity fields are decimal strings.
type MovementResponse struct {
	ID            string    `json:"id"`
	Number        string    `json:"number"`
	Kind          string    `json:"kind"`
	Status        string    `json:"status"`
	ArticleID     string    `json:"articleId"`
	ArticleCode   string    `json:"articleCode"`
	ArticleName   string    `json:"articleName"`
	Unit          string    `json:"unit"`
	Quantity      string    `json:"quantity"`
	UnitPrice     string    `json:"unitPrice"`
	Amount        string    `json:"amount"`
	CostBefore    string    `json:"costBefore"`
	CostAfter     string    `json:"costAfter"`
	BalanceBefore string    `json:"balanceBefore"`
	BalanceAfter  string    `json:"balanceAfter"`
	Agency        string    `json:"agency"`
	ActorID       string    `json:"actorId,omitempty"`
	ActorName     string    `json:"actorName,omitempty"`
	Reference     string    `json:"reference,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// FromMovement converts a domain movement to a response DTO.
func FromMovement(m ledger.Movement) MovementResponse {
	return MovementResponse{
		ID:            m.ID.String(),
		Number:        m.Number,
		Kind:          string(m.Kind),
		Status:        string(m.Status),
		ArticleID:     m.ArticleID.String(),
		ArticleCode:   m.ArticleCode,
		ArticleName:   m.ArticleName,
		Unit:          m.Unit,
		Quantity:      m.Quantity.String(),
		UnitPrice:     m.UnitPrice.String(),
		Amount:        m.Amount.String(),
		CostBefore:    m.CostBefore.String(),
		CostAfter:     m.CostAfter.String(),
		BalanceBefore: m.BalanceBefore.String(),
		BalanceAfter:  m.BalanceAfter.String(),
		Agency:        string(m.Agency),
		ActorID:       m.ActorID,
		ActorName:     m.ActorName,
		Reference:     m.Reference,
		Notes:         m.Notes,
		CreatedAt:     m.CreatedAt,
	}
}

// FromMovements converts a slice of domain movements.
func FromMovements(items []ledger.Movement) []MovementResponse {
	result := make([]MovementResponse, 0, len(items))
	for _, m := range items {
		result = append(result, FromMovement(m))
	}
	return result
}

// RecomputeResponse reports the outcome of a bulk valuation recompute.
type RecomputeResponse struct {
	Recomputed int `json:"recomputed"`
	Failed     int `json:"failed"`
}
