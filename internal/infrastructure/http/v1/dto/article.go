package dto

import (
	"time"

	"transtock/internal/domain/articles"
)

// CreateArticleRequest registers a new stock article.
type CreateArticleRequest struct {
	Code string `json:"code" binding:"required"`
	Name string `json:"name" binding:"required"`
	Unit string `json:"unit" binding:"required"`
}

// ArticleFilter narrows article listings.
type ArticleFilter struct {
	PaginationRequest
	Search string `form:"search"`
}

// ArticleResponse represents an article in API responses.
// Valuation fields are decimal strings: clients must not lose precision
// to binary floats.
type ArticleResponse struct {
	ID              string    `json:"id"`
	Code            string    `json:"code"`
	Name            string    `json:"name"`
	Unit            string    `json:"unit"`
	StockOnHand     string    `json:"stockOnHand"`
	WeightedAvgCost string    `json:"weightedAvgCost"`
	StockValue      string    `json:"stockValue"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// FromArticle converts a domain article to a response DTO.
func FromArticle(a articles.Article) ArticleResponse {
	return ArticleResponse{
		ID:              a.ID.String(),
		Code:            a.Code,
		Name:            a.Name,
		Unit:            a.Unit,
		StockOnHand:     a.StockOnHand.String(),
		WeightedAvgCost: a.WeightedAvgCost.String(),
		StockValue:      a.StockValue.String(),
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

// FromArticles converts a slice of domain articles.
func FromArticles(items []articles.Article) []ArticleResponse {
	result := make([]ArticleResponse, 0, len(items))
	for _, a := range items {
		result = append(result, FromArticle(a))
	}
	return result
}
