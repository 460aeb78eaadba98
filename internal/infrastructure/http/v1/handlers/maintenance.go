package handlers

import (
	"github.com/gin-gonic/gin"

	"transtock/internal/core/apperror"
	"transtock/internal/core/id"
	"transtock/internal/domain/ledger"
	"transtock/internal/infrastructure/http/v1/dto"
	"transtock/internal/infrastructure/metrics"
)

// MaintenanceHandler handles valuation recomputation requests.
type MaintenanceHandler struct {
	*BaseHandler
	recomputer *ledger.Recomputer
}

// NewMaintenanceHandler creates a new maintenance handler.
func NewMaintenanceHandler(base *BaseHandler, recomputer *ledger.Recomputer) *MaintenanceHandler {
	return &MaintenanceHandler{
		BaseHandler: base,
		recomputer:  recomputer,
	}
}

// RecomputeAll handles POST /stock/recompute
//
// Runs one transaction per article so a single corrupt history cannot
// block repair of the rest. The response reports both counts.
func (h *MaintenanceHandler) RecomputeAll(c *gin.Context) {
	result, err := h.recomputer.RecomputeAll(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	metrics.RecomputeRuns.WithLabelValues("recomputed").Add(float64(result.Recomputed))
	metrics.RecomputeRuns.WithLabelValues("failed").Add(float64(result.Failed))

	h.OK(c, dto.RecomputeResponse{
		Recomputed: result.Recomputed,
		Failed:     result.Failed,
	})
}

// RecomputeArticle handles POST /stock/recompute/:id
func (h *MaintenanceHandler) RecomputeArticle(c *gin.Context) {
	articleID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid article id format"))
		return
	}

	valuation, err := h.recomputer.RecomputeArticle(c.Request.Context(), articleID)
	if err != nil {
		h.Error(c, err)
		return
	}

	metrics.RecomputeRuns.WithLabelValues("recomputed").Inc()

	h.OK(c, gin.H{
		"articleId":       articleID.String(),
		"stockOnHand":     valuation.Balance.String(),
		"weightedAvgCost": valuation.Cost.String(),
		"stockValue":      valuation.Value.String(),
	})
}

// RegisterRoutes registers maintenance routes.
func (h *MaintenanceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/recompute", h.RecomputeAll)
	rg.POST("/recompute/:id", h.RecomputeArticle)
}
