package handlers

import (
	"github.com/gin-gonic/gin"

	"transtock/internal/core/agency"
	"transtock/internal/core/apperror"
	"transtock/internal/core/id"
	"transtock/internal/core/types"
	"transtock/internal/domain/ledger"
	"transtock/internal/infrastructure/http/v1/dto"
	"transtock/internal/infrastructure/metrics"
)

// StockHandler handles HTTP requests for the movement ledger.
type StockHandler struct {
	*BaseHandler
	service *ledger.Service
}

// NewStockHandler creates a new movement ledger handler.
func NewStockHandler(base *BaseHandler, service *ledger.Service) *StockHandler {
	return &StockHandler{
		BaseHandler: base,
		service:     service,
	}
}

// RecordEntry handles POST /stock/entries
func (h *StockHandler) RecordEntry(c *gin.Context) {
	var req dto.RecordEntryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	articleID, err := id.Parse(req.ArticleID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid articleId format"))
		return
	}

	quantity, err := types.NewFromString(req.Quantity)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid quantity").WithDetail("field", "quantity"))
		return
	}

	unitPrice, err := types.NewFromString(req.UnitPrice)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid unit price").WithDetail("field", "unitPrice"))
		return
	}

	movement, err := h.service.RecordEntry(c.Request.Context(), ledger.EntryInput{
		ArticleID: articleID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Agency:    agency.Code(req.Agency),
		Reference: req.Reference,
		Notes:     req.Notes,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	metrics.MovementsRecorded.WithLabelValues(string(movement.Kind), string(movement.Agency)).Inc()
	h.OK(c, dto.FromMovement(*movement))
}

// RecordConsumption handles POST /stock/consumptions
func (h *StockHandler) RecordConsumption(c *gin.Context) {
	var req dto.RecordConsumptionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	articleID, err := id.Parse(req.ArticleID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid articleId format"))
		return
	}

	quantity, err := types.NewFromString(req.Quantity)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid quantity").WithDetail("field", "quantity"))
		return
	}

	movement, err := h.service.RecordConsumption(c.Request.Context(), ledger.ConsumptionInput{
		ArticleID: articleID,
		Quantity:  quantity,
		Agency:    agency.Code(req.Agency),
		Reference: req.Reference,
		Notes:     req.Notes,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	metrics.MovementsRecorded.WithLabelValues(string(movement.Kind), string(movement.Agency)).Inc()
	h.OK(c, dto.FromMovement(*movement))
}

// GetMovements handles GET /articles/:id/movements
func (h *StockHandler) GetMovements(c *gin.Context) {
	articleID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid article id format"))
		return
	}

	var q dto.MovementHistoryFilter
	if !h.BindQuery(c, &q) {
		return
	}
	q.Defaults()

	filter := ledger.MovementFilter{
		FromDate: q.From,
		ToDate:   q.To,
		Limit:    q.Limit,
		Offset:   q.Offset,
	}
	if q.Kind != "" {
		kind := ledger.Kind(q.Kind)
		filter.Kind = &kind
	}
	if q.Agency != "" {
		ag := agency.Code(q.Agency)
		if !ag.Valid() {
			h.Error(c, apperror.NewValidation("unknown agency").WithDetail("agency", q.Agency))
			return
		}
		filter.Agency = &ag
	}

	movements, err := h.service.GetMovements(c.Request.Context(), articleID, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{
		Items:  dto.FromMovements(movements),
		Limit:  q.Limit,
		Offset: q.Offset,
	})
}

// RegisterRoutes registers movement ledger routes.
func (h *StockHandler) RegisterRoutes(stock, articles *gin.RouterGroup) {
	stock.POST("/entries", h.RecordEntry)
	stock.POST("/consumptions", h.RecordConsumption)
	articles.GET("/:id/movements", h.GetMovements)
}
