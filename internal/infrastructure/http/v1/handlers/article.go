package handlers

import (
	"github.com/gin-gonic/gin"

	"transtock/internal/core/apperror"
	"transtock/internal/core/id"
	"transtock/internal/domain/articles"
	"transtock/internal/infrastructure/http/v1/dto"
)

// ArticleHandler handles HTTP requests for the article registry.
type ArticleHandler struct {
	*BaseHandler
	service *articles.Service
}

// NewArticleHandler creates a new article handler.
func NewArticleHandler(base *BaseHandler, service *articles.Service) *ArticleHandler {
	return &ArticleHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Create handles POST /articles
func (h *ArticleHandler) Create(c *gin.Context) {
	var req dto.CreateArticleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	art := &articles.Article{
		Code: req.Code,
		Name: req.Name,
		Unit: req.Unit,
	}

	if err := h.service.Create(c.Request.Context(), art); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, art.ID.String())
}

// Get handles GET /articles/:id
func (h *ArticleHandler) Get(c *gin.Context) {
	articleID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid article id format"))
		return
	}

	art, err := h.service.GetByID(c.Request.Context(), articleID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromArticle(*art))
}

// List handles GET /articles
func (h *ArticleHandler) List(c *gin.Context) {
	var filter dto.ArticleFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	filter.Defaults()

	items, err := h.service.List(c.Request.Context(), articles.ListFilter{
		Search: filter.Search,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{
		Items:  dto.FromArticles(items),
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
}

// RegisterRoutes registers article registry routes.
func (h *ArticleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
}
