package render

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"mew.ai/puml-api-gateway/app/domain/diagram"
	"mew.ai/puml-api-gateway/app/infrastructure/renderer"
	"mew.ai/puml-api-gateway/app/interfaces/http/responses"
	"mew.ai/puml-api-gateway/app/utils/idgen"
)

type RenderRoute struct {
	cacheService *diagram.CacheService
}

func NewRenderRoute(cacheService *diagram.CacheService) *RenderRoute {
	return &RenderRoute{cacheService: cacheService}
}

func (r *RenderRoute) RegisterRouter(router *gin.RouterGroup) {
	router.POST("/svg", r.PostRenderAll)
	router.POST("/png", r.PostRenderAll)
	router.POST("/text", r.PostRenderAll)
	router.GET("/:type/:id/raw", r.GetRawContent)
}

// RenderRequest carries PlantUML source to render.
type RenderRequest struct {
	Puml string `json:"puml" binding:"required"`
}

// PostRenderAll
// @Summary Render PUML to all formats
// @Description Caches the PlantUML source and materializes every rendition (SVG, PNG, text) before returning the cache ID. Identical live source is not re-rendered.
// @Tags Render
// @Accept json
// @Produce json
// @Param request body RenderRequest true "PlantUML diagram source code"
// @Success 200 {object} responses.RenderResponse
// @Failure 400 {object} responses.ErrorResponse "Invalid request payload"
// @Failure 500 {object} responses.ErrorResponse "Rendering failed"
// @Router /api/v1/render/{format} [post]
func (r *RenderRoute) PostRenderAll(c *gin.Context) {
	var request RenderRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, responses.ErrorResponse{
			Code:  "a2c4e6f8-1b3d-4579-8a0c-2e4f6a8b0d13",
			Error: err.Error(),
		})
		return
	}

	id, err := r.cacheService.StoreAllFormats(c.Request.Context(), request.Puml)
	if err != nil {
		r.abortWithRenderError(c, err)
		return
	}
	c.JSON(http.StatusOK, responses.RenderResponse{ID: id})
}

// GetRawContent
// @Summary Get rendered content
// @Description Returns the rendered payload for a cached diagram in the requested format. Renditions missing because the source was cached without rendering are materialized on first access.
// @Tags Render
// @Produce image/svg+xml
// @Produce image/png
// @Produce text/plain
// @Param type path string true "Rendition format" Enums(svg, png, text)
// @Param id path string true "Cache ID"
// @Success 200 {string} string "Rendered content"
// @Failure 404 {object} responses.ErrorResponse "Not found, expired, or unsupported format"
// @Failure 500 {object} responses.ErrorResponse "Rendering failed"
// @Router /api/v1/render/{type}/{id}/raw [get]
func (r *RenderRoute) GetRawContent(c *gin.Context) {
	format, ok := renderer.ParseFormat(c.Param("type"))
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, responses.ErrorResponse{
			Code:  "d4f6a8b0-3c5e-4791-a2c4-6e8f0a2b4d57",
			Error: "Invalid content type: " + c.Param("type") + ". Supported types: svg, png, text",
		})
		return
	}

	id := c.Param("id")
	var entry *diagram.CacheEntry
	if idgen.ValidateIDFormat(id, diagram.IDPrefix) {
		entry = r.cacheService.GetEntry(id)
	}
	if entry == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, responses.ErrorResponse{
			Code:  "b0d2f4a6-5e7c-4913-8b0d-4a6c8e0f2b79",
			Error: "Rendered content not found or expired. ID: " + id,
		})
		return
	}

	if err := r.cacheService.EnsureRendered(c.Request.Context(), entry); err != nil {
		r.abortWithRenderError(c, err)
		return
	}

	content, _ := entry.Rendition(format)
	c.Data(http.StatusOK, format.ContentType(), content)
}

// abortWithRenderError distinguishes the missing-Graphviz sub-kind so the
// operator gets a remediation hint rather than a bare stack message.
func (r *RenderRoute) abortWithRenderError(c *gin.Context, err error) {
	var renderErr *renderer.RenderError
	if errors.As(err, &renderErr) && renderErr.GraphvizMissing {
		c.AbortWithStatusJSON(http.StatusInternalServerError, responses.ErrorResponse{
			Code:  "e6a8c0d2-7f91-4b35-a6e8-0c2d4f6a8b91",
			Error: renderer.GraphvizInstallHint + "\n\nOriginal error: " + err.Error(),
		})
		return
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, responses.ErrorResponse{
		Code:  "f8c0e2a4-9b13-4d57-b8f0-2e4a6c8d0f35",
		Error: "Failed to render PlantUML diagram: " + err.Error(),
	})
}
