package puml

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"mew.ai/puml-api-gateway/app/domain/chat"
	"mew.ai/puml-api-gateway/app/domain/conversation"
	"mew.ai/puml-api-gateway/app/domain/diagram"
	"mew.ai/puml-api-gateway/app/domain/generation"
	"mew.ai/puml-api-gateway/app/interfaces/http/responses"
	"mew.ai/puml-api-gateway/app/interfaces/http/sse"
	"mew.ai/puml-api-gateway/app/utils/idgen"
	"mew.ai/puml-api-gateway/app/utils/logger"
)

type PumlRoute struct {
	cacheService        *diagram.CacheService
	conversationService *conversation.ConversationService
	generationService   *generation.GenerationService
	streamingService    *chat.StreamingService
}

func NewPumlRoute(
	cacheService *diagram.CacheService,
	conversationService *conversation.ConversationService,
	generationService *generation.GenerationService,
	streamingService *chat.StreamingService,
) *PumlRoute {
	return &PumlRoute{
		cacheService:        cacheService,
		conversationService: conversationService,
		generationService:   generationService,
		streamingService:    streamingService,
	}
}

func (r *PumlRoute) RegisterRouter(router *gin.RouterGroup) {
	router.POST("", r.PostCachePuml)
	router.GET("/:id", r.GetPumlByID)
	router.POST("/generate", r.PostGenerate)
	router.POST("/optimize", r.PostOptimize)
	router.POST("/explain", r.PostExplain)
	router.DELETE("/conversation/:conversationId", r.DeleteConversation)
}

// CachePumlRequest carries PlantUML source to cache.
type CachePumlRequest struct {
	Puml string `json:"puml" binding:"required"`
}

// GenerateRequest drives the generate flow against a caller-supplied
// OpenAI-compatible provider.
type GenerateRequest struct {
	BaseURL        string `json:"baseUrl" binding:"required"`
	APIKey         string `json:"apiKey" binding:"required"`
	Model          string `json:"model" binding:"required"`
	Prompt         string `json:"prompt" binding:"required"`
	ConversationID string `json:"conversationId"`
	Stream         bool   `json:"stream"`
}

// OptimizeRequest drives the optimize flow. No conversation context.
type OptimizeRequest struct {
	BaseURL string `json:"baseUrl" binding:"required"`
	APIKey  string `json:"apiKey" binding:"required"`
	Model   string `json:"model" binding:"required"`
	Puml    string `json:"puml" binding:"required"`
	Stream  bool   `json:"stream"`
}

// ExplainRequest drives the explain flow. Language is a two-letter code,
// defaulting to "en".
type ExplainRequest struct {
	BaseURL  string `json:"baseUrl" binding:"required"`
	APIKey   string `json:"apiKey" binding:"required"`
	Model    string `json:"model" binding:"required"`
	Puml     string `json:"puml" binding:"required"`
	Language string `json:"language"`
	Stream   bool   `json:"stream"`
}

// PostCachePuml
// @Summary Cache PUML code
// @Description Caches PlantUML source code and returns its cache ID. Identical source that is still alive returns the existing ID. The ID is shared across all endpoints.
// @Tags PUML
// @Accept json
// @Produce json
// @Param request body CachePumlRequest true "PlantUML diagram source code"
// @Success 200 {object} responses.RenderResponse
// @Failure 400 {object} responses.ErrorResponse "Invalid request payload"
// @Router /api/v1/puml [post]
func (r *PumlRoute) PostCachePuml(c *gin.Context) {
	var request CachePumlRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, responses.ErrorResponse{
			Code:  "8f0a6f2e-3f61-4c2a-9f54-2b8f6f9d2c11",
			Error: err.Error(),
		})
		return
	}

	id := r.cacheService.StorePuml(request.Puml)
	c.JSON(http.StatusOK, responses.RenderResponse{ID: id})
}

// GetPumlByID
// @Summary Get PUML code by ID
// @Description Retrieves the PlantUML source code by cache ID.
// @Tags PUML
// @Produce json
// @Param id path string true "Cache ID"
// @Success 200 {object} responses.PumlResponse
// @Failure 404 {object} responses.ErrorResponse "Not found or expired"
// @Router /api/v1/puml/{id} [get]
func (r *PumlRoute) GetPumlByID(c *gin.Context) {
	id := c.Param("id")
	var entry *diagram.CacheEntry
	if idgen.ValidateIDFormat(id, diagram.IDPrefix) {
		entry = r.cacheService.GetEntry(id)
	}
	if entry == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, responses.ErrorResponse{
			Code:  "5b4c2a8e-9d13-47f6-8a20-6f1e3c9b7d42",
			Error: "PUML code not found or expired. ID: " + id,
		})
		return
	}
	c.JSON(http.StatusOK, responses.PumlResponse{Puml: entry.Puml})
}

// PostGenerate
// @Summary Generate PUML code
// @Description Generates PlantUML code from a prompt via an OpenAI-compatible API. Maintains conversation context: a missing conversationId creates a new conversation whose ID is returned. With stream=true the response is an SSE stream of single-character increments followed by a [DONE] marker.
// @Tags PUML
// @Accept json
// @Produce json
// @Produce text/event-stream
// @Param request body GenerateRequest true "Generation request"
// @Success 200 {object} responses.GenerateResponse "Non-streaming response"
// @Failure 400 {object} responses.ErrorResponse "Invalid request payload"
// @Failure 404 {object} responses.ErrorResponse "Conversation not found or expired"
// @Failure 502 {object} responses.ErrorResponse "Upstream generation failed"
// @Router /api/v1/puml/generate [post]
func (r *PumlRoute) PostGenerate(c *gin.Context) {
	var request GenerateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, responses.ErrorResponse{
			Code:  "c1f7d8e2-4b35-49a6-b1c8-0d2f5a7e9b63",
			Error: err.Error(),
		})
		return
	}

	conversationID := request.ConversationID
	var conv *conversation.Conversation
	if conversationID != "" {
		conv = r.conversationService.GetConversation(conversationID)
		if conv == nil {
			c.AbortWithStatusJSON(http.StatusNotFound, responses.ErrorResponse{
				Code:  "2e9a4c6b-8d70-4f12-a3e5-7b1c9f0d4a28",
				Error: "Conversation not found or expired. ID: " + conversationID,
			})
			return
		}
	} else {
		var err error
		conversationID, err = r.conversationService.CreateConversation()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, responses.ErrorResponse{
				Code:  "a5d1b7f3-0c48-4e26-9b7a-3d5f1e8c0a64",
				Error: err.Error(),
			})
			return
		}
		conv = r.conversationService.GetConversation(conversationID)
	}

	// The relay gets the history as it stood before this turn; the new
	// prompt is appended to the wire messages by the relay itself, so it
	// must not be duplicated from history.
	history := conv.Messages()
	r.conversationService.AddMessage(conv, conversation.RoleUser, request.Prompt)

	params := generation.ProviderParams{
		BaseURL: request.BaseURL,
		APIKey:  request.APIKey,
		Model:   request.Model,
	}

	if request.Stream {
		sink := sse.NewGinEventSink(c)
		streamErr := r.streamingService.StreamResult(c.Request.Context(), sink, func(ctx context.Context) (string, error) {
			return r.generationService.GeneratePuml(ctx, params, history, request.Prompt)
		}, func(full string) {
			r.conversationService.AddMessage(conv, conversation.RoleAssistant, full)
			r.cacheService.StorePuml(full)
		})
		if !streamErr.IsEmpty() {
			logger.GetLogger().WithField("code", streamErr.GetCode()).Warn(streamErr.GetMessage())
		}
		return
	}

	// The upstream call is not cancelled mid-flight by the client going
	// away, so it runs on a fresh context.
	result, err := r.generationService.GeneratePuml(context.Background(), params, history, request.Prompt)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadGateway, responses.ErrorResponse{
			Code:  "9d3b5f1a-7c28-4e96-b0d4-1a6e8c2f5b70",
			Error: err.Error(),
		})
		return
	}

	r.conversationService.AddMessage(conv, conversation.RoleAssistant, result)
	r.cacheService.StorePuml(result)
	c.JSON(http.StatusOK, responses.GenerateResponse{Puml: result, ConversationID: conversationID})
}

// PostOptimize
// @Summary Optimize PUML code
// @Description Optimizes existing PlantUML code via an OpenAI-compatible API. Does not maintain conversation context. With stream=true the response is an SSE stream.
// @Tags PUML
// @Accept json
// @Produce json
// @Produce text/event-stream
// @Param request body OptimizeRequest true "Optimization request"
// @Success 200 {object} responses.PumlResponse "Non-streaming response"
// @Failure 400 {object} responses.ErrorResponse "Invalid request payload"
// @Failure 502 {object} responses.ErrorResponse "Upstream generation failed"
// @Router /api/v1/puml/optimize [post]
func (r *PumlRoute) PostOptimize(c *gin.Context) {
	var request OptimizeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, responses.ErrorResponse{
			Code:  "4a8e2c6f-1b93-4d57-a0e8-3f5b7d9c1a24",
			Error: err.Error(),
		})
		return
	}

	params := generation.ProviderParams{
		BaseURL: request.BaseURL,
		APIKey:  request.APIKey,
		Model:   request.Model,
	}

	if request.Stream {
		sink := sse.NewGinEventSink(c)
		streamErr := r.streamingService.StreamResult(c.Request.Context(), sink, func(ctx context.Context) (string, error) {
			return r.generationService.OptimizePuml(ctx, params, request.Puml)
		}, func(full string) {
			r.cacheService.StorePuml(full)
		})
		if !streamErr.IsEmpty() {
			logger.GetLogger().WithField("code", streamErr.GetCode()).Warn(streamErr.GetMessage())
		}
		return
	}

	result, err := r.generationService.OptimizePuml(context.Background(), params, request.Puml)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadGateway, responses.ErrorResponse{
			Code:  "6c1f9a3d-5e82-4b74-9c06-8d2a4f0e6b15",
			Error: err.Error(),
		})
		return
	}

	r.cacheService.StorePuml(result)
	c.JSON(http.StatusOK, responses.PumlResponse{Puml: result})
}

// PostExplain
// @Summary Explain PUML code
// @Description Explains what a PlantUML diagram does via an OpenAI-compatible API, in the requested language. Does not maintain conversation context and does not cache the result. With stream=true the response is an SSE stream.
// @Tags PUML
// @Accept json
// @Produce json
// @Produce text/event-stream
// @Param request body ExplainRequest true "Explanation request"
// @Success 200 {object} responses.ExplainResponse "Non-streaming response"
// @Failure 400 {object} responses.ErrorResponse "Invalid request payload"
// @Failure 502 {object} responses.ErrorResponse "Upstream generation failed"
// @Router /api/v1/puml/explain [post]
func (r *PumlRoute) PostExplain(c *gin.Context) {
	var request ExplainRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, responses.ErrorResponse{
			Code:  "0b7d3f9c-2a65-48e1-b4f0-5c8a1d6e3b92",
			Error: err.Error(),
		})
		return
	}

	language := request.Language
	if language == "" {
		language = "en"
	}

	params := generation.ProviderParams{
		BaseURL: request.BaseURL,
		APIKey:  request.APIKey,
		Model:   request.Model,
	}

	if request.Stream {
		sink := sse.NewGinEventSink(c)
		streamErr := r.streamingService.StreamResult(c.Request.Context(), sink, func(ctx context.Context) (string, error) {
			return r.generationService.ExplainPuml(ctx, params, request.Puml, language)
		}, nil)
		if !streamErr.IsEmpty() {
			logger.GetLogger().WithField("code", streamErr.GetCode()).Warn(streamErr.GetMessage())
		}
		return
	}

	result, err := r.generationService.ExplainPuml(context.Background(), params, request.Puml, language)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadGateway, responses.ErrorResponse{
			Code:  "3e5a7c1f-9b04-4d28-a6e2-0f4b8d5c7a69",
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, responses.ExplainResponse{Explanation: result})
}

// DeleteConversation
// @Summary Delete conversation
// @Description Deletes a conversation and all its context permanently.
// @Tags PUML
// @Produce json
// @Param conversationId path string true "Conversation ID"
// @Success 200 {object} responses.DeleteConversationResponse
// @Failure 404 {object} responses.ErrorResponse "Conversation not found"
// @Router /api/v1/puml/conversation/{conversationId} [delete]
func (r *PumlRoute) DeleteConversation(c *gin.Context) {
	conversationID := c.Param("conversationId")
	if !idgen.ValidateIDFormat(conversationID, conversation.IDPrefix) ||
		!r.conversationService.DeleteConversation(conversationID) {
		c.AbortWithStatusJSON(http.StatusNotFound, responses.ErrorResponse{
			Code:  "7f2b4d8a-6c10-4e93-b5a7-9d3f1c0e8b46",
			Error: "Conversation not found. ID: " + conversationID,
		})
		return
	}
	c.JSON(http.StatusOK, responses.DeleteConversationResponse{
		Message:        "Conversation deleted successfully",
		ConversationID: conversationID,
	})
}
