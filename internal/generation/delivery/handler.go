package delivery

import (
	"context"
	"net/http"

	"dairytale/internal/generation/domain"
	"dairytale/internal/generation/usecase"
	"dairytale/pkg/logger"

	"github.com/gin-gonic/gin"
)

// GenerationHandler exposes the generation service over HTTP
type GenerationHandler struct {
	generationUsecase usecase.GenerationUsecase
	log               *logger.Logger
}

// NewGenerationHandler creates a new GenerationHandler
func NewGenerationHandler(generationUsecase usecase.GenerationUsecase, log *logger.Logger) *GenerationHandler {
	return &GenerationHandler{
		generationUsecase: generationUsecase,
		log:               log.With("handler", "GenerationHandler"),
	}
}

// GenerateStory writes a story, or a poem when format is "poem"
// POST /generate-story
func (h *GenerationHandler) GenerateStory(c *gin.Context) {
	h.handle(c, h.generationUsecase.Generate)
}

// GeneratePoem always writes a poem
// POST /generate-poem
func (h *GenerationHandler) GeneratePoem(c *gin.Context) {
	h.handle(c, h.generationUsecase.Poem)
}

func (h *GenerationHandler) handle(c *gin.Context, write func(ctx context.Context, req *domain.GenerateRequest) (string, error)) {
	var req domain.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	text, err := write(c.Request.Context(), &req)
	if err != nil {
		h.log.Error("generation failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, domain.GenerateResponse{Story: text})
}
