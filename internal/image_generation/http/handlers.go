package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/GoSim-25-26J-441/diffusion-gateway/internal/image_generation/domain"
	"github.com/GoSim-25-26J-441/diffusion-gateway/internal/logging"
	"github.com/gin-gonic/gin"
)

// maxRequestBody caps POST /generate bodies; prompts are a few hundred bytes.
const maxRequestBody = 1 << 20

// Generator is the part of the generation service the handlers need.
type Generator interface {
	Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error)
}

type Handler struct {
	generator Generator
	modelID   string
	outputDir string
}

func NewHandler(generator Generator, modelID, outputDir string) *Handler {
	return &Handler{
		generator: generator,
		modelID:   modelID,
		outputDir: outputDir,
	}
}

// Generate handles POST /generate.
func (h *Handler) Generate(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestBody)

	var req domain.GenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Detail: detailBodyTooLarge})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Detail: detailInvalidBody})
		return
	}

	ctx := c.Request.Context()
	res, err := h.generator.Generate(ctx, req)
	if err != nil {
		switch domain.KindOf(err) {
		case domain.KindInvalidInput:
			c.JSON(http.StatusBadRequest, ErrorResponse{Detail: detailEmptyPrompt})
		default:
			logging.FromContextOrDiscard(ctx).Error("error generating image", "error", err.Error())
			c.JSON(http.StatusInternalServerError, ErrorResponse{Detail: detailGenerationErr})
		}
		return
	}

	c.JSON(http.StatusOK, toGenerateResponse(res))
}

// Status handles GET /status.
func (h *Handler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, StatusResponse{
		Status:      statusRunning,
		ModelLoaded: h.modelID,
	})
}
