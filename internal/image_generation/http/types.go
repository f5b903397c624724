package http

import (
	"time"

	"github.com/GoSim-25-26J-441/diffusion-gateway/internal/image_generation/domain"
)

const (
	statusRunning       = "Server is running"
	detailEmptyPrompt   = "Prompt cannot be empty"
	detailInvalidBody   = "Invalid request body"
	detailBodyTooLarge  = "Request body too large"
	detailGenerationErr = "An error occurred while generating the image"
)

type GenerateResponse struct {
	ImageURL       string `json:"image_url"`
	GeneratedAt    string `json:"generated_at"`
	GenerationTime string `json:"generation_time"`
	ImageSize      int64  `json:"image_size"`
}

type StatusResponse struct {
	Status      string `json:"status"`
	ModelLoaded string `json:"model_loaded"`
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}

func toGenerateResponse(res *domain.GenerationResult) GenerateResponse {
	return GenerateResponse{
		ImageURL:       res.ImageURL,
		GeneratedAt:    res.GeneratedAt.UTC().Format(time.RFC3339Nano),
		GenerationTime: res.GenerationTime.String(),
		ImageSize:      res.ImageSize,
	}
}
