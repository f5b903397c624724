package service

import (
	"context"
	"time"

	"github.com/GoSim-25-26J-441/diffusion-gateway/internal/image_generation/domain"
	"github.com/GoSim-25-26J-441/diffusion-gateway/internal/image_generation/inference"
	"github.com/GoSim-25-26J-441/diffusion-gateway/internal/logging"
)

// PublicPrefix is the URL path under which generated images are served.
const PublicPrefix = "/generated"

// ImageStore persists encoded images.
type ImageStore interface {
	Save(ctx context.Context, data []byte) (domain.StoredImage, error)
}

// GenerationService validates prompts, runs inference and stores the result.
type GenerationService struct {
	generator inference.Generator
	store     ImageStore
	baseURL   string
	now       func() time.Time
}

// NewGenerationService creates a GenerationService. baseURL is the public
// origin used to build image URLs, without a trailing slash.
func NewGenerationService(generator inference.Generator, store ImageStore, baseURL string) *GenerationService {
	return &GenerationService{
		generator: generator,
		store:     store,
		baseURL:   baseURL,
		now:       time.Now,
	}
}

// Generate produces one image for req. It returns domain.ErrEmptyPrompt
// for blank prompts and a *domain.GenerationError for everything else.
func (s *GenerationService) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error) {
	logger := logging.FromContextOrDiscard(ctx)
	logger.Info("received request to generate image", "prompt", req.Prompt)

	if err := req.Validate(); err != nil {
		return nil, err
	}

	start := s.now()

	img, err := s.generator.Generate(ctx, req.Prompt)
	if err != nil {
		return nil, &domain.GenerationError{Op: "inference", Err: err}
	}

	stored, err := s.store.Save(ctx, img)
	if err != nil {
		return nil, &domain.GenerationError{Op: "store", Err: err}
	}

	elapsed := s.now().Sub(start)
	logger.Info("image generated and saved",
		"path", stored.Path,
		"generation_time", elapsed.String(),
		"bytes", stored.Size,
	)

	return &domain.GenerationResult{
		ImageURL:       s.baseURL + PublicPrefix + "/" + stored.FileName,
		FileName:       stored.FileName,
		Path:           stored.Path,
		GeneratedAt:    start,
		GenerationTime: elapsed,
		ImageSize:      stored.Size,
	}, nil
}
