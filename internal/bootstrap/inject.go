package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GoSim-25-26J-441/diffusion-gateway/config"
	"github.com/GoSim-25-26J-441/diffusion-gateway/internal/image_generation/cleanup"
	"github.com/GoSim-25-26J-441/diffusion-gateway/internal/image_generation/inference"
	"github.com/GoSim-25-26J-441/diffusion-gateway/internal/image_generation/service"
	"github.com/GoSim-25-26J-441/diffusion-gateway/internal/image_generation/storage"
	"github.com/GoSim-25-26J-441/diffusion-gateway/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/samber/do"
)

const ServiceName = "diffusion-gateway"

// Setup registers every component with a lazy injector. The inference
// delegate is built once, on first use, and shared by all requests.
func Setup(ctx context.Context, cfg *config.Config) *do.Injector {
	logger := logging.FromContextOrDiscard(ctx)

	injector := do.NewWithOpts(&do.InjectorOpts{
		Logf: func(format string, args ...any) {
			logger.Debug(fmt.Sprintf(format, args...))
		},
	})

	do.ProvideValue[*config.Config](injector, cfg)
	do.ProvideValue[*slog.Logger](injector, logger)

	do.Provide[inference.Generator](injector, NewBackend)
	do.Provide[*inference.Guard](injector, func(i *do.Injector) (*inference.Guard, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return inference.NewGuard(do.MustInvoke[inference.Generator](i), cfg.Inference.Concurrency), nil
	})
	do.Provide[*storage.FileStore](injector, func(i *do.Injector) (*storage.FileStore, error) {
		store := storage.NewFileStore(do.MustInvoke[*config.Config](i).Storage.OutputDir)
		return store, store.EnsureDir()
	})
	do.Provide[*service.GenerationService](injector, func(i *do.Injector) (*service.GenerationService, error) {
		return service.NewGenerationService(
			do.MustInvoke[*inference.Guard](i),
			do.MustInvoke[*storage.FileStore](i),
			do.MustInvoke[*config.Config](i).Server.PublicBaseURL,
		), nil
	})
	do.Provide[*cleanup.Sweeper](injector, func(i *do.Injector) (*cleanup.Sweeper, error) {
		st := do.MustInvoke[*config.Config](i).Storage
		return cleanup.NewSweeper(st.OutputDir, st.MaxAge), nil
	})
	do.Provide[*cleanup.Scheduler](injector, func(i *do.Injector) (*cleanup.Scheduler, error) {
		return cleanup.NewScheduler(ctx, do.MustInvoke[*cleanup.Sweeper](i), do.MustInvoke[*config.Config](i).Storage.CleanupSchedule)
	})
	do.Provide[*gin.Engine](injector, func(i *do.Injector) (*gin.Engine, error) {
		cfg := do.MustInvoke[*config.Config](i)
		SetGinMode(cfg.App.Environment)
		return BuildRouter(RouterDeps{
			ServiceName:    ServiceName,
			Version:        cfg.App.Version,
			ModelID:        cfg.Inference.ModelID,
			OutputDir:      do.MustInvoke[*storage.FileStore](i).Dir(),
			AllowedOrigins: cfg.Server.AllowedOrigins,
			Logger:         do.MustInvoke[*slog.Logger](i),
			Generator:      do.MustInvoke[*service.GenerationService](i),
			Probe:          do.MustInvoke[*inference.Guard](i),
		}), nil
	})

	return injector
}

// NewBackend selects the inference backend named by INFERENCE_BACKEND.
func NewBackend(i *do.Injector) (inference.Generator, error) {
	cfg := do.MustInvoke[*config.Config](i).Inference

	switch cfg.Backend {
	case config.BackendHTTP:
		return inference.NewClient(cfg.URL, inference.Params{
			Model:         cfg.ModelID,
			Device:        cfg.Device,
			Steps:         cfg.Steps,
			GuidanceScale: cfg.GuidanceScale,
			Width:         cfg.Width,
			Height:        cfg.Height,
		}, cfg.Timeout), nil
	case config.BackendPlaceholder:
		return &inference.Placeholder{Width: cfg.Width, Height: cfg.Height}, nil
	default:
		return nil, fmt.Errorf("unknown inference backend %q", cfg.Backend)
	}
}
