package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GoSim-25-26J-441/diffusion-gateway/config"
	"github.com/GoSim-25-26J-441/diffusion-gateway/internal/bootstrap"
	"github.com/GoSim-25-26J-441/diffusion-gateway/internal/image_generation/cleanup"
	"github.com/GoSim-25-26J-441/diffusion-gateway/internal/image_generation/inference"
	"github.com/GoSim-25-26J-441/diffusion-gateway/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/samber/do"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.New(os.Stderr, cfg.App.LogLevel)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logging.NewContext(ctx, logger)

	injector := bootstrap.Setup(ctx, cfg)
	router, err := do.Invoke[*gin.Engine](injector)
	if err != nil {
		logger.Error("failed to build router", "error", err.Error())
		os.Exit(1)
	}

	guard := do.MustInvoke[*inference.Guard](injector)

	if sweeper := do.MustInvoke[*cleanup.Sweeper](injector); sweeper.Enabled() {
		sched, err := do.Invoke[*cleanup.Scheduler](injector)
		if err != nil {
			logger.Error("failed to schedule retention sweep", "error", err.Error())
			os.Exit(1)
		}
		sched.Start()
		logger.Info("retention sweep scheduled",
			"schedule", cfg.Storage.CleanupSchedule,
			"max_age", cfg.Storage.MaxAge.String(),
		)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening",
			"addr", srv.Addr,
			"model", cfg.Inference.ModelID,
			"backend", cfg.Inference.Backend,
			"device", cfg.Inference.Device,
			"inference_concurrency", guard.Limit(),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return injector.Shutdown()
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped with error", "error", err.Error())
		os.Exit(1)
	}
}
