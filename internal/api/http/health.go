package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/GoSim-25-26J-441/diffusion-gateway/internal/image_generation/inference"
	"github.com/gin-gonic/gin"
)

// InferenceProbe reports backend reachability and call statistics.
type InferenceProbe interface {
	Ping(ctx context.Context) error
	Stats() inference.Stats
}

type HealthResponse struct {
	Status         string           `json:"status"`
	Timestamp      time.Time        `json:"timestamp"`
	Service        string           `json:"service"`
	Version        string           `json:"version"`
	Inference      string           `json:"inference,omitempty"`
	InferenceStats *inference.Stats `json:"inference_stats,omitempty"`
}

type HealthHandler struct {
	serviceName string
	version     string
	probe       InferenceProbe
}

func NewHealthHandler(serviceName, version string, probe InferenceProbe) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		probe:       probe,
	}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   h.serviceName,
		Version:   h.version,
	}

	if h.probe != nil {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		switch err := h.probe.Ping(pingCtx); {
		case err == nil:
			resp.Inference = "up"
		case errors.Is(err, inference.ErrPingUnsupported):
			resp.Inference = "disabled"
		default:
			resp.Inference = "down"
		}

		stats := h.probe.Stats()
		resp.InferenceStats = &stats
	}

	c.JSON(http.StatusOK, resp)
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}
