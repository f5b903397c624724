package http

import (
	"github.com/GoSim-25-26J-441/diffusion-gateway/internal/image_generation/service"
	"github.com/gin-gonic/gin"
)

// Register registers the generation, status and static image routes
func (h *Handler) Register(r gin.IRouter) {
	r.POST("/generate", h.Generate)
	r.GET("/status", h.Status)
	r.Static(service.PublicPrefix, h.outputDir)
}
