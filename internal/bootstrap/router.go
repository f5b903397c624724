package bootstrap

import (
	"log/slog"

	httpapi "github.com/GoSim-25-26J-441/diffusion-gateway/internal/api/http"
	"github.com/GoSim-25-26J-441/diffusion-gateway/internal/api/http/middleware"
	imghttp "github.com/GoSim-25-26J-441/diffusion-gateway/internal/image_generation/http"
	"github.com/gin-gonic/gin"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	ModelID        string
	OutputDir      string
	AllowedOrigins []string
	Logger         *slog.Logger
	Generator      imghttp.Generator
	Probe          httpapi.InferenceProbe
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(dep.AllowedOrigins))
	r.Use(middleware.RequestIDMiddleware(dep.Logger))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Probe)
	healthHandler.RegisterRoutes(r)

	imgHandler := imghttp.NewHandler(dep.Generator, dep.ModelID, dep.OutputDir)
	imgHandler.Register(r)

	return r
}
