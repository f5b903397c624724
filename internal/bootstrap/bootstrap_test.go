package bootstrap_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/GoSim-25-26J-441/diffusion-gateway/config"
	httpapi "github.com/GoSim-25-26J-441/diffusion-gateway/internal/api/http"
	"github.com/GoSim-25-26J-441/diffusion-gateway/internal/bootstrap"
	"github.com/GoSim-25-26J-441/diffusion-gateway/internal/image_generation/cleanup"
	"github.com/GoSim-25-26J-441/diffusion-gateway/internal/image_generation/inference"
	"github.com/gin-gonic/gin"
	"github.com/samber/do"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server: config.ServerConfig{
			Port:           "8000",
			PublicBaseURL:  "http://127.0.0.1:8000",
			AllowedOrigins: []string{"*"},
		},
		Inference: config.InferenceConfig{
			Backend:     config.BackendPlaceholder,
			ModelID:     "nitrosocke/Ghibli-Diffusion",
			Width:       16,
			Height:      16,
			Concurrency: 1,
		},
		Storage: config.StorageConfig{
			OutputDir:       filepath.Join(t.TempDir(), "generated"),
			MaxAge:          time.Hour,
			CleanupSchedule: "0 */10 * * * *",
		},
		App: config.AppConfig{Environment: "test", Version: "1.2.3"},
	}
}

func TestSetup_EndToEnd(t *testing.T) {
	cfg := testConfig(t)
	injector := bootstrap.Setup(context.Background(), cfg)
	defer func() { _ = injector.Shutdown() }()

	router := do.MustInvoke[*gin.Engine](injector)

	req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(`{"prompt": "a cat"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	imageURL, _ := body["image_url"].(string)
	assert.True(t, strings.HasPrefix(imageURL, "http://127.0.0.1:8000/generated/"))

	entries, err := os.ReadDir(cfg.Storage.OutputDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/status", nil))
	assert.JSONEq(t, `{"status": "Server is running", "model_loaded": "nitrosocke/Ghibli-Diffusion"}`, rr.Body.String())

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	var health httpapi.HealthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &health))
	assert.Equal(t, "disabled", health.Inference)
	assert.Equal(t, "1.2.3", health.Version)
	require.NotNil(t, health.InferenceStats)
	assert.Equal(t, int64(1), health.InferenceStats.Calls)
}

func TestSetup_SharesOneDelegate(t *testing.T) {
	injector := bootstrap.Setup(context.Background(), testConfig(t))

	a := do.MustInvoke[*inference.Guard](injector)
	b := do.MustInvoke[*inference.Guard](injector)
	assert.Same(t, a, b)
	assert.Equal(t, int64(1), a.Limit())
}

func TestSetup_ServesFromStoreDir(t *testing.T) {
	cfg := testConfig(t)
	cfg.Inference.Concurrency = 3
	injector := bootstrap.Setup(context.Background(), cfg)
	defer func() { _ = injector.Shutdown() }()

	assert.Equal(t, int64(3), do.MustInvoke[*inference.Guard](injector).Limit())

	// building the router creates the output directory it serves
	router := do.MustInvoke[*gin.Engine](injector)
	info, err := os.Stat(cfg.Storage.OutputDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	require.NoError(t, os.WriteFile(filepath.Join(cfg.Storage.OutputDir, "seed.png"), []byte("png"), 0o644))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/generated/seed.png", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "png", rr.Body.String())
}

func TestSetup_Scheduler(t *testing.T) {
	injector := bootstrap.Setup(context.Background(), testConfig(t))

	sched, err := do.Invoke[*cleanup.Scheduler](injector)
	require.NoError(t, err)
	sched.Start()
	assert.NoError(t, injector.Shutdown())
}

func TestNewBackend(t *testing.T) {
	cfg := testConfig(t)

	injector := do.New()
	do.ProvideValue[*config.Config](injector, cfg)
	gen, err := bootstrap.NewBackend(injector)
	require.NoError(t, err)
	assert.IsType(t, &inference.Placeholder{}, gen)

	cfg.Inference.Backend = config.BackendHTTP
	cfg.Inference.URL = "http://127.0.0.1:7860"
	gen, err = bootstrap.NewBackend(injector)
	require.NoError(t, err)
	assert.IsType(t, &inference.Client{}, gen)

	cfg.Inference.Backend = "onnx"
	_, err = bootstrap.NewBackend(injector)
	assert.Error(t, err)
}
