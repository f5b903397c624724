package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/samber/lo"
)

const (
	BackendHTTP        = "http"
	BackendPlaceholder = "placeholder"
)

type Config struct {
	Server    ServerConfig
	Inference InferenceConfig
	Storage   StorageConfig
	App       AppConfig
}

type ServerConfig struct {
	Port           string
	PublicBaseURL  string
	AllowedOrigins []string
}

type InferenceConfig struct {
	Backend       string
	URL           string
	ModelID       string
	Device        string
	Steps         int
	GuidanceScale float64
	Width         int
	Height        int
	Timeout       time.Duration
	Concurrency   int
}

type StorageConfig struct {
	OutputDir       string
	MaxAge          time.Duration // zero disables the retention sweeper
	CleanupSchedule string
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8000"),
			PublicBaseURL:  strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://127.0.0.1:8000"), "/"),
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		},
		Inference: InferenceConfig{
			Backend:       getEnv("INFERENCE_BACKEND", BackendHTTP),
			URL:           strings.TrimRight(getEnv("INFERENCE_URL", "http://127.0.0.1:7860"), "/"),
			ModelID:       getEnv("MODEL_ID", "nitrosocke/Ghibli-Diffusion"),
			Device:        getEnv("INFERENCE_DEVICE", "mps"),
			Steps:         getEnvAsInt("INFERENCE_STEPS", 50),
			GuidanceScale: getEnvAsFloat("INFERENCE_GUIDANCE_SCALE", 7.5),
			Width:         getEnvAsInt("IMAGE_WIDTH", 512),
			Height:        getEnvAsInt("IMAGE_HEIGHT", 512),
			Timeout:       getEnvAsDuration("INFERENCE_TIMEOUT", 5*time.Minute),
			Concurrency:   getEnvAsInt("INFERENCE_CONCURRENCY", 1),
		},
		Storage: StorageConfig{
			OutputDir:       getEnv("OUTPUT_DIR", "generated"),
			MaxAge:          getEnvAsDuration("GENERATED_MAX_AGE", 0),
			CleanupSchedule: getEnv("CLEANUP_SCHEDULE", "0 */10 * * * *"),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	u, err := url.Parse(c.Server.PublicBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("PUBLIC_BASE_URL must be an absolute URL, got %q", c.Server.PublicBaseURL)
	}

	if c.Inference.ModelID == "" {
		return fmt.Errorf("MODEL_ID is required")
	}

	switch c.Inference.Backend {
	case BackendHTTP:
		if c.Inference.URL == "" {
			return fmt.Errorf("INFERENCE_URL is required for the http backend")
		}
	case BackendPlaceholder:
	default:
		return fmt.Errorf("unknown INFERENCE_BACKEND %q", c.Inference.Backend)
	}

	if c.Inference.Concurrency < 1 {
		return fmt.Errorf("INFERENCE_CONCURRENCY must be at least 1")
	}

	if c.Storage.OutputDir == "" {
		return fmt.Errorf("OUTPUT_DIR is required")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid number for %s, using default: %g", key, defaultValue)
		return defaultValue
	}

	return value
}

// getEnvAsDuration accepts Go duration strings ("90s", "24h") or a bare
// number of seconds.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	if d, err := time.ParseDuration(valueStr); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(secs) * time.Second
	}

	log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
	return defaultValue
}

func splitList(s string) []string {
	parts := lo.Map(strings.Split(s, ","), func(p string, _ int) string {
		return strings.TrimSpace(p)
	})
	return lo.Filter(parts, func(p string, _ int) bool {
		return p != ""
	})
}
