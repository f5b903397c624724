package inference

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/GoSim-25-26J-441/diffusion-gateway/internal/image_generation/domain"
	"github.com/GoSim-25-26J-441/diffusion-gateway/internal/logging"
)

const (
	txt2imgPath = "/v1/txt2img"
	healthPath  = "/health"

	// cap on error bodies copied into error messages
	maxErrorBody = 4 << 10

	// a few base64 512x512 PNGs fit comfortably
	defaultMaxResponseBody = 64 << 20
)

// Client calls a remote diffusion pipeline over HTTP.
type Client struct {
	baseURL    string
	params     Params
	httpClient *http.Client
	pingClient *http.Client

	maxResponseBody int64
}

// NewClient creates a client for the pipeline at baseURL. timeout bounds a
// whole generation call; zero means no timeout.
func NewClient(baseURL string, params Params, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		params:  params,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		pingClient: &http.Client{
			Timeout: 2 * time.Second,
		},
		maxResponseBody: defaultMaxResponseBody,
	}
}

type txt2imgRequest struct {
	Params
	Prompt string `json:"prompt"`
}

type txt2imgResponse struct {
	Images []string `json:"images"`
}

// Generate sends one prompt and returns the first image of the response.
func (c *Client) Generate(ctx context.Context, prompt string) ([]byte, error) {
	logger := logging.FromContextOrDiscard(ctx).With("model", c.params.Model, "device", c.params.Device)
	logger.Info("requesting image from inference backend")

	body, err := json.Marshal(txt2imgRequest{Params: c.params, Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+txt2imgPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("inference request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(msg))
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponseBody+1))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if int64(len(raw)) > c.maxResponseBody {
		return nil, fmt.Errorf("response exceeds %d bytes", c.maxResponseBody)
	}

	var out txt2imgResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(out.Images) == 0 {
		return nil, domain.ErrNoImageReturned
	}

	img, err := base64.StdEncoding.DecodeString(out.Images[0])
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if http.DetectContentType(img) != "image/png" {
		return nil, domain.ErrUnsupportedImage
	}

	logger.Info("received image from inference backend", "bytes", len(img), "returned", len(out.Images))
	return img, nil
}

// Ping checks that the backend answers its health endpoint with a 2xx.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+healthPath, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.pingClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}
	return nil
}
