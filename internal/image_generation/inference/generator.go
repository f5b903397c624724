package inference

import (
	"context"
	"errors"
)

// ErrPingUnsupported is returned by Ping when the backend has no health probe.
var ErrPingUnsupported = errors.New("inference backend does not support health checks")

// Generator turns a prompt into exactly one PNG-encoded image.
type Generator interface {
	Generate(ctx context.Context, prompt string) ([]byte, error)
}

// Pinger is implemented by backends that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Params are the pipeline settings forwarded with every prompt.
type Params struct {
	Model         string  `json:"model"`
	Device        string  `json:"device,omitempty"`
	Steps         int     `json:"num_inference_steps,omitempty"`
	GuidanceScale float64 `json:"guidance_scale,omitempty"`
	Width         int     `json:"width,omitempty"`
	Height        int     `json:"height,omitempty"`
}
