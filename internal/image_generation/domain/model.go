package domain

import (
	"strings"
	"time"
)

// GenerationRequest is the body of POST /generate.
type GenerationRequest struct {
	Prompt string `json:"prompt"`
}

// Validate rejects prompts that are empty after trimming whitespace.
func (r GenerationRequest) Validate() error {
	if strings.TrimSpace(r.Prompt) == "" {
		return ErrEmptyPrompt
	}
	return nil
}

// GenerationResult describes one image written to the output directory.
type GenerationResult struct {
	ImageURL       string
	FileName       string
	Path           string
	GeneratedAt    time.Time
	GenerationTime time.Duration
	ImageSize      int64
}

// StoredImage is what the file store reports after a write.
type StoredImage struct {
	FileName string
	Path     string
	Size     int64
}
