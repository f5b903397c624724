package inference

import (
	"context"
	"fmt"
	"time"

	"github.com/GoSim-25-26J-441/diffusion-gateway/internal/logging"
	"golang.org/x/sync/semaphore"
)

// Guard bounds the number of in-flight calls to the wrapped Generator.
// Pipelines that hold accelerator state are not safe to call concurrently,
// so the usual limit is 1.
type Guard struct {
	next    Generator
	sem     *semaphore.Weighted
	limit   int64
	metrics Metrics
}

func NewGuard(next Generator, limit int) *Guard {
	if limit < 1 {
		limit = 1
	}
	return &Guard{
		next:  next,
		sem:   semaphore.NewWeighted(int64(limit)),
		limit: int64(limit),
	}
}

// Generate waits for a free slot, then delegates. A cancelled context
// while waiting returns the context error without calling the backend.
func (g *Guard) Generate(ctx context.Context, prompt string) ([]byte, error) {
	logger := logging.FromContextOrDiscard(ctx)

	waitStart := time.Now()
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("waiting for inference slot: %w", err)
	}
	defer g.sem.Release(1)

	if waited := time.Since(waitStart); waited > time.Second {
		logger.Debug("acquired inference slot", "waited", waited.String())
	}

	start := time.Now()
	img, err := g.next.Generate(ctx, prompt)
	g.metrics.record(time.Since(start), err)
	return img, err
}

func (g *Guard) Ping(ctx context.Context) error {
	if p, ok := g.next.(Pinger); ok {
		return p.Ping(ctx)
	}
	return ErrPingUnsupported
}

func (g *Guard) Stats() Stats {
	return g.metrics.Snapshot()
}

func (g *Guard) Limit() int64 {
	return g.limit
}
