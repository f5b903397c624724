package cleanup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/GoSim-25-26J-441/diffusion-gateway/internal/logging"
	"github.com/robfig/cron/v3"
	"github.com/samber/lo"
)

// Sweeper removes generated images older than a maximum age.
type Sweeper struct {
	dir    string
	maxAge time.Duration
	now    func() time.Time
}

func NewSweeper(dir string, maxAge time.Duration) *Sweeper {
	return &Sweeper{dir: dir, maxAge: maxAge, now: time.Now}
}

// Enabled reports whether a retention age was configured.
func (s *Sweeper) Enabled() bool {
	return s.maxAge > 0
}

// Sweep deletes expired *.png files and returns how many were removed.
// Failures on individual files are logged and skipped.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	logger := logging.FromContextOrDiscard(ctx).With("dir", s.dir)

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", s.dir, err)
	}

	cutoff := s.now().Add(-s.maxAge)
	expired := lo.Filter(entries, func(e os.DirEntry, _ int) bool {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".png") {
			return false
		}
		info, err := e.Info()
		return err == nil && info.ModTime().Before(cutoff)
	})

	removed := 0
	for _, e := range expired {
		if err := os.Remove(filepath.Join(s.dir, e.Name())); err != nil {
			logger.Warn("failed to remove expired image", "file", e.Name(), "error", err.Error())
			continue
		}
		removed++
	}

	if removed > 0 {
		logger.Info("removed expired images", "count", removed, "max_age", s.maxAge.String())
	}
	return removed, nil
}

// Scheduler runs a Sweeper on a cron schedule (with seconds field).
type Scheduler struct {
	cron *cron.Cron
}

func NewScheduler(ctx context.Context, sweeper *Sweeper, spec string) (*Scheduler, error) {
	logger := logging.FromContextOrDiscard(ctx)
	c := cron.New(cron.WithSeconds())

	_, err := c.AddFunc(spec, func() {
		if _, err := sweeper.Sweep(ctx); err != nil {
			logger.Error("retention sweep failed", "error", err.Error())
		}
	})
	if err != nil {
		return nil, fmt.Errorf("schedule retention sweep %q: %w", spec, err)
	}

	return &Scheduler{cron: c}, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Shutdown stops scheduling and waits for a running sweep to finish.
func (s *Scheduler) Shutdown() error {
	<-s.cron.Stop().Done()
	return nil
}
