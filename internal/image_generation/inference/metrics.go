package inference

import (
	"sync/atomic"
	"time"
)

// Metrics tracks inference call counts and latency.
type Metrics struct {
	calls   atomic.Int64
	errors  atomic.Int64
	latency atomic.Int64 // total latency in nanoseconds
}

// Stats is a point-in-time copy of Metrics.
type Stats struct {
	Calls            int64   `json:"calls"`
	Errors           int64   `json:"errors"`
	AverageLatencyMs float64 `json:"average_latency_ms"`
}

func (m *Metrics) record(duration time.Duration, err error) {
	m.calls.Add(1)
	m.latency.Add(duration.Nanoseconds())
	if err != nil {
		m.errors.Add(1)
	}
}

func (m *Metrics) Snapshot() Stats {
	calls := m.calls.Load()
	s := Stats{
		Calls:  calls,
		Errors: m.errors.Load(),
	}
	if calls > 0 {
		s.AverageLatencyMs = float64(m.latency.Load()) / float64(calls) / 1e6
	}
	return s
}
