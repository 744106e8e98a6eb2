// Package pipeline fans per-game computations out across a bounded worker
// pool and streams results back in completion order.
package pipeline

import "time"

type settings struct {
	workers int
	timeout time.Duration
}

// Option applies a configuration option to a pipeline run.
type Option func(*settings)

// WithWorkers sets the pool size, clamped to the allowed range.
func WithWorkers(n int) Option {
	return func(s *settings) {
		if n <= 0 {
			return
		}
		if n < minWorkers {
			n = minWorkers
		}
		if n > maxWorkers {
			n = maxWorkers
		}
		s.workers = n
	}
}

// WithTaskTimeout sets the per-task timeout.
func WithTaskTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.timeout = d
		}
	}
}
