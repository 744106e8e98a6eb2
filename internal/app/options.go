package app

import (
	"time"

	"github.com/asad/clutchboard/internal/adapters/cache"
	"github.com/asad/clutchboard/internal/domain/aggregate"
	"github.com/asad/clutchboard/internal/domain/model"
	"github.com/asad/clutchboard/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDirectory enables team search through the given directory client.
func WithDirectory(d TeamDirectory) Option {
	return func(s *Service) {
		if d != nil {
			s.directory = d
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithWorkers sets the pool width for per-game computations.
func WithWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithTaskTimeout sets the per-game computation timeout.
func WithTaskTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.taskTimeout = d
		}
	}
}

// WithGameCache replaces the per-game row cache (used by tests to inject a
// fake clock).
func WithGameCache(c *cache.Store[model.GameRow]) Option {
	return func(s *Service) {
		if c != nil {
			s.games = c
		}
	}
}

// WithPlayerCache replaces the per-game player batch cache.
func WithPlayerCache(c *cache.Store[aggregate.PlayerBatch]) Option {
	return func(s *Service) {
		if c != nil {
			s.players = c
		}
	}
}
