// Package cache provides in-memory memoization stores with differentiated
// TTLs for success and failure outcomes.
package cache

import "time"

type settings struct {
	name       string
	clock      Clock
	successTTL time.Duration
	failureTTL time.Duration
}

// Option applies a configuration option to a Store.
type Option func(*settings)

// WithName sets the store name used in metrics labels.
func WithName(name string) Option {
	return func(s *settings) {
		if name != "" {
			s.name = name
		}
	}
}

// WithClock injects a wall-clock source.
func WithClock(clock Clock) Option {
	return func(s *settings) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithSuccessTTL sets the freshness window for successful outcomes.
func WithSuccessTTL(ttl time.Duration) Option {
	return func(s *settings) {
		if ttl > 0 {
			s.successTTL = ttl
		}
	}
}

// WithFailureTTL sets the freshness window for failed outcomes.
func WithFailureTTL(ttl time.Duration) Option {
	return func(s *settings) {
		if ttl > 0 {
			s.failureTTL = ttl
		}
	}
}
