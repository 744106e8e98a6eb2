// Package feed fetches play-by-play and boxscore data from the NBA live-data
// CDN and converts it into typed domain events.
package feed

import (
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithBaseURL points the client at a different CDN root (used by tests).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.http = httpClient
		}
	}
}

// WithRequestTimeout sets the per-request timeout.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithRateLimit bounds requests per second against the upstream.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond > 0 && burst > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
		}
	}
}
