// Package directory resolves team names against TheSportsDB so rows can be
// decorated with canonical names and badge art.
package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/asad/clutchboard/pkg/metrics"
)

const (
	defaultBaseURL        = "https://www.thesportsdb.com/api/v1/json"
	defaultAPIKey         = "3" // free tier key
	defaultRequestTimeout = 10 * time.Second
)

// ErrTeamNotFound indicates no team matched the query, even after the
// city-less retry.
var ErrTeamNotFound = errors.New("team not found")

// Team is a directory entry for one franchise.
type Team struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"short_name,omitempty"`
	League    string `json:"league,omitempty"`
	Badge     string `json:"badge,omitempty"`
	Stadium   string `json:"stadium,omitempty"`
}

type searchResponse struct {
	Teams []struct {
		IDTeam       string `json:"idTeam"`
		StrTeam      string `json:"strTeam"`
		StrTeamShort string `json:"strTeamShort"`
		StrLeague    string `json:"strLeague"`
		StrBadge     string `json:"strBadge"`
		StrTeamBadge string `json:"strTeamBadge"`
		StrStadium   string `json:"strStadium"`
	} `json:"teams"`
}

// Client queries TheSportsDB team search endpoint.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithBaseURL points the client at a different API root (used by tests).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithAPIKey sets the API key path segment.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		if key != "" {
			c.apiKey = key
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

// NewClient creates a directory client with configuration options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		apiKey:  defaultAPIKey,
		http:    &http.Client{Timeout: defaultRequestTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search resolves a team by name. Full names like "Golden State Warriors"
// often miss in the upstream, so an empty result retries with the city
// dropped ("Warriors") before giving up with ErrTeamNotFound.
func (c *Client) Search(ctx context.Context, name string) (*Team, error) {
	query := strings.TrimSpace(name)
	if query == "" {
		return nil, ErrTeamNotFound
	}

	team, err := c.search(ctx, query)
	if err == nil || !errors.Is(err, ErrTeamNotFound) {
		return team, err
	}

	if idx := strings.LastIndex(query, " "); idx > 0 {
		return c.search(ctx, query[idx+1:])
	}
	return nil, err
}

func (c *Client) search(ctx context.Context, query string) (*Team, error) {
	endpoint := fmt.Sprintf("%s/%s/searchteams.php?t=%s", c.baseURL, c.apiKey, url.QueryEscape(query))

	metrics.RecordFeedRequest("teamsearch")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		metrics.RecordFeedError("teamsearch")
		return nil, fmt.Errorf("build directory request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordFeedError("teamsearch")
		return nil, fmt.Errorf("directory request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.RecordFeedError("teamsearch")
		return nil, fmt.Errorf("directory request: status %d", resp.StatusCode)
	}

	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		metrics.RecordFeedError("teamsearch")
		return nil, fmt.Errorf("decode directory response: %w", err)
	}
	if len(out.Teams) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrTeamNotFound, query)
	}

	t := out.Teams[0]
	badge := t.StrBadge
	if badge == "" {
		badge = t.StrTeamBadge
	}
	return &Team{
		ID:        t.IDTeam,
		Name:      t.StrTeam,
		ShortName: t.StrTeamShort,
		League:    t.StrLeague,
		Badge:     badge,
		Stadium:   t.StrStadium,
	}, nil
}
