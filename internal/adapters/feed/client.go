// Package feed fetches play-by-play and boxscore data from the NBA live-data
// CDN and converts it into typed domain events.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/asad/clutchboard/internal/domain/model"
	"github.com/asad/clutchboard/internal/domain/oncourt"
	"github.com/asad/clutchboard/pkg/metrics"
)

// Default client configuration constants.
const (
	defaultBaseURL        = "https://cdn.nba.com/static/json/liveData"
	defaultRequestTimeout = 15 * time.Second
	defaultRateLimit      = 8 // requests per second against the CDN
	defaultBurst          = 4
	userAgent             = "Mozilla/5.0"
	maxBodyBytes          = 16 << 20
)

// Client talks to the live-data CDN. All fetches honor ctx and pass through
// a shared rate limiter so a wide fan-out cannot overwhelm the upstream.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a feed client with configuration options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: defaultRequestTimeout},
		limiter: rate.NewLimiter(defaultRateLimit, defaultBurst),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Events returns the game's play-by-play converted to typed events. An empty
// slice with a nil error means the feed published no recognizable plays.
func (c *Client) Events(ctx context.Context, gameID string) ([]model.Event, error) {
	pbp, err := c.playByPlay(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return convertEvents(model.NormalizeGameID(gameID), pbp.Game.Actions), nil
}

// PlayByPlay returns both the typed events and the clock markers for the
// on-court tracker from a single fetch.
func (c *Client) PlayByPlay(ctx context.Context, gameID string) ([]model.Event, []oncourt.Marker, error) {
	pbp, err := c.playByPlay(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}
	return convertEvents(model.NormalizeGameID(gameID), pbp.Game.Actions), toMarkers(pbp.Game.Actions), nil
}

// Lineups returns starter names per team tricode from the boxscore. An empty
// map means court time cannot be attributed for this game.
func (c *Client) Lineups(ctx context.Context, gameID string) (map[string][]string, error) {
	var box boxscoreResponse
	if err := c.getJSON(ctx, "boxscore", fmt.Sprintf("%s/boxscore/boxscore_%s.json", c.baseURL, model.NormalizeGameID(gameID)), &box); err != nil {
		return nil, err
	}
	out := make(map[string][]string, 2)
	for _, team := range []boxscoreTeam{box.Game.HomeTeam, box.Game.AwayTeam} {
		if team.Tricode() == "" {
			continue
		}
		var starters []string
		for _, p := range team.Players {
			if !p.isStarter() {
				continue
			}
			if name := p.displayName(); name != "" {
				starters = append(starters, name)
			}
		}
		if len(starters) > 0 {
			out[team.Tricode()] = starters
		}
	}
	return out, nil
}

func toMarkers(actions []pbpAction) []oncourt.Marker {
	markers := make([]oncourt.Marker, 0, len(actions))
	for _, a := range actions {
		markers = append(markers, oncourt.Marker{
			Period:       a.Period,
			ClockSeconds: ParseClock(a.Clock),
			Team:         a.TeamTricode,
			ActionType:   a.ActionType,
			Description:  a.Description,
		})
	}
	return markers
}

func (c *Client) playByPlay(ctx context.Context, gameID string) (*playByPlayResponse, error) {
	var pbp playByPlayResponse
	url := fmt.Sprintf("%s/playbyplay/playbyplay_%s.json", c.baseURL, model.NormalizeGameID(gameID))
	if err := c.getJSON(ctx, "playbyplay", url, &pbp); err != nil {
		return nil, err
	}
	return &pbp, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, url string, v any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("feed rate limit wait: %w", err)
	}

	metrics.RecordFeedRequest(endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		metrics.RecordFeedError(endpoint)
		return fmt.Errorf("build feed request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordFeedError(endpoint)
		return fmt.Errorf("feed request %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.RecordFeedError(endpoint)
		return fmt.Errorf("feed request %s: %w (status %d)", endpoint, ErrUpstreamStatus, resp.StatusCode)
	}

	body := io.LimitReader(resp.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		metrics.RecordFeedError(endpoint)
		return fmt.Errorf("decode feed response %s: %w", endpoint, err)
	}
	return nil
}
