// Package app wires the feed, caches, worker pool and ranking into the two
// top-N queries the service answers.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/asad/clutchboard/internal/adapters/cache"
	"github.com/asad/clutchboard/internal/adapters/directory"
	"github.com/asad/clutchboard/internal/adapters/pipeline"
	"github.com/asad/clutchboard/internal/domain/aggregate"
	"github.com/asad/clutchboard/internal/domain/clutch"
	"github.com/asad/clutchboard/internal/domain/model"
	"github.com/asad/clutchboard/internal/domain/oncourt"
	"github.com/asad/clutchboard/internal/domain/rank"
	"github.com/asad/clutchboard/pkg/logger"
	"github.com/asad/clutchboard/pkg/metrics"
)

// DefaultLookbackDays is the standard window applied by callers that do not
// choose one. The service itself treats zero as "the whole index".
const DefaultLookbackDays = 3

// Query defaults and bounds.
const (
	defaultTopN = 10
	maxTopN     = 50
	requestTTL  = 2 * time.Minute
)

// Player ranking modes.
const (
	ModeRating = "rating"
	ModePoints = "points"
)

// ErrNoDirectory indicates team search was requested without a directory
// client configured.
var ErrNoDirectory = errors.New("team directory not configured")

// Feed supplies game data. Implemented by the CDN feed adapter.
type Feed interface {
	Events(ctx context.Context, gameID string) ([]model.Event, error)
	PlayByPlay(ctx context.Context, gameID string) ([]model.Event, []oncourt.Marker, error)
	Lineups(ctx context.Context, gameID string) (map[string][]string, error)
}

// GameIndex answers which games are candidates for a lookback window.
type GameIndex interface {
	Candidates(lookbackDays int) []model.GameRef
}

// TeamDirectory resolves team names to directory entries.
type TeamDirectory interface {
	Search(ctx context.Context, name string) (*directory.Team, error)
}

// Query carries the shared parameters of both top-N queries.
type Query struct {
	// LookbackDays is the number of distinct game dates to consider.
	// Zero means no limit: the whole index is scanned.
	LookbackDays int
	// TopN bounds the result size.
	TopN int
	// ClosePoints is the closeness gate: a game must reach a clutch-window
	// margin at or below it. Non-positive disables the gate.
	ClosePoints int
}

func (q Query) normalized() Query {
	if q.LookbackDays < 0 {
		q.LookbackDays = 0
	}
	if q.TopN <= 0 {
		q.TopN = defaultTopN
	}
	if q.TopN > maxTopN {
		q.TopN = maxTopN
	}
	return q
}

// Stats is a point-in-time snapshot of service internals.
type Stats struct {
	GameCacheEntries          int `json:"game_cache_entries"`
	PlayerCacheEntries        int `json:"player_cache_entries"`
	GameRequestCacheEntries   int `json:"game_request_cache_entries"`
	PlayerRequestCacheEntries int `json:"player_request_cache_entries"`
	Workers                   int `json:"workers"`
}

// Service answers the clutchest-games and clutchest-player-games queries over
// a season index, memoizing per-game computations and whole requests.
type Service struct {
	log       logger.Logger
	feed      Feed
	index     GameIndex
	directory TeamDirectory

	games     *cache.Store[model.GameRow]
	players   *cache.Store[aggregate.PlayerBatch]
	gameReq   *cache.Store[[]model.GameRow]
	playerReq *cache.Store[[]model.PlayerRow]

	workers     int
	taskTimeout time.Duration
}

// New creates a service around a feed and a game index.
func New(feed Feed, index GameIndex, opts ...Option) *Service {
	s := &Service{
		log:         logger.Named("app"),
		feed:        feed,
		index:       index,
		games:       cache.New[model.GameRow](cache.WithName("games")),
		players:     cache.New[aggregate.PlayerBatch](cache.WithName("players")),
		gameReq:     newRequestCache[[]model.GameRow]("game_requests"),
		playerReq:   newRequestCache[[]model.PlayerRow]("player_requests"),
		workers:     pipeline.DefaultWorkerCount(),
		taskTimeout: 0, // pipeline default
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func newRequestCache[V any](name string) *cache.Store[V] {
	return cache.New[V](
		cache.WithName(name),
		cache.WithSuccessTTL(requestTTL),
		cache.WithFailureTTL(requestTTL),
	)
}

// TopGames returns the top-N games by clutchiness score for the lookback
// window, filtered by the closeness gate.
func (s *Service) TopGames(ctx context.Context, q Query) ([]model.GameRow, error) {
	q = q.normalized()
	start := time.Now()
	defer func() { metrics.RecordQueryDuration("games", time.Since(start).Seconds()) }()

	key := fmt.Sprintf("days=%d|top=%d|close=%d", q.LookbackDays, q.TopN, q.ClosePoints)
	if e, ok := s.gameReq.Get(key); ok {
		metrics.RecordQuery("games", "request_cache")
		return cloneRows(e.Value), nil
	}
	metrics.RecordQuery("games", "computed")

	rows, err := s.gameRows(ctx, q.LookbackDays)
	if err != nil {
		return nil, err
	}

	threshold := clutch.NormalizeThreshold(q.ClosePoints)
	acc := rank.New(q.TopN,
		func(g model.GameRow) float64 { return g.ClutchinessScore },
		func(g model.GameRow) string { return g.GameID },
	)
	for _, row := range rows {
		if row.Qualifies(threshold) {
			acc.Offer(row)
		}
	}

	top := acc.Drain()
	s.gameReq.Put(key, cloneRows(top), true)
	return cloneRows(top), nil
}

// TopPlayerGames returns the top-N player-game stat lines for the lookback
// window. mode selects the ranking key: ModeRating (default) or ModePoints.
func (s *Service) TopPlayerGames(ctx context.Context, q Query, mode string) ([]model.PlayerRow, error) {
	q = q.normalized()
	mode = normalizeMode(mode)
	start := time.Now()
	defer func() { metrics.RecordQueryDuration("players", time.Since(start).Seconds()) }()

	key := fmt.Sprintf("days=%d|top=%d|close=%d|mode=%s", q.LookbackDays, q.TopN, q.ClosePoints, mode)
	if e, ok := s.playerReq.Get(key); ok {
		metrics.RecordQuery("players", "request_cache")
		return clonePlayerRows(e.Value), nil
	}
	metrics.RecordQuery("players", "computed")

	batches, err := s.playerBatches(ctx, q.LookbackDays)
	if err != nil {
		return nil, err
	}

	threshold := clutch.NormalizeThreshold(q.ClosePoints)
	acc := rank.New(q.TopN, scoreFor(mode),
		func(p model.PlayerRow) string { return p.GameID + "|" + p.Player },
	)
	for _, batch := range batches {
		if !batch.Qualifies(threshold) {
			continue
		}
		for _, row := range batch.Rows {
			acc.Offer(row)
		}
	}

	top := acc.Drain()
	s.playerReq.Put(key, clonePlayerRows(top), true)
	return clonePlayerRows(top), nil
}

// SearchTeam resolves a team name through the directory.
func (s *Service) SearchTeam(ctx context.Context, name string) (*directory.Team, error) {
	if s.directory == nil {
		return nil, ErrNoDirectory
	}
	return s.directory.Search(ctx, name)
}

// Stats reports cache sizes and pool width.
func (s *Service) Stats() Stats {
	return Stats{
		GameCacheEntries:          s.games.Len(),
		PlayerCacheEntries:        s.players.Len(),
		GameRequestCacheEntries:   s.gameReq.Len(),
		PlayerRequestCacheEntries: s.playerReq.Len(),
		Workers:                   s.workers,
	}
}

// gameRows folds fresh cached rows with newly computed ones for every
// candidate in the window. Fresh failures are skipped without recompute;
// timed-out computations are skipped and left uncached for retry.
func (s *Service) gameRows(ctx context.Context, lookbackDays int) ([]model.GameRow, error) {
	refs := s.index.Candidates(lookbackDays)
	rows := make([]model.GameRow, 0, len(refs))

	var tasks []pipeline.Task[model.GameRow]
	for _, ref := range refs {
		if e, ok := s.games.Get(ref.GameID); ok {
			if e.OK {
				rows = append(rows, e.Value)
			}
			continue
		}
		ref := ref
		tasks = append(tasks, pipeline.Task[model.GameRow]{
			Key: ref.GameID,
			Compute: func(ctx context.Context) (model.GameRow, error) {
				return s.computeGame(ctx, ref)
			},
		})
	}

	for o := range pipeline.Run(ctx, tasks, s.pipelineOptions()...) {
		switch {
		case o.TimedOut:
			s.log.Warn(ctx, "game computation timed out", logger.String("game_id", o.Key))
		case o.Err != nil:
			s.log.Warn(ctx, "game computation failed",
				logger.String("game_id", o.Key), logger.Error(o.Err))
			s.games.Put(o.Key, model.GameRow{GameID: o.Key, Exclusion: model.ExcludeNoData}, false)
		default:
			// Feeds not yet published come back as empty games; cache them
			// under the failure TTL so the next query retries soon.
			s.games.Put(o.Key, o.Value, o.Value.Exclusion != model.ExcludeNoData)
			rows = append(rows, o.Value)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Service) playerBatches(ctx context.Context, lookbackDays int) ([]aggregate.PlayerBatch, error) {
	refs := s.index.Candidates(lookbackDays)
	batches := make([]aggregate.PlayerBatch, 0, len(refs))

	var tasks []pipeline.Task[aggregate.PlayerBatch]
	for _, ref := range refs {
		if e, ok := s.players.Get(ref.GameID); ok {
			if e.OK {
				batches = append(batches, e.Value)
			}
			continue
		}
		ref := ref
		tasks = append(tasks, pipeline.Task[aggregate.PlayerBatch]{
			Key: ref.GameID,
			Compute: func(ctx context.Context) (aggregate.PlayerBatch, error) {
				return s.computePlayers(ctx, ref)
			},
		})
	}

	for o := range pipeline.Run(ctx, tasks, s.pipelineOptions()...) {
		switch {
		case o.TimedOut:
			s.log.Warn(ctx, "player computation timed out", logger.String("game_id", o.Key))
		case o.Err != nil:
			s.log.Warn(ctx, "player computation failed",
				logger.String("game_id", o.Key), logger.Error(o.Err))
			s.players.Put(o.Key, aggregate.PlayerBatch{GameID: o.Key}, false)
		default:
			// A computed game with no clutch-active players is still final;
			// only a feed that published nothing gets the short retry TTL.
			s.players.Put(o.Key, o.Value, !o.Value.NoData)
			batches = append(batches, o.Value)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return batches, nil
}

func (s *Service) computeGame(ctx context.Context, ref model.GameRef) (model.GameRow, error) {
	events, err := s.feed.Events(ctx, ref.GameID)
	if err != nil {
		return model.GameRow{}, err
	}
	return aggregate.Game(aggregate.Input{
		GameID: ref.GameID,
		Date:   ref.Date,
		Away:   ref.Away,
		Home:   ref.Home,
		Events: events,
	}), nil
}

func (s *Service) computePlayers(ctx context.Context, ref model.GameRef) (aggregate.PlayerBatch, error) {
	events, markers, err := s.feed.PlayByPlay(ctx, ref.GameID)
	if err != nil {
		return aggregate.PlayerBatch{}, err
	}

	// Court time is best-effort: a game without usable lineups still gets
	// stat lines, just without clutch minutes.
	var clutchSeconds map[string]int
	if lineups, err := s.feed.Lineups(ctx, ref.GameID); err != nil {
		s.log.Debug(ctx, "lineups unavailable",
			logger.String("game_id", ref.GameID), logger.Error(err))
	} else {
		clutchSeconds = oncourt.ClutchSeconds(oncourt.NewLineups(lineups), markers)
	}

	return aggregate.Players(aggregate.Input{
		GameID: ref.GameID,
		Date:   ref.Date,
		Away:   ref.Away,
		Home:   ref.Home,
		Events: events,
	}, clutchSeconds), nil
}

func (s *Service) pipelineOptions() []pipeline.Option {
	opts := []pipeline.Option{pipeline.WithWorkers(s.workers)}
	if s.taskTimeout > 0 {
		opts = append(opts, pipeline.WithTaskTimeout(s.taskTimeout))
	}
	return opts
}

func normalizeMode(mode string) string {
	if mode == ModePoints {
		return ModePoints
	}
	return ModeRating
}

func scoreFor(mode string) func(model.PlayerRow) float64 {
	if mode == ModePoints {
		return func(p model.PlayerRow) float64 { return float64(p.Points) }
	}
	return func(p model.PlayerRow) float64 { return float64(p.Rating()) }
}

func cloneRows[T any](rows []T) []T {
	out := make([]T, len(rows))
	copy(out, rows)
	return out
}

// clonePlayerRows also duplicates the court-time pointer so a caller cannot
// reach back into a cached snapshot through it.
func clonePlayerRows(rows []model.PlayerRow) []model.PlayerRow {
	out := make([]model.PlayerRow, len(rows))
	copy(out, rows)
	for i := range out {
		if out[i].ClutchSeconds != nil {
			sec := *out[i].ClutchSeconds
			out[i].ClutchSeconds = &sec
		}
	}
	return out
}
