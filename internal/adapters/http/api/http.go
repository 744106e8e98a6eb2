// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/asad/clutchboard/internal/adapters/directory"
	"github.com/asad/clutchboard/internal/app"
	"github.com/asad/clutchboard/internal/domain/model"
	"github.com/asad/clutchboard/pkg/metrics"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// TopGames returns the top-N games by clutchiness for the query window.
	TopGames(ctx context.Context, q app.Query) ([]model.GameRow, error)

	// TopPlayerGames returns the top-N player stat lines for the query window.
	TopPlayerGames(ctx context.Context, q app.Query, mode string) ([]model.PlayerRow, error)

	// SearchTeam resolves a team name through the directory.
	SearchTeam(ctx context.Context, name string) (*directory.Team, error)
}

// StatsProvider exposes service internals for the stats endpoint.
type StatsProvider interface {
	Stats() app.Stats
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	gamesHandler   *GamesHandler
	playersHandler *PlayersHandler
	teamsHandler   *TeamsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		gamesHandler:   NewGamesHandler(deps),
		playersHandler: NewPlayersHandler(deps),
		teamsHandler:   NewTeamsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/games/clutchest", MetricsMiddleware(s.gamesHandler.HandleTopGames, "games_clutchest"))
	mux.HandleFunc("/players/clutchest", MetricsMiddleware(s.playersHandler.HandleTopPlayers, "players_clutchest"))
	mux.HandleFunc("/teams/search", MetricsMiddleware(s.teamsHandler.HandleSearch, "teams_search"))
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
