// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/asad/clutchboard/internal/app"
	"github.com/asad/clutchboard/internal/domain/clutch"
)

// GamesHandler handles clutchest-games requests.
type GamesHandler struct {
	deps Dependencies
}

// NewGamesHandler creates a new games handler.
func NewGamesHandler(deps Dependencies) *GamesHandler {
	return &GamesHandler{deps: deps}
}

// HandleTopGames handles GET /games/clutchest requests.
// Query parameters: days (lookback game dates, 0 scans the whole season),
// top (result size), close_points (closeness gate, 0 disables).
func (h *GamesHandler) HandleTopGames(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	q, err := queryFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	rows, err := h.deps.TopGames(r.Context(), q)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// queryFromRequest parses the shared query parameters of both top-N routes.
// An absent days falls back to the standard lookback while an explicit
// days=0 scans the whole season; close_points defaults to the standard
// closeness gate rather than "no filter".
func queryFromRequest(r *http.Request) (app.Query, error) {
	var q app.Query
	var err error
	if q.LookbackDays, err = intParam(r, "days", app.DefaultLookbackDays); err != nil {
		return app.Query{}, err
	}
	if q.TopN, err = intParam(r, "top", 0); err != nil {
		return app.Query{}, err
	}
	if q.ClosePoints, err = intParam(r, "close_points", clutch.DefaultCloseThreshold); err != nil {
		return app.Query{}, err
	}
	return q, nil
}

func intParam(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", ErrBadRequest, name)
	}
	return v, nil
}
