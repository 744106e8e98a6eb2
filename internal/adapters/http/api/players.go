// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"fmt"
	"net/http"

	"github.com/asad/clutchboard/internal/app"
)

// PlayersHandler handles clutchest-player-games requests.
type PlayersHandler struct {
	deps Dependencies
}

// NewPlayersHandler creates a new players handler.
func NewPlayersHandler(deps Dependencies) *PlayersHandler {
	return &PlayersHandler{deps: deps}
}

// HandleTopPlayers handles GET /players/clutchest requests. Takes the shared
// query parameters plus rank=rating|points.
func (h *PlayersHandler) HandleTopPlayers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	q, err := queryFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	mode := r.URL.Query().Get("rank")
	switch mode {
	case "", app.ModeRating, app.ModePoints:
	default:
		writeError(w, http.StatusBadRequest, "bad_request",
			fmt.Errorf("%w: rank must be %q or %q", ErrBadRequest, app.ModeRating, app.ModePoints))
		return
	}

	rows, err := h.deps.TopPlayerGames(r.Context(), q, mode)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
