// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/asad/clutchboard/internal/adapters/directory"
	"github.com/asad/clutchboard/internal/app"
)

// TeamsHandler handles team directory lookups.
type TeamsHandler struct {
	deps Dependencies
}

// NewTeamsHandler creates a new teams handler.
func NewTeamsHandler(deps Dependencies) *TeamsHandler {
	return &TeamsHandler{deps: deps}
}

// HandleSearch handles GET /teams/search?name=... requests.
func (h *TeamsHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "bad_request",
			fmt.Errorf("%w: missing name", ErrBadRequest))
		return
	}

	team, err := h.deps.SearchTeam(r.Context(), name)
	switch {
	case errors.Is(err, directory.ErrTeamNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, app.ErrNoDirectory):
		writeError(w, http.StatusNotImplemented, "not_configured", err)
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	default:
		writeJSON(w, http.StatusOK, team)
	}
}
