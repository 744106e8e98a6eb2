// Package index loads the season game index from CSV and answers
// "which games were played in the last N game days".
package index

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/asad/clutchboard/internal/domain/model"
	"github.com/asad/clutchboard/internal/domain/oncourt"
)

// Expected column order: game id, date, away tricode, home tricode.
// Extra columns are ignored.
const (
	colGameID  = 0
	colDate    = 1
	colAway    = 2
	colHome    = 3
	minColumns = 4
)

var dateLayouts = []string{"2006-01-02", "Jan 2 2006", "Jan 2, 2006"}

// Index is an in-memory season game index sorted newest first.
type Index struct {
	games []model.GameRef
	now   func() time.Time
}

// Option applies a configuration option to the Index.
type Option func(*Index)

// WithNow overrides the wall clock (used by tests).
func WithNow(now func() time.Time) Option {
	return func(i *Index) {
		if now != nil {
			i.now = now
		}
	}
}

// Load reads a season index CSV from disk.
func Load(path string, opts ...Option) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open game index: %w", err)
	}
	defer f.Close()
	return Parse(f, opts...)
}

// Parse reads a season index CSV. Rows with too few columns or an
// unparseable date (including the header row) are skipped, as are games
// dated in the future.
func Parse(r io.Reader, opts ...Option) (*Index, error) {
	idx := &Index{now: time.Now}
	for _, opt := range opts {
		opt(idx)
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read game index: %w", err)
	}

	today := idx.now().Truncate(24 * time.Hour)
	for _, rec := range records {
		if len(rec) < minColumns {
			continue
		}
		playedOn, ok := parseDate(rec[colDate])
		if !ok {
			continue
		}
		if playedOn.After(today) {
			continue
		}
		idx.games = append(idx.games, model.GameRef{
			GameID:   model.NormalizeGameID(rec[colGameID]),
			Date:     playedOn.Format("2006-01-02"),
			Away:     oncourt.NormalizeTeam(rec[colAway]),
			Home:     oncourt.NormalizeTeam(rec[colHome]),
			PlayedOn: playedOn,
		})
	}

	sort.SliceStable(idx.games, func(a, b int) bool {
		if !idx.games[a].PlayedOn.Equal(idx.games[b].PlayedOn) {
			return idx.games[a].PlayedOn.After(idx.games[b].PlayedOn)
		}
		return idx.games[a].GameID < idx.games[b].GameID
	})
	return idx, nil
}

// Len returns the number of indexed games.
func (i *Index) Len() int { return len(i.games) }

// Candidates returns games from the most recent lookbackDays distinct game
// dates, newest first. lookbackDays <= 0 returns every indexed game.
func (i *Index) Candidates(lookbackDays int) []model.GameRef {
	if lookbackDays <= 0 {
		out := make([]model.GameRef, len(i.games))
		copy(out, i.games)
		return out
	}

	var out []model.GameRef
	seen := make(map[string]bool, lookbackDays)
	for _, g := range i.games {
		if !seen[g.Date] {
			if len(seen) == lookbackDays {
				break
			}
			seen[g.Date] = true
		}
		out = append(out, g)
	}
	return out
}

func parseDate(raw string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
