// Command clutchtop queries a running clutchboard service and renders the
// top-N tables in the terminal.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/asad/clutchboard/internal/domain/model"
)

func main() {
	var (
		addr    = flag.String("addr", "http://localhost:8080", "clutchboard base URL")
		view    = flag.String("view", "games", "what to rank: games or players")
		days    = flag.Int("days", -1, "lookback game dates (0 scans the whole season, unset uses the service default)")
		top     = flag.Int("top", 0, "result size (0 uses the service default)")
		close_  = flag.Int("close", 7, "closeness gate in points (0 disables)")
		rankBy  = flag.String("rank", "rating", "player ranking mode: rating or points")
		timeout = flag.Duration("timeout", 60*time.Second, "request timeout")
	)
	flag.Parse()

	client := &http.Client{Timeout: *timeout}

	var err error
	switch *view {
	case "games":
		err = showGames(client, *addr, *days, *top, *close_)
	case "players":
		err = showPlayers(client, *addr, *days, *top, *close_, *rankBy)
	default:
		err = fmt.Errorf("unknown view %q (want games or players)", *view)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "clutchtop:", err)
		os.Exit(1)
	}
}

func showGames(client *http.Client, addr string, days, top, closePoints int) error {
	var rows []model.GameRow
	if err := getJSON(client, endpoint(addr, "/games/clutchest", days, top, closePoints, ""), &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("(no qualifying games)")
		return nil
	}

	table := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	table.Header("#", "DATE", "MATCHUP", "SCORE", "LC", "TIES", "PTS", "FINAL")
	for i, g := range rows {
		table.Append(
			strconv.Itoa(i+1),
			g.Date,
			g.Away+" @ "+g.Home,
			fmt.Sprintf("%.1f", g.ClutchinessScore),
			strconv.Itoa(g.LeadChanges),
			strconv.Itoa(g.Ties),
			strconv.Itoa(g.ClutchPoints),
			g.FinalScore,
		)
	}
	table.Render()
	return nil
}

func showPlayers(client *http.Client, addr string, days, top, closePoints int, rankBy string) error {
	var rows []model.PlayerRow
	if err := getJSON(client, endpoint(addr, "/players/clutchest", days, top, closePoints, rankBy), &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("(no qualifying player games)")
		return nil
	}

	table := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	table.Header("#", "PLAYER", "DATE", "PTS", "AST", "STL", "BLK", "TOV", "RATING", "MIN", "FINAL")
	for i, p := range rows {
		mins := p.ClutchMinutes()
		if mins == "" {
			mins = "—"
		}
		table.Append(
			strconv.Itoa(i+1),
			p.DisplayName(),
			p.Date,
			strconv.Itoa(p.Points),
			strconv.Itoa(p.Assists),
			strconv.Itoa(p.Steals),
			strconv.Itoa(p.Blocks),
			strconv.Itoa(p.Turnovers),
			strconv.Itoa(p.Rating()),
			mins,
			p.FinalScore,
		)
	}
	table.Render()
	return nil
}

func endpoint(addr, path string, days, top, closePoints int, rankBy string) string {
	q := url.Values{}
	if days >= 0 {
		q.Set("days", strconv.Itoa(days))
	}
	if top != 0 {
		q.Set("top", strconv.Itoa(top))
	}
	q.Set("close_points", strconv.Itoa(closePoints))
	if rankBy != "" {
		q.Set("rank", rankBy)
	}
	return addr + path + "?" + q.Encode()
}

func getJSON(client *http.Client, url string, v any) error {
	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}
