package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/NurlanMehdi/insider-champions-league/internal/league"
	"github.com/NurlanMehdi/insider-champions-league/internal/service"
)

// LeagueService is the part of *service.League the handlers call.
type LeagueService interface {
	Teams(ctx context.Context) ([]league.Team, error)
	UpdateTeam(ctx context.Context, id league.TeamID, name string, strength int) (league.Team, error)
	Initialize(ctx context.Context, teams []league.Team) error
	Reset(ctx context.Context) error

	Standings(ctx context.Context) (service.Snapshot, error)
	WeeklyResults(ctx context.Context, week int) ([]league.Match, error)
	Fixtures(ctx context.Context) (map[int][]league.Match, error)
	Progress(ctx context.Context) (service.Progress, error)
	CurrentWeek(ctx context.Context) (int, error)
	ChampionshipOdds(ctx context.Context, runs int) ([]league.Prediction, error)

	SimulateWeek(ctx context.Context, week int) ([]league.Match, error)
	SimulateAll(ctx context.Context) (int, error)
	SimulateAllFast(ctx context.Context) (int, error)
	PlayMatch(ctx context.Context, id int, s league.Score) (league.Match, error)
	UpdateMatchResult(ctx context.Context, id int, s league.Score) (league.Match, error)
}

type Handler struct {
	svc    LeagueService
	roster func() ([]league.Team, error)
	runs   int
	log    *slog.Logger
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeData(w, http.StatusOK, map[string]string{"status": "ok"})
}

// standings serves the table, the current week and the season forecast.
func (h *Handler) standings(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Standings(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeData(w, http.StatusOK, toStandings(snap))
}

func (h *Handler) teams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.svc.Teams(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	out := make([]teamDTO, len(teams))
	for i, t := range teams {
		out[i] = toTeam(t)
	}
	writeData(w, http.StatusOK, out)
}

func (h *Handler) updateTeam(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "teamId")
	if !ok {
		return
	}
	var req teamUpdateRequest
	if !decode(w, r, &req) {
		return
	}
	t, err := h.svc.UpdateTeam(r.Context(), league.TeamID(id), req.Name, req.Strength)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeData(w, http.StatusOK, toTeam(t))
}

func (h *Handler) week(w http.ResponseWriter, r *http.Request) {
	week, ok := pathInt(w, r, "week")
	if !ok {
		return
	}
	matches, err := h.svc.WeeklyResults(r.Context(), week)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	names, err := h.names(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"week": week, "matches": toMatches(matches, names)})
}

func (h *Handler) fixtures(w http.ResponseWriter, r *http.Request) {
	byWeek, err := h.svc.Fixtures(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	names, err := h.names(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	out := make(map[string][]matchDTO, len(byWeek))
	for week, ms := range byWeek {
		out[strconv.Itoa(week)] = toMatches(ms, names)
	}
	writeData(w, http.StatusOK, out)
}

func (h *Handler) progress(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Progress(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeData(w, http.StatusOK, toProgress(p))
}

// maxRunsFactor bounds ?runs= relative to the configured run count.
const maxRunsFactor = 100

// odds accepts an optional ?runs= override of the configured run count.
func (h *Handler) odds(w http.ResponseWriter, r *http.Request) {
	runs := h.runs
	if v := r.URL.Query().Get("runs"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "BAD_REQUEST", "runs must be an integer")
			return
		}
		if limit := maxRunsFactor * h.runs; n > limit {
			writeError(w, http.StatusUnprocessableEntity, "INVALID_ARGUMENT", fmt.Sprintf("runs must be at most %d", limit))
			return
		}
		runs = n
	}
	preds, err := h.svc.ChampionshipOdds(r.Context(), runs)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	names, err := h.names(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	out := make([]oddsDTO, len(preds))
	for i, p := range preds {
		out[i] = oddsDTO{TeamID: int(p.Team), TeamName: names.Of(p.Team), Probability: p.Probability}
	}
	writeData(w, http.StatusOK, map[string]any{"runs": runs, "odds": out})
}

// simulateWeek plays the requested week, or the current one when the body
// and query carry none.
func (h *Handler) simulateWeek(w http.ResponseWriter, r *http.Request) {
	var req weekRequest
	if !decode(w, r, &req) {
		return
	}
	if v := r.URL.Query().Get("week"); v != "" && req.Week == 0 {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "BAD_REQUEST", "week must be an integer")
			return
		}
		req.Week = n
	}
	if req.Week == 0 {
		current, err := h.svc.CurrentWeek(r.Context())
		if err != nil {
			writeServiceError(w, h.log, err)
			return
		}
		req.Week = current
	}

	start := time.Now()
	matches, err := h.svc.SimulateWeek(r.Context(), req.Week)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	names, err := h.names(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{
		"message":        fmt.Sprintf("Week %d simulated successfully", req.Week),
		"week":           req.Week,
		"matches":        toMatches(matches, names),
		"execution_time": time.Since(start).Round(time.Millisecond).String(),
	})
}

// simulateAll plays out the season. ?mode=events goes match by match and
// publishes every result; the default bulk mode does not.
func (h *Handler) simulateAll(w http.ResponseWriter, r *http.Request) {
	run := h.svc.SimulateAllFast
	switch mode := r.URL.Query().Get("mode"); mode {
	case "", "fast":
	case "events":
		run = h.svc.SimulateAll
	default:
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", fmt.Sprintf("unknown mode %q", mode))
		return
	}

	start := time.Now()
	n, err := run(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	msg := fmt.Sprintf("All %d matches simulated successfully", n)
	if n == 0 {
		msg = "All matches have already been played"
	}
	writeData(w, http.StatusOK, map[string]any{
		"message":           msg,
		"matches_simulated": n,
		"execution_time":    time.Since(start).Round(time.Millisecond).String(),
	})
}

func (h *Handler) playMatch(w http.ResponseWriter, r *http.Request) {
	h.scoreMatch(w, r, h.svc.PlayMatch)
}

func (h *Handler) updateMatch(w http.ResponseWriter, r *http.Request) {
	h.scoreMatch(w, r, h.svc.UpdateMatchResult)
}

func (h *Handler) scoreMatch(w http.ResponseWriter, r *http.Request, apply func(context.Context, int, league.Score) (league.Match, error)) {
	id, ok := pathInt(w, r, "matchId")
	if !ok {
		return
	}
	var req scoreRequest
	if !decode(w, r, &req) {
		return
	}
	if req.HomeScore == nil || req.AwayScore == nil {
		writeError(w, http.StatusUnprocessableEntity, "INVALID_ARGUMENT", "home_score and away_score are required")
		return
	}
	m, err := apply(r.Context(), id, league.Score{Home: *req.HomeScore, Away: *req.AwayScore})
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	names, err := h.names(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeData(w, http.StatusOK, toMatch(m, names))
}

func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Reset(r.Context()); err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"message": "League reset successfully"})
}

// initialize seeds the posted roster, or the configured one for an empty body.
func (h *Handler) initialize(w http.ResponseWriter, r *http.Request) {
	var req initializeRequest
	if !decode(w, r, &req) {
		return
	}
	var teams []league.Team
	if len(req.Teams) == 0 {
		var err error
		if teams, err = h.roster(); err != nil {
			writeServiceError(w, h.log, err)
			return
		}
	} else {
		for _, t := range req.Teams {
			teams = append(teams, league.Team{ID: league.TeamID(t.ID), Name: t.Name, Strength: league.Strength(t.Strength)})
		}
	}
	if err := h.svc.Initialize(r.Context(), teams); err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	rules := league.RulesFor(len(teams))
	writeData(w, http.StatusCreated, map[string]any{
		"message": "League initialized successfully",
		"teams":   len(teams),
		"weeks":   rules.TotalMatchdays,
		"matches": rules.TotalMatches(),
	})
}

func (h *Handler) names(ctx context.Context) (league.Names, error) {
	teams, err := h.svc.Teams(ctx)
	if err != nil {
		return nil, err
	}
	return league.NamesOf(teams), nil
}

func pathInt(w http.ResponseWriter, r *http.Request, key string) (int, bool) {
	n, err := strconv.Atoi(mux.Vars(r)[key])
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", key+" must be an integer")
		return 0, false
	}
	return n, true
}

// decode reads an optional JSON body into v. An empty body leaves v unchanged.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body: "+err.Error())
	return false
}
