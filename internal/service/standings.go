package service

import (
	"context"
	"fmt"
	"math"

	"github.com/NurlanMehdi/insider-champions-league/internal/league"
)

// Snapshot is the league table at a point in the season together with the
// end-of-season forecast.
type Snapshot struct {
	Week        int
	Table       []league.Standing
	Predictions []league.Projection
	Names       league.Names
}

// Progress reports how far the season has advanced.
type Progress struct {
	Total       int
	Played      int
	CurrentWeek int
	TotalWeeks  int
	Complete    bool
}

func (p Progress) Unplayed() int { return p.Total - p.Played }

// Percentage is rounded to one decimal place.
func (p Progress) Percentage() float64 {
	if p.Total == 0 {
		return 0
	}
	return math.Round(float64(p.Played)/float64(p.Total)*1000) / 10
}

// Records returns the aggregated record of every team that has played. The
// result is memoised until the next result change and must not be modified.
func (l *League) Records(ctx context.Context) (map[league.TeamID]league.TeamRecord, error) {
	version := l.version.Load()

	l.cacheMu.Lock()
	if l.cache.valid && l.cache.version == version {
		records := l.cache.records
		l.cacheMu.Unlock()
		return records, nil
	}
	l.cacheMu.Unlock()

	matches, err := l.matches.Matches(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading matches: %w", err)
	}
	records := league.Aggregate(matches)

	l.cacheMu.Lock()
	// a concurrent write may have bumped the version while we were loading
	if version == l.version.Load() {
		l.cache = recordCache{valid: true, version: version, records: records}
	}
	l.cacheMu.Unlock()
	return records, nil
}

// Standings builds the table for every team, including those without a
// played match, and the projected final table.
func (l *League) Standings(ctx context.Context) (Snapshot, error) {
	rules, teams, err := l.rules(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	records, err := l.Records(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	played := 0
	for _, r := range records {
		played += r.Played
	}

	ids := make([]league.TeamID, len(teams))
	inputs := make([]league.ProjectionInput, len(teams))
	for i, t := range teams {
		ids[i] = t.ID
		inputs[i] = league.ProjectionInput{Team: t.ID, Record: records[t.ID], Strength: t.Strength}
	}
	return Snapshot{
		// every match adds a played count to both teams
		Week:        rules.Clock().CurrentMatchday(played / 2),
		Table:       league.Table(ids, records),
		Predictions: league.ProjectSeason(inputs, rules.MatchesPerTeam),
		Names:       league.NamesOf(teams),
	}, nil
}

// WeeklyResults returns the matches of a matchday, played or not.
func (l *League) WeeklyResults(ctx context.Context, week int) ([]league.Match, error) {
	rules, _, err := l.rules(ctx)
	if err != nil {
		return nil, err
	}
	if week < 1 || week > rules.TotalMatchdays {
		return nil, fmt.Errorf("%w: week must be between 1 and %d, got %d", league.ErrInvalidArgument, rules.TotalMatchdays, week)
	}
	return l.matches.MatchesByMatchday(ctx, week)
}

// Fixtures returns every match of the season grouped by matchday.
func (l *League) Fixtures(ctx context.Context) (map[int][]league.Match, error) {
	matches, err := l.matches.Matches(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading matches: %w", err)
	}
	out := make(map[int][]league.Match)
	for _, m := range matches {
		out[m.Matchday] = append(out[m.Matchday], m)
	}
	return out, nil
}

func (l *League) Progress(ctx context.Context) (Progress, error) {
	rules, _, err := l.rules(ctx)
	if err != nil {
		return Progress{}, err
	}
	matches, err := l.matches.Matches(ctx)
	if err != nil {
		return Progress{}, fmt.Errorf("loading matches: %w", err)
	}
	played := 0
	for _, m := range matches {
		if m.Played() {
			played++
		}
	}
	clock := rules.Clock()
	return Progress{
		Total:       len(matches),
		Played:      played,
		CurrentWeek: clock.CurrentMatchday(played),
		TotalWeeks:  rules.TotalMatchdays,
		Complete:    len(matches) > 0 && clock.IsSeasonComplete(played),
	}, nil
}

// CurrentWeek is the matchday the next simulation should play.
func (l *League) CurrentWeek(ctx context.Context) (int, error) {
	p, err := l.Progress(ctx)
	if err != nil {
		return 0, err
	}
	return p.CurrentWeek, nil
}

// ChampionshipOdds estimates title chances by playing out the rest of the
// season runs times from the current results.
func (l *League) ChampionshipOdds(ctx context.Context, runs int) ([]league.Prediction, error) {
	teams, err := l.teams.Teams(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading teams: %w", err)
	}
	matches, err := l.matches.Matches(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading matches: %w", err)
	}
	return league.ChampionshipOdds(ctx, teams, matches, l.sim, runs)
}
