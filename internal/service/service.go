// Package service runs a league season on top of the team and match
// repositories: fixture generation, simulation, result entry and the
// standings read model.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/NurlanMehdi/insider-champions-league/internal/league"
)

type TeamRepository interface {
	Teams(ctx context.Context) ([]league.Team, error)
	Team(ctx context.Context, id league.TeamID) (league.Team, error)
	SaveTeams(ctx context.Context, teams []league.Team) error
	UpdateTeam(ctx context.Context, t league.Team) error
	DeleteTeams(ctx context.Context) error
}

type MatchRepository interface {
	Matches(ctx context.Context) ([]league.Match, error)
	MatchesByMatchday(ctx context.Context, matchday int) ([]league.Match, error)
	Match(ctx context.Context, id int) (league.Match, error)
	CreateMatches(ctx context.Context, fixtures []league.Fixture) ([]league.Match, error)
	SaveResults(ctx context.Context, matches []league.Match) error
	DeleteMatches(ctx context.Context) error
}

// Config carries the optional collaborators of a League.
type Config struct {
	// Notifier receives a MatchPlayed event for every result once it has
	// been stored. May be nil.
	Notifier league.Notifier
	Bulk     league.BulkOptions
	// Now defaults to time.Now.
	Now func() time.Time
}

// League is the application service for a single season.
type League struct {
	teams   TeamRepository
	matches MatchRepository
	sim     league.Simulator
	cfg     Config
	log     *slog.Logger

	// writes serialises operations that change results or the roster.
	writes sync.Mutex

	version atomic.Uint64
	cacheMu sync.Mutex
	cache   recordCache
}

type recordCache struct {
	valid   bool
	version uint64
	records map[league.TeamID]league.TeamRecord
}

func New(teams TeamRepository, matches MatchRepository, sim league.Simulator, cfg Config, logger *slog.Logger) *League {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &League{
		teams:   teams,
		matches: matches,
		sim:     sim,
		cfg:     cfg,
		log:     logger.With("component", "league-service"),
	}
}

// pending holds events until the results they describe are saved.
type pending []league.MatchPlayed

func (p *pending) MatchPlayed(ev league.MatchPlayed) { *p = append(*p, ev) }

// publish invalidates cached records and forwards saved results.
func (l *League) publish(evs pending) {
	l.invalidate()
	if l.cfg.Notifier == nil {
		return
	}
	for _, ev := range evs {
		l.cfg.Notifier.MatchPlayed(ev)
	}
}

func (l *League) invalidate() { l.version.Add(1) }

// Initialize replaces the roster and builds a fresh season for it.
func (l *League) Initialize(ctx context.Context, teams []league.Team) error {
	if err := league.ValidateRoster(teams); err != nil {
		return err
	}
	l.writes.Lock()
	defer l.writes.Unlock()
	defer l.invalidate()

	if err := l.matches.DeleteMatches(ctx); err != nil {
		return fmt.Errorf("clearing matches: %w", err)
	}
	if err := l.teams.DeleteTeams(ctx); err != nil {
		return fmt.Errorf("clearing teams: %w", err)
	}
	if err := l.teams.SaveTeams(ctx, teams); err != nil {
		return fmt.Errorf("saving teams: %w", err)
	}
	return l.generateFixtures(ctx)
}

// Reset discards every match and regenerates the fixtures for the current roster.
func (l *League) Reset(ctx context.Context) error {
	l.writes.Lock()
	defer l.writes.Unlock()
	defer l.invalidate()

	if err := l.matches.DeleteMatches(ctx); err != nil {
		return fmt.Errorf("clearing matches: %w", err)
	}
	return l.generateFixtures(ctx)
}

func (l *League) generateFixtures(ctx context.Context) error {
	teams, err := l.teams.Teams(ctx)
	if err != nil {
		return fmt.Errorf("loading teams: %w", err)
	}
	ids := make([]league.TeamID, len(teams))
	for i, t := range teams {
		ids[i] = t.ID
	}
	season, err := league.GenerateSchedule(ids)
	if err != nil {
		return err
	}
	created, err := l.matches.CreateMatches(ctx, season.Fixtures())
	if err != nil {
		return fmt.Errorf("saving fixtures: %w", err)
	}
	l.log.Info("fixtures generated", "teams", len(teams), "matchdays", len(season), "matches", len(created))
	return nil
}

// UpdateTeam renames a team and/or changes its strength. Empty name and zero
// strength leave the field as is.
func (l *League) UpdateTeam(ctx context.Context, id league.TeamID, name string, strength int) (league.Team, error) {
	l.writes.Lock()
	defer l.writes.Unlock()

	t, err := l.teams.Team(ctx, id)
	if err != nil {
		return league.Team{}, err
	}
	if name != "" {
		if err := t.Rename(name); err != nil {
			return league.Team{}, err
		}
	}
	if strength != 0 {
		if err := t.ChangeStrength(league.Strength(strength)); err != nil {
			return league.Team{}, err
		}
	}
	if err := l.teams.UpdateTeam(ctx, t); err != nil {
		return league.Team{}, err
	}
	return t, nil
}

func (l *League) Teams(ctx context.Context) ([]league.Team, error) {
	return l.teams.Teams(ctx)
}

func (l *League) rules(ctx context.Context) (league.Rules, []league.Team, error) {
	teams, err := l.teams.Teams(ctx)
	if err != nil {
		return league.Rules{}, nil, fmt.Errorf("loading teams: %w", err)
	}
	return league.RulesFor(len(teams)), teams, nil
}

func strengthsOf(teams []league.Team) map[league.TeamID]league.Strength {
	out := make(map[league.TeamID]league.Strength, len(teams))
	for _, t := range teams {
		out[t.ID] = t.Strength
	}
	return out
}
