// Package memstore keeps teams and matches in process memory. It backs the
// CLI when no database is configured and the service tests.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/NurlanMehdi/insider-champions-league/internal/league"
)

type Store struct {
	mu      sync.RWMutex
	teams   map[league.TeamID]league.Team
	matches []league.Match
	byID    map[int]int
	nextID  int
}

func New() *Store {
	return &Store{
		teams:  make(map[league.TeamID]league.Team),
		byID:   make(map[int]int),
		nextID: 1,
	}
}

func (s *Store) Teams(_ context.Context) ([]league.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]league.Team, 0, len(s.teams))
	for _, t := range s.teams {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) Team(_ context.Context, id league.TeamID) (league.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.teams[id]
	if !ok {
		return league.Team{}, fmt.Errorf("team %d: %w", id, league.ErrNotFound)
	}
	return t, nil
}

func (s *Store) SaveTeams(_ context.Context, teams []league.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range teams {
		s.teams[t.ID] = t
	}
	return nil
}

func (s *Store) UpdateTeam(_ context.Context, t league.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.teams[t.ID]; !ok {
		return fmt.Errorf("team %d: %w", t.ID, league.ErrNotFound)
	}
	s.teams[t.ID] = t
	return nil
}

func (s *Store) DeleteTeams(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teams = make(map[league.TeamID]league.Team)
	return nil
}

func (s *Store) Matches(_ context.Context) ([]league.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]league.Match, len(s.matches))
	for i, m := range s.matches {
		out[i] = clone(m)
	}
	return out, nil
}

func (s *Store) MatchesByMatchday(_ context.Context, matchday int) ([]league.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []league.Match
	for _, m := range s.matches {
		if m.Matchday == matchday {
			out = append(out, clone(m))
		}
	}
	return out, nil
}

func (s *Store) Match(_ context.Context, id int) (league.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byID[id]
	if !ok {
		return league.Match{}, fmt.Errorf("match %d: %w", id, league.ErrNotFound)
	}
	return clone(s.matches[i]), nil
}

// CreateMatches stores unplayed matches for the fixtures and assigns ids in
// the given order.
func (s *Store) CreateMatches(_ context.Context, fixtures []league.Fixture) ([]league.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]league.Match, 0, len(fixtures))
	for _, f := range fixtures {
		m := league.Match{ID: s.nextID, Fixture: f}
		s.nextID++
		s.byID[m.ID] = len(s.matches)
		s.matches = append(s.matches, m)
		out = append(out, m)
	}
	return out, nil
}

// SaveResults writes score and kick-off time of each match. Either all
// matches are updated or none.
func (s *Store) SaveResults(_ context.Context, matches []league.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range matches {
		if _, ok := s.byID[m.ID]; !ok {
			return fmt.Errorf("match %d: %w", m.ID, league.ErrNotFound)
		}
	}
	for _, m := range matches {
		stored := &s.matches[s.byID[m.ID]]
		updated := clone(m)
		stored.Score, stored.PlayedAt = updated.Score, updated.PlayedAt
	}
	return nil
}

func (s *Store) DeleteMatches(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches = nil
	s.byID = make(map[int]int)
	s.nextID = 1
	return nil
}

func clone(m league.Match) league.Match {
	if m.Score != nil {
		s := *m.Score
		m.Score = &s
	}
	if m.PlayedAt != nil {
		at := *m.PlayedAt
		m.PlayedAt = &at
	}
	return m
}
