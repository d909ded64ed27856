package service

import (
	"context"
	"fmt"
	"time"

	"github.com/NurlanMehdi/insider-champions-league/internal/league"
)

// SimulateWeek plays every unplayed match of the matchday and returns the
// matchday's matches.
func (l *League) SimulateWeek(ctx context.Context, week int) ([]league.Match, error) {
	rules, teams, err := l.rules(ctx)
	if err != nil {
		return nil, err
	}
	if week < 1 || week > rules.TotalMatchdays {
		return nil, fmt.Errorf("%w: week must be between 1 and %d, got %d", league.ErrInvalidArgument, rules.TotalMatchdays, week)
	}

	l.writes.Lock()
	defer l.writes.Unlock()
	defer l.invalidate()

	matches, err := l.matches.MatchesByMatchday(ctx, week)
	if err != nil {
		return nil, fmt.Errorf("loading week %d: %w", week, err)
	}
	var evs pending
	played, err := l.playAll(matches, strengthsOf(teams), l.cfg.Now(), &evs)
	if err != nil {
		return nil, err
	}
	if err := l.matches.SaveResults(ctx, played); err != nil {
		return nil, fmt.Errorf("saving week %d: %w", week, err)
	}
	l.publish(evs)
	l.log.Info("week simulated", "week", week, "matches", len(played))
	return matches, nil
}

// SimulateAll plays the rest of the season match by match, emitting a
// MatchPlayed event for each one, and stores results batch by batch.
// It stops between batches when ctx is cancelled; stored batches remain.
func (l *League) SimulateAll(ctx context.Context) (int, error) {
	_, teams, err := l.rules(ctx)
	if err != nil {
		return 0, err
	}

	l.writes.Lock()
	defer l.writes.Unlock()

	all, err := l.matches.Matches(ctx)
	if err != nil {
		return 0, fmt.Errorf("loading matches: %w", err)
	}
	var unplayed []league.Match
	for _, m := range all {
		if !m.Played() {
			unplayed = append(unplayed, m)
		}
	}

	strengths := strengthsOf(teams)
	batchSize := max(1, l.cfg.Bulk.BatchSize)
	done := 0
	for start := 0; start < len(unplayed); start += batchSize {
		if err := ctx.Err(); err != nil {
			return done, err
		}
		batch := unplayed[start:min(start+batchSize, len(unplayed))]
		var evs pending
		played, err := l.playAll(batch, strengths, l.cfg.Now(), &evs)
		if err != nil {
			return done, err
		}
		if err := l.matches.SaveResults(ctx, played); err != nil {
			return done, fmt.Errorf("saving results: %w", err)
		}
		l.publish(evs)
		done += len(played)
	}
	l.log.Info("season simulated", "matches", done)
	return done, nil
}

// SimulateAllFast plays the rest of the season concurrently without
// per-match events. Records are rebuilt from the stored matches on the next
// read, which gives the same table as SimulateAll because aggregation is a
// pure fold over all results.
func (l *League) SimulateAllFast(ctx context.Context) (int, error) {
	_, teams, err := l.rules(ctx)
	if err != nil {
		return 0, err
	}

	l.writes.Lock()
	defer l.writes.Unlock()
	defer l.invalidate()

	all, err := l.matches.Matches(ctx)
	if err != nil {
		return 0, fmt.Errorf("loading matches: %w", err)
	}
	start := time.Now()
	n, err := league.SimulateBatches(ctx, all, strengthsOf(teams), l.sim, l.cfg.Bulk, l.cfg.Now(), func(batch []league.Match) error {
		return l.matches.SaveResults(ctx, batch)
	})
	if err != nil {
		l.log.Warn("bulk simulation stopped", "matches", n, "error", err)
		return n, err
	}
	l.log.Info("season simulated", "matches", n, "mode", "bulk", "duration", time.Since(start))
	return n, nil
}

// PlayMatch records the first result of a match.
func (l *League) PlayMatch(ctx context.Context, id int, s league.Score) (league.Match, error) {
	return l.withMatch(ctx, id, func(m *league.Match, at time.Time, n league.Notifier) error {
		return m.Play(s, at, n)
	})
}

// UpdateMatchResult overwrites the result of a match, played or not.
func (l *League) UpdateMatchResult(ctx context.Context, id int, s league.Score) (league.Match, error) {
	return l.withMatch(ctx, id, func(m *league.Match, at time.Time, n league.Notifier) error {
		return m.Correct(s, at, n)
	})
}

func (l *League) withMatch(ctx context.Context, id int, fn func(*league.Match, time.Time, league.Notifier) error) (league.Match, error) {
	l.writes.Lock()
	defer l.writes.Unlock()
	defer l.invalidate()

	m, err := l.matches.Match(ctx, id)
	if err != nil {
		return league.Match{}, err
	}
	var evs pending
	if err := fn(&m, l.cfg.Now(), &evs); err != nil {
		return league.Match{}, err
	}
	if err := l.matches.SaveResults(ctx, []league.Match{m}); err != nil {
		return league.Match{}, fmt.Errorf("saving match %d: %w", id, err)
	}
	l.publish(evs)
	return m, nil
}

// playAll simulates and plays the unplayed matches in place and returns
// copies of those it played. Events go to n, which the caller flushes once
// the results are saved.
func (l *League) playAll(matches []league.Match, strengths map[league.TeamID]league.Strength, at time.Time, n league.Notifier) ([]league.Match, error) {
	var played []league.Match
	for i := range matches {
		m := &matches[i]
		if m.Played() {
			continue
		}
		home, ok := strengths[m.Home]
		if !ok {
			return nil, fmt.Errorf("team %d: %w", m.Home, league.ErrNotFound)
		}
		away, ok := strengths[m.Away]
		if !ok {
			return nil, fmt.Errorf("team %d: %w", m.Away, league.ErrNotFound)
		}
		if err := m.Play(l.sim.Simulate(home, away), at, n); err != nil {
			return nil, err
		}
		played = append(played, *m)
	}
	return played, nil
}
