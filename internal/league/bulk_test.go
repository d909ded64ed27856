package league

import (
	"context"
	"errors"
	"reflect"
	"sync/atomic"
	"testing"
	"time"
)

// ratingSimulator derives the score from the ratings alone so results do not
// depend on scheduling order.
type ratingSimulator struct{ calls atomic.Int64 }

func (r *ratingSimulator) Simulate(home, away Strength) Score {
	r.calls.Add(1)
	return Score{Home: int(home) % 4, Away: int(away) % 3}
}

func seasonMatches(t *testing.T, n int) ([]Match, map[TeamID]Strength) {
	t.Helper()
	season, err := GenerateSchedule(teamIDs(n))
	if err != nil {
		t.Fatalf("GenerateSchedule failed: %v", err)
	}
	var matches []Match
	for i, f := range season.Fixtures() {
		matches = append(matches, Match{ID: i + 1, Fixture: f})
	}
	strengths := make(map[TeamID]Strength, n)
	for i, id := range teamIDs(n) {
		strengths[id] = Strength(60 + i)
	}
	return matches, strengths
}

func TestSimulateBatches(t *testing.T) {
	matches, strengths := seasonMatches(t, 20)
	// first matchday already played
	for i := 0; i < 10; i++ {
		s := Score{5, 5}
		matches[i].Score = &s
	}

	sim := &ratingSimulator{}
	at := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	var stored []Match
	sink := func(batch []Match) error {
		if len(batch) > 7 {
			t.Errorf("batch of %d exceeds batch size", len(batch))
		}
		stored = append(stored, batch...)
		return nil
	}

	n, err := SimulateBatches(context.Background(), matches, strengths, sim, BulkOptions{Workers: 4, BatchSize: 7}, at, sink)
	if err != nil {
		t.Fatalf("SimulateBatches failed: %v", err)
	}
	if n != 370 || len(stored) != 370 || sim.calls.Load() != 370 {
		t.Fatalf("simulated %d, stored %d, calls %d; want 370", n, len(stored), sim.calls.Load())
	}
	for _, m := range stored {
		want := sim.Simulate(strengths[m.Home], strengths[m.Away])
		if !m.Played() || *m.Score != want || !m.PlayedAt.Equal(at) {
			t.Fatalf("match %d: got %v, want %v", m.ID, m.Score, want)
		}
	}
	for i := 0; i < 10; i++ {
		if *matches[i].Score != (Score{5, 5}) {
			t.Fatalf("played match %d was resimulated", matches[i].ID)
		}
	}
	if matches[10].Played() {
		t.Fatalf("input slice was modified")
	}
}

func TestSimulateBatchesMatchesSequentialFold(t *testing.T) {
	matches, strengths := seasonMatches(t, 6)
	sim := &ratingSimulator{}

	var bulk []Match
	_, err := SimulateBatches(context.Background(), matches, strengths, sim, BulkOptions{Workers: 3, BatchSize: 4}, time.Now(), func(b []Match) error {
		bulk = append(bulk, b...)
		return nil
	})
	if err != nil {
		t.Fatalf("SimulateBatches failed: %v", err)
	}

	sequential := append([]Match(nil), matches...)
	for i := range sequential {
		m := &sequential[i]
		if err := m.Play(sim.Simulate(strengths[m.Home], strengths[m.Away]), time.Now(), nil); err != nil {
			t.Fatalf("Play failed: %v", err)
		}
	}
	if !reflect.DeepEqual(Aggregate(bulk), Aggregate(sequential)) {
		t.Fatalf("bulk and sequential records differ")
	}
}

func TestSimulateBatchesCancelled(t *testing.T) {
	matches, strengths := seasonMatches(t, 8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	batches := 0
	n, err := SimulateBatches(ctx, matches, strengths, &ratingSimulator{}, BulkOptions{Workers: 2, BatchSize: 10}, time.Now(), func(b []Match) error {
		batches++
		cancel()
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if batches != 1 || n != 10 {
		t.Fatalf("expected one finished batch of 10, got %d batches and %d matches", batches, n)
	}
}

func TestSimulateBatchesUnknownTeam(t *testing.T) {
	matches, strengths := seasonMatches(t, 4)
	delete(strengths, 3)
	_, err := SimulateBatches(context.Background(), matches, strengths, &ratingSimulator{}, BulkOptions{}, time.Now(), nil)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSimulateBatchesSinkError(t *testing.T) {
	matches, strengths := seasonMatches(t, 4)
	boom := errors.New("disk full")
	_, err := SimulateBatches(context.Background(), matches, strengths, &ratingSimulator{}, BulkOptions{BatchSize: 5}, time.Now(), func([]Match) error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected sink error, got %v", err)
	}
}

func TestSimulateBatchesSeededIsReproducible(t *testing.T) {
	run := func() []Match {
		matches, strengths := seasonMatches(t, 20)
		var out []Match
		_, err := SimulateBatches(context.Background(), matches, strengths, NewSeededSimulator(42), BulkOptions{Workers: 8, BatchSize: 50}, time.Time{}, func(b []Match) error {
			out = append(out, b...)
			return nil
		})
		if err != nil {
			t.Fatalf("SimulateBatches failed: %v", err)
		}
		return out
	}

	first := run()
	for i := 0; i < 10; i++ {
		if got := run(); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differs from the first run with the same seed", i+2)
		}
	}
}
