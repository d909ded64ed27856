package league

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

// BulkOptions tunes SimulateBatches.
type BulkOptions struct {
	Workers   int
	BatchSize int
}

func (o BulkOptions) withDefaults() BulkOptions {
	if o.Workers < 1 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.BatchSize < 1 {
		o.BatchSize = 50
	}
	return o
}

// SimulateBatches plays every unplayed match in batches. Matches inside a
// batch are simulated concurrently; each finished batch is handed to sink
// before the next one starts, so memory stays bounded by the batch size.
// No MatchPlayed events are emitted; callers recompute records afterwards.
// With a Splitter the results depend only on its state, not on scheduling.
//
// On cancellation no further batches are started. Batches already passed to
// sink are complete and consistent. The returned count covers those batches.
func SimulateBatches(
	ctx context.Context,
	matches []Match,
	strengths map[TeamID]Strength,
	sim Simulator,
	opts BulkOptions,
	at time.Time,
	sink func([]Match) error,
) (int, error) {
	opts = opts.withDefaults()

	pending := make([]Match, 0, len(matches))
	for _, m := range matches {
		if !m.Played() {
			pending = append(pending, m)
		}
	}

	done := 0
	for start := 0; start < len(pending); start += opts.BatchSize {
		if err := ctx.Err(); err != nil {
			return done, err
		}
		end := min(start+opts.BatchSize, len(pending))
		batch := pending[start:end]

		sims := split(sim, len(batch))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(opts.Workers)
		for i := range batch {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				return simulateOne(&batch[i], strengths, sims[i], at)
			})
		}
		if err := g.Wait(); err != nil {
			return done, err
		}

		if sink != nil {
			if err := sink(batch); err != nil {
				return done, fmt.Errorf("storing batch %d-%d: %w", start, end, err)
			}
		}
		done += len(batch)
	}
	return done, nil
}

// split gives every match of a batch its own simulator, taken in match
// order, when sim supports it.
func split(sim Simulator, n int) []Simulator {
	out := make([]Simulator, n)
	sp, ok := sim.(Splitter)
	for i := range out {
		if ok {
			out[i] = sp.Split()
		} else {
			out[i] = sim
		}
	}
	return out
}

func simulateOne(m *Match, strengths map[TeamID]Strength, sim Simulator, at time.Time) error {
	home, ok := strengths[m.Home]
	if !ok {
		return fmt.Errorf("%w: strength for team %d", ErrNotFound, m.Home)
	}
	away, ok := strengths[m.Away]
	if !ok {
		return fmt.Errorf("%w: strength for team %d", ErrNotFound, m.Away)
	}
	return m.Play(sim.Simulate(home, away), at, nil)
}
