package league

import (
	"context"
	"fmt"
	"math"
	"sort"
)

// Prediction is a team's chance of winning the title, in percent.
type Prediction struct {
	Team        TeamID
	Probability float64
}

// ChampionshipOdds plays out the rest of the season runs times from the
// current results and counts how often each team finishes top.
func ChampionshipOdds(ctx context.Context, teams []Team, matches []Match, sim Simulator, runs int) ([]Prediction, error) {
	if runs < 1 {
		return nil, fmt.Errorf("%w: runs must be positive, got %d", ErrInvalidArgument, runs)
	}
	ids := make([]TeamID, len(teams))
	strengths := make(map[TeamID]Strength, len(teams))
	for i, t := range teams {
		ids[i] = t.ID
		strengths[t.ID] = t.Strength
	}

	var remaining []Fixture
	for _, m := range matches {
		if !m.Played() {
			remaining = append(remaining, m.Fixture)
		}
	}
	for _, f := range remaining {
		if _, ok := strengths[f.Home]; !ok {
			return nil, fmt.Errorf("%w: team %d", ErrNotFound, f.Home)
		}
		if _, ok := strengths[f.Away]; !ok {
			return nil, fmt.Errorf("%w: team %d", ErrNotFound, f.Away)
		}
	}

	// 1) seed every run from the current table
	base := Aggregate(matches)
	wins := make(map[TeamID]int, len(teams))
	for run := 0; run < runs; run++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		records := make(map[TeamID]TeamRecord, len(base))
		for id, r := range base {
			records[id] = r
		}
		// 2) simulate what is left and crown the leader
		for _, f := range remaining {
			fold(records, f, sim.Simulate(strengths[f.Home], strengths[f.Away]))
		}
		if len(ids) > 0 {
			wins[Standings(ids, records)[0]]++
		}
	}

	// 3) counts to percentages, best first
	preds := make([]Prediction, 0, len(teams))
	for _, id := range ids {
		p := float64(wins[id]) / float64(runs) * 100
		preds = append(preds, Prediction{Team: id, Probability: math.Round(p*100) / 100})
	}
	sort.SliceStable(preds, func(i, j int) bool {
		return preds[i].Probability > preds[j].Probability
	})
	return preds, nil
}
