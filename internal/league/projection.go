package league

import (
	"math"
	"sort"
)

// Projection is the extrapolated end-of-season line for one team.
type Projection struct {
	Team                    TeamID
	CurrentPoints           int
	PredictedPoints         int
	PredictedGoalDifference int
	PredictedGoalsFor       int
}

// ProjectionInput carries what the projector needs per team.
type ProjectionInput struct {
	Team     TeamID
	Record   TeamRecord
	Strength Strength
}

// Project extrapolates the record over the remaining matches from the
// team's strength alone. With nothing left to play the current values are
// returned.
func Project(r TeamRecord, s Strength, remaining int) Projection {
	p := Projection{
		CurrentPoints:           r.Points(),
		PredictedPoints:         r.Points(),
		PredictedGoalDifference: r.GoalDifference(),
		PredictedGoalsFor:       r.GoalsFor,
	}
	if remaining <= 0 {
		return p
	}

	games := float64(remaining)
	strength := float64(s)
	p.PredictedPoints += int(math.Round(pointsPerMatch(s) * games))
	p.PredictedGoalDifference += int(math.Round((strength - 75) / 15 * games))
	p.PredictedGoalsFor += int(math.Round((1 + strength/80) * games))
	return p
}

// ProjectSeason projects every team against a season of matchesPerTeam
// games, ordered by predicted points then predicted goal difference.
func ProjectSeason(inputs []ProjectionInput, matchesPerTeam int) []Projection {
	out := make([]Projection, len(inputs))
	for i, in := range inputs {
		p := Project(in.Record, in.Strength, matchesPerTeam-in.Record.Played)
		p.Team = in.Team
		out[i] = p
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].PredictedPoints != out[j].PredictedPoints {
			return out[i].PredictedPoints > out[j].PredictedPoints
		}
		return out[i].PredictedGoalDifference > out[j].PredictedGoalDifference
	})
	return out
}

func pointsPerMatch(s Strength) float64 {
	switch {
	case s >= 95:
		return 2.4
	case s >= 90:
		return 2.2
	case s >= 85:
		return 1.9
	case s >= 80:
		return 1.5
	case s >= 75:
		return 1.3
	case s >= 70:
		return 1.1
	default:
		return 0.9
	}
}
