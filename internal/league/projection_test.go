package league

import (
	"reflect"
	"testing"
)

func TestProjectNothingRemaining(t *testing.T) {
	r := TeamRecord{Played: 38, Wins: 20, Draws: 8, Losses: 10, GoalsFor: 61, GoalsAgainst: 40}
	for s := Strength(MinStrength); s <= MaxStrength; s++ {
		for _, remaining := range []int{0, -3} {
			p := Project(r, s, remaining)
			if p.PredictedPoints != r.Points() || p.PredictedGoalDifference != r.GoalDifference() || p.PredictedGoalsFor != r.GoalsFor {
				t.Fatalf("strength %d remaining %d: projection changed current values: %+v", s, remaining, p)
			}
		}
	}
}

func TestProject(t *testing.T) {
	r := TeamRecord{Played: 10, Wins: 7, Draws: 2, Losses: 1, GoalsFor: 20, GoalsAgainst: 8}
	got := Project(r, 95, 28)
	want := Projection{
		CurrentPoints:           23,
		PredictedPoints:         23 + 67, // 2.4 * 28 = 67.2
		PredictedGoalDifference: 12 + 37, // 20/15 * 28 = 37.33
		PredictedGoalsFor:       20 + 61, // 2.1875 * 28 = 61.25
	}
	if got != want {
		t.Fatalf("Project = %+v, want %+v", got, want)
	}
}

func TestProjectRoundsHalfAwayFromZero(t *testing.T) {
	p := Project(TeamRecord{}, 40, 1)
	if p.PredictedGoalsFor != 2 { // 1.5
		t.Fatalf("goals for %d, want 2", p.PredictedGoalsFor)
	}
	if p.PredictedPoints != 1 { // 0.9
		t.Fatalf("points %d, want 1", p.PredictedPoints)
	}
	if p.PredictedGoalDifference != -2 { // -35/15 = -2.33
		t.Fatalf("goal difference %d, want -2", p.PredictedGoalDifference)
	}
}

func TestPointsPerMatchSteps(t *testing.T) {
	cases := map[Strength]float64{
		100: 2.4, 95: 2.4, 94: 2.2, 90: 2.2, 89: 1.9, 85: 1.9, 84: 1.5,
		80: 1.5, 79: 1.3, 75: 1.3, 74: 1.1, 70: 1.1, 69: 0.9, 1: 0.9,
	}
	for s, want := range cases {
		if got := pointsPerMatch(s); got != want {
			t.Fatalf("pointsPerMatch(%d) = %v, want %v", s, got, want)
		}
	}
}

func TestProjectSeasonOrdering(t *testing.T) {
	inputs := []ProjectionInput{
		{Team: 1, Strength: 95},
		{Team: 2, Strength: 65, Record: TeamRecord{Played: 38, Wins: 31, Losses: 7, GoalsFor: 70, GoalsAgainst: 20}},
		{Team: 3, Strength: 95},
		{Team: 4, Strength: 70},
		{Team: 5, Strength: 50, Record: TeamRecord{Played: 38, Wins: 20, Losses: 18, GoalsFor: 50, GoalsAgainst: 40}},
		{Team: 6, Strength: 50, Record: TeamRecord{Played: 38, Wins: 20, Losses: 18, GoalsFor: 60, GoalsAgainst: 30}},
	}
	got := ProjectSeason(inputs, 38)

	order := make([]TeamID, len(got))
	for i, p := range got {
		order[i] = p.Team
	}
	want := []TeamID{2, 1, 3, 6, 5, 4}
	if !reflect.DeepEqual(order, want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	if got[1].PredictedPoints != 91 {
		t.Fatalf("team 1 predicted %d points, want 91", got[1].PredictedPoints)
	}
}
