package league

import (
	"context"
	"errors"
	"testing"
)

func TestChampionshipOddsDecidedSeason(t *testing.T) {
	teams := []Team{{ID: 1, Name: "A", Strength: 70}, {ID: 2, Name: "B", Strength: 90}}
	matches := []Match{played(1, 1, 1, 2, 3, 0), played(2, 2, 2, 1, 0, 1)}

	preds, err := ChampionshipOdds(context.Background(), teams, matches, NewSeededSimulator(3), 50)
	if err != nil {
		t.Fatalf("ChampionshipOdds failed: %v", err)
	}
	if preds[0].Team != 1 || preds[0].Probability != 100 || preds[1].Probability != 0 {
		t.Fatalf("unexpected odds: %+v", preds)
	}
}

func TestChampionshipOddsFavoursStrongerSide(t *testing.T) {
	teams := []Team{
		{ID: 1, Name: "Minnows", Strength: 50},
		{ID: 2, Name: "Giants", Strength: 95},
		{ID: 3, Name: "Middling", Strength: 75},
		{ID: 4, Name: "Strugglers", Strength: 55},
	}
	season, err := GenerateSchedule([]TeamID{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("GenerateSchedule failed: %v", err)
	}
	var matches []Match
	for i, f := range season.Fixtures() {
		matches = append(matches, Match{ID: i + 1, Fixture: f})
	}

	preds, err := ChampionshipOdds(context.Background(), teams, matches, NewSeededSimulator(11), 500)
	if err != nil {
		t.Fatalf("ChampionshipOdds failed: %v", err)
	}
	if preds[0].Team != 2 {
		t.Fatalf("expected the strongest side to be favourite, got %+v", preds)
	}
	total := 0.0
	for _, p := range preds {
		total += p.Probability
	}
	if total < 99.9 || total > 100.1 {
		t.Fatalf("probabilities sum to %.2f", total)
	}
}

func TestChampionshipOddsRejectsBadInput(t *testing.T) {
	teams := []Team{{ID: 1, Name: "A", Strength: 70}}
	if _, err := ChampionshipOdds(context.Background(), teams, nil, NewSeededSimulator(1), 0); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	matches := []Match{unplayed(1, 1, 1, 9)}
	if _, err := ChampionshipOdds(context.Background(), teams, matches, NewSeededSimulator(1), 5); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
