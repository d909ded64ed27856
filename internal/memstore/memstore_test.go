package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/NurlanMehdi/insider-champions-league/internal/league"
)

func TestMatchesRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New()

	created, err := s.CreateMatches(ctx, []league.Fixture{
		{Matchday: 1, Home: 1, Away: 2},
		{Matchday: 2, Home: 2, Away: 1},
	})
	if err != nil {
		t.Fatalf("CreateMatches failed: %v", err)
	}
	if created[0].ID != 1 || created[1].ID != 2 {
		t.Fatalf("unexpected ids: %+v", created)
	}

	m := created[0]
	if err := m.Play(league.Score{Home: 2, Away: 0}, time.Now(), nil); err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	if err := s.SaveResults(ctx, []league.Match{m}); err != nil {
		t.Fatalf("SaveResults failed: %v", err)
	}

	got, err := s.Match(ctx, 1)
	if err != nil {
		t.Fatalf("Match failed: %v", err)
	}
	if got.Score == nil || *got.Score != (league.Score{Home: 2, Away: 0}) {
		t.Fatalf("score not stored: %+v", got)
	}

	// callers get copies
	got.Score.Home = 9
	again, _ := s.Match(ctx, 1)
	if again.Score.Home != 2 {
		t.Fatalf("store shares score memory with callers")
	}

	week2, err := s.MatchesByMatchday(ctx, 2)
	if err != nil || len(week2) != 1 || week2[0].Played() {
		t.Fatalf("unexpected matchday 2: %+v, %v", week2, err)
	}
}

func TestNotFound(t *testing.T) {
	ctx := context.Background()
	s := New()

	if _, err := s.Match(ctx, 3); !errors.Is(err, league.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.Team(ctx, 3); !errors.Is(err, league.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.UpdateTeam(ctx, league.Team{ID: 3}); !errors.Is(err, league.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.SaveResults(ctx, []league.Match{{ID: 8}}); !errors.Is(err, league.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteResetsIDs(t *testing.T) {
	ctx := context.Background()
	s := New()
	if err := s.SaveTeams(ctx, []league.Team{{ID: 2, Name: "B", Strength: 50}, {ID: 1, Name: "A", Strength: 60}}); err != nil {
		t.Fatalf("SaveTeams failed: %v", err)
	}
	teams, _ := s.Teams(ctx)
	if len(teams) != 2 || teams[0].ID != 1 {
		t.Fatalf("teams not ordered by id: %+v", teams)
	}

	if _, err := s.CreateMatches(ctx, []league.Fixture{{Matchday: 1, Home: 1, Away: 2}}); err != nil {
		t.Fatalf("CreateMatches failed: %v", err)
	}
	if err := s.DeleteMatches(ctx); err != nil {
		t.Fatalf("DeleteMatches failed: %v", err)
	}
	created, _ := s.CreateMatches(ctx, []league.Fixture{{Matchday: 1, Home: 2, Away: 1}})
	if created[0].ID != 1 {
		t.Fatalf("expected ids to restart at 1, got %d", created[0].ID)
	}
	if err := s.DeleteTeams(ctx); err != nil {
		t.Fatalf("DeleteTeams failed: %v", err)
	}
	if teams, _ := s.Teams(ctx); len(teams) != 0 {
		t.Fatalf("teams not deleted: %+v", teams)
	}
}
