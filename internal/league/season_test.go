package league

import (
	"errors"
	"testing"
)

func TestCurrentMatchday(t *testing.T) {
	cases := []struct {
		played, perDay, total int
		want                  int
		complete              bool
	}{
		{0, 10, 38, 1, false},
		{9, 10, 38, 1, false},
		{10, 10, 38, 2, false},
		{155, 10, 38, 16, false},
		{370, 10, 38, 38, false},
		{379, 10, 38, 38, false},
		{380, 10, 38, 38, true},
		{5, 0, 38, 1, false},
	}
	for _, tc := range cases {
		if got := CurrentMatchday(tc.played, tc.perDay, tc.total); got != tc.want {
			t.Fatalf("CurrentMatchday(%d, %d, %d) = %d, want %d", tc.played, tc.perDay, tc.total, got, tc.want)
		}
		if got := IsSeasonComplete(tc.played, tc.perDay, tc.total); got != tc.complete {
			t.Fatalf("IsSeasonComplete(%d, %d, %d) = %v, want %v", tc.played, tc.perDay, tc.total, got, tc.complete)
		}
	}
}

func TestRulesFor(t *testing.T) {
	pl := PremierLeague()
	if pl.MatchesPerMatchday != 10 || pl.TotalMatchdays != 38 || pl.MatchesPerTeam != 38 || pl.TotalMatches() != 380 {
		t.Fatalf("unexpected premier league rules: %+v", pl)
	}
	if got := pl.Clock().CurrentMatchday(380); got != 38 {
		t.Fatalf("clock matchday %d, want 38", got)
	}
	if !pl.Clock().IsSeasonComplete(380) {
		t.Fatalf("expected season complete after 380 matches")
	}

	odd := RulesFor(5)
	if odd.MatchesPerMatchday != 2 || odd.TotalMatchdays != 10 || odd.MatchesPerTeam != 8 || odd.TotalMatches() != 20 {
		t.Fatalf("unexpected rules for 5 teams: %+v", odd)
	}
}

func TestValidateRoster(t *testing.T) {
	good := []Team{{ID: 1, Name: "Arsenal", Strength: 88}, {ID: 2, Name: "Chelsea", Strength: 85}}
	if err := ValidateRoster(good); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := map[string][]Team{
		"too few":        {{ID: 1, Name: "Arsenal", Strength: 88}},
		"blank name":     {{ID: 1, Name: "Arsenal", Strength: 88}, {ID: 2, Name: "  ", Strength: 80}},
		"duplicate name": {{ID: 1, Name: "Arsenal", Strength: 88}, {ID: 2, Name: " arsenal", Strength: 80}},
		"duplicate id":   {{ID: 1, Name: "Arsenal", Strength: 88}, {ID: 1, Name: "Chelsea", Strength: 80}},
		"weak":           {{ID: 1, Name: "Arsenal", Strength: 0}, {ID: 2, Name: "Chelsea", Strength: 80}},
		"strong":         {{ID: 1, Name: "Arsenal", Strength: 101}, {ID: 2, Name: "Chelsea", Strength: 80}},
	}
	for name, teams := range cases {
		t.Run(name, func(t *testing.T) {
			if err := ValidateRoster(teams); !errors.Is(err, ErrInvalidArgument) {
				t.Fatalf("expected ErrInvalidArgument, got %v", err)
			}
		})
	}
}

func TestTeamAdministration(t *testing.T) {
	team := Team{ID: 1, Name: "Arsenal", Strength: 88}
	if err := team.Rename(" "); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if err := team.Rename(" Gunners "); err != nil || team.Name != "Gunners" {
		t.Fatalf("rename failed: %v (%q)", err, team.Name)
	}
	if err := team.ChangeStrength(120); !errors.Is(err, ErrInvalidArgument) || team.Strength != 88 {
		t.Fatalf("expected rejected change, got %v (%d)", err, team.Strength)
	}
	if err := team.ChangeStrength(90); err != nil || team.Strength != 90 {
		t.Fatalf("change failed: %v (%d)", err, team.Strength)
	}
}
