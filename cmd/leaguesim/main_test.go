package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/NurlanMehdi/insider-champions-league/internal/config"
)

const twoClubs = `
[[team]]
id = 1
name = "North"
strength = 80

[[team]]
id = 2
name = "South"
strength = 60
`

func execute(t *testing.T, cmd *cobra.Command, args ...string) string {
	t.Helper()
	t.Setenv("LOG_LEVEL", "error")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("%s %v failed: %v", cmd.Name(), args, err)
	}
	return out.String()
}

func rosterFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "teams.toml")
	if err := os.WriteFile(path, []byte(twoClubs), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestScheduleCommand(t *testing.T) {
	got := execute(t, scheduleCmd(), "--teams", rosterFile(t))
	want := "2 teams, 2 weeks\nWeek 1:\n  South vs North\nWeek 2:\n  North vs South\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestScheduleCommandDefaultRoster(t *testing.T) {
	t.Setenv("TEAMS_FILE", "")
	got := execute(t, scheduleCmd())
	if !strings.HasPrefix(got, "20 teams, 38 weeks\n") || strings.Count(got, " vs ") != 380 {
		t.Fatalf("unexpected schedule output:\n%s", got)
	}
}

func TestRosterCommandRoundTrips(t *testing.T) {
	t.Setenv("TEAMS_FILE", "")
	got := execute(t, rosterCmd())
	teams, err := config.ParseRoster([]byte(got))
	if err != nil {
		t.Fatalf("printed roster does not parse: %v\n%s", err, got)
	}
	want, _ := config.DefaultRoster()
	if len(teams) != len(want) || teams[0] != want[0] || teams[19] != want[19] {
		t.Fatalf("roster changed on the way through: %+v", teams)
	}
}

func TestSeasonCommand(t *testing.T) {
	got := execute(t, seasonCmd(), "--teams", rosterFile(t), "--seed", "7", "--weeks")
	if !strings.Contains(got, "Week 2:") || !strings.Contains(got, "Final table") {
		t.Fatalf("unexpected season output:\n%s", got)
	}
	lines := strings.Split(strings.TrimSpace(got), "\n")
	last := strings.Fields(lines[len(lines)-1])
	if last[0] != "2" || last[2] != "2" {
		t.Fatalf("expected both teams to have played twice: %q", lines[len(lines)-1])
	}
}

func TestOddsCommand(t *testing.T) {
	got := execute(t, oddsCmd(), "--teams", rosterFile(t), "--seed", "7", "--after", "2", "--runs", "3")
	if !strings.Contains(got, "Title odds (3 runs)") || !strings.Contains(got, "100.00%") {
		t.Fatalf("unexpected odds output:\n%s", got)
	}
}
