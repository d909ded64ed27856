package league

import (
	"fmt"
	"strings"
)

const (
	PointsForWin  = 3
	PointsForDraw = 1
)

// Rules describes the shape of a double round-robin season.
type Rules struct {
	Teams              int
	MatchesPerMatchday int
	TotalMatchdays     int
	MatchesPerTeam     int
}

// RulesFor derives the season shape for n teams.
func RulesFor(n int) Rules {
	return Rules{
		Teams:              n,
		MatchesPerMatchday: n / 2,
		TotalMatchdays:     2 * Rounds(n),
		MatchesPerTeam:     2 * max(0, n-1),
	}
}

// PremierLeague is the twenty club, 38 matchday competition.
func PremierLeague() Rules { return RulesFor(20) }

// TotalMatches is the number of fixtures in the full season.
func (r Rules) TotalMatches() int { return r.Teams * max(0, r.Teams-1) }

// Clock returns the season clock for these rules.
func (r Rules) Clock() SeasonClock {
	return SeasonClock{MatchesPerMatchday: r.MatchesPerMatchday, TotalMatchdays: r.TotalMatchdays}
}

// ValidateRoster checks a team list before it is used to build a season:
// at least two teams, unique positive ids, unique non-blank names and
// strengths in range.
func ValidateRoster(teams []Team) error {
	if len(teams) < 2 {
		return fmt.Errorf("%w: at least 2 teams are required, got %d", ErrInvalidArgument, len(teams))
	}
	ids := make([]TeamID, len(teams))
	names := make(map[string]struct{}, len(teams))
	for i, t := range teams {
		ids[i] = t.ID
		name := strings.ToLower(strings.TrimSpace(t.Name))
		if name == "" {
			return fmt.Errorf("%w: team %d has no name", ErrInvalidArgument, t.ID)
		}
		if _, dup := names[name]; dup {
			return fmt.Errorf("%w: duplicate team name %q", ErrInvalidArgument, t.Name)
		}
		names[name] = struct{}{}
		if err := t.Strength.Validate(); err != nil {
			return fmt.Errorf("team %q: %w", t.Name, err)
		}
	}
	return validateIDs(ids)
}

// SeasonClock derives the current matchday from the number of played matches.
type SeasonClock struct {
	MatchesPerMatchday int
	TotalMatchdays     int
}

func (c SeasonClock) CurrentMatchday(played int) int {
	return CurrentMatchday(played, c.MatchesPerMatchday, c.TotalMatchdays)
}

func (c SeasonClock) IsSeasonComplete(played int) bool {
	return IsSeasonComplete(played, c.MatchesPerMatchday, c.TotalMatchdays)
}

// CurrentMatchday is floor(played/perMatchday)+1, capped at totalMatchdays.
func CurrentMatchday(played, perMatchday, totalMatchdays int) int {
	return min(uncappedMatchday(played, perMatchday), max(1, totalMatchdays))
}

// IsSeasonComplete reports whether the uncapped matchday has run past the
// end of the season.
func IsSeasonComplete(played, perMatchday, totalMatchdays int) bool {
	return uncappedMatchday(played, perMatchday) > totalMatchdays
}

func uncappedMatchday(played, perMatchday int) int {
	if played <= 0 || perMatchday <= 0 {
		return 1
	}
	return played/perMatchday + 1
}
