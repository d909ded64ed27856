package league

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrInvalidArgument marks malformed input: bad scores, strengths, ids or rosters.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrAlreadyPlayed is returned by Play on a match that already holds a score.
	ErrAlreadyPlayed = errors.New("match already played")
	// ErrNotFound is returned by repositories when a team or match does not exist.
	ErrNotFound = errors.New("not found")
)

const (
	MinStrength   = 1
	MaxStrength   = 100
	MaxGoals      = 50
	HomeAdvantage = 5
)

// TeamID identifies a club within a season.
type TeamID int

// Strength is a team quality rating in [MinStrength, MaxStrength].
type Strength int

func (s Strength) Validate() error {
	if s < MinStrength || s > MaxStrength {
		return fmt.Errorf("%w: team strength must be between %d and %d, got %d",
			ErrInvalidArgument, MinStrength, MaxStrength, int(s))
	}
	return nil
}

// WithHomeAdvantage adds adv to the rating, capped at MaxStrength.
func (s Strength) WithHomeAdvantage(adv int) Strength {
	return min(MaxStrength, s+Strength(adv))
}

// Team represents a club in the league.
type Team struct {
	ID       TeamID
	Name     string
	Strength Strength
}

// Rename changes the display name; blank names are rejected.
func (t *Team) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: team name cannot be empty", ErrInvalidArgument)
	}
	t.Name = name
	return nil
}

// ChangeStrength is an administrative rating change. Simulation never calls it.
func (t *Team) ChangeStrength(s Strength) error {
	if err := s.Validate(); err != nil {
		return err
	}
	t.Strength = s
	return nil
}

type Outcome int

const (
	Draw Outcome = iota
	HomeWin
	AwayWin
)

func (o Outcome) String() string {
	switch o {
	case HomeWin:
		return "home_win"
	case AwayWin:
		return "away_win"
	default:
		return "draw"
	}
}

// Score is the final result of a match.
type Score struct {
	Home int
	Away int
}

func NewScore(home, away int) (Score, error) {
	s := Score{Home: home, Away: away}
	if err := s.Validate(); err != nil {
		return Score{}, err
	}
	return s, nil
}

func (s Score) Validate() error {
	if s.Home < 0 || s.Away < 0 {
		return fmt.Errorf("%w: scores cannot be negative (%s)", ErrInvalidArgument, s)
	}
	if s.Home > MaxGoals || s.Away > MaxGoals {
		return fmt.Errorf("%w: scores cannot exceed %d (%s)", ErrInvalidArgument, MaxGoals, s)
	}
	return nil
}

func (s Score) Outcome() Outcome {
	switch {
	case s.Home > s.Away:
		return HomeWin
	case s.Away > s.Home:
		return AwayWin
	default:
		return Draw
	}
}

func (s Score) String() string {
	return fmt.Sprintf("%d-%d", s.Home, s.Away)
}

// Fixture is a scheduled pairing with a designated home side.
type Fixture struct {
	Matchday int
	Home     TeamID
	Away     TeamID
}

// Match represents a fixture between two teams, played once it holds a score.
type Match struct {
	ID int
	Fixture
	Score    *Score
	PlayedAt *time.Time
}

func (m *Match) Played() bool { return m.Score != nil }

// Winner returns the winning team, or false for draws and unplayed matches.
func (m *Match) Winner() (TeamID, bool) {
	if !m.Played() {
		return 0, false
	}
	switch m.Score.Outcome() {
	case HomeWin:
		return m.Home, true
	case AwayWin:
		return m.Away, true
	}
	return 0, false
}

// Result renders the score line, or "vs" while unplayed.
func (m *Match) Result() string {
	if !m.Played() {
		return "vs"
	}
	return m.Score.String()
}

// TeamRecord holds the cumulative statistics of one team. Values are never
// mutated in place; the Add* methods return the next record.
type TeamRecord struct {
	Played       int
	Wins         int
	Draws        int
	Losses       int
	GoalsFor     int
	GoalsAgainst int
}

func (r TeamRecord) Points() int         { return PointsForWin*r.Wins + PointsForDraw*r.Draws }
func (r TeamRecord) GoalDifference() int { return r.GoalsFor - r.GoalsAgainst }

func (r TeamRecord) AddWin(goalsFor, goalsAgainst int) TeamRecord {
	r.Wins++
	return r.addGame(goalsFor, goalsAgainst)
}

func (r TeamRecord) AddDraw(goalsFor, goalsAgainst int) TeamRecord {
	r.Draws++
	return r.addGame(goalsFor, goalsAgainst)
}

func (r TeamRecord) AddLoss(goalsFor, goalsAgainst int) TeamRecord {
	r.Losses++
	return r.addGame(goalsFor, goalsAgainst)
}

func (r TeamRecord) addGame(goalsFor, goalsAgainst int) TeamRecord {
	r.Played++
	r.GoalsFor += goalsFor
	r.GoalsAgainst += goalsAgainst
	return r
}
