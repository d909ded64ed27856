package league

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MatchPlayed is emitted whenever a match receives a score, either for the
// first time or through a correction.
type MatchPlayed struct {
	EventID    string
	MatchID    int
	Matchday   int
	Home       TeamID
	Away       TeamID
	HomeScore  int
	AwayScore  int
	PlayedAt   time.Time
	Correction bool
}

// Notifier receives MatchPlayed events. Implementations must not block for
// long; the caller is usually inside a simulation loop.
type Notifier interface {
	MatchPlayed(MatchPlayed)
}

// NotifierFunc adapts a plain function to Notifier.
type NotifierFunc func(MatchPlayed)

func (f NotifierFunc) MatchPlayed(ev MatchPlayed) { f(ev) }

// Play records the first result of the match. A match that already holds a
// score is rejected with ErrAlreadyPlayed; use Correct for edits.
func (m *Match) Play(s Score, at time.Time, n Notifier) error {
	if m.Played() {
		return fmt.Errorf("%w: match %d is %s", ErrAlreadyPlayed, m.ID, m.Score)
	}
	return m.assign(s, at, n, false)
}

// Correct overwrites the result regardless of state.
func (m *Match) Correct(s Score, at time.Time, n Notifier) error {
	return m.assign(s, at, n, true)
}

func (m *Match) assign(s Score, at time.Time, n Notifier, correction bool) error {
	if err := s.Validate(); err != nil {
		return err
	}
	score := s
	m.Score = &score
	m.PlayedAt = &at

	if n != nil {
		n.MatchPlayed(MatchPlayed{
			EventID:    uuid.NewString(),
			MatchID:    m.ID,
			Matchday:   m.Matchday,
			Home:       m.Home,
			Away:       m.Away,
			HomeScore:  s.Home,
			AwayScore:  s.Away,
			PlayedAt:   at,
			Correction: correction,
		})
	}
	return nil
}
