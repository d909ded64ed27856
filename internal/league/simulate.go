package league

import (
	"math/rand"
	"sync"
)

const (
	baseExpectedGoals = 1.5
	maxExpectedGoals  = 4.0
	strengthDivisor   = 20.0
	maxSimulatedGoals = 6
)

// goalCDF is the cumulative distribution over 0..5 goals.
var goalCDF = [...]float64{0.15, 0.35, 0.65, 0.85, 0.95, 1.00}

// RandomSource yields uniform values in [0,1). *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

// Simulator produces a result from the two sides' ratings.
type Simulator interface {
	Simulate(home, away Strength) Score
}

// RealisticSimulator draws goals from a fixed categorical distribution and
// nudges the draw by the expected goals implied by the strength gap.
// It is safe for concurrent use.
type RealisticSimulator struct {
	mu  sync.Mutex
	rnd RandomSource
}

func NewRealisticSimulator(rnd RandomSource) *RealisticSimulator {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(rand.Int63()))
	}
	return &RealisticSimulator{rnd: rnd}
}

// NewSeededSimulator returns a simulator with a reproducible sequence.
func NewSeededSimulator(seed int64) *RealisticSimulator {
	return NewRealisticSimulator(rand.New(rand.NewSource(seed)))
}

// Splitter is implemented by simulators that can hand out independent
// children. Children taken in a fixed order produce the same results no
// matter which goroutine runs them.
type Splitter interface {
	Split() Simulator
}

// Split seeds a new simulator from the next draw of s.
func (s *RealisticSimulator) Split() Simulator {
	s.mu.Lock()
	seed := int64(s.rnd.Float64() * (1 << 62))
	s.mu.Unlock()
	return NewSeededSimulator(seed)
}

func (s *RealisticSimulator) Simulate(home, away Strength) Score {
	homeAdj := home.WithHomeAdvantage(HomeAdvantage)

	s.mu.Lock()
	defer s.mu.Unlock()
	homeGoals := s.goals(homeAdj, away)
	awayGoals := s.goals(away, homeAdj)
	return Score{Home: homeGoals, Away: awayGoals}
}

func (s *RealisticSimulator) goals(attack, defense Strength) int {
	xg := ExpectedGoals(attack, defense)
	return adjustGoals(drawGoals(s.rnd.Float64()), xg)
}

// ExpectedGoals is 1.5 plus a twentieth of the strength gap, clamped to [0,4].
func ExpectedGoals(attack, defense Strength) float64 {
	xg := baseExpectedGoals + float64(attack-defense)/strengthDivisor
	return max(0, min(maxExpectedGoals, xg))
}

func drawGoals(u float64) int {
	for goals, p := range goalCDF {
		if u < p {
			return goals
		}
	}
	return len(goalCDF) - 1
}

func adjustGoals(goals int, xg float64) int {
	switch {
	case xg < 1:
		return max(0, goals-1)
	case xg > 2.5:
		return min(maxSimulatedGoals, goals+1)
	}
	return goals
}
