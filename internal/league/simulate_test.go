package league

import (
	"math"
	"sync"
	"testing"
)

// scriptedSource replays a fixed list of uniform draws.
type scriptedSource struct {
	vals []float64
	i    int
}

func (s *scriptedSource) Float64() float64 {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}

func TestDrawGoalsBoundaries(t *testing.T) {
	cases := []struct {
		u    float64
		want int
	}{
		{0, 0}, {0.1499, 0}, {0.15, 1}, {0.3499, 1}, {0.35, 2}, {0.6499, 2},
		{0.65, 3}, {0.8499, 3}, {0.85, 4}, {0.9499, 4}, {0.95, 5}, {0.9999, 5},
	}
	for _, tc := range cases {
		if got := drawGoals(tc.u); got != tc.want {
			t.Fatalf("drawGoals(%v) = %d, want %d", tc.u, got, tc.want)
		}
	}
}

func TestExpectedGoals(t *testing.T) {
	cases := []struct {
		attack, defense Strength
		want            float64
	}{
		{100, 65, 3.25},
		{65, 100, 0},
		{80, 75, 1.75},
		{75, 80, 1.25},
		{100, 1, 4},
	}
	for _, tc := range cases {
		if got := ExpectedGoals(tc.attack, tc.defense); math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("ExpectedGoals(%d, %d) = %v, want %v", tc.attack, tc.defense, got, tc.want)
		}
	}
}

func TestSimulateScripted(t *testing.T) {
	cases := []struct {
		name       string
		home, away Strength
		draws      []float64
		want       Score
	}{
		{"strong home gets a goal, weak away loses one", 95, 65, []float64{0.5, 0.5}, Score{3, 1}},
		{"weak side floors at zero", 95, 65, []float64{0.0, 0.0}, Score{1, 0}},
		{"even sides keep the draw", 75, 75, []float64{0.0, 0.99}, Score{0, 5}},
		{"ceiling is six", 100, 40, []float64{0.99, 0.2}, Score{6, 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sim := NewRealisticSimulator(&scriptedSource{vals: tc.draws})
			if got := sim.Simulate(tc.home, tc.away); got != tc.want {
				t.Fatalf("Simulate(%d, %d) = %v, want %v", tc.home, tc.away, got, tc.want)
			}
		})
	}
}

func TestWithHomeAdvantageCapped(t *testing.T) {
	if got := Strength(98).WithHomeAdvantage(HomeAdvantage); got != 100 {
		t.Fatalf("expected cap at 100, got %d", got)
	}
	if got := Strength(70).WithHomeAdvantage(HomeAdvantage); got != 75 {
		t.Fatalf("expected 75, got %d", got)
	}
}

func TestSimulateEvenSidesBalanced(t *testing.T) {
	const trials = 10000
	sim := NewSeededSimulator(42)

	homeWins, awayWins := 0, 0
	for i := 0; i < trials; i++ {
		switch sim.Simulate(75, 75).Outcome() {
		case HomeWin:
			homeWins++
		case AwayWin:
			awayWins++
		}
	}
	diff := math.Abs(float64(homeWins-awayWins)) / trials
	if diff > 0.04 {
		t.Fatalf("home wins %d vs away wins %d differ by %.3f", homeWins, awayWins, diff)
	}
}

func TestSimulateStrongHomeSide(t *testing.T) {
	const trials = 10000
	sim := NewSeededSimulator(7)

	homeGoals, awayGoals := 0, 0
	for i := 0; i < trials; i++ {
		s := sim.Simulate(95, 65)
		if s.Home > 6 || s.Away > 6 || s.Home < 0 || s.Away < 0 {
			t.Fatalf("score out of range: %v", s)
		}
		homeGoals += s.Home
		awayGoals += s.Away
	}
	avgHome := float64(homeGoals) / trials
	avgAway := float64(awayGoals) / trials

	// drawn mean is 2.05: the home side gets +1, the away side -1 floored at 0
	if math.Abs(avgHome-3.05) > 0.1 {
		t.Fatalf("average home goals %.3f, want about 3.05", avgHome)
	}
	if math.Abs(avgAway-1.2) > 0.1 {
		t.Fatalf("average away goals %.3f, want about 1.2", avgAway)
	}
	if avgHome-avgAway < 1.5 {
		t.Fatalf("expected a clear margin, got %.3f vs %.3f", avgHome, avgAway)
	}
}

func TestSimulateConcurrentUse(t *testing.T) {
	sim := NewSeededSimulator(1)
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				if err := sim.Simulate(80, 70).Validate(); err != nil {
					t.Errorf("invalid score: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestSplitIsDeterministic(t *testing.T) {
	a, b := NewSeededSimulator(9), NewSeededSimulator(9)
	for i := 0; i < 5; i++ {
		ca, cb := a.Split(), b.Split()
		for j := 0; j < 20; j++ {
			if sa, sb := ca.Simulate(75, 70), cb.Simulate(75, 70); sa != sb {
				t.Fatalf("child %d draw %d: %v != %v", i, j, sa, sb)
			}
		}
	}
}
