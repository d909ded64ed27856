package league

import (
	"fmt"
	"sort"
)

// Schedule maps a matchday number to its fixtures.
type Schedule map[int][]Fixture

// Matchdays returns the matchday numbers in ascending order.
func (s Schedule) Matchdays() []int {
	days := make([]int, 0, len(s))
	for md := range s {
		days = append(days, md)
	}
	sort.Ints(days)
	return days
}

// Fixtures flattens the schedule in matchday order.
func (s Schedule) Fixtures() []Fixture {
	var out []Fixture
	for _, md := range s.Matchdays() {
		out = append(out, s[md]...)
	}
	return out
}

// Rounds returns the number of rounds in one half of a double round-robin
// for n teams.
func Rounds(n int) int {
	if n < 2 {
		return 0
	}
	if n%2 == 0 {
		return n - 1
	}
	return n
}

// GenerateSchedule returns a double round-robin for the provided teams.
// Every pair meets twice, once at each ground; the second half mirrors the
// first with home and away reversed. Fewer than two teams yields an empty
// schedule. The input slice is left untouched.
func GenerateSchedule(ids []TeamID) (Schedule, error) {
	if err := validateIDs(ids); err != nil {
		return nil, err
	}
	season := make(Schedule)
	if len(ids) < 2 {
		return season, nil
	}

	rounds := Rounds(len(ids))
	var firstHalf [][]Fixture
	if len(ids)%2 == 0 {
		firstHalf = circleRounds(ids, rounds)
	} else {
		firstHalf = oddRounds(ids, rounds)
	}

	for i, round := range firstHalf {
		week := i + 1
		returnWeek := week + rounds
		reversed := make([]Fixture, len(round))
		for j, f := range round {
			f.Matchday = week
			round[j] = f
			reversed[j] = Fixture{Matchday: returnWeek, Home: f.Away, Away: f.Home}
		}
		season[week] = round
		season[returnWeek] = reversed
	}
	return season, nil
}

// circleRounds fixes the last team and rotates the others by one slot after
// every round. The fixed team hosts on odd rounds.
func circleRounds(ids []TeamID, rounds int) [][]Fixture {
	fixed := ids[len(ids)-1]
	rotation := make([]TeamID, len(ids)-1)
	copy(rotation, ids[:len(ids)-1])

	out := make([][]Fixture, 0, rounds)
	for round := 1; round <= rounds; round++ {
		matches := make([]Fixture, 0, len(ids)/2)
		if round%2 == 1 {
			matches = append(matches, Fixture{Home: fixed, Away: rotation[0]})
		} else {
			matches = append(matches, Fixture{Home: rotation[0], Away: fixed})
		}
		for i := 1; i < len(rotation); i++ {
			j := len(rotation) - i
			if i >= j {
				break
			}
			matches = append(matches, Fixture{Home: rotation[i], Away: rotation[j]})
		}
		out = append(out, matches)

		first := rotation[0]
		copy(rotation, rotation[1:])
		rotation[len(rotation)-1] = first
	}
	return out
}

// oddRounds pairs index i with (n-1-i+r-1) mod n in round r. One team sits
// out each round.
func oddRounds(ids []TeamID, rounds int) [][]Fixture {
	n := len(ids)
	out := make([][]Fixture, 0, rounds)
	for round := 1; round <= rounds; round++ {
		matches := make([]Fixture, 0, (n-1)/2)
		for i := 0; i < n; i++ {
			j := (n - 1 - i + round - 1) % n
			if i < j {
				matches = append(matches, Fixture{Home: ids[i], Away: ids[j]})
			}
		}
		out = append(out, matches)
	}
	return out
}

func validateIDs(ids []TeamID) error {
	seen := make(map[TeamID]struct{}, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return fmt.Errorf("%w: team id must be positive, got %d", ErrInvalidArgument, id)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate team id %d", ErrInvalidArgument, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}
