package league

import "sort"

// Standing is one row of the league table.
type Standing struct {
	Position int
	Team     TeamID
	Record   TeamRecord
}

// Aggregate folds every played match into per-team records. Unplayed
// matches are skipped. It holds no state: the same input always yields the
// same records.
func Aggregate(matches []Match) map[TeamID]TeamRecord {
	records := make(map[TeamID]TeamRecord)
	for i := range matches {
		if m := &matches[i]; m.Played() {
			fold(records, m.Fixture, *m.Score)
		}
	}
	return records
}

func fold(records map[TeamID]TeamRecord, f Fixture, s Score) {
	home, away := records[f.Home], records[f.Away]
	switch s.Outcome() {
	case HomeWin:
		home = home.AddWin(s.Home, s.Away)
		away = away.AddLoss(s.Away, s.Home)
	case AwayWin:
		home = home.AddLoss(s.Home, s.Away)
		away = away.AddWin(s.Away, s.Home)
	default:
		home = home.AddDraw(s.Home, s.Away)
		away = away.AddDraw(s.Away, s.Home)
	}
	records[f.Home], records[f.Away] = home, away
}

// Table orders the given teams by points, then goal difference, then goals
// scored. Remaining ties keep the order of ids. Teams without a record sit
// on an empty one.
func Table(ids []TeamID, records map[TeamID]TeamRecord) []Standing {
	table := make([]Standing, len(ids))
	for i, id := range ids {
		table[i] = Standing{Team: id, Record: records[id]}
	}

	sort.SliceStable(table, func(i, j int) bool {
		a, b := table[i].Record, table[j].Record
		if a.Points() != b.Points() {
			return a.Points() > b.Points()
		}
		if a.GoalDifference() != b.GoalDifference() {
			return a.GoalDifference() > b.GoalDifference()
		}
		return a.GoalsFor > b.GoalsFor
	})

	for i := range table {
		table[i].Position = i + 1
	}
	return table
}

// Standings returns only the team order of Table.
func Standings(ids []TeamID, records map[TeamID]TeamRecord) []TeamID {
	table := Table(ids, records)
	out := make([]TeamID, len(table))
	for i, s := range table {
		out[i] = s.Team
	}
	return out
}
