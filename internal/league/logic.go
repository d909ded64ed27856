// internal/league/logic.go
package league

import (
	"fmt"
	"io"
)

// Names resolves team ids for display.
type Names map[TeamID]string

func (n Names) Of(id TeamID) string {
	if name, ok := n[id]; ok {
		return name
	}
	return fmt.Sprintf("#%d", id)
}

// NamesOf indexes the roster by id.
func NamesOf(teams []Team) Names {
	n := make(Names, len(teams))
	for _, t := range teams {
		n[t.ID] = t.Name
	}
	return n
}

func (n Names) ScoreLine(m Match) string {
	return fmt.Sprintf("%s %s %s", n.Of(m.Home), m.Result(), n.Of(m.Away))
}

func WriteSchedule(w io.Writer, label string, season Schedule, names Names) error {
	if _, err := fmt.Fprintln(w, label); err != nil {
		return err
	}
	for _, md := range season.Matchdays() {
		if _, err := fmt.Fprintf(w, "Week %d:\n", md); err != nil {
			return err
		}
		for _, f := range season[md] {
			if _, err := fmt.Fprintf(w, "  %s vs %s\n", names.Of(f.Home), names.Of(f.Away)); err != nil {
				return err
			}
		}
	}
	return nil
}

func WriteResults(w io.Writer, matchday int, matches []Match, names Names) error {
	if _, err := fmt.Fprintf(w, "Week %d:\n", matchday); err != nil {
		return err
	}
	for _, m := range matches {
		if _, err := fmt.Fprintf(w, "  %s\n", names.ScoreLine(m)); err != nil {
			return err
		}
	}
	return nil
}

func WriteTable(w io.Writer, label string, table []Standing, names Names) error {
	if _, err := fmt.Fprintln(w, label); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%3s %-25s %2s %2s %2s %2s %3s %3s %4s %3s\n",
		"#", "Team", "P", "W", "D", "L", "GF", "GA", "GD", "Pts"); err != nil {
		return err
	}
	for _, s := range table {
		r := s.Record
		if _, err := fmt.Fprintf(w, "%3d %-25s %2d %2d %2d %2d %3d %3d %4d %3d\n",
			s.Position,
			names.Of(s.Team),
			r.Played,
			r.Wins,
			r.Draws,
			r.Losses,
			r.GoalsFor,
			r.GoalsAgainst,
			r.GoalDifference(),
			r.Points(),
		); err != nil {
			return err
		}
	}
	return nil
}

func WriteOdds(w io.Writer, preds []Prediction, names Names) error {
	for _, p := range preds {
		if _, err := fmt.Fprintf(w, "%-25s %6.2f%%\n", names.Of(p.Team), p.Probability); err != nil {
			return err
		}
	}
	return nil
}

func WriteProjections(w io.Writer, label string, projections []Projection, names Names) error {
	if _, err := fmt.Fprintln(w, label); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%-25s %3s %3s %4s %3s\n", "Team", "Pts", "Exp", "xGD", "xGF"); err != nil {
		return err
	}
	for _, p := range projections {
		if _, err := fmt.Fprintf(w, "%-25s %3d %3d %4d %3d\n",
			names.Of(p.Team), p.CurrentPoints, p.PredictedPoints, p.PredictedGoalDifference, p.PredictedGoalsFor); err != nil {
			return err
		}
	}
	return nil
}
