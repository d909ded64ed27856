package api

import (
	"time"

	"github.com/NurlanMehdi/insider-champions-league/internal/league"
	"github.com/NurlanMehdi/insider-champions-league/internal/service"
)

type teamDTO struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Strength int    `json:"strength"`
}

type standingDTO struct {
	Position       int    `json:"position"`
	TeamID         int    `json:"team_id"`
	TeamName       string `json:"team_name"`
	Played         int    `json:"played"`
	Wins           int    `json:"wins"`
	Draws          int    `json:"draws"`
	Losses         int    `json:"losses"`
	GoalsFor       int    `json:"goals_for"`
	GoalsAgainst   int    `json:"goals_against"`
	GoalDifference int    `json:"goal_difference"`
	Points         int    `json:"points"`
}

type projectionDTO struct {
	TeamID                  int    `json:"team_id"`
	TeamName                string `json:"team_name"`
	CurrentPoints           int    `json:"current_points"`
	PredictedPoints         int    `json:"predicted_points"`
	PredictedGoalDifference int    `json:"predicted_goal_difference"`
	PredictedGoalsFor       int    `json:"predicted_goals_for"`
}

type standingsDTO struct {
	CurrentWeek int             `json:"current_week"`
	Standings   []standingDTO   `json:"standings"`
	Predictions []projectionDTO `json:"predictions"`
}

type matchDTO struct {
	ID         int        `json:"id"`
	Week       int        `json:"week"`
	HomeTeamID int        `json:"home_team_id"`
	HomeTeam   string     `json:"home_team"`
	AwayTeamID int        `json:"away_team_id"`
	AwayTeam   string     `json:"away_team"`
	HomeScore  *int       `json:"home_score"`
	AwayScore  *int       `json:"away_score"`
	IsPlayed   bool       `json:"is_played"`
	PlayedAt   *time.Time `json:"played_at,omitempty"`
	Result     string     `json:"result"`
}

type progressDTO struct {
	TotalMatches       int     `json:"total_matches"`
	PlayedMatches      int     `json:"played_matches"`
	UnplayedMatches    int     `json:"unplayed_matches"`
	ProgressPercentage float64 `json:"progress_percentage"`
	CurrentWeek        int     `json:"current_week"`
	TotalWeeks         int     `json:"total_weeks"`
	IsComplete         bool    `json:"is_complete"`
}

type oddsDTO struct {
	TeamID      int     `json:"team_id"`
	TeamName    string  `json:"team_name"`
	Probability float64 `json:"probability"`
}

// scoreRequest uses pointers so a missing side is rejected rather than read as 0.
type scoreRequest struct {
	HomeScore *int `json:"home_score"`
	AwayScore *int `json:"away_score"`
}

type initializeRequest struct {
	Teams []teamDTO `json:"teams"`
}

type teamUpdateRequest struct {
	Name     string `json:"name"`
	Strength int    `json:"strength"`
}

type weekRequest struct {
	Week int `json:"week"`
}

func toTeam(t league.Team) teamDTO {
	return teamDTO{ID: int(t.ID), Name: t.Name, Strength: int(t.Strength)}
}

func toMatch(m league.Match, names league.Names) matchDTO {
	dto := matchDTO{
		ID:         m.ID,
		Week:       m.Matchday,
		HomeTeamID: int(m.Home),
		HomeTeam:   names.Of(m.Home),
		AwayTeamID: int(m.Away),
		AwayTeam:   names.Of(m.Away),
		IsPlayed:   m.Played(),
		PlayedAt:   m.PlayedAt,
		Result:     m.Result(),
	}
	if m.Score != nil {
		home, away := m.Score.Home, m.Score.Away
		dto.HomeScore, dto.AwayScore = &home, &away
	}
	return dto
}

func toMatches(ms []league.Match, names league.Names) []matchDTO {
	out := make([]matchDTO, len(ms))
	for i, m := range ms {
		out[i] = toMatch(m, names)
	}
	return out
}

func toStandings(s service.Snapshot) standingsDTO {
	out := standingsDTO{
		CurrentWeek: s.Week,
		Standings:   make([]standingDTO, len(s.Table)),
		Predictions: make([]projectionDTO, len(s.Predictions)),
	}
	for i, row := range s.Table {
		r := row.Record
		out.Standings[i] = standingDTO{
			Position:       row.Position,
			TeamID:         int(row.Team),
			TeamName:       s.Names.Of(row.Team),
			Played:         r.Played,
			Wins:           r.Wins,
			Draws:          r.Draws,
			Losses:         r.Losses,
			GoalsFor:       r.GoalsFor,
			GoalsAgainst:   r.GoalsAgainst,
			GoalDifference: r.GoalDifference(),
			Points:         r.Points(),
		}
	}
	for i, p := range s.Predictions {
		out.Predictions[i] = projectionDTO{
			TeamID:                  int(p.Team),
			TeamName:                s.Names.Of(p.Team),
			CurrentPoints:           p.CurrentPoints,
			PredictedPoints:         p.PredictedPoints,
			PredictedGoalDifference: p.PredictedGoalDifference,
			PredictedGoalsFor:       p.PredictedGoalsFor,
		}
	}
	return out
}

func toProgress(p service.Progress) progressDTO {
	return progressDTO{
		TotalMatches:       p.Total,
		PlayedMatches:      p.Played,
		UnplayedMatches:    p.Unplayed(),
		ProgressPercentage: p.Percentage(),
		CurrentWeek:        p.CurrentWeek,
		TotalWeeks:         p.TotalWeeks,
		IsComplete:         p.Complete,
	}
}
