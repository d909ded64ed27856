package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"

	"github.com/NurlanMehdi/insider-champions-league/internal/league"
)

// Store wraps a Postgres connection and provides methods to persist and retrieve league data.
type Store struct {
	DB  *sql.DB
	log *slog.Logger
}

// NewStore opens a Postgres connection using the given connection string.
func NewStore(ctx context.Context, connStr string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// verify early
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	logger = logger.With("component", "store")
	logger.Info("database connected")
	return &Store{DB: db, log: logger}, nil
}

func (s *Store) Close() error { return s.DB.Close() }

func (s *Store) Teams(ctx context.Context) ([]league.Team, error) {
	const q = `
        SELECT id, name, strength
        FROM teams
        ORDER BY id
    `
	rows, err := s.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("querying teams: %w", err)
	}
	defer rows.Close()

	var teams []league.Team
	for rows.Next() {
		var t league.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.Strength); err != nil {
			return nil, fmt.Errorf("scanning team row: %w", err)
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating teams rows: %w", err)
	}
	return teams, nil
}

func (s *Store) Team(ctx context.Context, id league.TeamID) (league.Team, error) {
	var t league.Team
	err := s.DB.QueryRowContext(ctx, `SELECT id, name, strength FROM teams WHERE id = $1`, id).
		Scan(&t.ID, &t.Name, &t.Strength)
	if errors.Is(err, sql.ErrNoRows) {
		return league.Team{}, fmt.Errorf("team %d: %w", id, league.ErrNotFound)
	}
	if err != nil {
		return league.Team{}, fmt.Errorf("querying team %d: %w", id, err)
	}
	return t, nil
}

func (s *Store) SaveTeams(ctx context.Context, teams []league.Team) error {
	const q = `
    INSERT INTO teams (id, name, strength)
    VALUES ($1, $2, $3)
    ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, strength = EXCLUDED.strength
    `
	return s.inTx(ctx, "SaveTeams", func(tx *sql.Tx) error {
		for _, t := range teams {
			if _, err := tx.ExecContext(ctx, q, t.ID, t.Name, t.Strength); err != nil {
				return fmt.Errorf("inserting team %d (%s): %w", t.ID, t.Name, err)
			}
		}
		return nil
	})
}

func (s *Store) UpdateTeam(ctx context.Context, t league.Team) error {
	res, err := s.DB.ExecContext(ctx,
		`UPDATE teams SET name = $1, strength = $2 WHERE id = $3`,
		t.Name, t.Strength, t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating team %d: %w", t.ID, err)
	}
	return expectRow(res, fmt.Sprintf("team %d", t.ID))
}

func (s *Store) DeleteTeams(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, `DELETE FROM teams`); err != nil {
		return fmt.Errorf("deleting all teams: %w", err)
	}
	return nil
}

const matchColumns = `id, matchday, home_team_id, away_team_id, home_score, away_score, played_at`

func (s *Store) Matches(ctx context.Context) ([]league.Match, error) {
	return s.queryMatches(ctx, `SELECT `+matchColumns+` FROM matches ORDER BY matchday, id`)
}

func (s *Store) MatchesByMatchday(ctx context.Context, matchday int) ([]league.Match, error) {
	return s.queryMatches(ctx, `SELECT `+matchColumns+` FROM matches WHERE matchday = $1 ORDER BY id`, matchday)
}

func (s *Store) Match(ctx context.Context, id int) (league.Match, error) {
	matches, err := s.queryMatches(ctx, `SELECT `+matchColumns+` FROM matches WHERE id = $1`, id)
	if err != nil {
		return league.Match{}, err
	}
	if len(matches) == 0 {
		return league.Match{}, fmt.Errorf("match %d: %w", id, league.ErrNotFound)
	}
	return matches[0], nil
}

// CreateMatches persists the season's fixtures as unplayed matches.
func (s *Store) CreateMatches(ctx context.Context, fixtures []league.Fixture) ([]league.Match, error) {
	const q = `
INSERT INTO matches (matchday, home_team_id, away_team_id)
VALUES ($1, $2, $3)
RETURNING id
`
	out := make([]league.Match, 0, len(fixtures))
	err := s.inTx(ctx, "CreateMatches", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, q)
		if err != nil {
			return fmt.Errorf("preparing insert: %w", err)
		}
		defer stmt.Close()
		for _, f := range fixtures {
			m := league.Match{Fixture: f}
			if err := stmt.QueryRowContext(ctx, f.Matchday, f.Home, f.Away).Scan(&m.ID); err != nil {
				return fmt.Errorf("saving match: %w", err)
			}
			out = append(out, m)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("fixtures stored", "matches", len(out))
	return out, nil
}

// SaveResults writes the score and played time of every match in one transaction.
func (s *Store) SaveResults(ctx context.Context, matches []league.Match) error {
	const q = `UPDATE matches
	SET home_score = $1, away_score = $2, played_at = $3 WHERE id = $4
		`
	return s.inTx(ctx, "SaveResults", func(tx *sql.Tx) error {
		for _, m := range matches {
			var home, away sql.NullInt64
			var at sql.NullTime
			if m.Score != nil {
				home = sql.NullInt64{Int64: int64(m.Score.Home), Valid: true}
				away = sql.NullInt64{Int64: int64(m.Score.Away), Valid: true}
			}
			if m.PlayedAt != nil {
				at = sql.NullTime{Time: *m.PlayedAt, Valid: true}
			}
			res, err := tx.ExecContext(ctx, q, home, away, at, m.ID)
			if err != nil {
				return fmt.Errorf("saving match %d: %w", m.ID, err)
			}
			if err := expectRow(res, fmt.Sprintf("match %d", m.ID)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) DeleteMatches(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, `TRUNCATE matches RESTART IDENTITY`); err != nil {
		return fmt.Errorf("deleting all matches: %w", err)
	}
	return nil
}

func (s *Store) queryMatches(ctx context.Context, q string, args ...any) ([]league.Match, error) {
	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying matches: %w", err)
	}
	defer rows.Close()

	var matches []league.Match
	for rows.Next() {
		var (
			m          league.Match
			home, away sql.NullInt64
			at         sql.NullTime
		)
		if err := rows.Scan(&m.ID, &m.Matchday, &m.Home, &m.Away, &home, &away, &at); err != nil {
			return nil, fmt.Errorf("scanning match: %w", err)
		}
		if home.Valid && away.Valid {
			m.Score = &league.Score{Home: int(home.Int64), Away: int(away.Int64)}
		}
		if at.Valid {
			t := at.Time
			m.PlayedAt = &t
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (s *Store) inTx(ctx context.Context, op string, fn func(*sql.Tx) error) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin %s tx: %w", op, err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s tx: %w", op, err)
	}
	return nil
}

func expectRow(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for %s: %w", what, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, league.ErrNotFound)
	}
	return nil
}
