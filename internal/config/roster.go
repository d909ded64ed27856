package config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/NurlanMehdi/insider-champions-league/internal/league"
)

//go:embed teams.toml
var defaultRoster []byte

type rosterFile struct {
	Teams []rosterTeam `toml:"team"`
}

type rosterTeam struct {
	ID       int    `toml:"id"`
	Name     string `toml:"name"`
	Strength int    `toml:"strength"`
}

// DefaultRoster returns the built-in twenty clubs.
func DefaultRoster() ([]league.Team, error) {
	return ParseRoster(defaultRoster)
}

// LoadRoster reads a roster from path, or the built-in one when path is empty.
func LoadRoster(path string) ([]league.Team, error) {
	if path == "" {
		return DefaultRoster()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster file: %w", err)
	}
	teams, err := ParseRoster(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return teams, nil
}

// ParseRoster decodes a TOML roster of [[team]] tables and validates it.
func ParseRoster(data []byte) ([]league.Team, error) {
	var f rosterFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: parse roster: %v", league.ErrInvalidArgument, err)
	}
	teams := make([]league.Team, len(f.Teams))
	for i, t := range f.Teams {
		teams[i] = league.Team{ID: league.TeamID(t.ID), Name: t.Name, Strength: league.Strength(t.Strength)}
	}
	if err := league.ValidateRoster(teams); err != nil {
		return nil, err
	}
	return teams, nil
}

// MarshalRoster encodes teams in the format ParseRoster reads.
func MarshalRoster(teams []league.Team) ([]byte, error) {
	f := rosterFile{Teams: make([]rosterTeam, len(teams))}
	for i, t := range teams {
		f.Teams[i] = rosterTeam{ID: int(t.ID), Name: t.Name, Strength: int(t.Strength)}
	}
	data, err := toml.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("marshal roster: %w", err)
	}
	return data, nil
}
