package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/NurlanMehdi/insider-champions-league/internal/config"
	"github.com/NurlanMehdi/insider-champions-league/internal/league"
	"github.com/NurlanMehdi/insider-champions-league/internal/store"
)

// --------------------------------------------------------------------------
// migrate command
// --------------------------------------------------------------------------

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply or roll back the database schema",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cfg.InMemory() {
				return fmt.Errorf("DATABASE_URL is required")
			}
			logger := newLogger(cfg.LogLevel)

			st, err := store.NewStore(cmd.Context(), cfg.DatabaseURL, logger)
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer st.Close()

			if len(args) == 1 && args[0] == "down" {
				if err := st.Rollback(); err != nil {
					return err
				}
				logger.Info("schema rolled back")
				return nil
			}
			return st.Migrate()
		},
	}
}

// --------------------------------------------------------------------------
// schedule command
// --------------------------------------------------------------------------

func scheduleCmd() *cobra.Command {
	var teamsFile string
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Print the double round-robin fixture list for a roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			if teamsFile == "" {
				teamsFile = os.Getenv("TEAMS_FILE")
			}
			teams, err := config.LoadRoster(teamsFile)
			if err != nil {
				return err
			}
			ids := make([]league.TeamID, len(teams))
			for i, t := range teams {
				ids[i] = t.ID
			}
			season, err := league.GenerateSchedule(ids)
			if err != nil {
				return err
			}
			label := fmt.Sprintf("%d teams, %d weeks", len(teams), len(season))
			return league.WriteSchedule(cmd.OutOrStdout(), label, season, league.NamesOf(teams))
		},
	}
	cmd.Flags().StringVar(&teamsFile, "teams", "", "TOML roster file (default: TEAMS_FILE or the built-in clubs)")
	return cmd
}

// --------------------------------------------------------------------------
// roster command
// --------------------------------------------------------------------------

func rosterCmd() *cobra.Command {
	var teamsFile string
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Print the roster in use as TOML, ready to edit and pass to --teams",
		RunE: func(cmd *cobra.Command, args []string) error {
			if teamsFile == "" {
				teamsFile = os.Getenv("TEAMS_FILE")
			}
			teams, err := config.LoadRoster(teamsFile)
			if err != nil {
				return err
			}
			data, err := config.MarshalRoster(teams)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVar(&teamsFile, "teams", "", "TOML roster file (default: TEAMS_FILE or the built-in clubs)")
	return cmd
}

// --------------------------------------------------------------------------
// season command
// --------------------------------------------------------------------------

func seasonCmd() *cobra.Command {
	var (
		teamsFile string
		seed      int64
		weekly    bool
		events    bool
	)
	cmd := &cobra.Command{
		Use:   "season",
		Short: "Simulate a full season in memory and print the final table",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOffline(offlineTweak(cmd, teamsFile, seed), func(ctx context.Context, a *app) error {
				if err := a.seedIfEmpty(ctx); err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				start := time.Now()

				switch {
				case weekly:
					if err := playWeeks(ctx, a, 0, out); err != nil {
						return err
					}
				case events:
					if _, err := a.league.SimulateAll(ctx); err != nil {
						return err
					}
				default:
					if _, err := a.league.SimulateAllFast(ctx); err != nil {
						return err
					}
				}
				a.log.Info("season finished", "duration", time.Since(start).Round(time.Millisecond))

				snap, err := a.league.Standings(ctx)
				if err != nil {
					return err
				}
				return league.WriteTable(out, "Final table", snap.Table, snap.Names)
			})
		},
	}
	cmd.Flags().StringVar(&teamsFile, "teams", "", "TOML roster file (default: TEAMS_FILE or the built-in clubs)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed (default: SIM_SEED or random)")
	cmd.Flags().BoolVar(&weekly, "weeks", false, "Simulate and print week by week")
	cmd.Flags().BoolVar(&events, "events", false, "Simulate match by match with events instead of in bulk")
	return cmd
}

// --------------------------------------------------------------------------
// odds command
// --------------------------------------------------------------------------

func oddsCmd() *cobra.Command {
	var (
		teamsFile string
		seed      int64
		after     int
		runs      int
	)
	cmd := &cobra.Command{
		Use:   "odds",
		Short: "Estimate title odds, optionally after playing some weeks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOffline(offlineTweak(cmd, teamsFile, seed), func(ctx context.Context, a *app) error {
				if err := a.seedIfEmpty(ctx); err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if after > 0 {
					if err := playWeeks(ctx, a, after, nil); err != nil {
						return err
					}
				}

				snap, err := a.league.Standings(ctx)
				if err != nil {
					return err
				}
				if err := league.WriteTable(out, fmt.Sprintf("Table after week %d", after), snap.Table, snap.Names); err != nil {
					return err
				}
				if err := league.WriteProjections(out, "Forecast", snap.Predictions, snap.Names); err != nil {
					return err
				}

				if runs == 0 {
					runs = a.cfg.OddsRuns
				}
				preds, err := a.league.ChampionshipOdds(ctx, runs)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Title odds (%d runs)\n", runs)
				return league.WriteOdds(out, preds, snap.Names)
			})
		},
	}
	cmd.Flags().StringVar(&teamsFile, "teams", "", "TOML roster file (default: TEAMS_FILE or the built-in clubs)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed (default: SIM_SEED or random)")
	cmd.Flags().IntVar(&after, "after", 0, "Weeks to simulate before estimating")
	cmd.Flags().IntVar(&runs, "runs", 0, "Monte Carlo runs (default: ODDS_RUNS)")
	return cmd
}

// --------------------------------------------------------------------------
// Shared helpers
// --------------------------------------------------------------------------

// offlineTweak applies the --teams and --seed flags over the environment.
func offlineTweak(cmd *cobra.Command, teamsFile string, seed int64) func(*config.Config) {
	return func(cfg *config.Config) {
		if teamsFile != "" {
			cfg.TeamsFile = teamsFile
		}
		if cmd.Flags().Changed("seed") {
			cfg.SimSeed = seed
		}
	}
}

// playWeeks simulates weeks 1..upTo (every week when upTo is 0) and prints
// each week's results to out when it is not nil.
func playWeeks(ctx context.Context, a *app, upTo int, out io.Writer) error {
	p, err := a.league.Progress(ctx)
	if err != nil {
		return err
	}
	last := p.TotalWeeks
	if upTo > 0 {
		last = min(upTo, last)
	}
	teams, err := a.league.Teams(ctx)
	if err != nil {
		return err
	}
	names := league.NamesOf(teams)
	for week := 1; week <= last; week++ {
		matches, err := a.league.SimulateWeek(ctx, week)
		if err != nil {
			return err
		}
		if out != nil {
			if err := league.WriteResults(out, week, matches, names); err != nil {
				return err
			}
		}
	}
	return nil
}
