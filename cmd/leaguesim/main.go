// Command leaguesim schedules, simulates and serves a round-robin league.
//
// Usage:
//
//	leaguesim serve
//	leaguesim migrate up
//	leaguesim schedule --teams teams.toml
//	leaguesim season --seed 42 --weeks
//	leaguesim odds --after 19 --runs 2000
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/NurlanMehdi/insider-champions-league/internal/api"
	"github.com/NurlanMehdi/insider-champions-league/internal/config"
	"github.com/NurlanMehdi/insider-champions-league/internal/league"
)

func main() {
	// Load .env from the working directory if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:          "leaguesim",
		Short:        "Round-robin league scheduler and simulator",
		SilenceUsage: true,
	}

	root.AddCommand(serveCmd())
	root.AddCommand(migrateCmd())
	root.AddCommand(scheduleCmd())
	root.AddCommand(rosterCmd())
	root.AddCommand(seasonCmd())
	root.AddCommand(oddsCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// serve command
// --------------------------------------------------------------------------

func serveCmd() *cobra.Command {
	var accessLog bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(func(ctx context.Context, a *app) error {
				if err := a.seedIfEmpty(ctx); err != nil {
					return err
				}

				opts := api.Options{
					CORSAllowOrigins:  a.cfg.CORSAllowOrigins,
					RateLimitEnabled:  a.cfg.RateLimitEnabled,
					RateLimitRequests: a.cfg.RateLimitRequests,
					RateLimitWindow:   a.cfg.RateLimitWindow,
					Roster:            func() ([]league.Team, error) { return config.LoadRoster(a.cfg.TeamsFile) },
					OddsRuns:          a.cfg.OddsRuns,
				}
				if accessLog {
					opts.AccessLog = os.Stdout
				}

				srv := &http.Server{
					Addr:         a.cfg.Addr(),
					Handler:      api.NewRouter(a.league, opts, a.log),
					ReadTimeout:  10 * time.Second,
					WriteTimeout: 60 * time.Second,
					IdleTimeout:  60 * time.Second,
				}

				errc := make(chan error, 1)
				go func() {
					a.log.Info("starting league API", "addr", srv.Addr, "in_memory", a.cfg.InMemory())
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						errc <- err
					}
					close(errc)
				}()

				select {
				case err := <-errc:
					return err
				case <-ctx.Done():
				}
				a.log.Info("shutting down")

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					a.log.Error("shutdown error", "error", err)
				}
				a.log.Info("server stopped")
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&accessLog, "access-log", true, "Write combined access logs to stdout")
	return cmd
}
