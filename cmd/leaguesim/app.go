package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/NurlanMehdi/insider-champions-league/internal/config"
	"github.com/NurlanMehdi/insider-champions-league/internal/events"
	"github.com/NurlanMehdi/insider-champions-league/internal/league"
	"github.com/NurlanMehdi/insider-champions-league/internal/memstore"
	"github.com/NurlanMehdi/insider-champions-league/internal/service"
	"github.com/NurlanMehdi/insider-champions-league/internal/store"
)

// app holds everything a command needs once configuration is resolved.
type app struct {
	cfg     *config.Config
	log     *slog.Logger
	league  *service.League
	closers []func()
}

func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// runApp handles config loading, store selection, event wiring and context
// cancellation for the serving commands.
func runApp(fn func(ctx context.Context, a *app) error) error {
	return run(false, nil, fn)
}

// runOffline is runApp with an in-memory store and no event publishing.
// tweak may adjust the loaded config before anything is built.
func runOffline(tweak func(*config.Config), fn func(ctx context.Context, a *app) error) error {
	return run(true, tweak, fn)
}

func run(offline bool, tweak func(*config.Config), fn func(ctx context.Context, a *app) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if tweak != nil {
		tweak(cfg)
	}
	if offline {
		cfg.DatabaseURL = ""
		cfg.KafkaBrokers = nil
	}

	a, err := newApp(ctx, cfg, newLogger(cfg.LogLevel))
	if err != nil {
		return err
	}
	defer a.close()
	return fn(ctx, a)
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	a := &app{cfg: cfg, log: logger}

	var (
		teams   service.TeamRepository
		matches service.MatchRepository
	)
	if cfg.InMemory() {
		mem := memstore.New()
		teams, matches = mem, mem
		logger.Debug("using in-memory store")
	} else {
		st, err := store.NewStore(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		a.closers = append(a.closers, func() { st.Close() })
		if err := st.Migrate(); err != nil {
			a.close()
			return nil, err
		}
		teams, matches = st, st
	}

	// match events are logged off the write path
	logCh := events.NewChannel(256)
	logCtx, stopLog := context.WithCancel(context.Background())
	logDone := make(chan struct{})
	go func() {
		defer close(logDone)
		logCh.Run(logCtx, league.NotifierFunc(func(ev league.MatchPlayed) {
			logger.Debug("match played",
				"match_id", ev.MatchID, "matchday", ev.Matchday,
				"score", fmt.Sprintf("%d-%d", ev.HomeScore, ev.AwayScore), "correction", ev.Correction)
		}))
	}()
	a.closers = append(a.closers, func() {
		stopLog()
		<-logDone
		if n := logCh.Dropped(); n > 0 {
			logger.Warn("match log lagged behind", "dropped", n)
		}
	})

	fanout := events.NewFanout(logCh)
	if len(cfg.KafkaBrokers) > 0 {
		pub := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		fanout.Subscribe(pub)

		pubCtx, stop := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			defer close(done)
			if err := pub.Run(pubCtx); err != nil {
				logger.Error("kafka publisher stopped", "error", err)
			}
		}()
		// runs before the store is closed
		a.closers = append([]func(){func() { stop(); <-done }}, a.closers...)
		logger.Info("publishing match events", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	a.league = service.New(teams, matches, simulator(cfg.SimSeed), service.Config{
		Notifier: fanout,
		Bulk:     league.BulkOptions{Workers: cfg.SimWorkers, BatchSize: cfg.SimBatchSize},
	}, logger)
	return a, nil
}

func simulator(seed int64) league.Simulator {
	if seed != 0 {
		return league.NewSeededSimulator(seed)
	}
	return league.NewRealisticSimulator(nil)
}

func (a *app) close() {
	for _, c := range a.closers {
		c()
	}
	a.closers = nil
}

// seedIfEmpty initializes the configured roster when no teams are stored.
func (a *app) seedIfEmpty(ctx context.Context) error {
	teams, err := a.league.Teams(ctx)
	if err != nil {
		return err
	}
	if len(teams) > 0 {
		return nil
	}
	roster, err := config.LoadRoster(a.cfg.TeamsFile)
	if err != nil {
		return err
	}
	if err := a.league.Initialize(ctx, roster); err != nil {
		return fmt.Errorf("initialize league: %w", err)
	}
	a.log.Info("league initialized", "teams", len(roster))
	return nil
}
