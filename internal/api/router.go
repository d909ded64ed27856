// Package api exposes the league service over HTTP under /api/league.
package api

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/NurlanMehdi/insider-champions-league/internal/league"
)

type Options struct {
	CORSAllowOrigins []string

	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Roster supplies the teams for an initialize request without a body.
	Roster   func() ([]league.Team, error)
	OddsRuns int

	// AccessLog receives Apache combined log lines; nil disables them.
	AccessLog io.Writer
}

// NewRouter creates the mux router with all routes and wraps it in the
// middleware stack.
func NewRouter(svc LeagueService, opts Options, logger *slog.Logger) http.Handler {
	log := logger.With("component", "api")
	h := &Handler{svc: svc, roster: opts.Roster, runs: max(1, opts.OddsRuns), log: log}
	if h.roster == nil {
		h.roster = func() ([]league.Team, error) { return nil, nil }
	}

	notFound := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "route not found")
	})
	notAllowed := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	})

	r := mux.NewRouter()
	r.NotFoundHandler, r.MethodNotAllowedHandler = notFound, notAllowed

	r.HandleFunc("/health", h.health).Methods("GET")
	r.HandleFunc("/api/league", h.standings).Methods("GET")

	lg := r.PathPrefix("/api/league").Subrouter()
	lg.NotFoundHandler, lg.MethodNotAllowedHandler = notFound, notAllowed
	lg.HandleFunc("/", h.standings).Methods("GET")
	lg.HandleFunc("/teams", h.teams).Methods("GET")
	lg.HandleFunc("/team/{teamId:[0-9]+}", h.updateTeam).Methods("PATCH")
	lg.HandleFunc("/week/{week:[0-9]+}", h.week).Methods("GET")
	lg.HandleFunc("/fixtures", h.fixtures).Methods("GET")
	lg.HandleFunc("/progress", h.progress).Methods("GET")
	lg.HandleFunc("/odds", h.odds).Methods("GET")
	lg.HandleFunc("/simulate-week", h.simulateWeek).Methods("POST")
	lg.HandleFunc("/simulate-all", h.simulateAll).Methods("POST")
	lg.HandleFunc("/match/{matchId:[0-9]+}/play", h.playMatch).Methods("POST")
	lg.HandleFunc("/match/{matchId:[0-9]+}", h.updateMatch).Methods("PUT")
	lg.HandleFunc("/reset", h.reset).Methods("POST")
	lg.HandleFunc("/initialize", h.initialize).Methods("POST")

	if opts.RateLimitEnabled {
		r.Use(RateLimitMiddleware(opts.RateLimitRequests, opts.RateLimitWindow))
	}

	// preflight requests are answered before route matching
	c := cors.New(cors.Options{
		AllowedOrigins:   opts.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
	})
	var handler http.Handler = c.Handler(r)
	handler = handlers.RecoveryHandler(handlers.RecoveryLogger(recoveryLogger{log}))(handler)
	if opts.AccessLog != nil {
		handler = handlers.CombinedLoggingHandler(opts.AccessLog, handler)
	}
	return handler
}
