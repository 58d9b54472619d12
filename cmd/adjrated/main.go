// Command adjrated computes adjusted efficiency ratings for a season
// stored in SQL and serves them over HTTP.
//
// Usage:
//
//	adjrated -config config.yaml         # solve, serve, watch the config
//	adjrated -config config.yaml -once   # solve, print a table, exit
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"sync"
	"syscall"
	"time"

	_ "github.com/glebarez/go-sqlite"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/courtmetrics/adjrate/adjust"
	"github.com/courtmetrics/adjrate/api"
	"github.com/courtmetrics/adjrate/config"
	"github.com/courtmetrics/adjrate/store"
)

func main() {
	if err := run(); err != nil {
		slog.Error("adjrated: fatal", "err", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	once := flag.Bool("once", false, "solve once, print the ratings table, and exit")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	// Local overrides (DSN credentials etc.); absence is not an error.
	if err := godotenv.Load(); err == nil {
		slog.Info("loaded environment from .env")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.Store.Driver, cfg.Store.EffectiveDSN())
	if err != nil {
		return err
	}
	defer st.Close()
	if err := st.Init(); err != nil {
		return err
	}

	app := &daemon{store: st, cfg: cfg}

	if *once {
		res, err := app.solve(context.Background())
		if err != nil {
			return err
		}
		printTable(os.Stdout, res)

		return nil
	}

	return app.serve(context.Background(), *configPath)
}

// daemon ties the store, the live configuration, and the served snapshot
// together.
type daemon struct {
	store *store.Store

	mu  sync.RWMutex
	cfg *config.Config
}

func (d *daemon) config() *config.Config {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.cfg
}

func (d *daemon) setConfig(cfg *config.Config) {
	d.mu.Lock()
	d.cfg = cfg
	d.mu.Unlock()
}

// solve reloads the season from the store, runs the solver with the
// current configuration, and persists the result.
func (d *daemon) solve(ctx context.Context) (*adjust.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := d.config()

	seas, err := d.store.LoadSeason()
	if err != nil {
		return nil, err
	}
	priors, err := d.store.LoadPriors()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := adjust.Solve(seas, cfg.Solver.Options(priors)...)
	if err != nil {
		return nil, err
	}
	slog.Info("solved season",
		"teams", seas.TeamCount(),
		"games", seas.GameCount(),
		"status", res.Status.String(),
		"iterations", res.Iterations,
		"max_delta", res.MaxDelta,
		"took", time.Since(start).String(),
	)

	if err := d.store.SaveRatings(res, time.Now().UTC()); err != nil {
		return nil, err
	}

	return res, nil
}

// serve runs the HTTP API until interrupted, recomputing on demand and
// whenever the configuration file changes.
func (d *daemon) serve(ctx context.Context, configPath string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	holder := &api.Holder{}

	// Initial solve; an empty season is tolerable at startup, the API
	// reports it and POST /recompute can fill it in later.
	if res, err := d.solve(ctx); err != nil {
		if !errors.Is(err, adjust.ErrNoGames) {
			return err
		}
		slog.Warn("no games stored yet, serving empty")
	} else {
		holder.Set(res, time.Now().UTC())
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", d.config().Server.HTTPPort),
		Handler:           api.New(holder, d.solve),
		ReadHeaderTimeout: 5 * time.Second,
	}

	watchErr := make(chan error, 1)
	go func() {
		watchErr <- config.Watch(ctx, configPath, func(cfg *config.Config) {
			d.setConfig(cfg)
			res, err := d.solve(ctx)
			if err != nil {
				slog.Error("recompute after config reload failed", "err", err)
				return
			}
			holder.Set(res, time.Now().UTC())
		})
	}()

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("http listening", "addr", srv.Addr)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		return err
	case err := <-watchErr:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

// printTable writes a fixed-width ratings table, best net first.
func printTable(w *os.File, res *adjust.Result) {
	type row struct {
		team string
		r    adjust.Rating
	}
	rows := make([]row, 0, len(res.Ratings))
	for team, r := range res.Ratings {
		rows = append(rows, row{team, r})
	}
	sort.Slice(rows, func(i, j int) bool {
		if ni, nj := rows[i].r.Net(), rows[j].r.Net(); ni != nj {
			return ni > nj
		}
		return rows[i].team < rows[j].team
	})

	fmt.Fprintf(w, "status: %s (%d iterations, max delta %.2g)\n\n", res.Status, res.Iterations, res.MaxDelta)
	fmt.Fprintf(w, "%-4s %-12s %8s %8s %8s %6s\n", "#", "TEAM", "OFF", "DEF", "NET", "GAMES")
	for i, r := range rows {
		fmt.Fprintf(w, "%-4d %-12s %8.4f %8.4f %+8.4f %6d\n",
			i+1, r.team, r.r.Off, r.r.Def, r.r.Net(), r.r.Games)
	}
}
