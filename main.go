package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/dooders/config"
	"github.com/pthm-cable/dooders/history"
	"github.com/pthm-cable/dooders/model"
	"github.com/pthm-cable/dooders/telemetry"
	"github.com/pthm-cable/dooders/terminal"
	"github.com/pthm-cable/dooders/ui"
)

// headlessBatch is the number of ticks run between extinction checks.
const headlessBatch = 100

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	tui := flag.Bool("tui", false, "Render in the terminal instead of a window")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	historyBackend := flag.String("history", "", "Run history backend: memory or sqlite (empty = use config)")
	historyDB := flag.String("history-db", "", "SQLite file for run history (empty = use config)")
	listRuns := flag.Bool("list-runs", false, "List stored runs and exit (the memory backend never has any)")
	interval := flag.Duration("interval", terminal.DefaultInterval, "Time between steps in terminal mode")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *historyBackend != "" {
		cfg.History.Backend = *historyBackend
	}
	if *historyDB != "" {
		cfg.History.Path = *historyDB
	}

	if *interval <= 0 {
		slog.Error("interval must be positive", "interval", *interval)
		os.Exit(1)
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	store, err := history.NewStore(cfg.History.Backend, cfg.History.Path)
	if err != nil {
		slog.Error("failed to create history store", "error", err)
		os.Exit(1)
	}
	if err := store.Init(ctx); err != nil {
		slog.Error("failed to open history store", "backend", cfg.History.Backend, "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := history.CloseIfSupported(store); err != nil {
			slog.Error("failed to close history store", "error", err)
		}
	}()

	if *listRuns {
		if err := printRuns(ctx, store); err != nil {
			slog.Error("failed to list runs", "error", err)
			os.Exit(1)
		}
		return
	}

	var output *telemetry.OutputManager
	if *outputDir != "" {
		output, err = telemetry.NewOutputManager(*outputDir)
		if err != nil {
			slog.Error("failed to create output manager", "error", err)
			os.Exit(1)
		}
		defer output.Close()
		slog.Info("writing run output", "dir", output.Dir())
		if err := output.WriteConfig(cfg); err != nil {
			slog.Error("failed to write config snapshot", "error", err)
		}
	}

	opts := model.Options{
		Seed:     rngSeed,
		LogStats: *logStats,
		Output:   output,
	}

	// Runs are saved even after an interrupt, so persistence ignores ctx.
	saveRun := func(m *model.Model) {
		run, err := history.SaveModel(context.Background(), store, m)
		if err != nil {
			slog.Error("failed to save run", "error", err)
			return
		}
		slog.Info("run saved", "run_id", run.ID, "ticks", run.Ticks, "backend", cfg.History.Backend)
	}

	switch {
	case *headless:
		m, err := model.New(cfg, opts)
		if err != nil {
			slog.Error("failed to build model", "error", err)
			os.Exit(1)
		}
		slog.Info("starting headless simulation", "seed", rngSeed, "max_ticks", *maxTicks)
		runHeadless(ctx, m, *maxTicks)
		saveRun(m)

	case *tui:
		m, err := model.New(cfg, opts)
		if err != nil {
			slog.Error("failed to build model", "error", err)
			os.Exit(1)
		}
		// Logs would scribble over the screen.
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
		if err := runTerminal(ctx, m, *interval, *maxTicks); err != nil {
			slog.Error("terminal viewer failed", "error", err)
		}
		slog.SetDefault(logger)
		saveRun(m)

	default:
		viewer, err := ui.NewViewer(cfg, ui.ViewerOptions{
			Model:    opts,
			MaxTicks: *maxTicks,
			OnRunEnd: saveRun,
		})
		if err != nil {
			slog.Error("failed to build model", "error", err)
			os.Exit(1)
		}
		if err := viewer.Run(ctx); err != nil && ctx.Err() == nil {
			slog.Error("viewer failed", "error", err)
		}
	}
}

// runHeadless steps m until maxTicks, extinction or interrupt.
func runHeadless(ctx context.Context, m *model.Model, maxTicks int) {
	for m.Running() {
		n := headlessBatch
		if maxTicks > 0 {
			n = min(n, maxTicks-m.Tick())
			if n <= 0 {
				slog.Info("max ticks reached", "tick", m.Tick())
				return
			}
		}
		if err := m.Run(ctx, n); err != nil {
			slog.Info("simulation interrupted", "tick", m.Tick())
			return
		}
	}
}

func runTerminal(ctx context.Context, m *model.Model, interval time.Duration, maxTicks int) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	err = terminal.New(screen, m, interval, maxTicks).Run(ctx)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func printRuns(ctx context.Context, store history.Store) error {
	runs, err := store.ListRuns(ctx)
	if err != nil {
		return err
	}
	for _, r := range runs {
		fmt.Printf("%s  seed=%d  ticks=%d  started=%s\n", r.ID, r.Seed, r.Ticks, r.StartedAt.Format(time.RFC3339))
	}
	return nil
}
