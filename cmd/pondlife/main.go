// Command pondlife hosts the amoeba pond simulation: an HTTP control plane
// by default, or a headless batch run with -steps.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/talgya/pondlife/internal/api"
	"github.com/talgya/pondlife/internal/config"
	"github.com/talgya/pondlife/internal/entropy"
	"github.com/talgya/pondlife/internal/metrics"
	"github.com/talgya/pondlife/internal/persistence"
	"github.com/talgya/pondlife/internal/sim"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (optional)")
	steps := flag.Int("steps", 0, "run N ticks headless and exit (0 = serve HTTP)")
	outDir := flag.String("out", "", "batch output directory (overrides config)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if *steps > 0 {
		seed := cfg.Sim.Seed
		if seed == 0 {
			seed = entropy.Seed()
		}
		dir := *outDir
		if dir == "" {
			dir = cfg.Output.Dir
		}
		if err := runBatch(cfg, seed, *steps, dir); err != nil {
			slog.Error("batch run failed", "error", err)
			os.Exit(1)
		}
		return
	}

	serve(cfg)
}

// runBatch runs one simulation to completion and writes its metrics to CSV
// and, when configured, the history database.
func runBatch(cfg *config.Config, seed int64, steps int, outDir string) error {
	instance, err := sim.New(cfg.Sim.Width, cfg.Sim.Height, cfg.Sim.Month, seed)
	if err != nil {
		return err
	}

	instance.Run(steps)
	records := instance.Metrics()
	summary := metrics.Summarize(records)

	slog.Info("batch run finished",
		"steps", steps,
		"final_population", summary.FinalPopulation,
		"peak_population", summary.PeakPopulation,
		"mean_population", fmt.Sprintf("%.2f", summary.MeanPopulation),
	)

	if outDir != "" {
		if err := os.MkdirAll(outDir, 0755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
		csvPath := filepath.Join(outDir, "metrics.csv")
		if err := metrics.WriteCSVFile(csvPath, records); err != nil {
			return err
		}
		slog.Info("metrics written", "path", csvPath)
	}

	if cfg.Output.DBPath != "" {
		os.MkdirAll(filepath.Dir(cfg.Output.DBPath), 0755)
		db, err := persistence.Open(cfg.Output.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()

		runID, err := db.SaveRun(cfg.Sim.Width, cfg.Sim.Height, cfg.Sim.Month, seed, records)
		if err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		slog.Info("run saved", "run_id", runID)
	}

	return nil
}

// serve runs the HTTP API until interrupted.
func serve(cfg *config.Config) {
	var db *persistence.DB
	if cfg.Output.DBPath != "" {
		os.MkdirAll(filepath.Dir(cfg.Output.DBPath), 0755)
		var err error
		db, err = persistence.Open(cfg.Output.DBPath)
		if err != nil {
			slog.Error("failed to open metrics database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		slog.Info("metrics database opened", "path", cfg.Output.DBPath)
	}

	server := &api.Server{
		Port:          cfg.Server.Port,
		AdminKey:      cfg.Server.AdminKey,
		DB:            db,
		DefaultWidth:  cfg.Sim.Width,
		DefaultHeight: cfg.Sim.Height,
		DefaultMonth:  cfg.Sim.Month,
	}
	if cfg.Server.AdminKey == "" {
		slog.Warn("no admin key configured — POST endpoints are open")
	}
	server.Start()

	fmt.Printf("pondlife API: http://localhost:%d/api/v1/status\n", cfg.Server.Port)
	fmt.Println("POST /api/v1/init then /api/v1/run to drive the pond. (Ctrl+C to stop)")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info("received signal, shutting down", "signal", sig)
}
