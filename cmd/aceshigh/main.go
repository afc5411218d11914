package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"

	"github.com/fadedpez/aceshigh/internal/app"
	"github.com/fadedpez/aceshigh/internal/config"
	"github.com/fadedpez/aceshigh/internal/logging"
	"github.com/fadedpez/aceshigh/pkg/entities"
	"github.com/fadedpez/aceshigh/pkg/scheduler"
	"github.com/fadedpez/aceshigh/pkg/services/simulation"
	"github.com/fadedpez/aceshigh/pkg/services/statistics"
	"github.com/fadedpez/aceshigh/pkg/storage"
)

func main() {
	modeName := flag.String("mode", string(entities.ModeCribbage), "Simulation mode: cribbage, crib_collect, poker or poker_7")
	iterations := flag.Int("max", 0, "Number of deals (0 uses the configured default)")
	workers := flag.Int("workers", 0, "Worker goroutines (0 uses the configured default)")
	seed := flag.Int64("seed", 0, "Random seed (0 seeds from the clock)")
	configPath := flag.String("config", "", "Path to a YAML config file")
	truncate := flag.Bool("truncate", false, "Start a new crib hand file instead of appending")
	flag.Parse()

	if err := run(*modeName, *iterations, *workers, *seed, *configPath, *truncate); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func run(modeName string, iterations, workers int, seed int64, configPath string, truncate bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	logger := logging.NewLogger(logging.ParseLevel(cfg.LogLevel))

	mode, err := entities.ParseMode(modeName)
	if err != nil {
		return err
	}
	if iterations <= 0 {
		iterations = cfg.Simulation.Iterations
	}
	if workers <= 0 {
		workers = cfg.Simulation.Workers
	}

	store, err := app.OpenStorage(cfg.Storage, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	var writer storage.HandWriter
	if mode == entities.ModeCribCollect {
		handFile, err := app.OpenHandFile(cfg.Storage.HandsFile, truncate)
		if err != nil {
			return err
		}
		defer handFile.Close()
		writer = handFile
		logger.Info("Collecting crib hands in %s", handFile.Path())
	}

	service, err := simulation.NewService(&simulation.Config{
		Repository: store.Runs,
		Writer:     writer,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	progress := scheduler.NewScheduler(logger)
	progress.AddTask("progress", time.Second, func(context.Context) error {
		done, total := service.Progress()
		if total > 0 {
			logger.Info("%d/%d iterations", done, total)
		}
		return nil
	})
	progress.Start(ctx)

	pterm.DefaultHeader.Printfln("aceshigh %s: %d iterations on %d workers", mode, iterations, workers)

	result, err := service.Run(ctx, simulation.RunInput{
		Mode:       mode,
		Iterations: iterations,
		Workers:    workers,
		Seed:       seed,
	})
	progress.Stop()
	if err != nil {
		return err
	}

	table, err := renderReport(statistics.BuildReport(result))
	if err != nil {
		return err
	}
	pterm.Println(table)
	pterm.Success.Printfln("Run %s finished in %s", result.ID, result.Elapsed.Round(time.Millisecond))
	return nil
}
