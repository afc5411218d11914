package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/fadedpez/aceshigh/internal/app"
	"github.com/fadedpez/aceshigh/internal/config"
	idiscord "github.com/fadedpez/aceshigh/internal/discord"
	"github.com/fadedpez/aceshigh/internal/logging"
	"github.com/fadedpez/aceshigh/pkg/discord"
	"github.com/fadedpez/aceshigh/pkg/scheduler"
	"github.com/fadedpez/aceshigh/pkg/services/simulation"
	"github.com/fadedpez/aceshigh/pkg/services/statistics"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	if err := cfg.ValidateDiscord(); err != nil {
		log.Fatal(err)
	}
	logger := logging.NewLogger(logging.ParseLevel(cfg.LogLevel))

	// Initialize repository
	store, err := app.OpenStorage(cfg.Storage, logger)
	if err != nil {
		logger.Warn("%v", err)
		logger.Warn("Falling back to in-memory repository")
		store, _ = app.OpenStorage(config.StorageConfig{Type: config.StorageMemory}, logger)
	}
	defer store.Close()

	simulations, err := simulation.NewService(&simulation.Config{
		Repository: store.Runs,
		Logger:     logger,
	})
	if err != nil {
		log.Fatalf("Error creating simulation service: %v", err)
	}

	session, err := idiscord.NewSession(cfg.Discord.Token)
	if err != nil {
		log.Fatalf("Error creating Discord session: %v", err)
	}

	// Create new bot instance with repository
	bot, err := discord.NewBot(&discord.Config{
		Session:        session,
		AppID:          cfg.Discord.AppID,
		GuildID:        cfg.Discord.GuildID,
		Simulations:    simulations,
		Statistics:     statistics.NewService(store.Runs),
		MaxIterations:  cfg.Simulation.MaxIterations,
		RemoveCommands: cfg.IsDevelopment(),
		Logger:         logger,
	})
	if err != nil {
		log.Fatalf("Error creating bot: %v", err)
	}

	// Keep the search index in step with the base repository
	if store.Indexer != nil {
		maintenance := scheduler.NewElasticsearchMaintenanceScheduler(store.Indexer, cfg.Storage.Elasticsearch.SyncInterval, logger)
		maintenance.Start(context.Background())
		defer maintenance.Stop()
	}

	// Start the bot
	if err := bot.Start(); err != nil {
		log.Fatalf("Error starting bot: %v", err)
	}

	logger.Info("Bot is running. Press Ctrl+C to exit")

	// Wait for interrupt signal to gracefully shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	// Cleanup and exit
	logger.Info("Shutting down...")
	if err := bot.Stop(); err != nil {
		logger.Error("Error stopping bot: %v", err)
	}
}
