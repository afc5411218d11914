package discord

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	idiscord "github.com/fadedpez/aceshigh/internal/discord"
	"github.com/fadedpez/aceshigh/internal/logging"
	"github.com/fadedpez/aceshigh/internal/types"
	"github.com/fadedpez/aceshigh/pkg/services/simulation"
	"github.com/fadedpez/aceshigh/pkg/services/statistics"
)

// DefaultMaxIterations caps /simulate when the config does not
const DefaultMaxIterations = 100000

// Config holds the dependencies of a Bot
type Config struct {
	Session     idiscord.SessionHandler
	AppID       string
	GuildID     string // Empty registers commands globally
	Simulations *simulation.Service
	Statistics  *statistics.Service
	// MaxIterations caps the iterations of a /simulate request
	MaxIterations int
	// RemoveCommands deletes the registered commands on Stop
	RemoveCommands bool
	Logger         *logging.Logger
}

// Bot represents the Discord bot instance
type Bot struct {
	session        idiscord.SessionHandler
	appID          string
	guildID        string
	simulations    *simulation.Service
	statistics     *statistics.Service
	maxIterations  int
	removeCommands bool
	logger         *logging.Logger

	registered []*discordgo.ApplicationCommand

	// One simulation at a time
	runMu sync.Mutex

	// Interaction tracking to prevent duplicates
	interactionMu         sync.Mutex
	processedInteractions map[string]time.Time
	lastCleanupTime       time.Time
}

// NewBot creates a new instance of the bot
func NewBot(cfg *Config) (*Bot, error) {
	if cfg == nil || cfg.Session == nil {
		return nil, fmt.Errorf("bot requires a Discord session")
	}
	if cfg.Simulations == nil || cfg.Statistics == nil {
		return nil, fmt.Errorf("bot requires simulation and statistics services")
	}

	bot := &Bot{
		session:               cfg.Session,
		appID:                 cfg.AppID,
		guildID:               cfg.GuildID,
		simulations:           cfg.Simulations,
		statistics:            cfg.Statistics,
		maxIterations:         cfg.MaxIterations,
		removeCommands:        cfg.RemoveCommands,
		logger:                cfg.Logger,
		processedInteractions: make(map[string]time.Time),
		lastCleanupTime:       time.Now(),
	}
	if bot.maxIterations <= 0 {
		bot.maxIterations = DefaultMaxIterations
	}
	if bot.logger == nil {
		bot.logger = logging.Default
	}

	return bot, nil
}

// Start registers the interaction handler, connects to Discord and registers the slash commands
func (b *Bot) Start() error {
	b.session.AddHandler(func(_ *discordgo.Session, i *discordgo.InteractionCreate) {
		b.handleInteraction(context.Background(), i)
	})

	// Open websocket connection
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}

	// Register slash commands
	for _, command := range Commands() {
		created, err := b.session.ApplicationCommandCreate(b.appID, b.guildID, command)
		if err != nil {
			return fmt.Errorf("error creating command %s: %w", command.Name, err)
		}
		b.registered = append(b.registered, created)
		b.logger.Info("Registered command: %s", command.Name)
	}

	return nil
}

// Stop removes the registered commands when configured to and closes the Discord connection
func (b *Bot) Stop() error {
	if b.removeCommands {
		for _, command := range b.registered {
			if command == nil {
				continue
			}
			if err := b.session.ApplicationCommandDelete(b.appID, b.guildID, command.ID); err != nil {
				b.logger.Warn("Error deleting command %s: %v", command.Name, err)
			}
		}
		b.registered = nil
	}

	// Close websocket connection
	if err := b.session.Close(); err != nil {
		return fmt.Errorf("error closing connection: %w", err)
	}

	return nil
}

// markProcessed records an interaction and reports whether it had been seen before
func (b *Bot) markProcessed(id string) bool {
	b.interactionMu.Lock()
	defer b.interactionMu.Unlock()

	if _, processed := b.processedInteractions[id]; processed {
		return true
	}

	now := time.Now()
	b.processedInteractions[id] = now

	// Periodically forget interactions older than ten minutes
	if len(b.processedInteractions) > 100 && now.Sub(b.lastCleanupTime) > 5*time.Minute {
		for seen, at := range b.processedInteractions {
			if now.Sub(at) > 10*time.Minute {
				delete(b.processedInteractions, seen)
			}
		}
		b.lastCleanupTime = now
	}
	return false
}

func (b *Bot) handleInteraction(ctx context.Context, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	if b.markProcessed(i.ID) {
		b.logger.Debug("Skipping already processed interaction: %s", i.ID)
		return
	}

	data := i.ApplicationCommandData()
	b.logger.Debug("Received application command: %s", data.Name)

	var (
		resp *idiscord.Response
		err  error
	)
	switch data.Name {
	case "crib":
		resp, err = b.handleCrib(data)
	case "discard":
		resp, err = b.handleDiscard(data)
	case "poker":
		resp, err = b.handlePoker(data)
	case "simulate":
		b.handleSimulate(ctx, i, data)
		return
	case "stats":
		resp, err = b.handleStats(ctx, data)
	default:
		err = types.NewGameError(types.ErrInvalidArgument, fmt.Sprintf("Unknown command: %s", data.Name))
	}

	if err != nil {
		b.logger.LogError(err)
		resp = idiscord.NewErrorResponse(err)
	}
	if err := idiscord.SendResponse(b.session, i, resp); err != nil {
		b.logger.Error("Error responding to %s: %v", data.Name, err)
	}
}
