package discord

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	idiscord "github.com/fadedpez/aceshigh/internal/discord"
	"github.com/fadedpez/aceshigh/internal/types"
	"github.com/fadedpez/aceshigh/pkg/entities"
	"github.com/fadedpez/aceshigh/pkg/services/cribbage"
	"github.com/fadedpez/aceshigh/pkg/services/poker"
	"github.com/fadedpez/aceshigh/pkg/services/simulation"
	"github.com/fadedpez/aceshigh/pkg/services/statistics"
)

const (
	simulateTimeout = 5 * time.Minute
	recentRunsLimit = 5
)

type options map[string]*discordgo.ApplicationCommandInteractionDataOption

func optionsOf(data discordgo.ApplicationCommandInteractionData) options {
	opts := make(options, len(data.Options))
	for _, opt := range data.Options {
		opts[opt.Name] = opt
	}
	return opts
}

func (o options) String(name string) string {
	if opt, ok := o[name]; ok {
		return strings.TrimSpace(opt.StringValue())
	}
	return ""
}

func (o options) Int(name string) (int64, bool) {
	if opt, ok := o[name]; ok {
		return opt.IntValue(), true
	}
	return 0, false
}

func (o options) Bool(name string) bool {
	if opt, ok := o[name]; ok {
		return opt.BoolValue()
	}
	return false
}

// parseCards parses a list of distinct cards and checks how many were given
func parseCards(raw string, minCards, maxCards int) (entities.Hand, error) {
	hand, err := entities.ParseHand(raw)
	if err != nil {
		return nil, err
	}
	if len(hand) < minCards || len(hand) > maxCards {
		if minCards == maxCards {
			return nil, types.NewInvalidHandError("Expected %d cards, got %d", minCards, len(hand))
		}
		return nil, types.NewInvalidHandError("Expected %d to %d cards, got %d", minCards, maxCards, len(hand))
	}

	seen := make(map[entities.Card]bool, len(hand))
	for _, card := range hand {
		if seen[card] {
			return nil, types.NewGameError(types.ErrInvalidArgument, fmt.Sprintf("%s appears more than once", card))
		}
		seen[card] = true
	}
	return hand, nil
}

func (b *Bot) handleCrib(data discordgo.ApplicationCommandInteractionData) (*idiscord.Response, error) {
	opts := optionsOf(data)

	hand, err := parseCards(opts.String("cards"), cribbage.HandSize, cribbage.HandSize)
	if err != nil {
		return nil, err
	}

	var cut *entities.Card
	if raw := opts.String("cut"); raw != "" {
		card, err := entities.ParseCard(raw)
		if err != nil {
			return nil, err
		}
		if hand.Contains(card) {
			return nil, types.NewGameError(types.ErrInvalidArgument, fmt.Sprintf("Cut card %s is already in the hand", card))
		}
		cut = &card
	}
	isCrib := opts.Bool("crib")

	breakdown, err := cribbage.ScoreBreakdown(hand, cut, isCrib)
	if err != nil {
		return nil, err
	}
	return idiscord.NewResponse("", breakdownEmbed(hand, cut, isCrib, breakdown)), nil
}

func (b *Bot) handleDiscard(data discordgo.ApplicationCommandInteractionData) (*idiscord.Response, error) {
	deal, err := parseCards(optionsOf(data).String("cards"), cribbage.DealSize, cribbage.DealSize)
	if err != nil {
		return nil, err
	}

	kept, score, err := cribbage.SelectBestDiscard(deal)
	if err != nil {
		return nil, err
	}
	return idiscord.NewResponse("", discardEmbed(deal, kept, score)), nil
}

func (b *Bot) handlePoker(data discordgo.ApplicationCommandInteractionData) (*idiscord.Response, error) {
	cards, err := parseCards(optionsOf(data).String("cards"), poker.HandSize, 7)
	if err != nil {
		return nil, err
	}

	best, category, err := poker.SelectBest(cards)
	if err != nil {
		return nil, err
	}
	return idiscord.NewResponse("", pokerEmbed(cards, best, category)), nil
}

func (b *Bot) handleSimulate(ctx context.Context, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	opts := optionsOf(data)

	respondError := func(err error) {
		b.logger.LogError(err)
		if err := idiscord.SendErrorResponse(b.session, i, err); err != nil {
			b.logger.Error("Error responding to simulate: %v", err)
		}
	}

	mode, err := entities.ParseMode(opts.String("mode"))
	if err != nil {
		respondError(err)
		return
	}

	iterations := min(simulation.DefaultIterations, b.maxIterations)
	if n, ok := opts.Int("iterations"); ok {
		if n < 1 {
			respondError(types.NewGameError(types.ErrInvalidArgument, "Iterations must be at least 1"))
			return
		}
		iterations = int(min(n, int64(b.maxIterations)))
	}

	if !b.runMu.TryLock() {
		respondError(types.NewGameError(types.ErrInvalidArgument, "A simulation is already running, try again shortly"))
		return
	}
	defer b.runMu.Unlock()

	if err := idiscord.DeferResponse(b.session, i); err != nil {
		b.logger.Error("Error deferring simulate response: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, simulateTimeout)
	defer cancel()

	var resp *idiscord.Response
	run, err := b.simulations.Run(ctx, simulation.RunInput{Mode: mode, Iterations: iterations})
	if err != nil {
		b.logger.LogError(err)
		resp = idiscord.NewErrorResponse(err)
	} else {
		resp = idiscord.NewResponse("", reportEmbed(statistics.BuildReport(run)))
	}

	if err := idiscord.EditResponse(b.session, i, resp); err != nil {
		b.logger.Error("Error editing simulate response: %v", err)
	}
}

func (b *Bot) handleStats(ctx context.Context, data discordgo.ApplicationCommandInteractionData) (*idiscord.Response, error) {
	opts := optionsOf(data)

	if id := opts.String("run"); id != "" {
		report, err := b.statistics.GetRunReport(ctx, id)
		if err != nil {
			return nil, err
		}
		return idiscord.NewResponse("", reportEmbed(report)), nil
	}

	if raw := opts.String("mode"); raw != "" {
		mode, err := entities.ParseMode(raw)
		if err != nil {
			return nil, err
		}
		report, err := b.statistics.CombinedReport(ctx, mode, statistics.DefaultReportLimit)
		if err != nil {
			return nil, err
		}
		if report.Iterations == 0 {
			return idiscord.NewEphemeralResponse(fmt.Sprintf("No %s runs stored yet", mode)), nil
		}
		return idiscord.NewResponse(fmt.Sprintf("Pooled recent %s runs", mode), reportEmbed(report)), nil
	}

	reports, err := b.statistics.ListReports(ctx, "", recentRunsLimit)
	if err != nil {
		return nil, err
	}
	if len(reports) == 0 {
		return idiscord.NewEphemeralResponse("No runs stored yet"), nil
	}

	var lines []string
	for _, report := range reports {
		lines = append(lines, fmt.Sprintf("`%s` %s, %d iterations, %s",
			report.RunID, report.Mode, report.Iterations, report.CompletedAt.Format(time.RFC3339)))
	}
	return idiscord.NewResponse("Recent runs:\n" + strings.Join(lines, "\n")), nil
}
