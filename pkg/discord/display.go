package discord

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/fadedpez/aceshigh/pkg/entities"
	"github.com/fadedpez/aceshigh/pkg/services/cribbage"
	"github.com/fadedpez/aceshigh/pkg/services/poker"
	"github.com/fadedpez/aceshigh/pkg/services/statistics"
)

// Embed colours
const (
	colorCribbage = 0x2E8B57
	colorPoker    = 0x8B0000
	colorReport   = 0x1E90FF
)

func formatCards(cards entities.Hand) string {
	parts := make([]string, len(cards))
	for i, card := range cards {
		parts[i] = "`" + card.Pretty() + "`"
	}
	return strings.Join(parts, " ")
}

func breakdownEmbed(hand entities.Hand, cut *entities.Card, isCrib bool, b cribbage.Breakdown) *discordgo.MessageEmbed {
	title := "Hand"
	if isCrib {
		title = "Crib"
	}
	cutText := "none"
	if cut != nil {
		cutText = formatCards(entities.Hand{*cut})
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s scores %d", title, b.Total),
		Description: fmt.Sprintf("%s\nCut: %s", formatCards(hand), cutText),
		Color:       colorCribbage,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Fifteens", Value: fmt.Sprint(b.Fifteens), Inline: true},
			{Name: "Pairs", Value: fmt.Sprint(b.Pairs), Inline: true},
			{Name: "Runs", Value: fmt.Sprint(b.Runs), Inline: true},
			{Name: "Flush", Value: fmt.Sprint(b.Flush), Inline: true},
			{Name: "Nobs", Value: fmt.Sprint(b.Nobs), Inline: true},
		},
	}
}

func discardEmbed(deal, kept entities.Hand, score int) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Keep for %d points", score),
		Description: formatCards(deal),
		Color:       colorCribbage,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Keep", Value: formatCards(kept)},
			{Name: "Discard", Value: formatCards(cribbage.Discards(deal, kept))},
		},
	}
}

func pokerEmbed(cards, best entities.Hand, category poker.Category) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       category.Title(),
		Description: formatCards(cards),
		Color:       colorPoker,
	}
	if len(cards) > poker.HandSize {
		embed.Fields = []*discordgo.MessageEmbedField{
			{Name: "Best five", Value: formatCards(best)},
		}
	}
	return embed
}

func reportEmbed(report *statistics.Report) *discordgo.MessageEmbed {
	var table strings.Builder
	table.WriteString("```\n")
	for _, row := range report.Rows {
		if report.Mode.IsPoker() {
			fmt.Fprintf(&table, "%-15s %8d %11s  %s\n", row.Label, row.Count, report.FormatPercent(row), row.Expected)
		} else {
			fmt.Fprintf(&table, "%3s %8d %8s\n", row.Label, row.Count, report.FormatPercent(row))
		}
	}
	table.WriteString("```")

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s: %d iterations", report.Mode, report.Iterations),
		Description: table.String(),
		Color:       colorReport,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Run %s, %d workers, %s", report.RunID, report.Workers, report.Elapsed.Round(time.Millisecond)),
		},
	}
	if !report.Mode.IsPoker() {
		embed.Fields = []*discordgo.MessageEmbedField{
			{Name: "Mean score", Value: fmt.Sprintf("%.3f", report.Mean), Inline: true},
		}
	}
	return embed
}
