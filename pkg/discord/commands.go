package discord

import (
	"github.com/bwmarrin/discordgo"

	"github.com/fadedpez/aceshigh/pkg/entities"
)

var minIterations = 1.0

func modeChoices() []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(entities.Modes))
	for _, mode := range entities.Modes {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  mode.String(),
			Value: mode.String(),
		})
	}
	return choices
}

// Commands defines all slash commands for the bot
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "crib",
			Description: "Score a cribbage hand",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "cards",
					Description: "Hand cards, e.g. 5H 5D 5C JS",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "cut",
					Description: "Cut card, e.g. 5S",
				},
				{
					Type:        discordgo.ApplicationCommandOptionBoolean,
					Name:        "crib",
					Description: "Score as the crib",
				},
			},
		},
		{
			Name:        "discard",
			Description: "Pick the best four cards to keep from a six card deal",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "cards",
					Description: "Six cards, e.g. 5H 5D 5C JS 2C 9D",
					Required:    true,
				},
			},
		},
		{
			Name:        "poker",
			Description: "Classify the best five card poker hand",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "cards",
					Description: "Five to seven cards, e.g. 10S JS QS KS AS",
					Required:    true,
				},
			},
		},
		{
			Name:        "simulate",
			Description: "Run a sampling simulation",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "mode",
					Description: "What to sample",
					Required:    true,
					Choices:     modeChoices(),
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "iterations",
					Description: "Number of deals",
					MinValue:    &minIterations,
				},
			},
		},
		{
			Name:        "stats",
			Description: "Show stored simulation results",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "mode",
					Description: "Pool the recent runs of a mode",
					Choices:     modeChoices(),
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "run",
					Description: "Show a single run by ID",
				},
			},
		},
	}
}
