package discord

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	discordmock "github.com/fadedpez/aceshigh/internal/discord/mock"
	"github.com/fadedpez/aceshigh/internal/logging"
	simrepo "github.com/fadedpez/aceshigh/pkg/repositories/simulation"
	"github.com/fadedpez/aceshigh/pkg/services/simulation"
	"github.com/fadedpez/aceshigh/pkg/services/statistics"
)

type BotTestSuite struct {
	suite.Suite
	session *discordmock.SessionHandler
	repo    *simrepo.MemoryRepository
	bot     *Bot
	ctx     context.Context
}

func TestBotSuite(t *testing.T) {
	suite.Run(t, new(BotTestSuite))
}

func (s *BotTestSuite) SetupTest() {
	s.session = &discordmock.SessionHandler{}
	s.session.Test(s.T())
	s.repo = simrepo.NewMemoryRepository()
	s.ctx = context.Background()

	logger := logging.NewLoggerWithWriter(logging.ERROR, io.Discard)
	simulations, err := simulation.NewService(&simulation.Config{Repository: s.repo, Logger: logger})
	s.Require().NoError(err)

	bot, err := NewBot(&Config{
		Session:        s.session,
		AppID:          "app",
		GuildID:        "guild",
		Simulations:    simulations,
		Statistics:     statistics.NewService(s.repo),
		MaxIterations:  500,
		RemoveCommands: true,
		Logger:         logger,
	})
	s.Require().NoError(err)
	s.bot = bot
}

func (s *BotTestSuite) TearDownTest() {
	s.session.AssertExpectations(s.T())
}

func stringOption(name, value string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionString,
		Value: value,
	}
}

func intOption(name string, value int) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionInteger,
		Value: float64(value),
	}
}

func boolOption(name string, value bool) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionBoolean,
		Value: value,
	}
}

func command(id, name string, opts ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			ID:   id,
			Type: discordgo.InteractionApplicationCommand,
			Data: discordgo.ApplicationCommandInteractionData{
				Name:    name,
				Options: opts,
			},
		},
	}
}

// expectResponse captures the next immediate response
func (s *BotTestSuite) expectResponse(i *discordgo.InteractionCreate) *discordgo.InteractionResponse {
	captured := &discordgo.InteractionResponse{}
	s.session.On("InteractionRespond", i.Interaction, mock.MatchedBy(func(r *discordgo.InteractionResponse) bool {
		return r.Type == discordgo.InteractionResponseChannelMessageWithSource
	})).Run(func(args mock.Arguments) {
		*captured = *args.Get(1).(*discordgo.InteractionResponse)
	}).Return(nil).Once()
	return captured
}

// expectDeferredEdit captures the edit that follows a deferred response
func (s *BotTestSuite) expectDeferredEdit(i *discordgo.InteractionCreate) *discordgo.WebhookEdit {
	captured := &discordgo.WebhookEdit{}
	s.session.On("InteractionRespond", i.Interaction, mock.MatchedBy(func(r *discordgo.InteractionResponse) bool {
		return r.Type == discordgo.InteractionResponseDeferredChannelMessageWithSource
	})).Return(nil).Once()
	s.session.On("InteractionResponseEdit", i.Interaction, mock.Anything).Run(func(args mock.Arguments) {
		*captured = *args.Get(1).(*discordgo.WebhookEdit)
	}).Return(&discordgo.Message{}, nil).Once()
	return captured
}

func (s *BotTestSuite) TestNewBotValidation() {
	_, err := NewBot(nil)
	s.Error(err)

	_, err = NewBot(&Config{Session: s.session})
	s.Error(err)
}

func (s *BotTestSuite) TestStartAndStop() {
	s.session.On("AddHandler", mock.Anything).Return(func() {}).Once()
	s.session.On("Open").Return(nil).Once()
	for _, cmd := range Commands() {
		cmd := cmd
		s.session.On("ApplicationCommandCreate", "app", "guild", mock.MatchedBy(func(c *discordgo.ApplicationCommand) bool {
			return c.Name == cmd.Name
		})).Return(&discordgo.ApplicationCommand{ID: cmd.Name + "-id", Name: cmd.Name}, nil).Once()
		s.session.On("ApplicationCommandDelete", "app", "guild", cmd.Name+"-id").Return(nil).Once()
	}
	s.session.On("Close").Return(nil).Once()

	s.Require().NoError(s.bot.Start())
	s.Len(s.bot.registered, 5)
	s.Require().NoError(s.bot.Stop())
	s.Empty(s.bot.registered)
}

func (s *BotTestSuite) TestStartOpenFails() {
	s.session.On("AddHandler", mock.Anything).Return(func() {}).Once()
	s.session.On("Open").Return(errors.New("no gateway")).Once()

	s.Error(s.bot.Start())
}

func (s *BotTestSuite) TestCrib() {
	testCases := []struct {
		name  string
		opts  []*discordgo.ApplicationCommandInteractionDataOption
		title string
	}{
		{
			name:  "perfect hand",
			opts:  []*discordgo.ApplicationCommandInteractionDataOption{stringOption("cards", "5H 5D 5C JS"), stringOption("cut", "5S")},
			title: "Hand scores 29",
		},
		{
			name:  "four card flush in hand",
			opts:  []*discordgo.ApplicationCommandInteractionDataOption{stringOption("cards", "2H 4H 6H 8H"), stringOption("cut", "KS")},
			title: "Hand scores 4",
		},
		{
			name:  "four card flush in crib",
			opts:  []*discordgo.ApplicationCommandInteractionDataOption{stringOption("cards", "2H 4H 6H 8H"), stringOption("cut", "KS"), boolOption("crib", true)},
			title: "Crib scores 0",
		},
		{
			name:  "no cut",
			opts:  []*discordgo.ApplicationCommandInteractionDataOption{stringOption("cards", "5H 10D JC QS")},
			title: "Hand scores 9",
		},
	}

	for n, tc := range testCases {
		s.Run(tc.name, func() {
			i := command(fmt.Sprintf("crib-%d", n), "crib", tc.opts...)
			resp := s.expectResponse(i)

			s.bot.handleInteraction(s.ctx, i)

			s.Require().Len(resp.Data.Embeds, 1)
			s.Equal(tc.title, resp.Data.Embeds[0].Title)
			s.Zero(resp.Data.Flags)
		})
	}
}

func (s *BotTestSuite) TestCribErrors() {
	testCases := []struct {
		name     string
		opts     []*discordgo.ApplicationCommandInteractionDataOption
		expected string
	}{
		{
			name:     "too few cards",
			opts:     []*discordgo.ApplicationCommandInteractionDataOption{stringOption("cards", "5H 5D 5C")},
			expected: "🃏 Expected 4 cards, got 3",
		},
		{
			name:     "duplicate card",
			opts:     []*discordgo.ApplicationCommandInteractionDataOption{stringOption("cards", "5H 5H 5C JS")},
			expected: "❗ 5H appears more than once",
		},
		{
			name:     "cut in hand",
			opts:     []*discordgo.ApplicationCommandInteractionDataOption{stringOption("cards", "5H 5D 5C JS"), stringOption("cut", "JS")},
			expected: "❗ Cut card JS is already in the hand",
		},
		{
			name:     "bad card",
			opts:     []*discordgo.ApplicationCommandInteractionDataOption{stringOption("cards", "5H 5D 5C 1X")},
			expected: "❗ unknown suit in card \"1X\"",
		},
	}

	for n, tc := range testCases {
		s.Run(tc.name, func() {
			i := command(fmt.Sprintf("crib-err-%d", n), "crib", tc.opts...)
			resp := s.expectResponse(i)

			s.bot.handleInteraction(s.ctx, i)

			s.Equal(tc.expected, resp.Data.Content)
			s.Equal(discordgo.MessageFlagsEphemeral, resp.Data.Flags)
		})
	}
}

func (s *BotTestSuite) TestDiscard() {
	i := command("discard-1", "discard", stringOption("cards", "5H 5D 5C JS 2C 9D"))
	resp := s.expectResponse(i)

	s.bot.handleInteraction(s.ctx, i)

	s.Require().Len(resp.Data.Embeds, 1)
	embed := resp.Data.Embeds[0]
	s.Equal("Keep for 14 points", embed.Title)
	s.Equal("`5♥` `5♦` `5♣` `J♠`", embed.Fields[0].Value)
	s.Equal("`2♣` `9♦`", embed.Fields[1].Value)
}

func (s *BotTestSuite) TestPoker() {
	i := command("poker-1", "poker", stringOption("cards", "2H 10S JS 3D QS KS AS"))
	resp := s.expectResponse(i)

	s.bot.handleInteraction(s.ctx, i)

	s.Require().Len(resp.Data.Embeds, 1)
	embed := resp.Data.Embeds[0]
	s.Equal("Royal Flush", embed.Title)
	s.Require().Len(embed.Fields, 1)
	s.Equal("`10♠` `J♠` `Q♠` `K♠` `A♠`", embed.Fields[0].Value)
}

func (s *BotTestSuite) TestPokerFiveCards() {
	i := command("poker-2", "poker", stringOption("cards", "3H 3D 3C 3S 9H"))
	resp := s.expectResponse(i)

	s.bot.handleInteraction(s.ctx, i)

	s.Equal("Four of a Kind", resp.Data.Embeds[0].Title)
	s.Empty(resp.Data.Embeds[0].Fields)
}

func (s *BotTestSuite) TestDuplicateInteractionIgnored() {
	i := command("same-id", "poker", stringOption("cards", "3H 3D 3C 3S 9H"))
	s.expectResponse(i)

	s.bot.handleInteraction(s.ctx, i)
	s.bot.handleInteraction(s.ctx, i)
}

func (s *BotTestSuite) TestNonCommandInteractionIgnored() {
	s.bot.handleInteraction(s.ctx, &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{ID: "ping", Type: discordgo.InteractionPing},
	})
}

func (s *BotTestSuite) TestUnknownCommand() {
	i := command("unknown-1", "blackjack")
	resp := s.expectResponse(i)

	s.bot.handleInteraction(s.ctx, i)

	s.Equal("❗ Unknown command: blackjack", resp.Data.Content)
}

func (s *BotTestSuite) TestSimulateAndStats() {
	i := command("sim-1", "simulate", stringOption("mode", "poker"), intOption("iterations", 200))
	edit := s.expectDeferredEdit(i)

	s.bot.handleInteraction(s.ctx, i)

	s.Require().NotNil(edit.Embeds)
	s.Require().Len(*edit.Embeds, 1)
	s.Equal("poker: 200 iterations", (*edit.Embeds)[0].Title)

	runs, err := s.repo.ListRuns(s.ctx, "", 0)
	s.Require().NoError(err)
	s.Require().Len(runs, 1)

	statsByRun := command("stats-1", "stats", stringOption("run", runs[0].ID))
	resp := s.expectResponse(statsByRun)
	s.bot.handleInteraction(s.ctx, statsByRun)
	s.Equal("poker: 200 iterations", resp.Data.Embeds[0].Title)

	statsByMode := command("stats-2", "stats", stringOption("mode", "poker"))
	resp = s.expectResponse(statsByMode)
	s.bot.handleInteraction(s.ctx, statsByMode)
	s.Equal("Pooled recent poker runs", resp.Data.Content)

	recent := command("stats-3", "stats")
	resp = s.expectResponse(recent)
	s.bot.handleInteraction(s.ctx, recent)
	s.Contains(resp.Data.Content, runs[0].ID)
}

func (s *BotTestSuite) TestSimulateCapsIterations() {
	i := command("sim-2", "simulate", stringOption("mode", "cribbage"), intOption("iterations", 100000))
	edit := s.expectDeferredEdit(i)

	s.bot.handleInteraction(s.ctx, i)

	s.Equal("cribbage: 500 iterations", (*edit.Embeds)[0].Title)
	s.Equal("Mean score", (*edit.Embeds)[0].Fields[0].Name)
}

func (s *BotTestSuite) TestSimulateErrors() {
	i := command("sim-3", "simulate", stringOption("mode", "blackjack"))
	resp := s.expectResponse(i)
	s.bot.handleInteraction(s.ctx, i)
	s.Equal("⛔ unknown mode: blackjack", resp.Data.Content)

	i = command("sim-4", "simulate", stringOption("mode", "poker"), intOption("iterations", 0))
	resp = s.expectResponse(i)
	s.bot.handleInteraction(s.ctx, i)
	s.Equal("❗ Iterations must be at least 1", resp.Data.Content)
}

func (s *BotTestSuite) TestSimulateBusy() {
	s.bot.runMu.Lock()
	defer s.bot.runMu.Unlock()

	i := command("sim-5", "simulate", stringOption("mode", "poker"))
	resp := s.expectResponse(i)
	s.bot.handleInteraction(s.ctx, i)

	s.Equal(discordgo.MessageFlagsEphemeral, resp.Data.Flags)
	s.Contains(resp.Data.Content, "already running")
}

func (s *BotTestSuite) TestStatsEmptyAndMissing() {
	i := command("stats-4", "stats")
	resp := s.expectResponse(i)
	s.bot.handleInteraction(s.ctx, i)
	s.Equal("No runs stored yet", resp.Data.Content)

	i = command("stats-5", "stats", stringOption("mode", "poker_7"))
	resp = s.expectResponse(i)
	s.bot.handleInteraction(s.ctx, i)
	s.Equal("No poker_7 runs stored yet", resp.Data.Content)

	i = command("stats-6", "stats", stringOption("run", "missing"))
	resp = s.expectResponse(i)
	s.bot.handleInteraction(s.ctx, i)
	s.Equal("🔍 Run missing not found", resp.Data.Content)
}
