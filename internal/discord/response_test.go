package discord

import (
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	discordmock "github.com/fadedpez/aceshigh/internal/discord/mock"
	"github.com/fadedpez/aceshigh/internal/types"
)

type ResponseTestSuite struct {
	suite.Suite
	session     *discordmock.SessionHandler
	interaction *discordgo.InteractionCreate
}

func TestResponseSuite(t *testing.T) {
	suite.Run(t, new(ResponseTestSuite))
}

func (s *ResponseTestSuite) SetupTest() {
	s.session = &discordmock.SessionHandler{}
	s.session.Test(s.T())
	s.interaction = &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			ID:   "test_interaction",
			Type: discordgo.InteractionApplicationCommand,
		},
	}
}

func (s *ResponseTestSuite) TearDownTest() {
	s.session.AssertExpectations(s.T())
}

func (s *ResponseTestSuite) TestNewResponse() {
	embed := &discordgo.MessageEmbed{Title: "Score"}

	resp := NewResponse("test content", embed)

	s.Equal("test content", resp.Content)
	s.Equal([]*discordgo.MessageEmbed{embed}, resp.Embeds)
	s.False(resp.Ephemeral)
}

func (s *ResponseTestSuite) TestNewEphemeralResponse() {
	resp := NewEphemeralResponse("test content")

	s.Equal("test content", resp.Content)
	s.Empty(resp.Embeds)
	s.True(resp.Ephemeral)
}

func (s *ResponseTestSuite) TestNewErrorResponse() {
	testCases := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "❌ An error occurred: <nil>",
		},
		{
			name:     "simple error",
			err:      errors.New("test error"),
			expected: "❌ An error occurred: test error",
		},
		{
			name:     "invalid hand",
			err:      types.NewInvalidHandError("need 6 cards, got %d", 5),
			expected: "🃏 need 6 cards, got 5",
		},
		{
			name:     "wrapped game error",
			err:      types.WrapError(types.ErrNotFound, "Run abc not found", errors.New("missing")),
			expected: "🔍 Run abc not found",
		},
		{
			name:     "unmapped code",
			err:      types.NewGameError(types.ErrorCode("OTHER"), "odd"),
			expected: "❌ odd",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			resp := NewErrorResponse(tc.err)

			s.Equal(tc.expected, resp.Content)
			s.True(resp.Ephemeral)
		})
	}
}

func (s *ResponseTestSuite) TestSendResponse() {
	s.session.On("InteractionRespond", s.interaction.Interaction, mock.MatchedBy(func(r *discordgo.InteractionResponse) bool {
		return r.Type == discordgo.InteractionResponseChannelMessageWithSource &&
			r.Data.Content == "hello" &&
			r.Data.Flags == 0
	})).Return(nil)

	s.NoError(SendResponse(s.session, s.interaction, NewResponse("hello")))
}

func (s *ResponseTestSuite) TestSendErrorResponse() {
	s.session.On("InteractionRespond", s.interaction.Interaction, mock.MatchedBy(func(r *discordgo.InteractionResponse) bool {
		return r.Data.Flags == discordgo.MessageFlagsEphemeral &&
			r.Data.Content == "❌ An error occurred: test error"
	})).Return(nil)

	s.NoError(SendErrorResponse(s.session, s.interaction, errors.New("test error")))
}

func (s *ResponseTestSuite) TestDeferAndEdit() {
	s.session.On("InteractionRespond", s.interaction.Interaction, mock.MatchedBy(func(r *discordgo.InteractionResponse) bool {
		return r.Type == discordgo.InteractionResponseDeferredChannelMessageWithSource
	})).Return(nil)
	s.session.On("InteractionResponseEdit", s.interaction.Interaction, mock.MatchedBy(func(e *discordgo.WebhookEdit) bool {
		return *e.Content == "done" && len(*e.Embeds) == 0
	})).Return(&discordgo.Message{}, nil)

	s.NoError(DeferResponse(s.session, s.interaction))
	s.NoError(EditResponse(s.session, s.interaction, NewResponse("done")))
}

func (s *ResponseTestSuite) TestEditResponseError() {
	s.session.On("InteractionResponseEdit", s.interaction.Interaction, mock.Anything).Return(nil, errors.New("unknown webhook"))

	s.Error(EditResponse(s.session, s.interaction, NewResponse("done")))
}
