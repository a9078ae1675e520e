package utils

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/woolinator/bot/woolinator/config"
)

// ResponseHandler sends the error replies shared by the reminder commands.
type ResponseHandler struct{}

var EH = &ResponseHandler{}

func errorEmbed(message string) discord.Embed {
	return discord.NewEmbedBuilder().
		SetDescription(message).
		SetColor(config.ErrorColor).
		Build()
}

// CreateEphemeralCommandError replies to a slash command with an error embed
// only the caller can see.
func (h *ResponseHandler) CreateEphemeralCommandError(event *handler.CommandEvent, message string) error {
	return event.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{errorEmbed(message)},
		Flags:  discord.MessageFlagEphemeral,
	})
}

// CreateEphemeralError is CreateEphemeralCommandError for component
// interactions.
func (h *ResponseHandler) CreateEphemeralError(event *handler.ComponentEvent, message string) error {
	return event.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{errorEmbed(message)},
		Flags:  discord.MessageFlagEphemeral,
	})
}
