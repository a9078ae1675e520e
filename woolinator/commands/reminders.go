package commands

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/woolinator/bot/internal/domain/reminders"
	"github.com/woolinator/bot/woolinator/handlers"
	"github.com/woolinator/bot/woolinator/utils"
)

var RemindMe = discord.SlashCommandCreate{
	Name:        "remindme",
	Description: "Set a reminder",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "when",
			Description: "When to remind you, e.g. \"2h and 30m\" or \"3 days\"",
			Required:    true,
			MinLength:   utils.Ptr(reminders.MinWhenLength),
			MaxLength:   utils.Ptr(reminders.MaxWhenLength),
		},
		discord.ApplicationCommandOptionString{
			Name:        "what",
			Description: "What to remind you of",
			MinLength:   utils.Ptr(reminders.MinPayloadLength),
			MaxLength:   utils.Ptr(reminders.MaxPayloadLength),
		},
	},
}

var Reminders = discord.SlashCommandCreate{
	Name:        "reminders",
	Description: "Manage your reminders",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionSubCommand{
			Name:        "list",
			Description: "List your reminders",
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "delete",
			Description: "Delete some of your reminders",
		},
	},
}

// RegisterReminders routes the reminder commands and the delete menu to c.
func RegisterReminders(h handler.Router, c reminders.Commands) {
	h.Command("/remindme", handlers.WrapWithLogging("remindme", c.RemindMe))
	h.Route("/reminders", func(r handler.Router) {
		r.Command("/list", handlers.WrapWithLogging("reminders list", c.List))
		r.Command("/delete", handlers.WrapWithLogging("reminders delete", c.Delete))
	})
	h.Component(reminders.DeleteMenuID, handlers.WrapComponentWithLogging("reminders delete menu", c.DeleteSelect))
}
