package commands

import "github.com/disgoorg/disgo/discord"

var Commands = []discord.ApplicationCommandCreate{
	RemindMe,
	Reminders,
	Version,
}
