package reminders

import (
	"context"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

// Gateway is the slice of the chat platform that delivery needs. Lookups that
// come back empty return an error wrapping ErrResolution; callers treat every
// error here as a soft failure.
type Gateway interface {
	User(ctx context.Context, userID snowflake.ID) (*discord.User, error)
	Guild(ctx context.Context, guildID snowflake.ID) (*discord.Guild, error)
	Member(ctx context.Context, guildID snowflake.ID, userID snowflake.ID) (*discord.Member, error)
	Channel(ctx context.Context, guildID snowflake.ID, channelID snowflake.ID) (discord.GuildMessageChannel, error)
	SendChannel(ctx context.Context, channelID snowflake.ID, message discord.MessageCreate) error
	SendDM(ctx context.Context, userID snowflake.ID, message discord.MessageCreate) error
}
