package platform

import (
	"context"
	"fmt"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	lru "github.com/hashicorp/golang-lru"
	"github.com/woolinator/bot/internal/domain/reminders"
)

type restClient interface {
	GetUser(userID snowflake.ID, opts ...rest.RequestOpt) (*discord.User, error)
	GetGuild(guildID snowflake.ID, withCounts bool, opts ...rest.RequestOpt) (*discord.RestGuild, error)
	GetMember(guildID snowflake.ID, userID snowflake.ID, opts ...rest.RequestOpt) (*discord.Member, error)
	GetChannel(channelID snowflake.ID, opts ...rest.RequestOpt) (discord.Channel, error)
	CreateMessage(channelID snowflake.ID, messageCreate discord.MessageCreate, opts ...rest.RequestOpt) (*discord.Message, error)
	CreateDMChannel(userID snowflake.ID, opts ...rest.RequestOpt) (*discord.DMChannel, error)
}

type stateCache interface {
	Guild(guildID snowflake.ID) (discord.Guild, bool)
	Member(guildID snowflake.ID, userID snowflake.ID) (discord.Member, bool)
	GuildMessageChannel(channelID snowflake.ID) (discord.GuildMessageChannel, bool)
}

// Gateway resolves Discord entities from the gateway cache first and falls
// back to REST. Users are not part of the gateway cache so they are kept in
// a small LRU.
type Gateway struct {
	rest   restClient
	caches stateCache
	users  *lru.Cache
}

func New(client bot.Client, userCacheSize int) (*Gateway, error) {
	return newGateway(client.Rest(), client.Caches(), userCacheSize)
}

func newGateway(client restClient, caches stateCache, userCacheSize int) (*Gateway, error) {
	users, err := lru.New(max(userCacheSize, 1))
	if err != nil {
		return nil, fmt.Errorf("failed to create user cache: %w", err)
	}
	return &Gateway{
		rest:   client,
		caches: caches,
		users:  users,
	}, nil
}

var _ reminders.Gateway = (*Gateway)(nil)

func (g *Gateway) User(ctx context.Context, userID snowflake.ID) (*discord.User, error) {
	if cached, ok := g.users.Get(userID); ok {
		user := cached.(discord.User)
		return &user, nil
	}

	user, err := g.rest.GetUser(userID, rest.WithCtx(ctx))
	if err != nil {
		return nil, resolutionError("user", userID, err)
	}
	g.users.Add(userID, *user)
	return user, nil
}

func (g *Gateway) Guild(ctx context.Context, guildID snowflake.ID) (*discord.Guild, error) {
	if guild, ok := g.caches.Guild(guildID); ok {
		return &guild, nil
	}

	guild, err := g.rest.GetGuild(guildID, false, rest.WithCtx(ctx))
	if err != nil {
		return nil, resolutionError("guild", guildID, err)
	}
	return &guild.Guild, nil
}

func (g *Gateway) Member(ctx context.Context, guildID snowflake.ID, userID snowflake.ID) (*discord.Member, error) {
	if member, ok := g.caches.Member(guildID, userID); ok {
		return &member, nil
	}

	member, err := g.rest.GetMember(guildID, userID, rest.WithCtx(ctx))
	if err != nil {
		return nil, resolutionError("member", userID, err)
	}
	return member, nil
}

// Channel returns the channel only if it is a message channel of guildID.
func (g *Gateway) Channel(ctx context.Context, guildID snowflake.ID, channelID snowflake.ID) (discord.GuildMessageChannel, error) {
	if channel, ok := g.caches.GuildMessageChannel(channelID); ok {
		return checkGuild(channel, guildID)
	}

	channel, err := g.rest.GetChannel(channelID, rest.WithCtx(ctx))
	if err != nil {
		return nil, resolutionError("channel", channelID, err)
	}
	messageChannel, ok := channel.(discord.GuildMessageChannel)
	if !ok {
		return nil, fmt.Errorf("%w: channel %s is not a guild message channel", reminders.ErrResolution, channelID)
	}
	return checkGuild(messageChannel, guildID)
}

func (g *Gateway) SendChannel(ctx context.Context, channelID snowflake.ID, message discord.MessageCreate) error {
	if _, err := g.rest.CreateMessage(channelID, message, rest.WithCtx(ctx)); err != nil {
		return fmt.Errorf("failed to send message to channel %s: %w", channelID, err)
	}
	return nil
}

func (g *Gateway) SendDM(ctx context.Context, userID snowflake.ID, message discord.MessageCreate) error {
	dmChannel, err := g.rest.CreateDMChannel(userID, rest.WithCtx(ctx))
	if err != nil {
		return fmt.Errorf("failed to create DM channel with %s: %w", userID, err)
	}
	if _, err := g.rest.CreateMessage(dmChannel.ID(), message, rest.WithCtx(ctx)); err != nil {
		return fmt.Errorf("failed to send DM to %s: %w", userID, err)
	}
	return nil
}

func checkGuild(channel discord.GuildMessageChannel, guildID snowflake.ID) (discord.GuildMessageChannel, error) {
	if channel.GuildID() != guildID {
		return nil, fmt.Errorf("%w: channel %s belongs to another guild", reminders.ErrResolution, channel.ID())
	}
	return channel, nil
}

func resolutionError(what string, id snowflake.ID, err error) error {
	return fmt.Errorf("%w: %s %s: %w", reminders.ErrResolution, what, id, err)
}
