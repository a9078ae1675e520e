package handlers

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"
	"github.com/woolinator/bot/woolinator/config"
	"github.com/woolinator/bot/woolinator/logger"
)

// WrapWithLogging logs the start, outcome and duration of a slash command.
func WrapWithLogging(name string, h handler.CommandHandler) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		return run(interaction{
			kind:      "Command",
			name:      name,
			user:      e.User(),
			guildID:   e.GuildID(),
			channelID: e.ChannelID(),
		}, func() error { return h(e) })
	}
}

// WrapComponentWithLogging is WrapWithLogging for message components.
func WrapComponentWithLogging(name string, h handler.ComponentHandler) handler.ComponentHandler {
	return func(e *handler.ComponentEvent) error {
		return run(interaction{
			kind:      "Component interaction",
			name:      name,
			user:      e.User(),
			guildID:   e.GuildID(),
			channelID: e.ChannelID(),
		}, func() error { return h(e) })
	}
}

type interaction struct {
	kind      string
	name      string
	user      discord.User
	guildID   *snowflake.ID
	channelID snowflake.ID
}

func (i interaction) attrs() []any {
	return append([]any{
		slog.String("type", "cmd"),
		slog.String("name", i.name),
	}, i.userAttrs()...)
}

func (i interaction) userAttrs() []any {
	return []any{
		slog.String("user_id", i.user.ID.String()),
		slog.String("user_name", i.user.Username),
	}
}

func run(i interaction, call func() error) error {
	start := time.Now()

	guild := "dm"
	if i.guildID != nil {
		guild = i.guildID.String()
	}
	slog.Info(i.kind+" started", append(i.attrs(),
		slog.String("guild_id", guild),
		slog.String("channel_id", i.channelID.String()),
	)...)

	done := make(chan error, 1)
	go func() {
		done <- call()
	}()

	timer := time.NewTimer(config.CommandExecutionTimeout)
	defer timer.Stop()

	select {
	case err := <-done:
		took := time.Since(start)
		if err == nil && took > config.SlowCommandThreshold {
			slog.Warn(i.kind+" executed slowly", append(i.attrs(),
				slog.Duration("took", took),
				slog.String("status", "slow"),
			)...)
			return nil
		}
		logger.LogCommand(i.name, took, err, i.userAttrs()...)
		return err

	case <-timer.C:
		slog.Error(i.kind+" timed out", append(i.attrs(),
			slog.String("status", "timeout"),
			slog.Duration("timeout", config.CommandExecutionTimeout),
		)...)
		return fmt.Errorf("%s %s timed out after %s", i.kind, i.name, config.CommandExecutionTimeout)
	}
}
