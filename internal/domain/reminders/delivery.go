package reminders

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/woolinator/bot/woolinator/utils"
)

type Outcome int

const (
	Dropped Outcome = iota
	DeliveredChannel
	DeliveredDM
)

func (o Outcome) String() string {
	switch o {
	case DeliveredChannel:
		return "channel"
	case DeliveredDM:
		return "dm"
	default:
		return "dropped"
	}
}

// Destination is where a fired reminder can be sent. It is either a
// ChannelDestination or a DMDestination.
type Destination interface {
	send(ctx context.Context, gw Gateway, message discord.MessageCreate) error
	outcome() Outcome
	String() string
}

type ChannelDestination struct {
	GuildID   snowflake.ID
	ChannelID snowflake.ID
}

func (d ChannelDestination) send(ctx context.Context, gw Gateway, message discord.MessageCreate) error {
	return gw.SendChannel(ctx, d.ChannelID, message)
}

func (ChannelDestination) outcome() Outcome { return DeliveredChannel }

func (d ChannelDestination) String() string {
	return fmt.Sprintf("channel %s in guild %s", d.ChannelID, d.GuildID)
}

type DMDestination struct {
	UserID snowflake.ID
}

func (d DMDestination) send(ctx context.Context, gw Gateway, message discord.MessageCreate) error {
	return gw.SendDM(ctx, d.UserID, message)
}

func (DMDestination) outcome() Outcome { return DeliveredDM }

func (d DMDestination) String() string {
	return fmt.Sprintf("dm of %s", d.UserID)
}

// Notifier is implemented by anything the scheduler can hand a fired reminder to.
type Notifier interface {
	Deliver(ctx context.Context, reminder Reminder) Outcome
}

type NotifierFunc func(ctx context.Context, reminder Reminder) Outcome

func (f NotifierFunc) Deliver(ctx context.Context, reminder Reminder) Outcome {
	return f(ctx, reminder)
}

type Delivery struct {
	gateway Gateway
}

func NewDelivery(gateway Gateway) *Delivery {
	return &Delivery{gateway: gateway}
}

// Plan resolves the ordered list of destinations to try. The origin channel
// comes first when the owner can still see it, the owner's DMs always last.
// It fails only when the owner cannot be resolved.
func (d *Delivery) Plan(ctx context.Context, reminder Reminder) ([]Destination, error) {
	if _, err := d.gateway.User(ctx, reminder.OwnerID); err != nil {
		return nil, resolutionError("user "+reminder.OwnerID.String(), err)
	}

	dm := DMDestination{UserID: reminder.OwnerID}
	if reminder.IsDirectMessage {
		return []Destination{dm}, nil
	}

	channel, err := d.resolveChannel(ctx, reminder)
	if err != nil {
		slog.Warn("Falling back to direct message",
			slog.String("type", "rem"),
			slog.Int64("reminder_id", reminder.ID),
			slog.Any("error", err),
		)
		return []Destination{dm}, nil
	}
	return []Destination{channel, dm}, nil
}

func (d *Delivery) resolveChannel(ctx context.Context, reminder Reminder) (ChannelDestination, error) {
	guildID, channelID, _, err := ParseJumpLink(reminder.OriginLink)
	if err != nil {
		return ChannelDestination{}, resolutionError("origin link", err)
	}

	if _, err = d.gateway.Guild(ctx, guildID); err != nil {
		return ChannelDestination{}, resolutionError("guild "+guildID.String(), err)
	}
	if _, err = d.gateway.Member(ctx, guildID, reminder.OwnerID); err != nil {
		return ChannelDestination{}, resolutionError("member "+reminder.OwnerID.String(), err)
	}
	if _, err = d.gateway.Channel(ctx, guildID, channelID); err != nil {
		return ChannelDestination{}, resolutionError("channel "+channelID.String(), err)
	}
	return ChannelDestination{GuildID: guildID, ChannelID: channelID}, nil
}

// Deliver sends the notification to the first destination that accepts it.
// It never touches the store.
func (d *Delivery) Deliver(ctx context.Context, reminder Reminder) Outcome {
	plan, err := d.Plan(ctx, reminder)
	if err != nil {
		slog.Warn("Reminder owner could not be found",
			slog.String("type", "rem"),
			slog.Int64("reminder_id", reminder.ID),
			slog.String("user_id", reminder.OwnerID.String()),
			slog.Time("created_at", reminder.CreatedAt),
			slog.Any("error", err),
		)
		return Dropped
	}

	message := NotificationMessage(reminder)
	for _, dest := range plan {
		if err = dest.send(ctx, d.gateway, message); err != nil {
			slog.Warn("Reminder send failed",
				slog.String("type", "rem"),
				slog.Int64("reminder_id", reminder.ID),
				slog.String("destination", dest.String()),
				slog.Any("error", err),
			)
			continue
		}
		return dest.outcome()
	}

	slog.Warn("Reminder dropped, no destination accepted it",
		slog.String("type", "rem"),
		slog.Int64("reminder_id", reminder.ID),
		slog.String("user_id", reminder.OwnerID.String()),
	)
	return Dropped
}

func NotificationMessage(reminder Reminder) discord.MessageCreate {
	message := discord.MessageCreate{
		Content: fmt.Sprintf("<@%s>, your reminder that you set on %s has expired %s!\n\nHere's what you wanted to be reminded of:\n>>> %s",
			reminder.OwnerID, utils.Timestamp(reminder.CreatedAt, "f"), utils.Timestamp(reminder.ExpiresAt, "R"), reminder.Payload),
		AllowedMentions: &discord.AllowedMentions{
			Users: []snowflake.ID{reminder.OwnerID},
		},
	}
	if reminder.OriginLink != "" {
		message.Components = []discord.ContainerComponent{
			discord.NewActionRow(discord.NewLinkButton("Jump to when the reminder was made", reminder.OriginLink)),
		}
	}
	return message
}
