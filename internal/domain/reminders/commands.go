package reminders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/paginator"
	"github.com/woolinator/bot/woolinator/config"
	"github.com/woolinator/bot/woolinator/utils"
)

const (
	DeleteMenuID     = "/reminders/delete"
	remindersPerPage = 5
	maxMenuOptions   = 25
	commandTimeout   = 5 * time.Second
)

type Commands interface {
	RemindMe(event *handler.CommandEvent) error
	List(event *handler.CommandEvent) error
	Delete(event *handler.CommandEvent) error
	DeleteSelect(event *handler.ComponentEvent) error
}

type commands struct {
	svc       Service
	paginator *paginator.Manager
}

func NewCommands(svc Service, paginator *paginator.Manager) *commands {
	return &commands{
		svc:       svc,
		paginator: paginator,
	}
}

func (c *commands) RemindMe(event *handler.CommandEvent) error {
	data := event.SlashCommandInteractionData()
	what, ok := data.OptString("what")
	if !ok {
		what = DefaultPayload
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	guildID := event.GuildID()
	reminder, err := c.svc.ScheduleReminder(ctx, ScheduleRequest{
		OwnerID:         event.User().ID,
		When:            data.String("when"),
		Payload:         what,
		OriginLink:      JumpLink(guildID, event.ChannelID(), event.ID()),
		IsDirectMessage: guildID == nil,
	})

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return event.CreateMessage(discord.MessageCreate{
			Content: validationErr.Error(),
			Flags:   discord.MessageFlagEphemeral,
		})
	}
	if err != nil {
		slog.Error("Failed to schedule reminder",
			slog.String("type", "rem"),
			slog.String("user_id", event.User().ID.String()),
			slog.Any("error", err),
		)
		return utils.EH.CreateEphemeralCommandError(event, "Couldn't save your reminder right now, please try again later.")
	}

	return event.CreateMessage(discord.MessageCreate{
		Content:         fmt.Sprintf("Okay dokey, %s: %s", utils.Timestamp(reminder.ExpiresAt, "R"), reminder.Payload),
		AllowedMentions: &discord.AllowedMentions{},
	})
}

func (c *commands) List(event *handler.CommandEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	user := event.User()
	reminders, err := c.svc.ListReminders(ctx, user.ID)
	if err != nil {
		return utils.EH.CreateEphemeralCommandError(event, "Couldn't load your reminders, please try again later.")
	}
	if len(reminders) == 0 {
		return event.CreateMessage(discord.MessageCreate{
			Content: "You have no reminders set... breh",
			Flags:   discord.MessageFlagEphemeral,
		})
	}

	pages := (len(reminders) + remindersPerPage - 1) / remindersPerPage
	return c.paginator.Create(event.Respond, paginator.Pages{
		ID:      event.ID().String(),
		Creator: user.ID,
		PageFunc: func(page int, embed *discord.EmbedBuilder) {
			start := page * remindersPerPage
			end := min(start+remindersPerPage, len(reminders))

			embed.
				SetAuthor(user.Username+"'s reminders", "", user.EffectiveAvatarURL()).
				SetColor(config.EmbedDefaultColor).
				SetFooter(fmt.Sprintf("Page %d/%d • Total: %d", page+1, pages, len(reminders)), "")

			for i := start; i < end; i++ {
				embed.AddField(fmt.Sprintf("Reminder #%d", i+1), describeReminder(reminders[i]), false)
			}
		},
		Pages:      pages,
		ExpireMode: paginator.ExpireModeAfterLastUsage,
	}, false)
}

func (c *commands) Delete(event *handler.CommandEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	reminders, err := c.svc.ListReminders(ctx, event.User().ID)
	if err != nil {
		return utils.EH.CreateEphemeralCommandError(event, "Couldn't load your reminders, please try again later.")
	}
	if len(reminders) == 0 {
		return event.CreateMessage(discord.MessageCreate{
			Content: "You have no reminders set... breh",
			Flags:   discord.MessageFlagEphemeral,
		})
	}

	return event.CreateMessage(discord.MessageCreate{
		Content:    "Please select the reminder(s) you want to delete:",
		Components: []discord.ContainerComponent{deleteMenu(reminders)},
		Flags:      discord.MessageFlagEphemeral,
	})
}

func (c *commands) DeleteSelect(event *handler.ComponentEvent) error {
	data, ok := event.Data.(discord.StringSelectMenuInteractionData)
	if !ok || len(data.Values) == 0 {
		return utils.EH.CreateEphemeralError(event, "Invalid interaction data")
	}

	ids := make([]int64, 0, len(data.Values))
	for _, v := range data.Values {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	owned, err := c.svc.OwnedReminders(ctx, event.User().ID, ids)
	if err != nil {
		return utils.EH.CreateEphemeralError(event, "Couldn't load your reminders, please try again later.")
	}

	ownedIDs := make([]int64, 0, len(owned))
	for _, r := range owned {
		ownedIDs = append(ownedIDs, r.ID)
	}

	removed, err := c.svc.CancelReminders(ctx, ownedIDs)
	if err != nil {
		slog.Error("Failed to delete reminders",
			slog.String("type", "rem"),
			slog.String("user_id", event.User().ID.String()),
			slog.Any("error", err),
		)
		return utils.EH.CreateEphemeralError(event, "Couldn't delete your reminders, please try again later.")
	}

	return event.UpdateMessage(discord.MessageUpdate{
		Content:    utils.Ptr(deletedMessage(removed)),
		Components: &[]discord.ContainerComponent{},
	})
}

func deleteMenu(reminders []Reminder) discord.ContainerComponent {
	options := make([]discord.StringSelectMenuOption, 0, min(len(reminders), maxMenuOptions))
	for i, r := range reminders {
		if i == maxMenuOptions {
			break
		}
		options = append(options, discord.StringSelectMenuOption{
			Label:       fmt.Sprintf("Reminder #%d", i+1),
			Value:       strconv.FormatInt(r.ID, 10),
			Description: utils.TrimString(r.Payload, 32),
		})
	}

	return discord.NewActionRow(
		discord.NewStringSelectMenu(DeleteMenuID, "...", options...).
			WithMinValues(1).
			WithMaxValues(len(options)),
	)
}

func describeReminder(r Reminder) string {
	return fmt.Sprintf("Created: %s\nExpires: %s (%s)\nContent: %s",
		utils.Timestamp(r.CreatedAt, "F"), utils.Timestamp(r.ExpiresAt, "F"), utils.Timestamp(r.ExpiresAt, "R"),
		utils.TrimString(r.Payload, 900))
}

func deletedMessage(removed int) string {
	switch removed {
	case 0:
		return "Nothing was deleted, those reminders are already gone."
	case 1:
		return "Deleted 1 reminder."
	default:
		return fmt.Sprintf("Deleted %d reminders.", removed)
	}
}
