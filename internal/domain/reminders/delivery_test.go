package reminders_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/woolinator/bot/internal/domain/reminders"
	"github.com/woolinator/bot/internal/domain/reminders/mock"
	"go.uber.org/mock/gomock"
)

const (
	ownerID   = snowflake.ID(1001)
	guildID   = snowflake.ID(2002)
	channelID = snowflake.ID(3003)
)

var errForbidden = errors.New("403 forbidden")

func guildReminder() reminders.Reminder {
	gid := guildID
	return reminders.Reminder{
		ID:         7,
		OwnerID:    ownerID,
		CreatedAt:  time.Unix(1700000000, 0).UTC(),
		ExpiresAt:  time.Unix(1700000005, 0).UTC(),
		Payload:    "drink water",
		OriginLink: reminders.JumpLink(&gid, channelID, 4004),
	}
}

func expectGuildResolves(gw *mock.MockGateway) {
	gw.EXPECT().User(gomock.Any(), ownerID).Return(&discord.User{ID: ownerID}, nil)
	gw.EXPECT().Guild(gomock.Any(), guildID).Return(&discord.Guild{ID: guildID}, nil)
	gw.EXPECT().Member(gomock.Any(), guildID, ownerID).Return(&discord.Member{GuildID: guildID}, nil)
	gw.EXPECT().Channel(gomock.Any(), guildID, channelID).Return(nil, nil)
}

func TestDeliveryDeliver(t *testing.T) {
	tests := []struct {
		name     string
		reminder func() reminders.Reminder
		setup    func(gw *mock.MockGateway)
		want     reminders.Outcome
	}{
		{
			name:     "origin channel",
			reminder: guildReminder,
			setup: func(gw *mock.MockGateway) {
				expectGuildResolves(gw)
				gw.EXPECT().SendChannel(gomock.Any(), channelID, gomock.Any()).Return(nil)
			},
			want: reminders.DeliveredChannel,
		},
		{
			name:     "channel send fails falls back to dm",
			reminder: guildReminder,
			setup: func(gw *mock.MockGateway) {
				expectGuildResolves(gw)
				gw.EXPECT().SendChannel(gomock.Any(), channelID, gomock.Any()).Return(errForbidden)
				gw.EXPECT().SendDM(gomock.Any(), ownerID, gomock.Any()).Return(nil)
			},
			want: reminders.DeliveredDM,
		},
		{
			name:     "guild gone",
			reminder: guildReminder,
			setup: func(gw *mock.MockGateway) {
				gw.EXPECT().User(gomock.Any(), ownerID).Return(&discord.User{ID: ownerID}, nil)
				gw.EXPECT().Guild(gomock.Any(), guildID).Return(nil, reminders.ErrResolution)
				gw.EXPECT().SendDM(gomock.Any(), ownerID, gomock.Any()).Return(nil)
			},
			want: reminders.DeliveredDM,
		},
		{
			name:     "owner left guild",
			reminder: guildReminder,
			setup: func(gw *mock.MockGateway) {
				gw.EXPECT().User(gomock.Any(), ownerID).Return(&discord.User{ID: ownerID}, nil)
				gw.EXPECT().Guild(gomock.Any(), guildID).Return(&discord.Guild{ID: guildID}, nil)
				gw.EXPECT().Member(gomock.Any(), guildID, ownerID).Return(nil, reminders.ErrResolution)
				gw.EXPECT().SendDM(gomock.Any(), ownerID, gomock.Any()).Return(nil)
			},
			want: reminders.DeliveredDM,
		},
		{
			name:     "channel deleted, dm fails too",
			reminder: guildReminder,
			setup: func(gw *mock.MockGateway) {
				gw.EXPECT().User(gomock.Any(), ownerID).Return(&discord.User{ID: ownerID}, nil)
				gw.EXPECT().Guild(gomock.Any(), guildID).Return(&discord.Guild{ID: guildID}, nil)
				gw.EXPECT().Member(gomock.Any(), guildID, ownerID).Return(&discord.Member{GuildID: guildID}, nil)
				gw.EXPECT().Channel(gomock.Any(), guildID, channelID).Return(nil, reminders.ErrResolution)
				gw.EXPECT().SendDM(gomock.Any(), ownerID, gomock.Any()).Return(errForbidden)
			},
			want: reminders.Dropped,
		},
		{
			name: "direct message origin",
			reminder: func() reminders.Reminder {
				r := guildReminder()
				r.IsDirectMessage = true
				r.OriginLink = reminders.JumpLink(nil, channelID, 4004)
				return r
			},
			setup: func(gw *mock.MockGateway) {
				gw.EXPECT().User(gomock.Any(), ownerID).Return(&discord.User{ID: ownerID}, nil)
				gw.EXPECT().SendDM(gomock.Any(), ownerID, gomock.Any()).Return(nil)
			},
			want: reminders.DeliveredDM,
		},
		{
			name: "malformed link",
			reminder: func() reminders.Reminder {
				r := guildReminder()
				r.OriginLink = "not a link"
				return r
			},
			setup: func(gw *mock.MockGateway) {
				gw.EXPECT().User(gomock.Any(), ownerID).Return(&discord.User{ID: ownerID}, nil)
				gw.EXPECT().SendDM(gomock.Any(), ownerID, gomock.Any()).Return(nil)
			},
			want: reminders.DeliveredDM,
		},
		{
			name:     "owner unknown",
			reminder: guildReminder,
			setup: func(gw *mock.MockGateway) {
				gw.EXPECT().User(gomock.Any(), ownerID).Return(nil, reminders.ErrResolution)
			},
			want: reminders.Dropped,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := mock.NewMockGateway(gomock.NewController(t))
			tt.setup(gw)

			got := reminders.NewDelivery(gw).Deliver(context.Background(), tt.reminder())
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeliveryPlan(t *testing.T) {
	gw := mock.NewMockGateway(gomock.NewController(t))
	expectGuildResolves(gw)

	plan, err := reminders.NewDelivery(gw).Plan(context.Background(), guildReminder())
	require.NoError(t, err)
	assert.Equal(t, []reminders.Destination{
		reminders.ChannelDestination{GuildID: guildID, ChannelID: channelID},
		reminders.DMDestination{UserID: ownerID},
	}, plan)
}

func TestDeliveryPlanUnknownOwner(t *testing.T) {
	gw := mock.NewMockGateway(gomock.NewController(t))
	gw.EXPECT().User(gomock.Any(), ownerID).Return(nil, errForbidden)

	_, err := reminders.NewDelivery(gw).Plan(context.Background(), guildReminder())
	assert.ErrorIs(t, err, reminders.ErrResolution)
	assert.ErrorIs(t, err, errForbidden)
}

func TestNotificationMessage(t *testing.T) {
	msg := reminders.NotificationMessage(guildReminder())

	assert.Equal(t, "<@1001>, your reminder that you set on <t:1700000000:f> has expired <t:1700000005:R>!\n\n"+
		"Here's what you wanted to be reminded of:\n>>> drink water", msg.Content)
	require.NotNil(t, msg.AllowedMentions)
	assert.Equal(t, []snowflake.ID{ownerID}, msg.AllowedMentions.Users)
	assert.Empty(t, msg.AllowedMentions.Parse)
	require.Len(t, msg.Components, 1)

	r := guildReminder()
	r.OriginLink = ""
	assert.Empty(t, reminders.NotificationMessage(r).Components)
}

func TestDeliverySendsNotification(t *testing.T) {
	gw := mock.NewMockGateway(gomock.NewController(t))
	expectGuildResolves(gw)

	var sent discord.MessageCreate
	gw.EXPECT().SendChannel(gomock.Any(), channelID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ snowflake.ID, m discord.MessageCreate) error {
			sent = m
			return nil
		})

	reminders.NewDelivery(gw).Deliver(context.Background(), guildReminder())
	assert.Contains(t, sent.Content, "drink water")
}

func TestSchedulerRemovesUndeliverableReminder(t *testing.T) {
	gw := mock.NewMockGateway(gomock.NewController(t))
	expectGuildResolves(gw)
	gw.EXPECT().SendChannel(gomock.Any(), channelID, gomock.Any()).Return(errForbidden)
	gw.EXPECT().SendDM(gomock.Any(), ownerID, gomock.Any()).Return(errForbidden)

	r := guildReminder()
	repo := newMemoryRepository(r)
	s := newTestScheduler(t, repo, reminders.NewDelivery(gw))
	require.True(t, s.Arm(r))

	require.Eventually(t, func() bool { return !repo.has(r.ID) }, waitFor, pollEvery)
	assert.Equal(t, 1, repo.deleteCalls(r.ID))
	assert.False(t, s.IsArmed(r.ID))
}
