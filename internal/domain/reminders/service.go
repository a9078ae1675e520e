package reminders

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/disgoorg/snowflake/v2"
	"github.com/woolinator/bot/woolinator/logger"
)

const (
	DefaultPayload = "...nothing?"

	MinWhenLength    = 2
	MaxWhenLength    = 50
	MinPayloadLength = 1
	MaxPayloadLength = 1234
)

type Service interface {
	ScheduleReminder(ctx context.Context, req ScheduleRequest) (Reminder, error)
	CancelReminders(ctx context.Context, ids []int64) (int, error)
	ListReminders(ctx context.Context, ownerID snowflake.ID) ([]Reminder, error)
	OwnedReminders(ctx context.Context, ownerID snowflake.ID, ids []int64) ([]Reminder, error)
}

type service struct {
	repository Repository
	scheduler  *Scheduler
	settings   Settings
	now        func() time.Time
}

func NewService(repository Repository, scheduler *Scheduler, settings Settings) *service {
	return &service{
		repository: repository,
		scheduler:  scheduler,
		settings:   settings,
		now:        time.Now,
	}
}

func (s *service) ScheduleReminder(ctx context.Context, req ScheduleRequest) (Reminder, error) {
	payload := strings.TrimSpace(req.Payload)
	if payload == "" {
		payload = DefaultPayload
	}
	if err := validateLengths(req.When, payload); err != nil {
		return Reminder{}, err
	}

	delta, err := ParseDuration(req.When)
	if err != nil {
		return Reminder{}, err
	}

	now := s.now().UTC().Truncate(time.Microsecond)
	expires := delta.From(now)
	if expires.After(s.settings.MaxHorizon.From(now)) {
		if expires.After(now.AddDate(20, 0, 0)) {
			return Reminder{}, &ValidationError{Reason: "now that's just WAYYY too far into the future..."}
		}
		return Reminder{}, &ValidationError{
			Reason: fmt.Sprintf("that's too far into the future... please try less than %s!", describeDelta(s.settings.MaxHorizon)),
		}
	}

	if s.settings.MaxPerUser > 0 {
		count, err := s.repository.CountForOwner(ctx, req.OwnerID)
		if err != nil {
			return Reminder{}, storeError("count reminders", err)
		}
		if count >= s.settings.MaxPerUser {
			return Reminder{}, &ValidationError{
				Reason: fmt.Sprintf("you already have %d reminders set, delete some before adding more", count),
			}
		}
	}

	reminder := Reminder{
		OwnerID:         req.OwnerID,
		CreatedAt:       now,
		ExpiresAt:       expires,
		Payload:         payload,
		IsDirectMessage: req.IsDirectMessage,
		OriginLink:      req.OriginLink,
	}
	id, err := s.repository.Create(ctx, reminder)
	if err != nil {
		return Reminder{}, storeError("create reminder", err)
	}
	reminder.ID = id

	armed := s.scheduler.Arm(reminder)
	logger.LogReminder("Reminder scheduled",
		slog.Int64("reminder_id", id),
		slog.String("user_id", req.OwnerID.String()),
		slog.Time("expires_at", expires),
		slog.Bool("armed", armed),
	)
	return reminder, nil
}

// CancelReminders stops each reminder's timer and then deletes its row.
// It returns how many rows were actually removed.
func (s *service) CancelReminders(ctx context.Context, ids []int64) (int, error) {
	seen := make(map[int64]struct{}, len(ids))
	removed := 0
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		s.scheduler.Cancel(id)
		deleted, err := s.repository.Delete(ctx, id)
		s.scheduler.FinishCancel(id, err)
		if err != nil {
			return removed, storeError("delete reminder", err)
		}
		if deleted {
			removed++
		}
	}

	if removed > 0 {
		logger.LogReminder("Reminders cancelled",
			slog.Any("ids", ids),
			slog.Int("removed", removed),
		)
	}
	return removed, nil
}

func (s *service) ListReminders(ctx context.Context, ownerID snowflake.ID) ([]Reminder, error) {
	reminders, err := s.repository.ListForOwner(ctx, ownerID)
	if err != nil {
		return nil, storeError("list reminders", err)
	}
	return reminders, nil
}

// OwnedReminders returns the reminders among ids that belong to ownerID.
func (s *service) OwnedReminders(ctx context.Context, ownerID snowflake.ID, ids []int64) ([]Reminder, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	found, err := s.repository.GetByIDs(ctx, ids)
	if err != nil {
		return nil, storeError("get reminders", err)
	}

	owned := make([]Reminder, 0, len(found))
	for _, r := range found {
		if r.OwnerID == ownerID {
			owned = append(owned, r)
		}
	}
	return owned, nil
}

func validateLengths(when, payload string) error {
	if n := utf8.RuneCountInString(strings.TrimSpace(when)); n < MinWhenLength || n > MaxWhenLength {
		return &ValidationError{
			Reason: fmt.Sprintf("when should be between %d and %d characters long", MinWhenLength, MaxWhenLength),
		}
	}
	if n := utf8.RuneCountInString(payload); n < MinPayloadLength || n > MaxPayloadLength {
		return &ValidationError{
			Reason: fmt.Sprintf("what should be between %d and %d characters long", MinPayloadLength, MaxPayloadLength),
		}
	}
	return nil
}

func describeDelta(d Delta) string {
	if d == (Delta{Years: d.Years}) && d.Years > 0 {
		if d.Years == 1 {
			return "1 year"
		}
		return fmt.Sprintf("%d years", d.Years)
	}
	return d.String()
}
