package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/uptrace/bun"
	"github.com/woolinator/bot/internal/domain/reminders"
	"github.com/woolinator/bot/internal/gateways/database/models"
)

const reminderEntity = "reminder"

type reminderRepository struct {
	db *bun.DB
}

func NewReminderRepository(db *bun.DB) reminders.Repository {
	return &reminderRepository{db: db}
}

func (r *reminderRepository) Create(ctx context.Context, reminder reminders.Reminder) (int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	row := toRow(reminder)
	ql := newQueryLogger("create", reminderEntity)
	_, err := r.db.NewInsert().
		Model(row).
		Returning("id").
		Exec(ctx)
	ql.Log(err, 1)
	if err != nil {
		return 0, handleError("create", reminderEntity, err)
	}
	return row.ID, nil
}

// Delete removes the row if it is still there. A missing row is not an error.
func (r *reminderRepository) Delete(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	ql := newQueryLogger("delete", reminderEntity)
	result, err := r.db.NewDelete().
		Model((*models.Reminder)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		ql.Log(err, 0)
		return false, handleError("delete", reminderEntity, err)
	}

	affected, err := result.RowsAffected()
	ql.Log(err, int(affected))
	if err != nil {
		return false, handleError("delete", reminderEntity, err)
	}
	return affected > 0, nil
}

func (r *reminderRepository) ListDueBefore(ctx context.Context, deadline time.Time) ([]reminders.Reminder, error) {
	return r.list(ctx, "list_due", func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("time_expire < ?", deadline.UTC()).
			Order("time_expire ASC", "id ASC")
	})
}

func (r *reminderRepository) ListForOwner(ctx context.Context, ownerID snowflake.ID) ([]reminders.Reminder, error) {
	return r.list(ctx, "list_for_owner", func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("user_id = ?", ownerID.String()).
			Order("time_created ASC", "id ASC")
	})
}

func (r *reminderRepository) GetByIDs(ctx context.Context, ids []int64) ([]reminders.Reminder, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.list(ctx, "get_by_ids", func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("id IN (?)", bun.In(ids)).
			Order("id ASC")
	})
}

func (r *reminderRepository) CountForOwner(ctx context.Context, ownerID snowflake.ID) (int, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	ql := newQueryLogger("count_for_owner", reminderEntity)
	count, err := r.db.NewSelect().
		Model((*models.Reminder)(nil)).
		Where("user_id = ?", ownerID.String()).
		Count(ctx)
	ql.Log(err, count)
	if err != nil {
		return 0, handleError("count_for_owner", reminderEntity, err)
	}
	return count, nil
}

func (r *reminderRepository) list(ctx context.Context, operation string, apply func(*bun.SelectQuery) *bun.SelectQuery) ([]reminders.Reminder, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var rows []*models.Reminder
	ql := newQueryLogger(operation, reminderEntity)
	err := apply(r.db.NewSelect().Model(&rows)).Scan(ctx)
	ql.Log(err, len(rows))
	if err != nil {
		return nil, handleError(operation, reminderEntity, err)
	}

	out := make([]reminders.Reminder, 0, len(rows))
	for _, row := range rows {
		reminder, err := fromRow(row)
		if err != nil {
			return nil, handleError(operation, reminderEntity, err)
		}
		out = append(out, reminder)
	}
	return out, nil
}

func toRow(r reminders.Reminder) *models.Reminder {
	return &models.Reminder{
		UserID:      r.OwnerID.String(),
		TimeCreated: r.CreatedAt.UTC(),
		TimeExpire:  r.ExpiresAt.UTC(),
		Content:     r.Payload,
		IsDM:        r.IsDirectMessage,
		Link:        r.OriginLink,
	}
}

func fromRow(row *models.Reminder) (reminders.Reminder, error) {
	ownerID, err := snowflake.Parse(row.UserID)
	if err != nil {
		return reminders.Reminder{}, fmt.Errorf("reminder %d has invalid user_id %q: %w", row.ID, row.UserID, err)
	}
	return reminders.Reminder{
		ID:              row.ID,
		OwnerID:         ownerID,
		CreatedAt:       row.TimeCreated.UTC(),
		ExpiresAt:       row.TimeExpire.UTC(),
		Payload:         row.Content,
		IsDirectMessage: row.IsDM,
		OriginLink:      row.Link,
	}, nil
}
