package reminders

import (
	"context"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

type Repository interface {
	// Create inserts the reminder and returns the id assigned by the store.
	Create(ctx context.Context, reminder Reminder) (int64, error)
	// Delete reports whether a row was removed. A missing row is not an error.
	Delete(ctx context.Context, id int64) (bool, error)
	// ListDueBefore returns rows with ExpiresAt before deadline, soonest first.
	ListDueBefore(ctx context.Context, deadline time.Time) ([]Reminder, error)
	// ListForOwner returns the owner's rows, oldest first.
	ListForOwner(ctx context.Context, ownerID snowflake.ID) ([]Reminder, error)
	GetByIDs(ctx context.Context, ids []int64) ([]Reminder, error)
	CountForOwner(ctx context.Context, ownerID snowflake.ID) (int, error)
}
