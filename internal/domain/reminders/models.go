package reminders

import (
	"time"

	"github.com/disgoorg/snowflake/v2"
)

type Reminder struct {
	ID              int64
	OwnerID         snowflake.ID
	CreatedAt       time.Time
	ExpiresAt       time.Time
	Payload         string
	IsDirectMessage bool
	OriginLink      string
}

// ScheduleRequest is what the command layer hands to the service when a user
// asks to be reminded of something.
type ScheduleRequest struct {
	OwnerID         snowflake.ID
	When            string
	Payload         string
	OriginLink      string
	IsDirectMessage bool
}

type Settings struct {
	Window              time.Duration
	MaxHorizon          Delta
	DeliveryConcurrency int64
	MaxPerUser          int
}

func DefaultSettings() Settings {
	return Settings{
		Window:              10 * time.Minute,
		MaxHorizon:          Delta{Years: 3},
		DeliveryConcurrency: 8,
		MaxPerUser:          50,
	}
}
