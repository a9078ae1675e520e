package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Reminder struct {
	bun.BaseModel `bun:"table:reminders,alias:rm"`

	ID          int64     `bun:"id,pk,autoincrement"`
	UserID      string    `bun:"user_id,notnull,type:text"`
	TimeCreated time.Time `bun:"time_created,notnull"`
	TimeExpire  time.Time `bun:"time_expire,notnull"`
	Content     string    `bun:"content,notnull,type:text"`
	IsDM        bool      `bun:"is_dm,notnull"`
	Link        string    `bun:"link,notnull,type:text"`
}
