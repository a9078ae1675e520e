package config

import "time"

// Embed colors
const (
	ErrorColor        = 0xFF0000
	EmbedDefaultColor = 0x2B2D31
)

// Database and Performance Constants
const (
	DefaultQueryTimeout     = 30 * time.Second
	CommandExecutionTimeout = 10 * time.Second
	SlowCommandThreshold    = 2 * time.Second
	ShutdownTimeout         = 10 * time.Second
	GatewayOpenTimeout      = 10 * time.Second
	NetworkDialTimeout      = 5 * time.Second
	SlowQueryThreshold      = 500 * time.Millisecond
)

// Reminder defaults, overridable in the [reminders] config section
const (
	DefaultReminderWindow      = 10 * time.Minute
	DefaultReminderHorizon     = "3y"
	DefaultDeliveryConcurrency = 8
	DefaultMaxRemindersPerUser = 50
	DefaultUserCacheSize       = 1024
)
