package woolinator

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/woolinator/bot/internal/domain/reminders"
	"github.com/woolinator/bot/woolinator/config"
	"github.com/woolinator/bot/woolinator/database"
	"github.com/woolinator/bot/woolinator/logger"
)

// cron's @every schedules round up to whole seconds.
const minReminderWindow = time.Second

// LoadConfig reads the TOML file at path. A .env file next to the binary is
// loaded first if present, and BOT_TOKEN and DB_PASSWORD override the file.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	cfg := DefaultConfig()
	if err = toml.NewDecoder(file).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if token := os.Getenv("BOT_TOKEN"); token != "" {
		cfg.Bot.Token = token
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		cfg.DB.Password = password
	}

	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  slog.LevelInfo,
			Format: logger.FormatPretty,
		},
		DB: database.DBConfig{
			Driver: database.DriverPostgres,
			Host:   "localhost",
			Port:   5432,
		},
		Reminders: RemindersConfig{
			Window:              Duration{config.DefaultReminderWindow},
			MaxHorizon:          config.DefaultReminderHorizon,
			DeliveryConcurrency: config.DefaultDeliveryConcurrency,
			MaxPerUser:          config.DefaultMaxRemindersPerUser,
			UserCacheSize:       config.DefaultUserCacheSize,
		},
	}
}

type Config struct {
	Log       LogConfig         `toml:"log"`
	Bot       BotConfig         `toml:"bot"`
	DB        database.DBConfig `toml:"db"`
	Reminders RemindersConfig   `toml:"reminders"`
}

type BotConfig struct {
	DevGuilds    []snowflake.ID `toml:"dev_guilds"`
	Token        string         `toml:"token"`
	SyncCommands bool           `toml:"sync_commands"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	Format    string     `toml:"format"`
	AddSource bool       `toml:"add_source"`
}

type RemindersConfig struct {
	Window              Duration `toml:"window"`
	MaxHorizon          string   `toml:"max_horizon"`
	DeliveryConcurrency int64    `toml:"delivery_concurrency"`
	MaxPerUser          int      `toml:"max_per_user"`
	UserCacheSize       int      `toml:"user_cache_size"`
}

// Settings converts the section into scheduler and service settings.
func (c RemindersConfig) Settings() (reminders.Settings, error) {
	horizon, err := reminders.ParseDuration(c.MaxHorizon)
	if err != nil {
		return reminders.Settings{}, fmt.Errorf("invalid reminders.max_horizon %q: %w", c.MaxHorizon, err)
	}
	return reminders.Settings{
		Window:              c.Window.Duration,
		MaxHorizon:          horizon,
		DeliveryConcurrency: c.DeliveryConcurrency,
		MaxPerUser:          c.MaxPerUser,
	}, nil
}

// Validate checks everything the CLI commands share. The bot token is only
// checked by ValidateBot since the store commands never connect to Discord.
func (c *Config) Validate() error {
	var errs []error
	switch c.DB.Driver {
	case database.DriverPostgres, database.DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("db.driver must be %q or %q, got %q", database.DriverPostgres, database.DriverSQLite, c.DB.Driver))
	}
	switch c.Log.Format {
	case logger.FormatPretty, logger.FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("log.format must be %q or %q, got %q", logger.FormatPretty, logger.FormatJSON, c.Log.Format))
	}
	if c.Reminders.Window.Duration < minReminderWindow {
		errs = append(errs, fmt.Errorf("reminders.window must be at least %s, got %s", minReminderWindow, c.Reminders.Window))
	}
	if c.Reminders.DeliveryConcurrency <= 0 {
		errs = append(errs, fmt.Errorf("reminders.delivery_concurrency must be positive, got %d", c.Reminders.DeliveryConcurrency))
	}
	if _, err := c.Reminders.Settings(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (c *Config) ValidateBot() error {
	if c.Bot.Token == "" {
		return errors.New("bot.token is required (or set BOT_TOKEN)")
	}
	return nil
}

// Duration is a time.Duration that reads from TOML strings such as "10m".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}
