package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/woolinator/bot/internal/gateways/database/models"
	"github.com/woolinator/bot/woolinator/config"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	defaultMaxRetries    = 3
	defaultRetryInterval = time.Second
	defaultSQLitePath    = "woolinator.db"
)

type DBConfig struct {
	Driver       string `toml:"driver"`
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	User         string `toml:"user"`
	Password     string `toml:"password"`
	Database     string `toml:"database"`
	SSLMode      string `toml:"ssl_mode"`
	PoolSize     int    `toml:"pool_size"`
	MaxIdleConns int    `toml:"max_idle_conns"`
	MaxLifetime  int    `toml:"max_lifetime"`
	Path         string `toml:"path"`
}

// DB wraps the bun handle used by repositories. For PostgreSQL it also keeps
// a pgx pool for raw statements.
type DB struct {
	driver string
	pool   *pgxpool.Pool
	bunDB  *bun.DB
}

func New(ctx context.Context, cfg DBConfig) (*DB, error) {
	var (
		db  *DB
		err error
	)
	switch cfg.Driver {
	case DriverPostgres, "":
		db, err = newPostgres(ctx, cfg)
	case DriverSQLite:
		db, err = newSQLite(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("Database connected",
		slog.String("type", "db"),
		slog.String("driver", db.driver),
	)
	return db, nil
}

func newPostgres(ctx context.Context, cfg DBConfig) (*DB, error) {
	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))

	var err error
	for i := 0; i < defaultMaxRetries; i++ {
		var conn net.Conn
		conn, err = net.DialTimeout("tcp", addr, config.NetworkDialTimeout)
		if err == nil {
			conn.Close()
			break
		}
		time.Sleep(defaultRetryInterval)
	}
	if err != nil {
		return nil, fmt.Errorf("database server unreachable after %d attempts: %w", defaultMaxRetries, err)
	}

	dsn := buildConnString(cfg)
	poolConfig, err := pgxpool.ParseConfig(dsn + "&connect_timeout=5")
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	if cfg.PoolSize > 0 {
		poolConfig.MaxConns = int32(cfg.PoolSize)
	}
	if cfg.MaxIdleConns > 0 {
		poolConfig.MinConns = int32(cfg.MaxIdleConns)
	}
	if cfg.MaxLifetime > 0 {
		poolConfig.MaxConnLifetime = time.Duration(cfg.MaxLifetime) * time.Second
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	if cfg.PoolSize > 0 {
		sqldb.SetMaxOpenConns(cfg.PoolSize)
	}

	return &DB{
		driver: DriverPostgres,
		pool:   pool,
		bunDB:  bun.NewDB(sqldb, pgdialect.New()),
	}, nil
}

func buildConnString(cfg DBConfig) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:     "/" + cfg.Database,
		RawQuery: "sslmode=" + url.QueryEscape(sslMode),
	}
	return u.String()
}

// newSQLite opens a single-connection SQLite database. ":memory:" is allowed
// and is what the tests use.
func newSQLite(path string) (*DB, error) {
	if path == "" {
		path = defaultSQLitePath
	}
	dsn := path
	if path != ":memory:" {
		dsn = "file:" + path + "?_busy_timeout=5000&_journal_mode=WAL"
	}

	sqldb, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	sqldb.SetMaxOpenConns(1)

	return &DB{
		driver: DriverSQLite,
		bunDB:  bun.NewDB(sqldb, sqlitedialect.New()),
	}, nil
}

func (db *DB) Driver() string {
	return db.driver
}

func (db *DB) BunDB() *bun.DB {
	return db.bunDB
}

func (db *DB) Ping(ctx context.Context) error {
	if db.pool != nil {
		if err := db.pool.Ping(ctx); err != nil {
			return err
		}
	}
	return db.bunDB.PingContext(ctx)
}

// ExecWithLog runs a raw statement, through the pgx pool when there is one.
func (db *DB) ExecWithLog(ctx context.Context, query string, args ...any) (int64, error) {
	start := time.Now()

	var (
		affected int64
		err      error
	)
	if db.pool != nil {
		var tag pgconn.CommandTag
		tag, err = db.pool.Exec(ctx, query, args...)
		affected = tag.RowsAffected()
	} else {
		var result sql.Result
		result, err = db.bunDB.ExecContext(ctx, query, args...)
		if err == nil {
			affected, _ = result.RowsAffected()
		}
	}
	took := time.Since(start)

	if err != nil {
		slog.Error("Query failed",
			slog.String("type", "db"),
			slog.String("operation", "exec"),
			slog.String("query", query),
			slog.Any("args", args),
			slog.Duration("took", took),
			slog.Any("error", err),
		)
		return 0, err
	}

	slog.Debug("Query executed",
		slog.String("type", "db"),
		slog.String("operation", "exec"),
		slog.String("query", query),
		slog.Duration("took", took),
		slog.Int64("affected_rows", affected),
	)
	return affected, nil
}

func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
	if db.bunDB != nil {
		db.bunDB.Close()
	}
}

// InitializeSchema creates the reminders table and its indexes if missing.
func (db *DB) InitializeSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, config.DefaultQueryTimeout)
	defer cancel()

	tables := []any{
		(*models.Reminder)(nil),
	}
	for _, model := range tables {
		if _, err := db.bunDB.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_reminders_time_expire ON reminders(time_expire);",
		"CREATE INDEX IF NOT EXISTS idx_reminders_user_id ON reminders(user_id);",
	}
	for _, index := range indexes {
		if _, err := db.ExecWithLog(ctx, index); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	slog.Info("Database schema initialized",
		slog.String("type", "db"),
		slog.String("driver", db.driver),
	)
	return nil
}
