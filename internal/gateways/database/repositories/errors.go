package repositories

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/woolinator/bot/woolinator/config"
)

// RepositoryError represents a repository-level error
type RepositoryError struct {
	Operation string
	Entity    string
	Err       error
}

func (re *RepositoryError) Error() string {
	return fmt.Sprintf("repository error during %s for %s: %v", re.Operation, re.Entity, re.Err)
}

func (re *RepositoryError) Unwrap() error {
	return re.Err
}

func handleError(operation, entity string, err error) error {
	if err == nil {
		return nil
	}
	return &RepositoryError{
		Operation: operation,
		Entity:    entity,
		Err:       err,
	}
}

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, config.DefaultQueryTimeout)
}

// queryLogger times a single repository call. Successful queries log at debug,
// slow ones at warn.
type queryLogger struct {
	operation string
	entity    string
	startTime time.Time
}

func newQueryLogger(operation, entity string) *queryLogger {
	return &queryLogger{
		operation: operation,
		entity:    entity,
		startTime: time.Now(),
	}
}

func (l *queryLogger) Log(err error, rows int) {
	took := time.Since(l.startTime)

	if err != nil {
		slog.Error("Query failed",
			slog.String("type", "db"),
			slog.String("operation", l.operation),
			slog.String("entity", l.entity),
			slog.Duration("took", took),
			slog.Any("error", err),
		)
		return
	}

	level := slog.LevelDebug
	if took >= config.SlowQueryThreshold {
		level = slog.LevelWarn
	}
	slog.Log(context.Background(), level, "Query executed",
		slog.String("type", "db"),
		slog.String("operation", l.operation),
		slog.String("entity", l.entity),
		slog.Duration("took", took),
		slog.Int("rows", rows),
	)
}
