package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newBufferLogger(level slog.Level) (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(NewHandler(&buf, &slog.HandlerOptions{Level: level})), &buf
}

func TestHandlerFormatsLine(t *testing.T) {
	log, buf := newBufferLogger(slog.LevelDebug)

	log.Info("Reminder fired", slog.String("type", "rem"), slog.Int64("reminder_id", 7))

	line := buf.String()
	assert.True(t, strings.HasPrefix(line, "[Woolinator] ["), line)
	assert.Contains(t, line, "[INFO] [REM] Reminder fired reminder_id=7")
	assert.NotContains(t, line, "type=")
	assert.NotContains(t, line, "\033[", "no colors when not writing to a terminal file")
}

func TestHandlerTypes(t *testing.T) {
	tests := map[string]LogType{
		"cmd":   TypeCommand,
		"db":    TypeDB,
		"error": TypeError,
		"rem":   TypeReminder,
		"":      TypeSystem,
	}
	for typ, want := range tests {
		log, buf := newBufferLogger(slog.LevelDebug)
		log.Warn("msg", slog.String("type", typ))
		assert.Contains(t, buf.String(), "["+string(want)+"]", typ)
	}
}

func TestHandlerErrorDetails(t *testing.T) {
	log, buf := newBufferLogger(slog.LevelDebug)

	log.Error("Query failed", slog.String("type", "db"), slog.Any("error", errors.New("boom")))
	assert.Contains(t, buf.String(), "[ERROR] [DB] Query failed (logger_test.go:")
	assert.Contains(t, buf.String(), "): boom")
}

func TestHandlerCommandInfo(t *testing.T) {
	log, buf := newBufferLogger(slog.LevelDebug)

	log.With(slog.String("type", "cmd")).Info("Command completed",
		slog.String("name", "remindme"),
		slog.String("user_name", "wool"),
		slog.String("status", "success"),
	)
	assert.Contains(t, buf.String(), "[CMD] Command completed [remindme by wool] [Status: success]")
}

func TestHandlerLevelAndSkips(t *testing.T) {
	log, buf := newBufferLogger(slog.LevelInfo)

	log.Debug("hidden")
	log.Info("sending heartbeat")
	assert.Empty(t, buf.String())
}

func TestHandlerGroups(t *testing.T) {
	log, buf := newBufferLogger(slog.LevelInfo)

	log.WithGroup("db").Info("opened", slog.String("driver", "sqlite"))
	assert.Contains(t, buf.String(), "opened db.driver=sqlite")
}

func TestGlobalHelpers(t *testing.T) {
	log, buf := newBufferLogger(slog.LevelDebug)
	previous := slog.Default()
	slog.SetDefault(log)
	t.Cleanup(func() { slog.SetDefault(previous) })

	LogSystem("Bot is running")
	LogReminder("Reminder fired", slog.Int64("reminder_id", 7))
	LogError("Failed to sync commands", errors.New("401 unauthorized"))
	LogCommand("remindme", 0, nil, slog.String("user_name", "wool"))
	LogCommand("reminders list", 0, errors.New("boom"), slog.String("user_name", "wool"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if assert.Len(t, lines, 5) {
		assert.Contains(t, lines[0], "[INFO] [SYS] Bot is running")
		assert.Contains(t, lines[1], "[INFO] [REM] Reminder fired reminder_id=7")
		assert.Contains(t, lines[2], "[ERROR] [ERR] Failed to sync commands")
		assert.Contains(t, lines[2], ": 401 unauthorized")
		assert.Contains(t, lines[3], "[INFO] [CMD] Command executed [remindme by wool] [Status: success]")
		assert.Contains(t, lines[4], "[ERROR] [CMD] Command failed")
		assert.Contains(t, lines[4], ": boom [reminders list by wool] [Status: failed]")
	}
}
