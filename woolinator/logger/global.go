package logger

import (
	"log/slog"
	"time"
)

// LogCommand logs how a command or component handler finished
func LogCommand(name string, duration time.Duration, err error, attrs ...any) {
	attrs = append([]any{
		slog.String("type", "cmd"),
		slog.String("name", name),
		slog.Duration("took", duration),
	}, attrs...)

	if err != nil {
		slog.Error("Command failed", append(attrs,
			slog.Any("error", err),
			slog.String("status", "failed"),
		)...)
		return
	}
	slog.Info("Command executed", append(attrs, slog.String("status", "success"))...)
}

// LogSystem logs system events
func LogSystem(msg string, attrs ...any) {
	slog.Info(msg, append([]any{slog.String("type", "sys")}, attrs...)...)
}

// LogReminder logs reminder lifecycle events
func LogReminder(msg string, attrs ...any) {
	slog.Info(msg, append([]any{slog.String("type", "rem")}, attrs...)...)
}

// LogError logs error events
func LogError(msg string, err error, attrs ...any) {
	baseAttrs := []any{
		slog.String("type", "error"),
		slog.Any("error", err),
	}
	slog.Error(msg, append(baseAttrs, attrs...)...)
}
