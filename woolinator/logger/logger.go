package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorPurple = "\033[35m"
	colorWhite  = "\033[37m"
)

type LogType string

const (
	TypeCommand  LogType = "CMD"
	TypeDB       LogType = "DB"
	TypeSystem   LogType = "SYS"
	TypeError    LogType = "ERR"
	TypeReminder LogType = "REM"
)

const (
	FormatPretty = "pretty"
	FormatJSON   = "json"
)

// Attributes that are folded into the message instead of printed as key=value.
var internalAttrs = []string{"type", "name", "user_name", "status", "error", "error_location"}

// Gateway and rest chatter from disgo that is not worth printing.
var skippedMessages = []string{
	"locking buckets",
	"unlocking buckets",
	"gateway event",
	"cleaning up bucket",
	"cleaned up rate limit buckets",
	"binary message received",
	"received gateway message",
	"locking gateway rate limiter",
	"unlocking gateway rate limiter",
	"sending gateway command",
	"new request",
	"new response",
	"locking rest bucket",
	"unlocking rest bucket",
	"rate limit response headers",
	"sending heartbeat",
}

type CustomHandler struct {
	mu     *sync.Mutex
	out    io.Writer
	opts   *slog.HandlerOptions
	color  bool
	attrs  []slog.Attr
	groups []string
}

func NewHandler(out io.Writer, opts *slog.HandlerOptions) *CustomHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{Level: slog.LevelInfo}
	}
	_, isFile := out.(*os.File)
	return &CustomHandler{
		mu:    &sync.Mutex{},
		out:   out,
		opts:  opts,
		color: isFile,
	}
}

// Setup installs the default logger for the given format.
func Setup(out io.Writer, format string, level slog.Level, addSource bool) {
	opts := &slog.HandlerOptions{Level: level, AddSource: addSource}

	var handler slog.Handler
	if format == FormatJSON {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = NewHandler(out, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func (h *CustomHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

func (h *CustomHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(slices.Clip(h.attrs), attrs...)
	return &clone
}

func (h *CustomHandler) WithGroup(name string) slog.Handler {
	clone := *h
	clone.groups = append(slices.Clip(h.groups), name)
	return &clone
}

func (h *CustomHandler) Handle(_ context.Context, r slog.Record) error {
	if shouldSkipLog(&r) {
		return nil
	}

	attrs := make([]slog.Attr, 0, len(h.attrs)+r.NumAttrs())
	attrs = append(attrs, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)
		return true
	})

	levelColor, levelText := levelStyle(r.Level)
	message := r.Message

	if r.Level >= slog.LevelError {
		if location := errorLocation(attrs, r.PC); location != "" {
			message = fmt.Sprintf("%s (%s)", message, location)
		}
	}
	if details := attrValue(attrs, "error"); details != "" {
		message = fmt.Sprintf("%s: %s", message, details)
	}
	if cmd, user := attrValue(attrs, "name"), attrValue(attrs, "user_name"); cmd != "" && user != "" {
		message = fmt.Sprintf("%s [%s by %s]", message, cmd, user)
	}
	if status := attrValue(attrs, "status"); status != "" {
		message = fmt.Sprintf("%s [Status: %s]", message, status)
	}

	var b strings.Builder
	prefix := strings.Join(h.groups, ".")
	for _, attr := range attrs {
		if slices.Contains(internalAttrs, attr.Key) {
			continue
		}
		key := attr.Key
		if prefix != "" {
			key = prefix + "." + key
		}
		fmt.Fprintf(&b, " %s=%v", key, attr.Value)
	}

	line := fmt.Sprintf("[Woolinator] [%s] [%s] [%s] %s%s",
		r.Time.Format("15:04:05"),
		h.paint(levelColor, levelText),
		logType(attrs),
		message,
		b.String(),
	)
	if h.color {
		line = colorWhite + line + colorReset
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintln(h.out, line)
	return err
}

func (h *CustomHandler) paint(color, text string) string {
	if !h.color {
		return text
	}
	return color + text + colorWhite
}

func levelStyle(level slog.Level) (string, string) {
	switch {
	case level >= slog.LevelError:
		return colorRed, "ERROR"
	case level >= slog.LevelWarn:
		return colorYellow, "WARN"
	case level >= slog.LevelInfo:
		return colorGreen, "INFO"
	default:
		return colorPurple, "DEBUG"
	}
}

func shouldSkipLog(r *slog.Record) bool {
	msg := strings.ToLower(r.Message)
	for _, skip := range skippedMessages {
		if strings.Contains(msg, skip) {
			return true
		}
	}
	return false
}

func logType(attrs []slog.Attr) LogType {
	switch attrValue(attrs, "type") {
	case "cmd":
		return TypeCommand
	case "db":
		return TypeDB
	case "error":
		return TypeError
	case "rem":
		return TypeReminder
	default:
		return TypeSystem
	}
}

func attrValue(attrs []slog.Attr, key string) string {
	for i := len(attrs) - 1; i >= 0; i-- {
		if attrs[i].Key == key {
			return attrs[i].Value.String()
		}
	}
	return ""
}

func errorLocation(attrs []slog.Attr, pc uintptr) string {
	if location := attrValue(attrs, "error_location"); location != "" {
		return location
	}
	if pc == 0 {
		return ""
	}
	frame, _ := runtime.CallersFrames([]uintptr{pc}).Next()
	if frame.File == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d", filepath.Base(frame.File), frame.Line)
}
