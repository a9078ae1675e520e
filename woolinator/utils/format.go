package utils

import (
	"fmt"
	"time"
)

func Ptr[T any](v T) *T {
	return &v
}

// TrimString cuts s to n runes, ending with "..." when something was removed.
func TrimString(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

// Timestamp renders t as a Discord timestamp. Style is one of the Discord
// format letters such as "f", "F" or "R".
func Timestamp(t time.Time, style string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), style)
}
