package reminders

import (
	"errors"
	"fmt"
	"strings"

	"github.com/woolinator/bot/woolinator/utils"
)

var (
	ErrStoreUnavailable = errors.New("reminder store unavailable")
	ErrResolution       = errors.New("destination could not be resolved")
	ErrSchedulerStopped = errors.New("scheduler stopped")
)

// ValidationError is returned for bad user input. It is shown to the user as
// is and never logged as a fault.
type ValidationError struct {
	Invalid []string
	TooLong []string
	Reason  string
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}

	var parts []string
	if len(e.Invalid) > 0 {
		suffix := ""
		if len(e.Invalid) > 1 {
			suffix = "s"
		}
		parts = append(parts, fmt.Sprintf("Invalid time format%s:\n%s", suffix, numbered(e.Invalid)))
	}
	if len(e.TooLong) > 0 {
		label := " that is too long"
		if len(e.TooLong) > 1 {
			label = "s that are too long"
		}
		parts = append(parts, fmt.Sprintf("Time format%s:\n%s", label, numbered(e.TooLong)))
	}
	return strings.Join(parts, "\n")
}

func numbered(items []string) string {
	var b strings.Builder
	for i, item := range items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, utils.TrimString(item, 15))
	}
	return b.String()
}

// resolutionError wraps ErrResolution with what was being looked up.
func resolutionError(what string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s not found", ErrResolution, what)
	}
	return fmt.Errorf("%w: %s: %w", ErrResolution, what, err)
}

func storeError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
}
