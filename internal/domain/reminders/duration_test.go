package reminders

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Delta
	}{
		{name: "seconds", in: "5secs", want: Delta{Clock: 5 * time.Second}},
		{name: "single letter", in: "5s", want: Delta{Clock: 5 * time.Second}},
		{name: "minutes", in: "10 min", want: Delta{Clock: 10 * time.Minute}},
		{name: "m is minutes", in: "3m", want: Delta{Clock: 3 * time.Minute}},
		{name: "mo is months", in: "3mo", want: Delta{Months: 3}},
		{name: "hours alias", in: "2hrs", want: Delta{Clock: 2 * time.Hour}},
		{name: "days", in: "1000days", want: Delta{Days: 1000}},
		{name: "weeks", in: "2 weeks", want: Delta{Days: 14}},
		{name: "years alias", in: "1yr", want: Delta{Years: 1}},
		{name: "comma list", in: "1d, 10 days, 5secs", want: Delta{Days: 11, Clock: 5 * time.Second}},
		{name: "and separator", in: "2h and 30m", want: Delta{Clock: 2*time.Hour + 30*time.Minute}},
		{name: "ampersand and plus", in: "1h & 1m + 1s", want: Delta{Clock: time.Hour + time.Minute + time.Second}},
		{name: "space separated pairs", in: "3 yrs 1 day", want: Delta{Years: 3, Days: 1}},
		{name: "upper case", in: "2 Hours", want: Delta{Clock: 2 * time.Hour}},
		{name: "trailing comma", in: "5m,", want: Delta{Clock: 5 * time.Minute}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDuration(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDurationErrors(t *testing.T) {
	tests := []struct {
		name        string
		in          string
		wantInvalid []string
		wantTooLong []string
	}{
		{name: "no number", in: "tomorrow", wantInvalid: []string{"tomorrow"}},
		{name: "unknown unit", in: "5 parsecs", wantInvalid: []string{"5 parsecs"}},
		{name: "leftover text", in: "5m later", wantInvalid: []string{"5m later"}},
		{name: "too many years", in: "5 years", wantTooLong: []string{"5 years"}},
		{name: "too many days", in: "1441 days", wantTooLong: []string{"1441 days"}},
		{name: "huge number", in: "99999999999999999999s", wantTooLong: []string{"99999999999999999999s"}},
		{
			name:        "mixed",
			in:          "1h, nope, 60 months",
			wantInvalid: []string{"nope"},
			wantTooLong: []string{"60 months"},
		},
		{name: "blank", in: " , ", wantInvalid: []string{","}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDuration(tt.in)
			var validationErr *ValidationError
			require.True(t, errors.As(err, &validationErr), "want *ValidationError, got %v", err)
			assert.Equal(t, tt.wantInvalid, validationErr.Invalid)
			assert.Equal(t, tt.wantTooLong, validationErr.TooLong)
		})
	}
}

func TestDeltaFrom(t *testing.T) {
	base := time.Date(2024, time.January, 31, 12, 0, 0, 0, time.UTC)

	got := Delta{Months: 1, Clock: 90 * time.Minute}.From(base)
	assert.Equal(t, time.Date(2024, time.March, 2, 13, 30, 0, 0, time.UTC), got)

	got = Delta{Years: 3, Days: 1}.From(base)
	assert.Equal(t, time.Date(2027, time.February, 1, 12, 0, 0, 0, time.UTC), got)
}

func TestDeltaString(t *testing.T) {
	assert.Equal(t, "0s", Delta{}.String())
	assert.Equal(t, "3y", Delta{Years: 3}.String())
	assert.Equal(t, "1y2mo3d1h0m0s", Delta{Years: 1, Months: 2, Days: 3, Clock: time.Hour}.String())
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{
		Invalid: []string{"nope", "this one is definitely too long"},
		TooLong: []string{"60 months"},
	}
	want := "Invalid time formats:\n1. nope\n2. this one is ...\n\n" +
		"Time format that is too long:\n1. 60 months\n"
	assert.Equal(t, want, err.Error())

	assert.Equal(t, "custom", (&ValidationError{Reason: "custom"}).Error())
}
