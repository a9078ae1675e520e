package reminders

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Delta is a calendar aware offset. Years, months and days go through
// time.AddDate so month lengths and leap years are honoured, the rest is a
// plain duration.
type Delta struct {
	Years  int
	Months int
	Days   int
	Clock  time.Duration
}

func (d Delta) From(t time.Time) time.Time {
	return t.AddDate(d.Years, d.Months, d.Days).Add(d.Clock)
}

func (d Delta) IsZero() bool {
	return d == Delta{}
}

func (d Delta) String() string {
	if d.IsZero() {
		return "0s"
	}

	var b strings.Builder
	if d.Years != 0 {
		fmt.Fprintf(&b, "%dy", d.Years)
	}
	if d.Months != 0 {
		fmt.Fprintf(&b, "%dmo", d.Months)
	}
	if d.Days != 0 {
		fmt.Fprintf(&b, "%dd", d.Days)
	}
	if d.Clock != 0 {
		b.WriteString(d.Clock.String())
	}
	return b.String()
}

type durationUnit struct {
	name    string
	aliases []string
	limit   int
	apply   func(d *Delta, v int)
}

// Order matters: the first unit whose name starts with the typed text wins,
// so "m" is minutes and "mo" is months.
var durationUnits = []durationUnit{
	{name: "seconds", aliases: []string{"secs"}, limit: 4 * 12 * 30 * 24 * 60 * 60, apply: func(d *Delta, v int) {
		d.Clock += time.Duration(v) * time.Second
	}},
	{name: "minutes", aliases: []string{"mins"}, limit: 4 * 12 * 30 * 24 * 60, apply: func(d *Delta, v int) {
		d.Clock += time.Duration(v) * time.Minute
	}},
	{name: "hours", aliases: []string{"hrs", "hr"}, limit: 4 * 12 * 30 * 24, apply: func(d *Delta, v int) {
		d.Clock += time.Duration(v) * time.Hour
	}},
	{name: "days", limit: 4 * 12 * 30, apply: func(d *Delta, v int) {
		d.Days += v
	}},
	{name: "weeks", limit: 4 * 12 * 4, apply: func(d *Delta, v int) {
		d.Days += 7 * v
	}},
	{name: "months", limit: 4 * 12, apply: func(d *Delta, v int) {
		d.Months += v
	}},
	{name: "years", aliases: []string{"yrs", "yr"}, limit: 4, apply: func(d *Delta, v int) {
		d.Years += v
	}},
}

func lookupUnit(s string) (durationUnit, bool) {
	for _, u := range durationUnits {
		if strings.HasPrefix(u.name, s) || slices.Contains(u.aliases, s) {
			return u, true
		}
	}
	return durationUnit{}, false
}

var (
	durationPair       = regexp.MustCompile(`(\d+)\s*([a-z]+)`)
	durationSeparators = strings.NewReplacer("and", ",", "&", ",", "+", ",")
)

// ParseDuration reads free text such as "1d, 10 days, 5secs" or
// "3 yrs 1 day". Segments are split on commas and on "and", "&" and "+".
// Anything that does not parse, and any value above roughly four years for
// its unit, is collected into a *ValidationError.
func ParseDuration(text string) (Delta, error) {
	var (
		delta   Delta
		parsed  int
		invalid []string
		tooLong []string
	)

	for _, segment := range strings.Split(durationSeparators.Replace(strings.ToLower(text)), ",") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}

		matches := durationPair.FindAllStringSubmatchIndex(segment, -1)
		if !coversSegment(segment, matches) {
			invalid = append(invalid, segment)
			continue
		}

		for _, m := range matches {
			pair := segment[m[0]:m[1]]
			u, ok := lookupUnit(segment[m[4]:m[5]])
			if !ok {
				invalid = append(invalid, pair)
				continue
			}

			value, err := strconv.Atoi(segment[m[2]:m[3]])
			if err != nil || value > u.limit {
				tooLong = append(tooLong, pair)
				continue
			}

			u.apply(&delta, value)
			parsed++
		}
	}

	if len(invalid) > 0 || len(tooLong) > 0 {
		return Delta{}, &ValidationError{Invalid: invalid, TooLong: tooLong}
	}
	if parsed == 0 {
		return Delta{}, &ValidationError{Invalid: []string{strings.TrimSpace(text)}}
	}
	return delta, nil
}

// coversSegment reports whether the pairs account for the whole segment,
// allowing only whitespace between them.
func coversSegment(segment string, matches [][]int) bool {
	if len(matches) == 0 {
		return false
	}

	last := 0
	for _, m := range matches {
		if strings.TrimSpace(segment[last:m[0]]) != "" {
			return false
		}
		last = m[1]
	}
	return strings.TrimSpace(segment[last:]) == ""
}
