// Package timeutil parses the compact look-back windows accepted by
// "fsh history --since", such as "90m", "3d" or "1w2d".
package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const day = 24 * time.Hour

var (
	segment = regexp.MustCompile(`^(\d+)([a-z]+)`)
	units   = map[string]time.Duration{
		"s": time.Second, "sec": time.Second, "secs": time.Second,
		"m": time.Minute, "min": time.Minute, "mins": time.Minute,
		"h": time.Hour, "hr": time.Hour, "hrs": time.Hour,
		"d": day, "day": day, "days": day,
		"w": 7 * day, "wk": 7 * day, "wks": 7 * day,
	}
	order = []struct {
		label string
		value time.Duration
	}{{"w", 7 * day}, {"d", day}, {"h", time.Hour}, {"m", time.Minute}, {"s", time.Second}}
)

// ParseWindow converts a window like "1w2d" into a duration. Whitespace
// between segments is ignored.
func ParseWindow(input string) (time.Duration, error) {
	rest := strings.ToLower(strings.Join(strings.Fields(input), ""))
	if rest == "" {
		return 0, fmt.Errorf("empty window")
	}
	var total time.Duration
	for rest != "" {
		m := segment.FindStringSubmatch(rest)
		if m == nil {
			return 0, fmt.Errorf("invalid window segment %q", rest)
		}
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid window value %q: %w", m[1], err)
		}
		unit, ok := units[m[2]]
		if !ok {
			return 0, fmt.Errorf("unsupported window unit %q", m[2])
		}
		total += time.Duration(n) * unit
		rest = rest[len(m[0]):]
	}
	if total <= 0 {
		return 0, fmt.Errorf("window must be greater than zero")
	}
	return total, nil
}

// FormatWindow renders d in the same compact form ParseWindow reads.
func FormatWindow(d time.Duration) string {
	var b strings.Builder
	for _, u := range order {
		if n := d / u.value; n > 0 {
			fmt.Fprintf(&b, "%d%s", n, u.label)
			d -= n * u.value
		}
	}
	if b.Len() == 0 {
		return "0s"
	}
	return b.String()
}

// Cutoff is the earliest instant inside window when looking back from now.
func Cutoff(now time.Time, window time.Duration) time.Time {
	return now.Add(-window)
}
