package types

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// isoFormat is the canonical rendering of DateTime values.
const isoFormat = "2006-01-02T15:04:05.999Z07:00"

// datetimeLayouts are tried in order by ParseDateTime. Layouts without an
// offset are interpreted as UTC.
var datetimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDateTime parses an ISO-8601 datetime string. Strings without a
// timezone offset are taken as UTC.
func ParseDateTime(s string) (time.Time, error) {
	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if t.Location() == time.Local {
				t = t.UTC()
			}
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid datetime %q", s)
}

// Duration is a span of time with second resolution, normalized into
// days, hours, minutes and seconds for property access.
type Duration struct {
	Secs int64
}

// DurationFromSeconds builds a Duration from a raw second count.
func DurationFromSeconds(s int64) Duration { return Duration{Secs: s} }

// IsZero reports whether the duration spans no time.
func (d Duration) IsZero() bool { return d.Secs == 0 }

// Days returns the whole-day component.
func (d Duration) Days() int64 { return d.Secs / 86400 }

// Hours returns the hour component after removing whole days.
func (d Duration) Hours() int64 { return (d.Secs % 86400) / 3600 }

// Minutes returns the minute component after removing whole hours.
func (d Duration) Minutes() int64 { return (d.Secs % 3600) / 60 }

// Seconds returns the second component after removing whole minutes.
func (d Duration) Seconds() int64 { return d.Secs % 60 }

// TotalSeconds returns the full span in seconds.
func (d Duration) TotalSeconds() int64 { return d.Secs }

// Add returns the component-wise normalized sum.
func (d Duration) Add(o Duration) Duration { return Duration{Secs: d.Secs + o.Secs} }

// Sub returns the component-wise normalized difference.
func (d Duration) Sub(o Duration) Duration { return Duration{Secs: d.Secs - o.Secs} }

// Neg returns the negated duration.
func (d Duration) Neg() Duration { return Duration{Secs: -d.Secs} }

// Scale multiplies the duration by a number, truncating to whole seconds.
func (d Duration) Scale(f float64) Duration {
	return Duration{Secs: int64(float64(d.Secs) * f)}
}

// String renders the duration in the "<d>d:<h>h:<m>m:<s>s" form accepted
// by ParseDuration.
func (d Duration) String() string {
	s := d.Secs
	sign := ""
	if s < 0 {
		sign = "-"
		s = -s
	}
	p := Duration{Secs: s}
	return fmt.Sprintf("%s%dd:%dh:%dm:%ds", sign, p.Days(), p.Hours(), p.Minutes(), p.Seconds())
}

// ParseDuration parses the "<d>d:<h>h:<m>m:<s>s" duration form. Any prefix
// subset of the components is permitted ("2h:30m", "45s", "1d"); a single
// leading "-" negates the whole span.
func ParseDuration(s string) (Duration, error) {
	in := strings.TrimSpace(s)
	neg := false
	if strings.HasPrefix(in, "-") {
		neg = true
		in = in[1:]
	}
	if in == "" {
		return Duration{}, fmt.Errorf("invalid duration %q", s)
	}

	units := map[byte]int64{'d': 86400, 'h': 3600, 'm': 60, 's': 1}
	order := "dhms"
	next := 0 // first unit still allowed, enforces d>h>m>s ordering

	var total int64
	for _, part := range strings.Split(in, ":") {
		if len(part) < 2 {
			return Duration{}, fmt.Errorf("invalid duration %q", s)
		}
		unit := part[len(part)-1]
		mult, ok := units[unit]
		if !ok {
			return Duration{}, fmt.Errorf("invalid duration %q", s)
		}
		idx := strings.IndexByte(order, unit)
		if idx < next {
			return Duration{}, fmt.Errorf("invalid duration %q", s)
		}
		next = idx + 1
		n, err := strconv.ParseInt(part[:len(part)-1], 10, 64)
		if err != nil || n < 0 {
			return Duration{}, fmt.Errorf("invalid duration %q", s)
		}
		total += n * mult
	}
	if neg {
		total = -total
	}
	return Duration{Secs: total}, nil
}

// temporalProperty resolves the virtual properties DateTime and Duration
// values expose to path resolution. ok is false for unknown properties or
// non-temporal values.
func temporalProperty(v *Value, key string, a *Arena) (*Value, bool) {
	switch v.kind {
	case KindDateTime:
		t := v.t
		switch key {
		case "year":
			return a.Int(int64(t.Year())), true
		case "month":
			return a.Int(int64(t.Month())), true
		case "day":
			return a.Int(int64(t.Day())), true
		case "hour":
			return a.Int(int64(t.Hour())), true
		case "minute":
			return a.Int(int64(t.Minute())), true
		case "second":
			return a.Int(int64(t.Second())), true
		case "timestamp":
			return a.Int(t.Unix()), true
		case "iso":
			return a.String(t.UTC().Format(isoFormat)), true
		}
	case KindDuration:
		d := v.dur
		switch key {
		case "days":
			return a.Int(d.Days()), true
		case "hours":
			return a.Int(d.Hours()), true
		case "minutes":
			return a.Int(d.Minutes()), true
		case "seconds":
			return a.Int(d.Seconds()), true
		case "total_seconds":
			return a.Int(d.TotalSeconds()), true
		}
	}
	return nil, false
}

// TemporalProperty is the exported entry point used by the evaluator's
// path resolution.
func TemporalProperty(v *Value, key string, a *Arena) (*Value, bool) {
	return temporalProperty(v, key, a)
}
