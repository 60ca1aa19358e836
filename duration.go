package ical

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const propDuration = "DURATION"

// Duration is an RFC 5545 duration. Calendar-relative units (years and
// months) do not exist in the format and are rejected.
type Duration struct {
	Negative bool
	Weeks    int
	Days     int
	Hours    int
	Minutes  int
	Seconds  int
}

// duration units in the order they must appear
const (
	unitWeek = iota
	unitDay
	unitHour
	unitMinute
	unitSecond
)

// ParseDuration decodes s, such as "P1DT2H" or "-PT15M".
//
//	dur-value = (["+"] / "-") "P" (dur-date / dur-time / dur-week)
//
// A week count may be followed by a day count and a time part.
func ParseDuration(s string) (Duration, error) {
	var d Duration
	in := s

	switch {
	case strings.HasPrefix(s, "-"):
		d.Negative = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	if !strings.HasPrefix(s, "P") {
		return Duration{}, fmt.Errorf("%w: found %q, expected \"P\"", ErrInvalidDuration, in)
	}
	s = s[1:]

	inTime := false
	timeUnits := 0
	last := -1

	for len(s) > 0 {
		if s[0] == 'T' {
			if inTime {
				return Duration{}, fmt.Errorf("%w: %q has two time parts", ErrInvalidDuration, in)
			}
			inTime = true
			s = s[1:]
			continue
		}

		n := 0
		for n < len(s) && s[n] >= '0' && s[n] <= '9' {
			n++
		}
		if n == 0 || n == len(s) {
			return Duration{}, fmt.Errorf("%w: found %q, expected a number and a unit", ErrInvalidDuration, in)
		}
		v, err := strconv.Atoi(s[:n])
		if err != nil {
			return Duration{}, fmt.Errorf("%w: %v", ErrInvalidDuration, err)
		}

		var unit int
		switch c := s[n]; {
		case c == 'W' && !inTime:
			unit, d.Weeks = unitWeek, v
		case c == 'D' && !inTime:
			unit, d.Days = unitDay, v
		case c == 'H' && inTime:
			unit, d.Hours = unitHour, v
		case c == 'M' && inTime:
			unit, d.Minutes = unitMinute, v
		case c == 'S' && inTime:
			unit, d.Seconds = unitSecond, v
		case c == 'Y' || c == 'M':
			return Duration{}, fmt.Errorf("%w: %q uses calendar units", ErrInvalidDuration, in)
		default:
			return Duration{}, fmt.Errorf("%w: unexpected %q in %q", ErrInvalidDuration, c, in)
		}
		if unit <= last {
			return Duration{}, fmt.Errorf("%w: %q has units out of order", ErrInvalidDuration, in)
		}
		last = unit
		if inTime {
			timeUnits++
		}
		s = s[n+1:]
	}

	if last < 0 || (inTime && timeUnits == 0) {
		return Duration{}, fmt.Errorf("%w: %q is incomplete", ErrInvalidDuration, in)
	}
	return d, nil
}

// DurationFromProperty decodes the value of prop as a duration.
func DurationFromProperty(prop *Property) (Duration, bool) {
	if prop == nil {
		return Duration{}, false
	}
	d, err := ParseDuration(prop.Value)
	return d, err == nil
}

// DurationOf converts d, dropping fractions of a second. Whole weeks are
// expressed in weeks.
func DurationOf(d time.Duration) Duration {
	var out Duration
	if d < 0 {
		out.Negative = true
		d = -d
	}
	secs := int64(d / time.Second)

	const day = 24 * 60 * 60
	if secs > 0 && secs%(7*day) == 0 {
		out.Weeks = int(secs / (7 * day))
		return out
	}

	out.Days = int(secs / day)
	secs %= day
	out.Hours = int(secs / 3600)
	secs %= 3600
	out.Minutes = int(secs / 60)
	out.Seconds = int(secs % 60)
	return out
}

// TimeDuration returns the nominal length of d, counting days as 24 hours.
func (d Duration) TimeDuration() time.Duration {
	td := time.Duration(d.Weeks)*7*24*time.Hour +
		time.Duration(d.Days)*24*time.Hour +
		time.Duration(d.Hours)*time.Hour +
		time.Duration(d.Minutes)*time.Minute +
		time.Duration(d.Seconds)*time.Second
	if d.Negative {
		return -td
	}
	return td
}

// IsZero reports whether d has no length.
func (d Duration) IsZero() bool {
	return d.Weeks == 0 && d.Days == 0 && d.Hours == 0 && d.Minutes == 0 && d.Seconds == 0
}

// String renders d in the canonical form; a zero duration is "PT0S".
// Negative fields are folded into the sign of the whole duration.
func (d Duration) String() string {
	if d.IsZero() {
		return "PT0S"
	}
	if d.Weeks < 0 || d.Days < 0 || d.Hours < 0 || d.Minutes < 0 || d.Seconds < 0 {
		return DurationOf(d.TimeDuration()).String()
	}

	var b strings.Builder
	if d.Negative {
		b.WriteByte('-')
	}
	b.WriteByte('P')

	writeUnit := func(v int, unit byte) {
		if v > 0 {
			b.WriteString(strconv.Itoa(v))
			b.WriteByte(unit)
		}
	}
	writeUnit(d.Weeks, 'W')
	writeUnit(d.Days, 'D')
	if d.Hours > 0 || d.Minutes > 0 || d.Seconds > 0 {
		b.WriteByte('T')
		writeUnit(d.Hours, 'H')
		writeUnit(d.Minutes, 'M')
		writeUnit(d.Seconds, 'S')
	}
	return b.String()
}

// Property renders d as a DURATION property.
func (d Duration) Property() *Property {
	return NewProperty(propDuration, d.String())
}
