package ical

import (
	"strconv"
	"strings"
	"time"
)

const (
	propPercentComplete = "PERCENT-COMPLETE"
	propCompleted       = "COMPLETED"
)

// SetPercentComplete sets PERCENT-COMPLETE, clamped to 0-100.
func (c *CalendarComponent) SetPercentComplete(n int) *CalendarComponent {
	switch {
	case n < 0:
		n = 0
	case n > 100:
		n = 100
	}
	return c.SetProperty(NewProperty(propPercentComplete, strconv.Itoa(n)))
}

// PercentComplete returns PERCENT-COMPLETE, if it holds an integer in 0-100.
func (c *CalendarComponent) PercentComplete() (int, bool) {
	prop := c.Property(propPercentComplete)
	if prop == nil {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(prop.Value))
	if err != nil || n < 0 || n > 100 {
		return 0, false
	}
	return n, true
}

// SetCompleted sets COMPLETED. RFC 5545 requires it in UTC.
func (c *CalendarComponent) SetCompleted(t time.Time) *CalendarComponent {
	return c.SetProperty(NewUTCDateTime(t).Property(propCompleted))
}

// Completed returns COMPLETED. Values not in UTC are ignored.
func (c *CalendarComponent) Completed() (time.Time, bool) {
	dt, ok := ParseDateTime(c.Property(propCompleted))
	if !ok {
		return time.Time{}, false
	}
	utc, ok := dt.(UTCDateTime)
	if !ok {
		return time.Time{}, false
	}
	return utc.Time, true
}
