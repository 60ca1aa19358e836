package ical

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

const (
	dateLayout              = "20060102"
	dateTimeLayoutUTC       = "20060102T150405Z"
	dateTimeLayoutLocalized = "20060102T150405"
)

const (
	paramValue = "VALUE"
	paramTZID  = "TZID"

	valueDate     = "DATE"
	valueDateTime = "DATE-TIME"
	valueDuration = "DURATION"
)

// DatePerhapsTime is either a Date or a CalendarDateTime.
type DatePerhapsTime interface {
	// Property renders the value as a property named name.
	Property(name string) *Property
	isDatePerhapsTime()
}

// CalendarDateTime is a FloatingDateTime, a UTCDateTime or a ZonedDateTime.
type CalendarDateTime interface {
	DatePerhapsTime
	// ToUTC returns the instant the value designates.
	ToUTC(resolver TimezoneResolver) (time.Time, error)
	isCalendarDateTime()
}

// Date is a calendar date without time, rendered with VALUE=DATE.
type Date struct {
	civil.Date
}

// FloatingDateTime is a date-time without time zone.
type FloatingDateTime struct {
	civil.DateTime
}

// UTCDateTime is a date-time in UTC, rendered with a Z suffix.
type UTCDateTime struct {
	time.Time
}

// ZonedDateTime is a wall clock date-time in the zone named by TZID.
type ZonedDateTime struct {
	civil.DateTime
	TZID string
}

// NewDate returns the date of t in t's location.
func NewDate(t time.Time) Date {
	return Date{civil.DateOf(t)}
}

// NewFloatingDateTime returns the wall clock of t, dropping its location.
func NewFloatingDateTime(t time.Time) FloatingDateTime {
	return FloatingDateTime{truncate(civil.DateTimeOf(t))}
}

// NewUTCDateTime returns t in UTC, truncated to the second.
func NewUTCDateTime(t time.Time) UTCDateTime {
	return UTCDateTime{t.UTC().Truncate(time.Second)}
}

// NewZonedDateTime returns the wall clock of t labeled with tzid.
func NewZonedDateTime(t time.Time, tzid string) ZonedDateTime {
	return ZonedDateTime{DateTime: truncate(civil.DateTimeOf(t)), TZID: tzid}
}

func (d Date) Property(name string) *Property {
	return &Property{
		Name:   name,
		Params: []Parameter{{Key: paramValue, Value: valueDate}},
		Value:  d.In(time.UTC).Format(dateLayout),
	}
}

func (dt FloatingDateTime) Property(name string) *Property {
	return &Property{Name: name, Value: dt.In(time.UTC).Format(dateTimeLayoutLocalized)}
}

func (dt UTCDateTime) Property(name string) *Property {
	return &Property{Name: name, Value: dt.UTC().Format(dateTimeLayoutUTC)}
}

func (dt ZonedDateTime) Property(name string) *Property {
	return &Property{
		Name:   name,
		Params: []Parameter{{Key: paramTZID, Value: dt.TZID}},
		Value:  dt.In(time.UTC).Format(dateTimeLayoutLocalized),
	}
}

// ToUTC fails with ErrFloatingTime: a floating value designates no instant.
func (dt FloatingDateTime) ToUTC(TimezoneResolver) (time.Time, error) {
	return time.Time{}, ErrFloatingTime
}

func (dt UTCDateTime) ToUTC(TimezoneResolver) (time.Time, error) {
	return dt.UTC(), nil
}

// ToUTC resolves TZID with resolver. A nil resolver or an unknown zone
// yields ErrTimezoneUnavailable.
func (dt ZonedDateTime) ToUTC(resolver TimezoneResolver) (time.Time, error) {
	if resolver == nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrTimezoneUnavailable, dt.TZID)
	}
	loc, err := resolver.Resolve(dt.TZID)
	if err != nil {
		return time.Time{}, err
	}
	return dt.In(loc).UTC(), nil
}

func (Date) isDatePerhapsTime()             {}
func (FloatingDateTime) isDatePerhapsTime() {}
func (UTCDateTime) isDatePerhapsTime()      {}
func (ZonedDateTime) isDatePerhapsTime()    {}

func (FloatingDateTime) isCalendarDateTime() {}
func (UTCDateTime) isCalendarDateTime()      {}
func (ZonedDateTime) isCalendarDateTime()    {}

// TimezoneResolver maps a TZID to a location.
type TimezoneResolver interface {
	Resolve(tzid string) (*time.Location, error)
}

// ResolverFunc adapts a function to TimezoneResolver.
type ResolverFunc func(tzid string) (*time.Location, error)

func (f ResolverFunc) Resolve(tzid string) (*time.Location, error) {
	return f(tzid)
}

// SystemTimezones resolves TZIDs against the IANA database known to the
// time package.
var SystemTimezones TimezoneResolver = ResolverFunc(func(tzid string) (*time.Location, error) {
	if tzid == "" {
		return nil, fmt.Errorf("%w: empty TZID", ErrTimezoneUnavailable)
	}
	loc, err := time.LoadLocation(tzid)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTimezoneUnavailable, err)
	}
	return loc, nil
})

// ParseDate decodes an 8-digit YYYYMMDD value.
func ParseDate(prop *Property) (Date, bool) {
	if prop == nil || len(prop.Value) != len(dateLayout) || !isDigits(prop.Value) {
		return Date{}, false
	}
	t, err := time.Parse(dateLayout, prop.Value)
	if err != nil {
		return Date{}, false
	}
	return NewDate(t), true
}

// ParseDateTime decodes a date-time. A trailing Z selects UTC, a TZID
// parameter a zoned value, anything else a floating one. An empty TZID
// matches no form.
func ParseDateTime(prop *Property) (CalendarDateTime, bool) {
	if prop == nil {
		return nil, false
	}
	v := prop.Value

	if strings.HasSuffix(v, "Z") {
		if !isDateTimeText(v[:len(v)-1]) {
			return nil, false
		}
		t, err := time.Parse(dateTimeLayoutUTC, v)
		if err != nil {
			return nil, false
		}
		return UTCDateTime{t}, true
	}

	if !isDateTimeText(v) {
		return nil, false
	}
	t, err := time.Parse(dateTimeLayoutLocalized, v)
	if err != nil {
		return nil, false
	}

	if tzid, ok := prop.Param(paramTZID); ok {
		if tzid == "" {
			return nil, false
		}
		return ZonedDateTime{DateTime: civil.DateTimeOf(t), TZID: tzid}, true
	}
	return FloatingDateTime{civil.DateTimeOf(t)}, true
}

// ParseDatePerhapsTime decodes a DATE or DATE-TIME value. With VALUE=DATE
// a date is tried first, otherwise a date-time is.
func ParseDatePerhapsTime(prop *Property) (DatePerhapsTime, bool) {
	if prop == nil {
		return nil, false
	}

	if v, ok := prop.Param(paramValue); ok && strings.EqualFold(v, valueDate) {
		if d, ok := ParseDate(prop); ok {
			return d, true
		}
		if dt, ok := ParseDateTime(prop); ok {
			return dt, true
		}
		return nil, false
	}

	if dt, ok := ParseDateTime(prop); ok {
		return dt, true
	}
	if d, ok := ParseDate(prop); ok {
		return d, true
	}
	return nil, false
}

func truncate(dt civil.DateTime) civil.DateTime {
	dt.Time.Nanosecond = 0
	return dt
}

func isDateTimeText(s string) bool {
	return len(s) == len(dateTimeLayoutLocalized) && s[8] == 'T' && isDigits(s[:8]) && isDigits(s[9:])
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
