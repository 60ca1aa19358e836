package ical

import (
	"strconv"
	"strings"
)

const (
	propAction = "ACTION"
	propRepeat = "REPEAT"
)

// Alarm actions defined by RFC 5545.
const (
	ActionAudio   = "AUDIO"
	ActionDisplay = "DISPLAY"
	ActionEmail   = "EMAIL"
)

func newAlarm(action string, trigger Trigger) *CalendarComponent {
	alarm := NewCalendarComponent(compAlarm)
	alarm.SetProperty(NewProperty(propAction, action))
	alarm.SetProperty(trigger.Property())
	return alarm
}

// NewAudioAlarm creates a VALARM playing a sound.
func NewAudioAlarm(trigger Trigger) *CalendarComponent {
	return newAlarm(ActionAudio, trigger)
}

// NewDisplayAlarm creates a VALARM showing description.
func NewDisplayAlarm(description string, trigger Trigger) *CalendarComponent {
	return newAlarm(ActionDisplay, trigger).SetDescription(description)
}

// NewEmailAlarm creates a VALARM sending an email. Recipients are added as
// ATTENDEE properties.
func NewEmailAlarm(description, summary string, trigger Trigger) *CalendarComponent {
	return newAlarm(ActionEmail, trigger).SetDescription(description).SetSummary(summary)
}

// Action returns the ACTION of an alarm in upper case.
func (c *CalendarComponent) Action() string {
	if prop := c.Property(propAction); prop != nil {
		return strings.ToUpper(prop.Value)
	}
	return ""
}

// Trigger returns the decoded TRIGGER.
func (c *CalendarComponent) Trigger() (Trigger, bool) {
	return ParseTrigger(c.Property(propTrigger))
}

// SetTrigger sets TRIGGER.
func (c *CalendarComponent) SetTrigger(t Trigger) *CalendarComponent {
	return c.SetProperty(t.Property())
}

// SetDurationAndRepeat makes the alarm fire n more times, d apart. The two
// properties always go together.
func (c *CalendarComponent) SetDurationAndRepeat(d Duration, n int) *CalendarComponent {
	if n < 0 {
		n = 0
	}
	return c.SetDuration(d).SetProperty(NewProperty(propRepeat, strconv.Itoa(n)))
}

// Repeat returns the REPEAT count.
func (c *CalendarComponent) Repeat() (int, bool) {
	prop := c.Property(propRepeat)
	if prop == nil {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(prop.Value))
	return n, err == nil
}
