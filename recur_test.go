package ical

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teambition/rrule-go"
)

func TestParseRecurrence(t *testing.T) {
	opt, ok := ParseRecurrence(NewProperty("RRULE", "FREQ=WEEKLY;INTERVAL=2;BYDAY=MO,WE;COUNT=10"))
	require.True(t, ok)

	assert.Equal(t, rrule.WEEKLY, opt.Freq)
	assert.Equal(t, 2, opt.Interval)
	assert.Equal(t, 10, opt.Count)
	assert.Equal(t, []rrule.Weekday{rrule.MO, rrule.WE}, opt.Byweekday)
}

func TestParseRecurrenceMisses(t *testing.T) {
	for _, prop := range []*Property{nil, NewProperty("RRULE", ""), NewProperty("RRULE", "FREQ=SOMETIMES")} {
		_, ok := ParseRecurrence(prop)
		assert.False(t, ok)
	}
}

func TestRecurrenceRoundTrip(t *testing.T) {
	prop := RecurrenceProperty(rrule.ROption{Freq: rrule.MONTHLY, Bymonthday: []int{-1}, Count: 3})
	assert.Equal(t, "RRULE", prop.Name)

	opt, ok := ParseRecurrence(prop)
	require.True(t, ok)
	assert.Equal(t, rrule.MONTHLY, opt.Freq)
	assert.Equal(t, []int{-1}, opt.Bymonthday)
	assert.Equal(t, 3, opt.Count)

	event := NewEvent().SetRecurrence(*opt)
	got, ok := event.Recurrence()
	require.True(t, ok)
	assert.Equal(t, opt.RRuleString(), got.RRuleString())
}
