package ical

import (
	"github.com/teambition/rrule-go"
)

const propRRule = "RRULE"

// ParseRecurrence decodes an RRULE value such as "FREQ=WEEKLY;BYDAY=MO".
// The rule is decoded only; occurrences are never expanded.
func ParseRecurrence(prop *Property) (*rrule.ROption, bool) {
	if prop == nil || prop.Value == "" {
		return nil, false
	}
	opt, err := rrule.StrToROption(prop.Value)
	if err != nil {
		return nil, false
	}
	return opt, true
}

// RecurrenceProperty renders opt as an RRULE property.
func RecurrenceProperty(opt rrule.ROption) *Property {
	return NewProperty(propRRule, opt.RRuleString())
}
