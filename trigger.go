package ical

import "strings"

const (
	propTrigger  = "TRIGGER"
	paramRelated = "RELATED"
	relatedStart = "START"
	relatedEnd   = "END"
)

// Related anchors a relative trigger to the start or the end of its
// parent component.
type Related int

const (
	// RelatedUnset leaves the anchor to the RFC default, the start.
	RelatedUnset Related = iota
	RelatedStart
	RelatedEnd
)

func (r Related) String() string {
	switch r {
	case RelatedStart:
		return relatedStart
	case RelatedEnd:
		return relatedEnd
	}
	return ""
}

// Trigger tells when an alarm fires: either Offset relative to the start or
// end of the parent component, or the absolute instant At.
type Trigger struct {
	Offset  Duration
	Related Related
	At      CalendarDateTime
}

// RelativeTrigger returns a trigger firing d from the anchor related.
func RelativeTrigger(d Duration, related Related) Trigger {
	return Trigger{Offset: d, Related: related}
}

// AbsoluteTrigger returns a trigger firing at.
func AbsoluteTrigger(at CalendarDateTime) Trigger {
	return Trigger{At: at}
}

// IsAbsolute reports whether the trigger names an instant.
func (t Trigger) IsAbsolute() bool {
	return t.At != nil
}

// ParseTrigger decodes a TRIGGER property. VALUE=DATE-TIME selects an
// absolute trigger; VALUE=DURATION or no VALUE a relative one.
func ParseTrigger(prop *Property) (Trigger, bool) {
	if prop == nil {
		return Trigger{}, false
	}

	value, hasValue := prop.Param(paramValue)
	switch {
	case hasValue && strings.EqualFold(value, valueDateTime):
		at, ok := ParseDateTime(prop)
		if !ok {
			return Trigger{}, false
		}
		return AbsoluteTrigger(at), true
	case hasValue && !strings.EqualFold(value, valueDuration):
		return Trigger{}, false
	}

	d, ok := DurationFromProperty(prop)
	if !ok {
		return Trigger{}, false
	}

	related := RelatedUnset
	if r, ok := prop.Param(paramRelated); ok {
		switch {
		case strings.EqualFold(r, relatedStart):
			related = RelatedStart
		case strings.EqualFold(r, relatedEnd):
			related = RelatedEnd
		default:
			return Trigger{}, false
		}
	}
	return RelativeTrigger(d, related), true
}

// Property renders the trigger. Absolute triggers always carry
// VALUE=DATE-TIME.
func (t Trigger) Property() *Property {
	if t.At != nil {
		prop := t.At.Property(propTrigger)
		prop.Params = append([]Parameter{{Key: paramValue, Value: valueDateTime}}, prop.Params...)
		return prop
	}

	prop := NewProperty(propTrigger, t.Offset.String())
	if t.Related != RelatedUnset {
		prop.AddParam(paramRelated, t.Related.String())
	}
	return prop
}
