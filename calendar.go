package ical

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

const (
	compEvent = "VEVENT"
	compTodo  = "VTODO"
	compVenue = "VVENUE"
	compAlarm = "VALARM"

	compJournal = "VJOURNAL"
)

const (
	propUID         = "UID"
	propTimestamp   = "DTSTAMP"
	propStart       = "DTSTART"
	propEnd         = "DTEND"
	propDue         = "DUE"
	propSummary     = "SUMMARY"
	propDescription = "DESCRIPTION"
	propLocation    = "LOCATION"
	propStatus      = "STATUS"
	propPriority    = "PRIORITY"
	propCategories  = "CATEGORIES"

	propVersion  = "VERSION"
	propProdID   = "PRODID"
	propCalscale = "CALSCALE"

	propName            = "NAME"
	propWRCalName       = "X-WR-CALNAME"
	propWRCalDesc       = "X-WR-CALDESC"
	propTimezoneID      = "TIMEZONE-ID"
	propWRTimezone      = "X-WR-TIMEZONE"
	propRefreshInterval = "REFRESH-INTERVAL"
	propPublishedTTL    = "X-PUBLISHED-TTL"
)

// multiValued lists the properties RFC 5545 allows to repeat in a
// component. Any X- property may repeat as well.
var multiValued = map[string]bool{
	"ATTACH":     true,
	"ATTENDEE":   true,
	"CATEGORIES": true,
	"COMMENT":    true,
	"CONTACT":    true,
	"EXDATE":     true,
	"FREEBUSY":   true,
	"RDATE":      true,
	"RELATED":    true,
	"RESOURCES":  true,
	"RSTATUS":    true,
	"IANA-PROP":  true,
	"X-PROP":     true,
}

// IsMultiValued reports whether a property named name may repeat within a
// component. Names are compared case-sensitively.
func IsMultiValued(name string) bool {
	return multiValued[name] || strings.HasPrefix(name, "X-")
}

// Kind identifies the component types the typed API knows about.
type Kind int

const (
	KindOther Kind = iota
	KindEvent
	KindTodo
	KindVenue
	KindAlarm
)

// KindOf maps a component name to its kind, ignoring case.
func KindOf(name string) Kind {
	switch {
	case strings.EqualFold(name, compEvent):
		return KindEvent
	case strings.EqualFold(name, compTodo):
		return KindTodo
	case strings.EqualFold(name, compVenue):
		return KindVenue
	case strings.EqualFold(name, compAlarm):
		return KindAlarm
	}
	return KindOther
}

func (k Kind) String() string {
	switch k {
	case KindEvent:
		return compEvent
	case KindTodo:
		return compTodo
	case KindVenue:
		return compVenue
	case KindAlarm:
		return compAlarm
	}
	return "OTHER"
}

// A CalendarComponent is a typed view of a component. Single-valued
// properties are kept by name, last write wins; multi-valued ones keep
// their insertion order. A name is never held in both at once.
type CalendarComponent struct {
	Name       string
	Components []*CalendarComponent

	single map[string]*Property
	multi  []*Property
}

// NewCalendarComponent creates an empty component named name.
func NewCalendarComponent(name string) *CalendarComponent {
	return &CalendarComponent{Name: name, single: make(map[string]*Property)}
}

// NewEvent creates an empty VEVENT.
func NewEvent() *CalendarComponent {
	return NewCalendarComponent(compEvent)
}

// NewTodo creates an empty VTODO.
func NewTodo() *CalendarComponent {
	return NewCalendarComponent(compTodo)
}

// NewVenue creates an empty VVENUE.
func NewVenue() *CalendarComponent {
	return NewCalendarComponent(compVenue)
}

// Kind returns the kind of the component.
func (c *CalendarComponent) Kind() Kind {
	return KindOf(c.Name)
}

// SetProperty stores prop as the only property of its name.
func (c *CalendarComponent) SetProperty(prop *Property) *CalendarComponent {
	c.dropMulti(prop.Name)
	if c.single == nil {
		c.single = make(map[string]*Property)
	}
	c.single[prop.Name] = prop
	return c
}

// AppendProperty appends prop if its name may repeat, and sets it otherwise.
func (c *CalendarComponent) AppendProperty(prop *Property) *CalendarComponent {
	if IsMultiValued(prop.Name) {
		return c.AppendMultiProperty(prop)
	}
	return c.SetProperty(prop)
}

// AppendMultiProperty appends prop after any property of the same name.
func (c *CalendarComponent) AppendMultiProperty(prop *Property) *CalendarComponent {
	delete(c.single, prop.Name)
	c.multi = append(c.multi, prop)
	return c
}

// SetMultiProperty replaces every property named name with props.
func (c *CalendarComponent) SetMultiProperty(name string, props ...*Property) *CalendarComponent {
	c.RemoveProperty(name)
	for _, prop := range props {
		prop.Name = name
		c.multi = append(c.multi, prop)
	}
	return c
}

// Property returns the property named name, or the first of them if it
// is multi-valued.
func (c *CalendarComponent) Property(name string) *Property {
	if prop, ok := c.single[name]; ok {
		return prop
	}
	for _, prop := range c.multi {
		if prop.Name == name {
			return prop
		}
	}
	return nil
}

// MultiProperties returns the multi-valued properties named name in order.
func (c *CalendarComponent) MultiProperties(name string) []*Property {
	var props []*Property
	for _, prop := range c.multi {
		if prop.Name == name {
			props = append(props, prop)
		}
	}
	return props
}

// RemoveProperty drops every property named name.
func (c *CalendarComponent) RemoveProperty(name string) *CalendarComponent {
	delete(c.single, name)
	c.dropMulti(name)
	return c
}

// AddComponent appends a child such as a VALARM.
func (c *CalendarComponent) AddComponent(child *CalendarComponent) *CalendarComponent {
	c.Components = append(c.Components, child)
	return c
}

// Alarms returns the VALARM children.
func (c *CalendarComponent) Alarms() []*CalendarComponent {
	var alarms []*CalendarComponent
	for _, child := range c.Components {
		if child.Kind() == KindAlarm {
			alarms = append(alarms, child)
		}
	}
	return alarms
}

func (c *CalendarComponent) dropMulti(name string) {
	if len(c.multi) == 0 {
		return
	}
	kept := c.multi[:0]
	for _, prop := range c.multi {
		if prop.Name != name {
			kept = append(kept, prop)
		}
	}
	for i := len(kept); i < len(c.multi); i++ {
		c.multi[i] = nil
	}
	if len(kept) == 0 {
		kept = nil
	}
	c.multi = kept
}

// Typed accessors

func (c *CalendarComponent) text(name string) string {
	if prop := c.Property(name); prop != nil {
		return prop.Text()
	}
	return ""
}

func (c *CalendarComponent) setText(name, s string) *CalendarComponent {
	return c.SetProperty(NewProperty(name, EscapeText(s)))
}

// UID returns the UID value.
func (c *CalendarComponent) UID() string {
	if prop := c.Property(propUID); prop != nil {
		return prop.Value
	}
	return ""
}

// SetUID sets the UID.
func (c *CalendarComponent) SetUID(uid string) *CalendarComponent {
	return c.SetProperty(NewProperty(propUID, uid))
}

// Summary returns the decoded SUMMARY.
func (c *CalendarComponent) Summary() string { return c.text(propSummary) }

// SetSummary sets SUMMARY, escaping s.
func (c *CalendarComponent) SetSummary(s string) *CalendarComponent {
	return c.setText(propSummary, s)
}

// Description returns the decoded DESCRIPTION.
func (c *CalendarComponent) Description() string { return c.text(propDescription) }

// SetDescription sets DESCRIPTION, escaping s.
func (c *CalendarComponent) SetDescription(s string) *CalendarComponent {
	return c.setText(propDescription, s)
}

// Location returns the decoded LOCATION.
func (c *CalendarComponent) Location() string { return c.text(propLocation) }

// SetLocation sets LOCATION, escaping s.
func (c *CalendarComponent) SetLocation(s string) *CalendarComponent {
	return c.setText(propLocation, s)
}

// SetVenue sets LOCATION and links it to the VVENUE with the given UID.
func (c *CalendarComponent) SetVenue(location, venueUID string) *CalendarComponent {
	prop := NewProperty(propLocation, EscapeText(location)).AddParam("VVENUE", venueUID)
	return c.SetProperty(prop)
}

// Status returns the raw STATUS value.
func (c *CalendarComponent) Status() string {
	if prop := c.Property(propStatus); prop != nil {
		return prop.Value
	}
	return ""
}

// SetStatus sets STATUS, such as CONFIRMED or NEEDS-ACTION.
func (c *CalendarComponent) SetStatus(status string) *CalendarComponent {
	return c.SetProperty(NewProperty(propStatus, status))
}

// Priority returns PRIORITY, if it holds an integer.
func (c *CalendarComponent) Priority() (int, bool) {
	prop := c.Property(propPriority)
	if prop == nil {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(prop.Value))
	if err != nil {
		return 0, false
	}
	return n, true
}

// SetPriority sets PRIORITY, clamped to the 0-9 range of RFC 5545.
func (c *CalendarComponent) SetPriority(n int) *CalendarComponent {
	switch {
	case n < 0:
		n = 0
	case n > 9:
		n = 9
	}
	return c.SetProperty(NewProperty(propPriority, strconv.Itoa(n)))
}

// Timestamp returns DTSTAMP.
func (c *CalendarComponent) Timestamp() (CalendarDateTime, bool) {
	return ParseDateTime(c.Property(propTimestamp))
}

// SetTimestamp sets DTSTAMP to t in UTC.
func (c *CalendarComponent) SetTimestamp(t time.Time) *CalendarComponent {
	return c.SetProperty(NewUTCDateTime(t).Property(propTimestamp))
}

// Start returns DTSTART.
func (c *CalendarComponent) Start() (DatePerhapsTime, bool) {
	return ParseDatePerhapsTime(c.Property(propStart))
}

// SetStart sets DTSTART.
func (c *CalendarComponent) SetStart(dt DatePerhapsTime) *CalendarComponent {
	return c.SetProperty(dt.Property(propStart))
}

// End returns DTEND.
func (c *CalendarComponent) End() (DatePerhapsTime, bool) {
	return ParseDatePerhapsTime(c.Property(propEnd))
}

// SetEnd sets DTEND.
func (c *CalendarComponent) SetEnd(dt DatePerhapsTime) *CalendarComponent {
	return c.SetProperty(dt.Property(propEnd))
}

// SetAllDay makes the component span the whole day d.
func (c *CalendarComponent) SetAllDay(d Date) *CalendarComponent {
	return c.SetStart(d).SetEnd(d)
}

// Due returns DUE.
func (c *CalendarComponent) Due() (DatePerhapsTime, bool) {
	return ParseDatePerhapsTime(c.Property(propDue))
}

// SetDue sets DUE.
func (c *CalendarComponent) SetDue(dt DatePerhapsTime) *CalendarComponent {
	return c.SetProperty(dt.Property(propDue))
}

// Duration returns DURATION.
func (c *CalendarComponent) Duration() (Duration, bool) {
	return DurationFromProperty(c.Property(propDuration))
}

// SetDuration sets DURATION.
func (c *CalendarComponent) SetDuration(d Duration) *CalendarComponent {
	return c.SetProperty(d.Property())
}

// Recurrence returns the decoded RRULE.
func (c *CalendarComponent) Recurrence() (*rrule.ROption, bool) {
	return ParseRecurrence(c.Property(propRRule))
}

// SetRecurrence sets RRULE.
func (c *CalendarComponent) SetRecurrence(opt rrule.ROption) *CalendarComponent {
	return c.SetProperty(RecurrenceProperty(opt))
}

// ToComponent converts c into a tree: single-valued properties sorted by
// name, then multi-valued ones in insertion order, then the children.
func (c *CalendarComponent) ToComponent() *Component {
	out := NewComponent(c.Name)

	names := make([]string, 0, len(c.single))
	for name := range c.single {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		out.AddProperty(c.single[name])
	}
	for _, prop := range c.multi {
		out.AddProperty(prop)
	}
	for _, child := range c.Components {
		out.AddComponent(child.ToComponent())
	}
	return out
}

// calendarComponentFrom routes the properties of comp into a typed
// component. Repeated single-valued properties keep the last value.
func calendarComponentFrom(comp *Component) *CalendarComponent {
	c := NewCalendarComponent(comp.Name)
	for _, prop := range comp.Properties {
		c.AppendProperty(prop)
	}
	for _, child := range comp.Components {
		c.AddComponent(calendarComponentFrom(child))
	}
	return c
}

// A Calendar is the typed view of a VCALENDAR.
type Calendar struct {
	Properties []*Property
	Components []*CalendarComponent
}

// NewCalendar creates an empty Calendar.
func NewCalendar() *Calendar {
	return &Calendar{}
}

// Push appends components to the calendar.
func (cal *Calendar) Push(components ...*CalendarComponent) *Calendar {
	cal.Components = append(cal.Components, components...)
	return cal
}

// AddProperty appends a calendar property.
func (cal *Calendar) AddProperty(prop *Property) *Calendar {
	cal.Properties = append(cal.Properties, prop)
	return cal
}

// SetProperty replaces the first property with the same name, or appends
// prop.
func (cal *Calendar) SetProperty(prop *Property) *Calendar {
	for i, p := range cal.Properties {
		if p.Name == prop.Name {
			cal.Properties[i] = prop
			return cal
		}
	}
	return cal.AddProperty(prop)
}

// Property returns the first calendar property named name, or nil.
func (cal *Calendar) Property(name string) *Property {
	for _, prop := range cal.Properties {
		if prop.Name == name {
			return prop
		}
	}
	return nil
}

func (cal *Calendar) value(names ...string) string {
	for _, name := range names {
		if prop := cal.Property(name); prop != nil {
			return prop.Value
		}
	}
	return ""
}

// SetName sets NAME and X-WR-CALNAME.
func (cal *Calendar) SetName(name string) *Calendar {
	v := EscapeText(name)
	return cal.SetProperty(NewProperty(propName, v)).SetProperty(NewProperty(propWRCalName, v))
}

// Name returns NAME, or X-WR-CALNAME when NAME is absent.
func (cal *Calendar) Name() string {
	return UnescapeText(cal.value(propName, propWRCalName))
}

// SetDescription sets DESCRIPTION and X-WR-CALDESC.
func (cal *Calendar) SetDescription(description string) *Calendar {
	v := EscapeText(description)
	return cal.SetProperty(NewProperty(propDescription, v)).SetProperty(NewProperty(propWRCalDesc, v))
}

// Description returns DESCRIPTION, or X-WR-CALDESC when it is absent.
func (cal *Calendar) Description() string {
	return UnescapeText(cal.value(propDescription, propWRCalDesc))
}

// SetTimezone sets TIMEZONE-ID and X-WR-TIMEZONE.
func (cal *Calendar) SetTimezone(tzid string) *Calendar {
	return cal.SetProperty(NewProperty(propTimezoneID, tzid)).SetProperty(NewProperty(propWRTimezone, tzid))
}

// Timezone returns TIMEZONE-ID, or X-WR-TIMEZONE when it is absent.
func (cal *Calendar) Timezone() string {
	return cal.value(propTimezoneID, propWRTimezone)
}

// SetTTL sets the suggested refresh interval, as REFRESH-INTERVAL and
// X-PUBLISHED-TTL.
func (cal *Calendar) SetTTL(d Duration) *Calendar {
	refresh := NewProperty(propRefreshInterval, d.String()).AddParam(paramValue, valueDuration)
	return cal.SetProperty(refresh).SetProperty(NewProperty(propPublishedTTL, d.String()))
}

// TTL returns the refresh interval.
func (cal *Calendar) TTL() (Duration, bool) {
	if prop := cal.Property(propRefreshInterval); prop != nil {
		return DurationFromProperty(prop)
	}
	return DurationFromProperty(cal.Property(propPublishedTTL))
}

// Events returns the VEVENT components.
func (cal *Calendar) Events() []*CalendarComponent {
	return cal.ofKind(KindEvent)
}

// Todos returns the VTODO components.
func (cal *Calendar) Todos() []*CalendarComponent {
	return cal.ofKind(KindTodo)
}

func (cal *Calendar) ofKind(kind Kind) []*CalendarComponent {
	var out []*CalendarComponent
	for _, c := range cal.Components {
		if c.Kind() == kind {
			out = append(out, c)
		}
	}
	return out
}

// ToComponent converts the calendar into a VCALENDAR tree.
func (cal *Calendar) ToComponent() *Component {
	root := NewComponent(compCalendar)
	root.Properties = append(root.Properties, cal.Properties...)
	for _, c := range cal.Components {
		root.AddComponent(c.ToComponent())
	}
	return root
}

// CalendarFromComponent builds a Calendar from a tree. A VCALENDAR root
// provides the calendar properties; any other root becomes the only
// component of an empty calendar.
func CalendarFromComponent(root *Component) *Calendar {
	cal := NewCalendar()
	if !isCalendar(root.Name) {
		return cal.Push(calendarComponentFrom(root))
	}

	cal.Properties = append(cal.Properties, root.Properties...)
	for _, child := range root.Components {
		cal.Push(calendarComponentFrom(child))
	}
	return cal
}
