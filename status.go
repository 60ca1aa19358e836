package ical

import "strings"

const propClass = "CLASS"

// Class is the access classification of a component.
type Class string

const (
	ClassPublic       Class = "PUBLIC"
	ClassPrivate      Class = "PRIVATE"
	ClassConfidential Class = "CONFIDENTIAL"
)

// EventStatus is the STATUS of a VEVENT.
type EventStatus string

const (
	EventTentative EventStatus = "TENTATIVE"
	EventConfirmed EventStatus = "CONFIRMED"
	EventCancelled EventStatus = "CANCELLED"
)

// TodoStatus is the STATUS of a VTODO.
type TodoStatus string

const (
	TodoNeedsAction TodoStatus = "NEEDS-ACTION"
	TodoCompleted   TodoStatus = "COMPLETED"
	TodoInProcess   TodoStatus = "IN-PROCESS"
	TodoCancelled   TodoStatus = "CANCELLED"
)

// SetClass sets CLASS.
func (c *CalendarComponent) SetClass(class Class) *CalendarComponent {
	return c.SetProperty(NewProperty(propClass, string(class)))
}

// Class returns CLASS in upper case. Values other than the three defined
// by RFC 5545 are returned as they are.
func (c *CalendarComponent) Class() (Class, bool) {
	prop := c.Property(propClass)
	if prop == nil {
		return "", false
	}
	return Class(strings.ToUpper(prop.Value)), true
}

// SetEventStatus sets the STATUS of an event.
func (c *CalendarComponent) SetEventStatus(status EventStatus) *CalendarComponent {
	return c.SetStatus(string(status))
}

// EventStatus returns STATUS if it is one of the event statuses.
func (c *CalendarComponent) EventStatus() (EventStatus, bool) {
	switch s := EventStatus(strings.ToUpper(c.Status())); s {
	case EventTentative, EventConfirmed, EventCancelled:
		return s, true
	}
	return "", false
}

// SetTodoStatus sets the STATUS of a to-do.
func (c *CalendarComponent) SetTodoStatus(status TodoStatus) *CalendarComponent {
	return c.SetStatus(string(status))
}

// TodoStatus returns STATUS if it is one of the to-do statuses.
func (c *CalendarComponent) TodoStatus() (TodoStatus, bool) {
	switch s := TodoStatus(strings.ToUpper(c.Status())); s {
	case TodoNeedsAction, TodoCompleted, TodoInProcess, TodoCancelled:
		return s, true
	}
	return "", false
}
