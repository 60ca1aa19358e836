// Package ical implements an iCalendar parser and formatter.
//
// iCalendar is defined in RFC 5545. The package works on two levels: a
// generic tree of components, properties and parameters that mirrors the
// text exactly, and a typed Calendar built on top of that tree. Values are
// kept as raw text and decoded on demand by the value codecs (dates,
// date-times, durations, alarm triggers, recurrence rules).
//
// Strings in a parsed tree are slices of the normalized input. Use
// Component.Clone to detach a tree from the buffer it was parsed from.
package ical

import (
	"strings"
)

// A Parameter represents a single parameter of a property.
//
// An empty Value means the parameter carried no value, so ";KEY" and
// ";KEY=" are the same parameter.
type Parameter struct {
	Key   string
	Value string
}

// HasValue reports whether the parameter has a value.
func (p Parameter) HasValue() bool {
	return p.Value != ""
}

// A Property represents an unparsed property in an iCalendar component.
//
// Value holds the raw text after the separator colon. Text escapes are not
// decoded; use Text for that.
type Property struct {
	Name   string
	Params []Parameter
	Value  string
}

// A Component represents a BEGIN/END block and everything nested in it.
type Component struct {
	Name       string
	Properties []*Property
	Components []*Component
}

// NewProperty creates a Property without parameters
func NewProperty(name, value string) *Property {
	return &Property{Name: name, Value: value}
}

// Param returns the value of the first parameter named key.
func (p *Property) Param(key string) (string, bool) {
	for _, param := range p.Params {
		if param.Key == key {
			return param.Value, true
		}
	}
	return "", false
}

// AddParam appends a parameter, keeping any existing one with the same key.
func (p *Property) AddParam(key, value string) *Property {
	p.Params = append(p.Params, Parameter{Key: key, Value: value})
	return p
}

// SetParam replaces the first parameter named key, or appends it.
func (p *Property) SetParam(key, value string) *Property {
	for i := range p.Params {
		if p.Params[i].Key == key {
			p.Params[i].Value = value
			return p
		}
	}
	return p.AddParam(key, value)
}

// RemoveParam drops every parameter named key.
func (p *Property) RemoveParam(key string) *Property {
	kept := p.Params[:0]
	for _, param := range p.Params {
		if param.Key != key {
			kept = append(kept, param)
		}
	}
	if len(kept) == 0 {
		kept = nil
	}
	p.Params = kept
	return p
}

// Text returns the value with TEXT escapes decoded.
func (p *Property) Text() string {
	return UnescapeText(p.Value)
}

// Clone returns a deep copy that shares no memory with p.
func (p *Property) Clone() *Property {
	c := &Property{
		Name:  strings.Clone(p.Name),
		Value: strings.Clone(p.Value),
	}
	if p.Params != nil {
		c.Params = make([]Parameter, len(p.Params))
		for i, param := range p.Params {
			c.Params[i] = Parameter{Key: strings.Clone(param.Key), Value: strings.Clone(param.Value)}
		}
	}
	return c
}

// NewComponent creates an empty Component
func NewComponent(name string) *Component {
	return &Component{Name: name}
}

// FindProperty returns the first property named name, or nil.
func (c *Component) FindProperty(name string) *Property {
	for _, prop := range c.Properties {
		if prop.Name == name {
			return prop
		}
	}
	return nil
}

// PropertiesNamed returns every property named name in order.
func (c *Component) PropertiesNamed(name string) []*Property {
	var props []*Property
	for _, prop := range c.Properties {
		if prop.Name == name {
			props = append(props, prop)
		}
	}
	return props
}

// AddProperty appends a property.
func (c *Component) AddProperty(prop *Property) *Component {
	c.Properties = append(c.Properties, prop)
	return c
}

// AddComponent appends a child component.
func (c *Component) AddComponent(child *Component) *Component {
	c.Components = append(c.Components, child)
	return c
}

// Clone returns a deep copy of the tree. The copy no longer references the
// input buffer the original was parsed from.
func (c *Component) Clone() *Component {
	out := &Component{Name: strings.Clone(c.Name)}
	if c.Properties != nil {
		out.Properties = make([]*Property, len(c.Properties))
		for i, prop := range c.Properties {
			out.Properties[i] = prop.Clone()
		}
	}
	if c.Components != nil {
		out.Components = make([]*Component, len(c.Components))
		for i, child := range c.Components {
			out.Components[i] = child.Clone()
		}
	}
	return out
}

// isCalendar reports whether name designates the VCALENDAR root.
func isCalendar(name string) bool {
	return strings.EqualFold(name, compCalendar)
}
