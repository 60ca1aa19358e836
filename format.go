package ical

import (
	"bytes"
	"io"
	"strings"

	"go.uber.org/zap"
)

const (
	defaultVersion  = "2.0"
	defaultCalscale = "GREGORIAN"
)

type formatter struct {
	w    io.Writer
	buf  bytes.Buffer
	opts *options
}

// Format writes the calendar to the provided io.Writer. Single-valued
// properties of each component come out sorted by name, followed by the
// multi-valued ones in the order they were added.
func Format(w io.Writer, cal *Calendar, opts ...Option) error {
	return FormatComponent(w, cal.ToComponent(), opts...)
}

// FormatComponent writes a component tree to the provided io.Writer,
// keeping the order of its properties. Lines longer than 75 octets are
// folded.
//
// Properties mandatory for interoperability are added when absent: a
// VCALENDAR root gets VERSION, PRODID and CALSCALE, and each of its direct
// VEVENT, VTODO, VJOURNAL and VVENUE children a DTSTAMP and a UID. Any
// other root of those kinds gets DTSTAMP and UID itself. Existing values are never replaced and the tree is not modified.
func FormatComponent(w io.Writer, root *Component, opts ...Option) error {
	f := &formatter{w: w, opts: newOptions(opts)}

	if !isCalendar(root.Name) {
		return f.formatComponent(root, identifiable(root.Name))
	}

	if err := f.writeLine(keywordBegin + ":" + root.Name); err != nil {
		return err
	}
	header := []*Property{
		NewProperty(propVersion, defaultVersion),
		NewProperty(propProdID, f.opts.productID),
		NewProperty(propCalscale, defaultCalscale),
	}
	for _, prop := range header {
		if root.FindProperty(prop.Name) != nil {
			continue
		}
		f.opts.logger.Debug("adding calendar property", zap.String("name", prop.Name), zap.String("value", prop.Value))
		if err := f.formatProperty(prop); err != nil {
			return err
		}
	}
	if err := f.formatProperties(root.Properties); err != nil {
		return err
	}
	for _, child := range root.Components {
		if err := f.formatComponent(child, identifiable(child.Name)); err != nil {
			return err
		}
	}
	return f.writeLine(keywordEnd + ":" + root.Name)
}

// FormatProperty writes a single content line, folded.
func FormatProperty(w io.Writer, prop *Property) error {
	f := &formatter{w: w}
	return f.formatProperty(prop)
}

// String returns the folded text of the component, as FormatComponent
// writes it with default options.
func (c *Component) String() string {
	var b strings.Builder
	_ = FormatComponent(&b, c)
	return b.String()
}

// String returns the folded content line.
func (p *Property) String() string {
	var b strings.Builder
	_ = FormatProperty(&b, p)
	return b.String()
}

// identifiable reports whether components named name carry a DTSTAMP and
// a UID. VTIMEZONE and VALARM never do.
func identifiable(name string) bool {
	switch KindOf(name) {
	case KindEvent, KindTodo, KindVenue:
		return true
	}
	return strings.EqualFold(name, compJournal)
}

func (f *formatter) formatComponent(c *Component, identify bool) error {
	if err := f.writeLine(keywordBegin + ":" + c.Name); err != nil {
		return err
	}

	if identify {
		if c.FindProperty(propTimestamp) == nil {
			stamp := NewUTCDateTime(f.opts.now()).Property(propTimestamp)
			f.opts.logger.Debug("adding timestamp", zap.String("component", c.Name), zap.String("value", stamp.Value))
			if err := f.formatProperty(stamp); err != nil {
				return err
			}
		}
		if c.FindProperty(propUID) == nil {
			uid := NewProperty(propUID, f.opts.newUID())
			f.opts.logger.Debug("adding uid", zap.String("component", c.Name), zap.String("value", uid.Value))
			if err := f.formatProperty(uid); err != nil {
				return err
			}
		}
	}

	if err := f.formatProperties(c.Properties); err != nil {
		return err
	}
	for _, child := range c.Components {
		if err := f.formatComponent(child, false); err != nil {
			return err
		}
	}

	return f.writeLine(keywordEnd + ":" + c.Name)
}

func (f *formatter) formatProperties(props []*Property) error {
	for _, prop := range props {
		if err := f.formatProperty(prop); err != nil {
			return err
		}
	}
	return nil
}

func (f *formatter) formatProperty(prop *Property) error {
	var line strings.Builder
	line.WriteString(prop.Name)

	for _, param := range prop.Params {
		line.WriteByte(';')
		line.WriteString(param.Key)
		if !param.HasValue() {
			continue
		}
		line.WriteByte('=')
		if strings.ContainsAny(param.Value, ";:,") || strings.TrimSpace(param.Value) != param.Value {
			line.WriteByte('"')
			line.WriteString(param.Value)
			line.WriteByte('"')
		} else {
			line.WriteString(param.Value)
		}
	}

	line.WriteByte(':')
	line.WriteString(prop.Value)

	return f.writeLine(line.String())
}

// writeLine folds line and writes it with its terminator.
func (f *formatter) writeLine(line string) error {
	f.buf.Reset()
	f.buf.WriteString(FoldLine(line))
	f.buf.WriteString(crlf)

	_, err := f.buf.WriteTo(f.w)
	return err
}
