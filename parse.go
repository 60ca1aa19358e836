package ical

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
)

const compCalendar = "VCALENDAR"

var errDepth = fmt.Errorf("%w: %w", ErrStructure, ErrDepthExceeded)

type frame struct {
	comp *Component
	pos  int // position of the BEGIN name
}

type parser struct {
	input     string
	lex       *lexer
	token     [2]item
	peekCount int
	stack     []frame
	opts      *options
	log       *zap.Logger
}

func newParser(input string, l *lexer, opts []Option) *parser {
	o := newOptions(opts)
	return &parser{input: input, lex: l, opts: o, log: o.logger}
}

// ReadComponents parses normalized text into its top-level components.
// The whole input must consist of complete BEGIN/END blocks; blank lines
// between them are ignored.
func ReadComponents(input string, opts ...Option) ([]*Component, error) {
	p := newParser(input, lex(input), opts)
	return p.parse()
}

// ReadCalendar parses normalized text into a single VCALENDAR component.
// Properties and children of every top-level VCALENDAR are merged into it
// and any other top-level component is appended as a child.
func ReadCalendar(input string, opts ...Option) (*Component, error) {
	roots, err := ReadComponents(input, opts...)
	if err != nil {
		return nil, err
	}
	return mergeCalendars(roots), nil
}

// ParseCalendar normalizes text and parses it into a Calendar.
func ParseCalendar(text string, opts ...Option) (*Calendar, error) {
	root, err := ReadCalendar(Normalize(text), opts...)
	if err != nil {
		return nil, err
	}
	return CalendarFromComponent(root), nil
}

// Parse reads the whole iCalendar document from r into a Calendar.
// It's up to the caller to close the io.Reader.
func Parse(r io.Reader, opts ...Option) (*Calendar, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ParseCalendar(string(b), opts...)
}

// ParseProperty parses a single unfolded content line.
func ParseProperty(line string) (*Property, error) {
	p := newParser(line, lexProperty(line), nil)

	name := p.next()
	if name.typ == itemError {
		return nil, p.errorAt(name.pos, name.err, name.val)
	}
	prop, err := p.scanProperty(name)
	if err != nil {
		return nil, err
	}
	if it := p.next(); it.typ != itemEOF {
		return nil, p.errorf(it, ErrProperty, "found %s, expected end of input", it)
	}
	return prop, nil
}

// ParseParameters parses a parameter list such as `;ROLE=CHAIR;RSVP`.
func ParseParameters(s string) ([]Parameter, error) {
	p := newParser(s, lexParameters(s), nil)

	var params []Parameter
	for {
		if it := p.peek(); it.typ == itemEOF {
			return params, nil
		}
		param, err := p.scanParam()
		if err != nil {
			return nil, err
		}
		params = append(params, param)
	}
}

func mergeCalendars(roots []*Component) *Component {
	var cal *Component
	var others []*Component

	for _, root := range roots {
		if !isCalendar(root.Name) {
			others = append(others, root)
			continue
		}
		if cal == nil {
			cal = root
			continue
		}
		cal.Properties = append(cal.Properties, root.Properties...)
		cal.Components = append(cal.Components, root.Components...)
	}

	if cal == nil {
		cal = NewComponent(compCalendar)
	}
	cal.Components = append(cal.Components, others...)
	return cal
}

// next returns the next token.
func (p *parser) next() item {
	if p.peekCount > 0 {
		p.peekCount--
	} else {
		p.token[0] = p.lex.nextItem()
	}
	return p.token[p.peekCount]
}

// backup backs the input stream up one token.
func (p *parser) backup() {
	p.peekCount++
}

// peek returns but does not consume the next token.
func (p *parser) peek() item {
	if p.peekCount > 0 {
		return p.token[p.peekCount-1]
	}
	p.peekCount = 1
	p.token[0] = p.lex.nextItem()
	return p.token[0]
}

func (p *parser) errorAt(pos int, class error, msg string) error {
	return newParseError(p.input, pos, class, msg, p.opts.simpleErrors)
}

func (p *parser) errorf(it item, class error, format string, args ...interface{}) error {
	return p.errorAt(it.pos, class, fmt.Sprintf(format, args...))
}

func (p *parser) line(pos int) int {
	return strings.Count(p.input[:pos], "\n") + 1
}

// parse consumes the whole input. Nesting is tracked on an explicit stack;
// once a component is opened only its own END closes it.
func (p *parser) parse() ([]*Component, error) {
	var roots []*Component

	for {
		it := p.next()

		switch it.typ {
		case itemEOF:
			if len(p.stack) > 0 {
				top := p.stack[len(p.stack)-1]
				return nil, p.errorAt(top.pos, ErrStructure, fmt.Sprintf("BEGIN:%s is never closed", top.comp.Name))
			}
			return roots, nil

		case itemError:
			return nil, p.errorAt(it.pos, it.err, it.val)

		case itemLineEnd:
			continue

		case itemBegin:
			if len(p.stack) >= p.opts.maxDepth {
				return nil, p.errorf(it, errDepth, "found %s, nesting deeper than %d components", it, p.opts.maxDepth)
			}
			p.stack = append(p.stack, frame{comp: NewComponent(it.val), pos: it.pos})
			if ce := p.log.Check(zap.DebugLevel, "component opened"); ce != nil {
				ce.Write(zap.String("name", it.val), zap.Int("depth", len(p.stack)), zap.Int("line", p.line(it.pos)))
			}

		case itemEnd:
			if len(p.stack) == 0 {
				return nil, p.errorf(it, ErrStructure, "found %s, no component is open", it)
			}
			top := p.stack[len(p.stack)-1]
			if top.comp.Name != it.val {
				return nil, p.errorf(it, ErrStructure, "found %s, expected END:%s", it, top.comp.Name)
			}
			p.stack = p.stack[:len(p.stack)-1]
			if ce := p.log.Check(zap.DebugLevel, "component closed"); ce != nil {
				ce.Write(zap.String("name", it.val), zap.Int("depth", len(p.stack)+1), zap.Int("line", p.line(it.pos)))
			}

			if len(p.stack) == 0 {
				roots = append(roots, top.comp)
			} else {
				p.stack[len(p.stack)-1].comp.AddComponent(top.comp)
			}

		case itemName:
			if len(p.stack) == 0 {
				return nil, p.errorf(it, ErrStructure, "found property %s, expected BEGIN:<name>", it)
			}
			prop, err := p.scanProperty(it)
			if err != nil {
				return nil, err
			}
			p.stack[len(p.stack)-1].comp.AddProperty(prop)

		default:
			return nil, p.errorf(it, ErrProperty, "found %s, expected a content line", it)
		}
	}
}

// scanProperty parses the rest of a content line after its name.
func (p *parser) scanProperty(name item) (*Property, error) {
	if name.typ != itemName {
		return nil, p.errorf(name, ErrProperty, "found %s, expected a \"name\" token", name)
	}
	prop := &Property{Name: name.val}

	for p.peek().typ == itemSemiColon {
		param, err := p.scanParam()
		if err != nil {
			return nil, err
		}
		prop.Params = append(prop.Params, param)
	}

	switch it := p.next(); it.typ {
	case itemColon:
		value := p.next()
		if value.typ != itemValue {
			return nil, p.errorf(value, ErrProperty, "found %s, expected a value", value)
		}
		prop.Value = value.val
	case itemLineEnd:
		// the lexer only ends a line here when nothing follows the name
		p.backup()
		if ce := p.log.Check(zap.WarnLevel, "property without value"); ce != nil {
			ce.Write(zap.String("name", prop.Name), zap.Int("line", p.line(name.pos)))
		}
	case itemError:
		return nil, p.errorAt(it.pos, it.err, it.val)
	default:
		return nil, p.errorf(it, ErrProperty, "found %s, expected \":\"", it)
	}

	if it := p.next(); it.typ != itemLineEnd {
		if it.typ == itemError {
			return nil, p.errorAt(it.pos, it.err, it.val)
		}
		return nil, p.errorf(it, ErrProperty, "found %s, expected end of line", it)
	}

	return prop, nil
}

// scanParam parses one ";" key ["=" value].
func (p *parser) scanParam() (Parameter, error) {
	if it := p.next(); it.typ != itemSemiColon {
		if it.typ == itemError {
			return Parameter{}, p.errorAt(it.pos, it.err, it.val)
		}
		return Parameter{}, p.errorf(it, ErrProperty, "found %s, expected \";\"", it)
	}

	key := p.next()
	if key.typ != itemParamName {
		if key.typ == itemError {
			return Parameter{}, p.errorAt(key.pos, key.err, key.val)
		}
		return Parameter{}, p.errorf(key, ErrProperty, "found %s, expected a param-name", key)
	}
	param := Parameter{Key: key.val}

	if p.peek().typ != itemEqual {
		return param, nil
	}
	p.next()

	value := p.next()
	if value.typ != itemParamValue {
		if value.typ == itemError {
			return Parameter{}, p.errorAt(value.pos, value.err, value.val)
		}
		return Parameter{}, p.errorf(value, ErrProperty, "found %s, expected a param-value", value)
	}
	param.Value = value.val

	return param, nil
}
