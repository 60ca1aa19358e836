package ical

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// item represents a token or text string returned from the scanner.
type item struct {
	typ itemType // The type of this item.
	pos int      // The starting position, in bytes, of this item in the input string.
	val string   // The value of this item.
	err error    // Error class of an itemError.
}

func (i item) String() string {
	switch {
	case i.typ == itemEOF:
		return "EOF"
	case i.typ == itemLineEnd:
		return "end of line"
	case i.typ == itemError:
		return i.val
	case i.typ == itemBegin:
		return fmt.Sprintf("<BEGIN:%s>", i.val)
	case i.typ == itemEnd:
		return fmt.Sprintf("<END:%s>", i.val)
	case len(i.val) > 10:
		return fmt.Sprintf("%.10q...", i.val)
	}
	return fmt.Sprintf("%q", i.val)
}

// itemType identifies the type of lex items.
type itemType int

const (
	// Special tokens
	itemError itemType = iota
	itemEOF
	itemLineEnd

	// Delimiters, val holds the component name
	itemBegin
	itemEnd

	// Literals
	itemName
	itemParamName
	itemParamValue
	itemValue

	// Misc
	itemColon     // :
	itemSemiColon // ;
	itemEqual     // =
)

const eof = -1

const (
	keywordBegin = "BEGIN"
	keywordEnd   = "END"
)

// stateFn represents the state of the scanner as a function that returns the next state.
type stateFn func(*lexer) stateFn

// lexer holds the state of the scanner. It runs synchronously: nextItem
// advances the state machine until at least one item is available.
type lexer struct {
	input      string  // the string being scanned
	state      stateFn // the next lexing function to enter
	start      int     // start position of this item
	pos        int     // current position in the input
	width      int     // width of last rune read from input
	items      []item  // scanned items not yet returned
	paramsOnly bool    // scanning a bare parameter list
}

// lex creates a new scanner for a document.
func lex(input string) *lexer {
	return &lexer{input: input, state: lexLine}
}

// lexProperty creates a scanner for a single content line.
func lexProperty(input string) *lexer {
	return &lexer{input: input, state: lexName}
}

// lexParameters creates a scanner for a parameter list such as ";A=b;C".
func lexParameters(input string) *lexer {
	return &lexer{input: input, state: lexParamList, paramsOnly: true}
}

// emit queues an item for the client.
func (l *lexer) emit(t itemType) {
	l.emitValue(t, l.input[l.start:l.pos])
}

func (l *lexer) emitValue(t itemType, val string) {
	l.items = append(l.items, item{typ: t, pos: l.start, val: val})
	l.start = l.pos
}

// ignore skips over the pending input before this point.
func (l *lexer) ignore() {
	l.start = l.pos
}

// next returns the next rune in the input.
func (l *lexer) next() rune {
	if l.pos >= len(l.input) {
		l.width = 0
		return eof
	}
	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	l.width = w
	l.pos += l.width
	return r
}

// peek returns but does not consume the next rune in the input.
func (l *lexer) peek() rune {
	r := l.next()
	l.backup()
	return r
}

// backup steps back one rune. Can only be called once per call of next.
func (l *lexer) backup() {
	l.pos -= l.width
}

// acceptRun consumes a run of runes satisfying valid.
func (l *lexer) acceptRun(valid func(rune) bool) {
	for r := l.next(); r != eof && valid(r); r = l.next() {
	}
	l.backup()
}

// errorf queues an error token at the current position and terminates the
// scan by returning a nil state.
func (l *lexer) errorf(class error, format string, args ...interface{}) stateFn {
	l.items = append(l.items, item{typ: itemError, pos: l.pos, val: fmt.Sprintf(format, args...), err: class})
	return nil
}

// nextItem returns the next item from the input.
func (l *lexer) nextItem() item {
	for len(l.items) == 0 {
		if l.state == nil {
			return item{typ: itemEOF, pos: len(l.input)}
		}
		l.state = l.state(l)
	}
	it := l.items[0]
	l.items = l.items[1:]
	return it
}

// State functions

// lexLine scans the start of a content line. Blank lines are skipped.
func lexLine(l *lexer) stateFn {
	l.acceptRun(func(r rune) bool { return r == '\n' || r == '\r' || r == ' ' || r == '\t' })
	l.ignore()

	if l.peek() == eof {
		l.emit(itemEOF)
		return nil
	}

	rest := l.input[l.pos:]
	if hasPrefixFold(rest, keywordBegin+":") {
		l.pos += len(keywordBegin) + 1
		l.ignore()
		return lexComponentName(itemBegin)
	}
	if hasPrefixFold(rest, keywordEnd+":") {
		l.pos += len(keywordEnd) + 1
		l.ignore()
		return lexComponentName(itemEnd)
	}

	return lexName
}

// lexComponentName scans the name following BEGIN: or END:. Only trailing
// spaces or tabs may follow it on the line.
func lexComponentName(t itemType) stateFn {
	return func(l *lexer) stateFn {
		l.acceptRun(isNameRune)
		if l.pos == l.start {
			return l.errorf(ErrStructure, "found %q, expected a component name", l.rest())
		}
		l.emit(t)

		l.acceptRun(func(r rune) bool { return r == ' ' || r == '\t' || r == '\r' })
		l.ignore()
		if r := l.peek(); r != '\n' && r != eof {
			return l.errorf(ErrStructure, "found %q, expected end of line after component name", l.rest())
		}
		return lexLineEnd
	}
}

// lexName scans the name in the content line
//
// name       = iana-token / x-name
// iana-token = 1*(ALPHA / DIGIT / "-") ; iCalendar identifier registered with IANA
// x-name     = "X-" [vendorid "-"] 1*(ALPHA / DIGIT / "-") ; Reserved for experimental use.
// vendorid   = 3*(ALPHA / DIGIT) ; Vendor identification
//
// Letters, digits and ". , / _" are accepted as well, as found in the wild.
func lexName(l *lexer) stateFn {
	l.acceptRun(isNameRune)
	name := l.input[l.start:l.pos]

	if name == "" {
		return l.errorf(ErrProperty, "found %q, expected a property name", l.rest())
	}
	// BEGIN and END are reserved for framing, whatever their case
	if strings.EqualFold(name, keywordBegin) || strings.EqualFold(name, keywordEnd) {
		l.pos = l.start
		return l.errorf(ErrStructure, "found %q, expected %s:<name>", l.rest(), strings.ToUpper(name))
	}
	l.emit(itemName)

	switch r := l.peek(); {
	case r == ';':
		return lexParam
	case r == ':':
		return lexValue
	case r == '\n' || r == '\r' || r == eof:
		// value-less property
		return lexLineEnd
	default:
		return l.errorf(ErrProperty, "unrecognized character in property name: %#U", r)
	}
}

// lexParamList scans a bare parameter list.
func lexParamList(l *lexer) stateFn {
	if l.peek() == eof {
		l.emit(itemEOF)
		return nil
	}
	if l.peek() != ';' {
		return l.errorf(ErrProperty, "found %q, expected \";\"", l.rest())
	}
	return lexParam
}

// lexParam scans ";" SPACE* key, then an optional "=" value.
func lexParam(l *lexer) stateFn {
	l.next()
	l.emit(itemSemiColon)

	l.acceptRun(func(r rune) bool { return r == ' ' || r == '\t' })
	l.ignore()

	l.acceptRun(isNameRune)
	if l.pos == l.start {
		return l.errorf(ErrProperty, "found %q, expected a param-name", l.rest())
	}
	l.emit(itemParamName)

	if l.peek() == '=' {
		l.next()
		l.emit(itemEqual)
		return lexParamValue
	}
	return lexAfterParam
}

// lexParamValue scans a quoted string or a token up to ";" or ":". An
// empty or blank token is emitted as an empty value.
func lexParamValue(l *lexer) stateFn {
	if l.peek() == '"' {
		l.next()
		l.ignore()
		for {
			switch l.next() {
			case '"':
				l.emitValue(itemParamValue, l.input[l.start:l.pos-1])
				return lexAfterParam
			case '\n', eof:
				return l.errorf(ErrProperty, "unterminated quoted param-value")
			}
		}
	}

	l.acceptRun(func(r rune) bool { return r != ';' && r != ':' && r != '\n' })
	val := l.input[l.start:l.pos]
	if strings.TrimSpace(val) == "" {
		val = ""
	}
	l.emitValue(itemParamValue, val)
	return lexAfterParam
}

// lexAfterParam expects another parameter or the separator colon.
func lexAfterParam(l *lexer) stateFn {
	switch r := l.peek(); {
	case r == ';':
		return lexParam
	case r == ':' && !l.paramsOnly:
		return lexValue
	case r == eof && l.paramsOnly:
		l.emit(itemEOF)
		return nil
	default:
		return l.errorf(ErrProperty, "found %q, expected \":\"", l.rest())
	}
}

// lexValue scans the separator colon and the value up to the end of line.
func lexValue(l *lexer) stateFn {
	l.next()
	l.emit(itemColon)

	end := strings.IndexByte(l.input[l.pos:], '\n')
	if end < 0 {
		end = len(l.input) - l.pos
	}
	l.pos += end
	l.emitValue(itemValue, strings.TrimSuffix(l.input[l.start:l.pos], "\r"))
	return lexLineEnd
}

// lexLineEnd scans the line terminator, if any.
func lexLineEnd(l *lexer) stateFn {
	if l.peek() == '\r' {
		l.next()
	}
	if l.peek() == '\n' {
		l.next()
	}
	l.emit(itemLineEnd)
	return lexLine
}

// rest returns the remainder of the current line, for error messages.
func (l *lexer) rest() string {
	s := l.input[l.pos:]
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return s
}

func isNameRune(r rune) bool {
	switch r {
	case '-', '.', ',', '/', '_':
		return true
	}
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
