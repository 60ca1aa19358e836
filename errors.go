package ical

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrStructure indicates a BEGIN/END mismatch, an unterminated
	// component or content outside of any component.
	ErrStructure = errors.New("ical: malformed component structure")
	// ErrProperty indicates a content line that is not a valid property.
	ErrProperty = errors.New("ical: malformed property")
	// ErrDepthExceeded indicates that nesting exceeded the configured limit.
	ErrDepthExceeded = errors.New("ical: nesting depth exceeded configured limit")
	// ErrFloatingTime is returned when converting a floating date-time to UTC.
	ErrFloatingTime = errors.New("ical: floating date-time has no time zone")
	// ErrTimezoneUnavailable is returned when a TZID cannot be resolved.
	ErrTimezoneUnavailable = errors.New("ical: time zone unavailable")
	// ErrInvalidDuration indicates a value that is not an RFC 5545 duration.
	ErrInvalidDuration = errors.New("ical: invalid duration")
)

// ParseError describes a fatal parse failure. Positions refer to the
// normalized text, not to the folded input.
type ParseError struct {
	Line    int    // 1-based line number
	Column  int    // 1-based column, counted in bytes
	Offset  int    // byte offset in the normalized text
	Context string // the offending line
	Msg     string
	Err     error // ErrStructure, ErrProperty or ErrDepthExceeded
}

func (e *ParseError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "ical:%d:%d: %s", e.Line, e.Column, e.Msg)

	if e.Context != "" {
		b.WriteString("\n  ")
		b.WriteString(e.Context)
		b.WriteString("\n  ")
		for i := 1; i < e.Column && i <= len(e.Context); i++ {
			if e.Context[i-1] == '\t' {
				b.WriteByte('\t')
			} else {
				b.WriteByte(' ')
			}
		}
		b.WriteByte('^')
	}

	return b.String()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// newParseError locates offset in input and builds the error. With simple
// set, only the sentinel and the offset are kept.
func newParseError(input string, offset int, sentinel error, msg string, simple bool) error {
	if offset > len(input) {
		offset = len(input)
	}
	if simple {
		return fmt.Errorf("%w at offset %d", sentinel, offset)
	}

	lineStart := strings.LastIndexByte(input[:offset], '\n') + 1
	lineEnd := strings.IndexByte(input[offset:], '\n')
	if lineEnd < 0 {
		lineEnd = len(input)
	} else {
		lineEnd += offset
	}

	return &ParseError{
		Line:    strings.Count(input[:lineStart], "\n") + 1,
		Column:  offset - lineStart + 1,
		Offset:  offset,
		Context: strings.TrimSuffix(input[lineStart:lineEnd], "\r"),
		Msg:     msg,
		Err:     sentinel,
	}
}
