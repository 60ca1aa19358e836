package ical

import (
	"strings"
	"unicode/utf8"
)

const (
	crlf = "\r\n"

	// foldLimit is the maximum length of a physical line in octets,
	// excluding the line break.
	foldLimit = 75
)

// SimplifyLineEndings converts CRLF and lone CR line terminators to LF.
func SimplifyLineEndings(text string) string {
	if !strings.Contains(text, "\r") {
		return text
	}
	text = strings.ReplaceAll(text, crlf, "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

// Unfold removes every line terminator immediately followed by a single
// space or tab, as described in RFC 5545, Section 3.1.
//
// One whitespace character is removed per continuation and any further
// whitespace is kept. A continuation that follows an empty line is the
// exception: removing it exposes another line terminator followed by
// whitespace, and that pair is removed as well. The result therefore never
// contains a line terminator followed by a space or tab, and Unfold is
// idempotent. On such input it differs from a strict single pass:
// "A:x\n\n  y" unfolds to "A:xy", not "A:x\n y". Text produced by FoldLine
// never contains empty lines and unfolds exactly.
func Unfold(text string) string {
	if !strings.Contains(text, "\n ") && !strings.Contains(text, "\n\t") {
		return text
	}

	out := make([]byte, 0, len(text))

	for i := 0; i < len(text); i++ {
		c := text[i]

		switch {
		case c == '\n' && i+1 < len(text) && isWSP(text[i+1]):
			i++
			continue
		case c == '\r' && i+2 < len(text) && text[i+1] == '\n' && isWSP(text[i+2]):
			i += 2
			continue
		case isWSP(c) && len(out) > 0 && out[len(out)-1] == '\n':
			// the break before c only became visible after removing a
			// continuation, so c continues that line as well
			out = out[:len(out)-1]
			if len(out) > 0 && out[len(out)-1] == '\r' {
				out = out[:len(out)-1]
			}
			continue
		}

		out = append(out, c)
	}

	return string(out)
}

// Normalize simplifies line endings and unfolds the text. The parser
// expects normalized input; error positions refer to the normalized text.
func Normalize(text string) string {
	return Unfold(SimplifyLineEndings(text))
}

// FoldLine splits a content line into physical lines of at most 75 octets
// joined by CRLF and a single space.
//
// Breaks are never placed inside a UTF-8 sequence, and never directly in
// front of a space or tab of the original line, so unfolding restores the
// line exactly even for readers that strip leading whitespace.
func FoldLine(line string) string {
	if len(line) <= foldLimit {
		return line
	}

	var b strings.Builder
	b.Grow(len(line) + len(line)/(foldLimit-1)*3)

	pos := 0
	limit := foldLimit
	for len(line)-pos > limit {
		next := pos + limit
		for next > pos && !utf8.RuneStart(line[next]) {
			next--
		}
		if next == pos {
			// no rune starts in the window, so the bytes are not UTF-8
			next = pos + limit
		} else if isWSP(line[next]) {
			_, w := utf8.DecodeLastRuneInString(line[pos:next])
			if next-w > pos {
				next -= w
			}
		}

		b.WriteString(line[pos:next])
		b.WriteString(crlf)
		b.WriteByte(' ')

		pos = next
		// the leading space counts toward the limit of continuation lines
		limit = foldLimit - 1
	}
	b.WriteString(line[pos:])

	return b.String()
}

func isWSP(c byte) bool {
	return c == ' ' || c == '\t'
}
