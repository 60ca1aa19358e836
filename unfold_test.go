package ical

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSimplifyLineEndings(t *testing.T) {
	assert.Equal(t, "a\nb\nc\nd", SimplifyLineEndings("a\r\nb\rc\nd"))
	assert.Equal(t, "a\n\nb", SimplifyLineEndings("a\r\r\nb"))
	assert.Equal(t, "no breaks", SimplifyLineEndings("no breaks"))
}

func TestUnfold(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"SUMMARY:abc\r\n def", "SUMMARY:abcdef"},
		{"SUMMARY:abc\n def", "SUMMARY:abcdef"},
		{"SUMMARY:abc\n\tdef", "SUMMARY:abcdef"},
		{"SUMMARY:abc\n  def", "SUMMARY:abc def"},
		{"SUMMARY:abc \n def", "SUMMARY:abc def"},
		{"A:1\nB:2", "A:1\nB:2"},
		{"A:1\n\n B:2", "A:1\nB:2"},
		{"A:1\n\n  B:2", "A:1B:2"},
		{"A:1\n \n B", "A:1B"},
		// an empty line before a continuation takes its break with it
		{"A:x\n\n  y", "A:xy"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Unfold(tt.in), "Unfold(%q)", tt.in)
	}
}

func TestUnfoldIdempotent(t *testing.T) {
	inputs := []string{
		"A:1\n\n B:2",
		"A:1\n \n  B",
		"A\r\n \r\n\tB\r\n  C",
		"X:\n \n \n \n",
		" leading\n space",
	}

	for _, in := range inputs {
		once := Unfold(in)
		assert.Equal(t, once, Unfold(once), "Unfold(%q)", in)
		assert.NotContains(t, once, "\n ")
		assert.NotContains(t, once, "\n\t")
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "A:bc\nD:e", Normalize("A:b\r\n c\r\nD:e"))
	assert.Equal(t, "A:bc", Normalize("A:b\r c"))
}

func TestFoldLine(t *testing.T) {
	short := "SUMMARY:short"
	assert.Equal(t, short, FoldLine(short))

	exact := strings.Repeat("a", foldLimit)
	assert.Equal(t, exact, FoldLine(exact))

	long := "DESCRIPTION:" + strings.Repeat("x", 200)
	folded := FoldLine(long)
	assert.Equal(t, long, Unfold(folded))

	lines := strings.Split(folded, crlf)
	assert.Len(t, lines, 3)
	assert.Len(t, lines[0], foldLimit)
	for _, line := range lines[1:] {
		assert.True(t, strings.HasPrefix(line, " "))
	}
}

func TestFoldLineInverse(t *testing.T) {
	inputs := []string{
		"DESCRIPTION:" + strings.Repeat("é", 100),
		"SUMMARY:" + strings.Repeat("a", 66) + "日本語テキスト" + strings.Repeat("b", 70),
		"DESCRIPTION:" + strings.Repeat("a ", 60),
		"DESCRIPTION:" + strings.Repeat("a", 70) + "          " + strings.Repeat("b", 70),
		"X:" + strings.Repeat("\t", 200),
		"COMMENT:" + strings.Repeat("🎉", 40),
	}

	for _, in := range inputs {
		folded := FoldLine(in)
		assert.Equal(t, in, Unfold(folded), "fold/unfold of %q", in)

		for _, line := range strings.Split(folded, crlf) {
			assert.LessOrEqual(t, len(line), foldLimit)
			assert.True(t, utf8.ValidString(line), "split inside a code point: %q", line)
		}
	}
}

func TestFoldLineNeverBreaksBeforeWhitespace(t *testing.T) {
	in := "DESCRIPTION:" + strings.Repeat("a", foldLimit-len("DESCRIPTION:")) + " tail"
	folded := FoldLine(in)

	for _, line := range strings.Split(folded, crlf)[1:] {
		assert.False(t, strings.HasPrefix(line, "  "), "continuation starts with content whitespace: %q", line)
	}
	assert.Equal(t, in, Unfold(folded))
}

func TestFoldLineInvalidUTF8(t *testing.T) {
	inputs := []string{
		"X-DATA:" + strings.Repeat("\x80", 100),
		"X-BIN:" + strings.Repeat("\xbf", 300),
		strings.Repeat("\x80", foldLimit+1),
	}

	for _, in := range inputs {
		folded := FoldLine(in)
		assert.Equal(t, in, Unfold(folded))
		for _, line := range strings.Split(folded, crlf) {
			assert.LessOrEqual(t, len(line), foldLimit)
		}
	}
}
