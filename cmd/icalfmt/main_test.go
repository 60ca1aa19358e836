package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bareCalendar = "BEGIN:VCALENDAR\n" +
	"BEGIN:VEVENT\n" +
	"UID:1@example.org\n" +
	"DTSTAMP:20220716T141500Z\n" +
	"SUMMARY:Board meeting\n" +
	"END:VEVENT\n" +
	"END:VCALENDAR\n"

func runWith(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunStdin(t *testing.T) {
	code, out, errOut := runWith(t, bareCalendar)
	require.Equal(t, 0, code, errOut)

	assert.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:-//luxifer//icalfmt//EN\r\n"), out)
	assert.Contains(t, out, "SUMMARY:Board meeting\r\n")
	assert.True(t, strings.HasSuffix(out, "END:VCALENDAR\r\n"))
	assert.NotContains(t, strings.ReplaceAll(out, "\r\n", ""), "\n")
}

func TestRunCheckFixture(t *testing.T) {
	path := filepath.Join("..", "..", "fixtures", "example.ics")

	code, out, errOut := runWith(t, "", "-check", path)
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, path+": ok\n", out)

	code, out, errOut = runWith(t, "", "-check", "-typed", path)
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, path+": ok\n", out)
}

func TestRunTyped(t *testing.T) {
	code, out, errOut := runWith(t, bareCalendar, "-typed")
	require.Equal(t, 0, code, errOut)

	// the typed view sorts single-valued properties by name
	dtstamp := strings.Index(out, "DTSTAMP:")
	summary := strings.Index(out, "SUMMARY:")
	uid := strings.Index(out, "UID:1@example.org")
	assert.True(t, dtstamp < summary && summary < uid, out)
}

func TestRunErrors(t *testing.T) {
	code, out, errOut := runWith(t, "BEGIN:VEVENT\nSUMMARY:open\n")
	assert.Equal(t, 1, code)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "-: ical:1:7: BEGIN:VEVENT is never closed")

	code, _, errOut = runWith(t, "", filepath.Join(t.TempDir(), "missing.ics"))
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "missing.ics")

	code, _, _ = runWith(t, "", "-unknown")
	assert.Equal(t, 2, code)

	code, _, _ = runWith(t, "", "-h")
	assert.Equal(t, 0, code)
}

func TestRunMaxDepth(t *testing.T) {
	nested := "BEGIN:VCALENDAR\nBEGIN:VTODO\nBEGIN:VALARM\nEND:VALARM\nEND:VTODO\nEND:VCALENDAR\n"

	code, _, errOut := runWith(t, nested, "-max-depth", "2")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "nesting deeper than 2 components")

	code, _, errOut = runWith(t, nested, "-max-depth", "3")
	assert.Equal(t, 0, code, errOut)
}

func TestRunConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "icalfmt.yaml")
	conf := "product_id: -//test//icalfmt//EN\nlog_level: debug\nsimple_errors: true\n"
	require.NoError(t, os.WriteFile(path, []byte(conf), 0o600))

	code, out, errOut := runWith(t, bareCalendar, "-config", path)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "PRODID:-//test//icalfmt//EN\r\n")
	assert.Contains(t, errOut, "component opened")

	code, _, errOut = runWith(t, "BEGIN:VEVENT\n", "-config", path)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "at offset 6")
	assert.NotContains(t, errOut, "^")

	code, _, errOut = runWith(t, "", "-config", filepath.Join(t.TempDir(), "none.yaml"))
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "icalfmt: ")
}
