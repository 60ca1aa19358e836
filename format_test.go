package ical

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2022, 7, 16, 14, 15, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func sequentialUIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("uid-%d@example.org", n)
	}
}

func crlfLines(lines ...string) string {
	return strings.Join(lines, crlf) + crlf
}

func TestFormat(t *testing.T) {
	event := NewEvent().
		SetUID("123@example.org").
		SetTimestamp(time.Date(2020, 2, 11, 0, 0, 0, 0, time.UTC)).
		SetSummary("Test event")

	cal := NewCalendar().Push(event)
	cal.SetProperty(NewProperty("PRODID", "-//ABC Corporation//NONSGML My Product//EN"))
	cal.SetProperty(NewProperty("VERSION", "2.0"))

	want := crlfLines(
		"BEGIN:VCALENDAR",
		"CALSCALE:GREGORIAN",
		"PRODID:-//ABC Corporation//NONSGML My Product//EN",
		"VERSION:2.0",
		"BEGIN:VEVENT",
		"DTSTAMP:20200211T000000Z",
		"SUMMARY:Test event",
		"UID:123@example.org",
		"END:VEVENT",
		"END:VCALENDAR",
	)

	var buf bytes.Buffer
	require.NoError(t, Format(&buf, cal))
	assert.Equal(t, want, buf.String())
}

func TestFormatSynthesis(t *testing.T) {
	root := &Component{
		Name: "VCALENDAR",
		Components: []*Component{
			{
				Name:       "VEVENT",
				Properties: []*Property{{Name: "SUMMARY", Value: "no identity"}},
				Components: []*Component{{Name: "VALARM", Properties: []*Property{{Name: "ACTION", Value: "AUDIO"}}}},
			},
			{
				Name:       "VTODO",
				Properties: []*Property{{Name: "UID", Value: "keep@example.org"}},
			},
		},
	}
	before := root.Clone()

	var buf bytes.Buffer
	err := FormatComponent(&buf, root,
		WithClock(fixedClock),
		WithUIDGenerator(sequentialUIDs()),
		WithProductID("-//Example//Test//EN"),
	)
	require.NoError(t, err)

	assert.Equal(t, crlfLines(
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Example//Test//EN",
		"CALSCALE:GREGORIAN",
		"BEGIN:VEVENT",
		"DTSTAMP:20220716T141500Z",
		"UID:uid-1@example.org",
		"SUMMARY:no identity",
		"BEGIN:VALARM",
		"ACTION:AUDIO",
		"END:VALARM",
		"END:VEVENT",
		"BEGIN:VTODO",
		"DTSTAMP:20220716T141500Z",
		"UID:keep@example.org",
		"END:VTODO",
		"END:VCALENDAR",
	), buf.String())

	assert.Equal(t, before, root, "formatting must not modify the tree")
}

func TestFormatSynthesisNonCalendarRoot(t *testing.T) {
	root := &Component{
		Name:       "VEVENT",
		Properties: []*Property{{Name: "DTSTAMP", Value: "19970901T130000Z"}},
		Components: []*Component{{Name: "VALARM"}},
	}

	var buf bytes.Buffer
	require.NoError(t, FormatComponent(&buf, root, WithUIDGenerator(sequentialUIDs())))

	assert.Equal(t, crlfLines(
		"BEGIN:VEVENT",
		"UID:uid-1@example.org",
		"DTSTAMP:19970901T130000Z",
		"BEGIN:VALARM",
		"END:VALARM",
		"END:VEVENT",
	), buf.String())
}

func TestFormatDefaultIdentity(t *testing.T) {
	out := NewComponent("VEVENT").String()

	roots, err := ReadComponents(Normalize(out))
	require.NoError(t, err)
	require.Len(t, roots, 1)

	uid := roots[0].FindProperty("UID")
	require.NotNil(t, uid)
	assert.Len(t, uid.Value, 36)

	stamp, ok := ParseDateTime(roots[0].FindProperty("DTSTAMP"))
	require.True(t, ok)
	assert.IsType(t, UTCDateTime{}, stamp)
}

func TestFormatMultiValued(t *testing.T) {
	event := NewEvent().SetUID("1").SetTimestamp(fixedNow)
	event.SetMultiProperty("CATEGORIES", NewProperty("CATEGORIES", "A"))
	event.AppendMultiProperty(NewProperty("CATEGORIES", "A"))
	event.AppendProperty(NewProperty("CATEGORIES", "D"))
	event.AppendProperty(NewProperty("COMMENT", "after"))
	event.SetSummary("sorted before the multi-valued ones")

	var buf bytes.Buffer
	require.NoError(t, FormatComponent(&buf, event.ToComponent()))

	assert.Equal(t, crlfLines(
		"BEGIN:VEVENT",
		"DTSTAMP:20220716T141500Z",
		"SUMMARY:sorted before the multi-valued ones",
		"UID:1",
		"CATEGORIES:A",
		"CATEGORIES:A",
		"CATEGORIES:D",
		"COMMENT:after",
		"END:VEVENT",
	), buf.String())
}

func TestFormatProperty(t *testing.T) {
	prop := NewProperty("ATTENDEE", "mailto:jd@example.com").
		AddParam("CN", "Doe; John").
		AddParam("RSVP", "").
		AddParam("X-D", "a:b").
		AddParam("ROLE", "CHAIR")

	want := `ATTENDEE;CN="Doe; John";RSVP;X-D="a:b";ROLE=CHAIR:mailto:jd@example.com` + crlf
	assert.Equal(t, want, prop.String())

	parsed, err := ParseProperty(strings.TrimSuffix(want, crlf))
	require.NoError(t, err)
	assert.Equal(t, prop, parsed)
}

func TestFormatFolding(t *testing.T) {
	summary := strings.Repeat("Grüße aus Köln ", 12)
	event := NewEvent().SetUID("1").SetTimestamp(fixedNow).SetSummary(summary)

	var buf bytes.Buffer
	require.NoError(t, FormatComponent(&buf, event.ToComponent()))

	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), crlf), crlf) {
		assert.LessOrEqual(t, len(line), 75, "line too long: %q", line)
	}

	cal, err := ParseCalendar(buf.String())
	require.NoError(t, err)
	require.Len(t, cal.Events(), 1)
	assert.Equal(t, summary, cal.Events()[0].Summary())
}

func TestFormatFixpoint(t *testing.T) {
	alarm := NewDisplayAlarm("Wake up, it is late; really", RelativeTrigger(Duration{Negative: true, Minutes: 15}, RelatedStart))

	event := NewEvent().
		SetUID("fixpoint@example.org").
		SetTimestamp(fixedNow).
		SetSummary(strings.Repeat("long summary with ümlauts, commas; and semicolons ", 3)).
		SetStart(NewZonedDateTime(time.Date(2022, 7, 16, 9, 0, 0, 0, time.UTC), "Europe/Paris")).
		SetDuration(Duration{Hours: 1, Minutes: 30}).
		SetPriority(3).
		AddComponent(alarm)
	event.AppendProperty(NewProperty("CATEGORIES", "A"))
	event.AppendProperty(NewProperty("CATEGORIES", "B"))
	event.AppendProperty(NewProperty("ATTENDEE", "mailto:a@example.com").AddParam("CN", "A: B"))

	todo := NewTodo().
		SetUID("todo@example.org").
		SetTimestamp(fixedNow).
		SetDue(NewDate(fixedNow))

	cal := NewCalendar().Push(event, todo)
	cal.SetProperty(NewProperty("VERSION", "2.0"))
	cal.SetProperty(NewProperty("PRODID", "-//Example//Fixpoint//EN"))
	cal.SetProperty(NewProperty("CALSCALE", "GREGORIAN"))
	cal.SetName("Team, Planning")
	cal.SetTTL(Duration{Hours: 12})

	var buf bytes.Buffer
	require.NoError(t, Format(&buf, cal))

	parsed, err := ParseCalendar(buf.String())
	require.NoError(t, err)
	assert.Equal(t, cal, parsed)
}

func TestFormatStabilizes(t *testing.T) {
	cal := NewCalendar().Push(NewEvent().SetSummary("first"), NewTodo().SetSummary("second"))
	opts := []Option{WithClock(fixedClock), WithUIDGenerator(sequentialUIDs())}

	var first bytes.Buffer
	require.NoError(t, Format(&first, cal, opts...))

	parsed, err := ParseCalendar(first.String())
	require.NoError(t, err)
	assert.Equal(t, "uid-1@example.org", parsed.Events()[0].UID())
	assert.Equal(t, "uid-2@example.org", parsed.Todos()[0].UID())

	noUID := WithUIDGenerator(func() string {
		t.Fatal("no UID should be synthesized on the second pass")
		return ""
	})

	var second bytes.Buffer
	require.NoError(t, Format(&second, parsed, noUID))

	reparsed, err := ParseCalendar(second.String())
	require.NoError(t, err)
	assert.Equal(t, parsed, reparsed)

	var third bytes.Buffer
	require.NoError(t, Format(&third, reparsed, noUID))
	assert.Equal(t, second.String(), third.String())
}

func TestFormatComponentRoundTrip(t *testing.T) {
	input := crlfLines(
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Example//Test//EN",
		"CALSCALE:GREGORIAN",
		"BEGIN:VEVENT",
		"UID:1",
		"DTSTAMP:19970901T130000Z",
		"X-EMPTY;A=:",
		"SUMMARY;LANGUAGE=en:keeps its place",
		"END:VEVENT",
		"END:VCALENDAR",
	)

	roots, err := ReadComponents(Normalize(input))
	require.NoError(t, err)

	var buf bytes.Buffer
	for _, root := range roots {
		require.NoError(t, FormatComponent(&buf, root))
	}
	assert.Equal(t, strings.Replace(input, "X-EMPTY;A=:", "X-EMPTY;A:", 1), buf.String())
}

type failingWriter struct{ after int }

var errWrite = errors.New("write failed")

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.after == 0 {
		return 0, errWrite
	}
	w.after--
	return len(p), nil
}

func TestFormatWriteError(t *testing.T) {
	cal := NewCalendar().Push(NewEvent().SetUID("1").SetTimestamp(fixedNow))

	for after := 0; after < 8; after++ {
		err := Format(&failingWriter{after: after}, cal)
		assert.ErrorIs(t, err, errWrite, "failing after %d lines", after)
	}
}

func TestFormatInvalidUTF8Value(t *testing.T) {
	value := strings.Repeat("\xbf", 90)
	roots, err := ReadComponents("BEGIN:VEVENT\nUID:1\nDTSTAMP:20220716T141500Z\nX-BIN:" + value + "\nEND:VEVENT\n")
	require.NoError(t, err)

	out := roots[0].String()

	again, err := ReadComponents(Normalize(out))
	require.NoError(t, err)
	require.Len(t, again, 1)
	assert.Equal(t, value, again[0].FindProperty("X-BIN").Value)
}

func TestFormatQuotesBlankParamValues(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{`X;A=" ":v`, `X;A=" ":v`},
		{`X;A=" padded":v`, `X;A=" padded":v`},
		{`X;A="trailing	":v`, `X;A="trailing	":v`},
		{`X;A= :v`, `X;A:v`},
	}

	for _, tt := range tests {
		first, err := ParseProperty(tt.line)
		require.NoError(t, err, tt.line)

		out := first.String()
		assert.Equal(t, tt.want+crlf, out)

		second, err := ParseProperty(strings.TrimSuffix(out, crlf))
		require.NoError(t, err, out)
		assert.Equal(t, first, second)
	}
}

func TestFormatSynthesisSkipsTimezones(t *testing.T) {
	root := &Component{
		Name: "VCALENDAR",
		Properties: []*Property{
			{Name: "VERSION", Value: "2.0"},
			{Name: "PRODID", Value: "-//Example//Test//EN"},
			{Name: "CALSCALE", Value: "GREGORIAN"},
		},
		Components: []*Component{
			{Name: "VTIMEZONE", Properties: []*Property{{Name: "TZID", Value: "Europe/Paris"}}},
			{Name: "VJOURNAL"},
			{Name: "X-CUSTOM"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, FormatComponent(&buf, root, WithClock(fixedClock), WithUIDGenerator(sequentialUIDs())))

	assert.Equal(t, crlfLines(
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Example//Test//EN",
		"CALSCALE:GREGORIAN",
		"BEGIN:VTIMEZONE",
		"TZID:Europe/Paris",
		"END:VTIMEZONE",
		"BEGIN:VJOURNAL",
		"DTSTAMP:20220716T141500Z",
		"UID:uid-1@example.org",
		"END:VJOURNAL",
		"BEGIN:X-CUSTOM",
		"END:X-CUSTOM",
		"END:VCALENDAR",
	), buf.String())

	buf.Reset()
	require.NoError(t, FormatComponent(&buf, root.Components[0], WithClock(fixedClock)))
	assert.NotContains(t, buf.String(), "DTSTAMP")
}
