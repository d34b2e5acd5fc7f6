package simulator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimelineAppendOrder(t *testing.T) {
	tl := NewTimeline(nil)
	tl.AppendBot("hello", true, nil)
	tl.AppendUser("hi")
	tl.AppendBot("how can I help?", true, nil)

	entries := tl.Entries()
	require.Len(t, entries, 3)
	assert.True(t, entries[0].IsBot)
	assert.True(t, entries[1].IsUser)
	assert.Equal(t, "hi", entries[1].Text)
	assert.True(t, entries[2].IsBot)
}

func TestTimelineEscapesUserText(t *testing.T) {
	tl := NewTimeline(nil)
	entry := tl.AppendUser(`<img src=x onerror=alert(1)>`)
	assert.NotContains(t, entry.Text, "<img")
	assert.Contains(t, entry.Text, "&lt;img")
}

func TestTimelineSanitizesBotMarkup(t *testing.T) {
	tl := NewTimeline(nil)
	entry := tl.AppendBot(`ok <script>bad()</script>`, true, nil)
	assert.NotContains(t, entry.Text, "script")
}

func TestTimelineNotifies(t *testing.T) {
	var events []Event
	tl := NewTimeline(func(ev Event) { events = append(events, ev) })

	tl.AppendBot("hello", true, nil)
	tl.SetTyping(true)
	tl.SetTyping(true) // no change, no event
	tl.SetTyping(false)
	tl.Reset()

	require.Len(t, events, 4)
	assert.Equal(t, EventEntry, events[0].Type)
	assert.Equal(t, EventTyping, events[1].Type)
	assert.True(t, events[1].Typing)
	assert.Equal(t, EventTyping, events[2].Type)
	assert.False(t, events[2].Typing)
	assert.Equal(t, EventReset, events[3].Type)
}

func TestTimelineReset(t *testing.T) {
	tl := NewTimeline(nil)
	tl.AppendBot("hello", true, nil)
	tl.SetTyping(true)

	tl.Reset()
	assert.Equal(t, 0, tl.Len())
	assert.False(t, tl.Typing())
}

func TestTimelineEntriesIsACopy(t *testing.T) {
	tl := NewTimeline(nil)
	tl.AppendBot("hello", true, nil)

	snap := tl.Entries()
	snap[0].Text = "mutated"
	assert.Equal(t, "hello", tl.Entries()[0].Text)
}
