package simulator

import (
	"sync"

	"github.com/google/uuid"

	"github.com/flossly/bot-builder/internal/botconfig"
)

// Entry is one line of the rehearsal transcript. Entries are append-only:
// once added they are never edited or reordered, only a full session reset
// clears them. Insertion order is display order.
type Entry struct {
	ID         string                 `json:"id"`
	Text       string                 `json:"text"`
	IsBot      bool                   `json:"isBot"`
	IsUser     bool                   `json:"isUser"`
	ShowAvatar bool                   `json:"showAvatar"`
	Options    []botconfig.MenuOption `json:"options,omitempty"`
}

// Timeline is the authoritative transcript for one rehearsal session.
type Timeline struct {
	mu      sync.Mutex
	entries []Entry
	typing  bool
	notify  Listener
}

// NewTimeline creates an empty timeline. notify may be nil.
func NewTimeline(notify Listener) *Timeline {
	return &Timeline{notify: notify}
}

// AppendUser records visitor-authored text immediately, escaped wholesale.
func (t *Timeline) AppendUser(text string) Entry {
	entry := Entry{
		ID:     uuid.NewString(),
		Text:   escapeUserText(text),
		IsUser: true,
	}
	t.append(entry)
	return entry
}

// AppendBot records bot copy after it has passed the markup allow-list.
// Typing choreography is the session's job; this is the bare append.
func (t *Timeline) AppendBot(text string, showAvatar bool, options []botconfig.MenuOption) Entry {
	entry := Entry{
		ID:         uuid.NewString(),
		Text:       sanitizeBotMarkup(text),
		IsBot:      true,
		ShowAvatar: showAvatar,
		Options:    options,
	}
	t.append(entry)
	return entry
}

func (t *Timeline) append(entry Entry) {
	t.mu.Lock()
	t.entries = append(t.entries, entry)
	t.mu.Unlock()
	t.emit(Event{Type: EventEntry, Entry: &entry})
}

// SetTyping flips the typing indicator and notifies the view.
func (t *Timeline) SetTyping(on bool) {
	t.mu.Lock()
	changed := t.typing != on
	t.typing = on
	t.mu.Unlock()
	if changed {
		t.emit(Event{Type: EventTyping, Typing: on})
	}
}

// Typing reports the indicator state.
func (t *Timeline) Typing() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.typing
}

// Entries returns a snapshot of the transcript.
func (t *Timeline) Entries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len reports the number of entries.
func (t *Timeline) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// Reset clears the transcript. Only a full session restart calls this.
func (t *Timeline) Reset() {
	t.mu.Lock()
	t.entries = nil
	t.typing = false
	t.mu.Unlock()
	t.emit(Event{Type: EventReset})
}

func (t *Timeline) emit(ev Event) {
	if t.notify != nil {
		t.notify(ev)
	}
}
