package chatbot

import (
	"sync"

	"github.com/korylprince/twin-client/twin"
)

// Thread is the session's ordered, append-only conversation.
// Messages are copied in and out, so appended entries can't be changed.
type Thread struct {
	mu       sync.RWMutex
	messages []twin.Message
}

// NewThread returns an empty Thread
func NewThread() *Thread {
	return &Thread{}
}

// Append adds msg to the end of the thread
func (t *Thread) Append(msg twin.Message) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.messages = append(t.messages, msg.Clone())
}

// SnapshotHistory returns every message currently in the thread as a HistoryEntry, in order.
// The result is never nil.
func (t *Thread) SnapshotHistory() []twin.HistoryEntry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	history := make([]twin.HistoryEntry, 0, len(t.messages))
	for _, m := range t.messages {
		history = append(history, m.History())
	}
	return history
}

// Messages returns a copy of every message in the thread
func (t *Thread) Messages() []twin.Message {
	t.mu.RLock()
	defer t.mu.RUnlock()

	msgs := make([]twin.Message, 0, len(t.messages))
	for _, m := range t.messages {
		msgs = append(msgs, m.Clone())
	}
	return msgs
}

// Len returns the number of messages in the thread
func (t *Thread) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.messages)
}
