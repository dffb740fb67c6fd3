package twin

import (
	"time"

	"github.com/google/uuid"
)

//Role is the author of a Message
type Role string

//Roles
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

//Message is one turn in the conversation. A nil Sources means citations are
//not known or not applicable; an empty Sources means the answer cited nothing.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Sources   []string  `json:"sources"`
	CreatedAt time.Time `json:"created_at"`
}

//HistoryEntry is a Message reduced to what the chat backend receives as history
type HistoryEntry struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

//NewMessage returns a new Message with a fresh ID and creation time
func NewMessage(role Role, content string, sources []string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Sources:   sources,
		CreatedAt: time.Now(),
	}
}

//History returns m projected to a HistoryEntry
func (m Message) History() HistoryEntry {
	return HistoryEntry{Role: m.Role, Content: m.Content}
}

//Clone returns a copy of m that shares no memory with it
func (m Message) Clone() Message {
	if m.Sources != nil {
		sources := make([]string, len(m.Sources))
		copy(sources, m.Sources)
		m.Sources = sources
	}
	return m
}
