// Package conv defines the conversation domain types shared by the store,
// the chat engine, and the transport layers.
package conv

import (
	"fmt"
	"strings"
)

// Sender attributes a stored message to one side of the conversation.
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// Valid reports whether s is one of the two known senders.
func (s Sender) Valid() bool {
	return s == SenderUser || s == SenderAI
}

// Role is the position of a context entry in an LLM request.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Role maps a stored sender onto the corresponding LLM role.
func (s Sender) Role() Role {
	if s == SenderAI {
		return RoleAssistant
	}
	return RoleUser
}

// Conversation is a persisted chat session. Summary is nil until older turns
// have been compressed; once set it is only ever replaced by a later
// summarization pass, never cleared.
type Conversation struct {
	ID        string  `json:"id"`
	CreatedAt int64   `json:"createdAt"`
	Summary   *string `json:"summary,omitempty"`
}

// Message is one immutable stored turn. Timestamp is Unix milliseconds;
// messages with equal timestamps order by ID, which is a ULID and therefore
// sorts in insertion order.
type Message struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversationId"`
	Sender         Sender `json:"sender"`
	Text           string `json:"text"`
	Timestamp      int64  `json:"timestamp"`
}

// ContextEntry is one turn of the transient context window handed to the LLM.
// Entries are built fresh for every generation call and never persisted.
type ContextEntry struct {
	Role    Role
	Content string
}

// Transcript renders messages as "sender: text" lines, the input format the
// summarizer consumes.
func Transcript(msgs []Message) []string {
	lines := make([]string, 0, len(msgs))
	for _, m := range msgs {
		lines = append(lines, fmt.Sprintf("%s: %s", m.Sender, m.Text))
	}
	return lines
}

// SummaryEntry wraps a stored summary as the leading system-level context
// entry for a generation call.
func SummaryEntry(summary string) ContextEntry {
	return ContextEntry{
		Role:    RoleSystem,
		Content: "Previous conversation summary: " + strings.TrimSpace(summary),
	}
}
