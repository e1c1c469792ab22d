package dream

import (
	"encoding/json"
	"time"
)

// Role identifies who authored a chat message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message types recorded by the backend itself
const (
	MessageTypeAnalysis = "analysis"
	MessageTypeImage    = "image"
)

// ChatMessage is one entry in a dream thread or, when DreamID is nil, the global feed.
// DreamID is not checked against existing dreams.
type ChatMessage struct {
	ID          int64          `json:"id"`
	DreamID     *int64         `json:"dreamId"`
	Role        Role           `json:"role"`
	Content     string         `json:"content"`
	MessageType *string        `json:"messageType"`
	Metadata    map[string]any `json:"metadata"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// NewChatMessage is the creation payload for a chat message
type NewChatMessage struct {
	DreamID     *int64
	Role        Role
	Content     string
	MessageType *string
	Metadata    map[string]any
}

// Build turns a creation payload into a record with the given identity
func (n NewChatMessage) Build(id int64, createdAt time.Time) *ChatMessage {
	m := &ChatMessage{
		ID:        id,
		Role:      n.Role,
		Content:   n.Content,
		Metadata:  cloneMetadata(n.Metadata),
		CreatedAt: createdAt,
	}
	if n.DreamID != nil {
		dreamID := *n.DreamID
		m.DreamID = &dreamID
	}
	if n.MessageType != nil {
		m.MessageType = StringPtr(*n.MessageType)
	}
	return m
}

// Clone returns a deep copy of the message
func (m *ChatMessage) Clone() *ChatMessage {
	if m == nil {
		return nil
	}
	c := *m
	if m.DreamID != nil {
		id := *m.DreamID
		c.DreamID = &id
	}
	if m.MessageType != nil {
		c.MessageType = StringPtr(*m.MessageType)
	}
	c.Metadata = cloneMetadata(m.Metadata)
	return &c
}

// IsGlobal reports whether the message belongs to the global feed
func (m *ChatMessage) IsGlobal() bool {
	return m.DreamID == nil
}

// cloneMetadata deep-copies arbitrary JSON-shaped metadata by round-tripping it.
// Values that cannot be encoded fall back to a shallow copy.
func cloneMetadata(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	raw, err := json.Marshal(in)
	if err == nil {
		var out map[string]any
		if err := json.Unmarshal(raw, &out); err == nil {
			return out
		}
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
