package components

import (
	"encoding/json"

	"github.com/rs/xid"

	"github.com/omakase-ai/concierge/schema"
)

// NewTurnID returns a new turn ID.
func NewTurnID() string {
	return xid.New().String()
}

// MessageRole is the role of the message sender (e.g., 'user', 'system', 'tool')
type MessageRole = string

const (
	SystemRole    MessageRole = "system"
	UserRole      MessageRole = "user"
	AssistantRole MessageRole = "assistant"
	ToolRole      MessageRole = "tool"
)

// Message represents one entry of a turn trace. Heterogeneous upstream shapes
// (plain strings, {type,text} chunk lists, structured tool payloads) are
// unified into a schema.Schema at construction so downstream logic never
// branches on the source shape.
type Message struct {
	content schema.Schema
	// role is the role of the message sender (e.g., 'user', 'assistant', 'tool')
	role MessageRole
	// toolCalls holds the calls an assistant message requested, if any
	toolCalls []ToolCall
	// toolCallID links a tool message back to the call that produced it
	toolCallID string
	// turnID is the unique identifier of the turn this message belongs to
	turnID string
}

// NewMessage returns a new Message
func NewMessage(role MessageRole, content schema.Schema) *Message {
	return &Message{
		role:    role,
		content: content,
	}
}

// NewToolCallMessage returns an assistant message carrying tool call requests.
func NewToolCallMessage(calls []ToolCall) *Message {
	return &Message{
		role:      AssistantRole,
		content:   schema.NewString(""),
		toolCalls: calls,
	}
}

// NewToolResultMessage returns a tool message holding one call's payload.
func NewToolResultMessage(callID string, content schema.Schema) *Message {
	return &Message{
		role:       ToolRole,
		content:    content,
		toolCallID: callID,
	}
}

// SetTurnID set message turnID
func (m *Message) SetTurnID(turnID string) *Message {
	m.turnID = turnID
	return m
}

// Role returns message role
func (m Message) Role() MessageRole {
	return m.role
}

// Content returns message content
func (m Message) Content() schema.Schema {
	return m.content
}

// ToolCalls returns the tool calls requested by an assistant message.
func (m Message) ToolCalls() []ToolCall {
	return m.toolCalls
}

// ToolCallID returns the ID of the call a tool message answers.
func (m Message) ToolCallID() string {
	return m.toolCallID
}

// TurnID returns message turnID
func (m Message) TurnID() string {
	return m.turnID
}

// StringifiedContent returns the content rendered as a string.
func (m Message) StringifiedContent() string {
	return schema.Stringify(m.content)
}

type messageJSON struct {
	Role       MessageRole `json:"role"`
	Content    any         `json:"content,omitempty"`
	ToolCalls  []ToolCall  `json:"tool_calls,omitempty"`
	ToolCallID string      `json:"tool_call_id,omitempty"`
	TurnID     string      `json:"turn_id,omitempty"`
}

func (m Message) MarshalJSON() ([]byte, error) {
	v := messageJSON{
		Role:       m.role,
		ToolCalls:  m.toolCalls,
		ToolCallID: m.toolCallID,
		TurnID:     m.turnID,
	}
	if m.content != nil {
		v.Content = m.content.Raw()
	}
	return json.Marshal(v)
}

func (m *Message) UnmarshalJSON(bs []byte) error {
	var v messageJSON
	if err := json.Unmarshal(bs, &v); err != nil {
		return err
	}
	m.role = v.Role
	m.toolCalls = v.ToolCalls
	m.toolCallID = v.ToolCallID
	m.turnID = v.TurnID
	m.content = IngestContent(v.Content)
	return nil
}

// IngestContent converts an arbitrary upstream content value into a schema.
// Strings stay strings; {type,text} chunk lists are flattened lazily by the
// extractor, so they are preserved as structured values here.
func IngestContent(v any) schema.Schema {
	switch c := v.(type) {
	case nil:
		return schema.NewString("")
	case string:
		return schema.NewString(c)
	case schema.Schema:
		return c
	default:
		return schema.NewValue(c)
	}
}
