package components

import (
	"sync"

	"github.com/omakase-ai/concierge/schema"
)

// Trace is the ordered message history of one turn, from the initial user
// text to the terminal assistant output. Append-only, owned by the worker
// loop for the duration of one invocation and discarded after extraction.
// threadsafe
type Trace struct {
	// history is the list of messages appended so far.
	history []Message
	// turnID is the ID of the turn this trace records.
	turnID string
	// mtx sync lock
	mtx *sync.RWMutex
}

// NewTrace initializes an empty Trace with a fresh turn ID.
func NewTrace() *Trace {
	return &Trace{
		history: make([]Message, 0, 8),
		turnID:  NewTurnID(),
		mtx:     new(sync.RWMutex),
	}
}

// TurnID returns the trace turn ID
func (t *Trace) TurnID() string {
	return t.turnID
}

// Append adds a prebuilt message to the trace.
func (t *Trace) Append(msg *Message) *Message {
	msg.SetTurnID(t.turnID)
	t.mtx.Lock()
	t.history = append(t.history, *msg)
	t.mtx.Unlock()
	return msg
}

// NewMessage builds a message from role and content and appends it.
func (t *Trace) NewMessage(role MessageRole, content schema.Schema) *Message {
	return t.Append(NewMessage(role, content))
}

// Messages retrieves a snapshot of the trace history.
func (t *Trace) Messages() []Message {
	t.mtx.RLock()
	defer t.mtx.RUnlock()
	out := make([]Message, len(t.history))
	copy(out, t.history)
	return out
}

// Len returns the number of messages in the trace.
func (t *Trace) Len() int {
	t.mtx.RLock()
	defer t.mtx.RUnlock()
	return len(t.history)
}

// LastAssistant returns the most recent assistant message that carries
// content rather than tool call requests.
func (t *Trace) LastAssistant() (Message, bool) {
	t.mtx.RLock()
	defer t.mtx.RUnlock()
	for i := len(t.history) - 1; i >= 0; i-- {
		msg := t.history[i]
		if msg.Role() == AssistantRole && len(msg.ToolCalls()) == 0 {
			return msg, true
		}
	}
	return Message{}, false
}
