package oracle

import (
	"context"
	"errors"

	"github.com/omakase-ai/concierge/components"
)

// ErrMalformed signals that the oracle produced output that is neither a
// tool-call request nor final text. The worker loop retries once and then
// aborts the turn.
var ErrMalformed = errors.New("oracle: malformed step")

// ToolSchema describes one tool the oracle may select.
type ToolSchema struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

// Step is the oracle's decision for one loop iteration: either one or more
// tool calls, or the final assistant text. Never both.
type Step struct {
	ToolCalls []components.ToolCall
	FinalText string
}

// IsFinal reports whether the step terminates the loop.
func (s Step) IsFinal() bool {
	return len(s.ToolCalls) == 0
}

// Oracle is the opaque tool-selection oracle. Given the trace so far and the
// schemas of the tools in scope it emits the next step. No contract is
// assumed beyond terminating within the worker's iteration cap.
type Oracle interface {
	NextStep(ctx context.Context, trace *components.Trace, schemas []ToolSchema, apiResp *components.LLMResponse) (*Step, error)
}
