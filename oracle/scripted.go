package oracle

import (
	"context"
	"errors"
	"sync"

	"github.com/omakase-ai/concierge/components"
)

// ErrScriptExhausted is returned when a Scripted oracle runs out of steps.
var ErrScriptExhausted = errors.New("oracle: script exhausted")

// ScriptedStep is one pre-recorded oracle decision, or an injected error.
type ScriptedStep struct {
	Step *Step
	Err  error
}

// Scripted replays a fixed sequence of steps. Used by tests and offline
// replays; never calls a language model.
type Scripted struct {
	mtx   sync.Mutex
	steps []ScriptedStep
	calls int
}

// NewScripted returns an oracle that replays the given steps in order.
func NewScripted(steps ...ScriptedStep) *Scripted {
	return &Scripted{steps: steps}
}

// FinalStep is shorthand for a scripted final-text decision.
func FinalStep(text string) ScriptedStep {
	return ScriptedStep{Step: &Step{FinalText: text}}
}

// CallStep is shorthand for a scripted tool-call decision.
func CallStep(calls ...components.ToolCall) ScriptedStep {
	return ScriptedStep{Step: &Step{ToolCalls: calls}}
}

var _ Oracle = (*Scripted)(nil)

func (s *Scripted) NextStep(ctx context.Context, trace *components.Trace, schemas []ToolSchema, apiResp *components.LLMResponse) (*Step, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if s.calls >= len(s.steps) {
		return nil, ErrScriptExhausted
	}
	step := s.steps[s.calls]
	s.calls++
	if step.Err != nil {
		return nil, step.Err
	}
	return step.Step, nil
}

// Calls reports how many steps have been consumed.
func (s *Scripted) Calls() int {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.calls
}
