package agents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/omakase-ai/concierge/components"
	"github.com/omakase-ai/concierge/oracle"
	"github.com/omakase-ai/concierge/schema"
	"github.com/omakase-ai/concierge/tools"
)

const (
	// DefaultMaxIterations bounds the oracle back-and-forth of one turn.
	DefaultMaxIterations = 25
	// DefaultTurnBudget is the wall-clock budget of one turn; each provider
	// call gets the remaining budget divided by the remaining iterations.
	DefaultTurnBudget = 2 * time.Minute
)

// Worker runs the bounded tool-call loop of one domain. The oracle picks
// tool invocations or emits the final message; errored or empty invocations
// cascade through the binding's fallback tiers.
type Worker struct {
	name          string
	instructions  string
	oracle        oracle.Oracle
	bindings      map[string]*Binding
	order         []string
	maxIterations int
	turnBudget    time.Duration
}

type WorkerOption func(*Worker)

func WithMaxIterations(n int) WorkerOption {
	return func(w *Worker) {
		w.maxIterations = n
	}
}

func WithTurnBudget(d time.Duration) WorkerOption {
	return func(w *Worker) {
		w.turnBudget = d
	}
}

// NewWorker builds a worker over its tool bindings. Binding order is
// preserved in the schemas shown to the oracle.
func NewWorker(name, instructions string, orc oracle.Oracle, bindings []*Binding, opts ...WorkerOption) *Worker {
	ret := &Worker{
		name:          name,
		instructions:  instructions,
		oracle:        orc,
		bindings:      make(map[string]*Binding, len(bindings)),
		order:         make([]string, 0, len(bindings)),
		maxIterations: DefaultMaxIterations,
		turnBudget:    DefaultTurnBudget,
	}
	for _, b := range bindings {
		ret.bindings[b.Schema.Name] = b
		ret.order = append(ret.order, b.Schema.Name)
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Name returns the worker's domain name.
func (w *Worker) Name() string {
	return w.name
}

// Instructions returns the worker's system prompt.
func (w *Worker) Instructions() string {
	return w.instructions
}

// Schemas lists the tool schemas in binding order.
func (w *Worker) Schemas() []oracle.ToolSchema {
	ret := make([]oracle.ToolSchema, 0, len(w.order))
	for _, name := range w.order {
		ret = append(ret, w.bindings[name].Schema)
	}
	return ret
}

// Run executes one turn and returns the trace for extraction. The trace is
// returned even on error so the caller can still surface partial progress.
func (w *Worker) Run(ctx context.Context, text string) (*components.Trace, error) {
	trace := components.NewTrace()
	if w.instructions != "" {
		trace.NewMessage(components.SystemRole, schema.NewString(w.instructions))
	}
	trace.NewMessage(components.UserRole, schema.NewString(text))

	deadline := time.Now().Add(w.turnBudget)
	schemas := w.Schemas()
	toolCalls := 0
	malformedRetried := false
	for iter := 0; iter < w.maxIterations; iter++ {
		step, err := w.oracle.NextStep(ctx, trace, schemas, nil)
		if err != nil {
			if errors.Is(err, oracle.ErrMalformed) {
				if !malformedRetried {
					malformedRetried = true
					slog.Warn("malformed oracle step, re-prompting once", "worker", w.name, "iteration", iter)
					continue
				}
				return trace, fmt.Errorf("%w: %v", ErrOracleMalformed, err)
			}
			return trace, &FatalError{Err: err}
		}
		malformedRetried = false
		if step.IsFinal() {
			trace.NewMessage(components.AssistantRole, schema.NewString(step.FinalText))
			return trace, nil
		}
		trace.Append(components.NewToolCallMessage(step.ToolCalls))
		remaining := w.maxIterations - iter
		timeout := time.Until(deadline) / time.Duration(remaining)
		if timeout <= 0 {
			timeout = time.Second
		}
		for _, cb := range w.invokeAll(ctx, step.ToolCalls, timeout) {
			trace.Append(components.NewToolResultMessage(cb.ID, schema.NewString(cb.Content)))
		}
		toolCalls += len(step.ToolCalls)
	}
	slog.Warn("iteration budget exceeded", "worker", w.name, "tool_calls", toolCalls)
	trace.NewMessage(components.AssistantRole, schema.NewString(fmt.Sprintf(
		"処理回数が上限（%d回）に達したため、応答を打ち切りました。ここまでに%d件のツール呼び出しを実行しています。",
		w.maxIterations, toolCalls)))
	return trace, ErrIterationBudget
}

// invokeAll runs the calls of one oracle step, concurrently when there are
// several. Callbacks are rejoined by call index so trace order is stable
// regardless of provider latency.
func (w *Worker) invokeAll(ctx context.Context, calls []components.ToolCall, timeout time.Duration) []components.ToolCallback {
	callbacks := make([]components.ToolCallback, len(calls))
	if len(calls) == 1 {
		callbacks[0] = w.invokeOne(ctx, calls[0], timeout)
		return callbacks
	}
	var eg errgroup.Group
	for i, call := range calls {
		eg.Go(func() error {
			callbacks[i] = w.invokeOne(ctx, call, timeout)
			return nil
		})
	}
	_ = eg.Wait()
	return callbacks
}

// toolFailure is the structured payload appended when every tier of a call
// is exhausted. Appended, never raised, so the oracle can explain the
// failure in its final message.
type toolFailure struct {
	Error          string          `json:"error"`
	Tool           string          `json:"tool"`
	Kind           tools.ErrorKind `json:"kind"`
	TiersAttempted int             `json:"tiers_attempted"`
}

func (w *Worker) invokeOne(ctx context.Context, call components.ToolCall, timeout time.Duration) components.ToolCallback {
	cb := components.ToolCallback{ID: call.ID, Name: call.Name}
	binding, ok := w.bindings[call.Name]
	if !ok {
		cb.Content = failurePayload(toolFailure{
			Error: "no such tool is bound to this worker",
			Tool:  call.Name,
			Kind:  tools.ErrNotFound,
		})
		cb.IsError = true
		return cb
	}
	tiers := make([]Fallback, 0, 1+len(binding.Fallbacks))
	tiers = append(tiers, Fallback{Name: call.Name, Invoke: binding.Invoke})
	tiers = append(tiers, binding.Fallbacks...)

	lastKind := tools.ErrNotFound
	lastReason := "全てのデータソースで結果が得られませんでした"
	for _, tier := range tiers {
		payload, err := runTier(ctx, tier, call.Arguments, timeout)
		if err != nil {
			pe := tools.Classify(err)
			lastKind = pe.Kind
			lastReason = pe.Error()
			slog.Warn("tool tier failed", "worker", w.name, "tool", call.Name, "tier", tier.Name, "kind", pe.Kind)
			continue
		}
		if tools.IsEmpty(payload) {
			lastKind = tools.ErrNotFound
			lastReason = "データソースが空の結果を返しました"
			slog.Debug("tool tier empty", "worker", w.name, "tool", call.Name, "tier", tier.Name)
			continue
		}
		content, err := json.Marshal(payload)
		if err != nil {
			lastKind = tools.ErrMalformed
			lastReason = err.Error()
			continue
		}
		cb.Content = string(content)
		return cb
	}
	cb.Content = failurePayload(toolFailure{
		Error:          lastReason,
		Tool:           call.Name,
		Kind:           lastKind,
		TiersAttempted: len(tiers),
	})
	cb.IsError = true
	return cb
}

func runTier(ctx context.Context, tier Fallback, arguments string, timeout time.Duration) (any, error) {
	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return tier.Invoke(tctx, arguments)
}

func failurePayload(f toolFailure) string {
	bs, _ := json.Marshal(f)
	return string(bs)
}
