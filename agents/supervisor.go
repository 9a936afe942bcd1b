package agents

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/omakase-ai/concierge/components"
	"github.com/omakase-ai/concierge/oracle"
	"github.com/omakase-ai/concierge/schema"
	"github.com/omakase-ai/concierge/tools/clock"
)

// TimeSource supplies the shared current-time call made before dispatch.
// Failure here is fatal to the turn.
type TimeSource interface {
	Now(ctx context.Context, input *clock.NowInput) (*clock.NowOutput, error)
}

// TrackReparser coerces free-form answer text into structured track records.
type TrackReparser func(ctx context.Context, text string) ([]Record, error)

// Supervisor owns the single routing decision of a turn: classify the
// request into one domain, dispatch to that worker's tool-call loop, and
// extract the answer from the returned trace. It never retries a failed
// worker run.
type Supervisor struct {
	oracle        oracle.Oracle
	timeSource    TimeSource
	workers       map[string]*Worker
	order         []string
	defaultWorker string
	trackReparser TrackReparser
}

type SupervisorOption func(*Supervisor)

// WithDefaultWorker names the worker used when classification yields nothing
// usable.
func WithDefaultWorker(name string) SupervisorOption {
	return func(s *Supervisor) {
		s.defaultWorker = name
	}
}

// WithTrackReparser enables the structured re-parse of music answers whose
// extraction found no records.
func WithTrackReparser(fn TrackReparser) SupervisorOption {
	return func(s *Supervisor) {
		s.trackReparser = fn
	}
}

// NewSupervisor builds a supervisor over its worker roster. Worker order is
// preserved in the routing schemas shown to the oracle.
func NewSupervisor(orc oracle.Oracle, ts TimeSource, workers []*Worker, opts ...SupervisorOption) *Supervisor {
	ret := &Supervisor{
		oracle:     orc,
		timeSource: ts,
		workers:    make(map[string]*Worker, len(workers)),
		order:      make([]string, 0, len(workers)),
	}
	for _, w := range workers {
		ret.workers[w.Name()] = w
		ret.order = append(ret.order, w.Name())
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.defaultWorker == "" {
		if _, ok := ret.workers["research"]; ok {
			ret.defaultWorker = "research"
		} else if len(ret.order) > 0 {
			ret.defaultWorker = ret.order[0]
		}
	}
	return ret
}

// Workers lists the roster in registration order.
func (s *Supervisor) Workers() []string {
	return append([]string(nil), s.order...)
}

// RunTurn executes one full turn. The answer is non-nil even on error so the
// caller always has something to show.
func (s *Supervisor) RunTurn(ctx context.Context, req *components.Request, domainHint string) (*Answer, error) {
	now, err := s.timeSource.Now(ctx, &clock.NowInput{})
	if err != nil {
		fatal := &FatalError{Err: err}
		return &Answer{
			Text:    fmt.Sprintf("申し訳ありません。システムエラーが発生しました。(%v)", err),
			Results: []Record{},
		}, fatal
	}

	worker, routedText, err := s.selectWorker(ctx, req, domainHint)
	if err != nil {
		if IsFatal(err) {
			return &Answer{
				Text:    fmt.Sprintf("申し訳ありません。システムエラーが発生しました。(%v)", err),
				Results: []Record{},
			}, err
		}
		return &Answer{Text: "", Results: []Record{}}, err
	}
	if worker == nil {
		// The oracle answered directly instead of transferring.
		return &Answer{Text: routedText, Results: []Record{}}, nil
	}
	slog.Info("turn routed", "request", req.ID, "worker", worker.Name())

	enriched := fmt.Sprintf("現在時刻: %s（%s）\n\n%s", now.CurrentTime, now.Weekday, req.Text)
	trace, runErr := worker.Run(ctx, enriched)
	if runErr != nil && IsFatal(runErr) {
		return &Answer{
			Text:    fmt.Sprintf("申し訳ありません。システムエラーが発生しました。(%v)", runErr),
			Results: []Record{},
		}, runErr
	}

	answer := Extract(trace)
	s.postProcess(ctx, worker.Name(), answer)
	if runErr != nil {
		slog.Warn("turn degraded", "request", req.ID, "worker", worker.Name(), "error", runErr)
	}
	return answer, runErr
}

const routingPrompt = `あなたは受付係です。ユーザーの依頼を読み、最も適切な担当者に転送してください。
転送は transfer_to_<担当者> ツールを1回だけ呼び出して行います。
どの担当者にも当てはまらない簡単な質問には、転送せずに直接回答して構いません。`

// selectWorker resolves the target worker. A known domain hint bypasses
// classification entirely. When the oracle produces final text instead of a
// transfer, the worker is nil and the text is the answer.
func (s *Supervisor) selectWorker(ctx context.Context, req *components.Request, domainHint string) (*Worker, string, error) {
	if domainHint != "" {
		w, ok := s.workers[domainHint]
		if !ok {
			return nil, "", fmt.Errorf("%w: %q", ErrUnknownWorker, domainHint)
		}
		return w, "", nil
	}

	trace := components.NewTrace()
	trace.NewMessage(components.SystemRole, schema.NewString(routingPrompt))
	trace.NewMessage(components.UserRole, schema.NewString(req.Text))
	schemas := make([]oracle.ToolSchema, 0, len(s.order))
	for _, name := range s.order {
		schemas = append(schemas, oracle.ToolSchema{
			Name:        "transfer_to_" + name,
			Description: fmt.Sprintf("ユーザーの依頼を%s担当に転送する", name),
			Parameters: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		})
	}

	var step *oracle.Step
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		step, err = s.oracle.NextStep(ctx, trace, schemas, nil)
		if err == nil || !errors.Is(err, oracle.ErrMalformed) {
			break
		}
		slog.Warn("malformed routing step, re-prompting once", "request", req.ID)
	}
	if err != nil {
		if errors.Is(err, oracle.ErrMalformed) {
			slog.Warn("routing failed, using default worker", "request", req.ID, "worker", s.defaultWorker)
			if w, ok := s.workers[s.defaultWorker]; ok {
				return w, "", nil
			}
			return nil, "", fmt.Errorf("%w: %v", ErrOracleMalformed, err)
		}
		return nil, "", &FatalError{Err: err}
	}
	if step.IsFinal() {
		return nil, step.FinalText, nil
	}
	for _, call := range step.ToolCalls {
		name := strings.TrimPrefix(call.Name, "transfer_to_")
		if w, ok := s.workers[name]; ok {
			return w, "", nil
		}
	}
	if w, ok := s.workers[s.defaultWorker]; ok {
		return w, "", nil
	}
	return nil, "", fmt.Errorf("%w: %q", ErrUnknownWorker, step.ToolCalls[0].Name)
}

// postProcess applies the domain-specific reshaping steps: restaurant
// results from two providers are merged, empty music results go through the
// structured re-parse when one is configured.
func (s *Supervisor) postProcess(ctx context.Context, workerName string, answer *Answer) {
	switch workerName {
	case "restaurant":
		primary, secondary := splitRestaurantRecords(answer.Results)
		if len(primary) > 0 && len(secondary) > 0 {
			answer.Results = MergeRestaurants(primary, secondary)
		}
	case "music":
		if len(answer.Results) > 0 || s.trackReparser == nil {
			return
		}
		records, err := s.trackReparser(ctx, answer.Text)
		if err != nil {
			slog.Warn("track re-parse failed", "error", err)
			return
		}
		if len(records) > 0 {
			answer.Results = records
		}
	}
}

// splitRestaurantRecords partitions extracted records into primary-provider
// records (cuisine-tagged) and place-search records.
func splitRestaurantRecords(records []Record) (primary, secondary []Record) {
	for _, r := range records {
		switch {
		case hasKey(r, "cuisine"):
			primary = append(primary, r)
		case hasKey(r, "maps_url") || hasKey(r, "price_level"):
			secondary = append(secondary, r)
		default:
			primary = append(primary, r)
		}
	}
	return primary, secondary
}
