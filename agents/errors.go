package agents

import (
	"errors"
	"fmt"
)

var (
	// ErrIterationBudget is returned by a worker whose oracle never produced a
	// final message within the iteration cap. The partial trace is still
	// usable for extraction.
	ErrIterationBudget = errors.New("agents: iteration budget exceeded")
	// ErrOracleMalformed is returned after the single re-prompt of a
	// malformed oracle step also failed.
	ErrOracleMalformed = errors.New("agents: oracle output malformed")
	// ErrUnknownWorker is returned when a domain hint names no registered
	// worker.
	ErrUnknownWorker = errors.New("agents: unknown worker")
)

// FatalError marks infrastructure failures that abort the turn outright: the
// current-time call failing or the oracle being unreachable. Everything else
// degrades through fallback tiers instead.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("fatal infrastructure failure: %v", e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// IsFatal reports whether err carries a FatalError.
func IsFatal(err error) bool {
	var fe *FatalError
	return errors.As(err, &fe)
}
