package engine

import (
	"errors"
	"fmt"
)

// ErrDuplicateID is returned by New when two nodes, or two applications,
// share an id.
var ErrDuplicateID = errors.New("engine: duplicate id")

// ErrOutOfRange reports a negative alpha, beta, epsilon, submission time, or
// task count passed to New.
var ErrOutOfRange = errors.New("engine: value out of range")

// ErrUnknownApplication is returned when a submission schedule entry
// references an application id that was never declared.
var ErrUnknownApplication = errors.New("engine: unknown application id")

// ErrTooManyEvents is a defensive loop guard: Run aborts rather than spin
// forever if the event budget is exhausted. It should never trigger in a
// correct implementation, since every event handler either terminates the
// run or consumes bounded future work.
var ErrTooManyEvents = errors.New("engine: exceeded maximum event budget")

// InvariantError reports a violation of one of the engine's universal
// invariants (resource accounting gone negative, a task missing where it
// must be present, capacity exceeded). It always indicates a bug in the
// engine itself, never a normal runtime condition, and aborts Run.
type InvariantError struct {
	Msg string
	Err error
}

func (e *InvariantError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("engine: invariant violation: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("engine: invariant violation: %s", e.Msg)
}

func (e *InvariantError) Unwrap() error { return e.Err }

func invariantf(err error, format string, args ...any) *InvariantError {
	return &InvariantError{Msg: fmt.Sprintf(format, args...), Err: err}
}

// wrapErr attaches context to one of the sentinel errors above while
// keeping it matchable with errors.Is.
func wrapErr(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), sentinel)
}

func fmtOutOfRange(format string, args ...any) error {
	return wrapErr(ErrOutOfRange, format, args...)
}
