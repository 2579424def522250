// Package errors provides the typed error kinds the rewrite engine raises.
package errors

import (
	"fmt"
)

// Kind classifies an error the core recognizes, per the error handling design.
type Kind string

const (
	// InvalidAIG covers header mismatch, non-topological fanin, a PO with
	// != 1 fanins, or a combinational loop discovered by the DFS duplicator.
	// Fatal; aborts the rewrite.
	InvalidAIG Kind = "InvalidAIG"

	// SimulationMismatch is raised when, after re-simulating the TFO of an
	// Expand/Reduce mutation, a PO's cur differs from its golden. Signals a
	// bug in a transformation that was supposed to be care-preserving by
	// construction. Fatal.
	SimulationMismatch Kind = "SimulationMismatch"

	// CapacityExceeded classifies Expand/Share growing objects past
	// nObjsAlloc. Non-fatal. The object slices grow on demand, so no stage
	// returns this kind.
	CapacityExceeded Kind = "CapacityExceeded"

	// Timeout classifies reaching the iteration limit or wall-clock budget.
	// Not an error; the engine reports an expired budget through
	// Stats.TimedOut and returns the current best instead of this kind.
	Timeout Kind = "Timeout"
)

// RewriteError is the error value every core transformation and the
// engine raise. It carries enough context (object id, iteration) to
// diagnose without re-running.
type RewriteError struct {
	Kind      Kind
	Message   string
	ObjID     int // -1 if not applicable
	Iteration int // -1 if not applicable
}

func (e *RewriteError) Error() string {
	switch {
	case e.ObjID >= 0 && e.Iteration >= 0:
		return fmt.Sprintf("%s: %s (obj %d, iteration %d)", e.Kind, e.Message, e.ObjID, e.Iteration)
	case e.ObjID >= 0:
		return fmt.Sprintf("%s: %s (obj %d)", e.Kind, e.Message, e.ObjID)
	case e.Iteration >= 0:
		return fmt.Sprintf("%s: %s (iteration %d)", e.Kind, e.Message, e.Iteration)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
}

// Is lets errors.Is(err, ErrTimeout) etc. work by comparing Kind alone.
func (e *RewriteError) Is(target error) bool {
	t, ok := target.(*RewriteError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinel values for errors.Is comparisons, e.g. errors.Is(err, ErrTimeout).
var (
	ErrInvalidAIG         = &RewriteError{Kind: InvalidAIG, ObjID: -1, Iteration: -1}
	ErrSimulationMismatch = &RewriteError{Kind: SimulationMismatch, ObjID: -1, Iteration: -1}
	ErrCapacityExceeded   = &RewriteError{Kind: CapacityExceeded, ObjID: -1, Iteration: -1}
	ErrTimeout            = &RewriteError{Kind: Timeout, ObjID: -1, Iteration: -1}
)

// Invalidf builds an InvalidAIG error with a formatted message.
func Invalidf(format string, args ...interface{}) *RewriteError {
	return &RewriteError{Kind: InvalidAIG, Message: fmt.Sprintf(format, args...), ObjID: -1, Iteration: -1}
}

// Mismatch builds a SimulationMismatch error for a specific PO object.
func Mismatch(poObjID int, iteration int, format string, args ...interface{}) *RewriteError {
	return &RewriteError{
		Kind:      SimulationMismatch,
		Message:   fmt.Sprintf(format, args...),
		ObjID:     poObjID,
		Iteration: iteration,
	}
}

// Capacity builds a CapacityExceeded error.
func Capacity(iteration int, format string, args ...interface{}) *RewriteError {
	return &RewriteError{
		Kind:      CapacityExceeded,
		Message:   fmt.Sprintf(format, args...),
		ObjID:     -1,
		Iteration: iteration,
	}
}

// IsFatal reports whether a Kind aborts the rewrite outright, as opposed
// to being recoverable at the engine's iteration granularity.
func (k Kind) IsFatal() bool {
	return k == InvalidAIG || k == SimulationMismatch
}
