package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in an invocation the error occurred
type Phase string

const (
	PhaseInit    Phase = "init"    // global resource initialization
	PhaseLoad    Phase = "load"    // engine deserialization
	PhaseMarshal Phase = "marshal" // building the compact input record
	PhaseEnqueue Phase = "enqueue" // engine execution
	PhaseDecode  Phase = "decode"  // reading the output descriptor buffer
	PhaseRuntime Phase = "runtime" // other runtime operations
)

// Kind categorizes the error
type Kind string

const (
	KindNotInitialized     Kind = "not_initialized"
	KindAlreadyInitialized Kind = "already_initialized"
	KindInvalidBlob        Kind = "invalid_blob"
	KindEngineFault        Kind = "engine_fault"
	KindRankMismatch       Kind = "rank_mismatch"
	KindNoResult           Kind = "no_result"
	KindOutOfBounds        Kind = "out_of_bounds"
	KindInvalidInput       Kind = "invalid_input"
	KindAllocation         Kind = "allocation"
	KindExhausted          Kind = "exhausted"
	KindUnsupported        Kind = "unsupported"
)

// Error is the structured error type used throughout the runtime
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
	// Arg is the input or output index the error refers to, or -1.
	Arg int
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Arg >= 0 {
		fmt.Fprintf(&b, " at arg %d", e.Arg)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error on (Phase, Kind)
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Match returns a template error for use with errors.Is.
func Match(phase Phase, kind Kind) *Error {
	return &Error{Phase: phase, Kind: kind, Arg: -1}
}

// Convenience constructors for common error patterns

// NotInitialized reports use of the runtime before the global registry is ready
func NotInitialized(component string) *Error {
	return &Error{
		Phase:  PhaseRuntime,
		Kind:   KindNotInitialized,
		Detail: fmt.Sprintf("%s not initialized", component),
		Arg:    -1,
	}
}

// AlreadyInitialized reports a second call to the one-shot initializer
func AlreadyInitialized() *Error {
	return &Error{
		Phase:  PhaseInit,
		Kind:   KindAlreadyInitialized,
		Detail: "global registry already initialized",
		Arg:    -1,
	}
}

// InitFailed wraps a failed initialization step
func InitFailed(step string, cause error) *Error {
	return &Error{
		Phase:  PhaseInit,
		Kind:   KindEngineFault,
		Detail: step,
		Cause:  cause,
		Arg:    -1,
	}
}

// InvalidBlob reports a malformed or incompatible serialized engine
func InvalidBlob(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidBlob,
		Detail: detail,
		Cause:  cause,
		Arg:    -1,
	}
}

// EngineFault wraps a failure surfaced by an engine entry point
func EngineFault(phase Phase, detail string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindEngineFault,
		Detail: detail,
		Cause:  cause,
		Arg:    -1,
	}
}

// RankMismatch reports a disagreement between a static rank and an observed one
func RankMismatch(phase Phase, arg, want, got int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindRankMismatch,
		Detail: fmt.Sprintf("rank %d, expected %d", got, want),
		Arg:    arg,
	}
}

// NoResult reports an output record whose result count is zero
func NoResult(arg int) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindNoResult,
		Detail: "engine reported zero results",
		Arg:    arg,
	}
}

// OutOfBounds reports an access past the end of a descriptor buffer
func OutOfBounds(phase Phase, offset, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("offset %d out of bounds (length %d)", offset, length),
		Arg:    -1,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string, args ...any) *Error {
	if len(args) > 0 {
		detail = fmt.Sprintf(detail, args...)
	}
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
		Arg:    -1,
	}
}

// InvalidArg creates an invalid input error tied to an argument index
func InvalidArg(phase Phase, arg int, detail string, args ...any) *Error {
	if len(args) > 0 {
		detail = fmt.Sprintf(detail, args...)
	}
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
		Arg:    arg,
	}
}

// AllocationFailed reports a host or device allocation failure
func AllocationFailed(phase Phase, size uint64, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate %d bytes", size),
		Cause:  cause,
		Arg:    -1,
	}
}

// Exhausted reports device resource exhaustion
func Exhausted(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindExhausted,
		Detail: what,
		Arg:    -1,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
		Arg:    -1,
	}
}

// Wrap wraps an existing error with phase and kind context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
		Arg:    -1,
	}
}
