// Package errors provides structured error types for the engine runtime.
//
// Every failure carries a Phase (where in the invocation pipeline it
// happened) and a Kind (what went wrong), so callers can match on the pair
// with errors.Is without parsing message strings:
//
//	if errors.Is(err, rterrors.Match(rterrors.PhaseDecode, rterrors.KindRankMismatch)) {
//	    // engine disagreed with the compiled rank
//	}
//
// The runtime performs no local recovery: engine-level failures are wrapped
// with phase/kind context and propagated unmodified, since the engine's state
// after a fault is not well defined for partial retry.
package errors
