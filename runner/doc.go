// Package runner implements the per-call-site invocation protocol.
//
// A Runner is bound to one call signature: input and output counts, ranks,
// and element types, all fixed at compile time. Invoke performs the full
// sequence for one call:
//
//  1. project device pointers from the input Tables and build the compact
//     input record,
//  2. take a pooled output descriptor buffer with rank slots pre-filled,
//  3. enqueue on a stream from the registry pool, serialized by the runner's
//     mutex (the engine primitives are not assumed safe for concurrent
//     enqueue),
//  4. decode each populated output record into an output Table with
//     row-major strides.
//
// Invoke either returns fully formed output Tables or an error; there is no
// partial-output contract, and enqueue failures are never retried. When the
// enqueue returns, output shape metadata is valid, but output data readiness
// still follows the stream: callers reading output bytes on the host must
// synchronize the stream first.
package runner
