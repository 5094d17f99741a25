// Package engineruntime implements the host-side calling convention for
// opaque, device-resident inference engines with dynamically shaped outputs.
//
// A compiled caller hands the runtime fixed-rank memory descriptors for its
// inputs, the engine executes asynchronously on a device stream, and the
// runtime recovers correctly shaped output descriptors after the fact: output
// extents and device pointers exist only once the enqueue has completed, so
// they are round-tripped through a per-invocation host scratch buffer rather
// than through the function signature.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	engineruntime/       Root package with the engine collaborator interfaces
//	├── runner/          Per-call-site invocation protocol (marshal, enqueue, decode)
//	├── registry/        Process-wide stream/runtime/context singletons and engine blobs
//	├── memref/          Fixed-layout memory descriptors (Tables) and stride policy
//	├── calldesc/        Compact input records and packed output descriptor buffers
//	├── engine/          Wazero-backed reference engine implementation
//	├── dtype/           Element types and widths
//	├── resource/        Device resource handle table
//	└── errors/          Structured error types for debugging
//
// # Quick Start
//
// Initialize the process-wide registry once, then invoke:
//
//	reg, err := registry.Initialize(ctx, registry.Options{
//	    EntryPoints: engine.NewWasmEntryPoints(ctx),
//	    EngineBlob:  blob,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	r := runner.New(reg, runner.Signature{
//	    Inputs:  []runner.ArgSpec{{Rank: 1, Type: dtype.F32}, {Rank: 1, Type: dtype.F32}},
//	    Outputs: []runner.ArgSpec{{Rank: 1, Type: dtype.F32}},
//	})
//
//	outs, err := r.Invoke(ctx, []memref.Table{in0, in1})
//	fmt.Println(outs[0].Sizes) // shape reported by the engine
//
// # Calling Convention
//
// Inputs travel as a compact word record, one group per input:
//
//	(device_ptr, offset, rank, size_0, ..., size_{rank-1})
//
// Outputs travel as packed descriptor records in a host scratch buffer, one
// fixed-size record per output:
//
//	(num_results, rank, device_ptr, shape_0, ..., shape_{rank-1})
//
// Record sizes are fixed per call site because ranks are static; only the
// extents and device pointers are discovered at run time. See package calldesc
// for the exact layout and package runner for the protocol.
//
// # Concurrency
//
// The three registry handles are immutable once initialization completes.
// Enqueues on a shared stream are serialized by the runner; the engine
// primitives are not assumed safe for concurrent enqueue. The scratch buffer
// is per-invocation and never shared across calls.
package engineruntime
