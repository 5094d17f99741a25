package engineruntime

import "context"

// Stream is an ordered device execution queue. Work items enqueued on the
// same stream execute in submission order relative to each other.
type Stream interface {
	// Synchronize blocks until all work previously submitted to the stream
	// has completed. Consumers must synchronize before reading output data
	// (not metadata) through a device pointer.
	Synchronize(ctx context.Context) error
	Close(ctx context.Context) error
}

// RuntimeManager loads serialized engines and owns their backing resources.
type RuntimeManager interface {
	// LoadEngine deserializes an engine blob. The blob format is owned by
	// the engine implementation and is treated as opaque here.
	LoadEngine(ctx context.Context, blob []byte) (Engine, error)
	Close(ctx context.Context) error
}

// Engine is a loaded, pre-compiled inference computation.
type Engine interface {
	NewExecutionContext(ctx context.Context) (ExecutionContext, error)
}

// ExecutionContext is a ready-to-enqueue binding between a loaded engine and
// device resources.
type ExecutionContext interface {
	// Enqueue submits one invocation on stream.
	//
	// inputs is the compact input record: per input, the words
	// (device_ptr, offset, rank, size_0..size_{rank-1}). outputs is the
	// host scratch buffer of packed output descriptor records with the
	// rank slots pre-filled; the engine populates the remaining fields.
	//
	// The call may block. When it returns without error, the output
	// descriptor metadata (device pointers and shapes) is valid and
	// readable by the host. Output data readiness is governed by the
	// stream, not by this call.
	Enqueue(ctx context.Context, stream Stream, outputs []byte, inputs []uint64) error
	Close(ctx context.Context) error
}

// EntryPoints is the creation surface of an engine runtime implementation.
type EntryPoints interface {
	NewStream(ctx context.Context) (Stream, error)
	NewRuntimeManager(ctx context.Context) (RuntimeManager, error)
}
