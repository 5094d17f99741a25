package registry

import (
	"context"
	"sync"
	"sync/atomic"

	engineruntime "github.com/tensorgate/engine-runtime"
	"github.com/tensorgate/engine-runtime/errors"
)

// Options configures initialization.
type Options struct {
	// EntryPoints is the engine runtime implementation to initialize
	// against. Required.
	EntryPoints engineruntime.EntryPoints

	// EngineBlob is the serialized engine to load. If nil, EngineName
	// selects a blob registered with RegisterBlob.
	EngineBlob []byte
	EngineName string

	// Streams is the execution stream pool size. Zero means one: a single
	// shared stream, the default deployment policy.
	Streams int
}

// Registry holds the initialized process-wide handles. All fields are set
// once during Initialize and read-only afterwards.
type Registry struct {
	streams []engineruntime.Stream
	next    atomic.Uint64
	manager engineruntime.RuntimeManager
	engine  engineruntime.Engine
	context engineruntime.ExecutionContext
}

var (
	globalMu sync.Mutex
	global   *Registry
	ready    atomic.Bool
)

// Initialize creates the stream pool, runtime manager, loaded engine, and
// execution context, and publishes them as the process-wide registry.
//
// Any step failing is fatal for the process's invocation capability: there is
// no partial-initialization recovery, the registry stays not-ready, and the
// error describes the failed step. Calling Initialize after a successful
// initialization returns already_initialized without touching the handles.
func Initialize(ctx context.Context, opts Options) (*Registry, error) {
	globalMu.Lock()
	defer globalMu.Unlock()

	if ready.Load() {
		return nil, errors.AlreadyInitialized()
	}

	r, err := New(ctx, opts)
	if err != nil {
		return nil, err
	}

	global = r
	ready.Store(true)
	return r, nil
}

// New builds a registry without publishing it as the process-wide one.
// Compiled callers go through Initialize; New serves tools and tests that
// manage engine lifetimes themselves.
func New(ctx context.Context, opts Options) (*Registry, error) {
	if opts.EntryPoints == nil {
		return nil, errors.InvalidInput(errors.PhaseInit, "entry points are required")
	}

	n := opts.Streams
	if n < 1 {
		n = 1
	}

	r := &Registry{}
	for i := 0; i < n; i++ {
		s, err := opts.EntryPoints.NewStream(ctx)
		if err != nil {
			return nil, errors.InitFailed("create stream", err)
		}
		r.streams = append(r.streams, s)
	}

	mgr, err := opts.EntryPoints.NewRuntimeManager(ctx)
	if err != nil {
		return nil, errors.InitFailed("create runtime manager", err)
	}
	r.manager = mgr

	blob := opts.EngineBlob
	if blob == nil {
		blob, err = Blob(opts.EngineName)
		if err != nil {
			return nil, err
		}
	}

	eng, err := mgr.LoadEngine(ctx, blob)
	if err != nil {
		// Load failures carry their own phase and kind.
		return nil, err
	}
	r.engine = eng

	ec, err := eng.NewExecutionContext(ctx)
	if err != nil {
		return nil, errors.InitFailed("create execution context", err)
	}
	r.context = ec

	return r, nil
}

// Ready reports whether Initialize has completed successfully.
func Ready() bool {
	return ready.Load()
}

// Global returns the process-wide registry, or not_initialized before a
// successful Initialize.
func Global() (*Registry, error) {
	if !ready.Load() {
		return nil, errors.NotInitialized("global registry")
	}
	globalMu.Lock()
	defer globalMu.Unlock()
	return global, nil
}

// AcquireStream hands out a stream from the pool round-robin. With the
// default pool size of one this is the single shared stream, and enqueue
// ordering across invocations follows that stream's submission order.
func (r *Registry) AcquireStream() engineruntime.Stream {
	i := r.next.Add(1) - 1
	return r.streams[i%uint64(len(r.streams))]
}

// Streams returns the pool size.
func (r *Registry) Streams() int {
	return len(r.streams)
}

// Manager returns the runtime manager handle.
func (r *Registry) Manager() engineruntime.RuntimeManager {
	return r.manager
}

// Engine returns the loaded engine handle.
func (r *Registry) Engine() engineruntime.Engine {
	return r.engine
}

// ExecutionContext returns the ready-to-enqueue context handle.
func (r *Registry) ExecutionContext() engineruntime.ExecutionContext {
	return r.context
}
