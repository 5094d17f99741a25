package engine

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	engineruntime "github.com/tensorgate/engine-runtime"
	"github.com/tensorgate/engine-runtime/errors"
	"github.com/tensorgate/engine-runtime/resource"
)

// Guest export names of the reference engine ABI.
const (
	exportAlloc   = "alloc"
	exportEnqueue = "enqueue"
)

// WasmEntryPoints implements the engine collaborator interfaces on top of a
// wazero runtime. Guest linear memory plays the role of device memory.
type WasmEntryPoints struct {
	runtime   wazero.Runtime
	resources *resource.Table
}

var _ engineruntime.EntryPoints = (*WasmEntryPoints)(nil)

// NewWasmEntryPoints creates the reference engine runtime.
func NewWasmEntryPoints(ctx context.Context) *WasmEntryPoints {
	return &WasmEntryPoints{
		runtime:   wazero.NewRuntime(ctx),
		resources: resource.NewTable(),
	}
}

// Resources exposes the live stream/context/buffer table for diagnostics.
func (e *WasmEntryPoints) Resources() *resource.Table {
	return e.resources
}

// Close tears down every live resource and the underlying wazero runtime.
func (e *WasmEntryPoints) Close(ctx context.Context) error {
	if err := e.resources.Close(); err != nil {
		return err
	}
	return e.runtime.Close(ctx)
}

// NewStream creates an execution stream. The reference engine executes guest
// code synchronously inside Enqueue, so stream ordering reduces to a mutex:
// enqueues on the same stream run one at a time, in submission order.
func (e *WasmEntryPoints) NewStream(ctx context.Context) (engineruntime.Stream, error) {
	s := &wasmStream{table: e.resources}
	s.handle = e.resources.Insert(resource.TypeStream, s)
	if s.handle == 0 {
		return nil, errors.Exhausted(errors.PhaseInit, "entry points closed")
	}
	debugf("created stream %d", s.handle)
	return s, nil
}

// NewRuntimeManager creates the engine loader.
func (e *WasmEntryPoints) NewRuntimeManager(ctx context.Context) (engineruntime.RuntimeManager, error) {
	return &wasmRuntimeManager{ep: e}, nil
}

type wasmStream struct {
	mu     sync.Mutex
	table  *resource.Table
	handle resource.Handle
}

func (s *wasmStream) Synchronize(ctx context.Context) error {
	// Work is synchronous; waiting for the stream lock drains in-flight
	// enqueues submitted by other callers.
	s.mu.Lock()
	defer s.mu.Unlock()
	return ctx.Err()
}

func (s *wasmStream) Close(ctx context.Context) error {
	s.table.Remove(s.handle)
	return nil
}

type wasmRuntimeManager struct {
	ep *WasmEntryPoints

	mu     sync.Mutex
	loaded []wazero.CompiledModule
}

// LoadEngine compiles the serialized engine blob. A malformed or
// incompatible blob fails here, before any context exists.
func (m *wasmRuntimeManager) LoadEngine(ctx context.Context, blob []byte) (engineruntime.Engine, error) {
	compiled, err := m.ep.runtime.CompileModule(ctx, blob)
	if err != nil {
		return nil, errors.InvalidBlob("compile serialized engine", err)
	}

	m.mu.Lock()
	m.loaded = append(m.loaded, compiled)
	m.mu.Unlock()

	debugf("loaded engine, %d bytes", len(blob))
	return &wasmEngine{ep: m.ep, compiled: compiled}, nil
}

func (m *wasmRuntimeManager) Close(ctx context.Context) error {
	m.mu.Lock()
	loaded := m.loaded
	m.loaded = nil
	m.mu.Unlock()

	for _, c := range loaded {
		if err := c.Close(ctx); err != nil {
			return err
		}
	}
	return nil
}

type wasmEngine struct {
	ep       *WasmEntryPoints
	compiled wazero.CompiledModule
}

// NewExecutionContext instantiates the engine module and resolves its ABI
// exports.
func (e *wasmEngine) NewExecutionContext(ctx context.Context) (engineruntime.ExecutionContext, error) {
	mod, err := e.ep.runtime.InstantiateModule(ctx, e.compiled,
		wazero.NewModuleConfig().WithName(""))
	if err != nil {
		return nil, errors.EngineFault(errors.PhaseInit, "instantiate engine", err)
	}

	c := &wasmContext{ep: e.ep, mod: mod}
	if c.mem = mod.Memory(); c.mem == nil {
		_ = mod.Close(ctx)
		return nil, errors.InvalidBlob("engine module exports no memory", nil)
	}
	for name, fn := range map[string]*api.Function{
		exportAlloc:   &c.alloc,
		exportEnqueue: &c.enqueue,
	} {
		if *fn = mod.ExportedFunction(name); *fn == nil {
			_ = mod.Close(ctx)
			return nil, errors.InvalidBlob(fmt.Sprintf("engine module missing %q export", name), nil)
		}
	}

	c.handle = e.ep.resources.Insert(resource.TypeContext, c)
	debugf("created execution context %d", c.handle)
	return c, nil
}

type wasmContext struct {
	ep      *WasmEntryPoints
	mod     api.Module
	mem     api.Memory
	alloc   api.Function
	enqueue api.Function
	handle  resource.Handle
	buffers []resource.Handle
}

// Enqueue implements the enqueue entry point: copy the compact input record
// into guest memory, run the guest's enqueue, and copy the populated output
// descriptor records back into the host scratch buffer. On return the output
// metadata is valid, matching the synchronization contract of the calling
// convention.
func (c *wasmContext) Enqueue(ctx context.Context, stream engineruntime.Stream, outputs []byte, inputs []uint64) error {
	ws, ok := stream.(*wasmStream)
	if !ok {
		return errors.InvalidInput(errors.PhaseEnqueue, "stream belongs to a different engine runtime")
	}

	ws.mu.Lock()
	defer ws.mu.Unlock()

	inPtr, err := c.guestAlloc(ctx, uint64(len(inputs))*8)
	if err != nil {
		return err
	}
	raw := make([]byte, len(inputs)*8)
	for i, w := range inputs {
		binary.LittleEndian.PutUint64(raw[i*8:], w)
	}
	if !c.mem.Write(inPtr, raw) {
		return errors.OutOfBounds(errors.PhaseEnqueue, int(inPtr), int(c.mem.Size()))
	}

	outPtr, err := c.guestAlloc(ctx, uint64(len(outputs)))
	if err != nil {
		return err
	}
	// Hand the guest the pre-filled rank slots.
	if !c.mem.Write(outPtr, outputs) {
		return errors.OutOfBounds(errors.PhaseEnqueue, int(outPtr), int(c.mem.Size()))
	}

	res, err := c.enqueue.Call(ctx, uint64(inPtr), uint64(len(inputs)), uint64(outPtr))
	if err != nil {
		return errors.EngineFault(errors.PhaseEnqueue, "engine enqueue trapped", err)
	}
	if len(res) == 0 {
		return errors.InvalidBlob("engine enqueue export returns no status", nil)
	}
	if status := res[0]; status != 0 {
		return errors.EngineFault(errors.PhaseEnqueue, fmt.Sprintf("engine enqueue failed with status %d", status), nil)
	}

	populated, ok := c.mem.Read(outPtr, uint32(len(outputs)))
	if !ok {
		return errors.OutOfBounds(errors.PhaseDecode, int(outPtr), int(c.mem.Size()))
	}
	copy(outputs, populated)
	return nil
}

func (c *wasmContext) Close(ctx context.Context) error {
	for _, h := range c.buffers {
		c.ep.resources.Remove(h)
	}
	c.buffers = nil
	c.ep.resources.Remove(c.handle)
	return c.mod.Close(ctx)
}

func (c *wasmContext) guestAlloc(ctx context.Context, size uint64) (uint32, error) {
	res, err := c.alloc.Call(ctx, size)
	if err != nil {
		return 0, errors.AllocationFailed(errors.PhaseEnqueue, size, err)
	}
	if len(res) == 0 {
		return 0, errors.InvalidBlob("engine alloc export returns no pointer", nil)
	}
	ptr := uint32(res[0])
	if ptr == 0 {
		return 0, errors.AllocationFailed(errors.PhaseEnqueue, size, nil)
	}
	if h := c.ep.resources.Insert(resource.TypeBuffer, guestAllocation{ptr: ptr, size: size}); h != 0 {
		c.buffers = append(c.buffers, h)
	}
	return ptr, nil
}

// guestAllocation records one live guest-side allocation for diagnostics.
// The reference engine never frees: allocations live until the context does.
type guestAllocation struct {
	size uint64
	ptr  uint32
}
