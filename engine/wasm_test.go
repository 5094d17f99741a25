package engine

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/tensorgate/engine-runtime/calldesc"
	rterrors "github.com/tensorgate/engine-runtime/errors"
	"github.com/tensorgate/engine-runtime/resource"
)

// Minimal valid wasm binary: magic + version, no sections.
var emptyModule = []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

// echoModule is a hand-assembled engine implementing the full guest ABI:
// alloc bumps a global heap pointer starting at 4096, and enqueue reports one
// result for a single rank-1 output, echoing the input record's device
// pointer and first extent into the output descriptor.
//
//	(func $alloc (param i64) (result i64)
//	  global.get 0
//	  global.get 0 local.get 0 i64.add global.set 0)
//	(func $enqueue (param $in i64) (param $words i64) (param $out i64) (result i64)
//	  out[0]  = 1          ;; num_results
//	  out[16] = in[0]      ;; device_ptr <- input device_ptr
//	  out[24] = in[24]     ;; shape_0    <- input size_0
//	  i64.const 0)
var echoModule = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	// type: (i64)->(i64), (i64,i64,i64)->(i64)
	0x01, 0x0d, 0x02,
	0x60, 0x01, 0x7e, 0x01, 0x7e,
	0x60, 0x03, 0x7e, 0x7e, 0x7e, 0x01, 0x7e,
	// function: alloc=type0, enqueue=type1
	0x03, 0x03, 0x02, 0x00, 0x01,
	// memory: 1 page
	0x05, 0x03, 0x01, 0x00, 0x01,
	// global: mutable i64 heap pointer, init 4096
	0x06, 0x07, 0x01, 0x7e, 0x01, 0x42, 0x80, 0x20, 0x0b,
	// exports: memory, alloc, enqueue
	0x07, 0x1c, 0x03,
	0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00,
	0x05, 'a', 'l', 'l', 'o', 'c', 0x00, 0x00,
	0x07, 'e', 'n', 'q', 'u', 'e', 'u', 'e', 0x00, 0x01,
	// code
	0x0a, 0x32, 0x02,
	// alloc body
	0x0b, 0x00,
	0x23, 0x00, // global.get 0 (returned pointer)
	0x23, 0x00, 0x20, 0x00, 0x7c, // global.get 0; local.get 0; i64.add
	0x24, 0x00, // global.set 0
	0x0b,
	// enqueue body
	0x24, 0x00,
	0x20, 0x02, 0xa7, 0x42, 0x01, 0x37, 0x03, 0x00, // out[0] = 1
	0x20, 0x02, 0xa7, 0x20, 0x00, 0xa7, 0x29, 0x03, 0x00, 0x37, 0x03, 0x10, // out[16] = in[0]
	0x20, 0x02, 0xa7, 0x20, 0x00, 0xa7, 0x29, 0x03, 0x18, 0x37, 0x03, 0x18, // out[24] = in[24]
	0x42, 0x00, // status 0
	0x0b,
}

func TestLoadEngineRejectsMalformedBlob(t *testing.T) {
	ctx := context.Background()
	ep := NewWasmEntryPoints(ctx)
	defer ep.Close(ctx)

	mgr, err := ep.NewRuntimeManager(ctx)
	if err != nil {
		t.Fatal(err)
	}

	_, err = mgr.LoadEngine(ctx, []byte("definitely not an engine"))
	if err == nil {
		t.Fatal("malformed blob loaded successfully")
	}
	if !stderrors.Is(err, rterrors.Match(rterrors.PhaseLoad, rterrors.KindInvalidBlob)) {
		t.Errorf("got %v, want (load, invalid_blob)", err)
	}
}

func TestContextCreationRequiresABIExports(t *testing.T) {
	ctx := context.Background()
	ep := NewWasmEntryPoints(ctx)
	defer ep.Close(ctx)

	mgr, err := ep.NewRuntimeManager(ctx)
	if err != nil {
		t.Fatal(err)
	}

	// Structurally valid wasm, but no memory/alloc/enqueue exports.
	eng, err := mgr.LoadEngine(ctx, emptyModule)
	if err != nil {
		t.Fatalf("empty module should compile: %v", err)
	}

	if _, err := eng.NewExecutionContext(ctx); err == nil {
		t.Fatal("context created from module without the engine ABI")
	}
}

// Full marshalling path through a real guest: the input record is copied
// into guest memory, the guest's enqueue populates the output descriptor
// region, and the populated record is copied back and decodable.
func TestEnqueueRoundTripsThroughGuest(t *testing.T) {
	ctx := context.Background()
	ep := NewWasmEntryPoints(ctx)
	defer ep.Close(ctx)

	mgr, err := ep.NewRuntimeManager(ctx)
	if err != nil {
		t.Fatal(err)
	}
	eng, err := mgr.LoadEngine(ctx, echoModule)
	if err != nil {
		t.Fatalf("load fixture engine: %v", err)
	}
	ec, err := eng.NewExecutionContext(ctx)
	if err != nil {
		t.Fatalf("create execution context: %v", err)
	}

	s, err := ep.NewStream(ctx)
	if err != nil {
		t.Fatal(err)
	}

	buf := calldesc.NewLayout([]int{1}).NewBuffer()
	defer buf.Release()

	// One rank-1 input at 0x100 with extent 7.
	inputs := []uint64{0x100, 0, 1, 7}
	if err := ec.Enqueue(ctx, s, buf.Bytes(), inputs); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	desc, err := buf.Record(0)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if desc.NumResults != 1 {
		t.Errorf("num_results: got %d, want 1", desc.NumResults)
	}
	if desc.Data != 0x100 {
		t.Errorf("device ptr: got %#x, want the echoed input pointer 0x100", uint64(desc.Data))
	}
	if desc.Rank != 1 || desc.Shape[0] != 7 {
		t.Errorf("shape: got rank %d shape %v, want [7]", desc.Rank, desc.Shape)
	}

	// Guest allocations are tracked per context and dropped with it.
	if n := ep.Resources().CountByType(resource.TypeBuffer); n != 2 {
		t.Errorf("live guest buffers: got %d, want 2", n)
	}
	if err := ec.Close(ctx); err != nil {
		t.Fatal(err)
	}
	if n := ep.Resources().CountByType(resource.TypeBuffer); n != 0 {
		t.Errorf("guest buffers after context close: got %d, want 0", n)
	}
}

func TestStreamLifecycleTracked(t *testing.T) {
	ctx := context.Background()
	ep := NewWasmEntryPoints(ctx)
	defer ep.Close(ctx)

	s, err := ep.NewStream(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n := ep.Resources().CountByType(resource.TypeStream); n != 1 {
		t.Errorf("live streams: got %d, want 1", n)
	}

	if err := s.Synchronize(ctx); err != nil {
		t.Errorf("synchronize on idle stream: %v", err)
	}

	if err := s.Close(ctx); err != nil {
		t.Fatal(err)
	}
	if n := ep.Resources().CountByType(resource.TypeStream); n != 0 {
		t.Errorf("live streams after close: got %d, want 0", n)
	}
}
