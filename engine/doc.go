// Package engine provides engine runtime implementations behind the root
// collaborator interfaces.
//
// The only implementation shipped here is WasmEntryPoints, a wazero-backed
// reference engine for CPU-only environments and tests: the "serialized
// engine" blob is a WebAssembly module whose linear memory stands in for
// device memory. Loading compiles the module, context creation instantiates
// it, and Enqueue marshals the compact input record into guest memory, calls
// the guest's enqueue export, and copies the populated output descriptor
// records back into the host scratch buffer.
//
// # Guest ABI
//
// A reference engine module must export:
//
//	memory                                    linear memory ("device" memory)
//	alloc(size: i64) -> i64                   bump or arena allocator
//	enqueue(in: i64, words: i64, out: i64)    -> i64 status, 0 on success
//
// in points at the compact input record copied verbatim (little-endian
// words); out points at the packed output descriptor region with rank slots
// pre-filled, which the guest must populate before returning.
//
// Device pointers reported by a reference engine are guest memory offsets;
// they are meaningful only to the instance that produced them.
package engine
