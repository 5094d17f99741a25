// Package calldesc implements the wire records of the engine calling
// convention.
//
// The engine cannot return variable-length data through the fixed function
// signature, so shape metadata round-trips through two records whose layout
// is fixed per call site by the static ranks:
//
// # Compact Input Record
//
// One word group per input, flattened into a []uint64 in input order:
//
//	┌────────────┬────────┬──────┬────────┬─────┬──────────────┐
//	│ device_ptr │ offset │ rank │ size_0 │ ... │ size_{r-1}   │
//	└────────────┴────────┴──────┴────────┴─────┴──────────────┘
//
// device_ptr is the Table's data pointer; the group deliberately omits the
// allocation root and strides of the full Table, since the engine computes
// its own internal layout. Total record length is sum(3 + r_n) words.
//
// # Packed Output Descriptor Record
//
// One fixed-size record per output in a host scratch buffer, all slots 64-bit
// little-endian words:
//
//	┌─────────────┬──────┬────────────┬─────────┬─────┬──────────────┐
//	│ num_results │ rank │ device_ptr │ shape_0 │ ... │ shape_{r-1}  │
//	└─────────────┴──────┴────────────┴─────────┴─────┴──────────────┘
//
// Record size is (3 + rank) * 8 bytes; records are concatenated in output
// order. Before the enqueue only the rank slot is defined (it is pre-filled
// from the static rank); the engine populates the rest, and the fields become
// readable once the enqueue entry point returns.
//
// Field offsets are pure functions of (output_index, rank) computed once per
// call signature by Layout; decoding never does ad hoc pointer arithmetic.
//
// # Result selection
//
// An engine may report num_results > 1 when it produced more candidate
// results than the call site consumes. The decoder deterministically selects
// the first result, which is the one embedded in the record; the remainder
// are ignored. num_results == 0 is a decode error.
package calldesc
