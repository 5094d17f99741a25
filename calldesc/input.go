package calldesc

import (
	"github.com/tensorgate/engine-runtime/memref"
)

// InputRecord accumulates the compact input record handed to the enqueue
// entry point: per input, the words (device_ptr, offset, rank,
// size_0..size_{rank-1}), in input order. Construction is pure appends;
// Release returns the backing slice to a pool.
type InputRecord struct {
	words  []uint64
	inputs int
}

// NewInputRecord returns an empty record backed by pooled storage.
func NewInputRecord() *InputRecord {
	return &InputRecord{words: getWords()}
}

// AppendTable appends one input's group, projecting the data pointer,
// offset, and sizes from the Table. The allocation pointer and strides are
// omitted on purpose: the engine derives its own internal layout.
func (r *InputRecord) AppendTable(t memref.Table) {
	r.words = append(r.words, uint64(t.Data()), uint64(t.Offset), uint64(t.Rank()))
	for _, s := range t.Sizes {
		r.words = append(r.words, uint64(s))
	}
	r.inputs++
}

// Words exposes the flattened record. Valid until Release.
func (r *InputRecord) Words() []uint64 {
	return r.words
}

// Len returns the total word count, sum(3 + rank_n) over the inputs.
func (r *InputRecord) Len() int {
	return len(r.words)
}

// NumInputs returns how many input groups have been appended.
func (r *InputRecord) NumInputs() int {
	return r.inputs
}

// Release returns the backing storage to the pool. The record is invalid
// afterwards.
func (r *InputRecord) Release() {
	putWords(r.words)
	r.words = nil
	r.inputs = 0
}

// InputRecordLen returns the word count of a record for inputs with the
// given ranks: sum(3 + r_n).
func InputRecordLen(ranks []int) int {
	n := 0
	for _, r := range ranks {
		n += 3 + r
	}
	return n
}
