package calldesc

import (
	"encoding/binary"

	"github.com/tensorgate/engine-runtime/errors"
	"github.com/tensorgate/engine-runtime/memref"
)

// OutputBuffer is the per-invocation host scratch region the engine writes
// packed output descriptor records into. It is never shared across
// invocations; Release returns its storage to a pool.
type OutputBuffer struct {
	layout Layout
	buf    []byte
}

// NewBuffer allocates (or reuses) a scratch buffer for the layout, with every
// rank slot pre-filled from the static ranks. All other slots are zeroed and
// undefined until an enqueue completes.
func (l Layout) NewBuffer() *OutputBuffer {
	b := &OutputBuffer{layout: l, buf: getScratch(l.size)}
	b.Reset()
	return b
}

// Reset zeroes the buffer and re-stamps the static rank slots. Call between
// reuses; NewBuffer calls it for you.
func (b *OutputBuffer) Reset() {
	clear(b.buf)
	for i := 0; i < b.layout.NumOutputs(); i++ {
		b.putWord(b.layout.RankOffset(i), uint64(b.layout.Rank(i)))
	}
}

// Release returns the storage to the pool. The buffer is invalid afterwards.
func (b *OutputBuffer) Release() {
	putScratch(b.buf)
	b.buf = nil
}

// Layout returns the layout the buffer was sized for.
func (b *OutputBuffer) Layout() Layout {
	return b.layout
}

// Bytes exposes the raw scratch region handed to the enqueue entry point.
func (b *OutputBuffer) Bytes() []byte {
	return b.buf
}

// OutputDesc is the decoded form of one packed output descriptor record.
type OutputDesc struct {
	NumResults uint64
	Rank       int
	Data       memref.DevicePtr
	Shape      []int64
}

// Table reconstructs the output memory descriptor for the selected result.
func (d OutputDesc) Table() memref.Table {
	return memref.FromResult(d.Data, d.Shape)
}

// Record decodes output i after a successful enqueue.
//
// The rank reported by the engine must equal the static rank; disagreement is
// a contract violation, not something to truncate or pad around. NumResults
// must be at least 1; the first result (the one embedded in the record) is
// selected and any extra candidates the engine reports are ignored.
func (b *OutputBuffer) Record(i int) (OutputDesc, error) {
	staticRank := b.layout.Rank(i)

	numResults := b.word(b.layout.NumResultsOffset(i))
	if numResults == 0 {
		return OutputDesc{}, errors.NoResult(i)
	}

	gotRank := b.word(b.layout.RankOffset(i))
	if int(gotRank) != staticRank {
		return OutputDesc{}, errors.RankMismatch(errors.PhaseDecode, i, staticRank, int(gotRank))
	}

	desc := OutputDesc{
		NumResults: numResults,
		Rank:       staticRank,
		Data:       memref.DevicePtr(b.word(b.layout.DevicePtrOffset(i))),
		Shape:      make([]int64, staticRank),
	}
	for dim := 0; dim < staticRank; dim++ {
		desc.Shape[dim] = int64(b.word(b.layout.ShapeOffset(i, dim)))
	}
	return desc, nil
}

// SetResult encodes a populated record for output i. This is the producer
// side of the convention, used by engine implementations and test fixtures.
func (b *OutputBuffer) SetResult(i int, numResults uint64, ptr memref.DevicePtr, shape []int64) error {
	if len(shape) != b.layout.Rank(i) {
		return errors.RankMismatch(errors.PhaseDecode, i, b.layout.Rank(i), len(shape))
	}
	b.putWord(b.layout.NumResultsOffset(i), numResults)
	b.putWord(b.layout.RankOffset(i), uint64(len(shape)))
	b.putWord(b.layout.DevicePtrOffset(i), uint64(ptr))
	for dim, s := range shape {
		b.putWord(b.layout.ShapeOffset(i, dim), uint64(s))
	}
	return nil
}

func (b *OutputBuffer) word(off int) uint64 {
	return binary.LittleEndian.Uint64(b.buf[off:])
}

func (b *OutputBuffer) putWord(off int, v uint64) {
	binary.LittleEndian.PutUint64(b.buf[off:], v)
}
