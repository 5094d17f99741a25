package calldesc

// WordSize is the width in bytes of every slot in both records.
const WordSize = 8

// Slot indexes within one packed output descriptor record, in words from the
// record start.
const (
	slotNumResults = 0
	slotRank       = 1
	slotDevicePtr  = 2
	slotShape      = 3
)

// recordWords returns the slot count of a record for the given rank.
func recordWords(rank int) int {
	return slotShape + rank
}

// Layout holds the precomputed byte offsets of every packed output descriptor
// record for one call signature. Offsets depend only on the static output
// ranks, so a Layout is computed once per call site and shared by every
// invocation. Layouts are immutable.
type Layout struct {
	ranks   []int
	offsets []int
	size    int
}

// NewLayout computes the layout for outputs with the given static ranks.
// Ranks must be non-negative; NewLayout panics otherwise, since ranks come
// from the compiler, not from runtime data.
func NewLayout(outputRanks []int) Layout {
	ranks := make([]int, len(outputRanks))
	offsets := make([]int, len(outputRanks))
	off := 0
	for i, r := range outputRanks {
		if r < 0 {
			panic("calldesc: negative output rank")
		}
		ranks[i] = r
		offsets[i] = off
		off += recordWords(r) * WordSize
	}
	return Layout{ranks: ranks, offsets: offsets, size: off}
}

// NumOutputs returns the number of output records.
func (l Layout) NumOutputs() int {
	return len(l.ranks)
}

// Rank returns the static rank of output i.
func (l Layout) Rank(i int) int {
	return l.ranks[i]
}

// Size returns the total scratch buffer size in bytes.
func (l Layout) Size() int {
	return l.size
}

// RecordOffset returns the byte offset of output i's record.
func (l Layout) RecordOffset(i int) int {
	return l.offsets[i]
}

// NumResultsOffset returns the byte offset of output i's result-count slot.
func (l Layout) NumResultsOffset(i int) int {
	return l.offsets[i] + slotNumResults*WordSize
}

// RankOffset returns the byte offset of output i's rank slot.
func (l Layout) RankOffset(i int) int {
	return l.offsets[i] + slotRank*WordSize
}

// DevicePtrOffset returns the byte offset of output i's device pointer slot.
func (l Layout) DevicePtrOffset(i int) int {
	return l.offsets[i] + slotDevicePtr*WordSize
}

// ShapeOffset returns the byte offset of dimension dim of output i's shape.
func (l Layout) ShapeOffset(i, dim int) int {
	return l.offsets[i] + (slotShape+dim)*WordSize
}
