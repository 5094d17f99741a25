package calldesc

import "testing"

func TestLayoutSizes(t *testing.T) {
	tests := []struct {
		name  string
		ranks []int
		size  int
	}{
		{"no_outputs", []int{}, 0},
		{"one_rank0", []int{0}, 24},
		{"one_rank1", []int{1}, 32},
		{"one_rank3", []int{3}, 48},
		{"mixed", []int{1, 3, 0}, 32 + 48 + 24},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			l := NewLayout(tc.ranks)
			if l.Size() != tc.size {
				t.Errorf("size: got %d, want %d", l.Size(), tc.size)
			}
			if l.NumOutputs() != len(tc.ranks) {
				t.Errorf("outputs: got %d, want %d", l.NumOutputs(), len(tc.ranks))
			}
		})
	}
}

func TestLayoutFieldOffsets(t *testing.T) {
	l := NewLayout([]int{2, 1})

	// Record 0: rank 2, 5 words.
	if got := l.RecordOffset(0); got != 0 {
		t.Errorf("record 0 offset: got %d", got)
	}
	if got := l.NumResultsOffset(0); got != 0 {
		t.Errorf("num_results 0: got %d", got)
	}
	if got := l.RankOffset(0); got != 8 {
		t.Errorf("rank 0: got %d", got)
	}
	if got := l.DevicePtrOffset(0); got != 16 {
		t.Errorf("device_ptr 0: got %d", got)
	}
	if got := l.ShapeOffset(0, 0); got != 24 {
		t.Errorf("shape 0,0: got %d", got)
	}
	if got := l.ShapeOffset(0, 1); got != 32 {
		t.Errorf("shape 0,1: got %d", got)
	}

	// Record 1 starts after record 0's 40 bytes.
	if got := l.RecordOffset(1); got != 40 {
		t.Errorf("record 1 offset: got %d", got)
	}
	if got := l.ShapeOffset(1, 0); got != 40+24 {
		t.Errorf("shape 1,0: got %d", got)
	}
}

// Offsets are pure functions of (output_index, rank): recomputing the layout
// must reproduce identical offsets.
func TestLayoutOffsetDeterminism(t *testing.T) {
	ranks := []int{3, 0, 2, 5}
	a := NewLayout(ranks)
	b := NewLayout(ranks)

	for i := range ranks {
		if a.RecordOffset(i) != b.RecordOffset(i) ||
			a.NumResultsOffset(i) != b.NumResultsOffset(i) ||
			a.RankOffset(i) != b.RankOffset(i) ||
			a.DevicePtrOffset(i) != b.DevicePtrOffset(i) {
			t.Fatalf("offsets for output %d differ across computations", i)
		}
		for dim := 0; dim < ranks[i]; dim++ {
			if a.ShapeOffset(i, dim) != b.ShapeOffset(i, dim) {
				t.Fatalf("shape offset (%d,%d) differs across computations", i, dim)
			}
		}
	}
}

func TestNewLayoutRejectsNegativeRank(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for negative rank")
		}
	}()
	NewLayout([]int{1, -1})
}
