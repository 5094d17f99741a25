package memref

import (
	"reflect"
	"strings"
	"testing"
)

func TestDataIsPureProjection(t *testing.T) {
	tab := Table{
		Allocated: 0x1000,
		Aligned:   0x1040,
		Offset:    2,
		Sizes:     []int64{3},
		Strides:   []int64{1},
	}
	if got := tab.Data(); got != 0x1040 {
		t.Errorf("Data: got %#x, want 0x1040", uint64(got))
	}
}

func TestFromResult(t *testing.T) {
	shape := []int64{2, 3, 4}
	tab := FromResult(0xdead0000, shape)

	if tab.Allocated != 0xdead0000 || tab.Aligned != 0xdead0000 {
		t.Errorf("pointers: got %#x/%#x", uint64(tab.Allocated), uint64(tab.Aligned))
	}
	if tab.Offset != 0 {
		t.Errorf("offset: got %d, want 0", tab.Offset)
	}
	if !reflect.DeepEqual(tab.Sizes, shape) {
		t.Errorf("sizes: got %v", tab.Sizes)
	}
	if !reflect.DeepEqual(tab.Strides, []int64{12, 4, 1}) {
		t.Errorf("strides: got %v", tab.Strides)
	}

	// Reported shape must be copied, not aliased.
	shape[0] = 99
	if tab.Sizes[0] != 2 {
		t.Error("FromResult aliased the shape slice")
	}
}

func TestElements(t *testing.T) {
	if n := Contig(0x10, 2, 3, 4).Elements(); n != 24 {
		t.Errorf("elements: got %d, want 24", n)
	}
	if n := Contig(0x10, 2, 0, 4).Elements(); n != 0 {
		t.Errorf("empty elements: got %d, want 0", n)
	}
	if n := Contig(0x10).Elements(); n != 1 {
		t.Errorf("scalar elements: got %d, want 1", n)
	}
}

func TestContiguous(t *testing.T) {
	if !Contig(0x10, 4, 5).Contiguous() {
		t.Error("contiguous table reported non-contiguous")
	}

	tab := Contig(0x10, 4, 5)
	tab.Strides = []int64{1, 4} // column-major
	if tab.Contiguous() {
		t.Error("column-major table reported contiguous")
	}

	// A malformed table with missing strides is non-contiguous, not a panic.
	tab.Strides = []int64{5}
	if tab.Contiguous() {
		t.Error("table with missing strides reported contiguous")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		tab     Table
		wantErr string
	}{
		{"ok", Contig(0x10, 2, 2), ""},
		{
			"stride_count",
			Table{Sizes: []int64{2}, Strides: []int64{1, 1}},
			"strides",
		},
		{
			"aligned_before_root",
			Table{Allocated: 0x20, Aligned: 0x10, Sizes: []int64{1}, Strides: []int64{1}},
			"before allocation root",
		},
		{
			"negative_size",
			Table{Sizes: []int64{-1}, Strides: []int64{1}},
			"negative size",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.tab.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("got %v, want substring %q", err, tc.wantErr)
			}
		})
	}
}
