// Package memref defines the fixed-layout memory descriptors exchanged with
// compiled callers.
//
// A Table describes one device memory region the way the compiler lays it
// out: allocation root, aligned view pointer, element offset, then one size
// and one stride per dimension. Rank is fixed per call site; only the extents
// vary at run time.
package memref

import (
	"fmt"
	"strings"
)

// DevicePtr is a device-address-width pointer. It is opaque to the host and
// only ever handed back to engine entry points.
type DevicePtr uint64

// Table is the memory descriptor for one tensor-shaped value:
// (allocated_ptr, aligned_ptr, offset, size_0..size_{r-1}, stride_0..stride_{r-1}).
//
// Aligned lies within the allocation rooted at Allocated (the two may be
// equal). Offset counts elements from Aligned. Strides are in elements.
type Table struct {
	Allocated DevicePtr
	Aligned   DevicePtr
	Offset    int64
	Sizes     []int64
	Strides   []int64
}

// Rank returns the number of dimensions.
func (t Table) Rank() int {
	return len(t.Sizes)
}

// Data projects the device data pointer used by the engine calling
// convention. Pure field access, never fails.
func (t Table) Data() DevicePtr {
	return t.Aligned
}

// Elements returns the logical element count, zero if any extent is zero.
func (t Table) Elements() int64 {
	n := int64(1)
	for _, s := range t.Sizes {
		n *= s
	}
	return n
}

// Contiguous reports whether the strides match the row-major layout of Sizes.
func (t Table) Contiguous() bool {
	want := RowMajorStrides(t.Sizes)
	if len(t.Strides) != len(want) {
		return false
	}
	for i := range want {
		if t.Strides[i] != want[i] {
			return false
		}
	}
	return true
}

// FromResult reconstructs the output Table for an engine-reported result:
// both pointers set to ptr, offset zero, row-major strides derived from the
// reported shape. The shape slice is copied.
func FromResult(ptr DevicePtr, shape []int64) Table {
	sizes := make([]int64, len(shape))
	copy(sizes, shape)
	return Table{
		Allocated: ptr,
		Aligned:   ptr,
		Offset:    0,
		Sizes:     sizes,
		Strides:   RowMajorStrides(sizes),
	}
}

// Contig builds a contiguous input Table rooted at ptr.
func Contig(ptr DevicePtr, sizes ...int64) Table {
	s := make([]int64, len(sizes))
	copy(s, sizes)
	return Table{
		Allocated: ptr,
		Aligned:   ptr,
		Sizes:     s,
		Strides:   RowMajorStrides(s),
	}
}

// Validate checks the descriptor invariants a caller can get wrong.
func (t Table) Validate() error {
	if len(t.Strides) != len(t.Sizes) {
		return fmt.Errorf("memref: %d sizes but %d strides", len(t.Sizes), len(t.Strides))
	}
	if t.Aligned < t.Allocated {
		return fmt.Errorf("memref: aligned pointer %#x before allocation root %#x", uint64(t.Aligned), uint64(t.Allocated))
	}
	for i, s := range t.Sizes {
		if s < 0 {
			return fmt.Errorf("memref: negative size %d at dim %d", s, i)
		}
	}
	return nil
}

func (t Table) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "memref<%#x+%d", uint64(t.Aligned), t.Offset)
	for i, s := range t.Sizes {
		fmt.Fprintf(&b, ", %dx(%d)", s, t.Strides[i])
	}
	b.WriteByte('>')
	return b.String()
}
