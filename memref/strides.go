package memref

// RowMajorStrides derives the stride vector for a row-major contiguous layout
// of sizes:
//
//	stride[r-1] = 1
//	stride[k]   = stride[k+1] * max(size[k+1], 1)
//
// Zero extents clamp to 1 while accumulating so strides stay positive and
// monotone even for empty tensors; a rank-0 shape yields an empty vector.
// This is the single stride policy for every descriptor the runtime produces.
func RowMajorStrides(sizes []int64) []int64 {
	strides := make([]int64, len(sizes))
	if len(sizes) == 0 {
		return strides
	}
	strides[len(sizes)-1] = 1
	for k := len(sizes) - 2; k >= 0; k-- {
		n := sizes[k+1]
		if n < 1 {
			n = 1
		}
		strides[k] = strides[k+1] * n
	}
	return strides
}
