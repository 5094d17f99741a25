// Package dtype enumerates the element types an engine signature can carry
// and their host-side widths.
package dtype

import (
	"fmt"
	"math"
	"strings"

	"github.com/x448/float16"
)

// DType identifies a tensor element type.
type DType uint8

const (
	Invalid DType = iota
	F32
	F16
	BF16
	I64
	I32
	I8
	Bool
)

var names = map[DType]string{
	F32:  "f32",
	F16:  "f16",
	BF16: "bf16",
	I64:  "i64",
	I32:  "i32",
	I8:   "i8",
	Bool: "bool",
}

var sizes = map[DType]int{
	F32:  4,
	F16:  2,
	BF16: 2,
	I64:  8,
	I32:  4,
	I8:   1,
	Bool: 1,
}

func (d DType) String() string {
	if s, ok := names[d]; ok {
		return s
	}
	return "invalid"
}

// Size returns the element width in bytes, zero for Invalid.
func (d DType) Size() int {
	return sizes[d]
}

// Parse resolves a type name as written in signatures and CLI flags.
func Parse(s string) (DType, error) {
	for d, name := range names {
		if name == strings.ToLower(s) {
			return d, nil
		}
	}
	return Invalid, fmt.Errorf("dtype: unknown element type %q", s)
}

// DecodeF16 widens an IEEE 754 half-precision bit pattern.
func DecodeF16(bits uint16) float32 {
	return float16.Frombits(bits).Float32()
}

// EncodeF16 narrows to half precision, rounding to nearest even.
func EncodeF16(f float32) uint16 {
	return float16.Fromfloat32(f).Bits()
}

// DecodeBF16 widens a bfloat16 bit pattern. bfloat16 is the upper half of a
// float32, so widening is exact.
func DecodeBF16(bits uint16) float32 {
	return math.Float32frombits(uint32(bits) << 16)
}

// EncodeBF16 truncates to bfloat16 (round toward zero).
func EncodeBF16(f float32) uint16 {
	return uint16(math.Float32bits(f) >> 16)
}
