package abi

import "math"

// Safety limits to prevent memory exhaustion from guest-supplied lengths.
const (
	MaxStringSize = 1 << 30 // 1 GB max string size
	MaxListLength = 1 << 27 // 128M max elements
	MaxAlloc      = 1 << 30 // 1 GB max single allocation
)

// Layout of the values the transcoder moves through linear memory.
const (
	StringRecordSize  = 8 // ptr + len
	StringRecordAlign = 4
	StringAlign       = 1
	CharSize          = 4
	CharAlign         = 4
)

func SafeMulU32(a, b uint32) (uint32, bool) {
	if b != 0 && a > math.MaxUint32/b {
		return 0, false
	}
	return a * b, true
}

func SafeAddU32(a, b uint32) (uint32, bool) {
	if a > math.MaxUint32-b {
		return 0, false
	}
	return a + b, true
}

// AlignTo rounds offset up to a multiple of align, which must be a power of two.
func AlignTo(offset, align uint32) uint32 {
	if align == 0 {
		return offset
	}
	return (offset + align - 1) &^ (align - 1)
}

// ValidAlign reports whether align is a non-zero power of two.
func ValidAlign(align uint32) bool {
	return align != 0 && align&(align-1) == 0
}
