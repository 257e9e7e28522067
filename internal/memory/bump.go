package memory

import (
	"sync"

	"github.com/wippyai/utf8-codec/errors"
	"github.com/wippyai/utf8-codec/internal/abi"
)

// minBase keeps address 0 free; the Canonical ABI uses ptr 0 for empty values.
const minBase = 8

// BumpAllocator hands out increasing regions of [base, limit). Free is a
// no-op; call Reset to reuse the whole region.
type BumpAllocator struct {
	mu    sync.Mutex
	base  uint32
	next  uint32
	limit uint32
}

// NewBumpAllocator creates an allocator over [base, limit).
func NewBumpAllocator(base, limit uint32) *BumpAllocator {
	base = max(base, minBase)
	return &BumpAllocator{base: base, next: base, limit: limit}
}

// Alloc returns a region of size bytes aligned to align.
func (a *BumpAllocator) Alloc(size, align uint32) (uint32, error) {
	if !abi.ValidAlign(align) {
		return 0, errors.New(errors.PhaseMemory, errors.KindInvalidInput).
			Detail("alignment %d is not a power of two", align).
			Build()
	}
	if size > abi.MaxAlloc {
		return 0, errors.AllocationFailed(errors.PhaseMemory, size, align)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	ptr := abi.AlignTo(a.next, align)
	end, ok := abi.SafeAddU32(ptr, size)
	if !ok || ptr < a.next || end > a.limit {
		return 0, errors.AllocationFailed(errors.PhaseMemory, size, align)
	}
	a.next = end
	return ptr, nil
}

// Free is a no-op.
func (a *BumpAllocator) Free(ptr, size, align uint32) {}

// Used returns the number of bytes handed out, including alignment padding.
func (a *BumpAllocator) Used() uint32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.next - a.base
}

// Reset releases every region at once.
func (a *BumpAllocator) Reset() {
	a.mu.Lock()
	a.next = a.base
	a.mu.Unlock()
}
