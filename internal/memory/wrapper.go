package memory

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	utf8codec "github.com/wippyai/utf8-codec"
	"github.com/wippyai/utf8-codec/errors"
)

// WrapMemory wraps a wazero api.Memory to implement utf8codec.Memory.
func WrapMemory(mem api.Memory) utf8codec.Memory {
	if mem == nil {
		return nil
	}
	return &Wrapper{Mem: mem}
}

// WrapAllocator wraps a guest cabi_realloc export to implement utf8codec.Allocator.
func WrapAllocator(ctx context.Context, fn api.Function) utf8codec.Allocator {
	if fn == nil {
		return nil
	}
	return &AllocatorWrapper{Ctx: ctx, Fn: fn}
}

// Wrapper adapts wazero api.Memory to the utf8codec.Memory interface.
type Wrapper struct {
	Mem api.Memory
}

// Read reads bytes from memory. The returned slice aliases linear memory.
func (m *Wrapper) Read(offset uint32, length uint32) ([]byte, error) {
	data, ok := m.Mem.Read(offset, length)
	if !ok {
		return nil, errors.OutOfBounds(errors.PhaseMemory, offset, length)
	}
	return data, nil
}

// Write writes bytes to memory.
func (m *Wrapper) Write(offset uint32, data []byte) error {
	if !m.Mem.Write(offset, data) {
		return errors.OutOfBounds(errors.PhaseMemory, offset, uint32(len(data)))
	}
	return nil
}

// ReadU32 reads an unsigned 32-bit little-endian value.
func (m *Wrapper) ReadU32(offset uint32) (uint32, error) {
	v, ok := m.Mem.ReadUint32Le(offset)
	if !ok {
		return 0, errors.OutOfBounds(errors.PhaseMemory, offset, 4)
	}
	return v, nil
}

// WriteU32 writes an unsigned 32-bit little-endian value.
func (m *Wrapper) WriteU32(offset uint32, value uint32) error {
	if !m.Mem.WriteUint32Le(offset, value) {
		return errors.OutOfBounds(errors.PhaseMemory, offset, 4)
	}
	return nil
}

// Size returns the current memory size in bytes.
func (m *Wrapper) Size() uint32 {
	if m.Mem == nil {
		return 0
	}
	return m.Mem.Size()
}

// AllocatorWrapper adapts a cabi_realloc export to utf8codec.Allocator.
type AllocatorWrapper struct {
	Ctx context.Context
	Fn  api.Function
}

// Alloc allocates memory using cabi_realloc(0, 0, align, size).
func (a *AllocatorWrapper) Alloc(size, align uint32) (uint32, error) {
	results, err := a.Fn.Call(a.Ctx, 0, 0, uint64(align), uint64(size))
	if err != nil {
		return 0, errors.New(errors.PhaseMemory, errors.KindAllocation).
			Detail("cabi_realloc(%d, %d)", size, align).
			Cause(err).
			Build()
	}
	if len(results) == 0 {
		return 0, fmt.Errorf("allocation returned no result")
	}
	return uint32(results[0]), nil
}

// Free deallocates memory using cabi_realloc(ptr, size, align, 0).
func (a *AllocatorWrapper) Free(ptr, size, align uint32) {
	if _, err := a.Fn.Call(a.Ctx, uint64(ptr), uint64(size), uint64(align), 0); err != nil {
		Logger().Warn("free: cabi_realloc failed",
			zap.Uint32("ptr", ptr),
			zap.Uint32("size", size),
			zap.Error(err))
	}
}

var (
	_ utf8codec.Memory      = (*Wrapper)(nil)
	_ utf8codec.MemorySizer = (*Wrapper)(nil)
	_ utf8codec.Allocator   = (*AllocatorWrapper)(nil)
)
