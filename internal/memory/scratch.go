package memory

import (
	"bytes"
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	utf8codec "github.com/wippyai/utf8-codec"
)

const (
	// PageSize is the WebAssembly page size in bytes.
	PageSize = 65536

	// MaxScratchPages caps scratch memory at 1 GiB.
	MaxScratchPages = 1 << 14

	scratchExport = "memory"
)

// Scratch is a guest memory with nothing else in its module, used as a
// lowering target when no guest program is loaded.
type Scratch struct {
	rt    wazero.Runtime
	mod   api.Module
	mem   *Wrapper
	alloc *BumpAllocator
}

// NewScratch instantiates a module exporting one memory of the given number of pages.
func NewScratch(ctx context.Context, pages uint32) (*Scratch, error) {
	if pages == 0 || pages > MaxScratchPages {
		return nil, fmt.Errorf("scratch memory: %d pages out of range [1, %d]", pages, MaxScratchPages)
	}

	rt := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfig().WithMemoryLimitPages(pages))

	compiled, err := rt.CompileModule(ctx, scratchModule(pages))
	if err != nil {
		rt.Close(ctx)
		return nil, fmt.Errorf("compile scratch module: %w", err)
	}

	mod, err := rt.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName("scratch"))
	if err != nil {
		rt.Close(ctx)
		return nil, fmt.Errorf("instantiate scratch module: %w", err)
	}

	mem := mod.ExportedMemory(scratchExport)
	if mem == nil {
		rt.Close(ctx)
		return nil, fmt.Errorf("scratch module exports no %q", scratchExport)
	}

	Logger().Debug("scratch memory ready", zap.Uint32("pages", pages), zap.Uint32("bytes", mem.Size()))

	return &Scratch{
		rt:    rt,
		mod:   mod,
		mem:   &Wrapper{Mem: mem},
		alloc: NewBumpAllocator(0, mem.Size()),
	}, nil
}

// Memory returns the scratch linear memory.
func (s *Scratch) Memory() utf8codec.Memory {
	return s.mem
}

// Allocator returns the bump allocator over the scratch memory.
func (s *Scratch) Allocator() *BumpAllocator {
	return s.alloc
}

// Close releases the module and its runtime.
func (s *Scratch) Close(ctx context.Context) error {
	if s.rt == nil {
		return nil
	}
	err := s.rt.Close(ctx)
	s.rt, s.mod, s.mem = nil, nil, nil
	return err
}

// scratchModule builds a binary module with one memory of the given
// minimum size, exported as "memory".
func scratchModule(pages uint32) []byte {
	var limits bytes.Buffer
	limits.WriteByte(0x01) // one memory
	limits.WriteByte(0x00) // min only
	writeLEB128u(&limits, pages)

	var exports bytes.Buffer
	exports.WriteByte(0x01) // one export
	writeLEB128u(&exports, uint32(len(scratchExport)))
	exports.WriteString(scratchExport)
	exports.WriteByte(0x02) // memory
	exports.WriteByte(0x00) // index 0

	var b bytes.Buffer
	b.Write([]byte{0x00, 0x61, 0x73, 0x6d}) // magic
	b.Write([]byte{0x01, 0x00, 0x00, 0x00}) // version
	writeSection(&b, 0x05, limits.Bytes())
	writeSection(&b, 0x07, exports.Bytes())
	return b.Bytes()
}

func writeSection(w *bytes.Buffer, id byte, payload []byte) {
	w.WriteByte(id)
	writeLEB128u(w, uint32(len(payload)))
	w.Write(payload)
}

// writeLEB128u writes an unsigned LEB128 value
func writeLEB128u(w *bytes.Buffer, v uint32) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		w.WriteByte(b)
		if v == 0 {
			break
		}
	}
}
