// Package memory provides linear memory adapters for wazero.
//
// This package bridges wazero's memory API with the root Memory and
// Allocator interfaces, so that the transcoder can lower and lift text in
// WebAssembly linear memory.
//
// # Memory Wrapper
//
// Wraps wazero api.Memory:
//
//	mem := memory.WrapMemory(mod.ExportedMemory("memory"))
//	// mem implements utf8codec.Memory
//
// # Allocators
//
// WrapAllocator calls a guest cabi_realloc export. BumpAllocator hands out
// host-managed regions of a memory that has no allocator of its own.
//
// # Scratch Memory
//
// Scratch instantiates a module whose only content is one exported memory,
// for hosts that need guest memory without a guest program:
//
//	s, err := memory.NewScratch(ctx, 1)
//	defer s.Close(ctx)
//	ptr, n, err := tc.Lower(wit.String{}, cps, s.Memory(), s.Allocator(), nil)
package memory
