// Package transcoder lowers code point sequences into WebAssembly linear
// memory and lifts them back, following the Canonical ABI layouts for two
// WIT types:
//
//	WIT type     Memory representation          length counts
//	────────────────────────────────────────────────────────────
//	string       UTF-8 octets, align 1          bytes
//	list<char>   u32 little-endian, align 4     elements
//
// Both are referenced from an 8-byte (ptr, len) record with alignment 4,
// which LowerInto and LiftFrom write and read.
//
// # Malformed Data
//
// By default the transcoder behaves like the utf8 package: invalid code
// points are lowered as U+FFFD and malformed guest strings are lifted with
// U+FFFD in place of each malformed sequence. With Options.Strict set, the
// first invalid value fails the call with a structured error carrying the
// byte offset.
//
// # Streaming Lift
//
// Guest strings are read in Options.ChunkSize slices and fed through a
// single utf8.Decoder, so a multi-byte sequence split across two reads is
// reassembled and large strings never need a second full-size buffer.
//
// # Key Types
//
//	Transcoder      - Lowers and lifts according to Options
//	AllocationList  - Tracks guest allocations for release after a call
package transcoder
