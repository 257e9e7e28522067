// Package utf8codec converts between Unicode code points and UTF-8 octets,
// and carries that conversion into WebAssembly linear memory.
//
// # Architecture Overview
//
// The module is organized into several packages with distinct responsibilities:
//
//	utf8codec/           Root package with the Memory and Allocator interfaces
//	├── utf8/            Encoder, streaming Decoder, strict validation
//	├── sanitize/        x/text Transformer that repairs malformed UTF-8
//	├── transcoder/      Canonical ABI lift/lower of string and list<char>
//	├── errors/          Structured error types for debugging
//	├── internal/memory/ wazero memory and allocator adapters
//	├── internal/config/ YAML configuration for the CLI
//	└── cmd/utf8/        Command line tool and interactive inspector
//
// # Quick Start
//
// Encode and decode:
//
//	b := utf8.Encode([]utf8.CodePoint{0x41, 0x2262, 0x391, 0x2E})
//
//	var d utf8.Decoder
//	cps := d.Decode(b[:2])
//	cps = append(cps, d.Decode(b[2:])...) // [U+0041 U+2262 U+0391 U+002E]
//
// Lower into guest memory and lift back:
//
//	tc := transcoder.New(transcoder.Options{})
//	ptr, n, err := tc.Lower(wit.String{}, cps, mem, alloc, nil)
//	...
//	back, err := tc.Lift(wit.String{}, ptr, n, mem)
//
// # Malformed Input
//
// Encoding and decoding never fail. Invalid code points and malformed byte
// sequences become U+FFFD, one per malformed condition. Callers that need a
// hard failure use utf8.Validate or a strict transcoder.
//
// # Thread Safety
//
// The encoder, Validate and Transcoder are safe for concurrent use. A
// utf8.Decoder and a sanitize.Transformer hold stream state and must be used
// by a single goroutine.
package utf8codec
