// Package utf8 converts between Unicode code points and their UTF-8 encoding.
//
// The encoder is a pure function. Any 32-bit value is accepted; surrogate
// halves, values above U+10FFFF and anything wider than 21 bits are written as
// the replacement sequence EF BF BD.
//
// The decoder is a state machine that keeps a partial multi-byte sequence
// between calls, so a byte stream may be fed in arbitrary chunks:
//
//	var d utf8.Decoder
//	out := d.Decode(chunk1)
//	out = append(out, d.Decode(chunk2)...)
//
// Malformed input never fails a call. Each stray continuation byte, invalid
// leading byte, broken sequence, overlong form or non-scalar value becomes
// exactly one U+FFFD, and decoding resumes with the next octet. A byte that
// interrupts a sequence closes it with U+FFFD and is then decoded on its own.
//
// # Scalar Values
//
// By default the decoder rejects completed sequences that decode to a
// surrogate half or to a value above U+10FFFF, matching what the encoder
// accepts. WithLenientScalars turns that check off and leaves only the
// overlong check in place.
//
// # Thread Safety
//
// Encode and friends are safe for concurrent use. A Decoder is NOT: drive
// each instance from one goroutine, one instance per byte stream.
package utf8
