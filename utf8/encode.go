package utf8

import "math/bits"

// Encode returns the UTF-8 encoding of codePoints. Invalid code points are
// written as the replacement sequence; Encode never fails.
func Encode(codePoints []CodePoint) []byte {
	n := 0
	for _, c := range codePoints {
		n += EncodedLen(c)
	}
	return AppendEncode(make([]byte, 0, n), codePoints...)
}

// AppendEncode appends the UTF-8 encoding of codePoints to dst and returns
// the extended buffer.
func AppendEncode(dst []byte, codePoints ...CodePoint) []byte {
	for _, c := range codePoints {
		dst = AppendCodePoint(dst, c)
	}
	return dst
}

// EncodeString re-encodes the code points of a Go string. Bytes of s that
// are not valid UTF-8 come out as the replacement sequence.
func EncodeString(s string) []byte {
	var d Decoder
	cps := d.DecodeString(s)
	cps = append(cps, d.Flush()...)
	return Encode(cps)
}

// AppendCodePoint appends the UTF-8 encoding of a single code point to dst.
func AppendCodePoint(dst []byte, c CodePoint) []byte {
	switch n := bits.Len32(uint32(c)); {
	case n <= 7:
		return append(dst, byte(c&0x7F))
	case n <= 11:
		return append(dst,
			0xC0|byte((c>>6)&0x1F),
			0x80|byte(c&0x3F))
	case n <= 16:
		if c >= SurrogateMin && c <= SurrogateMax {
			return append(dst, replacementBytes[:]...)
		}
		return append(dst,
			0xE0|byte((c>>12)&0x0F),
			0x80|byte((c>>6)&0x3F),
			0x80|byte(c&0x3F))
	case n <= 21 && c <= MaxCodePoint:
		return append(dst,
			0xF0|byte((c>>18)&0x07),
			0x80|byte((c>>12)&0x3F),
			0x80|byte((c>>6)&0x3F),
			0x80|byte(c&0x3F))
	default:
		return append(dst, replacementBytes[:]...)
	}
}

// EncodedLen returns the number of octets AppendCodePoint writes for c.
// Code points that are replaced count as 3.
func EncodedLen(c CodePoint) int {
	switch {
	case c < 0x80:
		return 1
	case c < 0x800:
		return 2
	case c < 0x10000:
		return 3
	case c <= MaxCodePoint:
		return 4
	default:
		return len(replacementBytes)
	}
}
