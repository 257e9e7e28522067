package utf8

// CodePoint is a Unicode code point. Values outside the scalar range are
// representable so that corrupt input can be carried and replaced.
type CodePoint uint32

const (
	// Replacement is substituted for anything that cannot be encoded or decoded.
	Replacement CodePoint = 0xFFFD

	// MaxCodePoint is the largest Unicode scalar value.
	MaxCodePoint CodePoint = 0x10FFFF

	// SurrogateMin and SurrogateMax bound the UTF-16 surrogate halves.
	SurrogateMin CodePoint = 0xD800
	SurrogateMax CodePoint = 0xDFFF

	// MaxSequenceLength is the longest UTF-8 sequence for a single code point.
	MaxSequenceLength = 4
)

// replacementBytes is the UTF-8 encoding of Replacement.
var replacementBytes = [3]byte{0xEF, 0xBF, 0xBD}

// ReplacementBytes returns a fresh copy of the UTF-8 encoding of U+FFFD.
func ReplacementBytes() []byte {
	b := replacementBytes
	return b[:]
}

// IsScalar reports whether c is a Unicode scalar value: at most U+10FFFF
// and not a surrogate half.
func IsScalar(c CodePoint) bool {
	if c >= SurrogateMin && c <= SurrogateMax {
		return false
	}
	return c <= MaxCodePoint
}

// AsciiToUnicode maps each byte of a 7-bit ASCII string onto one code point.
// Bytes with the high bit set are not ASCII and map to Replacement.
func AsciiToUnicode(s string) []CodePoint {
	out := make([]CodePoint, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c&0x80 != 0 {
			out[i] = Replacement
			continue
		}
		out[i] = CodePoint(c)
	}
	return out
}
