package utf8

import "github.com/wippyai/utf8-codec/errors"

// Valid reports whether octets is entirely well-formed UTF-8 encoding only
// Unicode scalar values.
func Valid(octets []byte) bool {
	return Validate(octets) == nil
}

// Validate checks octets against the same rules the decoder applies and
// returns an *errors.Error positioned at the start of the first malformed
// sequence. A sequence cut short by the end of input is reported as
// KindTruncated at the offset of its leading byte.
func Validate(octets []byte) error {
	var d Decoder
	var buf [2]CodePoint
	start := 0
	for i, b := range octets {
		if d.remaining == 0 {
			start = i
		}
		if _, malformed := d.step(b, &buf); malformed {
			return errors.InvalidUTF8(errors.PhaseValidate, start, octets)
		}
	}
	if d.remaining > 0 {
		return errors.Truncated(errors.PhaseValidate, start, d.remaining)
	}
	return nil
}
