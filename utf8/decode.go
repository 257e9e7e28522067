package utf8

// state is the partial multi-byte sequence carried between Decode calls.
// remaining == 0 iff the decoder sits between code points.
type state struct {
	accumulator    CodePoint
	remaining      int
	sequenceLength int
}

// minValue holds the smallest code point that needs a sequence of the
// indexed length; anything below it is an overlong encoding.
var minValue = [MaxSequenceLength + 1]CodePoint{0, 0, 0x80, 0x800, 0x10000}

// Decoder turns UTF-8 octets into code points. The zero value is ready to
// use and rejects non-scalar values.
type Decoder struct {
	state
	replacements uint64
	lenient      bool
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithLenientScalars disables the surrogate and U+10FFFF checks on completed
// sequences. Only overlong encodings are rejected at completion, so values
// up to 0x1FFFFF may come out of the decoder.
func WithLenientScalars() Option {
	return func(d *Decoder) {
		d.lenient = true
	}
}

// NewDecoder creates a decoder with the given options.
func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode consumes octets and returns the code points completed by this call.
// A sequence left incomplete at the end of octets is kept for the next call.
func (d *Decoder) Decode(octets []byte) []CodePoint {
	return d.AppendDecode(make([]CodePoint, 0, len(octets)), octets)
}

// DecodeString is Decode over the bytes of text.
func (d *Decoder) DecodeString(text string) []CodePoint {
	out := make([]CodePoint, 0, len(text))
	var buf [2]CodePoint
	for i := 0; i < len(text); i++ {
		n, _ := d.step(text[i], &buf)
		out = append(out, buf[:n]...)
	}
	return out
}

// AppendDecode is Decode appending to dst.
func (d *Decoder) AppendDecode(dst []CodePoint, octets []byte) []CodePoint {
	var buf [2]CodePoint
	for _, b := range octets {
		n, _ := d.step(b, &buf)
		dst = append(dst, buf[:n]...)
	}
	return dst
}

// Pending returns how many continuation bytes the current partial sequence
// still needs. Zero means no sequence is in progress.
func (d *Decoder) Pending() int {
	return d.remaining
}

// Replacements returns how many malformed conditions were replaced with
// U+FFFD since the decoder was created or last Reset.
func (d *Decoder) Replacements() uint64 {
	return d.replacements
}

// Flush ends the stream. A pending partial sequence is dropped and reported
// as a single Replacement; otherwise Flush returns nil.
func (d *Decoder) Flush() []CodePoint {
	if d.remaining == 0 {
		return nil
	}
	d.state = state{}
	d.replacements++
	return []CodePoint{Replacement}
}

// Reset discards any partial sequence and the replacement count.
func (d *Decoder) Reset() {
	d.state = state{}
	d.replacements = 0
}

// step feeds one octet through the state machine. It writes up to two code
// points into out and reports how many, and whether the octet exposed
// malformed input. An octet that breaks a sequence is processed a second
// time from the ready state, so the loop runs at most twice.
func (d *Decoder) step(b byte, out *[2]CodePoint) (n int, malformed bool) {
	for {
		if d.remaining == 0 {
			switch {
			case b&0x80 == 0:
				out[n] = CodePoint(b)
				n++
			case b&0xE0 == 0xC0:
				d.begin(CodePoint(b&0x1F), 2)
			case b&0xF0 == 0xE0:
				d.begin(CodePoint(b&0x0F), 3)
			case b&0xF8 == 0xF0:
				d.begin(CodePoint(b&0x07), 4)
			default:
				out[n] = Replacement
				n++
				d.replacements++
				malformed = true
			}
			return n, malformed
		}

		if b&0xC0 != 0x80 {
			out[n] = Replacement
			n++
			d.replacements++
			malformed = true
			d.state = state{}
			continue
		}

		d.accumulator = d.accumulator<<6 | CodePoint(b&0x3F)
		d.remaining--
		if d.remaining > 0 {
			return n, malformed
		}

		c, length := d.accumulator, d.sequenceLength
		d.state = state{}
		if c < minValue[length] || (!d.lenient && !IsScalar(c)) {
			out[n] = Replacement
			d.replacements++
			malformed = true
		} else {
			out[n] = c
		}
		n++
		return n, malformed
	}
}

func (d *Decoder) begin(bits CodePoint, length int) {
	d.accumulator = bits
	d.remaining = length - 1
	d.sequenceLength = length
}

// DecodeAll decodes a complete octet sequence in one call. A sequence
// truncated at the end of octets yields a final Replacement.
func DecodeAll(octets []byte) []CodePoint {
	var d Decoder
	out := d.Decode(octets)
	return append(out, d.Flush()...)
}
