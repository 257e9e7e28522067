package sanitize

import (
	"io"

	"golang.org/x/text/transform"

	"github.com/wippyai/utf8-codec/utf8"
)

// Transformer rewrites malformed UTF-8 as U+FFFD.
type Transformer struct {
	dec  utf8.Decoder
	opts []utf8.Option
	buf  [2]utf8.CodePoint
}

var _ transform.Transformer = (*Transformer)(nil)

// New creates a Transformer. Options are passed to the underlying decoder.
func New(opts ...utf8.Option) *Transformer {
	t := &Transformer{opts: opts}
	t.Reset()
	return t
}

// Reset implements transform.Transformer.
func (t *Transformer) Reset() {
	t.dec = *utf8.NewDecoder(t.opts...)
}

// Replacements returns how many U+FFFD were written for malformed input
// since the last Reset.
func (t *Transformer) Replacements() uint64 {
	return t.dec.Replacements()
}

// Transform implements transform.Transformer.
func (t *Transformer) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		b := src[nSrc]
		if b < 0x80 && t.dec.Pending() == 0 {
			if nDst == len(dst) {
				return nDst, nSrc, transform.ErrShortDst
			}
			dst[nDst] = b
			nDst++
			nSrc++
			continue
		}

		saved := t.dec
		cps := t.dec.AppendDecode(t.buf[:0], src[nSrc:nSrc+1])
		size := 0
		for _, c := range cps {
			size += utf8.EncodedLen(c)
		}
		if len(dst)-nDst < size {
			t.dec = saved
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += len(utf8.AppendEncode(dst[nDst:nDst], cps...))
		nSrc++
	}

	if atEOF && t.dec.Pending() > 0 {
		if len(dst)-nDst < utf8.EncodedLen(utf8.Replacement) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += len(utf8.AppendEncode(dst[nDst:nDst], t.dec.Flush()...))
	}
	return nDst, nSrc, nil
}

// String returns s with malformed sequences replaced.
func String(s string, opts ...utf8.Option) string {
	out, _, _ := transform.String(New(opts...), s)
	return out
}

// Bytes returns a sanitized copy of b.
func Bytes(b []byte, opts ...utf8.Option) []byte {
	out, _, _ := transform.Bytes(New(opts...), b)
	return out
}

// NewReader returns a reader yielding the sanitized contents of r.
func NewReader(r io.Reader, opts ...utf8.Option) io.Reader {
	return transform.NewReader(r, New(opts...))
}
