package utf8_test

import (
	"bytes"
	"slices"
	"testing"
	stdutf8 "unicode/utf8"

	"github.com/wippyai/utf8-codec/utf8"
)

func FuzzDecode(f *testing.F) {
	for _, in := range streamCorpus {
		f.Add(in, uint8(len(in)/2))
	}
	f.Add([]byte{}, uint8(0))
	f.Add([]byte{0xFF, 0xFF, 0xFF, 0xFF}, uint8(1))

	f.Fuzz(func(t *testing.T, data []byte, split uint8) {
		// Decoding must not panic and each octet yields at most two code points.
		want := utf8.NewDecoder().Decode(data)
		if len(want) > 2*len(data) {
			t.Fatalf("%d code points from %d octets", len(want), len(data))
		}

		at := 0
		if len(data) > 0 {
			at = int(split) % (len(data) + 1)
		}
		d := utf8.NewDecoder()
		got := d.Decode(data[:at])
		got = append(got, d.Decode(data[at:])...)
		if !slices.Equal(got, want) {
			t.Fatalf("split at %d: got %U, want %U", at, got, want)
		}

		// Well-formed input must agree with the standard library.
		if utf8.Valid(data) != stdutf8.Valid(data) {
			t.Fatalf("Valid(% X) = %v, unicode/utf8 says %v", data, utf8.Valid(data), stdutf8.Valid(data))
		}
		if stdutf8.Valid(data) {
			runes := []rune(string(data))
			if len(runes) != len(want) {
				t.Fatalf("decoded %d code points, unicode/utf8 decoded %d", len(want), len(runes))
			}
			for i, r := range runes {
				if utf8.CodePoint(r) != want[i] {
					t.Fatalf("code point %d: got %U, want %U", i, want[i], r)
				}
			}
		}

		// Re-encoding decoded output always yields valid UTF-8.
		if out := utf8.Encode(want); !stdutf8.Valid(out) {
			t.Fatalf("Encode(Decode(% X)) = % X is not valid UTF-8", data, out)
		}
	})
}

func FuzzEncodeRoundTrip(f *testing.F) {
	f.Add(uint32(0x41), uint32(0x2262), uint32(0x233B4))
	f.Add(uint32(0xD800), uint32(0x110000), uint32(0xFFFFFFFF))
	f.Add(uint32(0), uint32(0x7FF), uint32(0x10FFFF))

	f.Fuzz(func(t *testing.T, a, b, c uint32) {
		in := []utf8.CodePoint{utf8.CodePoint(a), utf8.CodePoint(b), utf8.CodePoint(c)}
		encoded := utf8.Encode(in)
		if !stdutf8.Valid(encoded) {
			t.Fatalf("Encode(%X) = % X is not valid UTF-8", in, encoded)
		}

		var d utf8.Decoder
		got := d.Decode(encoded)
		if len(got) != len(in) {
			t.Fatalf("round trip of %X produced %U", in, got)
		}
		for i, cp := range in {
			want := cp
			if !utf8.IsScalar(cp) {
				want = utf8.Replacement
			}
			if got[i] != want {
				t.Fatalf("code point %d: got %U, want %U", i, got[i], want)
			}
		}
		if !bytes.Equal(utf8.Encode(got), encoded) {
			t.Fatalf("re-encoding %U changed the bytes", got)
		}
	})
}
