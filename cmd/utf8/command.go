package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/wippyai/utf8-codec/errors"
	"github.com/wippyai/utf8-codec/internal/config"
	"github.com/wippyai/utf8-codec/internal/memory"
	"github.com/wippyai/utf8-codec/sanitize"
	"github.com/wippyai/utf8-codec/transcoder"
	"github.com/wippyai/utf8-codec/utf8"
)

// scratchPages sizes the --via-memory linear memory (1 MiB).
const scratchPages = 16

type command struct {
	cfg    *config.Config
	mem    *memory.Scratch
	stdout io.Writer
}

func (c *command) decoderOptions() []utf8.Option {
	if c.cfg.Lenient {
		return []utf8.Option{utf8.WithLenientScalars()}
	}
	return nil
}

func (c *command) encode(args []string) error {
	if len(args) == 0 {
		return &exitError{code: 2, err: fmt.Errorf("encode needs code points (U+2262, 0x2262 or 8802)")}
	}
	cps := make([]utf8.CodePoint, len(args))
	for i, a := range args {
		cp, err := parseCodePoint(a)
		if err != nil {
			return &exitError{code: 2, err: err}
		}
		cps[i] = cp
	}

	data, err := c.encodeBytes(cps)
	if err != nil {
		return err
	}
	return writeEncoded(c.stdout, c.cfg.Format, cps, data)
}

func (c *command) encodeBytes(cps []utf8.CodePoint) ([]byte, error) {
	if c.mem == nil {
		return utf8.Encode(cps), nil
	}

	alloc := c.mem.Allocator()
	allocs := transcoder.NewAllocationList()
	defer allocs.FreeAndRelease(alloc)
	defer alloc.Reset()

	tc := transcoder.New(transcoder.Options{})
	ptr, n, err := tc.Lower(transcoder.StringType, cps, c.mem.Memory(), alloc, allocs)
	if err != nil {
		return nil, fmt.Errorf("lower: %w", err)
	}
	if n == 0 {
		return []byte{}, nil
	}
	raw, err := c.mem.Memory().Read(ptr, n)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), raw...), nil
}

func (c *command) decode(args []string, stdin io.Reader) error {
	data, err := readInput(args, stdin)
	if err != nil {
		return err
	}
	cps, replacements := decodeChunked(data, c.cfg.ChunkSize, c.decoderOptions()...)
	if c.mem != nil {
		if cps, err = c.liftBytes(data); err != nil {
			return err
		}
	}
	return writeDecoded(c.stdout, c.cfg.Format, cps, replacements, c.cfg.Names)
}

// liftBytes copies data into scratch memory and lifts it back as a string.
func (c *command) liftBytes(data []byte) ([]utf8.CodePoint, error) {
	alloc := c.mem.Allocator()
	defer alloc.Reset()

	if len(data) == 0 {
		return []utf8.CodePoint{}, nil
	}
	ptr, err := alloc.Alloc(uint32(len(data)), 1)
	if err != nil {
		return nil, fmt.Errorf("input of %d bytes does not fit scratch memory: %w", len(data), err)
	}
	if err := c.mem.Memory().Write(ptr, data); err != nil {
		return nil, err
	}

	tc := transcoder.New(transcoder.Options{
		LenientScalars: c.cfg.Lenient,
		ChunkSize:      uint32(c.cfg.ChunkSize),
	})
	cps, err := tc.Lift(transcoder.StringType, ptr, uint32(len(data)), c.mem.Memory())
	if err != nil {
		return nil, fmt.Errorf("lift: %w", err)
	}
	return cps, nil
}

func (c *command) validate(args []string, stdin io.Reader) error {
	data, err := readInput(args, stdin)
	if err != nil {
		return err
	}
	verr := utf8.Validate(data)
	if err := writeValidation(c.stdout, c.cfg.Format, len(data), verr); err != nil {
		return err
	}
	if verr != nil {
		return &exitError{code: 1}
	}
	return nil
}

func (c *command) sanitize(stdin io.Reader) error {
	_, err := io.Copy(c.stdout, sanitize.NewReader(stdin, c.decoderOptions()...))
	return err
}

// decodeChunked feeds data to one decoder chunk bytes at a time and
// flushes at the end. chunk <= 0 decodes in a single call.
func decodeChunked(data []byte, chunk int, opts ...utf8.Option) ([]utf8.CodePoint, uint64) {
	d := utf8.NewDecoder(opts...)
	if chunk <= 0 {
		chunk = max(len(data), 1)
	}
	out := make([]utf8.CodePoint, 0, len(data))
	for len(data) > 0 {
		n := min(chunk, len(data))
		out = d.AppendDecode(out, data[:n])
		data = data[n:]
	}
	out = append(out, d.Flush()...)
	return out, d.Replacements()
}

// readInput returns the octets named by hex args, or all of stdin when
// there are none.
func readInput(args []string, stdin io.Reader) ([]byte, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := parseHexOctets(args)
	if err != nil {
		return nil, &exitError{code: 2, err: err}
	}
	return data, nil
}

// parseCodePoint accepts U+XXXX, 0xXXXX or a decimal value.
func parseCodePoint(s string) (utf8.CodePoint, error) {
	digits, base := s, 10
	switch {
	case len(s) > 2 && (s[:2] == "U+" || s[:2] == "u+"):
		digits, base = s[2:], 16
	case len(s) > 2 && (s[:2] == "0x" || s[:2] == "0X"):
		digits, base = s[2:], 16
	}
	v, err := strconv.ParseUint(digits, base, 32)
	if err != nil {
		return 0, errors.New(errors.PhaseEncode, errors.KindInvalidInput).
			Value(s).
			Detail("cannot parse code point %q", s).
			Cause(err).
			Build()
	}
	return utf8.CodePoint(v), nil
}

// parseHexOctets joins args and decodes them as hex. Separators and 0x
// prefixes are ignored, so "E2 89 A2", "e289a2" and "0xE2,0x89,0xA2" agree.
func parseHexOctets(args []string) ([]byte, error) {
	var sb strings.Builder
	for _, a := range args {
		for _, field := range strings.FieldsFunc(a, func(r rune) bool { return r == ',' || r == ' ' || r == ':' }) {
			field = strings.TrimPrefix(strings.TrimPrefix(field, "0x"), "0X")
			sb.WriteString(field)
		}
	}
	data, err := hex.DecodeString(sb.String())
	if err != nil {
		return nil, errors.New(errors.PhaseDecode, errors.KindInvalidInput).
			Value(sb.String()).
			Detail("octets must be hex pairs").
			Cause(err).
			Build()
	}
	return data, nil
}
