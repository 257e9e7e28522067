package transcoder

import (
	"encoding/binary"
	goerrors "errors"
	"fmt"

	"go.bytecodealliance.org/wit"
	"go.uber.org/zap"

	"github.com/wippyai/utf8-codec/errors"
	"github.com/wippyai/utf8-codec/internal/abi"
	"github.com/wippyai/utf8-codec/utf8"
)

// Safety limits to prevent memory exhaustion from guest-supplied lengths.
const (
	MaxStringSize = abi.MaxStringSize // Maximum string size in bytes
	MaxListLength = abi.MaxListLength // Maximum list<char> length in elements

	// DefaultChunkSize is how many string bytes Lift reads per memory access.
	DefaultChunkSize = 4096
)

// Options configures a Transcoder.
type Options struct {
	// Strict fails on the first invalid code point or malformed sequence
	// instead of substituting U+FFFD.
	Strict bool

	// LenientScalars lets lifted strings carry surrogate halves and values
	// above U+10FFFF. Ignored when Strict is set.
	LenientScalars bool

	// ChunkSize is the number of string bytes read per memory access during
	// Lift. 0 means DefaultChunkSize.
	ChunkSize uint32

	// MaxSize caps string bytes and list elements below the package limits.
	// 0 means no extra cap.
	MaxSize uint32
}

// Transcoder moves code point sequences across linear memory. It holds no
// per-call state and is safe for concurrent use.
type Transcoder struct {
	opts Options
}

// New creates a transcoder.
func New(opts Options) *Transcoder {
	if opts.ChunkSize == 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	return &Transcoder{opts: opts}
}

type layout int

const (
	layoutString layout = iota + 1
	layoutCharList
)

// StringType and CharListType are the WIT types the transcoder accepts.
var (
	StringType   wit.Type = wit.String{}
	CharListType wit.Type = &wit.TypeDef{Kind: &wit.List{Type: wit.Char{}}}
)

func layoutOf(phase errors.Phase, t wit.Type) (layout, error) {
	switch v := t.(type) {
	case wit.String:
		return layoutString, nil
	case *wit.TypeDef:
		if l, ok := v.Kind.(*wit.List); ok {
			if _, isChar := l.Type.(wit.Char); isChar {
				return layoutCharList, nil
			}
		}
	}
	return 0, errors.Unsupported(phase, "WIT type "+typeName(t))
}

func typeName(t wit.Type) string {
	switch v := t.(type) {
	case nil:
		return "nil"
	case wit.String:
		return "string"
	case wit.Char:
		return "char"
	case *wit.TypeDef:
		if v.Name != nil {
			return *v.Name
		}
		if l, ok := v.Kind.(*wit.List); ok {
			return "list<" + typeName(l.Type) + ">"
		}
		return "typedef"
	default:
		return fmt.Sprintf("%T", t)
	}
}

func (tc *Transcoder) limit(packageLimit uint32) uint32 {
	if tc.opts.MaxSize > 0 && tc.opts.MaxSize < packageLimit {
		return tc.opts.MaxSize
	}
	return packageLimit
}

// Lower writes cps into linear memory in the layout of t and returns the
// pointer and length of the lowered value. Length is in bytes for string
// and in elements for list<char>. Empty input lowers to (0, 0) without
// allocating. Allocations are recorded in allocs when it is not nil.
func (tc *Transcoder) Lower(t wit.Type, cps []utf8.CodePoint, mem Memory, alloc Allocator, allocs *AllocationList) (ptr, length uint32, err error) {
	l, err := layoutOf(errors.PhaseLower, t)
	if err != nil {
		return 0, 0, err
	}
	if tc.opts.Strict {
		for i, c := range cps {
			if !utf8.IsScalar(c) {
				e := errors.InvalidScalar(errors.PhaseLower, nil, uint32(c))
				e.WitType = typeName(t)
				e.Detail = fmt.Sprintf("%s at index %d", e.Detail, i)
				return 0, 0, e
			}
		}
	}
	if len(cps) == 0 {
		return 0, 0, nil
	}
	if l == layoutString {
		return tc.lowerString(cps, mem, alloc, allocs)
	}
	return tc.lowerChars(cps, mem, alloc, allocs)
}

func (tc *Transcoder) lowerString(cps []utf8.CodePoint, mem Memory, alloc Allocator, allocs *AllocationList) (uint32, uint32, error) {
	limit := tc.limit(MaxStringSize)
	var size uint64
	for _, c := range cps {
		size += uint64(utf8.EncodedLen(c))
	}
	if size > uint64(limit) {
		e := errors.Overflow(errors.PhaseLower, nil, "string", uint32(min(size, uint64(^uint32(0)))), limit)
		e.WitType = "string"
		return 0, 0, e
	}

	dataLen := uint32(size)
	dataAddr, err := tc.alloc(alloc, allocs, dataLen, abi.StringAlign, "string")
	if err != nil {
		return 0, 0, err
	}
	if err := mem.Write(dataAddr, utf8.Encode(cps)); err != nil {
		return 0, 0, err
	}
	return dataAddr, dataLen, nil
}

func (tc *Transcoder) lowerChars(cps []utf8.CodePoint, mem Memory, alloc Allocator, allocs *AllocationList) (uint32, uint32, error) {
	limit := tc.limit(MaxListLength)
	if uint64(len(cps)) > uint64(limit) {
		e := errors.Overflow(errors.PhaseLower, nil, "list", uint32(min(uint64(len(cps)), uint64(^uint32(0)))), limit)
		e.WitType = "list<char>"
		return 0, 0, e
	}

	count := uint32(len(cps))
	byteLen, ok := abi.SafeMulU32(count, abi.CharSize)
	if !ok {
		return 0, 0, errors.Overflow(errors.PhaseLower, nil, "list", count, limit)
	}
	dataAddr, err := tc.alloc(alloc, allocs, byteLen, abi.CharAlign, "list<char>")
	if err != nil {
		return 0, 0, err
	}

	buf := make([]byte, byteLen)
	for i, c := range cps {
		if !utf8.IsScalar(c) {
			c = utf8.Replacement
		}
		binary.LittleEndian.PutUint32(buf[i*abi.CharSize:], uint32(c))
	}
	if err := mem.Write(dataAddr, buf); err != nil {
		return 0, 0, err
	}
	return dataAddr, count, nil
}

func (tc *Transcoder) alloc(alloc Allocator, allocs *AllocationList, size, align uint32, witType string) (uint32, error) {
	if alloc == nil {
		return 0, errors.New(errors.PhaseLower, errors.KindAllocation).
			WitType(witType).
			Detail("no allocator for %d bytes", size).
			Build()
	}
	ptr, err := alloc.Alloc(size, align)
	if err != nil {
		return 0, errors.New(errors.PhaseLower, errors.KindAllocation).
			WitType(witType).
			Detail("failed to allocate %d bytes", size).
			Cause(err).
			Build()
	}
	if allocs != nil {
		allocs.Add(ptr, size, align)
	}
	return ptr, nil
}

// Lift reads a value of type t at (ptr, length) and returns its code points.
func (tc *Transcoder) Lift(t wit.Type, ptr, length uint32, mem Memory) ([]utf8.CodePoint, error) {
	l, err := layoutOf(errors.PhaseLift, t)
	if err != nil {
		return nil, err
	}
	if length == 0 {
		return []utf8.CodePoint{}, nil
	}
	if l == layoutString {
		return tc.liftString(ptr, length, mem)
	}
	return tc.liftChars(ptr, length, mem)
}

func (tc *Transcoder) liftString(ptr, length uint32, mem Memory) ([]utf8.CodePoint, error) {
	if limit := tc.limit(MaxStringSize); length > limit {
		e := errors.Overflow(errors.PhaseLift, nil, "string", length, limit)
		e.WitType = "string"
		return nil, e
	}
	if _, ok := abi.SafeAddU32(ptr, length); !ok {
		return nil, errors.OutOfBounds(errors.PhaseLift, ptr, length)
	}

	var opts []utf8.Option
	if tc.opts.LenientScalars && !tc.opts.Strict {
		opts = append(opts, utf8.WithLenientScalars())
	}
	d := utf8.NewDecoder(opts...)
	out := make([]utf8.CodePoint, 0, length)

	for off := uint32(0); off < length; {
		n := min(tc.opts.ChunkSize, length-off)
		chunk, err := mem.Read(ptr+off, n)
		if err != nil {
			return nil, err
		}
		out = d.AppendDecode(out, chunk)
		off += n
		if tc.opts.Strict && d.Replacements() > 0 {
			return nil, tc.strictStringError(ptr, length, mem)
		}
	}

	if d.Pending() > 0 && tc.opts.Strict {
		return nil, tc.strictStringError(ptr, length, mem)
	}
	out = append(out, d.Flush()...)

	if n := d.Replacements(); n > 0 {
		Logger().Debug("lift: replaced malformed UTF-8",
			zap.Uint32("ptr", ptr),
			zap.Uint32("len", length),
			zap.Uint64("replacements", n))
	}
	return out, nil
}

// strictStringError re-reads the whole string to position the failure.
func (tc *Transcoder) strictStringError(ptr, length uint32, mem Memory) error {
	data, err := mem.Read(ptr, length)
	if err != nil {
		return err
	}
	verr := utf8.Validate(data)
	var e *errors.Error
	if !goerrors.As(verr, &e) {
		return errors.InvalidUTF8(errors.PhaseLift, errors.NoOffset, data)
	}
	lifted := *e
	lifted.Phase = errors.PhaseLift
	lifted.WitType = "string"
	return &lifted
}

func (tc *Transcoder) liftChars(ptr, length uint32, mem Memory) ([]utf8.CodePoint, error) {
	limit := tc.limit(MaxListLength)
	if length > limit {
		e := errors.Overflow(errors.PhaseLift, nil, "list", length, limit)
		e.WitType = "list<char>"
		return nil, e
	}
	if ptr%abi.CharAlign != 0 {
		return nil, errors.New(errors.PhaseLift, errors.KindInvalidData).
			WitType("list<char>").
			Detail("pointer 0x%X is not %d-byte aligned", ptr, abi.CharAlign).
			Build()
	}
	byteLen, ok := abi.SafeMulU32(length, abi.CharSize)
	if !ok {
		return nil, errors.Overflow(errors.PhaseLift, nil, "list", length, limit)
	}
	if _, ok := abi.SafeAddU32(ptr, byteLen); !ok {
		return nil, errors.OutOfBounds(errors.PhaseLift, ptr, byteLen)
	}

	data, err := mem.Read(ptr, byteLen)
	if err != nil {
		return nil, err
	}

	out := make([]utf8.CodePoint, length)
	replaced := 0
	for i := range out {
		c := utf8.CodePoint(binary.LittleEndian.Uint32(data[i*abi.CharSize:]))
		if !utf8.IsScalar(c) {
			if tc.opts.Strict {
				return nil, errors.New(errors.PhaseLift, errors.KindInvalidData).
					WitType("list<char>").
					Offset(i*abi.CharSize).
					Value(uint32(c)).
					Detail("invalid Unicode scalar value: 0x%X at index %d", uint32(c), i).
					Build()
			}
			c = utf8.Replacement
			replaced++
		}
		out[i] = c
	}

	if replaced > 0 {
		Logger().Debug("lift: replaced invalid chars",
			zap.Uint32("ptr", ptr),
			zap.Uint32("len", length),
			zap.Int("replacements", replaced))
	}
	return out, nil
}

// LowerInto lowers cps and writes the (ptr, len) record at addr.
func (tc *Transcoder) LowerInto(addr uint32, t wit.Type, cps []utf8.CodePoint, mem Memory, alloc Allocator, allocs *AllocationList) error {
	if addr%abi.StringRecordAlign != 0 {
		return errors.New(errors.PhaseLower, errors.KindInvalidData).
			WitType(typeName(t)).
			Detail("record address 0x%X is not %d-byte aligned", addr, abi.StringRecordAlign).
			Build()
	}
	ptr, length, err := tc.Lower(t, cps, mem, alloc, allocs)
	if err != nil {
		return err
	}
	if err := mem.WriteU32(addr, ptr); err != nil {
		return err
	}
	return mem.WriteU32(addr+4, length)
}

// LiftFrom reads the (ptr, len) record at addr and lifts the value it references.
func (tc *Transcoder) LiftFrom(addr uint32, t wit.Type, mem Memory) ([]utf8.CodePoint, error) {
	if addr%abi.StringRecordAlign != 0 {
		return nil, errors.New(errors.PhaseLift, errors.KindInvalidData).
			WitType(typeName(t)).
			Detail("record address 0x%X is not %d-byte aligned", addr, abi.StringRecordAlign).
			Build()
	}
	ptr, err := mem.ReadU32(addr)
	if err != nil {
		return nil, err
	}
	length, err := mem.ReadU32(addr + 4)
	if err != nil {
		return nil, err
	}
	return tc.Lift(t, ptr, length, mem)
}
