package errors

import (
	"fmt"
	"strconv"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseEncode   Phase = "encode"   // code points to octets
	PhaseDecode   Phase = "decode"   // octets to code points
	PhaseValidate Phase = "validate" // strict conformance check
	PhaseLower    Phase = "lower"    // host values into linear memory
	PhaseLift     Phase = "lift"     // linear memory into host values
	PhaseMemory   Phase = "memory"   // raw linear memory access
	PhaseConfig   Phase = "config"   // configuration loading
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidUTF8   Kind = "invalid_utf8"
	KindTruncated     Kind = "truncated"
	KindInvalidData   Kind = "invalid_data"
	KindOutOfBounds   Kind = "out_of_bounds"
	KindOverflow      Kind = "overflow"
	KindAllocation    Kind = "allocation"
	KindUnsupported   Kind = "unsupported"
	KindTypeMismatch  Kind = "type_mismatch"
	KindInvalidInput  Kind = "invalid_input"
	KindInvalidConfig Kind = "invalid_config"
)

// NoOffset marks an error that is not tied to a position in the input.
const NoOffset = -1

// Error is the structured error type used throughout the module
type Error struct {
	Value   any
	Cause   error
	Phase   Phase
	Kind    Kind
	WitType string
	Detail  string
	Path    []string
	Offset  int
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Offset >= 0 {
		b.WriteString(" (offset ")
		b.WriteString(strconv.Itoa(e.Offset))
		b.WriteByte(')')
	}

	if e.WitType != "" {
		b.WriteString(": WIT type ")
		b.WriteString(e.WitType)
	}

	if e.Detail != "" {
		if e.WitType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase:  phase,
			Kind:   kind,
			Offset: NoOffset,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Offset sets the byte offset of the offending input
func (b *Builder) Offset(offset int) *Builder {
	b.err.Offset = offset
	return b
}

// WitType sets the WIT type name
func (b *Builder) WitType(t string) *Builder {
	b.err.WitType = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// previewLimit caps how many octets of malformed input are echoed in Detail.
const previewLimit = 16

// InvalidUTF8 creates an invalid UTF-8 error positioned at offset within data.
func InvalidUTF8(phase Phase, offset int, data []byte) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidUTF8,
		Offset: offset,
		Detail: fmt.Sprintf("invalid UTF-8 sequence: % x", preview(data, offset)),
	}
}

// Truncated creates an error for input that ends inside a multi-byte sequence.
func Truncated(phase Phase, offset int, missing int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTruncated,
		Offset: offset,
		Detail: fmt.Sprintf("input ends %d continuation byte(s) short", missing),
		Value:  missing,
	}
}

// InvalidScalar creates an error for a code point outside the Unicode scalar values.
func InvalidScalar(phase Phase, path []string, value uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Offset: NoOffset,
		Detail: fmt.Sprintf("invalid Unicode scalar value: 0x%X", value),
		Value:  value,
	}
}

// AllocationFailed creates an allocation failure error
func AllocationFailed(phase Phase, size, align uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAllocation,
		Offset: NoOffset,
		Detail: fmt.Sprintf("failed to allocate %d bytes (align %d)", size, align),
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Offset: NoOffset,
		Detail: what,
	}
}

// OutOfBounds creates a linear memory access error
func OutOfBounds(phase Phase, offset uint32, length uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Offset: NoOffset,
		Detail: fmt.Sprintf("access out of bounds: offset=%d, length=%d", offset, length),
		Value:  offset,
	}
}

// Overflow creates a size limit error
func Overflow(phase Phase, path []string, what string, size, limit uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Path:   path,
		Offset: NoOffset,
		Detail: fmt.Sprintf("%s size %d exceeds maximum %d", what, size, limit),
		Value:  size,
	}
}

// InvalidConfig creates a configuration error for the named field
func InvalidConfig(field string, format string, args ...any) *Error {
	return &Error{
		Phase:  PhaseConfig,
		Kind:   KindInvalidConfig,
		Path:   []string{field},
		Offset: NoOffset,
		Detail: fmt.Sprintf(format, args...),
	}
}

func preview(data []byte, offset int) []byte {
	if offset < 0 || offset >= len(data) {
		offset = 0
	}
	data = data[offset:]
	if len(data) > previewLimit {
		data = data[:previewLimit]
	}
	return data
}
