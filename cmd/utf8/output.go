package main

import (
	"encoding/json"
	goerrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/text/unicode/runenames"

	"github.com/wippyai/utf8-codec/errors"
	"github.com/wippyai/utf8-codec/utf8"
)

var cborMode = func() cbor.EncMode {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("cbor: core deterministic encoding options rejected: %v", err))
	}
	return em
}()

type encodeReport struct {
	CodePoints []uint32 `json:"code_points" cbor:"code_points"`
	Hex        string   `json:"hex" cbor:"-"`
	Bytes      []byte   `json:"-" cbor:"bytes"`
	Length     int      `json:"length" cbor:"length"`
}

type codePointInfo struct {
	Value    uint32 `json:"value" cbor:"value"`
	Notation string `json:"notation" cbor:"notation"`
	Name     string `json:"name,omitempty" cbor:"name,omitempty"`
}

type decodeReport struct {
	CodePoints   []codePointInfo `json:"code_points" cbor:"code_points"`
	Replacements uint64          `json:"replacements" cbor:"replacements"`
}

type validateReport struct {
	Valid  bool   `json:"valid" cbor:"valid"`
	Length int    `json:"length" cbor:"length"`
	Kind   string `json:"kind,omitempty" cbor:"kind,omitempty"`
	Offset *int   `json:"offset,omitempty" cbor:"offset,omitempty"`
	Detail string `json:"detail,omitempty" cbor:"detail,omitempty"`
}

func notation(c utf8.CodePoint) string {
	return fmt.Sprintf("U+%04X", uint32(c))
}

func runeName(c utf8.CodePoint) string {
	if c > utf8.MaxCodePoint {
		return ""
	}
	return runenames.Name(rune(c))
}

func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "cbor":
		data, err := cborMode.Marshal(v)
		if err != nil {
			return fmt.Errorf("cbor: %w", err)
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("format %q is not structured", format)
	}
}

func writeEncoded(w io.Writer, format string, cps []utf8.CodePoint, data []byte) error {
	switch format {
	case "text":
		_, err := w.Write(data)
		return err
	case "hex":
		_, err := fmt.Fprintf(w, "% X\n", data)
		return err
	}

	values := make([]uint32, len(cps))
	for i, c := range cps {
		values[i] = uint32(c)
	}
	return writeStructured(w, format, encodeReport{
		CodePoints: values,
		Hex:        fmt.Sprintf("%X", data),
		Bytes:      data,
		Length:     len(data),
	})
}

func writeDecoded(w io.Writer, format string, cps []utf8.CodePoint, replacements uint64, names bool) error {
	switch format {
	case "text":
		if !names {
			_, err := fmt.Fprintf(w, "%s\n", utf8.Encode(cps))
			return err
		}
		var sb strings.Builder
		for _, c := range cps {
			fmt.Fprintf(&sb, "%s\t%s\t%s\n", notation(c), printable(c), runeName(c))
		}
		_, err := io.WriteString(w, sb.String())
		return err
	case "hex":
		parts := make([]string, len(cps))
		for i, c := range cps {
			parts[i] = notation(c)
		}
		_, err := fmt.Fprintln(w, strings.Join(parts, " "))
		return err
	}

	report := decodeReport{
		CodePoints:   make([]codePointInfo, len(cps)),
		Replacements: replacements,
	}
	for i, c := range cps {
		info := codePointInfo{Value: uint32(c), Notation: notation(c)}
		if names {
			info.Name = runeName(c)
		}
		report.CodePoints[i] = info
	}
	return writeStructured(w, format, report)
}

// printable renders c for a terminal, showing controls by notation only.
func printable(c utf8.CodePoint) string {
	if c < 0x20 || c == 0x7F || (c >= 0x80 && c < 0xA0) {
		return ""
	}
	return string(utf8.AppendCodePoint(nil, c))
}

func writeValidation(w io.Writer, format string, length int, verr error) error {
	report := validateReport{Valid: verr == nil, Length: length}
	var e *errors.Error
	if goerrors.As(verr, &e) {
		report.Kind = string(e.Kind)
		report.Detail = e.Detail
		if e.Offset != errors.NoOffset {
			off := e.Offset
			report.Offset = &off
		}
	}

	switch format {
	case "text", "hex":
		if verr == nil {
			_, err := fmt.Fprintf(w, "valid (%d bytes)\n", length)
			return err
		}
		_, err := fmt.Fprintf(w, "invalid: %v\n", verr)
		return err
	}
	return writeStructured(w, format, report)
}
