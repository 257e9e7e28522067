package main

import (
	"bytes"
	"encoding/json"
	goerrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/go-cmp/cmp"

	"github.com/wippyai/utf8-codec/errors"
	"github.com/wippyai/utf8-codec/internal/config"
	"github.com/wippyai/utf8-codec/utf8"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv(config.EnvVar, "")
	var stdout, stderr bytes.Buffer
	err := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return stdout.String(), err
}

func exitCode(err error) int {
	var ee *exitError
	if goerrors.As(err, &ee) {
		return ee.ExitCode()
	}
	if err != nil {
		return 1
	}
	return 0
}

func TestParseCodePoint(t *testing.T) {
	tests := []struct {
		in      string
		want    utf8.CodePoint
		wantErr bool
	}{
		{"U+2262", 0x2262, false},
		{"u+233b4", 0x233B4, false},
		{"0x391", 0x391, false},
		{"0XFFFD", 0xFFFD, false},
		{"65", 65, false},
		{"0", 0, false},
		{"0xFFFFFFFF", 0xFFFFFFFF, false},
		{"U+", 0, true},
		{"0x1FFFFFFFF", 0, true},
		{"abc", 0, true},
		{"-1", 0, true},
	}
	for _, tt := range tests {
		got, err := parseCodePoint(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseCodePoint(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil {
			if !goerrors.Is(err, &errors.Error{Phase: errors.PhaseEncode, Kind: errors.KindInvalidInput}) {
				t.Errorf("parseCodePoint(%q) err = %v, want encode invalid_input", tt.in, err)
			}
			continue
		}
		if got != tt.want {
			t.Errorf("parseCodePoint(%q) = 0x%X, want 0x%X", tt.in, got, tt.want)
		}
	}
}

func TestParseHexOctets(t *testing.T) {
	want := []byte{0xE2, 0x89, 0xA2}
	for _, args := range [][]string{
		{"E2", "89", "A2"},
		{"e289a2"},
		{"E2 89 A2"},
		{"0xE2,0x89,0xA2"},
		{"e2:89", "a2"},
	} {
		got, err := parseHexOctets(args)
		if err != nil {
			t.Errorf("parseHexOctets(%q): %v", args, err)
			continue
		}
		if !bytes.Equal(got, want) {
			t.Errorf("parseHexOctets(%q) = % X", args, got)
		}
	}

	for _, args := range [][]string{{"E2", "8"}, {"zz"}} {
		if _, err := parseHexOctets(args); err == nil {
			t.Errorf("parseHexOctets(%q) expected error", args)
		}
	}
}

func TestDecodeChunked(t *testing.T) {
	data := []byte("a\xe2\x89\xa2\x80\xf0\xa3\x8e")
	want := []utf8.CodePoint{0x61, 0x2262, utf8.Replacement, utf8.Replacement}
	for _, chunk := range []int{0, 1, 2, 3, 100} {
		got, n := decodeChunked(data, chunk)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("chunk %d mismatch (-want +got):\n%s", chunk, diff)
		}
		if n != 2 {
			t.Errorf("chunk %d: replacements = %d, want 2", chunk, n)
		}
	}
	if got, n := decodeChunked(nil, 0); len(got) != 0 || n != 0 {
		t.Errorf("empty input = %v, %d", got, n)
	}
}

func TestRun_Encode(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"--mode", "encode", "--format", "hex", "U+41", "0x2262", "913", "46"}, "41 E2 89 A2 CE 91 2E\n"},
		{[]string{"--mode", "encode", "--format", "hex", "0xD800"}, "EF BF BD\n"},
		{[]string{"--mode", "encode", "U+65E5", "U+672C"}, "日本"},
		{[]string{"--mode", "encode", "--format", "hex", "--via-memory", "U+233B4", "U+41"}, "F0 A3 8E B4 41\n"},
	}
	for _, tt := range tests {
		got, err := runCLI(t, "", tt.args...)
		if err != nil {
			t.Errorf("%v: %v", tt.args, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%v = %q, want %q", tt.args, got, tt.want)
		}
	}

	if _, err := runCLI(t, "", "--mode", "encode"); exitCode(err) != 2 {
		t.Errorf("encode without args: exit %d", exitCode(err))
	}
	if _, err := runCLI(t, "", "--mode", "encode", "nope"); exitCode(err) != 2 {
		t.Errorf("encode bad arg: exit %d", exitCode(err))
	}
}

func TestRun_EncodeJSON(t *testing.T) {
	out, err := runCLI(t, "", "--mode", "encode", "--format", "json", "U+2262")
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]any
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if got["hex"] != "E289A2" || got["length"] != float64(3) {
		t.Errorf("report = %v", got)
	}
}

func TestRun_Decode(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{"hex args", "", []string{"--format", "hex", "E2", "89", "A2", "80"}, "U+2262 U+FFFD\n"},
		{"stdin text", "h\xffi", nil, "h�i\n"},
		{"chunked", "\xe6\x97\xa5\xe6\x9c", []string{"--chunk", "1", "--format", "hex"}, "U+65E5 U+FFFD\n"},
		{"via memory", "\xce\x91.", []string{"--via-memory", "--chunk", "1", "--format", "hex"}, "U+0391 U+002E\n"},
		{"names", "", []string{"--names", "41", "e289a2"}, "U+0041\tA\tLATIN CAPITAL LETTER A\nU+2262\t≢\tNOT IDENTICAL TO\n"},
		{"lenient", "", []string{"--lenient", "--format", "hex", "ED A0 80"}, "U+D800\n"},
		{"strict surrogate", "", []string{"--format", "hex", "ED A0 80"}, "U+FFFD\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := runCLI(t, tt.stdin, tt.args...)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRun_DecodeCBOR(t *testing.T) {
	out, err := runCLI(t, "", "--format", "cbor", "--names", "41", "80")
	if err != nil {
		t.Fatal(err)
	}
	var got decodeReport
	if err := cbor.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("cbor.Unmarshal: %v", err)
	}
	want := decodeReport{
		CodePoints: []codePointInfo{
			{Value: 0x41, Notation: "U+0041", Name: "LATIN CAPITAL LETTER A"},
			{Value: 0xFFFD, Notation: "U+FFFD", Name: "REPLACEMENT CHARACTER"},
		},
		Replacements: 1,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_Validate(t *testing.T) {
	out, err := runCLI(t, "", "--mode", "validate", "41", "E2", "89", "A2")
	if err != nil {
		t.Fatalf("valid input: %v", err)
	}
	if out != "valid (4 bytes)\n" {
		t.Errorf("valid output = %q", out)
	}

	out, err = runCLI(t, "ab\xf0\x9f", "--mode", "validate", "--format", "json")
	if exitCode(err) != 1 {
		t.Fatalf("truncated input: exit %d (%v)", exitCode(err), err)
	}
	var got validateReport
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if got.Valid || got.Kind != string(errors.KindTruncated) || got.Offset == nil || *got.Offset != 2 {
		t.Errorf("report = %+v", got)
	}
}

func TestRun_Sanitize(t *testing.T) {
	out, err := runCLI(t, "caf\xc3\xa9 \x80 ok\xe2", "--mode", "sanitize")
	if err != nil {
		t.Fatal(err)
	}
	if want := "café � ok�"; out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestRun_Config(t *testing.T) {
	path := filepath.Join(t.TempDir(), "utf8.yaml")
	if err := os.WriteFile(path, []byte("mode: encode\nformat: hex\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "", "--config", path, "U+41")
	if err != nil || out != "41\n" {
		t.Errorf("config mode = %q, %v", out, err)
	}

	out, err = runCLI(t, "", "--config", path, "--format", "text", "U+41")
	if err != nil || out != "A" {
		t.Errorf("flag override = %q, %v", out, err)
	}

	if _, err := runCLI(t, "", "--config", filepath.Join(t.TempDir(), "missing.yaml")); exitCode(err) != 2 {
		t.Errorf("missing config: exit %d", exitCode(err))
	}
}

func TestRun_Usage(t *testing.T) {
	if _, err := runCLI(t, "", "--mode", "transcode"); exitCode(err) != 2 {
		t.Errorf("bad mode: exit %d", exitCode(err))
	}
	if _, err := runCLI(t, "", "--bogus"); exitCode(err) != 2 {
		t.Errorf("unknown flag: exit %d", exitCode(err))
	}
	if _, err := runCLI(t, "", "--help"); exitCode(err) != 0 {
		t.Errorf("help: exit %d", exitCode(err))
	}
	if _, err := runCLI(t, "", "-i"); exitCode(err) != 2 {
		t.Errorf("interactive without terminal: exit %d", exitCode(err))
	}
}

func TestInspector(t *testing.T) {
	m := newInspectorModel(config.Default())
	m.input.SetValue("a≢")
	m.inspect()
	if len(m.rows) != 2 || m.rows[1].name != "NOT IDENTICAL TO" {
		t.Fatalf("rows = %+v", m.rows)
	}
	if !bytes.Equal(m.rows[1].bytes, []byte{0xE2, 0x89, 0xA2}) {
		t.Errorf("bytes = % X", m.rows[1].bytes)
	}

	m.mode = modeHex
	m.input.SetValue("41 E2 89")
	m.inspect()
	if len(m.rows) != 2 || m.rows[1].cp != utf8.Replacement || m.replacements != 1 {
		t.Errorf("hex rows = %+v (%d replacements)", m.rows, m.replacements)
	}
	if !goerrors.Is(m.err, &errors.Error{Phase: errors.PhaseValidate, Kind: errors.KindTruncated}) {
		t.Errorf("err = %v, want truncated", m.err)
	}
	if !strings.Contains(m.View(), "UTF-8 Inspector") {
		t.Error("View missing title")
	}
}
