package utf8_test

import (
	goerrors "errors"
	"testing"

	"github.com/wippyai/utf8-codec/errors"
	"github.com/wippyai/utf8-codec/utf8"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		in     []byte
		kind   errors.Kind
		offset int
	}{
		{"empty", nil, "", 0},
		{"ascii", []byte("Hello"), "", 0},
		{"multi-byte", []byte{0x41, 0xE2, 0x89, 0xA2, 0xCE, 0x91, 0x2E}, "", 0},
		{"literal replacement", []byte{0xEF, 0xBF, 0xBD}, "", 0},
		{"stray continuation", []byte{0x41, 0xE2, 0x89, 0xA2, 0x91, 0x2E}, errors.KindInvalidUTF8, 4},
		{"broken sequence", []byte{0x41, 0xCE, 0xE2, 0x89, 0xA2}, errors.KindInvalidUTF8, 1},
		{"overlong", []byte{0x41, 0x42, 0xC0, 0xAF}, errors.KindInvalidUTF8, 2},
		{"surrogate", []byte{0xED, 0xA0, 0x80}, errors.KindInvalidUTF8, 0},
		{"past max", []byte{0x41, 0xF4, 0x90, 0x80, 0x80}, errors.KindInvalidUTF8, 1},
		{"invalid leading", []byte{0x41, 0xFE}, errors.KindInvalidUTF8, 1},
		{"truncated", []byte{0x41, 0xF0, 0xA3, 0x8E}, errors.KindTruncated, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := utf8.Validate(tt.in)
			if tt.kind == "" {
				if err != nil {
					t.Fatalf("Validate(% X) = %v, want nil", tt.in, err)
				}
				if !utf8.Valid(tt.in) {
					t.Errorf("Valid(% X) = false", tt.in)
				}
				return
			}

			var verr *errors.Error
			if !goerrors.As(err, &verr) {
				t.Fatalf("Validate(% X) = %v, want *errors.Error", tt.in, err)
			}
			if verr.Phase != errors.PhaseValidate || verr.Kind != tt.kind {
				t.Errorf("got %s/%s, want validate/%s", verr.Phase, verr.Kind, tt.kind)
			}
			if verr.Offset != tt.offset {
				t.Errorf("Offset = %d, want %d", verr.Offset, tt.offset)
			}
			if utf8.Valid(tt.in) {
				t.Errorf("Valid(% X) = true", tt.in)
			}
		})
	}
}

func TestValidate_TruncatedReportsMissing(t *testing.T) {
	err := utf8.Validate([]byte{0xE2})
	if !goerrors.Is(err, &errors.Error{Phase: errors.PhaseValidate, Kind: errors.KindTruncated}) {
		t.Fatalf("Validate = %v, want truncated", err)
	}
	var verr *errors.Error
	goerrors.As(err, &verr)
	if verr.Value != 2 {
		t.Errorf("Value = %v, want 2 missing continuation bytes", verr.Value)
	}
}
