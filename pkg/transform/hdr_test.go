package transform

import (
	"errors"
	"testing"
)

func TestHDRModeNames(t *testing.T) {
	cases := []struct {
		mode HDRMode
		name string
	}{
		{KeepHDR, "keep_hdr"},
		{ToneMapViaDecoder, "tone_map_via_decoder"},
		{ToneMapViaGPU, "tone_map_via_gpu"},
		{ForceInterpretAsSDR, "force_interpret_as_sdr"},
	}

	for _, tc := range cases {
		if got := tc.mode.String(); got != tc.name {
			t.Errorf("String(%d): expected %q, got %q", int(tc.mode), tc.name, got)
		}

		parsed, err := ParseHDRMode(tc.name)
		if err != nil {
			t.Errorf("ParseHDRMode(%q) failed: %v", tc.name, err)
		}
		if parsed != tc.mode {
			t.Errorf("ParseHDRMode(%q): expected %v, got %v", tc.name, tc.mode, parsed)
		}

		if !tc.mode.Valid() {
			t.Errorf("%v should be valid", tc.mode)
		}
	}
}

func TestParseHDRModeUnknown(t *testing.T) {
	_, err := ParseHDRMode("tone_map")
	if err == nil {
		t.Fatal("expected unknown name to be rejected")
	}
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestHDRModeTextRoundTrip(t *testing.T) {
	for mode := range hdrModeNames {
		text, err := mode.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v) failed: %v", mode, err)
		}

		var back HDRMode
		if err := back.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q) failed: %v", text, err)
		}
		if back != mode {
			t.Errorf("round trip changed %v into %v", mode, back)
		}
	}

	if _, err := HDRMode(42).MarshalText(); err == nil {
		t.Error("expected MarshalText to reject an out-of-range mode")
	}

	var mode HDRMode
	if err := mode.UnmarshalText([]byte("sdr")); err == nil {
		t.Error("expected UnmarshalText to reject an unknown name")
	}
}

func TestHDRModeInvalidValues(t *testing.T) {
	for _, v := range []HDRMode{-1, 4, 42} {
		if v.Valid() {
			t.Errorf("HDRMode(%d) should not be valid", int(v))
		}
	}
}
