package transform

import "fmt"

// HDRMode selects the strategy for transcoding or editing High Dynamic Range
// (HDR) input video. Standard Dynamic Range (SDR) input is unaffected by the
// chosen mode.
//
// The set is closed: exactly the four constants below are valid. Values enter
// the system only through Builder.SetHDRMode, ParseHDRMode, or UnmarshalText,
// all of which reject anything else.
type HDRMode int

const (
	// KeepHDR processes HDR input as HDR to produce HDR output. When a worker
	// cannot keep HDR, planning falls back to ToneMapViaDecoder rather than
	// failing.
	KeepHDR HDRMode = iota

	// ToneMapViaDecoder tone maps HDR input to SDR before processing, using
	// the decoder's tone-mapper, to produce SDR output.
	ToneMapViaDecoder

	// ToneMapViaGPU tone maps HDR input to SDR before processing, using a GPU
	// tone-mapper. Results can differ mildly from ToneMapViaDecoder depending
	// on the worker's tone-mapping implementation, but support is wider and
	// more consistent across workers.
	ToneMapViaGPU

	// ForceInterpretAsSDR interprets HDR input as if it were SDR. Transfer
	// functions and HDR metadata are ignored, so output will likely look
	// washed out.
	ForceInterpretAsSDR
)

var hdrModeNames = map[HDRMode]string{
	KeepHDR:             "keep_hdr",
	ToneMapViaDecoder:   "tone_map_via_decoder",
	ToneMapViaGPU:       "tone_map_via_gpu",
	ForceInterpretAsSDR: "force_interpret_as_sdr",
}

// Valid reports whether m is one of the four defined modes.
func (m HDRMode) Valid() bool {
	_, ok := hdrModeNames[m]
	return ok
}

// String returns the canonical snake_case name used in config files, API
// payloads, and logs.
func (m HDRMode) String() string {
	if name, ok := hdrModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("hdr_mode(%d)", int(m))
}

// ParseHDRMode converts a canonical name back into its mode.
func ParseHDRMode(s string) (HDRMode, error) {
	for mode, name := range hdrModeNames {
		if name == s {
			return mode, nil
		}
	}
	return KeepHDR, fmt.Errorf("unknown HDR mode %q: %w", s, ErrInvalidArgument)
}

// MarshalText implements encoding.TextMarshaler so the mode round-trips
// through TOML and JSON as its canonical name.
func (m HDRMode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("invalid HDR mode %d: %w", int(m), ErrInvalidArgument)
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *HDRMode) UnmarshalText(text []byte) error {
	mode, err := ParseHDRMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}
