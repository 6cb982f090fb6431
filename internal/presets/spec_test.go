package presets

import (
	"errors"
	"strings"
	"testing"

	"github.com/smazurov/transformnode/pkg/transform"
)

func TestValidateName(t *testing.T) {
	valid := []string{"a", "mobile-720p", "preset-2", "0-a-b", strings.Repeat("x", 64)}
	for _, name := range valid {
		s := Spec{Name: name}
		if err := s.ValidateName(); err != nil {
			t.Errorf("ValidateName(%q) should pass, got: %v", name, err)
		}
	}

	invalid := []string{"", "Mobile", "has_underscore", "with.dot", "with space", strings.Repeat("x", 65)}
	for _, name := range invalid {
		s := Spec{Name: name}
		if err := s.ValidateName(); err == nil {
			t.Errorf("ValidateName(%q) should fail", name)
		}
	}
}

func TestSpecRequestDefaults(t *testing.T) {
	s := Spec{Name: "defaults"}

	req, err := s.Request()
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	if !req.Equal(transform.Request{}) {
		t.Error("empty spec should resolve to the default request")
	}
}

func TestSpecRequestFullMapping(t *testing.T) {
	s := Spec{
		Name:                 "full",
		FlattenForSlowMotion: true,
		OutputHeight:         1080,
		AudioMimeType:        "audio/mp4a-latm",
		VideoMimeType:        "video/hevc",
		HDRMode:              "tone_map_via_gpu",
	}

	req, err := s.Request()
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	if !req.FlattenForSlowMotion() {
		t.Error("expected FlattenForSlowMotion true")
	}
	if req.OutputHeight() != 1080 {
		t.Errorf("expected OutputHeight 1080, got %d", req.OutputHeight())
	}
	if req.AudioMimeType() != "audio/mp4a-latm" {
		t.Errorf("expected audio/mp4a-latm, got %s", req.AudioMimeType())
	}
	if req.VideoMimeType() != "video/hevc" {
		t.Errorf("expected video/hevc, got %s", req.VideoMimeType())
	}
	if req.HDRMode() != transform.ToneMapViaGPU {
		t.Errorf("expected ToneMapViaGPU, got %v", req.HDRMode())
	}
}

func TestSpecRequestLegacySDRToneMapping(t *testing.T) {
	s := Spec{Name: "legacy-sdr", EnableSDRToneMapping: true}

	req, err := s.Request()
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	if req.HDRMode() != transform.ToneMapViaDecoder {
		t.Errorf("expected ToneMapViaDecoder, got %v", req.HDRMode())
	}
}

func TestSpecRequestLegacyHDREditing(t *testing.T) {
	s := Spec{Name: "legacy-hdr", EnableHDREditing: true}

	req, err := s.Request()
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	if req.HDRMode() != transform.KeepHDR {
		t.Errorf("expected KeepHDR, got %v", req.HDRMode())
	}
}

func TestSpecRequestLegacyFalseIsNoOp(t *testing.T) {
	s := Spec{Name: "legacy-off", EnableSDRToneMapping: false, EnableHDREditing: false}

	req, err := s.Request()
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	if req.HDRMode() != transform.KeepHDR {
		t.Errorf("expected default KeepHDR, got %v", req.HDRMode())
	}
}

func TestSpecRequestExplicitModeWinsOverLegacy(t *testing.T) {
	s := Spec{
		Name:                 "explicit-wins",
		HDRMode:              "force_interpret_as_sdr",
		EnableSDRToneMapping: true,
	}

	req, err := s.Request()
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	if req.HDRMode() != transform.ForceInterpretAsSDR {
		t.Errorf("expected ForceInterpretAsSDR, got %v", req.HDRMode())
	}
}

func TestSpecRequestInvalidVideoMime(t *testing.T) {
	s := Spec{Name: "bad-video", VideoMimeType: "audio/opus"}

	_, err := s.Request()
	if err == nil {
		t.Fatal("expected error for audio MIME in video slot")
	}

	var presetErr *PresetError
	if !errors.As(err, &presetErr) {
		t.Fatalf("expected *PresetError, got %T", err)
	}
	if presetErr.Code != ErrCodeInvalidPreset {
		t.Errorf("expected code %s, got %s", ErrCodeInvalidPreset, presetErr.Code)
	}
	if !errors.Is(err, transform.ErrInvalidArgument) {
		t.Error("expected the cause to wrap transform.ErrInvalidArgument")
	}
}

func TestSpecRequestInvalidHDRMode(t *testing.T) {
	s := Spec{Name: "bad-hdr", HDRMode: "vivid"}

	_, err := s.Request()
	if err == nil {
		t.Fatal("expected error for unknown HDR mode")
	}

	var presetErr *PresetError
	if !errors.As(err, &presetErr) {
		t.Fatalf("expected *PresetError, got %T", err)
	}
	if presetErr.Code != ErrCodeInvalidPreset {
		t.Errorf("expected code %s, got %s", ErrCodeInvalidPreset, presetErr.Code)
	}
}

func TestSpecCanonicalize(t *testing.T) {
	s := Spec{Name: "canonical", EnableSDRToneMapping: true}

	req, err := s.Canonicalize()
	if err != nil {
		t.Fatalf("Canonicalize failed: %v", err)
	}

	if req.HDRMode() != transform.ToneMapViaDecoder {
		t.Errorf("expected ToneMapViaDecoder, got %v", req.HDRMode())
	}
	if s.HDRMode != "tone_map_via_decoder" {
		t.Errorf("expected canonical hdr_mode written back, got %q", s.HDRMode)
	}
	if s.EnableSDRToneMapping || s.EnableHDREditing {
		t.Error("legacy flags should be cleared after canonicalization")
	}
}

func TestSpecCanonicalizeDefault(t *testing.T) {
	s := Spec{Name: "plain"}

	req, err := s.Canonicalize()
	if err != nil {
		t.Fatalf("Canonicalize failed: %v", err)
	}

	if req.HDRMode() != transform.KeepHDR {
		t.Errorf("expected KeepHDR, got %v", req.HDRMode())
	}
	if s.HDRMode != "keep_hdr" {
		t.Errorf("expected explicit keep_hdr at rest, got %q", s.HDRMode)
	}
}
