package transform

import (
	"errors"
	"testing"

	"github.com/smazurov/transformnode/pkg/mimetype"
)

func TestDefaults(t *testing.T) {
	req := NewBuilder().Build()

	if req.FlattenForSlowMotion() {
		t.Error("expected flattenForSlowMotion false by default")
	}
	if req.OutputHeight() != HeightUnset {
		t.Errorf("expected output height unset, got %d", req.OutputHeight())
	}
	if req.AudioMimeType() != "" {
		t.Errorf("expected empty audio MIME type, got %q", req.AudioMimeType())
	}
	if req.VideoMimeType() != "" {
		t.Errorf("expected empty video MIME type, got %q", req.VideoMimeType())
	}
	if req.HDRMode() != KeepHDR {
		t.Errorf("expected KeepHDR by default, got %v", req.HDRMode())
	}
}

func TestZeroValueEqualsDefaultBuild(t *testing.T) {
	var zero Request
	if !zero.Equal(NewBuilder().Build()) {
		t.Error("zero Request should equal a default-built Request")
	}
}

// buildFull returns a request with every field set away from its default.
func buildFull(t *testing.T) Request {
	t.Helper()

	b := NewBuilder().SetFlattenForSlowMotion(true).SetResolution(720)
	if err := b.SetAudioMimeType(mimetype.AudioAAC); err != nil {
		t.Fatalf("SetAudioMimeType failed: %v", err)
	}
	if err := b.SetVideoMimeType(mimetype.VideoH265); err != nil {
		t.Fatalf("SetVideoMimeType failed: %v", err)
	}
	if err := b.SetHDRMode(ToneMapViaGPU); err != nil {
		t.Fatalf("SetHDRMode failed: %v", err)
	}
	return b.Build()
}

func TestBuildSnapshotsFields(t *testing.T) {
	req := buildFull(t)

	if !req.FlattenForSlowMotion() {
		t.Error("expected flattenForSlowMotion true")
	}
	if req.OutputHeight() != 720 {
		t.Errorf("expected output height 720, got %d", req.OutputHeight())
	}
	if req.AudioMimeType() != mimetype.AudioAAC {
		t.Errorf("expected audio MIME %q, got %q", mimetype.AudioAAC, req.AudioMimeType())
	}
	if req.VideoMimeType() != mimetype.VideoH265 {
		t.Errorf("expected video MIME %q, got %q", mimetype.VideoH265, req.VideoMimeType())
	}
	if req.HDRMode() != ToneMapViaGPU {
		t.Errorf("expected ToneMapViaGPU, got %v", req.HDRMode())
	}
}

func TestBuildUponRoundTrip(t *testing.T) {
	cases := []Request{
		NewBuilder().Build(),
		NewBuilder().SetResolution(1080).Build(),
		buildFull(t),
	}

	for _, req := range cases {
		derived := req.BuildUpon().Build()
		if !derived.Equal(req) {
			t.Errorf("BuildUpon().Build() changed the request: %+v vs %+v", derived, req)
		}
	}
}

func TestBuildUponIndependence(t *testing.T) {
	original := buildFull(t)

	b := original.BuildUpon()
	b.SetResolution(480)
	if err := b.SetHDRMode(KeepHDR); err != nil {
		t.Fatalf("SetHDRMode failed: %v", err)
	}
	derived := b.Build()

	if original.OutputHeight() != 720 {
		t.Errorf("original mutated: output height %d", original.OutputHeight())
	}
	if original.HDRMode() != ToneMapViaGPU {
		t.Errorf("original mutated: hdr mode %v", original.HDRMode())
	}
	if derived.OutputHeight() != 480 || derived.HDRMode() != KeepHDR {
		t.Errorf("derived request missing changes: %+v", derived)
	}
}

func TestBuilderReusableAfterBuild(t *testing.T) {
	b := NewBuilder().SetResolution(1080)
	first := b.Build()

	b.SetResolution(720)
	second := b.Build()

	if first.OutputHeight() != 1080 {
		t.Errorf("first build changed by later setter: height %d", first.OutputHeight())
	}
	if second.OutputHeight() != 720 {
		t.Errorf("second build missing new value: height %d", second.OutputHeight())
	}
}

func TestEqualityOverAllFields(t *testing.T) {
	base := buildFull(t)
	same := buildFull(t)

	if !base.Equal(base) {
		t.Error("equality is not reflexive")
	}
	if !base.Equal(same) || !same.Equal(base) {
		t.Error("identically built requests should be equal both ways")
	}

	variants := []func(*Builder) error{
		func(b *Builder) error { b.SetFlattenForSlowMotion(false); return nil },
		func(b *Builder) error { b.SetResolution(1080); return nil },
		func(b *Builder) error { return b.SetAudioMimeType(mimetype.AudioOpus) },
		func(b *Builder) error { return b.SetVideoMimeType(mimetype.VideoH264) },
		func(b *Builder) error { return b.SetHDRMode(ForceInterpretAsSDR) },
	}

	for i, change := range variants {
		b := base.BuildUpon()
		if err := change(b); err != nil {
			t.Fatalf("variant %d setter failed: %v", i, err)
		}
		changed := b.Build()
		if changed.Equal(base) {
			t.Errorf("variant %d: request differing in one field compared equal", i)
		}
	}
}

func TestHashConsistency(t *testing.T) {
	base := buildFull(t)
	same := buildFull(t)

	if base.Hash() != same.Hash() {
		t.Error("equal requests must hash equal")
	}
	if base.Key() != same.Key() {
		t.Error("equal requests must share a key")
	}
	if len(base.Key()) != 16 {
		t.Errorf("expected 16 hex digit key, got %q", base.Key())
	}

	different := NewBuilder().SetResolution(1080).Build()
	if base.Hash() == different.Hash() {
		t.Error("expected differing requests to hash apart")
	}
}

func TestSetVideoMimeTypeValidation(t *testing.T) {
	b := NewBuilder()

	if err := b.SetVideoMimeType(mimetype.VideoH264); err != nil {
		t.Fatalf("video/avc should be accepted: %v", err)
	}

	err := b.SetVideoMimeType(mimetype.AudioAAC)
	if err == nil {
		t.Fatal("audio/mp4a-latm should be rejected by the video setter")
	}
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}

	// A failed setter keeps the prior valid value.
	if got := b.Build().VideoMimeType(); got != mimetype.VideoH264 {
		t.Errorf("failed setter overwrote prior value: %q", got)
	}
}

func TestSetAudioMimeTypeValidation(t *testing.T) {
	b := NewBuilder()

	err := b.SetAudioMimeType(mimetype.VideoH264)
	if err == nil {
		t.Fatal("video/avc should be rejected by the audio setter")
	}
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}

	if err := b.SetAudioMimeType(mimetype.AudioAMRWB); err != nil {
		t.Fatalf("audio/amr-wb should be accepted: %v", err)
	}
	if err := b.SetAudioMimeType(""); err != nil {
		t.Fatalf("clearing the audio MIME type should succeed: %v", err)
	}
	if got := b.Build().AudioMimeType(); got != "" {
		t.Errorf("expected cleared audio MIME type, got %q", got)
	}
}

func TestSetHDRModeRejectsUnknownValues(t *testing.T) {
	b := NewBuilder()
	if err := b.SetHDRMode(ToneMapViaDecoder); err != nil {
		t.Fatalf("SetHDRMode failed: %v", err)
	}

	err := b.SetHDRMode(HDRMode(42))
	if err == nil {
		t.Fatal("expected out-of-range HDR mode to be rejected")
	}
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
	if got := b.Build().HDRMode(); got != ToneMapViaDecoder {
		t.Errorf("failed setter overwrote prior mode: %v", got)
	}
}

func TestSetResolutionStoresVerbatim(t *testing.T) {
	// Height is deliberately not range checked; -5 is representable and the
	// planner is the layer that normalizes it.
	req := NewBuilder().SetResolution(-5).Build()
	if req.OutputHeight() != -5 {
		t.Errorf("expected height stored verbatim, got %d", req.OutputHeight())
	}

	cleared := req.BuildUpon().SetResolution(HeightUnset).Build()
	if cleared.OutputHeight() != HeightUnset {
		t.Errorf("expected height unset, got %d", cleared.OutputHeight())
	}
}

func TestLegacySDRToneMappingMapping(t *testing.T) {
	mode, ok := SDRToneMappingMode(true)
	if !ok || mode != ToneMapViaDecoder {
		t.Fatalf("expected (ToneMapViaDecoder, true), got (%v, %v)", mode, ok)
	}

	viaShim := NewBuilder()
	if err := viaShim.SetHDRMode(mode); err != nil {
		t.Fatalf("SetHDRMode failed: %v", err)
	}
	direct := NewBuilder()
	if err := direct.SetHDRMode(ToneMapViaDecoder); err != nil {
		t.Fatalf("SetHDRMode failed: %v", err)
	}
	if !viaShim.Build().Equal(direct.Build()) {
		t.Error("shim-selected mode must build the same request as the direct mode")
	}

	if _, ok := SDRToneMappingMode(false); ok {
		t.Error("a false flag selects nothing")
	}
}

func TestLegacyHDREditingMapping(t *testing.T) {
	mode, ok := HDREditingMode(true)
	if !ok || mode != KeepHDR {
		t.Fatalf("expected (KeepHDR, true), got (%v, %v)", mode, ok)
	}
	if _, ok := HDREditingMode(false); ok {
		t.Error("a false flag selects nothing")
	}
}

func TestRequestUsableAsMapKey(t *testing.T) {
	cache := map[Request]string{}
	cache[buildFull(t)] = "artifact-1"

	if got, exists := cache[buildFull(t)]; !exists || got != "artifact-1" {
		t.Errorf("equal request should hit the same map entry, got (%q, %v)", got, exists)
	}
}
