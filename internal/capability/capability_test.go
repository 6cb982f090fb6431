package capability

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/smazurov/transformnode/pkg/mimetype"
	"github.com/smazurov/transformnode/pkg/transform"
)

// writeProfile writes a profile file into a temp dir and returns its path.
func writeProfile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "capabilities.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write profile file: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeProfile(t, `
version = 1

[profile]
name = "gpu-pool"

[[profile.video_codecs]]
mime_type = "video/avc"
max_height = 2160
default = true

[[profile.video_codecs]]
mime_type = "video/hevc"

[[profile.audio_codecs]]
mime_type = "audio/mp4a-latm"
default = true

[profile.hdr]
keep_hdr = true
tone_map_gpu = true
`)

	profile, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if profile.Name != "gpu-pool" {
		t.Errorf("expected name gpu-pool, got %q", profile.Name)
	}
	if len(profile.VideoCodecs) != 2 || len(profile.AudioCodecs) != 1 {
		t.Errorf("unexpected codec counts: %d video, %d audio",
			len(profile.VideoCodecs), len(profile.AudioCodecs))
	}

	avc, ok := profile.Video(mimetype.VideoH264)
	if !ok {
		t.Fatal("video/avc should be declared")
	}
	if avc.MaxHeight != 2160 || !avc.Default {
		t.Errorf("unexpected avc entry: %+v", avc)
	}

	if !profile.HDR.Supports(transform.KeepHDR) {
		t.Error("profile should support KeepHDR")
	}
	if profile.HDR.Supports(transform.ToneMapViaDecoder) {
		t.Error("profile should not support decoder tone mapping")
	}
	if !profile.HDR.Supports(transform.ForceInterpretAsSDR) {
		t.Error("ForceInterpretAsSDR is always supported")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist in chain, got %v", err)
	}
}

func TestLoadRejectsInvalidProfiles(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{
			name: "audio mime in video list",
			content: `
[[profile.video_codecs]]
mime_type = "audio/mp4a-latm"
`,
		},
		{
			name: "two video defaults",
			content: `
[[profile.video_codecs]]
mime_type = "video/avc"
default = true

[[profile.video_codecs]]
mime_type = "video/hevc"
default = true
`,
		},
		{
			name: "negative max height",
			content: `
[[profile.video_codecs]]
mime_type = "video/avc"
max_height = -1
`,
		},
		{
			name: "duplicate codec",
			content: `
[[profile.audio_codecs]]
mime_type = "audio/opus"

[[profile.audio_codecs]]
mime_type = "audio/opus"
`,
		},
		{
			name:    "future version",
			content: "version = 2\n",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(writeProfile(t, tc.content)); err == nil {
				t.Error("expected Load to fail")
			}
		})
	}
}

func TestDefaultProfile(t *testing.T) {
	profile := DefaultProfile()

	if err := profile.Validate(); err != nil {
		t.Fatalf("default profile should validate: %v", err)
	}

	video, ok := profile.DefaultVideo()
	if !ok || video.MimeType != mimetype.VideoH264 {
		t.Errorf("expected video/avc default, got %+v (ok=%v)", video, ok)
	}
	audio, ok := profile.DefaultAudio()
	if !ok || audio.MimeType != mimetype.AudioAAC {
		t.Errorf("expected audio/mp4a-latm default, got %+v (ok=%v)", audio, ok)
	}

	if profile.HDR.Supports(transform.KeepHDR) {
		t.Error("baseline profile should not claim HDR output")
	}
}

func TestStoreSwap(t *testing.T) {
	store := NewStore(DefaultProfile())

	if got := store.Current().Name; got != "portable-baseline" {
		t.Errorf("expected portable-baseline, got %q", got)
	}

	store.Swap(Profile{Name: "gpu-pool"})
	if got := store.Current().Name; got != "gpu-pool" {
		t.Errorf("expected gpu-pool after swap, got %q", got)
	}
}
