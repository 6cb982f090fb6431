// Package capability models the declared encoder capabilities of the worker
// fleet. Profiles are authored by operators or exported by fleet tooling and
// loaded from TOML; the node never probes hardware itself. The planner reads
// the current profile to decide which transformation requests can be honored
// and which need fallback.
package capability

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/smazurov/transformnode/pkg/mimetype"
	"github.com/smazurov/transformnode/pkg/transform"
)

// Codec declares one encoder the fleet provides.
type Codec struct {
	// MimeType identifies the codec ("video/avc", "audio/mp4a-latm").
	MimeType string `toml:"mime_type" json:"mime_type"`

	// MaxHeight caps the output height this codec can encode, in pixels.
	// Zero means no cap.
	MaxHeight int `toml:"max_height,omitempty" json:"max_height,omitempty"`

	// Default marks the fallback target when a requested codec of the same
	// kind is unavailable. At most one codec per kind may carry it.
	Default bool `toml:"default,omitempty" json:"default,omitempty"`
}

// HDRSupport declares which HDR strategies the fleet can execute.
// ForceInterpretAsSDR needs no flag: reinterpreting HDR as SDR happens on
// the decode side and is always available.
type HDRSupport struct {
	KeepHDR        bool `toml:"keep_hdr" json:"keep_hdr"`
	ToneMapDecoder bool `toml:"tone_map_decoder" json:"tone_map_decoder"`
	ToneMapGPU     bool `toml:"tone_map_gpu" json:"tone_map_gpu"`
}

// Supports reports whether the fleet can execute mode on HDR input.
func (h HDRSupport) Supports(mode transform.HDRMode) bool {
	switch mode {
	case transform.KeepHDR:
		return h.KeepHDR
	case transform.ToneMapViaDecoder:
		return h.ToneMapDecoder
	case transform.ToneMapViaGPU:
		return h.ToneMapGPU
	case transform.ForceInterpretAsSDR:
		return true
	default:
		return false
	}
}

// Profile is the complete declared capability set of a worker fleet.
type Profile struct {
	// Name labels the profile in logs and the API ("portable-baseline",
	// "gpu-pool-eu").
	Name string `toml:"name" json:"name"`

	VideoCodecs []Codec    `toml:"video_codecs" json:"video_codecs"`
	AudioCodecs []Codec    `toml:"audio_codecs" json:"audio_codecs"`
	HDR         HDRSupport `toml:"hdr" json:"hdr"`
}

// Video returns the declared codec entry for mime.
func (p Profile) Video(mime string) (Codec, bool) {
	return findCodec(p.VideoCodecs, mime)
}

// Audio returns the declared codec entry for mime.
func (p Profile) Audio(mime string) (Codec, bool) {
	return findCodec(p.AudioCodecs, mime)
}

// DefaultVideo returns the video codec marked as the fallback default.
func (p Profile) DefaultVideo() (Codec, bool) {
	return findDefault(p.VideoCodecs)
}

// DefaultAudio returns the audio codec marked as the fallback default.
func (p Profile) DefaultAudio() (Codec, bool) {
	return findDefault(p.AudioCodecs)
}

func findCodec(codecs []Codec, mime string) (Codec, bool) {
	for _, c := range codecs {
		if c.MimeType == mime {
			return c, true
		}
	}
	return Codec{}, false
}

func findDefault(codecs []Codec) (Codec, bool) {
	for _, c := range codecs {
		if c.Default {
			return c, true
		}
	}
	return Codec{}, false
}

// Validate checks the profile's internal consistency: every video codec must
// carry a video MIME type, every audio codec an audio one, height caps must
// not be negative, and each kind may mark at most one default.
func (p Profile) Validate() error {
	if err := validateCodecs(p.VideoCodecs, "video", mimetype.IsVideo); err != nil {
		return err
	}
	if err := validateCodecs(p.AudioCodecs, "audio", mimetype.IsAudio); err != nil {
		return err
	}
	return nil
}

func validateCodecs(codecs []Codec, kind string, isKind func(string) bool) error {
	defaults := 0
	seen := make(map[string]bool, len(codecs))
	for _, c := range codecs {
		if !isKind(c.MimeType) {
			return fmt.Errorf("not a %s MIME type in %s codec list: %q", kind, kind, c.MimeType)
		}
		if seen[c.MimeType] {
			return fmt.Errorf("duplicate %s codec %q", kind, c.MimeType)
		}
		seen[c.MimeType] = true
		if c.MaxHeight < 0 {
			return fmt.Errorf("%s codec %q has negative max height %d", kind, c.MimeType, c.MaxHeight)
		}
		if c.Default {
			defaults++
		}
	}
	if defaults > 1 {
		return fmt.Errorf("%d %s codecs marked default, at most one allowed", defaults, kind)
	}
	return nil
}

// profileFile is the on-disk TOML shape.
type profileFile struct {
	Version int     `toml:"version"`
	Profile Profile `toml:"profile"`
}

// Load reads and validates a capability profile from a TOML file. A missing
// file surfaces as an error matching fs.ErrNotExist, so callers can choose
// to fall back to DefaultProfile.
func Load(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to read capability profile: %w", err)
	}

	var file profileFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return Profile{}, fmt.Errorf("failed to parse capability profile: %w", err)
	}
	if file.Version > 1 {
		return Profile{}, fmt.Errorf("unsupported capability profile version %d", file.Version)
	}

	if err := file.Profile.Validate(); err != nil {
		return Profile{}, fmt.Errorf("invalid capability profile: %w", err)
	}
	return file.Profile, nil
}

// DefaultProfile returns the portable baseline every worker build ships:
// AVC/HEVC/H.263/MPEG-4 video with AVC as fallback, AAC/AMR audio with AAC
// as fallback, no HDR execution.
func DefaultProfile() Profile {
	return Profile{
		Name: "portable-baseline",
		VideoCodecs: []Codec{
			{MimeType: mimetype.VideoH264, Default: true},
			{MimeType: mimetype.VideoH265},
			{MimeType: mimetype.VideoH263, MaxHeight: 576},
			{MimeType: mimetype.VideoMP4V},
		},
		AudioCodecs: []Codec{
			{MimeType: mimetype.AudioAAC, Default: true},
			{MimeType: mimetype.AudioAMRNB},
			{MimeType: mimetype.AudioAMRWB},
		},
	}
}
