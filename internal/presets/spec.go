package presets

import (
	"fmt"
	"regexp"
	"time"

	"github.com/smazurov/transformnode/pkg/transform"
)

// namePattern restricts preset names to something safe for file paths and URLs.
var namePattern = regexp.MustCompile(`^[a-z0-9-]{1,64}$`)

// Spec represents a single stored preset.
// This is the persistent configuration for each preset, carrying the
// transformation request fields plus bookkeeping metadata.
type Spec struct {
	// Name is the unique identifier for this preset
	Name string `toml:"name" json:"name"`

	// FlattenForSlowMotion collapses slow-motion metadata into a
	// normal-rate output
	FlattenForSlowMotion bool `toml:"flatten_for_slow_motion" json:"flatten_for_slow_motion"`

	// OutputHeight is the requested output height in pixels
	// Zero keeps the source height
	OutputHeight int `toml:"output_height" json:"output_height"`

	// AudioMimeType is the requested audio MIME type
	// Empty keeps the source audio codec
	AudioMimeType string `toml:"audio_mime_type,omitempty" json:"audio_mime_type,omitempty"`

	// VideoMimeType is the requested video MIME type
	// Empty keeps the source video codec
	VideoMimeType string `toml:"video_mime_type,omitempty" json:"video_mime_type,omitempty"`

	// HDRMode names the HDR handling mode ("keep_hdr", "tone_map_via_decoder",
	// "tone_map_via_gpu", "force_interpret_as_sdr")
	// Empty means keep_hdr
	HDRMode string `toml:"hdr_mode,omitempty" json:"hdr_mode,omitempty"`

	// EnableSDRToneMapping is a legacy flag kept for preset files written
	// before hdr_mode existed. True maps to tone_map_via_decoder, false is
	// a no-op. An explicit HDRMode wins over it.
	EnableSDRToneMapping bool `toml:"enable_sdr_tone_mapping,omitempty" json:"enable_sdr_tone_mapping,omitempty"`

	// EnableHDREditing is a legacy flag kept for preset files written
	// before hdr_mode existed. True maps to keep_hdr, false is a no-op.
	// An explicit HDRMode wins over it.
	EnableHDREditing bool `toml:"enable_hdr_editing,omitempty" json:"enable_hdr_editing,omitempty"`

	// CreatedAt timestamp when the preset was first created
	CreatedAt time.Time `toml:"created_at" json:"created_at"`

	// UpdatedAt timestamp when the preset was last modified
	UpdatedAt time.Time `toml:"updated_at" json:"updated_at"`
}

// ValidateName checks that the preset name is usable as an identifier.
func (s *Spec) ValidateName() error {
	if !namePattern.MatchString(s.Name) {
		return NewPresetError(ErrCodeInvalidPreset,
			fmt.Sprintf("invalid preset name %q (lowercase alphanumeric and dashes, 1-64 chars)", s.Name), nil)
	}
	return nil
}

// Request resolves the spec into a validated transformation request.
// Legacy flags are applied first so an explicit HDRMode wins.
func (s *Spec) Request() (transform.Request, error) {
	b := transform.NewBuilder().
		SetFlattenForSlowMotion(s.FlattenForSlowMotion).
		SetResolution(s.OutputHeight)

	if err := b.SetVideoMimeType(s.VideoMimeType); err != nil {
		return transform.Request{}, NewPresetError(ErrCodeInvalidPreset, "invalid video MIME type", err)
	}
	if err := b.SetAudioMimeType(s.AudioMimeType); err != nil {
		return transform.Request{}, NewPresetError(ErrCodeInvalidPreset, "invalid audio MIME type", err)
	}

	if mode, ok := transform.SDRToneMappingMode(s.EnableSDRToneMapping); ok {
		if err := b.SetHDRMode(mode); err != nil {
			return transform.Request{}, NewPresetError(ErrCodeInvalidPreset, "invalid HDR mode", err)
		}
	}
	if mode, ok := transform.HDREditingMode(s.EnableHDREditing); ok {
		if err := b.SetHDRMode(mode); err != nil {
			return transform.Request{}, NewPresetError(ErrCodeInvalidPreset, "invalid HDR mode", err)
		}
	}
	if s.HDRMode != "" {
		mode, err := transform.ParseHDRMode(s.HDRMode)
		if err != nil {
			return transform.Request{}, NewPresetError(ErrCodeInvalidPreset,
				fmt.Sprintf("invalid HDR mode %q", s.HDRMode), err)
		}
		if err := b.SetHDRMode(mode); err != nil {
			return transform.Request{}, NewPresetError(ErrCodeInvalidPreset, "invalid HDR mode", err)
		}
	}

	return b.Build(), nil
}

// Canonicalize resolves the spec and rewrites it into its stored form:
// the effective HDR mode is written out explicitly and the legacy flags
// are cleared, so files round-trip without the compatibility keys.
func (s *Spec) Canonicalize() (transform.Request, error) {
	req, err := s.Request()
	if err != nil {
		return transform.Request{}, err
	}

	s.HDRMode = req.HDRMode().String()
	s.EnableSDRToneMapping = false
	s.EnableHDREditing = false
	return req, nil
}
