// Package planner decides how the worker fleet will honor a transformation
// request. Planning is pure policy over the declared capability profile: the
// planner never touches media. Where the profile cannot honor a field, the
// planner derives a fallback request and records every change, so callers
// always see exactly what the fleet will run.
package planner

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/smazurov/transformnode/internal/capability"
	"github.com/smazurov/transformnode/internal/metrics"
	"github.com/smazurov/transformnode/pkg/transform"
)

// SourceFormat describes the input media as far as the caller knows it.
// Zero fields mean unknown; HDR policy only applies when the caller declares
// an HDR source.
type SourceFormat struct {
	Width  int  `json:"width,omitempty"`
	Height int  `json:"height,omitempty"`
	HDR    bool `json:"hdr,omitempty"`
}

// Fallback field identifiers.
const (
	FieldVideoMimeType = "video_mime_type"
	FieldAudioMimeType = "audio_mime_type"
	FieldResolution    = "resolution"
	FieldHDRMode       = "hdr_mode"
)

// Fallback records one request field the planner changed to keep the request
// executable.
type Fallback struct {
	Field  string `json:"field"`
	From   string `json:"from"`
	To     string `json:"to"`
	Reason string `json:"reason"`
}

// VideoDisposition is the video side of a plan.
type VideoDisposition struct {
	// MimeType is the codec the fleet will encode with, empty to keep the
	// source codec.
	MimeType string `json:"mime_type,omitempty"`

	// Height and Width are the displayed output dimensions. Width is derived
	// from the source aspect ratio, rounded up to even for the encoders;
	// both are zero when the input dimensions are kept or unknown.
	Height int `json:"height,omitempty"`
	Width  int `json:"width,omitempty"`

	// SwapDimensions tells the worker to encode with width and height
	// swapped because the displayed output is portrait. Encoder support for
	// portrait dimensions is uneven across the fleet.
	SwapDimensions bool `json:"swap_dimensions,omitempty"`
}

// AudioDisposition is the audio side of a plan.
type AudioDisposition struct {
	// MimeType is the codec the fleet will encode with, empty to keep the
	// source codec.
	MimeType string `json:"mime_type,omitempty"`
}

// HDRDisposition is the HDR handling side of a plan.
type HDRDisposition struct {
	Mode transform.HDRMode `json:"mode"`

	// ToneMapped reports whether the fleet will tone map the input down to
	// SDR. Always false for SDR input.
	ToneMapped bool `json:"tone_mapped"`
}

// Plan is the planner's decision for one request against the current
// capability profile.
type Plan struct {
	// Request is the effective request after fallback, derived from the
	// original. It equals the original when Fallbacks is empty.
	Request transform.Request `json:"-"`

	Profile   string     `json:"profile"`
	Fallbacks []Fallback `json:"fallbacks,omitempty"`

	Video VideoDisposition `json:"video"`
	Audio AudioDisposition `json:"audio"`
	HDR   HDRDisposition   `json:"hdr"`
}

// Honored reports whether the original request passed through unchanged.
func (p Plan) Honored() bool {
	return len(p.Fallbacks) == 0
}

// PlanError reports a request the current profile cannot execute at all.
type PlanError struct {
	Code    string
	Message string
}

func (e *PlanError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Plan error codes.
const (
	ErrCodeUnsupportedHDR = "UNSUPPORTED_HDR_MODE"
	ErrCodeNoVideoCodec   = "NO_VIDEO_CODEC"
	ErrCodeNoAudioCodec   = "NO_AUDIO_CODEC"
)

// Planner plans requests against the capability profile currently in effect.
type Planner struct {
	caps   *capability.Store
	logger *slog.Logger
}

// New creates a planner reading profiles from caps.
func New(caps *capability.Store, logger *slog.Logger) *Planner {
	return &Planner{caps: caps, logger: logger}
}

// Plan decides how the fleet will execute req against the current profile.
// The returned plan's request is derived from req and never aliases it; req
// itself is untouched. Requests the profile cannot execute fail with a
// *PlanError.
func (p *Planner) Plan(req transform.Request, src SourceFormat) (Plan, error) {
	profile := p.caps.Current()

	plan, err := derive(req, src, profile)
	if err != nil {
		metrics.ObservePlan(metrics.PlanUnsupported)
		p.logger.Warn("Request cannot be planned",
			"request", req.Key(),
			"profile", profile.Name,
			"error", err)
		return Plan{}, err
	}

	if plan.Honored() {
		metrics.ObservePlan(metrics.PlanHonored)
	} else {
		metrics.ObservePlan(metrics.PlanFallback)
		for _, fb := range plan.Fallbacks {
			metrics.ObservePlanFallback(fb.Field)
			p.logger.Debug("Applied fallback",
				"request", req.Key(),
				"field", fb.Field,
				"from", fb.From,
				"to", fb.To,
				"reason", fb.Reason)
		}
	}

	return plan, nil
}

// derive computes the plan. Setter errors below are impossible by
// construction (fallback values come from a validated profile), so they
// surface as plain errors rather than panics if a bug ever breaks that.
func derive(req transform.Request, src SourceFormat, profile capability.Profile) (Plan, error) {
	var fallbacks []Fallback
	b := req.BuildUpon()

	videoMime, videoCodec, fb, err := planCodec(
		req.VideoMimeType(), profile.VideoCodecs, profile.DefaultVideo,
		FieldVideoMimeType, ErrCodeNoVideoCodec, "video", profile.Name)
	if err != nil {
		return Plan{}, err
	}
	if fb != nil {
		if setErr := b.SetVideoMimeType(videoMime); setErr != nil {
			return Plan{}, fmt.Errorf("profile default video codec rejected: %w", setErr)
		}
		fallbacks = append(fallbacks, *fb)
	}

	audioMime, _, fb, err := planCodec(
		req.AudioMimeType(), profile.AudioCodecs, profile.DefaultAudio,
		FieldAudioMimeType, ErrCodeNoAudioCodec, "audio", profile.Name)
	if err != nil {
		return Plan{}, err
	}
	if fb != nil {
		if setErr := b.SetAudioMimeType(audioMime); setErr != nil {
			return Plan{}, fmt.Errorf("profile default audio codec rejected: %w", setErr)
		}
		fallbacks = append(fallbacks, *fb)
	}

	height, fb := planHeight(req.OutputHeight(), videoCodec)
	if fb != nil {
		b.SetResolution(height)
		fallbacks = append(fallbacks, *fb)
	}

	hdr, fb, err := planHDR(req.HDRMode(), src, profile)
	if err != nil {
		return Plan{}, err
	}
	if fb != nil {
		if setErr := b.SetHDRMode(hdr.Mode); setErr != nil {
			return Plan{}, fmt.Errorf("fallback HDR mode rejected: %w", setErr)
		}
		fallbacks = append(fallbacks, *fb)
	}

	effective := b.Build()
	plan := Plan{
		Request:   effective,
		Profile:   profile.Name,
		Fallbacks: fallbacks,
		Video:     planVideoDimensions(effective.OutputHeight(), src),
		Audio:     AudioDisposition{MimeType: audioMime},
		HDR:       hdr,
	}
	plan.Video.MimeType = videoMime
	return plan, nil
}

// planCodec resolves a requested codec against the declared list. An unset
// request keeps the source codec and never falls back.
func planCodec(
	requested string,
	declared []capability.Codec,
	defaultCodec func() (capability.Codec, bool),
	field, errCode, kind, profileName string,
) (mime string, selected capability.Codec, fb *Fallback, err error) {
	if requested == "" {
		return "", capability.Codec{}, nil, nil
	}

	if codec, ok := findCodec(declared, requested); ok {
		return requested, codec, nil, nil
	}

	def, ok := defaultCodec()
	if !ok {
		return "", capability.Codec{}, nil, &PlanError{
			Code: errCode,
			Message: fmt.Sprintf("profile %q declares neither %s nor a default %s codec",
				profileName, requested, kind),
		}
	}

	return def.MimeType, def, &Fallback{
		Field:  field,
		From:   requested,
		To:     def.MimeType,
		Reason: fmt.Sprintf("profile %q does not declare %s", profileName, requested),
	}, nil
}

func findCodec(codecs []capability.Codec, mime string) (capability.Codec, bool) {
	for _, c := range codecs {
		if c.MimeType == mime {
			return c, true
		}
	}
	return capability.Codec{}, false
}

// planHeight normalizes non-positive heights to unset and clamps positive
// ones to the selected codec's cap. Height caps only apply when the request
// names a codec; a keep-source-codec request scales with whatever encoder
// the worker picks.
func planHeight(requested int, codec capability.Codec) (int, *Fallback) {
	if requested < 0 {
		return transform.HeightUnset, &Fallback{
			Field:  FieldResolution,
			From:   strconv.Itoa(requested),
			To:     "unset",
			Reason: "non-positive height, keeping input dimensions",
		}
	}

	if requested > 0 && codec.MaxHeight > 0 && requested > codec.MaxHeight {
		return codec.MaxHeight, &Fallback{
			Field:  FieldResolution,
			From:   strconv.Itoa(requested),
			To:     strconv.Itoa(codec.MaxHeight),
			Reason: fmt.Sprintf("%s caps output height at %d", codec.MimeType, codec.MaxHeight),
		}
	}

	return requested, nil
}

// planHDR applies HDR policy for HDR sources. KeepHDR degrades to a
// supported tone-mapper when the fleet cannot keep HDR; an explicitly
// requested tone-mapper is never silently substituted.
func planHDR(mode transform.HDRMode, src SourceFormat, profile capability.Profile) (HDRDisposition, *Fallback, error) {
	if !src.HDR {
		return HDRDisposition{Mode: mode}, nil, nil
	}

	if profile.HDR.Supports(mode) {
		return HDRDisposition{Mode: mode, ToneMapped: toneMaps(mode)}, nil, nil
	}

	if mode == transform.KeepHDR {
		for _, candidate := range []transform.HDRMode{transform.ToneMapViaDecoder, transform.ToneMapViaGPU} {
			if profile.HDR.Supports(candidate) {
				return HDRDisposition{Mode: candidate, ToneMapped: true}, &Fallback{
					Field:  FieldHDRMode,
					From:   mode.String(),
					To:     candidate.String(),
					Reason: fmt.Sprintf("profile %q cannot keep HDR", profile.Name),
				}, nil
			}
		}
	}

	return HDRDisposition{}, nil, &PlanError{
		Code: ErrCodeUnsupportedHDR,
		Message: fmt.Sprintf("profile %q cannot execute %s on HDR input",
			profile.Name, mode),
	}
}

func toneMaps(mode transform.HDRMode) bool {
	return mode == transform.ToneMapViaDecoder || mode == transform.ToneMapViaGPU
}

// planVideoDimensions derives the displayed output dimensions once source
// dimensions are known. Width preserves the source aspect ratio and is
// rounded up to even.
func planVideoDimensions(height int, src SourceFormat) VideoDisposition {
	var v VideoDisposition

	outWidth, outHeight := src.Width, src.Height
	if height > 0 {
		v.Height = height
		outHeight = height
		if src.Width > 0 && src.Height > 0 {
			v.Width = scaledWidth(src.Width, src.Height, height)
			outWidth = v.Width
		} else {
			outWidth = 0
		}
	}

	if outWidth > 0 && outHeight > outWidth {
		v.SwapDimensions = true
	}
	return v
}

func scaledWidth(srcWidth, srcHeight, targetHeight int) int {
	aspectRatio := float64(srcWidth) / float64(srcHeight)
	width := int(float64(targetHeight) * aspectRatio)
	if width%2 != 0 {
		width++
	}
	return width
}
