package transform

import (
	"fmt"

	"github.com/smazurov/transformnode/pkg/mimetype"
)

// Builder accumulates request fields and materializes them with Build. A
// fresh Builder carries the same defaults as the zero Request. Builders are
// plain mutable scratch state: not safe for concurrent use, reusable after
// Build, and never aliased by the requests they produce.
//
// Setters that cannot fail return the builder for chaining; setters that
// validate return an error instead, and leave the builder's prior value in
// place when they reject.
type Builder struct {
	flattenForSlowMotion bool
	outputHeight         int
	audioMimeType        string
	videoMimeType        string
	hdrMode              HDRMode
}

// NewBuilder returns a Builder with all defaults: no flattening, height
// unset, source codecs kept, KeepHDR.
func NewBuilder() *Builder {
	return &Builder{}
}

// SetFlattenForSlowMotion sets whether media containing slow-motion markers
// should be flattened: the markers are dropped and the marked stretches of
// video and audio are actually slowed down in the output samples. Only
// Samsung Extension Format (SEF) markers are honored downstream; input
// without them is unaffected.
func (b *Builder) SetFlattenForSlowMotion(flatten bool) *Builder {
	b.flattenForSlowMotion = flatten
	return b
}

// SetResolution sets the height of the displayed output video in pixels, or
// HeightUnset to keep the input dimensions. Output width scales downstream
// to preserve the aspect ratio: a 1920x1440 input becomes 640x480 with
// SetResolution(480). The value is stored as given; unlike the MIME setters
// this one does not validate.
func (b *Builder) SetResolution(outputHeight int) *Builder {
	b.outputHeight = outputHeight
	return b
}

// SetVideoMimeType sets the video MIME type of the output, or empty to keep
// the source video codec. Non-empty values must classify as video, else an
// error wrapping ErrInvalidArgument is returned and the builder keeps its
// prior value.
func (b *Builder) SetVideoMimeType(mime string) error {
	if mime != "" && !mimetype.IsVideo(mime) {
		return fmt.Errorf("not a video MIME type: %q: %w", mime, ErrInvalidArgument)
	}
	b.videoMimeType = mime
	return nil
}

// SetAudioMimeType sets the audio MIME type of the output, or empty to keep
// the source audio codec. Non-empty values must classify as audio, else an
// error wrapping ErrInvalidArgument is returned and the builder keeps its
// prior value.
func (b *Builder) SetAudioMimeType(mime string) error {
	if mime != "" && !mimetype.IsAudio(mime) {
		return fmt.Errorf("not an audio MIME type: %q: %w", mime, ErrInvalidArgument)
	}
	b.audioMimeType = mime
	return nil
}

// SetHDRMode sets the strategy for HDR input video. The default is KeepHDR.
// Values outside the four defined modes are rejected with an error wrapping
// ErrInvalidArgument, and the builder keeps its prior mode.
func (b *Builder) SetHDRMode(mode HDRMode) error {
	if !mode.Valid() {
		return fmt.Errorf("invalid HDR mode %d: %w", int(mode), ErrInvalidArgument)
	}
	b.hdrMode = mode
	return nil
}

// Build snapshots the current fields into a new immutable Request. Build
// never fails: every field was validated when it was set. The builder stays
// usable afterwards and shares no state with the returned request.
func (b *Builder) Build() Request {
	return Request{
		flattenForSlowMotion: b.flattenForSlowMotion,
		outputHeight:         b.outputHeight,
		audioMimeType:        b.audioMimeType,
		videoMimeType:        b.videoMimeType,
		hdrMode:              b.hdrMode,
	}
}
