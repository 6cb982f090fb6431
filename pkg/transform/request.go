// Package transform defines the transformation request descriptor: the
// immutable, validated configuration a caller hands to a transcoding
// pipeline. A Request carries the five knobs the pipeline honors (slow-motion
// flattening, output height, output audio and video MIME types, HDR handling)
// and nothing else; everything about how the pipeline satisfies them belongs
// to the pipeline.
//
// Requests are built through a Builder, which validates each field as it is
// set, so every reachable Request is valid by construction. Built requests
// are plain comparable values: safe to copy, share across goroutines, and
// use as map keys.
package transform

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
)

// HeightUnset leaves the output dimensions unchanged from the input.
const HeightUnset = 0

// Request is an immutable transformation request. The zero Request equals
// NewBuilder().Build() and asks for a passthrough: keep source codecs, keep
// dimensions, keep HDR. Two requests are equal exactly when all five fields
// are equal, and equal requests share a Hash, which is what lets
// collaborators cache pipeline results keyed by request.
type Request struct {
	flattenForSlowMotion bool
	outputHeight         int
	audioMimeType        string
	videoMimeType        string
	hdrMode              HDRMode
}

// FlattenForSlowMotion reports whether slow-motion metadata should be
// flattened into the output samples.
func (r Request) FlattenForSlowMotion() bool { return r.flattenForSlowMotion }

// OutputHeight returns the requested height of the output video in pixels,
// or HeightUnset when the input dimensions should be kept. Output width is
// derived downstream to preserve the aspect ratio.
func (r Request) OutputHeight() int { return r.outputHeight }

// AudioMimeType returns the requested output audio MIME type, or empty when
// the source audio codec should be kept.
func (r Request) AudioMimeType() string { return r.audioMimeType }

// VideoMimeType returns the requested output video MIME type, or empty when
// the source video codec should be kept.
func (r Request) VideoMimeType() string { return r.videoMimeType }

// HDRMode returns the strategy for handling HDR input video.
func (r Request) HDRMode() HDRMode { return r.hdrMode }

// Equal reports field-for-field equality with o. Request is comparable, so
// this is the == operator behind a name.
func (r Request) Equal(o Request) bool { return r == o }

// Hash returns a deterministic 64-bit FNV-1a hash over all five fields.
// Equal requests always hash equal, across processes and restarts, so the
// hash can key caches and appear in URLs.
func (r Request) Hash() uint64 {
	h := fnv.New64a()
	var b [8]byte
	if r.flattenForSlowMotion {
		b[0] = 1
	}
	h.Write(b[:1])
	binary.BigEndian.PutUint64(b[:], uint64(int64(r.outputHeight)))
	h.Write(b[:])
	// Strings are length-prefixed so field boundaries stay unambiguous.
	binary.BigEndian.PutUint32(b[:4], uint32(len(r.audioMimeType)))
	h.Write(b[:4])
	h.Write([]byte(r.audioMimeType))
	binary.BigEndian.PutUint32(b[:4], uint32(len(r.videoMimeType)))
	h.Write(b[:4])
	h.Write([]byte(r.videoMimeType))
	h.Write([]byte{byte(r.hdrMode)})
	return h.Sum64()
}

// Key returns the request hash as fixed-width hex.
func (r Request) Key() string {
	return fmt.Sprintf("%016x", r.Hash())
}

// BuildUpon returns a new Builder seeded with a copy of this request's
// fields. The builder owns the copy: later setter calls never modify r, and
// building without further calls yields a request equal to r.
func (r Request) BuildUpon() *Builder {
	return &Builder{
		flattenForSlowMotion: r.flattenForSlowMotion,
		outputHeight:         r.outputHeight,
		audioMimeType:        r.audioMimeType,
		videoMimeType:        r.videoMimeType,
		hdrMode:              r.hdrMode,
	}
}
