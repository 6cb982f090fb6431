// Package mimetype classifies media MIME type strings by their top-level
// type and names the codec MIME types the worker fleet reports. The strings
// follow the identifiers Android media stacks use, which is the vocabulary
// workers declare their encoder support in.
package mimetype

import "strings"

// Video codec MIME types.
const (
	VideoH263 = "video/3gpp"
	VideoH264 = "video/avc"
	VideoH265 = "video/hevc"
	VideoMP4V = "video/mp4v-es"
	VideoVP9  = "video/x-vnd.on2.vp9"
	VideoAV1  = "video/av01"
)

// Audio codec MIME types.
const (
	AudioAAC   = "audio/mp4a-latm"
	AudioAMRNB = "audio/3gpp"
	AudioAMRWB = "audio/amr-wb"
	AudioOpus  = "audio/opus"
	AudioFLAC  = "audio/flac"
)

// BaseType returns the lower-cased top-level type of mime ("video" for
// "video/avc"), or empty when mime has no subtype separator.
func BaseType(mime string) string {
	base, _, ok := strings.Cut(mime, "/")
	if !ok {
		return ""
	}
	return strings.ToLower(base)
}

// IsAudio reports whether mime declares an audio top-level type.
func IsAudio(mime string) bool {
	return BaseType(mime) == "audio"
}

// IsVideo reports whether mime declares a video top-level type.
func IsVideo(mime string) bool {
	return BaseType(mime) == "video"
}
