package models

import "time"

// Health check models
type HealthData struct {
	Status  string `json:"status" example:"ok" doc:"Service status"`
	Message string `json:"message" example:"API is healthy" doc:"Status message"`
}

type HealthResponse struct {
	Body HealthData
}

// TransformRequestData is the wire form of a transformation request.
// It appears inline in preset, validation, planning and artifact bodies.
// The legacy enable_* flags are accepted on input for callers that predate
// the hdr_mode field; an explicit hdr_mode always wins over them.
type TransformRequestData struct {
	FlattenForSlowMotion bool   `json:"flatten_for_slow_motion,omitempty" example:"false" doc:"Collapse slow-motion metadata into a normal-rate output"`
	OutputHeight         int    `json:"output_height,omitempty" example:"720" doc:"Requested output height in pixels (0 keeps the source height)"`
	AudioMimeType        string `json:"audio_mime_type,omitempty" example:"audio/mp4a-latm" doc:"Requested audio MIME type (empty keeps the source codec)"`
	VideoMimeType        string `json:"video_mime_type,omitempty" example:"video/avc" doc:"Requested video MIME type (empty keeps the source codec)"`
	HDRMode              string `json:"hdr_mode,omitempty" enum:"keep_hdr,tone_map_via_decoder,tone_map_via_gpu,force_interpret_as_sdr" example:"keep_hdr" doc:"HDR handling mode (defaults to keep_hdr)"`
	EnableSDRToneMapping bool   `json:"enable_sdr_tone_mapping,omitempty" example:"false" doc:"Legacy flag: request decoder tone-mapping (ignored when false)"`
	EnableHDREditing     bool   `json:"enable_hdr_editing,omitempty" example:"false" doc:"Legacy flag: request HDR-preserving output (ignored when false)"`
}

// Preset models
type PresetData struct {
	Name                 string    `json:"name" example:"mobile-720p" doc:"Unique preset name"`
	FlattenForSlowMotion bool      `json:"flatten_for_slow_motion" example:"false" doc:"Collapse slow-motion metadata into a normal-rate output"`
	OutputHeight         int       `json:"output_height" example:"720" doc:"Requested output height in pixels (0 keeps the source height)"`
	AudioMimeType        string    `json:"audio_mime_type,omitempty" example:"audio/mp4a-latm" doc:"Requested audio MIME type"`
	VideoMimeType        string    `json:"video_mime_type,omitempty" example:"video/avc" doc:"Requested video MIME type"`
	HDRMode              string    `json:"hdr_mode" example:"keep_hdr" doc:"HDR handling mode"`
	RequestKey           string    `json:"request_key" example:"9c5f2a4d8e1b3c70" doc:"Stable key derived from the request fields"`
	CreatedAt            time.Time `json:"created_at" doc:"When the preset was first created"`
	UpdatedAt            time.Time `json:"updated_at" doc:"When the preset was last modified"`
}

type PresetListData struct {
	Presets []PresetData `json:"presets" doc:"List of stored presets"`
	Count   int          `json:"count" example:"2" doc:"Number of stored presets"`
}

type PresetListResponse struct {
	Body PresetListData
}

type PresetRequestData struct {
	Name string `json:"name" pattern:"^[a-z0-9-]+$" minLength:"1" maxLength:"64" example:"mobile-720p" doc:"Preset name (lowercase alphanumeric and dashes only)"`
	TransformRequestData
}

type PresetRequest struct {
	Body PresetRequestData
}

type PresetResponse struct {
	Body PresetData
}

// Validation models
type ValidateRequest struct {
	Body TransformRequestData
}

type ValidationData struct {
	Valid      bool     `json:"valid" example:"true" doc:"Whether the request passed validation"`
	Errors     []string `json:"errors,omitempty" doc:"Validation failures, one per rejected field"`
	RequestKey string   `json:"request_key,omitempty" example:"9c5f2a4d8e1b3c70" doc:"Stable key for the validated request"`
	HDRMode    string   `json:"hdr_mode,omitempty" example:"keep_hdr" doc:"Effective HDR mode after legacy flags are applied"`
}

type ValidationResponse struct {
	Body ValidationData
}

// Planning models
type PlanRequestData struct {
	TransformRequestData
	Preset       string `json:"preset,omitempty" example:"mobile-720p" doc:"Plan a stored preset by name; the inline request fields are ignored when set"`
	SourceWidth  int    `json:"source_width,omitempty" example:"3840" doc:"Source frame width in pixels (0 if unknown)"`
	SourceHeight int    `json:"source_height,omitempty" example:"2160" doc:"Source frame height in pixels (0 if unknown)"`
	SourceHDR    bool   `json:"source_hdr,omitempty" example:"true" doc:"Whether the source carries HDR color information"`
}

type PlanRequest struct {
	Body PlanRequestData
}

type FallbackData struct {
	Field  string `json:"field" example:"video_mime_type" doc:"Request field that was adjusted"`
	From   string `json:"from" example:"video/av01" doc:"Requested value"`
	To     string `json:"to" example:"video/avc" doc:"Value the plan will use instead"`
	Reason string `json:"reason" doc:"Why the requested value could not be honored"`
}

type PlanVideoData struct {
	MimeType       string `json:"mime_type,omitempty" example:"video/avc" doc:"Video MIME type the plan will encode to (empty keeps the source codec)"`
	Height         int    `json:"height" example:"1080" doc:"Output frame height in pixels (0 keeps the source height)"`
	Width          int    `json:"width,omitempty" example:"1920" doc:"Derived output frame width in pixels"`
	SwapDimensions bool   `json:"swap_dimensions" example:"false" doc:"Whether width and height are swapped before encoding"`
}

type PlanAudioData struct {
	MimeType string `json:"mime_type,omitempty" example:"audio/mp4a-latm" doc:"Audio MIME type the plan will encode to (empty keeps the source codec)"`
}

type PlanHDRData struct {
	Mode       string `json:"mode" example:"keep_hdr" doc:"HDR mode the plan will execute"`
	ToneMapped bool   `json:"tone_mapped" example:"false" doc:"Whether the plan tone-maps HDR input to SDR"`
}

type PlanData struct {
	Profile    string         `json:"profile" example:"portable-baseline" doc:"Capability profile the plan was derived against"`
	RequestKey string         `json:"request_key" example:"9c5f2a4d8e1b3c70" doc:"Stable key for the planned request"`
	Honored    bool           `json:"honored" example:"true" doc:"Whether the request was honored without fallbacks"`
	Fallbacks  []FallbackData `json:"fallbacks,omitempty" doc:"Adjustments made to fit the capability profile"`
	Video      PlanVideoData  `json:"video" doc:"Video disposition"`
	Audio      PlanAudioData  `json:"audio" doc:"Audio disposition"`
	HDR        PlanHDRData    `json:"hdr" doc:"HDR disposition"`
}

type PlanResponse struct {
	Body PlanData
}

// Artifact models
type ArtifactData struct {
	ID         string    `json:"id" example:"7f9c24e8-3b1a-4d56-9c0f-1a2b3c4d5e6f" doc:"Unique artifact identifier"`
	RequestKey string    `json:"request_key" example:"9c5f2a4d8e1b3c70" doc:"Key of the request that produced this artifact"`
	URI        string    `json:"uri" example:"file:///var/lib/transformnode/out/7f9c24e8.mp4" doc:"Where the transcoded output lives"`
	SizeBytes  int64     `json:"size_bytes" example:"10485760" doc:"Output size in bytes"`
	DurationMS int64     `json:"duration_ms" example:"60000" doc:"Output duration in milliseconds"`
	CreatedAt  time.Time `json:"created_at" doc:"When the artifact was registered"`
}

type ArtifactListData struct {
	Artifacts []ArtifactData `json:"artifacts" doc:"List of registered artifacts"`
	Count     int            `json:"count" example:"1" doc:"Number of registered artifacts"`
}

type ArtifactListResponse struct {
	Body ArtifactListData
}

type ArtifactRequestData struct {
	TransformRequestData
	URI        string `json:"uri" minLength:"1" example:"file:///var/lib/transformnode/out/7f9c24e8.mp4" doc:"Where the transcoded output lives"`
	SizeBytes  int64  `json:"size_bytes,omitempty" minimum:"0" example:"10485760" doc:"Output size in bytes"`
	DurationMS int64  `json:"duration_ms,omitempty" minimum:"0" example:"60000" doc:"Output duration in milliseconds"`
}

type ArtifactRequest struct {
	Body ArtifactRequestData
}

type ArtifactResponse struct {
	Body ArtifactData
}

// Capability models
type CodecData struct {
	MimeType  string `json:"mime_type" example:"video/avc" doc:"Codec MIME type"`
	MaxHeight int    `json:"max_height,omitempty" example:"2160" doc:"Tallest output this codec can encode (0 means unbounded)"`
	Default   bool   `json:"default" example:"true" doc:"Whether this is the fallback codec for its kind"`
}

type HDRSupportData struct {
	KeepHDR        bool `json:"keep_hdr" example:"false" doc:"Whether HDR passthrough is available"`
	ToneMapDecoder bool `json:"tone_map_decoder" example:"false" doc:"Whether decoder tone-mapping is available"`
	ToneMapGPU     bool `json:"tone_map_gpu" example:"true" doc:"Whether GPU tone-mapping is available"`
}

type CapabilitiesData struct {
	Profile     string         `json:"profile" example:"portable-baseline" doc:"Active capability profile name"`
	VideoCodecs []CodecData    `json:"video_codecs" doc:"Video codecs this node can encode"`
	AudioCodecs []CodecData    `json:"audio_codecs" doc:"Audio codecs this node can encode"`
	HDR         HDRSupportData `json:"hdr" doc:"HDR handling support"`
}

type CapabilitiesResponse struct {
	Body CapabilitiesData
}

// Error response
type ErrorData struct {
	Status  string `json:"status" example:"error" doc:"Error status"`
	Message string `json:"message" example:"Preset not found" doc:"Error message"`
}

type ErrorResponse struct {
	Body ErrorData
}

// Stats models
type StatsData struct {
	Presets           int64            `json:"presets" example:"4" doc:"Number of stored presets"`
	Artifacts         int64            `json:"artifacts" example:"12" doc:"Number of registered artifacts"`
	Validations       map[string]int64 `json:"validations" doc:"Validation outcomes by result"`
	Plans             map[string]int64 `json:"plans" doc:"Plan outcomes by result"`
	PlanFallbacks     map[string]int64 `json:"plan_fallbacks" doc:"Plan fallbacks by request field"`
	ArtifactLookups   map[string]int64 `json:"artifact_lookups" doc:"Artifact lookups by result"`
	CapabilityReloads map[string]int64 `json:"capability_reloads" doc:"Capability profile reloads by outcome"`
}

type StatsResponse struct {
	Body StatsData
}

// Log models
type LogEntryData struct {
	Seq        uint64         `json:"seq" example:"42" doc:"Monotonic sequence number for deduplication"`
	Timestamp  string         `json:"timestamp" example:"2025-01-09T10:30:00.123Z" doc:"Log timestamp"`
	Level      string         `json:"level" example:"info" doc:"Log level"`
	Module     string         `json:"module" example:"api" doc:"Source module"`
	Message    string         `json:"message" doc:"Log message"`
	Attributes map[string]any `json:"attributes,omitempty" doc:"Structured log attributes"`
}

type LogListData struct {
	Entries []LogEntryData `json:"entries" doc:"Buffered log entries, oldest first"`
	Count   int            `json:"count" example:"200" doc:"Number of buffered entries"`
}

type LogListResponse struct {
	Body LogListData
}

// Version models
type VersionData struct {
	Version   string `json:"version" example:"dev" doc:"Application version"`
	Commit    string `json:"commit" example:"abc1234" doc:"Git commit SHA"`
	Date      string `json:"date" example:"2025-06-15T14:30:00Z" doc:"Build timestamp"`
	GoVersion string `json:"go_version" example:"go1.24.0" doc:"Go toolchain version"`
	Platform  string `json:"platform" example:"linux/amd64" doc:"Platform"`
}

type VersionResponse struct {
	Body VersionData
}
