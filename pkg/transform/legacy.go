package transform

// Legacy boolean knobs that predate HDRMode, kept as pure mappings so stored
// configurations written against them still load. Each returns the mode the
// flag selects and whether it selects one at all: a false flag was always a
// no-op, so callers leave the mode unchanged when ok is false.

// SDRToneMappingMode maps the legacy "request SDR tone mapping" flag onto an
// HDRMode. True selects ToneMapViaDecoder; false selects nothing.
func SDRToneMappingMode(enable bool) (mode HDRMode, ok bool) {
	if !enable {
		return KeepHDR, false
	}
	return ToneMapViaDecoder, true
}

// HDREditingMode maps the legacy "enable HDR editing" flag onto an HDRMode.
// True selects KeepHDR, which is also the default; false selects nothing.
func HDREditingMode(enable bool) (mode HDRMode, ok bool) {
	if !enable {
		return KeepHDR, false
	}
	return KeepHDR, true
}
