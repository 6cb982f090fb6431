package presets

import "fmt"

// Error codes carried by PresetError. The API layer maps these to HTTP
// statuses, so handlers never inspect error text.
const (
	ErrCodePresetNotFound = "PRESET_NOT_FOUND"
	ErrCodePresetExists   = "PRESET_EXISTS"
	ErrCodeInvalidPreset  = "INVALID_PRESET"
	ErrCodeStoreError     = "STORE_ERROR"
)

// PresetError wraps a failure with one of the codes above.
type PresetError struct {
	Code    string
	Message string
	Cause   error
}

func (e *PresetError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *PresetError) Unwrap() error {
	return e.Cause
}

// NewPresetError builds a PresetError; cause may be nil.
func NewPresetError(code, message string, cause error) *PresetError {
	return &PresetError{Code: code, Message: message, Cause: cause}
}
