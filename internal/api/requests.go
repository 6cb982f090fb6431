package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/transformnode/internal/api/models"
	"github.com/smazurov/transformnode/internal/metrics"
	"github.com/smazurov/transformnode/pkg/transform"
)

// buildRequest assembles a transformation request from wire fields,
// collecting one message per rejected field. Legacy flags are applied
// before hdr_mode so an explicit mode always wins.
func buildRequest(data models.TransformRequestData) (transform.Request, []string) {
	var errs []string

	b := transform.NewBuilder().
		SetFlattenForSlowMotion(data.FlattenForSlowMotion).
		SetResolution(data.OutputHeight)

	if err := b.SetVideoMimeType(data.VideoMimeType); err != nil {
		errs = append(errs, fmt.Sprintf("video_mime_type: %v", err))
	}
	if err := b.SetAudioMimeType(data.AudioMimeType); err != nil {
		errs = append(errs, fmt.Sprintf("audio_mime_type: %v", err))
	}

	if mode, ok := transform.SDRToneMappingMode(data.EnableSDRToneMapping); ok {
		if err := b.SetHDRMode(mode); err != nil {
			errs = append(errs, fmt.Sprintf("enable_sdr_tone_mapping: %v", err))
		}
	}
	if mode, ok := transform.HDREditingMode(data.EnableHDREditing); ok {
		if err := b.SetHDRMode(mode); err != nil {
			errs = append(errs, fmt.Sprintf("enable_hdr_editing: %v", err))
		}
	}
	if data.HDRMode != "" {
		mode, err := transform.ParseHDRMode(data.HDRMode)
		if err == nil {
			err = b.SetHDRMode(mode)
		}
		if err != nil {
			errs = append(errs, fmt.Sprintf("hdr_mode: %v", err))
		}
	}

	return b.Build(), errs
}

// registerRequestRoutes registers request validation endpoints
func (s *Server) registerRequestRoutes() {
	// Validate a request without persisting anything
	huma.Register(s.api, huma.Operation{
		OperationID: "validate-request",
		Method:      http.MethodPost,
		Path:        "/api/requests/validate",
		Summary:     "Validate Request",
		Description: "Check transformation request fields and report every rejected field. Nothing is stored.",
		Tags:        []string{"requests"},
		Errors:      []int{401},
		Security:    withAuth(),
	}, func(ctx context.Context, input *models.ValidateRequest) (*models.ValidationResponse, error) {
		req, errs := buildRequest(input.Body)

		if len(errs) > 0 {
			metrics.ObserveValidation(metrics.ValidationInvalid)
			return &models.ValidationResponse{
				Body: models.ValidationData{
					Valid:  false,
					Errors: errs,
				},
			}, nil
		}

		metrics.ObserveValidation(metrics.ValidationOK)
		return &models.ValidationResponse{
			Body: models.ValidationData{
				Valid:      true,
				RequestKey: req.Key(),
				HDRMode:    req.HDRMode().String(),
			},
		}, nil
	})
}
