package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/transformnode/internal/api/models"
	"github.com/smazurov/transformnode/internal/presets"
)

// registerPresetRoutes registers all preset-related endpoints
func (s *Server) registerPresetRoutes() {
	// List stored presets
	huma.Register(s.api, huma.Operation{
		OperationID: "list-presets",
		Method:      http.MethodGet,
		Path:        "/api/presets",
		Summary:     "List Presets",
		Description: "Get a list of all stored transformation presets",
		Tags:        []string{"presets"},
		Errors:      []int{401, 500},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct{}) (*models.PresetListResponse, error) {
		stored, err := s.presetService.ListPresets(ctx)
		if err != nil {
			return nil, s.mapPresetError(err)
		}

		// Convert domain presets to API response
		apiPresets := make([]models.PresetData, len(stored))
		for i, preset := range stored {
			apiPresets[i] = preset.Data()
		}

		return &models.PresetListResponse{
			Body: models.PresetListData{
				Presets: apiPresets,
				Count:   len(apiPresets),
			},
		}, nil
	})

	// Create new preset
	huma.Register(s.api, huma.Operation{
		OperationID: "create-preset",
		Method:      http.MethodPost,
		Path:        "/api/presets",
		Summary:     "Create Preset",
		Description: "Store a named transformation preset after validating its request fields",
		Tags:        []string{"presets"},
		Errors:      []int{400, 401, 409, 422, 500},
		Security:    withAuth(),
	}, func(ctx context.Context, input *models.PresetRequest) (*models.PresetResponse, error) {
		preset, err := s.presetService.CreatePreset(ctx, specFromRequest(input.Body.Name, input.Body.TransformRequestData))
		if err != nil {
			return nil, s.mapPresetError(err)
		}

		return &models.PresetResponse{
			Body: preset.Data(),
		}, nil
	})

	// Get specific preset
	huma.Register(s.api, huma.Operation{
		OperationID: "get-preset",
		Method:      http.MethodGet,
		Path:        "/api/presets/{name}",
		Summary:     "Get Preset",
		Description: "Get a stored preset with its resolved request fields",
		Tags:        []string{"presets"},
		Errors:      []int{401, 404, 500},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct {
		Name string `path:"name" example:"mobile-720p" doc:"Preset name"`
	}) (*models.PresetResponse, error) {
		preset, err := s.presetService.GetPreset(ctx, input.Name)
		if err != nil {
			return nil, s.mapPresetError(err)
		}

		return &models.PresetResponse{
			Body: preset.Data(),
		}, nil
	})

	// Update preset
	huma.Register(s.api, huma.Operation{
		OperationID: "update-preset",
		Method:      http.MethodPut,
		Path:        "/api/presets/{name}",
		Summary:     "Update Preset",
		Description: "Replace the request fields of an existing preset",
		Tags:        []string{"presets"},
		Errors:      []int{400, 401, 404, 422, 500},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct {
		Name string `path:"name" example:"mobile-720p" doc:"Preset name"`
		Body models.TransformRequestData
	}) (*models.PresetResponse, error) {
		preset, err := s.presetService.UpdatePreset(ctx, input.Name, specFromRequest(input.Name, input.Body))
		if err != nil {
			return nil, s.mapPresetError(err)
		}

		return &models.PresetResponse{
			Body: preset.Data(),
		}, nil
	})

	// Delete preset
	huma.Register(s.api, huma.Operation{
		OperationID: "delete-preset",
		Method:      http.MethodDelete,
		Path:        "/api/presets/{name}",
		Summary:     "Delete Preset",
		Description: "Remove a stored preset",
		Tags:        []string{"presets"},
		Errors:      []int{401, 404, 500},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct {
		Name string `path:"name" example:"mobile-720p" doc:"Preset name"`
	}) (*struct{}, error) {
		err := s.presetService.DeletePreset(ctx, input.Name)
		if err != nil {
			return nil, s.mapPresetError(err)
		}

		return &struct{}{}, nil
	})
}

// specFromRequest converts API request fields to a domain preset spec
func specFromRequest(name string, data models.TransformRequestData) presets.Spec {
	return presets.Spec{
		Name:                 name,
		FlattenForSlowMotion: data.FlattenForSlowMotion,
		OutputHeight:         data.OutputHeight,
		AudioMimeType:        data.AudioMimeType,
		VideoMimeType:        data.VideoMimeType,
		HDRMode:              data.HDRMode,
		EnableSDRToneMapping: data.EnableSDRToneMapping,
		EnableHDREditing:     data.EnableHDREditing,
	}
}

// mapPresetError maps domain errors to HTTP errors
func (s *Server) mapPresetError(err error) error {
	if presetErr, ok := err.(*presets.PresetError); ok {
		switch presetErr.Code {
		case presets.ErrCodePresetNotFound:
			return huma.Error404NotFound(presetErr.Message, err)
		case presets.ErrCodePresetExists:
			return huma.Error409Conflict(presetErr.Message, err)
		case presets.ErrCodeInvalidPreset:
			return huma.Error422UnprocessableEntity(presetErr.Message, err)
		case presets.ErrCodeStoreError:
			return huma.Error500InternalServerError(presetErr.Message, err)
		default:
			return huma.Error500InternalServerError("internal server error", err)
		}
	}
	return huma.Error500InternalServerError("internal server error", err)
}
