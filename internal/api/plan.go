package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/transformnode/internal/api/models"
	"github.com/smazurov/transformnode/internal/planner"
	"github.com/smazurov/transformnode/pkg/transform"
)

// registerPlanRoutes registers planning endpoints
func (s *Server) registerPlanRoutes() {
	// Derive an execution plan for a request against the active capability profile
	huma.Register(s.api, huma.Operation{
		OperationID: "plan-request",
		Method:      http.MethodPost,
		Path:        "/api/plan",
		Summary:     "Plan Request",
		Description: "Resolve a transformation request, supplied inline or as a stored preset name, against the active capability profile, recording a fallback for every field the node cannot honor",
		Tags:        []string{"planning"},
		Errors:      []int{401, 404, 422, 500},
		Security:    withAuth(),
	}, func(ctx context.Context, input *models.PlanRequest) (*models.PlanResponse, error) {
		var req transform.Request
		if input.Body.Preset != "" {
			preset, err := s.presetService.GetPreset(ctx, input.Body.Preset)
			if err != nil {
				return nil, s.mapPresetError(err)
			}
			req = preset.Request
		} else {
			built, errs := buildRequest(input.Body.TransformRequestData)
			if len(errs) > 0 {
				return nil, huma.Error422UnprocessableEntity(strings.Join(errs, "; "))
			}
			req = built
		}

		src := planner.SourceFormat{
			Width:  input.Body.SourceWidth,
			Height: input.Body.SourceHeight,
			HDR:    input.Body.SourceHDR,
		}

		plan, err := s.planner.Plan(req, src)
		if err != nil {
			return nil, s.mapPlanError(err)
		}

		return &models.PlanResponse{
			Body: s.domainToAPIPlan(plan),
		}, nil
	})
}

// domainToAPIPlan converts a domain plan to API plan data
func (s *Server) domainToAPIPlan(plan planner.Plan) models.PlanData {
	fallbacks := make([]models.FallbackData, len(plan.Fallbacks))
	for i, fb := range plan.Fallbacks {
		fallbacks[i] = models.FallbackData{
			Field:  fb.Field,
			From:   fb.From,
			To:     fb.To,
			Reason: fb.Reason,
		}
	}

	return models.PlanData{
		Profile:    plan.Profile,
		RequestKey: plan.Request.Key(),
		Honored:    plan.Honored(),
		Fallbacks:  fallbacks,
		Video: models.PlanVideoData{
			MimeType:       plan.Video.MimeType,
			Height:         plan.Video.Height,
			Width:          plan.Video.Width,
			SwapDimensions: plan.Video.SwapDimensions,
		},
		Audio: models.PlanAudioData{
			MimeType: plan.Audio.MimeType,
		},
		HDR: models.PlanHDRData{
			Mode:       plan.HDR.Mode.String(),
			ToneMapped: plan.HDR.ToneMapped,
		},
	}
}

// mapPlanError maps domain errors to HTTP errors
func (s *Server) mapPlanError(err error) error {
	if planErr, ok := err.(*planner.PlanError); ok {
		switch planErr.Code {
		case planner.ErrCodeUnsupportedHDR, planner.ErrCodeNoVideoCodec, planner.ErrCodeNoAudioCodec:
			return huma.Error422UnprocessableEntity(planErr.Message, err)
		default:
			return huma.Error500InternalServerError("internal server error", err)
		}
	}
	return huma.Error500InternalServerError("internal server error", err)
}
