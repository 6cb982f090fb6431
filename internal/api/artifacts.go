package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/transformnode/internal/api/models"
)

// registerArtifactRoutes registers all artifact-related endpoints
func (s *Server) registerArtifactRoutes() {
	// List registered artifacts
	huma.Register(s.api, huma.Operation{
		OperationID: "list-artifacts",
		Method:      http.MethodGet,
		Path:        "/api/artifacts",
		Summary:     "List Artifacts",
		Description: "Get all registered transcode outputs, newest first",
		Tags:        []string{"artifacts"},
		Errors:      []int{401},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct{}) (*models.ArtifactListResponse, error) {
		artifacts := s.artifacts.List()

		apiArtifacts := make([]models.ArtifactData, len(artifacts))
		for i, artifact := range artifacts {
			apiArtifacts[i] = artifact.Data()
		}

		return &models.ArtifactListResponse{
			Body: models.ArtifactListData{
				Artifacts: apiArtifacts,
				Count:     len(apiArtifacts),
			},
		}, nil
	})

	// Register a transcode output
	huma.Register(s.api, huma.Operation{
		OperationID: "register-artifact",
		Method:      http.MethodPost,
		Path:        "/api/artifacts",
		Summary:     "Register Artifact",
		Description: "Record a finished transcode output under its request key. Registering against the same request replaces the previous artifact.",
		Tags:        []string{"artifacts"},
		Errors:      []int{400, 401, 422},
		Security:    withAuth(),
	}, func(ctx context.Context, input *models.ArtifactRequest) (*models.ArtifactResponse, error) {
		req, errs := buildRequest(input.Body.TransformRequestData)
		if len(errs) > 0 {
			return nil, huma.Error422UnprocessableEntity(strings.Join(errs, "; "))
		}

		artifact := s.artifacts.Register(req, input.Body.URI, input.Body.SizeBytes, input.Body.DurationMS)

		return &models.ArtifactResponse{
			Body: artifact.Data(),
		}, nil
	})

	// Get artifact by request key
	huma.Register(s.api, huma.Operation{
		OperationID: "get-artifact",
		Method:      http.MethodGet,
		Path:        "/api/artifacts/{key}",
		Summary:     "Get Artifact",
		Description: "Look up the artifact registered under a request key",
		Tags:        []string{"artifacts"},
		Errors:      []int{401, 404},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct {
		Key string `path:"key" example:"9c5f2a4d8e1b3c70" doc:"Request key returned by validate and plan"`
	}) (*models.ArtifactResponse, error) {
		artifact, ok := s.artifacts.LookupKey(input.Key)
		if !ok {
			return nil, huma.Error404NotFound("no artifact registered for key " + input.Key)
		}

		return &models.ArtifactResponse{
			Body: artifact.Data(),
		}, nil
	})

	// Remove artifact by request key
	huma.Register(s.api, huma.Operation{
		OperationID: "remove-artifact",
		Method:      http.MethodDelete,
		Path:        "/api/artifacts/{key}",
		Summary:     "Remove Artifact",
		Description: "Drop the artifact registered under a request key",
		Tags:        []string{"artifacts"},
		Errors:      []int{401, 404},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct {
		Key string `path:"key" example:"9c5f2a4d8e1b3c70" doc:"Request key returned by validate and plan"`
	}) (*struct{}, error) {
		if !s.artifacts.RemoveKey(input.Key) {
			return nil, huma.Error404NotFound("no artifact registered for key " + input.Key)
		}

		return &struct{}{}, nil
	})
}
