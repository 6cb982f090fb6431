package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/transformnode/internal/api/models"
	"github.com/smazurov/transformnode/internal/capability"
)

// registerCapabilityRoutes registers capability profile endpoints
func (s *Server) registerCapabilityRoutes() {
	// Get the active capability profile
	huma.Register(s.api, huma.Operation{
		OperationID: "get-capabilities",
		Method:      http.MethodGet,
		Path:        "/api/capabilities",
		Summary:     "Get Capabilities",
		Description: "Get the capability profile this node currently plans against",
		Tags:        []string{"capabilities"},
		Errors:      []int{401},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct{}) (*models.CapabilitiesResponse, error) {
		profile := s.capabilities.Current()

		return &models.CapabilitiesResponse{
			Body: s.domainToAPICapabilities(profile),
		}, nil
	})
}

// domainToAPICapabilities converts a capability profile to API data
func (s *Server) domainToAPICapabilities(profile capability.Profile) models.CapabilitiesData {
	return models.CapabilitiesData{
		Profile:     profile.Name,
		VideoCodecs: codecsToAPIData(profile.VideoCodecs),
		AudioCodecs: codecsToAPIData(profile.AudioCodecs),
		HDR: models.HDRSupportData{
			KeepHDR:        profile.HDR.KeepHDR,
			ToneMapDecoder: profile.HDR.ToneMapDecoder,
			ToneMapGPU:     profile.HDR.ToneMapGPU,
		},
	}
}

func codecsToAPIData(codecs []capability.Codec) []models.CodecData {
	out := make([]models.CodecData, len(codecs))
	for i, codec := range codecs {
		out[i] = models.CodecData{
			MimeType:  codec.MimeType,
			MaxHeight: codec.MaxHeight,
			Default:   codec.Default,
		}
	}
	return out
}
