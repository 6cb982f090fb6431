package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/transformnode/internal/api/models"
	"github.com/smazurov/transformnode/internal/metrics"
)

// registerStatsRoutes registers counter snapshot endpoints
func (s *Server) registerStatsRoutes() {
	// Snapshot of node counters for dashboards that don't scrape Prometheus
	huma.Register(s.api, huma.Operation{
		OperationID: "get-stats",
		Method:      http.MethodGet,
		Path:        "/api/stats",
		Summary:     "Get Stats",
		Description: "Get a snapshot of node counters. The same series are exported in Prometheus form on /metrics.",
		Tags:        []string{"stats"},
		Errors:      []int{401},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct{}) (*models.StatsResponse, error) {
		snap := metrics.GetSnapshot()

		fallbacks := make(map[string]int64, len(snap.FallbacksByField))
		for field, n := range snap.FallbacksByField {
			fallbacks[field] = int64(n)
		}

		return &models.StatsResponse{
			Body: models.StatsData{
				Presets:   int64(snap.Presets),
				Artifacts: int64(snap.Artifacts),
				Validations: map[string]int64{
					metrics.ValidationOK:      int64(snap.ValidationsOK),
					metrics.ValidationInvalid: int64(snap.ValidationsInvalid),
				},
				Plans: map[string]int64{
					metrics.PlanHonored:     int64(snap.PlansHonored),
					metrics.PlanFallback:    int64(snap.PlansFallback),
					metrics.PlanUnsupported: int64(snap.PlansUnsupported),
				},
				PlanFallbacks: fallbacks,
				ArtifactLookups: map[string]int64{
					metrics.LookupHit:  int64(snap.ArtifactHits),
					metrics.LookupMiss: int64(snap.ArtifactMisses),
				},
				CapabilityReloads: map[string]int64{
					metrics.ReloadOK:    int64(snap.CapabilityReloads),
					metrics.ReloadError: int64(snap.CapabilityFailures),
				},
			},
		}, nil
	})
}
