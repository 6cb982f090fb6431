// Package metrics provides Prometheus metrics for the validation, planning,
// preset, and artifact paths, plus a local snapshot cache so the API can
// serve current values without scraping itself.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Label values used by the observation helpers.
const (
	ValidationOK      = "ok"
	ValidationInvalid = "invalid"

	PlanHonored     = "honored"
	PlanFallback    = "fallback"
	PlanUnsupported = "unsupported"

	LookupHit  = "hit"
	LookupMiss = "miss"

	ReloadOK    = "ok"
	ReloadError = "error"
)

var (
	presetCount = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "transformnode",
		Subsystem: "presets",
		Name:      "count",
		Help:      "Number of stored request presets",
	})

	artifactCount = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "transformnode",
		Subsystem: "artifacts",
		Name:      "count",
		Help:      "Number of registered artifacts",
	})

	validationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "transformnode",
		Subsystem: "requests",
		Name:      "validated_total",
		Help:      "Request validations by outcome",
	}, []string{"outcome"})

	plansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "transformnode",
		Subsystem: "planner",
		Name:      "plans_total",
		Help:      "Planning runs by outcome",
	}, []string{"outcome"})

	planFallbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "transformnode",
		Subsystem: "planner",
		Name:      "fallbacks_total",
		Help:      "Fallbacks applied during planning, by request field",
	}, []string{"field"})

	artifactLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "transformnode",
		Subsystem: "artifacts",
		Name:      "lookups_total",
		Help:      "Artifact registry lookups by result",
	}, []string{"result"})

	capabilityReloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "transformnode",
		Subsystem: "capability",
		Name:      "reloads_total",
		Help:      "Capability profile reloads by outcome",
	}, []string{"outcome"})

	// Local cache for API access.
	snapMu sync.RWMutex
	snap   Snapshot
)

// Snapshot mirrors the counter values Prometheus scrapes, for the stats API.
type Snapshot struct {
	Presets            int               `json:"presets"`
	Artifacts          int               `json:"artifacts"`
	ValidationsOK      uint64            `json:"validations_ok"`
	ValidationsInvalid uint64            `json:"validations_invalid"`
	PlansHonored       uint64            `json:"plans_honored"`
	PlansFallback      uint64            `json:"plans_fallback"`
	PlansUnsupported   uint64            `json:"plans_unsupported"`
	FallbacksByField   map[string]uint64 `json:"fallbacks_by_field,omitempty"`
	ArtifactHits       uint64            `json:"artifact_hits"`
	ArtifactMisses     uint64            `json:"artifact_misses"`
	CapabilityReloads  uint64            `json:"capability_reloads"`
	CapabilityFailures uint64            `json:"capability_failures"`
}

// Handler returns the HTTP handler serving the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// SetPresetCount sets the stored preset gauge.
func SetPresetCount(n int) {
	presetCount.Set(float64(n))
	updateSnap(func(s *Snapshot) { s.Presets = n })
}

// SetArtifactCount sets the registered artifact gauge.
func SetArtifactCount(n int) {
	artifactCount.Set(float64(n))
	updateSnap(func(s *Snapshot) { s.Artifacts = n })
}

// ObserveValidation counts one request validation.
func ObserveValidation(outcome string) {
	validationsTotal.WithLabelValues(outcome).Inc()
	updateSnap(func(s *Snapshot) {
		if outcome == ValidationOK {
			s.ValidationsOK++
		} else {
			s.ValidationsInvalid++
		}
	})
}

// ObservePlan counts one planning run.
func ObservePlan(outcome string) {
	plansTotal.WithLabelValues(outcome).Inc()
	updateSnap(func(s *Snapshot) {
		switch outcome {
		case PlanHonored:
			s.PlansHonored++
		case PlanFallback:
			s.PlansFallback++
		case PlanUnsupported:
			s.PlansUnsupported++
		}
	})
}

// ObservePlanFallback counts one applied fallback for a request field.
func ObservePlanFallback(field string) {
	planFallbacksTotal.WithLabelValues(field).Inc()
	updateSnap(func(s *Snapshot) {
		if s.FallbacksByField == nil {
			s.FallbacksByField = make(map[string]uint64)
		}
		s.FallbacksByField[field]++
	})
}

// ObserveArtifactLookup counts one registry lookup.
func ObserveArtifactLookup(result string) {
	artifactLookupsTotal.WithLabelValues(result).Inc()
	updateSnap(func(s *Snapshot) {
		if result == LookupHit {
			s.ArtifactHits++
		} else {
			s.ArtifactMisses++
		}
	})
}

// ObserveCapabilityReload counts one profile reload attempt.
func ObserveCapabilityReload(outcome string) {
	capabilityReloadsTotal.WithLabelValues(outcome).Inc()
	updateSnap(func(s *Snapshot) {
		if outcome == ReloadOK {
			s.CapabilityReloads++
		} else {
			s.CapabilityFailures++
		}
	})
}

// GetSnapshot returns a copy of the current counter values.
func GetSnapshot() Snapshot {
	snapMu.RLock()
	defer snapMu.RUnlock()

	out := snap
	if snap.FallbacksByField != nil {
		out.FallbacksByField = make(map[string]uint64, len(snap.FallbacksByField))
		for field, n := range snap.FallbacksByField {
			out.FallbacksByField[field] = n
		}
	}
	return out
}

func updateSnap(update func(*Snapshot)) {
	snapMu.Lock()
	defer snapMu.Unlock()
	update(&snap)
}
