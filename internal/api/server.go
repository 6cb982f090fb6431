package api

import (
	"context"
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/smazurov/transformnode/internal/api/models"
	"github.com/smazurov/transformnode/internal/artifact"
	"github.com/smazurov/transformnode/internal/capability"
	"github.com/smazurov/transformnode/internal/events"
	"github.com/smazurov/transformnode/internal/logging"
	"github.com/smazurov/transformnode/internal/planner"
	"github.com/smazurov/transformnode/internal/presets"
	"github.com/smazurov/transformnode/internal/updater"
	"github.com/smazurov/transformnode/internal/version"
)

const shutdownGrace = 3 * time.Second

// Server is the Huma v2 API server for one transformnode instance.
type Server struct {
	api           huma.API
	mux           *http.ServeMux
	httpServer    *http.Server
	presetService presets.Service
	planner       *planner.Planner
	artifacts     *artifact.Registry
	capabilities  *capability.Store
	eventBus      *events.Bus
	options       *Options
	logger        *slog.Logger
}

// Options carries the services the API exposes.
type Options struct {
	AuthUsername      string
	AuthPassword      string
	PresetService     presets.Service
	Planner           *planner.Planner
	Artifacts         *artifact.Registry
	Capabilities      *capability.Store
	EventBus          *events.Bus
	UpdateService     updater.Service
	PrometheusHandler http.Handler
}

// NewServer builds the server on net/http's pattern-based mux.
func NewServer(opts *Options) *Server {
	mux := http.NewServeMux()

	corsConfig := DefaultCORSConfig()
	AddCORSHandler(mux, corsConfig)

	config := huma.DefaultConfig("TransformNode API", "1.0.0")
	config.Info.Description = "Transformation request control plane for the transcode worker fleet"
	// No servers entry, so the OpenAPI doc uses relative paths on any host.
	config.Servers = []*huma.Server{}
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"basicAuth": {
			Type:   "http",
			Scheme: "basic",
		},
	}

	api := humago.New(mux, config)

	server := &Server{
		api:           api,
		mux:           mux,
		presetService: opts.PresetService,
		planner:       opts.Planner,
		artifacts:     opts.Artifacts,
		capabilities:  opts.Capabilities,
		eventBus:      opts.EventBus,
		options:       opts,
		logger:        logging.GetLogger("api"),
	}

	// CORS first so rejected requests still get the headers, then request
	// logging, then auth.
	api.UseMiddleware(NewCORSMiddleware(corsConfig))
	api.UseMiddleware(HTTPLoggingMiddleware)
	if opts.AuthUsername != "" && opts.AuthPassword != "" {
		api.UseMiddleware(server.basicAuthMiddleware(opts.AuthUsername, opts.AuthPassword))
	}

	// Outside the huma API: Prometheus scrapes are unauthenticated.
	if opts.PrometheusHandler != nil {
		mux.Handle("GET /metrics", opts.PrometheusHandler)
	}

	server.registerRoutes()
	return server
}

// basicAuthMiddleware enforces basic auth on every operation that declares
// a security requirement.
func (s *Server) basicAuthMiddleware(username, password string) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		op := ctx.Operation()
		if op != nil && len(op.Security) == 0 {
			next(ctx)
			return
		}

		user, pass, errMsg := requestCredentials(ctx)
		if errMsg != "" {
			s.rejectUnauthorized(ctx, errMsg)
			return
		}
		if user != username || pass != password {
			s.rejectUnauthorized(ctx, "Invalid credentials")
			return
		}

		next(ctx)
	}
}

// requestCredentials resolves the username and password for a request.
// EventSource cannot set headers, so SSE clients may pass the base64
// user:pass pair in an auth query parameter instead. A non-empty errMsg
// is the client-facing rejection reason.
func requestCredentials(ctx huma.Context) (user, pass, errMsg string) {
	var encoded string

	if header := ctx.Header("Authorization"); header != "" {
		var ok bool
		encoded, ok = strings.CutPrefix(header, "Basic ")
		if !ok {
			return "", "", "Invalid authentication type"
		}
	} else {
		encoded = ctx.Query("auth")
	}
	if encoded == "" {
		return "", "", "Authentication required"
	}

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", "", "Invalid credentials format"
	}

	user, pass, found := strings.Cut(string(decoded), ":")
	if !found {
		return "", "", "Invalid credentials format"
	}
	return user, pass, ""
}

func (s *Server) rejectUnauthorized(ctx huma.Context, message string) {
	ctx.SetHeader("WWW-Authenticate", `Basic realm="TransformNode API"`)
	huma.WriteErr(s.api, ctx, http.StatusUnauthorized, message)
}

// Start serves HTTP on addr until the listener closes.
func (s *Server) Start(addr string) error {
	s.logger.Info("Starting TransformNode API server", "addr", addr)
	s.logger.Info("OpenAPI documentation available", "url", "http://"+addr+"/docs")

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.mux,
	}
	return s.httpServer.ListenAndServe()
}

// Stop drains in-flight requests, then force-closes whatever remains.
// SSE streams hold their connections open past the grace period.
func (s *Server) Stop() error {
	s.logger.Info("Stopping API server")
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return s.httpServer.Close()
	}
	return nil
}

func (s *Server) registerRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "health-check",
		Method:      http.MethodGet,
		Path:        "/api/health",
		Summary:     "Health",
		Description: "Check API health status",
		Tags:        []string{"health"},
		Security:    noAuth(),
	}, func(ctx context.Context, input *struct{}) (*models.HealthResponse, error) {
		return &models.HealthResponse{
			Body: models.HealthData{
				Status:  "ok",
				Message: "API is healthy",
			},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-version",
		Method:      http.MethodGet,
		Path:        "/api/version",
		Summary:     "Version",
		Description: "Get application version information",
		Tags:        []string{"system"},
		Security:    noAuth(),
	}, func(ctx context.Context, input *struct{}) (*models.VersionResponse, error) {
		versionInfo := version.Get()
		return &models.VersionResponse{
			Body: models.VersionData{
				Version:   versionInfo.Version,
				Commit:    versionInfo.Commit,
				Date:      versionInfo.Date,
				GoVersion: versionInfo.GoVersion,
				Platform:  versionInfo.Platform,
			},
		}, nil
	})

	s.registerPresetRoutes()
	s.registerRequestRoutes()
	s.registerPlanRoutes()
	s.registerArtifactRoutes()
	s.registerCapabilityRoutes()
	s.registerStatsRoutes()
	s.registerSSERoutes()
	s.registerLogRoutes()
	s.registerUpdateRoutes()
}

// withAuth marks an operation as requiring basic auth.
func withAuth() []map[string][]string {
	return []map[string][]string{
		{"basicAuth": {}},
	}
}

// noAuth marks an operation as public; the middleware skips operations
// with an empty security list.
func noAuth() []map[string][]string {
	return []map[string][]string{}
}
