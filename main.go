package main

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/smazurov/transformnode/cmd"
	"github.com/smazurov/transformnode/internal/api"
	"github.com/smazurov/transformnode/internal/artifact"
	"github.com/smazurov/transformnode/internal/capability"
	"github.com/smazurov/transformnode/internal/config"
	"github.com/smazurov/transformnode/internal/events"
	"github.com/smazurov/transformnode/internal/logging"
	"github.com/smazurov/transformnode/internal/metrics"
	"github.com/smazurov/transformnode/internal/planner"
	"github.com/smazurov/transformnode/internal/presets"
	"github.com/smazurov/transformnode/internal/presets/store"
	"github.com/smazurov/transformnode/internal/updater"
	"github.com/spf13/cobra"
)

// Options is the flat option set for the node. The toml and env tags
// feed config.LoadConfig's file and environment lookups.
type Options struct {
	Config string `help:"Path to configuration file" short:"c" default:"transformnode.toml"`

	Port string `help:"Port to listen on" short:"p" default:":8090" toml:"server.port" env:"SERVER_PORT"`

	PresetsFile string `help:"Preset definitions file" default:"presets.toml" toml:"presets.config_file" env:"PRESETS_CONFIG_FILE"`

	CapabilitiesFile  string `help:"Capability profile file" default:"capabilities.toml" toml:"capabilities.config_file" env:"CAPABILITIES_CONFIG_FILE"`
	CapabilitiesWatch bool   `help:"Reload capability profile when the file changes" default:"true" toml:"capabilities.watch" env:"CAPABILITIES_WATCH"`

	AuthUsername string `help:"Basic auth username" default:"admin" toml:"auth.username" env:"AUTH_USERNAME"`
	AuthPassword string `help:"Basic auth password" default:"password" toml:"auth.password" env:"AUTH_PASSWORD"`

	UpdateRepo       string `help:"GitHub repository for self-updates (empty disables)" default:"smazurov/transformnode" toml:"update.repository" env:"UPDATE_REPOSITORY"`
	UpdatePrerelease bool   `help:"Include prereleases when checking for updates" default:"false" toml:"update.prerelease" env:"UPDATE_PRERELEASE"`

	LoggingLevel      string `help:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat     string `help:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingAPI        string `help:"API logging level" default:"info" toml:"logging.api" env:"LOGGING_API"`
	LoggingPresets    string `help:"Presets logging level" default:"info" toml:"logging.presets" env:"LOGGING_PRESETS"`
	LoggingPlanner    string `help:"Planner logging level" default:"info" toml:"logging.planner" env:"LOGGING_PLANNER"`
	LoggingCapability string `help:"Capability logging level" default:"info" toml:"logging.capability" env:"LOGGING_CAPABILITY"`
	LoggingArtifacts  string `help:"Artifact registry logging level" default:"info" toml:"logging.artifacts" env:"LOGGING_ARTIFACTS"`
	LoggingUpdater    string `help:"Updater logging level" default:"info" toml:"logging.updater" env:"LOGGING_UPDATER"`
}

func main() {
	// Root command is captured below so LoadConfig can tell which flags
	// were set explicitly on the command line
	var rootCmd *cobra.Command

	cli := humacli.New(func(hooks humacli.Hooks, opts *Options) {
		if loadErr := config.LoadConfig(opts, rootCmd); loadErr != nil {
			slog.Warn("Failed to load config", "error", loadErr)
		}

		loggingConfig := logging.Config{
			Level:  opts.LoggingLevel,
			Format: opts.LoggingFormat,
			Modules: map[string]string{
				"api":        opts.LoggingAPI,
				"presets":    opts.LoggingPresets,
				"planner":    opts.LoggingPlanner,
				"capability": opts.LoggingCapability,
				"artifacts":  opts.LoggingArtifacts,
				"updater":    opts.LoggingUpdater,
			},
		}
		logging.Initialize(loggingConfig)

		logger := logging.GetLogger("main")

		eventBus := events.New()

		// Publish every log record so SSE clients can tail the node
		logging.SetLogCallback(func(entry logging.LogEntry) {
			eventBus.Publish(events.LogEntryEvent{
				Seq:        entry.Seq,
				Timestamp:  entry.Timestamp.Format(time.RFC3339Nano),
				Level:      entry.Level,
				Module:     entry.Module,
				Message:    entry.Message,
				Attributes: entry.Attributes,
			})
		})

		// Load the capability profile, falling back to the portable baseline
		profile := capability.DefaultProfile()
		if opts.CapabilitiesFile != "" {
			loaded, err := capability.Load(opts.CapabilitiesFile)
			switch {
			case err == nil:
				profile = loaded
			case errors.Is(err, os.ErrNotExist):
				logger.Info("No capability profile file, using portable baseline", "path", opts.CapabilitiesFile)
			default:
				logger.Warn("Failed to load capability profile, using portable baseline", "error", err)
			}
		}
		caps := capability.NewStore(profile)
		logger.Info("Capability profile active",
			"profile", profile.Name,
			"video_codecs", len(profile.VideoCodecs),
			"audio_codecs", len(profile.AudioCodecs))

		// Watch the profile file so degraded or repaired workers can be
		// reflected without a restart
		var capWatcher *config.Watcher[capability.Profile]
		if opts.CapabilitiesWatch && opts.CapabilitiesFile != "" {
			capLogger := logging.GetLogger("capability")
			capWatcher = config.NewConfigWatcher(opts.CapabilitiesFile, capability.Load, capLogger,
				config.WithErrorHandler[capability.Profile](func(error) {
					metrics.ObserveCapabilityReload(metrics.ReloadError)
				}))
			capWatcher.OnReload(func(p capability.Profile) {
				caps.Swap(p)
				metrics.ObserveCapabilityReload(metrics.ReloadOK)
				eventBus.Publish(events.CapabilityReloadedEvent{
					Profile:     p.Name,
					VideoCodecs: len(p.VideoCodecs),
					AudioCodecs: len(p.AudioCodecs),
					Timestamp:   time.Now().UTC().Format(time.RFC3339),
				})
				capLogger.Info("Capability profile reloaded", "profile", p.Name)
			})
		}

		presetStore := store.NewTOML(opts.PresetsFile)
		presetService := presets.NewService(presetStore, eventBus, logging.GetLogger("presets"))

		// Presets load once at startup; runtime changes go through the
		// CRUD API, never a file re-read
		if loadErr := presetService.LoadFromStore(); loadErr != nil {
			logger.Warn("Failed to load existing presets from config", "error", loadErr)
		}

		registry := artifact.NewRegistry(eventBus, logging.GetLogger("artifacts"))
		requestPlanner := planner.New(caps, logging.GetLogger("planner"))

		var updateService updater.Service
		if opts.UpdateRepo != "" {
			svc, err := updater.NewService(&updater.Options{
				Repository: opts.UpdateRepo,
				Prerelease: opts.UpdatePrerelease,
			})
			if err != nil {
				logger.Warn("Failed to initialize update service", "error", err)
			} else {
				updateService = svc
			}
		}

		apiOpts := &api.Options{
			AuthUsername:      opts.AuthUsername,
			AuthPassword:      opts.AuthPassword,
			PresetService:     presetService,
			Planner:           requestPlanner,
			Artifacts:         registry,
			Capabilities:      caps,
			EventBus:          eventBus,
			UpdateService:     updateService,
			PrometheusHandler: metrics.Handler(),
		}

		server := api.NewServer(apiOpts)

		hooks.OnStart(func() {
			if capWatcher != nil {
				if startErr := capWatcher.Start(); startErr != nil {
					logger.Warn("Failed to start capability profile watcher", "error", startErr)
				}
			}

			logger.Info("Starting HTTP server", "port", opts.Port)
			if startErr := server.Start(opts.Port); startErr != nil && !errors.Is(startErr, http.ErrServerClosed) {
				logger.Error("Failed to start HTTP server", "error", startErr)
				os.Exit(1)
			}
		})

		hooks.OnStop(func() {
			logger.Info("Shutting down server")
			if stopErr := server.Stop(); stopErr != nil {
				logger.Error("Error stopping HTTP server", "error", stopErr)
			}

			if capWatcher != nil {
				if stopErr := capWatcher.Stop(); stopErr != nil {
					logger.Error("Error stopping capability profile watcher", "error", stopErr)
				}
			}
		})
	})

	rootCmd = cli.Root()
	rootCmd.AddCommand(cmd.CreateValidatePresetsCmd())
	rootCmd.AddCommand(cmd.CreatePlanCmd())

	cli.Run()
}
