package cmd

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/smazurov/transformnode/internal/capability"
	"github.com/smazurov/transformnode/internal/logging"
	"github.com/smazurov/transformnode/internal/planner"
	"github.com/smazurov/transformnode/internal/presets/store"
	"github.com/spf13/cobra"
)

// CreateValidatePresetsCmd creates the validate-presets command.
func CreateValidatePresetsCmd() *cobra.Command {
	var presetsFile string
	var capabilitiesFile string
	var quiet bool

	cmd := &cobra.Command{
		Use:   "validate-presets",
		Short: "Validate stored presets",
		Long: `Resolves every preset in the presets file and reports the ones whose ` +
			`request fields do not validate. With --capabilities, each preset is also ` +
			`planned against the given profile to surface fallbacks and requests the ` +
			`profile cannot execute.`,
		Run: func(_ *cobra.Command, _ []string) {
			presetStore := store.NewTOML(presetsFile)
			if err := presetStore.Load(); err != nil {
				fmt.Fprintf(os.Stderr, "failed to load presets from %s: %v\n", presetsFile, err)
				os.Exit(1)
			}

			specs := presetStore.GetAllPresets()
			names := make([]string, 0, len(specs))
			for name := range specs {
				names = append(names, name)
			}
			sort.Strings(names)

			var plannerSvc *planner.Planner
			if capabilitiesFile != "" {
				profile, err := capability.Load(capabilitiesFile)
				if err != nil {
					fmt.Fprintf(os.Stderr, "failed to load capability profile: %v\n", err)
					os.Exit(1)
				}
				plannerSvc = planner.New(capability.NewStore(profile), logging.GetLogger("planner"))
			}

			failures := 0
			for _, name := range names {
				spec := specs[name]
				req, err := spec.Request()
				if err != nil {
					failures++
					fmt.Printf("FAIL  %s: %v\n", name, err)
					continue
				}

				if plannerSvc != nil {
					// Presets carry no source info, so plan against an HDR
					// source. SDR input passes through every mode anyway.
					plan, err := plannerSvc.Plan(req, planner.SourceFormat{HDR: true})
					var perr *planner.PlanError
					switch {
					case err == nil:
						for _, fb := range plan.Fallbacks {
							fmt.Printf("WARN  %s: %s %s -> %s (%s)\n", name, fb.Field, fb.From, fb.To, fb.Reason)
						}
					case errors.As(err, &perr) && perr.Code == planner.ErrCodeUnsupportedHDR:
						// The runtime profile can differ, and the preset still
						// plans for SDR sources.
						fmt.Printf("WARN  %s: %v\n", name, err)
					default:
						failures++
						fmt.Printf("FAIL  %s: %v\n", name, err)
						continue
					}
				}

				if !quiet {
					fmt.Printf("ok    %s (%s)\n", name, req.Key())
				}
			}

			if !quiet || failures > 0 {
				fmt.Printf("%d presets, %d failures\n", len(names), failures)
			}
			if failures > 0 {
				os.Exit(1)
			}
		},
	}

	cmd.Flags().StringVar(&presetsFile, "presets", "presets.toml", "Path to presets configuration file")
	cmd.Flags().StringVar(&capabilitiesFile, "capabilities", "",
		"Capability profile to plan each preset against")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Only report failures")

	return cmd
}
