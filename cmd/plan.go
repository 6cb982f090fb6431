package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/smazurov/transformnode/internal/capability"
	"github.com/smazurov/transformnode/internal/logging"
	"github.com/smazurov/transformnode/internal/planner"
	"github.com/smazurov/transformnode/internal/presets/store"
	"github.com/smazurov/transformnode/pkg/transform"
	"github.com/spf13/cobra"
)

// CreatePlanCmd creates the plan command.
func CreatePlanCmd() *cobra.Command {
	var presetsFile string
	var capabilitiesFile string
	var presetName string
	var videoMime string
	var audioMime string
	var hdrMode string
	var source string
	var height int
	var flatten bool
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Plan a transformation request offline",
		Long: `Resolves a transformation request against a capability profile without ` +
			`starting the server. The request comes from --preset or from the field ` +
			`flags; the profile comes from --capabilities or the built-in baseline.`,
		Run: func(_ *cobra.Command, _ []string) {
			req, err := requestFromFlags(presetsFile, presetName, videoMime, audioMime, hdrMode, height, flatten)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}

			src, err := parseSource(source)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}

			profile := capability.DefaultProfile()
			if capabilitiesFile != "" {
				profile, err = capability.Load(capabilitiesFile)
				if err != nil {
					fmt.Fprintf(os.Stderr, "failed to load capability profile: %v\n", err)
					os.Exit(1)
				}
			}

			plannerSvc := planner.New(capability.NewStore(profile), logging.GetLogger("planner"))
			plan, err := plannerSvc.Plan(req, src)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}

			if jsonOut {
				out, err := json.MarshalIndent(plan, "", "  ")
				if err != nil {
					fmt.Fprintf(os.Stderr, "failed to encode plan: %v\n", err)
					os.Exit(1)
				}
				fmt.Println(string(out))
				return
			}

			printPlan(plan)
		},
	}

	cmd.Flags().StringVar(&presetName, "preset", "", "Plan a stored preset instead of field flags")
	cmd.Flags().StringVar(&presetsFile, "presets", "presets.toml", "Path to presets configuration file")
	cmd.Flags().StringVar(&capabilitiesFile, "capabilities", "",
		"Capability profile to plan against (built-in baseline when omitted)")
	cmd.Flags().StringVar(&videoMime, "video-mime", "", "Requested video MIME type")
	cmd.Flags().StringVar(&audioMime, "audio-mime", "", "Requested audio MIME type")
	cmd.Flags().IntVar(&height, "height", 0, "Requested output height in pixels (0 keeps source height)")
	cmd.Flags().StringVar(&hdrMode, "hdr-mode", "",
		"HDR handling mode (keep_hdr, tone_map_via_decoder, tone_map_via_gpu, force_interpret_as_sdr)")
	cmd.Flags().BoolVar(&flatten, "flatten", false, "Flatten slow-motion metadata")
	cmd.Flags().StringVar(&source, "source", "", "Source format as WxH or WxH:hdr (e.g. 3840x2160:hdr)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the plan as JSON")

	return cmd
}

// requestFromFlags resolves the request to plan, either from a stored preset
// or from the individual field flags.
func requestFromFlags(presetsFile, presetName, videoMime, audioMime, hdrMode string, height int, flatten bool) (transform.Request, error) {
	if presetName != "" {
		presetStore := store.NewTOML(presetsFile)
		if err := presetStore.Load(); err != nil {
			return transform.Request{}, fmt.Errorf("failed to load presets from %s: %w", presetsFile, err)
		}
		spec, ok := presetStore.GetPreset(presetName)
		if !ok {
			return transform.Request{}, fmt.Errorf("preset %q not found in %s", presetName, presetsFile)
		}
		return spec.Request()
	}

	b := transform.NewBuilder().
		SetFlattenForSlowMotion(flatten).
		SetResolution(height)
	if err := b.SetVideoMimeType(videoMime); err != nil {
		return transform.Request{}, err
	}
	if err := b.SetAudioMimeType(audioMime); err != nil {
		return transform.Request{}, err
	}
	if hdrMode != "" {
		mode, err := transform.ParseHDRMode(hdrMode)
		if err != nil {
			return transform.Request{}, err
		}
		if err := b.SetHDRMode(mode); err != nil {
			return transform.Request{}, err
		}
	}
	return b.Build(), nil
}

// parseSource parses WxH or WxH:hdr source descriptors.
func parseSource(s string) (planner.SourceFormat, error) {
	if s == "" {
		return planner.SourceFormat{}, nil
	}

	dims, tag, hasTag := strings.Cut(s, ":")
	var src planner.SourceFormat
	if hasTag {
		if tag != "hdr" {
			return planner.SourceFormat{}, fmt.Errorf("invalid source %q: unknown tag %q", s, tag)
		}
		src.HDR = true
	}

	w, h, ok := strings.Cut(dims, "x")
	if !ok {
		return planner.SourceFormat{}, fmt.Errorf("invalid source %q: want WxH or WxH:hdr", s)
	}

	var err error
	if src.Width, err = strconv.Atoi(w); err != nil {
		return planner.SourceFormat{}, fmt.Errorf("invalid source width %q", w)
	}
	if src.Height, err = strconv.Atoi(h); err != nil {
		return planner.SourceFormat{}, fmt.Errorf("invalid source height %q", h)
	}
	return src, nil
}

func printPlan(plan planner.Plan) {
	fmt.Printf("profile:  %s\n", plan.Profile)
	fmt.Printf("request:  %s\n", plan.Request.Key())
	fmt.Printf("honored:  %v\n", plan.Honored())
	for _, fb := range plan.Fallbacks {
		fmt.Printf("fallback: %s %s -> %s (%s)\n", fb.Field, fb.From, fb.To, fb.Reason)
	}

	video := plan.Video.MimeType
	if video == "" {
		video = "keep source codec"
	}
	if plan.Video.Height > 0 {
		if plan.Video.Width > 0 {
			video += fmt.Sprintf(", %dx%d", plan.Video.Width, plan.Video.Height)
		} else {
			video += fmt.Sprintf(", height %d", plan.Video.Height)
		}
		if plan.Video.SwapDimensions {
			video += " (portrait, dimensions swapped)"
		}
	}
	fmt.Printf("video:    %s\n", video)

	audio := plan.Audio.MimeType
	if audio == "" {
		audio = "keep source codec"
	}
	fmt.Printf("audio:    %s\n", audio)

	hdr := plan.HDR.Mode.String()
	if plan.HDR.ToneMapped {
		hdr += " (tone mapped to SDR)"
	}
	fmt.Printf("hdr:      %s\n", hdr)
}
