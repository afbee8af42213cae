package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"gridsaver/internal/config"
	ffmpegWrap "gridsaver/internal/ffmpeg"
	"gridsaver/internal/processor"
	"gridsaver/internal/source"
	"gridsaver/pkg/layout"
)

var (
	rootCmd = &cobra.Command{
		Use:   "gridsaver",
		Short: "Generate grid screensaver videos from a folder of clips",
		Long: `gridsaver arranges random clips from a video collection into animated
grid compositions rendered with ffmpeg.

Examples:
  # A fixed 3x3 wall where every cell loops its own video
  gridsaver static -s ./videos -o wall.mp4 --rows 3 --cols 3

  # A grid that grows from 1x1 to 5x5 and shrinks back, with CRT styling
  gridsaver growing -s ./videos -o grow.webm --max-grid 5 --crt medium

  # Cells swap content one position at a time
  gridsaver stagger -s ./videos -o stagger.mp4 --rows 2 --cols 3

  # Arcade cabinets sliding onto the screen as the grid grows
  gridsaver cabinet -s ./videos -o arcade.mp4 --cabinet-png frame.png`,
	}

	staticCmd = &cobra.Command{
		Use:   "static",
		Short: "Render a fixed grid where each cell loops one source video",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := &config.StaticOptions{}
			getCommonFlags(cmd, &opts.Common)
			opts.Rows, _ = cmd.Flags().GetInt("rows")
			opts.Cols, _ = cmd.Flags().GetInt("cols")
			opts.Spacing, _ = cmd.Flags().GetInt("spacing")
			opts.SkipStart, _ = cmd.Flags().GetFloat64("skip-start")
			opts.Duration, _ = cmd.Flags().GetFloat64("duration")
			opts.Crop = getCropFlags(cmd)

			if err := applyPreset(cmd, opts); err != nil {
				return err
			}
			if err := opts.Validate(); err != nil {
				return err
			}
			engine, files, err := newEngine(&opts.Common)
			if err != nil {
				return err
			}
			return processor.NewStatic(engine, opts).Run(files)
		},
	}

	growingCmd = &cobra.Command{
		Use:   "growing",
		Short: "Render a grid that grows from 1x1 to NxN and shrinks back",
		Long: fmt.Sprintf(`Render a sequence of square grids growing from 1x1 up to the maximum
size and back down, joined with a configurable transition.

Supported transitions: %s`, strings.Join(processor.SupportedTransitions(), ", ")),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := &config.GrowingOptions{}
			getCommonFlags(cmd, &opts.Common)
			opts.MaxGridSize, _ = cmd.Flags().GetInt("max-grid")
			opts.TotalLength, _ = cmd.Flags().GetFloat64("length")
			opts.ClipDuration, _ = cmd.Flags().GetFloat64("clip-duration")
			opts.TotalClips, _ = cmd.Flags().GetInt("total-clips")
			opts.Transition, _ = cmd.Flags().GetString("transition")
			opts.CRT, _ = cmd.Flags().GetString("crt")
			opts.Crop = getCropFlags(cmd)

			if err := applyPreset(cmd, opts); err != nil {
				return err
			}
			if err := opts.Validate(); err != nil {
				return err
			}
			engine, files, err := newEngine(&opts.Common)
			if err != nil {
				return err
			}
			return processor.NewGrowing(engine, opts).Run(files)
		},
	}

	staggerCmd = &cobra.Command{
		Use:   "stagger",
		Short: "Render a fixed grid where cells change content one at a time",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := &config.StaggerOptions{}
			getCommonFlags(cmd, &opts.Common)
			opts.Rows, _ = cmd.Flags().GetInt("rows")
			opts.Cols, _ = cmd.Flags().GetInt("cols")
			opts.ClipDuration, _ = cmd.Flags().GetFloat64("clip-duration")
			opts.ChangeInterval, _ = cmd.Flags().GetFloat64("change-interval")
			opts.TotalClips, _ = cmd.Flags().GetInt("total-clips")
			opts.Precut, _ = cmd.Flags().GetBool("precut")
			opts.Crop = getCropFlags(cmd)

			if err := applyPreset(cmd, opts); err != nil {
				return err
			}
			if err := opts.Validate(); err != nil {
				return err
			}
			engine, files, err := newEngine(&opts.Common)
			if err != nil {
				return err
			}
			return processor.NewStagger(engine, opts).Run(files)
		},
	}

	cabinetCmd = &cobra.Command{
		Use:   "cabinet",
		Short: "Render a growing grid of framed cells sliding in from off-screen",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := &config.CabinetOptions{}
			getCommonFlags(cmd, &opts.Common)
			opts.MaxGridSize, _ = cmd.Flags().GetInt("max-grid")
			opts.ClipDuration, _ = cmd.Flags().GetFloat64("clip-duration")
			opts.HoldDuration, _ = cmd.Flags().GetFloat64("hold")
			opts.SlideDuration, _ = cmd.Flags().GetFloat64("slide-duration")
			opts.TotalClips, _ = cmd.Flags().GetInt("total-clips")
			opts.CabinetPNG, _ = cmd.Flags().GetString("cabinet-png")
			opts.Spacing, _ = cmd.Flags().GetString("spacing")
			opts.SlideFrom, _ = cmd.Flags().GetString("slide-from")
			opts.Crop = getCropFlags(cmd)

			if err := applyPreset(cmd, opts); err != nil {
				return err
			}
			if err := opts.Validate(); err != nil {
				return err
			}
			engine, files, err := newEngine(&opts.Common)
			if err != nil {
				return err
			}
			return processor.NewCabinet(engine, opts).Run(files)
		},
	}
)

func getCommonFlags(cmd *cobra.Command, c *config.Common) {
	c.SourceDir, _ = cmd.Flags().GetString("source")
	c.OutputPath, _ = cmd.Flags().GetString("output")
	c.Width, _ = cmd.Flags().GetInt("width")
	c.Height, _ = cmd.Flags().GetInt("height")
	c.OutputFormat, _ = cmd.Flags().GetString("format")
	c.Verbose, _ = cmd.Flags().GetBool("verbose")
}

func getCropFlags(cmd *cobra.Command) config.Crop {
	var crop config.Crop
	crop.Top, _ = cmd.Flags().GetInt("crop-top")
	crop.Right, _ = cmd.Flags().GetInt("crop-right")
	crop.Bottom, _ = cmd.Flags().GetInt("crop-bottom")
	crop.Left, _ = cmd.Flags().GetInt("crop-left")
	return crop
}

// applyPreset overlays a TOML preset onto opts. Keys present in the file
// override flag values; everything else keeps its flag or default.
func applyPreset(cmd *cobra.Command, opts interface{}) error {
	preset, _ := cmd.Flags().GetString("preset")
	if preset == "" {
		return nil
	}
	return config.LoadPreset(preset, opts)
}

// newEngine builds the shared rendering engine: it finds the source videos,
// detects their dominant frame rate, and wires the probe and logging layers.
func newEngine(c *config.Common) (*processor.Engine, []string, error) {
	logger := newLogger(c.Verbose)

	files, err := source.FindVideos(c.SourceDir)
	if err != nil {
		return nil, nil, err
	}
	if len(files) == 0 {
		return nil, nil, fmt.Errorf("no video files found in %s", c.SourceDir)
	}
	logger.Info("found source videos", "count", len(files), "dir", c.SourceDir)

	prober := ffmpegWrap.NewProber(logger)
	fps := source.DetectFrameRate(files, prober, logger)

	return processor.NewEngine(logger, prober, fps, c.OutputFormat), files, nil
}

func newLogger(verbose bool) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

func addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("source", "s", "", "Directory containing source videos")
	cmd.Flags().StringP("output", "o", "", "Output video path")
	cmd.Flags().Int("width", config.DefaultWidth, "Output width in pixels")
	cmd.Flags().Int("height", config.DefaultHeight, "Output height in pixels")
	cmd.Flags().String("format", "mp4", "Output container format (mp4 or webm)")
	cmd.Flags().String("preset", "", "TOML preset file overriding flag values")
	cmd.Flags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.MarkFlagRequired("source")
	cmd.MarkFlagRequired("output")
}

func addCropFlags(cmd *cobra.Command) {
	cmd.Flags().Int("crop-top", 0, "Pixels to crop from the top of each source")
	cmd.Flags().Int("crop-right", 0, "Pixels to crop from the right of each source")
	cmd.Flags().Int("crop-bottom", 0, "Pixels to crop from the bottom of each source")
	cmd.Flags().Int("crop-left", 0, "Pixels to crop from the left of each source")
}

func init() {
	addCommonFlags(staticCmd)
	addCropFlags(staticCmd)
	staticCmd.Flags().Int("rows", 3, "Number of grid rows")
	staticCmd.Flags().Int("cols", 3, "Number of grid columns")
	staticCmd.Flags().Int("spacing", layout.DefaultGap, "Gap between cells in pixels (0 for none)")
	staticCmd.Flags().Float64("skip-start", 0, "Seconds to skip from the start of each source")
	staticCmd.Flags().Float64("duration", 0, "Output duration in seconds (0 = longest source)")

	addCommonFlags(growingCmd)
	addCropFlags(growingCmd)
	growingCmd.Flags().Int("max-grid", 3, "Largest grid dimension (NxN)")
	growingCmd.Flags().Float64("length", 60, "Total output length in seconds")
	growingCmd.Flags().Float64("clip-duration", config.DefaultClipDuration, "Length of each extracted clip in seconds")
	growingCmd.Flags().Int("total-clips", 0, "Number of clips to extract (0 = one per cell of the largest grid)")
	growingCmd.Flags().String("transition", "cut", "Transition between grid states")
	growingCmd.Flags().String("crt", "", "CRT styling intensity (light, medium, heavy)")

	addCommonFlags(staggerCmd)
	addCropFlags(staggerCmd)
	staggerCmd.Flags().Int("rows", 2, "Number of grid rows")
	staggerCmd.Flags().Int("cols", 3, "Number of grid columns")
	staggerCmd.Flags().Float64("clip-duration", config.DefaultClipDuration, "Length of each extracted clip in seconds")
	staggerCmd.Flags().Float64("change-interval", 2, "Seconds between one cell changing and the next")
	staggerCmd.Flags().Int("total-clips", 0, "Number of clips to extract (0 = five per grid position)")
	staggerCmd.Flags().Bool("precut", false, "Treat sources as pre-cut clips instead of extracting random windows")

	addCommonFlags(cabinetCmd)
	addCropFlags(cabinetCmd)
	cabinetCmd.Flags().Int("max-grid", 4, "Largest grid dimension (NxN)")
	cabinetCmd.Flags().Float64("clip-duration", config.DefaultClipDuration, "Length of each extracted clip in seconds")
	cabinetCmd.Flags().Float64("hold", 8, "Seconds each grid state stays on screen")
	cabinetCmd.Flags().Float64("slide-duration", config.DefaultSlideDuration, "Seconds the slide-in animation lasts (0 = instant)")
	cabinetCmd.Flags().Int("total-clips", 0, "Number of clips to extract (0 = one per cell of the largest grid)")
	cabinetCmd.Flags().String("cabinet-png", "", "Cabinet frame image overlaid on each cell")
	cabinetCmd.Flags().String("spacing", "none", "Cell spacing policy (none, minimal, even)")
	cabinetCmd.Flags().String("slide-from", "", "Edge new cells slide in from (right, bottom; default alternates)")

	rootCmd.AddCommand(staticCmd)
	rootCmd.AddCommand(growingCmd)
	rootCmd.AddCommand(staggerCmd)
	rootCmd.AddCommand(cabinetCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
