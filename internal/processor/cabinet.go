package processor

import (
	"fmt"
	"path/filepath"

	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"

	"gridsaver/internal/config"
	ffmpegWrap "gridsaver/internal/ffmpeg"
	"gridsaver/pkg/layout"
)

// Cabinet generates the cabinet grid screensaver: square grids growing from
// 1x1 to max-by-max, each cell optionally framed by a cabinet PNG, with new
// cells sliding in from off-canvas under smoothstep easing.
type Cabinet struct {
	engine *Engine
	opts   *config.CabinetOptions
}

// NewCabinet creates a cabinet-grid generator.
func NewCabinet(engine *Engine, opts *config.CabinetOptions) *Cabinet {
	return &Cabinet{engine: engine, opts: opts}
}

// GrowSequence returns the square grid shapes 1..max.
func GrowSequence(max int) []layout.Shape {
	seq := make([]layout.Shape, 0, max)
	for n := 1; n <= max; n++ {
		seq = append(seq, layout.Square(n))
	}
	return seq
}

// slideDirection resolves the slide edge for the transition into state idx.
// The default alternates right and bottom, matching how a growing square
// grid adds a column, then a row.
func (c *Cabinet) slideDirection(idx int) layout.SlideFrom {
	switch c.opts.SlideFrom {
	case "right":
		return layout.SlideRight
	case "bottom":
		return layout.SlideBottom
	}
	if idx%2 == 0 {
		return layout.SlideBottom
	}
	return layout.SlideRight
}

// Run renders the full screensaver into the configured output path.
func (c *Cabinet) Run(files []string) error {
	e := c.engine
	opts := c.opts
	canvas := layout.Canvas{Width: opts.Width, Height: opts.Height}

	spacing, err := parseSpacing(opts.Spacing)
	if err != nil {
		return err
	}

	// The cell aspect is the cabinet frame when one is used, raw 16:9
	// otherwise.
	aspect := layout.Aspect{Width: 1920, Height: 1080}
	clipW, clipH := 1920, 1080
	if opts.CabinetPNG != "" {
		w, h, err := e.prober.ImageDimensions(opts.CabinetPNG)
		if err != nil {
			e.log.Warn("could not probe cabinet frame; using defaults",
				"png", opts.CabinetPNG, "err", err)
			w, h = config.CabinetFrameWidth, config.CabinetFrameHeight
		}
		aspect = layout.Aspect{Width: w, Height: h}
		clipW, clipH = config.CabinetScreenW, config.CabinetScreenH
		e.log.Info("cabinet frame", "size", fmt.Sprintf("%dx%d", w, h))
	}

	sequence := GrowSequence(opts.MaxGridSize)
	totalDuration := float64(len(sequence)) * opts.HoldDuration

	clipsDir, cleanClips, err := tempDir("clips")
	if err != nil {
		return err
	}
	defer cleanClips()

	clips, err := e.ExtractClips(files, opts.TotalClips, clipsDir, ClipSpec{
		Width:    clipW,
		Height:   clipH,
		Duration: opts.ClipDuration,
		Crop:     opts.Crop,
	})
	if err != nil {
		return err
	}

	workDir, cleanWork, err := tempDir("cabinets")
	if err != nil {
		return err
	}
	defer cleanWork()

	// Every cell's content runs for the whole video so a cell can appear
	// mid-run without a seek.
	cells := make([]string, len(clips))
	for i, clip := range clips {
		cells[i] = filepath.Join(workDir, fmt.Sprintf("cell_%04d.mp4", i))
		e.log.Debug("preparing cell video", "n", i+1, "of", len(clips))
		if opts.CabinetPNG != "" {
			err = c.compositeCabinet(clip, opts.CabinetPNG, cells[i], aspect, totalDuration)
		} else {
			err = e.LoopClip(clip, totalDuration, cells[i])
		}
		if err != nil {
			return errors.Wrapf(err, "failed to prepare cell video %d", i)
		}
	}

	segments := make([]string, 0, len(sequence))
	var prev *layout.Layout
	for idx, shape := range sequence {
		grid, err := layout.Compute(shape, canvas, aspect, spacing)
		if err != nil {
			return err
		}

		plan := layout.Plan{
			From:          prev,
			To:            grid,
			Canvas:        canvas,
			SlideDuration: opts.SlideDuration,
			SlideFrom:     c.slideDirection(idx),
		}

		e.log.Info("creating segment", "n", idx+1, "of", len(sequence),
			"grid", shape.String(), "entering", len(plan.NewCells()))

		seg := filepath.Join(workDir, fmt.Sprintf("segment_%03d_%s.mp4", idx, shape))
		if err := c.renderSegment(cells, plan, grid, canvas, seg); err != nil {
			return errors.Wrapf(err, "failed to create segment %d (%s)", idx, shape)
		}
		segments = append(segments, seg)

		saved := grid
		prev = &saved
	}

	return e.JoinSegments(segments, opts.OutputPath, "cut")
}

// renderSegment composes one grid state: each cell video is scaled to the
// state's cell size and overlaid on a black canvas with its motion
// serialized into overlay position expressions.
func (c *Cabinet) renderSegment(cells []string, plan layout.Plan, grid layout.Layout, canvas layout.Canvas, out string) error {
	e := c.engine

	chain := ffmpeg.Input(blackCanvasInput(canvas, c.opts.HoldDuration, e.fps), ffmpeg.KwArgs{"f": "lavfi"})
	for i := 0; i < grid.Count(); i++ {
		motion, err := plan.Motion(i)
		if err != nil {
			return err
		}
		xExpr, yExpr := ffmpegWrap.OverlayExpr(motion)

		cell := ffmpeg.Input(cells[i%len(cells)]).
			Filter("scale", ffmpeg.Args{fmt.Sprintf("%d:%d", grid.CellWidth, grid.CellHeight)})

		chain = ffmpeg.Filter([]*ffmpeg.Stream{chain, cell}, "overlay", ffmpeg.Args{
			fmt.Sprintf("x='%s'", xExpr),
			fmt.Sprintf("y='%s'", yExpr),
		})
	}

	err := chain.Output(out, e.segmentKwargs(ffmpeg.KwArgs{
		"t": c.opts.HoldDuration,
	})).
		OverWriteOutput().
		ErrorToStdOut().
		Run()
	return errors.Wrap(err, "overlay composition failed")
}

// compositeCabinet loops a clip for the given duration and composites it
// into the screen window of the cabinet frame PNG.
func (c *Cabinet) compositeCabinet(clip, png, out string, frame layout.Aspect, duration float64) error {
	screen := ffmpeg.Input(clip, ffmpeg.KwArgs{"stream_loop": -1}).
		Filter("scale", ffmpeg.Args{fmt.Sprintf("%d:%d", config.CabinetScreenW, config.CabinetScreenH)}).
		Filter("pad", ffmpeg.Args{fmt.Sprintf("%d:%d:%d:%d:black",
			frame.Width, frame.Height, config.CabinetScreenX, config.CabinetScreenY)})

	overlay := ffmpeg.Input(png).
		Filter("scale", ffmpeg.Args{fmt.Sprintf("%d:%d", frame.Width, frame.Height)})

	err := ffmpeg.Filter([]*ffmpeg.Stream{screen, overlay}, "overlay", ffmpeg.Args{"0:0"}).
		Output(out, c.engine.segmentKwargs(ffmpeg.KwArgs{
			"t": duration,
		})).
		OverWriteOutput().
		ErrorToStdOut().
		Run()
	return errors.Wrap(err, "cabinet composition failed")
}

// parseSpacing maps the --spacing flag onto a layout spacing policy. The
// minimal policy uses the conventional gap.
func parseSpacing(s string) (layout.Spacing, error) {
	mode, err := layout.ParseSpacingMode(s)
	if err != nil {
		return layout.Spacing{}, err
	}
	sp := layout.Spacing{Mode: mode}
	if mode == layout.SpacingMinimal {
		sp.Gap = layout.DefaultGap
	}
	return sp, nil
}
