package processor

import (
	"fmt"
	"path/filepath"

	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"

	"gridsaver/internal/config"
	"gridsaver/internal/effect"
	"gridsaver/pkg/layout"
)

// xstackMaxGrid is the largest square grid composed with a single xstack
// call; larger grids are assembled row by row to keep filter graphs and
// open inputs manageable.
const xstackMaxGrid = 6

// Growing generates the growing/shrinking grid screensaver: the grid steps
// through 1x1 up to max-by-max and back down, one segment per state, joined
// with cuts or blended transitions.
type Growing struct {
	engine *Engine
	opts   *config.GrowingOptions
}

// NewGrowing creates a growing-grid generator.
func NewGrowing(engine *Engine, opts *config.GrowingOptions) *Growing {
	return &Growing{engine: engine, opts: opts}
}

// GrowShrinkSequence returns the square grid shapes for one grow-and-shrink
// pass: 1..max then max-1..1.
func GrowShrinkSequence(max int) []layout.Shape {
	var seq []layout.Shape
	for n := 1; n <= max; n++ {
		seq = append(seq, layout.Square(n))
	}
	for n := max - 1; n >= 1; n-- {
		seq = append(seq, layout.Square(n))
	}
	return seq
}

// Run renders the full screensaver into the configured output path.
func (g *Growing) Run(files []string) error {
	e := g.engine
	opts := g.opts
	canvas := layout.Canvas{Width: opts.Width, Height: opts.Height}

	eff, err := effect.Get(crtName(opts.CRT))
	if err != nil {
		return errors.Errorf("unsupported crt level: %s (effects: %v)", opts.CRT, effect.GetSupportedEffects())
	}
	if !ValidTransition(opts.Transition) {
		return errors.Errorf("unsupported transition: %s (supported: %v)", opts.Transition, SupportedTransitions())
	}

	sequence := GrowShrinkSequence(opts.MaxGridSize)
	timePerState := opts.TotalLength / float64(len(sequence))
	e.log.Info("grid sequence planned", "states", len(sequence), "per-state", fmt.Sprintf("%.1fs", timePerState))

	clipsDir, cleanClips, err := tempDir("clips")
	if err != nil {
		return err
	}
	defer cleanClips()

	// Extract at the smallest cell size; larger states scale the clips up.
	minCell := fillAspect(canvas, layout.Square(opts.MaxGridSize))
	clips, err := e.ExtractClips(files, opts.TotalClips, clipsDir, ClipSpec{
		Width:    minCell.Width,
		Height:   minCell.Height,
		Duration: opts.ClipDuration,
		Crop:     opts.Crop,
		Effect:   eff,
	})
	if err != nil {
		return err
	}

	workDir, cleanWork, err := tempDir("segments")
	if err != nil {
		return err
	}
	defer cleanWork()

	segments := make([]string, 0, len(sequence))
	for idx, shape := range sequence {
		e.log.Info("creating segment", "n", idx+1, "of", len(sequence), "grid", shape.String())
		seg := filepath.Join(workDir, fmt.Sprintf("segment_%03d_%s.mp4", idx, shape))
		if err := g.renderSegment(clips, shape, canvas, timePerState, workDir, seg); err != nil {
			return errors.Wrapf(err, "failed to create segment %d (%s)", idx, shape)
		}
		segments = append(segments, seg)
	}

	return e.JoinSegments(segments, opts.OutputPath, opts.Transition)
}

// renderSegment composes one grid state into a segment file. Clips are
// looped to the segment duration, scaled to the state's cell size and
// stacked.
func (g *Growing) renderSegment(clips []string, shape layout.Shape, canvas layout.Canvas, duration float64, workDir, out string) error {
	e := g.engine

	looped := make([]string, shape.Count())
	for i := 0; i < shape.Count(); i++ {
		looped[i] = filepath.Join(workDir, fmt.Sprintf("loop_%s_%03d.mp4", shape, i))
		if err := e.LoopClip(clips[i%len(clips)], duration, looped[i]); err != nil {
			return err
		}
	}

	if shape.Count() == 1 {
		return ffmpeg.Input(looped[0]).
			Output(out, e.segmentKwargs(ffmpeg.KwArgs{
				"vf": fillCropFilter(canvas.Width, canvas.Height),
			})).
			OverWriteOutput().
			ErrorToStdOut().
			Run()
	}

	grid, err := layout.Compute(shape, canvas, fillAspect(canvas, shape), layout.Spacing{Mode: layout.SpacingNone})
	if err != nil {
		return err
	}

	if shape.Cols > xstackMaxGrid {
		return g.renderRowWise(looped, shape, grid, workDir, out)
	}

	streams := make([]*ffmpeg.Stream, shape.Count())
	for i, clip := range looped {
		streams[i] = scaledInput(clip, grid.CellWidth, grid.CellHeight)
	}
	stacked := ffmpeg.Filter(streams, "xstack", ffmpeg.Args{
		fmt.Sprintf("inputs=%d", shape.Count()),
		"layout=" + xstackLayoutString(grid),
		"fill=black",
	})

	err = stacked.Output(out, e.segmentKwargs(nil)).
		OverWriteOutput().
		ErrorToStdOut().
		Run()
	return errors.Wrap(err, "xstack composition failed")
}

// renderRowWise builds each grid row with hstack, then stacks the row files
// vertically.
func (g *Growing) renderRowWise(looped []string, shape layout.Shape, grid layout.Layout, workDir, out string) error {
	e := g.engine

	rowFiles := make([]string, 0, shape.Rows)
	for row := 0; row < shape.Rows; row++ {
		rowClips := looped[row*shape.Cols : (row+1)*shape.Cols]
		rowFile := filepath.Join(workDir, fmt.Sprintf("row_%s_%d.mp4", shape, row))

		streams := make([]*ffmpeg.Stream, len(rowClips))
		for i, clip := range rowClips {
			streams[i] = scaledInput(clip, grid.CellWidth, grid.CellHeight)
		}
		stacked := ffmpeg.Filter(streams, "hstack", ffmpeg.Args{
			fmt.Sprintf("inputs=%d", len(rowClips)),
		})

		err := stacked.Output(rowFile, e.segmentKwargs(nil)).
			OverWriteOutput().
			ErrorToStdOut().
			Run()
		if err != nil {
			return errors.Wrapf(err, "failed to compose row %d", row)
		}
		rowFiles = append(rowFiles, rowFile)
	}

	streams := make([]*ffmpeg.Stream, len(rowFiles))
	for i, rowFile := range rowFiles {
		streams[i] = ffmpeg.Input(rowFile)
	}
	stacked := ffmpeg.Filter(streams, "vstack", ffmpeg.Args{
		fmt.Sprintf("inputs=%d", len(rowFiles)),
	})

	err := stacked.Output(out, e.segmentKwargs(nil)).
		OverWriteOutput().
		ErrorToStdOut().
		Run()
	return errors.Wrap(err, "vstack composition failed")
}

// scaledInput opens clip and scales it to fill a cell, cropping overflow.
func scaledInput(clip string, w, h int) *ffmpeg.Stream {
	return ffmpeg.Input(clip).
		Filter("scale", ffmpeg.Args{fmt.Sprintf("%d:%d:force_original_aspect_ratio=increase", w, h)}).
		Filter("crop", ffmpeg.Args{fmt.Sprintf("%d:%d", w, h)})
}

// crtName maps the --crt flag values onto effect registry names.
func crtName(level string) string {
	switch level {
	case "", "off":
		return "off"
	case "light", "medium", "heavy":
		return "crt-" + level
	}
	return level
}
