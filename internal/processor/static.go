package processor

import (
	"fmt"

	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"

	"gridsaver/internal/config"
	"gridsaver/pkg/layout"
)

// Static generates the static grid screensaver: one source video per cell,
// each looping in place inside a fixed-spacing grid. A partially filled
// grid is allowed; empty cells stay black.
type Static struct {
	engine *Engine
	opts   *config.StaticOptions
}

// NewStatic creates a static-grid generator.
func NewStatic(engine *Engine, opts *config.StaticOptions) *Static {
	return &Static{engine: engine, opts: opts}
}

// Run renders the grid into the configured output path. Output duration is
// the longest source unless a custom duration was set.
func (s *Static) Run(files []string) error {
	e := s.engine
	opts := s.opts

	shape := layout.Shape{Rows: opts.Rows, Cols: opts.Cols}
	canvas := layout.Canvas{Width: opts.Width, Height: opts.Height}

	if len(files) > shape.Count() {
		files = files[:shape.Count()]
	}
	if len(files) < shape.Count() {
		e.log.Warn("not enough videos to fill the grid; remaining cells stay black",
			"videos", len(files), "cells", shape.Count())
	}

	grid, err := layout.Compute(shape, canvas, fillAspect(canvas, shape), layout.Spacing{
		Mode: layout.SpacingMinimal,
		Gap:  opts.Spacing,
	})
	if err != nil {
		return err
	}
	e.log.Info("computed layout", "grid", shape.String(), "cell", fmt.Sprintf("%dx%d", grid.CellWidth, grid.CellHeight))

	// Longest source decides the output length unless overridden.
	duration := opts.Duration
	if duration == 0 {
		for _, f := range files {
			meta, err := e.prober.Probe(f)
			if err != nil {
				return errors.Wrapf(err, "failed to probe %s", f)
			}
			if d := meta.Duration - opts.SkipStart; d > duration {
				duration = d
			}
		}
	}
	if duration <= 0 {
		return errors.New("skip-start leaves no content to render")
	}

	base := ffmpeg.Input(blackCanvasInput(canvas, duration, e.fps), ffmpeg.KwArgs{"f": "lavfi"})

	chain := base
	for i, file := range files {
		inputKwargs := ffmpeg.KwArgs{"stream_loop": -1}
		if opts.SkipStart > 0 {
			inputKwargs["ss"] = opts.SkipStart
		}

		cell := ffmpeg.Input(file, inputKwargs)
		if opts.Crop.Enabled() {
			cell = cell.Filter("crop", ffmpeg.Args{fmt.Sprintf(
				"in_w-%d-%d:in_h-%d-%d:%d:%d",
				opts.Crop.Left, opts.Crop.Right,
				opts.Crop.Top, opts.Crop.Bottom,
				opts.Crop.Left, opts.Crop.Top,
			)})
		}
		cell = cell.
			Filter("scale", ffmpeg.Args{fmt.Sprintf(
				"w=%d:h=%d:force_original_aspect_ratio=decrease:force_divisible_by=2",
				grid.CellWidth, grid.CellHeight,
			)}).
			Filter("pad", ffmpeg.Args{fmt.Sprintf("%d:%d:-1:-1:black", grid.CellWidth, grid.CellHeight)})

		pos := grid.Positions[i]
		chain = ffmpeg.Filter([]*ffmpeg.Stream{chain, cell}, "overlay", ffmpeg.Args{
			fmt.Sprintf("%d:%d:shortest=0", pos.X, pos.Y),
		})
	}

	err = chain.Output(opts.OutputPath, e.finalKwargs(ffmpeg.KwArgs{
		"t": duration,
	})).
		OverWriteOutput().
		ErrorToStdOut().
		Run()
	if err != nil {
		return errors.Wrap(err, "failed to render static grid")
	}

	e.log.Info("static grid created", "output", opts.OutputPath, "duration", fmt.Sprintf("%.1fs", duration))
	return nil
}
