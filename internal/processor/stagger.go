package processor

import (
	"fmt"
	"path/filepath"

	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"

	"gridsaver/internal/config"
	"gridsaver/pkg/layout"
)

// Stagger generates the staggered-change grid screensaver: a fixed grid
// where each position cycles through its own clip stream, positions coming
// alive left-to-right, top-to-bottom one change interval apart.
type Stagger struct {
	engine *Engine
	opts   *config.StaggerOptions
}

// NewStagger creates a staggered-grid generator.
func NewStagger(engine *Engine, opts *config.StaggerOptions) *Stagger {
	return &Stagger{engine: engine, opts: opts}
}

// staggerTotal returns the output length: the position streams share one
// duration and the last one starts (positions-1) intervals in, so the run
// lasts until that stream finishes.
func staggerTotal(streamDuration float64, positions int, interval float64) float64 {
	return streamDuration + float64(positions-1)*interval
}

// delayedPTS returns the setpts expression shifting a stream to start at
// delay seconds.
func delayedPTS(delay float64) string {
	return "PTS-STARTPTS+" + formatSeconds(delay) + "/TB"
}

// positionClips distributes clips round-robin over the grid positions.
func positionClips(clips []string, positions int) [][]string {
	buckets := make([][]string, positions)
	for i, clip := range clips {
		pos := i % positions
		buckets[pos] = append(buckets[pos], clip)
	}
	return buckets
}

// Run renders the full screensaver into the configured output path.
func (s *Stagger) Run(files []string) error {
	e := s.engine
	opts := s.opts

	shape := layout.Shape{Rows: opts.Rows, Cols: opts.Cols}
	canvas := layout.Canvas{Width: opts.Width, Height: opts.Height}

	if warning := opts.CycleWarning(); warning != "" {
		e.log.Warn(warning)
	}

	grid, err := layout.Compute(shape, canvas, fillAspect(canvas, shape), layout.Spacing{Mode: layout.SpacingNone})
	if err != nil {
		return err
	}

	clipsDir, cleanClips, err := tempDir("clips")
	if err != nil {
		return err
	}
	defer cleanClips()

	spec := ClipSpec{
		Width:    grid.CellWidth,
		Height:   grid.CellHeight,
		Duration: opts.ClipDuration,
		Crop:     opts.Crop,
	}

	var clips []string
	if opts.Precut {
		clips, err = e.PrepareClips(files, clipsDir, spec)
	} else {
		clips, err = e.ExtractClips(files, opts.TotalClips, clipsDir, spec)
	}
	if err != nil {
		return err
	}
	if len(clips) < opts.Positions() {
		return errors.Errorf("only %d clips available but the grid has %d positions", len(clips), opts.Positions())
	}

	// One concatenated stream per grid position avoids ffmpeg input limits
	// for long runs.
	posDir, cleanPos, err := tempDir("positions")
	if err != nil {
		return err
	}
	defer cleanPos()

	buckets := positionClips(clips, opts.Positions())
	positionVideos := make([]string, 0, opts.Positions())
	for pos, bucket := range buckets {
		if len(bucket) == 0 {
			e.log.Warn("no clips for position", "position", pos)
			continue
		}
		posVideo := filepath.Join(posDir, fmt.Sprintf("position_%02d.mp4", pos))
		e.log.Debug("concatenating position stream", "position", pos, "clips", len(bucket))
		if err := e.ConcatCopy(bucket, posVideo); err != nil {
			return errors.Wrapf(err, "failed to build position stream %d", pos)
		}
		positionVideos = append(positionVideos, posVideo)
	}

	meta, err := e.prober.Probe(positionVideos[0])
	if err != nil {
		return errors.Wrap(err, "failed to probe position stream")
	}
	total := staggerTotal(meta.Duration, len(positionVideos), opts.ChangeInterval)
	e.log.Info("rendering staggered grid", "positions", len(positionVideos), "duration", fmt.Sprintf("%.1fs", total))

	chain := ffmpeg.Input(blackCanvasInput(canvas, total, e.fps), ffmpeg.KwArgs{"f": "lavfi"})
	for pos, posVideo := range positionVideos {
		p := grid.Positions[pos]
		cell := ffmpeg.Input(posVideo)
		args := ffmpeg.Args{fmt.Sprintf("x=%d", p.X), fmt.Sprintf("y=%d", p.Y)}
		// Stagger: position N appears N change intervals into the run. Its
		// stream is shifted to start there so no content is cut short.
		if delay := float64(pos) * opts.ChangeInterval; delay > 0 {
			cell = cell.Filter("setpts", ffmpeg.Args{delayedPTS(delay)})
			args = append(args, "enable='gte(t,"+formatSeconds(delay)+")'")
		}
		chain = ffmpeg.Filter([]*ffmpeg.Stream{chain, cell}, "overlay", args)
	}

	err = chain.Output(opts.OutputPath, e.finalKwargs(ffmpeg.KwArgs{
		"t": total,
	})).
		OverWriteOutput().
		ErrorToStdOut().
		Run()
	if err != nil {
		return errors.Wrap(err, "failed to render staggered grid")
	}

	e.log.Info("staggered grid created", "output", opts.OutputPath)
	return nil
}
