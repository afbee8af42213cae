// Package processor implements the screensaver generator modes. Each mode
// turns a directory of source videos into one composed output file by
// extracting clips, computing grid geometry through pkg/layout, and driving
// ffmpeg for every transformation.
package processor

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"

	"gridsaver/internal/config"
	"gridsaver/internal/effect"
	ffmpegWrap "gridsaver/internal/ffmpeg"
)

// Engine carries the collaborators shared by all generator modes.
type Engine struct {
	log    *log.Logger
	prober *ffmpegWrap.Prober
	fps    float64
	format string
}

// NewEngine creates an Engine rendering at fps into the given container
// format.
func NewEngine(logger *log.Logger, prober *ffmpegWrap.Prober, fps float64, format string) *Engine {
	return &Engine{
		log:    logger,
		prober: prober,
		fps:    fps,
		format: format,
	}
}

// ClipSpec describes how clips are extracted from source videos.
type ClipSpec struct {
	Width    int
	Height   int
	Duration float64
	Crop     config.Crop
	Effect   effect.Effect
}

// ExtractClips pulls n random clips from the source files into dir, scaled
// and cropped to fill the spec's cell size. Segments never start within
// config.AvoidEdges seconds of a source's start or end; sources too short
// for that are skipped.
func (e *Engine) ExtractClips(files []string, n int, dir string, spec ClipSpec) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "error creating clip directory %s", dir)
	}

	vf := clipFilterChain(spec, e.fps)
	e.log.Info("extracting clips", "count", n, "cell", fmt.Sprintf("%dx%d", spec.Width, spec.Height), "fps", e.fps)

	clips := make([]string, 0, n)
	for i := 0; i < n; i++ {
		src := files[rand.Intn(len(files))]
		meta, err := e.prober.Probe(src)
		if err != nil || meta.Duration < spec.Duration+2*config.AvoidEdges {
			e.log.Debug("skipping source", "file", filepath.Base(src), "reason", "too short or unreadable")
			continue
		}

		maxStart := meta.Duration - spec.Duration - config.AvoidEdges
		start := config.AvoidEdges + rand.Float64()*(maxStart-config.AvoidEdges)

		out := filepath.Join(dir, fmt.Sprintf("clip_%04d.mp4", i))
		e.log.Debug("extracting clip", "n", i+1, "of", n, "source", filepath.Base(src), "start", fmt.Sprintf("%.1fs", start))

		err = ffmpeg.Input(src, ffmpeg.KwArgs{"ss": start}).
			Output(out, ffmpeg.KwArgs{
				"t":  spec.Duration,
				"vf": vf,
				"an": "",
			}).
			OverWriteOutput().
			ErrorToStdOut().
			Run()
		if err != nil {
			e.log.Warn("failed to extract clip", "source", filepath.Base(src), "err", err)
			continue
		}
		clips = append(clips, out)
	}

	if len(clips) == 0 {
		return nil, errors.New("no clips could be extracted from the source videos")
	}
	return clips, nil
}

// PrepareClips treats the source files as ready-made clips: each is trimmed
// to the spec duration and scaled to the cell size. Files shorter than the
// spec duration are skipped.
func (e *Engine) PrepareClips(files []string, dir string, spec ClipSpec) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "error creating clip directory %s", dir)
	}

	vf := clipFilterChain(spec, e.fps)
	e.log.Info("preparing pre-cut clips", "sources", len(files), "max", fmt.Sprintf("%.1fs", spec.Duration))

	var clips []string
	skipped := 0
	for _, src := range files {
		meta, err := e.prober.Probe(src)
		if err != nil || meta.Duration < spec.Duration {
			e.log.Debug("skipping pre-cut clip", "file", filepath.Base(src))
			skipped++
			continue
		}

		out := filepath.Join(dir, fmt.Sprintf("clip_%04d.mp4", len(clips)))
		err = ffmpeg.Input(src).
			Output(out, ffmpeg.KwArgs{
				"t":  spec.Duration,
				"vf": vf,
				"an": "",
			}).
			OverWriteOutput().
			ErrorToStdOut().
			Run()
		if err != nil {
			e.log.Warn("failed to prepare clip", "source", filepath.Base(src), "err", err)
			skipped++
			continue
		}
		clips = append(clips, out)
	}

	e.log.Info("prepared clips", "usable", len(clips), "skipped", skipped)
	if len(clips) == 0 {
		return nil, errors.New("no usable pre-cut clips found")
	}
	return clips, nil
}

// LoopClip stream-copies clip repeated until duration seconds are filled.
func (e *Engine) LoopClip(clip string, duration float64, out string) error {
	err := ffmpeg.Input(clip, ffmpeg.KwArgs{"stream_loop": -1}).
		Output(out, ffmpeg.KwArgs{
			"t": duration,
			"c": "copy",
		}).
		OverWriteOutput().
		ErrorToStdOut().
		Run()
	if err != nil {
		return errors.Wrapf(err, "failed to loop %s", clip)
	}
	return nil
}

// ConcatCopy joins files without re-encoding via the concat demuxer. The
// list file is written next to the output.
func (e *Engine) ConcatCopy(files []string, out string) error {
	listPath := strings.TrimSuffix(out, filepath.Ext(out)) + "_concat.txt"
	if err := writeConcatList(listPath, files); err != nil {
		return err
	}

	err := ffmpeg.Input(listPath, ffmpeg.KwArgs{"f": "concat", "safe": 0}).
		Output(out, ffmpeg.KwArgs{"c": "copy"}).
		OverWriteOutput().
		ErrorToStdOut().
		Run()
	if err != nil {
		return errors.Wrap(err, "failed to concatenate segments")
	}
	return nil
}

// writeConcatList writes a concat demuxer list file with absolute paths.
func writeConcatList(path string, files []string) error {
	var sb strings.Builder
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return errors.WithStack(err)
		}
		fmt.Fprintf(&sb, "file '%s'\n", abs)
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return errors.Wrapf(err, "failed to write concat list %s", path)
	}
	return nil
}

// segmentKwargs returns the encoder arguments for intermediate segment
// files.
func (e *Engine) segmentKwargs(extra ffmpeg.KwArgs) ffmpeg.KwArgs {
	settings := ffmpegWrap.GetCodecSettings(e.format)
	kwargs := ffmpeg.KwArgs{
		"c:v":     settings.VideoCodec,
		"pix_fmt": "yuv420p",
		"r":       ffmpegWrap.FormatFPS(e.fps),
		"threads": ffmpegWrap.GetOptimalThreadCount(),
	}
	for k, v := range settings.EncoderPresets["segment"] {
		kwargs[k] = v
	}
	for k, v := range extra {
		kwargs[k] = v
	}
	return kwargs
}

// finalKwargs returns the encoder arguments for the final output file.
func (e *Engine) finalKwargs(extra ffmpeg.KwArgs) ffmpeg.KwArgs {
	settings := ffmpegWrap.GetCodecSettings(e.format)
	kwargs := ffmpeg.KwArgs{
		"c:v":     settings.VideoCodec,
		"pix_fmt": "yuv420p",
		"r":       ffmpegWrap.FormatFPS(e.fps),
		"threads": ffmpegWrap.GetOptimalThreadCount(),
	}
	for k, v := range settings.EncoderPresets["final"] {
		kwargs[k] = v
	}
	for k, v := range extra {
		kwargs[k] = v
	}
	return kwargs
}

// tempDir creates a scratch directory that callers remove with the
// returned cleanup func.
func tempDir(label string) (string, func(), error) {
	dir, err := os.MkdirTemp("", config.TempDirPrefix+label+"_")
	if err != nil {
		return "", nil, errors.Wrap(err, "failed to create temp directory")
	}
	return dir, func() { os.RemoveAll(dir) }, nil
}
