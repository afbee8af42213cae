package processor

import (
	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"
	"golang.org/x/exp/slices"
)

// xfadeDuration is how long each blended transition between segments runs.
const xfadeDuration = 0.5

// transitionStyles are the supported xfade styles for segment changes, plus
// "cut" for plain concatenation.
var transitionStyles = []string{
	"cut",
	"fade",
	"circleopen",
	"circleclose",
	"wipeleft",
	"wiperight",
	"fadeblack",
	"radial",
}

// ValidTransition reports whether name is a supported transition style.
func ValidTransition(name string) bool {
	return slices.Contains(transitionStyles, name)
}

// SupportedTransitions returns the transition style names.
func SupportedTransitions() []string {
	return slices.Clone(transitionStyles)
}

// JoinSegments concatenates the segment files into out. "cut" stream-copies
// via the concat demuxer; any other style re-encodes through a chain of
// xfade filters.
func (e *Engine) JoinSegments(segments []string, out, transition string) error {
	if len(segments) == 0 {
		return errors.New("no segments to concatenate")
	}
	if !ValidTransition(transition) {
		return errors.Errorf("unsupported transition: %s (supported: %v)", transition, transitionStyles)
	}

	e.log.Info("concatenating segments", "count", len(segments), "transition", transition)

	if transition == "cut" || len(segments) == 1 {
		return e.ConcatCopy(segments, out)
	}

	durations := make([]float64, len(segments))
	for i, seg := range segments {
		meta, err := e.prober.Probe(seg)
		if err != nil {
			return errors.Wrapf(err, "failed to probe segment %s", seg)
		}
		durations[i] = meta.Duration
	}
	offsets := xfadeOffsets(durations, xfadeDuration)

	chain := ffmpeg.Input(segments[0])
	for i := 1; i < len(segments); i++ {
		next := ffmpeg.Input(segments[i])
		chain = ffmpeg.Filter([]*ffmpeg.Stream{chain, next}, "xfade", ffmpeg.Args{
			"transition=" + transition,
			"duration=" + formatSeconds(xfadeDuration),
			"offset=" + formatSeconds(offsets[i-1]),
		})
	}

	err := chain.Output(out, e.finalKwargs(nil)).
		OverWriteOutput().
		ErrorToStdOut().
		Run()
	if err != nil {
		return errors.Wrap(err, "failed to concatenate segments with transitions")
	}
	return nil
}

// xfadeOffsets computes the start offset of each transition in a chained
// xfade graph: every transition starts d seconds before its left-hand
// stream ends, and each blend shortens the running total by d.
func xfadeOffsets(durations []float64, d float64) []float64 {
	offsets := make([]float64, 0, len(durations)-1)
	current := 0.0
	for i := 0; i < len(durations)-1; i++ {
		current += durations[i] - d
		offsets = append(offsets, current)
	}
	return offsets
}
