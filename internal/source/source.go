// Package source locates source video files and derives shared properties
// from them, such as the target framerate for a render.
package source

import (
	"io/fs"
	"math/rand"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"

	"gridsaver/internal/ffmpeg"
)

// DefaultFPS is used when no source framerate can be detected.
const DefaultFPS = 30

// frameRateSampleSize caps how many sources are probed for framerate
// detection.
const frameRateSampleSize = 10

var videoExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".avi":  true,
	".mkv":  true,
	".m4v":  true,
	".mpg":  true,
	".mpeg": true,
	".wmv":  true,
}

// FindVideos recursively collects all video files under dir, sorted by path
// so runs are reproducible.
func FindVideos(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if videoExtensions[strings.ToLower(filepath.Ext(path))] {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to scan %s", dir)
	}
	slices.Sort(files)
	return files, nil
}

// metadataProber is the slice of ffmpeg.Prober needed for framerate
// detection.
type metadataProber interface {
	Probe(inputPath string) (*ffmpeg.Metadata, error)
}

// DetectFrameRate probes a sample of the source files and returns the most
// common framerate among them, falling back to DefaultFPS when nothing can
// be read. Matching the output framerate to the sources avoids judder from
// frame resampling.
func DetectFrameRate(files []string, prober metadataProber, logger *log.Logger) float64 {
	sample := files
	if len(sample) > frameRateSampleSize {
		sample = slices.Clone(files)
		rand.Shuffle(len(sample), func(i, j int) { sample[i], sample[j] = sample[j], sample[i] })
		sample = sample[:frameRateSampleSize]
	}

	var rates []float64
	for _, file := range sample {
		meta, err := prober.Probe(file)
		if err != nil || meta.FrameRate <= 0 {
			continue
		}
		logger.Debug("probed framerate", "file", filepath.Base(file), "fps", meta.FrameRate)
		rates = append(rates, meta.FrameRate)
	}

	if len(rates) == 0 {
		logger.Warn("could not detect any source framerates", "fallback", DefaultFPS)
		return DefaultFPS
	}

	fps := MostCommonRate(rates)
	logger.Info("detected target framerate", "fps", fps, "sampled", len(rates))
	return fps
}

// MostCommonRate returns the framerate occurring most often in rates. Ties
// break toward the lower rate so the choice is deterministic.
func MostCommonRate(rates []float64) float64 {
	counts := make(map[float64]int)
	for _, r := range rates {
		counts[r]++
	}

	keys := make([]float64, 0, len(counts))
	for r := range counts {
		keys = append(keys, r)
	}
	slices.Sort(keys)

	best := keys[0]
	for _, r := range keys[1:] {
		if counts[r] > counts[best] {
			best = r
		}
	}
	return best
}
