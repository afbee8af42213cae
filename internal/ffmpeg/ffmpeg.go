// Package ffmpeg wraps all ffmpeg/ffprobe interaction: media probing, codec
// presets, and translation of layout motions into overlay filter
// expressions. Nothing outside this package builds filter expression text
// for animations.
package ffmpeg

import (
	"encoding/json"
	"fmt"
	"math"
	"runtime"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"

	"gridsaver/pkg/layout"
)

// CodecSettings groups the encoder configuration for one container format.
type CodecSettings struct {
	VideoCodec      string
	AudioCodec      string
	DefaultCRF      int
	ContainerFormat string
	FileExtension   string
	EncoderPresets  map[string]ffmpeg.KwArgs
}

var codecPresets = map[string]CodecSettings{
	"mp4": {
		VideoCodec:      "libx264",
		AudioCodec:      "aac",
		DefaultCRF:      23,
		ContainerFormat: "mp4",
		FileExtension:   ".mp4",
		EncoderPresets: map[string]ffmpeg.KwArgs{
			// Segments are intermediate files that get concatenated; speed
			// matters more than size.
			"segment": {
				"preset": "ultrafast",
				"crf":    23,
			},
			"final": {
				"preset":   "medium",
				"crf":      23,
				"movflags": "+faststart",
			},
		},
	},
	"webm": {
		VideoCodec:      "libvpx-vp9",
		AudioCodec:      "libopus",
		DefaultCRF:      30,
		ContainerFormat: "webm",
		FileExtension:   ".webm",
		EncoderPresets: map[string]ffmpeg.KwArgs{
			"segment": {
				"deadline": "realtime",
				"cpu-used": 8,
				"row-mt":   1,
				"crf":      30,
			},
			"final": {
				"deadline":     "good",
				"cpu-used":     2,
				"row-mt":       1,
				"tile-columns": 2,
				"crf":          30,
			},
		},
	},
}

// GetCodecSettings returns the encoder configuration for outputFormat,
// defaulting to mp4 when the format is unknown.
func GetCodecSettings(outputFormat string) CodecSettings {
	if settings, ok := codecPresets[outputFormat]; ok {
		return settings
	}
	return codecPresets["mp4"]
}

// Metadata contains probed metadata about a media file.
type Metadata struct {
	Duration  float64
	Width     int
	Height    int
	Codec     string
	FrameRate float64
}

// Prober retrieves media metadata via ffprobe.
type Prober struct {
	log *log.Logger
}

// NewProber creates a Prober that logs probe diagnostics to logger.
func NewProber(logger *log.Logger) *Prober {
	return &Prober{log: logger}
}

// Probe retrieves duration, dimensions, codec and framerate for a video
// file. Duration falls back from the video stream to the container format
// and finally to frame count divided by framerate.
func (p *Prober) Probe(inputPath string) (*Metadata, error) {
	raw, err := ffmpeg.Probe(inputPath)
	if err != nil {
		return nil, errors.Wrapf(err, "error probing %s", inputPath)
	}

	var data map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, errors.WithStack(err)
	}

	videoStream := findVideoStream(data)
	if videoStream == nil {
		return nil, errors.Errorf("no video stream found in %s", inputPath)
	}

	var duration float64

	// First try video stream duration
	if durationStr, ok := videoStream["duration"].(string); ok {
		if d, err := strconv.ParseFloat(strings.TrimSpace(durationStr), 64); err == nil {
			duration = d
		}
	}

	// If stream duration is not available, try format duration
	if duration == 0 {
		if format, ok := data["format"].(map[string]interface{}); ok {
			if durationStr, ok := format["duration"].(string); ok {
				if d, err := strconv.ParseFloat(strings.TrimSpace(durationStr), 64); err == nil {
					duration = d
				}
			}
		}
	}

	frameRate := 0.0
	if rate, ok := videoStream["r_frame_rate"].(string); ok {
		if fps, err := ParseFrameRate(rate); err == nil {
			frameRate = fps
		} else {
			p.log.Debug("could not parse framerate", "file", inputPath, "raw", rate)
		}
	}

	// Last resort: frame count over framerate
	if duration == 0 && frameRate > 0 {
		if nbFrames, ok := videoStream["nb_frames"].(string); ok {
			if frames, err := strconv.ParseFloat(nbFrames, 64); err == nil {
				duration = frames / frameRate
			}
		}
	}

	if duration == 0 {
		return nil, errors.Errorf("could not determine duration of %s", inputPath)
	}

	width, _ := videoStream["width"].(float64)
	height, _ := videoStream["height"].(float64)
	codec, _ := videoStream["codec_name"].(string)

	return &Metadata{
		Duration:  duration,
		Width:     int(width),
		Height:    int(height),
		Codec:     codec,
		FrameRate: frameRate,
	}, nil
}

// ImageDimensions probes the pixel size of a still image, e.g. a cabinet
// frame PNG.
func (p *Prober) ImageDimensions(imagePath string) (width, height int, err error) {
	raw, err := ffmpeg.Probe(imagePath)
	if err != nil {
		return 0, 0, errors.Wrapf(err, "error probing %s", imagePath)
	}

	var data map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return 0, 0, errors.WithStack(err)
	}

	stream := findVideoStream(data)
	if stream == nil {
		return 0, 0, errors.Errorf("no image stream found in %s", imagePath)
	}

	w, wok := stream["width"].(float64)
	h, hok := stream["height"].(float64)
	if !wok || !hok || w <= 0 || h <= 0 {
		return 0, 0, errors.Errorf("could not determine dimensions of %s", imagePath)
	}
	return int(w), int(h), nil
}

func findVideoStream(data map[string]interface{}) map[string]interface{} {
	streams, ok := data["streams"].([]interface{})
	if !ok {
		return nil
	}
	for _, stream := range streams {
		s, ok := stream.(map[string]interface{})
		if !ok {
			continue
		}
		if codecType, _ := s["codec_type"].(string); codecType == "video" {
			return s
		}
	}
	return nil
}

// ParseFrameRate parses an ffprobe rational framerate like "30000/1001" or
// "30/1", rounded to two decimals.
func ParseFrameRate(raw string) (float64, error) {
	parts := strings.Split(raw, "/")
	if len(parts) != 2 {
		return 0, errors.Errorf("malformed frame rate: %s", raw)
	}
	num, err1 := strconv.ParseFloat(parts[0], 64)
	den, err2 := strconv.ParseFloat(parts[1], 64)
	if err1 != nil || err2 != nil || den == 0 {
		return 0, errors.Errorf("malformed frame rate: %s", raw)
	}
	return math.Round(num/den*100) / 100, nil
}

// FormatFPS renders a framerate for use in filter and output arguments.
func FormatFPS(fps float64) string {
	return strconv.FormatFloat(fps, 'f', -1, 64)
}

// OverlayExpr serializes a layout motion into the x and y expression
// strings accepted by the overlay filter: positions ease with smoothstep
// while t is inside the slide window and pin to the end position after.
// Static motions serialize to bare coordinates.
func OverlayExpr(m layout.Motion) (x, y string) {
	if m.Static() {
		return strconv.Itoa(m.End.X), strconv.Itoa(m.End.Y)
	}
	d := strconv.FormatFloat(m.Duration, 'f', -1, 64)
	smoothstep := fmt.Sprintf("(3*pow(t/%[1]s,2)-2*pow(t/%[1]s,3))", d)
	x = axisExpr(m.Start.X, m.End.X, d, smoothstep)
	y = axisExpr(m.Start.Y, m.End.Y, d, smoothstep)
	return x, y
}

func axisExpr(start, end int, duration, smoothstep string) string {
	if start == end {
		return strconv.Itoa(end)
	}
	return fmt.Sprintf("if(lt(t,%s),%d+(%d)*%s,%d)", duration, start, end-start, smoothstep, end)
}

// GetOptimalThreadCount returns the thread count passed to encoders.
func GetOptimalThreadCount() int {
	cpuCount := runtime.NumCPU()
	// Use 75% of available cores to prevent overload
	return int(math.Max(1, float64(cpuCount)*0.75))
}

// EnsureExtension replaces any known video extension on filename with
// extension.
func EnsureExtension(filename, extension string) string {
	extensions := []string{".mp4", ".webm", ".mkv", ".avi", ".mov"}
	for _, ext := range extensions {
		filename = strings.TrimSuffix(filename, ext)
	}
	return filename + extension
}
