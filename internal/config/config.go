// Package config defines the options for each generator mode and loads TOML
// preset files. All configuration is resolved once at startup into immutable
// option values; nothing downstream reads global state.
package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"gridsaver/internal/ffmpeg"
)

const (
	// Default output canvas (1080p).
	DefaultWidth  = 1920
	DefaultHeight = 1080

	// DefaultClipDuration is the length in seconds of each extracted clip.
	DefaultClipDuration = 10

	// AvoidEdges is how many seconds at the start and end of a source video
	// are never sampled when extracting random clips.
	AvoidEdges = 10

	// DefaultSlideDuration is how long a cell's slide-in animation runs.
	DefaultSlideDuration = 1.0

	// Fallback cabinet frame geometry, used when the PNG cannot be probed.
	// The screen window is the 4:3 region of the frame the clip shows
	// through.
	CabinetFrameWidth  = 659
	CabinetFrameHeight = 741
	CabinetScreenX     = 120
	CabinetScreenY     = 154
	CabinetScreenW     = 420
	CabinetScreenH     = 315

	// TempDirPrefix is used for all scratch directories.
	TempDirPrefix = "gridsaver_"
)

// Crop trims pixels from the edges of every source video before scaling,
// e.g. to remove black bars or UI overlays.
type Crop struct {
	Top    int `toml:"top"`
	Right  int `toml:"right"`
	Bottom int `toml:"bottom"`
	Left   int `toml:"left"`
}

// Enabled reports whether any edge is trimmed.
func (c Crop) Enabled() bool {
	return c.Top > 0 || c.Right > 0 || c.Bottom > 0 || c.Left > 0
}

// Valid rejects negative margins.
func (c Crop) Valid() error {
	if c.Top < 0 || c.Right < 0 || c.Bottom < 0 || c.Left < 0 {
		return errors.New("crop margins must be non-negative")
	}
	return nil
}

// Common holds the options shared by every generator mode.
type Common struct {
	SourceDir    string `toml:"source_dir"`
	OutputPath   string `toml:"output"`
	Width        int    `toml:"width"`
	Height       int    `toml:"height"`
	OutputFormat string `toml:"format"`
	Verbose      bool   `toml:"verbose"`
}

// Validate checks the shared options and normalizes the output format.
func (c *Common) Validate() error {
	if c.SourceDir == "" {
		return errors.New("source video directory is required")
	}
	if c.OutputPath == "" {
		return errors.New("output path is required")
	}
	if c.Width <= 0 || c.Height <= 0 {
		return errors.Errorf("invalid output resolution %dx%d", c.Width, c.Height)
	}
	c.OutputFormat = strings.ToLower(c.OutputFormat)
	if c.OutputFormat == "" {
		c.OutputFormat = "mp4"
	}
	if c.OutputFormat != "mp4" && c.OutputFormat != "webm" {
		return errors.Errorf("unsupported output format: %s (supported: mp4, webm)", c.OutputFormat)
	}
	c.OutputPath = ffmpeg.EnsureExtension(c.OutputPath, ffmpeg.GetCodecSettings(c.OutputFormat).FileExtension)
	return nil
}

// StaticOptions configures the static grid mode: one source video per cell,
// looping in place.
type StaticOptions struct {
	Common    `toml:"common"`
	Rows      int     `toml:"rows"`
	Cols      int     `toml:"cols"`
	Spacing   int     `toml:"spacing"`
	SkipStart float64 `toml:"skip_start"`
	// Duration of the output in seconds; zero means the longest source
	// decides.
	Duration float64 `toml:"duration"`
	Crop     Crop    `toml:"crop"`
}

// Validate checks the static mode options.
func (o *StaticOptions) Validate() error {
	if err := o.Common.Validate(); err != nil {
		return err
	}
	if o.Rows < 1 || o.Cols < 1 {
		return errors.Errorf("invalid grid %dx%d: rows and cols must be at least 1", o.Rows, o.Cols)
	}
	if o.Spacing < 0 {
		return errors.New("spacing must be non-negative")
	}
	if o.SkipStart < 0 {
		return errors.New("skip-start must be non-negative")
	}
	if o.Duration < 0 {
		return errors.New("duration must be non-negative")
	}
	return o.Crop.Valid()
}

// GrowingOptions configures the growing/shrinking grid mode: square grids
// from 1x1 up to max and back down.
type GrowingOptions struct {
	Common       `toml:"common"`
	MaxGridSize  int     `toml:"max_grid_size"`
	TotalLength  float64 `toml:"total_length"`
	ClipDuration float64 `toml:"clip_duration"`
	// TotalClips is how many unique clips to extract; zero means one per
	// cell of the largest grid.
	TotalClips int    `toml:"total_clips"`
	Transition string `toml:"transition"`
	CRT        string `toml:"crt"`
	Crop       Crop   `toml:"crop"`
}

// Validate checks the growing mode options and fills derived defaults.
func (o *GrowingOptions) Validate() error {
	if err := o.Common.Validate(); err != nil {
		return err
	}
	if o.MaxGridSize < 1 {
		return errors.New("max grid size must be at least 1")
	}
	if o.TotalLength <= 0 {
		return errors.New("total length must be positive")
	}
	if o.ClipDuration <= 0 {
		return errors.New("clip duration must be positive")
	}
	if o.TotalClips == 0 {
		o.TotalClips = o.MaxGridSize * o.MaxGridSize
	}
	if o.TotalClips < 1 {
		return errors.New("total clips must be at least 1")
	}
	return o.Crop.Valid()
}

// StaggerOptions configures the staggered-change grid mode: a fixed grid
// where positions change round-robin on an interval.
type StaggerOptions struct {
	Common         `toml:"common"`
	Rows           int     `toml:"rows"`
	Cols           int     `toml:"cols"`
	ClipDuration   float64 `toml:"clip_duration"`
	ChangeInterval float64 `toml:"change_interval"`
	// TotalClips is how many clips to extract; zero means five full cycles
	// of the grid.
	TotalClips int `toml:"total_clips"`
	// Precut uses the source files as ready-made clips (trimmed to
	// ClipDuration) instead of extracting random segments.
	Precut bool `toml:"precut"`
	Crop   Crop `toml:"crop"`
}

// Positions returns the number of grid positions.
func (o *StaggerOptions) Positions() int { return o.Rows * o.Cols }

// Validate checks the stagger mode options and fills derived defaults.
func (o *StaggerOptions) Validate() error {
	if err := o.Common.Validate(); err != nil {
		return err
	}
	if o.Rows < 1 || o.Cols < 1 {
		return errors.Errorf("invalid grid %dx%d: rows and cols must be at least 1", o.Rows, o.Cols)
	}
	if o.ClipDuration <= 0 {
		return errors.New("clip duration must be positive")
	}
	if o.ChangeInterval <= 0 {
		return errors.New("change interval must be positive")
	}
	if o.TotalClips == 0 {
		o.TotalClips = o.Positions() * 5
	}
	if !o.Precut && o.TotalClips < o.Positions() {
		return errors.Errorf("need at least %d clips for one full cycle, got %d", o.Positions(), o.TotalClips)
	}
	return o.Crop.Valid()
}

// CycleWarning reports a human-readable timing problem when clips end
// before their position is refreshed, or "" when the timing works out.
func (o *StaggerOptions) CycleWarning() string {
	fullCycle := float64(o.Positions()) * o.ChangeInterval
	if o.ClipDuration >= fullCycle {
		return ""
	}
	return fmt.Sprintf(
		"clips run %.1fs but a full cycle takes %.1fs; positions will hold their last frame for %.1fs",
		o.ClipDuration, fullCycle, fullCycle-o.ClipDuration)
}

// CabinetOptions configures the cabinet grid mode: square grids growing
// from 1x1 to max, each cell optionally framed by a cabinet PNG, new cells
// sliding in with smoothstep easing.
type CabinetOptions struct {
	Common        `toml:"common"`
	MaxGridSize   int     `toml:"max_grid_size"`
	ClipDuration  float64 `toml:"clip_duration"`
	HoldDuration  float64 `toml:"hold_duration"`
	SlideDuration float64 `toml:"slide_duration"`
	// TotalClips is how many unique clips to extract; zero means one per
	// cell of the largest grid.
	TotalClips int `toml:"total_clips"`
	// CabinetPNG is the frame image; empty disables the overlay and uses
	// raw 16:9 clips.
	CabinetPNG string `toml:"cabinet_png"`
	Spacing    string `toml:"spacing"`
	SlideFrom  string `toml:"slide_from"`
	Crop       Crop   `toml:"crop"`
}

// Validate checks the cabinet mode options and fills derived defaults.
func (o *CabinetOptions) Validate() error {
	if err := o.Common.Validate(); err != nil {
		return err
	}
	if o.MaxGridSize < 1 {
		return errors.New("max grid size must be at least 1")
	}
	if o.ClipDuration <= 0 {
		return errors.New("clip duration must be positive")
	}
	if o.HoldDuration <= 0 {
		return errors.New("hold duration must be positive")
	}
	if o.SlideDuration < 0 {
		return errors.New("slide duration must be non-negative")
	}
	if o.TotalClips == 0 {
		o.TotalClips = o.MaxGridSize * o.MaxGridSize
	}
	if o.TotalClips < 1 {
		return errors.New("total clips must be at least 1")
	}
	switch o.SlideFrom {
	case "", "right", "bottom":
	default:
		return errors.Errorf("unsupported slide-from: %s (supported: right, bottom)", o.SlideFrom)
	}
	return o.Crop.Valid()
}

// LoadPreset overlays a TOML preset file onto opts. Only keys present in
// the file are touched, so flag values for everything else survive.
func LoadPreset(path string, opts interface{}) error {
	meta, err := toml.DecodeFile(path, opts)
	if err != nil {
		return errors.Wrapf(err, "failed to load preset %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return errors.Errorf("unknown keys in preset %s: %s", path, strings.Join(keys, ", "))
	}
	return nil
}
