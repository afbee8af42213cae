package processor

import (
	"fmt"
	"strconv"
	"strings"

	ffmpegWrap "gridsaver/internal/ffmpeg"
	"gridsaver/pkg/layout"
)

// clipFilterChain builds the -vf chain used when extracting or preparing a
// clip: optional source-edge crop, scale-and-crop to fill the cell, an
// optional effect, and framerate normalization.
func clipFilterChain(spec ClipSpec, fps float64) string {
	var filters []string

	if spec.Crop.Enabled() {
		filters = append(filters, fmt.Sprintf(
			"crop=in_w-%d-%d:in_h-%d-%d:%d:%d",
			spec.Crop.Left, spec.Crop.Right,
			spec.Crop.Top, spec.Crop.Bottom,
			spec.Crop.Left, spec.Crop.Top,
		))
	}

	filters = append(filters,
		fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=increase", spec.Width, spec.Height),
		fmt.Sprintf("crop=%d:%d", spec.Width, spec.Height),
	)

	if spec.Effect != nil {
		if f := spec.Effect.GetFilter(); f != "" {
			filters = append(filters, f)
		}
	}

	filters = append(filters, "fps="+ffmpegWrap.FormatFPS(fps))
	return strings.Join(filters, ",")
}

// fillCropFilter scales content to cover a w-by-h box and crops the
// overflow.
func fillCropFilter(w, h int) string {
	return fmt.Sprintf(
		"scale=%d:%d:force_original_aspect_ratio=increase,crop=%d:%d",
		w, h, w, h,
	)
}

// xstackLayoutString renders a layout's cell positions in the xstack
// filter's layout syntax ("x_y|x_y|...").
func xstackLayoutString(l layout.Layout) string {
	parts := make([]string, 0, l.Count())
	for _, p := range l.Positions {
		parts = append(parts, fmt.Sprintf("%d_%d", p.X, p.Y))
	}
	return strings.Join(parts, "|")
}

// blackCanvasInput returns the lavfi source string for a black base canvas
// of the given size, duration and framerate.
func blackCanvasInput(canvas layout.Canvas, duration, fps float64) string {
	return fmt.Sprintf("color=c=black:s=%dx%d:d=%s:r=%s",
		canvas.Width, canvas.Height,
		formatSeconds(duration), ffmpegWrap.FormatFPS(fps))
}

// formatSeconds renders a duration in seconds exactly, without exponent
// form at any magnitude.
func formatSeconds(d float64) string {
	return strconv.FormatFloat(d, 'f', -1, 64)
}

// fillAspect returns the cell aspect that makes layout.Compute reproduce a
// plain cells-fill-the-canvas division: the cell box itself.
func fillAspect(canvas layout.Canvas, shape layout.Shape) layout.Aspect {
	return layout.Aspect{
		Width:  canvas.Width / shape.Cols,
		Height: canvas.Height / shape.Rows,
	}
}
