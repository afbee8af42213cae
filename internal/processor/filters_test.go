package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridsaver/internal/config"
	"gridsaver/pkg/layout"
)

type stubEffect struct {
	name   string
	filter string
}

func (e stubEffect) GetName() string   { return e.name }
func (e stubEffect) GetFilter() string { return e.filter }

func TestClipFilterChain(t *testing.T) {
	spec := ClipSpec{Width: 640, Height: 360}
	assert.Equal(t,
		"scale=640:360:force_original_aspect_ratio=increase,crop=640:360,fps=30",
		clipFilterChain(spec, 30))
}

func TestClipFilterChainWithCrop(t *testing.T) {
	spec := ClipSpec{
		Width:  640,
		Height: 360,
		Crop:   config.Crop{Top: 40, Bottom: 40, Left: 10, Right: 20},
	}
	assert.Equal(t,
		"crop=in_w-10-20:in_h-40-40:10:40,"+
			"scale=640:360:force_original_aspect_ratio=increase,crop=640:360,fps=29.97",
		clipFilterChain(spec, 29.97))
}

func TestClipFilterChainWithEffect(t *testing.T) {
	spec := ClipSpec{
		Width:  640,
		Height: 360,
		Effect: stubEffect{name: "test", filter: "hue=s=0"},
	}
	assert.Equal(t,
		"scale=640:360:force_original_aspect_ratio=increase,crop=640:360,hue=s=0,fps=30",
		clipFilterChain(spec, 30))

	// A no-op effect contributes nothing to the chain.
	spec.Effect = stubEffect{name: "off"}
	assert.Equal(t,
		"scale=640:360:force_original_aspect_ratio=increase,crop=640:360,fps=30",
		clipFilterChain(spec, 30))
}

func TestFillCropFilter(t *testing.T) {
	assert.Equal(t,
		"scale=1920:1080:force_original_aspect_ratio=increase,crop=1920:1080",
		fillCropFilter(1920, 1080))
}

func TestXstackLayoutString(t *testing.T) {
	grid := layout.Layout{
		CellWidth:  640,
		CellHeight: 360,
		Positions: []layout.Point{
			{X: 0, Y: 0}, {X: 640, Y: 0},
			{X: 0, Y: 360}, {X: 640, Y: 360},
		},
	}
	assert.Equal(t, "0_0|640_0|0_360|640_360", xstackLayoutString(grid))
}

func TestBlackCanvasInput(t *testing.T) {
	canvas := layout.Canvas{Width: 1920, Height: 1080}
	assert.Equal(t, "color=c=black:s=1920x1080:d=12.5:r=30", blackCanvasInput(canvas, 12.5, 30))
	assert.Equal(t, "color=c=black:s=1920x1080:d=10:r=29.97", blackCanvasInput(canvas, 10, 29.97))
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{10, "10"},
		{0.5, "0.5"},
		{1234.5678, "1234.5678"},
		// Large values must stay in plain decimal form; exponent notation
		// is not valid in filter arguments.
		{1234567, "1234567"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatSeconds(tt.in))
	}
}

func TestFillAspect(t *testing.T) {
	canvas := layout.Canvas{Width: 1920, Height: 1080}
	shape := layout.Shape{Rows: 3, Cols: 4}
	assert.Equal(t, layout.Aspect{Width: 480, Height: 360}, fillAspect(canvas, shape))

	// The fill aspect reproduces the plain division grid through the
	// layout engine.
	grid, err := layout.Compute(shape, canvas, fillAspect(canvas, shape),
		layout.Spacing{Mode: layout.SpacingNone})
	require.NoError(t, err)
	assert.Equal(t, 480, grid.CellWidth)
	assert.Equal(t, 360, grid.CellHeight)
	assert.Equal(t, layout.Point{X: 0, Y: 0}, grid.Positions[0])
	assert.Equal(t, layout.Point{X: 1440, Y: 720}, grid.Positions[11])
}
