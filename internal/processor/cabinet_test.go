package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridsaver/internal/config"
	"gridsaver/pkg/layout"
)

func TestGrowSequence(t *testing.T) {
	assert.Equal(t, []layout.Shape{layout.Square(1)}, GrowSequence(1))
	assert.Equal(t, []layout.Shape{
		layout.Square(1), layout.Square(2), layout.Square(3), layout.Square(4),
	}, GrowSequence(4))
}

func TestSlideDirection(t *testing.T) {
	fixed := &Cabinet{opts: &config.CabinetOptions{SlideFrom: "right"}}
	for i := 0; i < 4; i++ {
		assert.Equal(t, layout.SlideRight, fixed.slideDirection(i))
	}

	fixed.opts.SlideFrom = "bottom"
	for i := 0; i < 4; i++ {
		assert.Equal(t, layout.SlideBottom, fixed.slideDirection(i))
	}

	alternating := &Cabinet{opts: &config.CabinetOptions{}}
	assert.Equal(t, layout.SlideBottom, alternating.slideDirection(0))
	assert.Equal(t, layout.SlideRight, alternating.slideDirection(1))
	assert.Equal(t, layout.SlideBottom, alternating.slideDirection(2))
}

func TestParseSpacing(t *testing.T) {
	sp, err := parseSpacing("none")
	require.NoError(t, err)
	assert.Equal(t, layout.SpacingNone, sp.Mode)
	assert.Zero(t, sp.Gap)

	sp, err = parseSpacing("minimal")
	require.NoError(t, err)
	assert.Equal(t, layout.SpacingMinimal, sp.Mode)
	assert.Equal(t, layout.DefaultGap, sp.Gap)

	sp, err = parseSpacing("even")
	require.NoError(t, err)
	assert.Equal(t, layout.SpacingEven, sp.Mode)

	_, err = parseSpacing("loose")
	assert.Error(t, err)
}
