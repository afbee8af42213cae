package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// growPlan models the 1x1 to 2x2 step of a growing cabinet grid on a
// 1920x1080 canvas.
func growPlan(t *testing.T, from SlideFrom, dur float64) Plan {
	t.Helper()
	canvas := Canvas{Width: 1920, Height: 1080}
	aspect := Aspect{Width: 420, Height: 315}

	prev, err := Compute(Square(1), canvas, aspect, Spacing{Mode: SpacingNone})
	require.NoError(t, err)
	next, err := Compute(Square(2), canvas, aspect, Spacing{Mode: SpacingNone})
	require.NoError(t, err)

	return Plan{
		From:          &prev,
		To:            next,
		Canvas:        canvas,
		SlideDuration: dur,
		SlideFrom:     from,
	}
}

func TestPlanNewCells(t *testing.T) {
	plan := growPlan(t, SlideRight, 1)
	assert.Equal(t, []int{1, 2, 3}, plan.NewCells())

	plan.From = nil
	assert.Empty(t, plan.NewCells())
}

func TestMotionFirstSegmentIsStatic(t *testing.T) {
	plan := growPlan(t, SlideRight, 1)
	plan.From = nil

	for i := 0; i < plan.To.Count(); i++ {
		m, err := plan.Motion(i)
		require.NoError(t, err)
		assert.True(t, m.Static(), "cell %d", i)

		want, err := plan.To.Position(i)
		require.NoError(t, err)
		x, y := m.At(0)
		assert.Equal(t, float64(want.X), x)
		assert.Equal(t, float64(want.Y), y)
	}
}

func TestMotionSlideRight(t *testing.T) {
	plan := growPlan(t, SlideRight, 1)

	// The persisting cell starts from its old position. For this geometry
	// the 1x1 cell and the 2x2 corner cell share a top-left corner, so the
	// motion degenerates to a hold.
	m, err := plan.Motion(0)
	require.NoError(t, err)
	prev, err := plan.From.Position(0)
	require.NoError(t, err)
	assert.Equal(t, prev, m.Start)
	assert.True(t, m.Static())

	// New cells start beyond the right edge at their target row.
	for _, i := range plan.NewCells() {
		m, err := plan.Motion(i)
		require.NoError(t, err)
		end, err := plan.To.Position(i)
		require.NoError(t, err)
		assert.Equal(t, Point{X: 1920, Y: end.Y}, m.Start, "cell %d", i)
		assert.Equal(t, end, m.End, "cell %d", i)
	}
}

func TestMotionPersistingCellMoves(t *testing.T) {
	canvas := Canvas{Width: 1920, Height: 1080}
	aspect := Aspect{Width: 420, Height: 315}

	// Even spacing shifts the corner cell between grid sizes, so the
	// persisting cell animates from its old position to the new one.
	prev, err := Compute(Square(1), canvas, aspect, Spacing{Mode: SpacingEven})
	require.NoError(t, err)
	next, err := Compute(Square(2), canvas, aspect, Spacing{Mode: SpacingEven})
	require.NoError(t, err)

	plan := Plan{From: &prev, To: next, Canvas: canvas, SlideDuration: 1, SlideFrom: SlideRight}
	m, err := plan.Motion(0)
	require.NoError(t, err)
	assert.Equal(t, prev.Positions[0], m.Start)
	assert.Equal(t, next.Positions[0], m.End)
	assert.False(t, m.Static())
}

func TestMotionSlideBottom(t *testing.T) {
	plan := growPlan(t, SlideBottom, 1)

	for _, i := range plan.NewCells() {
		m, err := plan.Motion(i)
		require.NoError(t, err)
		end, err := plan.To.Position(i)
		require.NoError(t, err)
		assert.Equal(t, Point{X: end.X, Y: 1080}, m.Start, "cell %d", i)
	}
}

func TestPositionAtEndpoints(t *testing.T) {
	plan := growPlan(t, SlideRight, 1)

	for i := 0; i < plan.To.Count(); i++ {
		m, err := plan.Motion(i)
		require.NoError(t, err)
		end, err := plan.To.Position(i)
		require.NoError(t, err)

		x, y := m.At(0)
		assert.Equal(t, float64(m.Start.X), x, "cell %d at t=0", i)
		assert.Equal(t, float64(m.Start.Y), y, "cell %d at t=0", i)

		// At and past the slide duration the cell sits exactly on target.
		for _, at := range []float64{1, 1.5, 100} {
			x, y := m.At(at)
			assert.Equal(t, float64(end.X), x, "cell %d at t=%g", i, at)
			assert.Equal(t, float64(end.Y), y, "cell %d at t=%g", i, at)
		}
	}
}

func TestPositionAtMidpoint(t *testing.T) {
	plan := growPlan(t, SlideRight, 1)

	// Smoothstep(0.5) is exactly 0.5, so the midpoint of the slide is the
	// arithmetic midpoint of the travel.
	x, y, err := plan.PositionAt(1, 0.5)
	require.NoError(t, err)
	end, err := plan.To.Position(1)
	require.NoError(t, err)
	assert.InDelta(t, (1920+float64(end.X))/2, x, 1e-9)
	assert.Equal(t, float64(end.Y), y)
}

func TestPositionAtMonotonic(t *testing.T) {
	plan := growPlan(t, SlideRight, 2)

	prev := 1e18
	for ti := 0; ti <= 40; ti++ {
		x, _, err := plan.PositionAt(1, float64(ti)*0.05)
		require.NoError(t, err)
		assert.LessOrEqual(t, x, prev, "t=%g", float64(ti)*0.05)
		prev = x
	}
}

func TestZeroSlideDurationIsInstant(t *testing.T) {
	plan := growPlan(t, SlideRight, 0)

	for _, i := range plan.NewCells() {
		end, err := plan.To.Position(i)
		require.NoError(t, err)
		x, y, err := plan.PositionAt(i, 0)
		require.NoError(t, err)
		assert.Equal(t, float64(end.X), x, "cell %d", i)
		assert.Equal(t, float64(end.Y), y, "cell %d", i)
	}
}

func TestMotionOutOfRange(t *testing.T) {
	plan := growPlan(t, SlideRight, 1)
	_, err := plan.Motion(plan.To.Count())
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestSmoothstep(t *testing.T) {
	assert.Equal(t, 0.0, Smoothstep(0))
	assert.Equal(t, 1.0, Smoothstep(1))
	assert.Equal(t, 0.5, Smoothstep(0.5))
	assert.InDelta(t, 0.028, Smoothstep(0.1), 0.001)
	assert.InDelta(t, 0.972, Smoothstep(0.9), 0.001)
}

func TestSlideFromString(t *testing.T) {
	assert.Equal(t, "right", SlideRight.String())
	assert.Equal(t, "bottom", SlideBottom.String())
}
