package layout

import "fmt"

// SlideFrom is the off-canvas edge new cells enter from during a grid
// shape change.
type SlideFrom int

const (
	// SlideRight slides new cells in from beyond the right canvas edge.
	SlideRight SlideFrom = iota
	// SlideBottom slides new cells in from beyond the bottom canvas edge.
	SlideBottom
)

func (s SlideFrom) String() string {
	if s == SlideBottom {
		return "bottom"
	}
	return "right"
}

// Plan describes one grid shape change: the layout being left, the layout
// being entered, and how new cells slide in. From is nil for the first
// segment, in which case every cell is placed statically.
type Plan struct {
	From          *Layout
	To            Layout
	Canvas        Canvas
	SlideDuration float64
	SlideFrom     SlideFrom
}

// NewCells reports the indices present in To but absent from From. With no
// previous layout there are no entering cells; everything is static.
func (p Plan) NewCells() []int {
	if p.From == nil {
		return nil
	}
	var idxs []int
	for i := p.From.Count(); i < p.To.Count(); i++ {
		idxs = append(idxs, i)
	}
	return idxs
}

// isNew reports whether idx enters from off-canvas rather than moving from
// a previous position.
func (p Plan) isNew(idx int) bool {
	return p.From != nil && idx >= p.From.Count()
}

// Motion is one cell's animation across a transition, held as plain data so
// it can be sampled directly or serialized into a render backend's
// expression syntax at the boundary.
type Motion struct {
	Start    Point
	End      Point
	Duration float64
}

// Static reports whether the motion never moves the cell.
func (m Motion) Static() bool {
	return m.Start == m.End || m.Duration <= 0
}

// At samples the motion at t seconds after transition start. Position eases
// with a smoothstep curve and is exact and stable for all t past Duration.
func (m Motion) At(t float64) (x, y float64) {
	if m.Duration <= 0 || t >= m.Duration {
		return float64(m.End.X), float64(m.End.Y)
	}
	s := Smoothstep(t / m.Duration)
	x = float64(m.Start.X) + float64(m.End.X-m.Start.X)*s
	y = float64(m.Start.Y) + float64(m.End.Y-m.Start.Y)*s
	return x, y
}

// Smoothstep is the cubic Hermite ease 3u^2 - 2u^3. It maps 0 to 0 and 1
// to 1 with zero velocity at both endpoints and is monotonic on [0,1].
func Smoothstep(u float64) float64 {
	return 3*u*u - 2*u*u*u
}

// Motion resolves the animation for the cell at idx: new cells start
// off-canvas on the plan's slide edge, persisting cells start at their
// previous position. For the first segment (no From layout) the motion is
// static at the target position.
func (p Plan) Motion(idx int) (Motion, error) {
	end, err := p.To.Position(idx)
	if err != nil {
		return Motion{}, err
	}

	if p.From == nil {
		return Motion{Start: end, End: end, Duration: 0}, nil
	}

	var start Point
	if p.isNew(idx) {
		switch p.SlideFrom {
		case SlideBottom:
			start = Point{X: end.X, Y: p.Canvas.Height}
		default:
			start = Point{X: p.Canvas.Width, Y: end.Y}
		}
	} else {
		start, err = p.From.Position(idx)
		if err != nil {
			return Motion{}, fmt.Errorf("%w: index %d, previous layout has %d cells",
				ErrIncompleteTransition, idx, p.From.Count())
		}
	}

	return Motion{Start: start, End: end, Duration: p.SlideDuration}, nil
}

// PositionAt returns the interpolated on-screen position of the cell at idx,
// t seconds after the transition starts. A non-positive slide duration is
// treated as an instantaneous cut to the end position.
func (p Plan) PositionAt(idx int, t float64) (x, y float64, err error) {
	m, err := p.Motion(idx)
	if err != nil {
		return 0, 0, err
	}
	x, y = m.At(t)
	return x, y, nil
}
