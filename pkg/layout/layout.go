// Package layout computes grid geometry for screensaver compositions: the
// scaled size and screen position of every cell for a given grid shape,
// canvas and spacing mode, plus the eased slide animation used when the grid
// shape changes. It is pure computation with no I/O; the ffmpeg side only
// consumes the positions and motions it produces.
package layout

import (
	"errors"
	"fmt"
	"math"
)

// DefaultGap is the conventional pixel gap for SpacingMinimal.
const DefaultGap = 10

// evenHeadroom reserves canvas space for gaps in SpacingEven mode by scaling
// cells to 95% of the maximum fit.
const evenHeadroom = 0.95

var (
	ErrInvalidShape         = errors.New("grid shape must have at least one row and one column")
	ErrInvalidCanvas        = errors.New("canvas dimensions must be positive")
	ErrInvalidAspect        = errors.New("cell aspect dimensions must be positive")
	ErrOutOfRange           = errors.New("cell index out of range for layout")
	ErrIncompleteTransition = errors.New("cell has no position in previous layout")
)

// Shape is a grid's dimensions. Cells are indexed row-major:
// index = row*Cols + col.
type Shape struct {
	Rows int
	Cols int
}

// Count returns the total number of cells.
func (s Shape) Count() int { return s.Rows * s.Cols }

func (s Shape) String() string { return fmt.Sprintf("%dx%d", s.Rows, s.Cols) }

// Square returns an n-by-n shape.
func Square(n int) Shape { return Shape{Rows: n, Cols: n} }

// Canvas is the output frame size in pixels.
type Canvas struct {
	Width  int
	Height int
}

// Aspect is the natural (unscaled) size of one cell's content, e.g. a
// cabinet frame's pixel dimensions or a plain 16:9 ratio.
type Aspect struct {
	Width  int
	Height int
}

// SpacingMode selects how canvas space is divided between cells and gaps.
type SpacingMode int

const (
	// SpacingNone maximizes cell size; cells touch each other and the
	// canvas edges.
	SpacingNone SpacingMode = iota
	// SpacingMinimal reserves a fixed pixel gap between and around cells.
	SpacingMinimal
	// SpacingEven scales cells to 95% of the maximum fit and distributes
	// the remaining space as equal gaps.
	SpacingEven
)

func (m SpacingMode) String() string {
	switch m {
	case SpacingNone:
		return "none"
	case SpacingMinimal:
		return "minimal"
	case SpacingEven:
		return "even"
	}
	return fmt.Sprintf("spacing(%d)", int(m))
}

// ParseSpacingMode maps the user-facing names onto a SpacingMode.
func ParseSpacingMode(s string) (SpacingMode, error) {
	switch s {
	case "none":
		return SpacingNone, nil
	case "minimal":
		return SpacingMinimal, nil
	case "even", "":
		return SpacingEven, nil
	}
	return 0, fmt.Errorf("unsupported spacing mode: %s (supported: none, minimal, even)", s)
}

// Spacing is a spacing mode plus its parameters.
type Spacing struct {
	Mode SpacingMode
	// Gap is the pixel gap for SpacingMinimal. Zero is a legal value and
	// means no gap; callers wanting the conventional gap pass DefaultGap.
	Gap int
}

// Point is a cell's top-left position on the canvas.
type Point struct {
	X int
	Y int
}

// Layout is the computed geometry for one grid shape: the uniform scaled
// cell size and the position of every cell, row-major. It is a pure function
// of its inputs and carries no state beyond them.
type Layout struct {
	CellWidth  int
	CellHeight int
	Positions  []Point
}

// Count returns the number of cells in the layout.
func (l Layout) Count() int { return len(l.Positions) }

// Position returns the top-left corner of the cell at idx.
func (l Layout) Position(idx int) (Point, error) {
	if idx < 0 || idx >= len(l.Positions) {
		return Point{}, fmt.Errorf("%w: index %d, layout has %d cells", ErrOutOfRange, idx, len(l.Positions))
	}
	return l.Positions[idx], nil
}

// Compute calculates the cell size and centered positions for a grid of the
// given shape on the given canvas. Cells keep the aspect ratio of aspect and
// are scaled uniformly so a cell never exceeds its grid division.
//
// Note the total grid size deliberately excludes edge gaps; edges are
// handled by the centering offset alone, so in even/minimal modes the
// edge-to-content gap can be slightly larger than the inter-cell gap.
func Compute(shape Shape, canvas Canvas, aspect Aspect, spacing Spacing) (Layout, error) {
	if shape.Rows < 1 || shape.Cols < 1 {
		return Layout{}, fmt.Errorf("%w: got %s", ErrInvalidShape, shape)
	}
	if canvas.Width <= 0 || canvas.Height <= 0 {
		return Layout{}, fmt.Errorf("%w: got %dx%d", ErrInvalidCanvas, canvas.Width, canvas.Height)
	}
	if aspect.Width <= 0 || aspect.Height <= 0 {
		return Layout{}, fmt.Errorf("%w: got %dx%d", ErrInvalidAspect, aspect.Width, aspect.Height)
	}

	var (
		cellW, cellH float64
		hGap, vGap   float64
	)

	switch spacing.Mode {
	case SpacingNone:
		availW := float64(canvas.Width) / float64(shape.Cols)
		availH := float64(canvas.Height) / float64(shape.Rows)
		scale := math.Min(availW/float64(aspect.Width), availH/float64(aspect.Height))
		cellW = math.Floor(float64(aspect.Width) * scale)
		cellH = math.Floor(float64(aspect.Height) * scale)

	case SpacingMinimal:
		if spacing.Gap < 0 {
			return Layout{}, fmt.Errorf("negative gap: %dpx", spacing.Gap)
		}
		gap := float64(spacing.Gap)
		availW := (float64(canvas.Width) - gap*float64(shape.Cols+1)) / float64(shape.Cols)
		availH := (float64(canvas.Height) - gap*float64(shape.Rows+1)) / float64(shape.Rows)
		if availW <= 0 || availH <= 0 {
			return Layout{}, fmt.Errorf("%w: %dx%d leaves no room for a %s grid with %dpx gaps",
				ErrInvalidCanvas, canvas.Width, canvas.Height, shape, spacing.Gap)
		}
		scale := math.Min(availW/float64(aspect.Width), availH/float64(aspect.Height))
		cellW = math.Floor(float64(aspect.Width) * scale)
		cellH = math.Floor(float64(aspect.Height) * scale)
		hGap = gap
		vGap = gap

	case SpacingEven:
		availW := float64(canvas.Width) / float64(shape.Cols)
		availH := float64(canvas.Height) / float64(shape.Rows)
		scale := math.Min(availW/float64(aspect.Width), availH/float64(aspect.Height)) * evenHeadroom
		cellW = math.Floor(float64(aspect.Width) * scale)
		cellH = math.Floor(float64(aspect.Height) * scale)
		// Remaining space after placing cells is split into equal gaps
		// between cells and at each edge.
		hGap = (float64(canvas.Width) - cellW*float64(shape.Cols)) / float64(shape.Cols+1)
		vGap = (float64(canvas.Height) - cellH*float64(shape.Rows)) / float64(shape.Rows+1)

	default:
		return Layout{}, fmt.Errorf("unsupported spacing mode: %d", spacing.Mode)
	}

	totalW := cellW*float64(shape.Cols) + hGap*float64(shape.Cols-1)
	totalH := cellH*float64(shape.Rows) + vGap*float64(shape.Rows-1)
	offsetX := (float64(canvas.Width) - totalW) / 2
	offsetY := (float64(canvas.Height) - totalH) / 2

	positions := make([]Point, 0, shape.Count())
	for i := 0; i < shape.Count(); i++ {
		row := i / shape.Cols
		col := i % shape.Cols
		positions = append(positions, Point{
			X: int(offsetX + float64(col)*(cellW+hGap)),
			Y: int(offsetY + float64(row)*(cellH+vGap)),
		})
	}

	return Layout{
		CellWidth:  int(cellW),
		CellHeight: int(cellH),
		Positions:  positions,
	}, nil
}
