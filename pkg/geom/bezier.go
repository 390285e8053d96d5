package geom

import "math"

// Routing constants. AnchorInset pulls curve endpoints in from the
// component centers so edges meet the icon boundary instead of crossing
// it; MinCurvature keeps short or vertical connections from collapsing
// into straight kinks.
const (
	AnchorInset  = 70.0
	MinCurvature = 40.0
)

// Cubic is a cubic Bezier curve: start point, two control points, end
// point.
type Cubic struct {
	P0, C1, C2, P3 Point
}

// At evaluates the curve at parameter t in [0, 1] using the standard
// cubic Bezier point formula.
func (c Cubic) At(t float64) Point {
	mt := 1 - t
	mt2 := mt * mt
	mt3 := mt2 * mt
	t2 := t * t
	t3 := t2 * t
	return Point{
		X: mt3*c.P0.X + 3*mt2*t*c.C1.X + 3*mt*t2*c.C2.X + t3*c.P3.X,
		Y: mt3*c.P0.Y + 3*mt2*t*c.C1.Y + 3*mt*t2*c.C2.Y + t3*c.P3.Y,
	}
}

// Midpoint returns the parametric midpoint of the curve (t = 0.5), used
// as the label anchor.
func (c Cubic) Midpoint() Point { return c.At(0.5) }

// Route computes the connection curve between two component centers.
//
// Endpoints are inset horizontally toward each other by [AnchorInset] so
// the curve starts and ends at the icon edge. Control points extend
// horizontally from each endpoint by max(|dx|/2, [MinCurvature]), which
// keeps the tangent horizontal at both ends and produces the
// characteristic flow-diagram S-curve even when the two components sit at
// very different heights.
func Route(from, to Point) Cubic {
	dir := 1.0
	if to.X < from.X {
		dir = -1
	}
	start := Point{from.X + dir*AnchorInset, from.Y}
	end := Point{to.X - dir*AnchorInset, to.Y}

	off := math.Max(math.Abs(end.X-start.X)*0.5, MinCurvature)
	return Cubic{
		P0: start,
		C1: Point{start.X + dir*off, start.Y},
		C2: Point{end.X - dir*off, end.Y},
		P3: end,
	}
}

// LabelBox returns the background rectangle for an edge label centered at
// anchor. Width scales with the label length so text never visually
// clips; an empty label gets a zero rectangle.
func LabelBox(anchor Point, label string) Rect {
	if label == "" {
		return Rect{}
	}
	const (
		charWidth = 7.2
		padX      = 8.0
		height    = 18.0
	)
	w := float64(len(label))*charWidth + 2*padX
	return Rect{
		X:      anchor.X - w/2,
		Y:      anchor.Y - height/2,
		Width:  w,
		Height: height,
	}
}
