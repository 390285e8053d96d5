// Package geom provides the world-space geometry used by the diagram
// engine: points and rectangles, cubic-Bezier connection routing, and the
// export bounding box.
//
// All coordinates are world-space floats. Screen-space conversion lives
// in pkg/viewport; geom has no notion of pan or zoom.
package geom

import "math"

// Point is a 2-D world-space coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p minus q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Scale returns p with both coordinates multiplied by s.
func (p Point) Scale(s float64) Point { return Point{p.X * s, p.Y * s} }

// Rect is an axis-aligned world-space rectangle anchored at its top-left
// corner.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Contains reports whether p lies inside the rectangle (edges inclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width && p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Center returns the rectangle's midpoint.
func (r Rect) Center() Point {
	return Point{r.X + r.Width/2, r.Y + r.Height/2}
}

// Node box dimensions. Every component owns a fixed-size rectangle
// centered on its position, independent of the icon drawn inside it. The
// same box is used for hit-testing and for framing.
const (
	NodeWidth  = 140.0
	NodeHeight = 90.0
)

// NodeBox returns the fixed-size component rectangle centered at p.
func NodeBox(center Point) Rect {
	return Rect{
		X:      center.X - NodeWidth/2,
		Y:      center.Y - NodeHeight/2,
		Width:  NodeWidth,
		Height: NodeHeight,
	}
}

// Snap rounds v to the nearest multiple of grid. A non-positive grid
// disables snapping.
func Snap(v, grid float64) float64 {
	if grid <= 0 {
		return v
	}
	return math.Round(v/grid) * grid
}
