package geom

import "github.com/voltlab/sldraw/pkg/sld"

// DefaultFrame is the bounding rectangle returned for an empty diagram so
// exports of a blank document still produce a sensible canvas.
var DefaultFrame = Rect{X: 0, Y: 0, Width: 800, Height: 600}

// Bounds returns the minimal world-space rectangle enclosing every placed
// component, expanded by pad on all sides. Components without resolved
// coordinates are skipped. With zero placed components the result is
// [DefaultFrame].
//
// The rectangle frames exports independently of the interactive
// viewport's pan and zoom.
func Bounds(placed []sld.Component, pad float64) Rect {
	first := true
	var minX, minY, maxX, maxY float64
	for _, c := range placed {
		if !c.Positioned() {
			continue
		}
		if first {
			minX, maxX = *c.X, *c.X
			minY, maxY = *c.Y, *c.Y
			first = false
			continue
		}
		minX = min(minX, *c.X)
		maxX = max(maxX, *c.X)
		minY = min(minY, *c.Y)
		maxY = max(maxY, *c.Y)
	}
	if first {
		return DefaultFrame
	}
	return Rect{
		X:      minX - pad,
		Y:      minY - pad,
		Width:  maxX - minX + 2*pad,
		Height: maxY - minY + 2*pad,
	}
}
