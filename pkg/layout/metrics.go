package layout

import (
	"math"

	"github.com/voltlab/sldraw/pkg/sld"
)

// ownHeight returns the vertical space the component itself needs: the
// base node height plus one line per displayed spec.
func (e *Engine) ownHeight(c *sld.Component) float64 {
	return e.opts.NodeHeight + float64(len(c.Specs))*e.opts.SpecLineHeight
}

// measure computes the subtree height of every component reachable from a
// root. A subtree is as tall as the larger of the component's own height
// and the sum of its children's subtree heights, so parents always span
// the full vertical band their descendants occupy.
//
// Results are memoized per run. A visiting set guards against parent
// cycles that survived normalization: re-entering a node mid-measure
// contributes height zero and records a warning instead of recursing
// forever.
func (e *Engine) measure(f *forest) map[string]float64 {
	heights := make(map[string]float64, len(f.byID))
	visiting := make(map[string]bool)

	var walk func(id string) float64
	walk = func(id string) float64 {
		if h, ok := heights[id]; ok {
			return h
		}
		if visiting[id] {
			f.warnings = append(f.warnings, warnf(WarnCycleGuard,
				"cycle detected while measuring %q; counting it as height zero", id))
			return 0
		}
		visiting[id] = true

		var sum float64
		for _, child := range f.children[id] {
			sum += walk(child)
		}
		h := math.Max(e.ownHeight(f.byID[id]), sum)

		delete(visiting, id)
		heights[id] = h
		return h
	}

	for _, root := range f.roots {
		walk(root)
	}
	return heights
}
