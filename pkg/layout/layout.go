// Package layout computes diagram positions for single-line documents.
//
// The engine is deterministic and total: it never fails on malformed
// topology. Connections are normalized into a forest, subtree heights are
// measured bottom-up, and positions are assigned top-down, with every
// anomaly (dangling edge, duplicate parent, cycle) degraded to a
// [Warning] rather than an error.
//
// Horizontal position is a pure function of component type via the rank
// table; vertical position centers each component in the band its subtree
// occupies. Already-positioned components are never moved.
package layout

import (
	"math"

	"github.com/voltlab/sldraw/pkg/geom"
	"github.com/voltlab/sldraw/pkg/sld"
)

// Result is the output of a layout run.
type Result struct {
	// Placed holds a deep copy of the input components, every one with
	// resolved coordinates. Input order is preserved.
	Placed []sld.Component `json:"placed"`

	// TotalHeight is the canvas height needed to show every component,
	// never below the configured minimum.
	TotalHeight float64 `json:"total_height"`

	// Warnings lists the anomalies encountered, in detection order.
	Warnings []Warning `json:"warnings,omitempty"`
}

// Engine computes layouts with a fixed option set. It is stateless across
// runs and safe for concurrent use.
type Engine struct {
	opts Options
}

// New returns an engine with the default options modified by opts.
func New(opts ...Option) *Engine {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Engine{opts: o}
}

// Options returns the engine's effective configuration.
func (e *Engine) Options() Options { return e.opts }

// Layout computes positions for every component of doc that has none,
// honoring existing coordinates as fixed anchors. The input document is
// not modified.
//
// When every component is already positioned the placement pass is
// skipped entirely and only the total height is recomputed, so repeated
// runs are idempotent.
func (e *Engine) Layout(doc *sld.Document) Result {
	placed := make([]sld.Component, len(doc.Components))
	index := make(map[string]int, len(doc.Components))
	allPinned := true
	for i := range doc.Components {
		placed[i] = doc.Components[i].Clone()
		index[placed[i].ID] = i
		if !placed[i].Positioned() {
			allPinned = false
		}
	}
	if allPinned {
		return Result{Placed: placed, TotalHeight: e.canvasHeight(placed)}
	}

	f := buildForest(doc, e.opts.Ranks)
	heights := e.measure(f)

	seen := make(map[string]bool, len(placed))
	cursor := e.opts.TopMargin
	for _, root := range f.roots {
		band := heights[root]
		e.place(f, heights, placed, index, seen, root, cursor, band)
		cursor += band + e.opts.RootGap
	}

	for _, w := range f.warnings {
		e.opts.Logger.Warn("layout anomaly", "code", w.Code, "detail", w.Message)
	}
	return Result{
		Placed:      placed,
		TotalHeight: e.canvasHeight(placed),
		Warnings:    f.warnings,
	}
}

// place assigns a position to id inside the vertical band [top, top+band)
// and recursively divides the band among its children in proportion to
// their subtree heights. Pinned components keep their coordinates but
// still anchor their children's bands.
func (e *Engine) place(f *forest, heights map[string]float64, placed []sld.Component, index map[string]int, seen map[string]bool, id string, top, band float64) {
	if seen[id] {
		return
	}
	seen[id] = true

	c := &placed[index[id]]
	if !c.Positioned() {
		x := geom.Snap(e.opts.BaseOffset+e.opts.Ranks.Of(c.Type)*e.opts.LevelWidth, e.opts.GridSize)
		y := geom.Snap(top+band/2, e.opts.GridSize)
		c.X, c.Y = &x, &y
	}

	kids := f.children[id]
	if len(kids) == 0 {
		return
	}
	var sum float64
	for _, k := range kids {
		sum += heights[k]
	}
	if sum <= 0 {
		return
	}
	scale := band / sum
	cursor := top
	for _, k := range kids {
		kb := heights[k] * scale
		e.place(f, heights, placed, index, seen, k, cursor, kb)
		cursor += kb
	}
}

// canvasHeight derives the total height from final positions: the lowest
// component's bottom edge plus the bottom margin, floored at the
// configured minimum.
func (e *Engine) canvasHeight(placed []sld.Component) float64 {
	var maxBottom float64
	for i := range placed {
		c := &placed[i]
		if !c.Positioned() {
			continue
		}
		maxBottom = math.Max(maxBottom, *c.Y+e.ownHeight(c)/2)
	}
	return math.Max(e.opts.MinCanvasHeight, maxBottom+e.opts.BottomMargin)
}
