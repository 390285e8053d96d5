package layout

import (
	"fmt"
	"sort"

	"github.com/voltlab/sldraw/pkg/sld"
	"github.com/voltlab/sldraw/pkg/sld/rank"
)

// WarningCode classifies a non-fatal layout anomaly.
type WarningCode string

const (
	// WarnDanglingEdge marks a connection referencing a component id that
	// is not in the document. The connection is dropped from the tree.
	WarnDanglingEdge WarningCode = "dangling_edge"

	// WarnExtraParent marks a connection that would give a component a
	// second parent. The first recorded parent wins; the extra edge is
	// excluded from the tree but still rendered.
	WarnExtraParent WarningCode = "extra_parent"

	// WarnSelfLoop marks a connection from a component to itself.
	WarnSelfLoop WarningCode = "self_loop"

	// WarnCycleGuard marks a parent chain that loops back on itself. The
	// affected subtree measures as height zero instead of recursing
	// forever.
	WarnCycleGuard WarningCode = "cycle_guard"
)

// Warning describes an anomaly the layout engine recovered from. Layout
// never fails on malformed topology; it degrades and reports.
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}

func warnf(code WarningCode, format string, args ...any) Warning {
	return Warning{Code: code, Message: fmt.Sprintf(format, args...)}
}

// forest is the normalized parent/child view of a document's connection
// list: every component has at most one parent, children are ordered
// deterministically, and roots preserve document order.
type forest struct {
	byID     map[string]*sld.Component
	parent   map[string]string
	children map[string][]string
	roots    []string
	warnings []Warning
}

// buildForest orients each connection into a parent→child edge and
// assembles the forest.
//
// Direction is decided by rank: the higher-rank endpoint is the parent,
// so trees grow away from the grid column toward generation. A load
// endpoint is always the child regardless of rank, since loads are
// terminal taps. Equal ranks keep the connection's recorded direction.
// Components with no parent (or unreachable from any root because of a
// parent cycle) become roots in document order.
func buildForest(doc *sld.Document, ranks rank.Map) *forest {
	f := &forest{
		byID:     make(map[string]*sld.Component, len(doc.Components)),
		parent:   make(map[string]string),
		children: make(map[string][]string),
	}
	for i := range doc.Components {
		c := &doc.Components[i]
		f.byID[c.ID] = c
	}

	for _, conn := range doc.Connections {
		from, okFrom := f.byID[conn.From]
		to, okTo := f.byID[conn.To]
		if !okFrom || !okTo {
			f.warnings = append(f.warnings, warnf(WarnDanglingEdge,
				"connection %q -> %q references a missing component", conn.From, conn.To))
			continue
		}
		if conn.From == conn.To {
			f.warnings = append(f.warnings, warnf(WarnSelfLoop,
				"connection %q -> %q is a self loop", conn.From, conn.To))
			continue
		}

		parent, child := conn.From, conn.To
		switch {
		case to.Type == sld.TypeLoad:
			// already parent -> load
		case from.Type == sld.TypeLoad:
			parent, child = child, parent
		case ranks.Of(to.Type) > ranks.Of(from.Type):
			parent, child = child, parent
		}

		if prev, ok := f.parent[child]; ok {
			f.warnings = append(f.warnings, warnf(WarnExtraParent,
				"component %q already has parent %q; ignoring edge from %q", child, prev, parent))
			continue
		}
		f.parent[child] = parent
		f.children[parent] = append(f.children[parent], child)
	}

	for _, kids := range f.children {
		sort.Strings(kids)
	}

	for i := range doc.Components {
		id := doc.Components[i].ID
		if _, ok := f.parent[id]; !ok {
			f.roots = append(f.roots, id)
		}
	}

	// A cycle of equal-rank components can leave every member with a
	// parent and the whole ring unreachable. Promote one member per ring
	// to a root so they still get placed.
	reached := make(map[string]bool, len(f.byID))
	var mark func(id string)
	mark = func(id string) {
		if reached[id] {
			return
		}
		reached[id] = true
		for _, child := range f.children[id] {
			mark(child)
		}
	}
	for _, root := range f.roots {
		mark(root)
	}
	for i := range doc.Components {
		id := doc.Components[i].ID
		if !reached[id] {
			f.warnings = append(f.warnings, warnf(WarnCycleGuard,
				"component %q is only reachable through a cycle; treating it as a root", id))
			f.roots = append(f.roots, id)
			mark(id)
		}
	}
	return f
}
