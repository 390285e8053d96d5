package layout

import (
	"testing"

	"github.com/voltlab/sldraw/pkg/sld"
	"github.com/voltlab/sldraw/pkg/sld/rank"
)

func TestBuildForestOrientsByRank(t *testing.T) {
	doc := &sld.Document{
		Components: []sld.Component{
			comp("pv", sld.TypePVArray),
			comp("grid", sld.TypeGrid),
		},
		// Recorded low-to-high; the tree must still hang off the grid.
		Connections: []sld.Connection{conn("pv", "grid")},
	}
	f := buildForest(doc, rank.Default())

	if got := f.parent["pv"]; got != "grid" {
		t.Errorf("parent[pv] = %q, want grid", got)
	}
	if len(f.roots) != 1 || f.roots[0] != "grid" {
		t.Errorf("roots = %v, want [grid]", f.roots)
	}
}

func TestBuildForestKeepsRecordedDirectionOnTie(t *testing.T) {
	doc := &sld.Document{
		Components: []sld.Component{
			comp("inv1", sld.TypeInverter),
			comp("inv2", sld.TypeInverter),
		},
		Connections: []sld.Connection{conn("inv1", "inv2")},
	}
	f := buildForest(doc, rank.Default())
	if got := f.parent["inv2"]; got != "inv1" {
		t.Errorf("parent[inv2] = %q, want inv1 (recorded direction)", got)
	}
}

func TestBuildForestLoadIsAlwaysLeaf(t *testing.T) {
	doc := &sld.Document{
		Components: []sld.Component{
			comp("load", sld.TypeLoad),
			comp("meter", sld.TypeMeter),
		},
		// Load rank is below meter rank, but the recorded direction makes
		// the load the source. It must still end up the child.
		Connections: []sld.Connection{conn("load", "meter")},
	}
	f := buildForest(doc, rank.Default())
	if got := f.parent["load"]; got != "meter" {
		t.Errorf("parent[load] = %q, want meter", got)
	}
	if len(f.children["load"]) != 0 {
		t.Errorf("load has children %v, want none", f.children["load"])
	}
}

func TestBuildForestFirstParentWins(t *testing.T) {
	doc := &sld.Document{
		Components: []sld.Component{
			comp("pv", sld.TypePVArray),
			comp("inv1", sld.TypeInverter),
			comp("inv2", sld.TypeInverter),
		},
		Connections: []sld.Connection{conn("pv", "inv1"), conn("pv", "inv2")},
	}
	f := buildForest(doc, rank.Default())

	if got := f.parent["pv"]; got != "inv1" {
		t.Errorf("parent[pv] = %q, want inv1", got)
	}
	if len(f.warnings) != 1 || f.warnings[0].Code != WarnExtraParent {
		t.Errorf("warnings = %v, want one extra_parent", f.warnings)
	}
}

func TestBuildForestSelfLoopDropped(t *testing.T) {
	doc := &sld.Document{
		Components:  []sld.Component{comp("inv", sld.TypeInverter)},
		Connections: []sld.Connection{conn("inv", "inv")},
	}
	f := buildForest(doc, rank.Default())
	if len(f.warnings) != 1 || f.warnings[0].Code != WarnSelfLoop {
		t.Errorf("warnings = %v, want one self_loop", f.warnings)
	}
	if len(f.roots) != 1 {
		t.Errorf("roots = %v, want [inv]", f.roots)
	}
}

func TestBuildForestCyclePromotedToRoot(t *testing.T) {
	doc := &sld.Document{
		Components: []sld.Component{
			comp("a", sld.TypeInverter),
			comp("b", sld.TypeInverter),
			comp("c", sld.TypeInverter),
		},
		Connections: []sld.Connection{conn("a", "b"), conn("b", "c"), conn("c", "a")},
	}
	f := buildForest(doc, rank.Default())

	if len(f.roots) == 0 {
		t.Fatal("cycle produced no roots; members would never be placed")
	}
	found := false
	for _, w := range f.warnings {
		if w.Code == WarnCycleGuard {
			found = true
		}
	}
	if !found {
		t.Errorf("warnings = %v, want a cycle_guard", f.warnings)
	}
}

func TestBuildForestChildrenSorted(t *testing.T) {
	doc := &sld.Document{
		Components: []sld.Component{
			comp("zeta", sld.TypePVArray),
			comp("alpha", sld.TypePVArray),
			comp("inv", sld.TypeInverter),
		},
		Connections: []sld.Connection{conn("zeta", "inv"), conn("alpha", "inv")},
	}
	f := buildForest(doc, rank.Default())

	kids := f.children["inv"]
	if len(kids) != 2 || kids[0] != "alpha" || kids[1] != "zeta" {
		t.Errorf("children[inv] = %v, want [alpha zeta]", kids)
	}
}

func TestMeasureCycleCountsZero(t *testing.T) {
	doc := &sld.Document{
		Components: []sld.Component{
			comp("a", sld.TypeInverter),
			comp("b", sld.TypeInverter),
		},
		Connections: []sld.Connection{conn("a", "b"), conn("b", "a")},
	}
	// Both edges tie on rank and keep their recorded direction, giving
	// each node a parent. The promoted root breaks the recursion.
	f := buildForest(doc, rank.Default())

	e := New()
	heights := e.measure(f)
	if heights["a"] < e.Options().NodeHeight {
		t.Errorf("height[a] = %v, want at least own height", heights["a"])
	}
}

func TestMeasureSubtreeSums(t *testing.T) {
	doc := &sld.Document{
		Components: []sld.Component{
			comp("a", sld.TypePVArray),
			comp("b", sld.TypePVArray),
			comp("c", sld.TypePVArray),
			comp("inv", sld.TypeInverter),
		},
		Connections: []sld.Connection{conn("a", "inv"), conn("b", "inv"), conn("c", "inv")},
	}
	f := buildForest(doc, rank.Default())
	e := New()
	heights := e.measure(f)

	want := 3 * e.Options().NodeHeight
	if heights["inv"] != want {
		t.Errorf("height[inv] = %v, want %v", heights["inv"], want)
	}
	if heights["a"] != e.Options().NodeHeight {
		t.Errorf("height[a] = %v, want %v", heights["a"], e.Options().NodeHeight)
	}
}
