package layout

import (
	"math"
	"testing"

	"github.com/voltlab/sldraw/pkg/sld"
)

func comp(id string, t sld.Type, specs ...string) sld.Component {
	return sld.Component{ID: id, Type: t, Specs: specs}
}

func conn(from, to string) sld.Connection {
	return sld.Connection{From: from, To: to, Kind: sld.KindDC}
}

func pos(t *testing.T, r Result, id string) (float64, float64) {
	t.Helper()
	for i := range r.Placed {
		if r.Placed[i].ID == id {
			c := &r.Placed[i]
			if !c.Positioned() {
				t.Fatalf("component %q has no position", id)
			}
			return *c.X, *c.Y
		}
	}
	t.Fatalf("component %q not in result", id)
	return 0, 0
}

func TestLayoutSingleComponent(t *testing.T) {
	doc := &sld.Document{Components: []sld.Component{comp("grid", sld.TypeGrid)}}
	r := New().Layout(doc)

	x, y := pos(t, r, "grid")
	if x != 980 {
		t.Errorf("grid x = %v, want 980", x)
	}
	if y != 160 {
		t.Errorf("grid y = %v, want 160", y)
	}
	if r.TotalHeight != 1000 {
		t.Errorf("TotalHeight = %v, want 1000", r.TotalHeight)
	}
	if len(r.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", r.Warnings)
	}
}

func TestLayoutChainAlignsVertically(t *testing.T) {
	doc := &sld.Document{
		Components: []sld.Component{
			comp("pv", sld.TypePVArray),
			comp("brk", sld.TypeDCBreaker),
			comp("inv", sld.TypeInverter),
			comp("main", sld.TypeACBreaker),
			comp("grid", sld.TypeGrid),
		},
		Connections: []sld.Connection{
			conn("pv", "brk"), conn("brk", "inv"), conn("inv", "main"), conn("main", "grid"),
		},
	}
	r := New().Layout(doc)

	var lastX float64 = math.Inf(-1)
	var firstY float64
	for i, id := range []string{"pv", "brk", "inv", "main", "grid"} {
		x, y := pos(t, r, id)
		if x <= lastX {
			t.Errorf("%s x = %v, want > %v", id, x, lastX)
		}
		lastX = x
		if i == 0 {
			firstY = y
		} else if y != firstY {
			t.Errorf("%s y = %v, want %v (chain should align)", id, y, firstY)
		}
	}
}

func TestLayoutEveryComponentPlaced(t *testing.T) {
	doc := &sld.Document{
		Components: []sld.Component{
			comp("pv1", sld.TypePVArray),
			comp("pv2", sld.TypePVArray),
			comp("inv", sld.TypeInverter),
			comp("grid", sld.TypeGrid),
			comp("orphan", sld.TypeLoad),
		},
		Connections: []sld.Connection{
			conn("pv1", "inv"), conn("pv2", "inv"), conn("inv", "grid"),
		},
	}
	r := New().Layout(doc)
	for _, c := range r.Placed {
		if !c.Positioned() {
			t.Errorf("component %q left without position", c.ID)
		}
	}
}

func TestLayoutSiblingsDoNotOverlap(t *testing.T) {
	doc := &sld.Document{
		Components: []sld.Component{
			comp("a", sld.TypePVArray, "400V", "10A", "4.8kW"),
			comp("b", sld.TypePVArray),
			comp("c", sld.TypePVArray),
			comp("inv", sld.TypeInverter),
		},
		Connections: []sld.Connection{
			conn("a", "inv"), conn("b", "inv"), conn("c", "inv"),
		},
	}
	e := New()
	r := e.Layout(doc)

	own := func(c *sld.Component) float64 {
		return e.Options().NodeHeight + float64(len(c.Specs))*e.Options().SpecLineHeight
	}
	for i := range r.Placed {
		for j := i + 1; j < len(r.Placed); j++ {
			a, b := &r.Placed[i], &r.Placed[j]
			if *a.X != *b.X {
				continue
			}
			gap := math.Abs(*a.Y - *b.Y)
			need := (own(a)+own(b))/2 - e.Options().GridSize // snap tolerance
			if gap < need {
				t.Errorf("%s and %s overlap: gap %v, need %v", a.ID, b.ID, gap, need)
			}
		}
	}
}

func TestLayoutSpecLinesGrowSubtree(t *testing.T) {
	base := &sld.Document{
		Components: []sld.Component{
			comp("a", sld.TypePVArray),
			comp("b", sld.TypePVArray),
			comp("inv", sld.TypeInverter),
		},
		Connections: []sld.Connection{conn("a", "inv"), conn("b", "inv")},
	}
	tall := base.Clone()
	tall.Components[0].Specs = []string{"400V", "10A", "4.8kW", "IP65", "mono"}

	e := New()
	plain := e.Layout(base)
	grown := e.Layout(tall)

	_, yPlainB := pos(t, plain, "b")
	_, yGrownB := pos(t, grown, "b")
	if yGrownB <= yPlainB {
		t.Errorf("sibling below spec-heavy node at y=%v, want pushed past %v", yGrownB, yPlainB)
	}
}

func TestLayoutIdempotent(t *testing.T) {
	doc := &sld.Document{
		Components: []sld.Component{
			comp("pv", sld.TypePVArray),
			comp("inv", sld.TypeInverter),
			comp("grid", sld.TypeGrid),
		},
		Connections: []sld.Connection{conn("pv", "inv"), conn("inv", "grid")},
	}
	e := New()
	first := e.Layout(doc)

	again := &sld.Document{Components: first.Placed, Connections: doc.Connections}
	second := e.Layout(again)

	for i := range first.Placed {
		x1, y1 := *first.Placed[i].X, *first.Placed[i].Y
		x2, y2 := *second.Placed[i].X, *second.Placed[i].Y
		if x1 != x2 || y1 != y2 {
			t.Errorf("%s moved on second run: (%v,%v) -> (%v,%v)",
				first.Placed[i].ID, x1, y1, x2, y2)
		}
	}
	if first.TotalHeight != second.TotalHeight {
		t.Errorf("TotalHeight changed: %v -> %v", first.TotalHeight, second.TotalHeight)
	}
}

func TestLayoutDeterministic(t *testing.T) {
	doc := &sld.Document{
		Components: []sld.Component{
			comp("pv1", sld.TypePVArray),
			comp("pv2", sld.TypePVArray),
			comp("bat", sld.TypeBattery),
			comp("inv", sld.TypeInverter),
			comp("grid", sld.TypeGrid),
		},
		Connections: []sld.Connection{
			conn("pv1", "inv"), conn("pv2", "inv"), conn("bat", "inv"), conn("inv", "grid"),
		},
	}
	e := New()
	first := e.Layout(doc)
	for run := 0; run < 10; run++ {
		r := e.Layout(doc)
		for i := range first.Placed {
			if *r.Placed[i].X != *first.Placed[i].X || *r.Placed[i].Y != *first.Placed[i].Y {
				t.Fatalf("run %d: %s moved", run, r.Placed[i].ID)
			}
		}
	}
}

func TestLayoutHonorsPinnedComponents(t *testing.T) {
	x, y := 555.0, 777.0
	doc := &sld.Document{
		Components: []sld.Component{
			{ID: "pv", Type: sld.TypePVArray, X: &x, Y: &y},
			comp("inv", sld.TypeInverter),
		},
		Connections: []sld.Connection{conn("pv", "inv")},
	}
	r := New().Layout(doc)

	gotX, gotY := pos(t, r, "pv")
	if gotX != 555 || gotY != 777 {
		t.Errorf("pinned component moved to (%v, %v)", gotX, gotY)
	}
	if _, invY := pos(t, r, "inv"); invY == 0 {
		t.Error("unpinned component not placed")
	}
}

func TestLayoutSnapsToGrid(t *testing.T) {
	doc := &sld.Document{
		Components: []sld.Component{
			comp("pv", sld.TypePVArray, "400V"),
			comp("brk", sld.TypeDCBreaker),
			comp("inv", sld.TypeInverter),
		},
		Connections: []sld.Connection{conn("pv", "brk"), conn("brk", "inv")},
	}
	e := New()
	r := e.Layout(doc)
	grid := e.Options().GridSize
	for _, c := range r.Placed {
		if math.Mod(*c.X, grid) != 0 || math.Mod(*c.Y, grid) != 0 {
			t.Errorf("%s at (%v, %v) not on %v grid", c.ID, *c.X, *c.Y, grid)
		}
	}
}

func TestLayoutInputNotMutated(t *testing.T) {
	doc := &sld.Document{Components: []sld.Component{comp("grid", sld.TypeGrid)}}
	New().Layout(doc)
	if doc.Components[0].Positioned() {
		t.Error("Layout mutated its input document")
	}
}

func TestLayoutDanglingConnectionWarns(t *testing.T) {
	doc := &sld.Document{
		Components:  []sld.Component{comp("pv", sld.TypePVArray)},
		Connections: []sld.Connection{conn("pv", "ghost")},
	}
	r := New().Layout(doc)
	if len(r.Warnings) != 1 || r.Warnings[0].Code != WarnDanglingEdge {
		t.Fatalf("Warnings = %v, want one dangling_edge", r.Warnings)
	}
	if !r.Placed[0].Positioned() {
		t.Error("component with dangling edge not placed")
	}
}

func TestConfigOverrides(t *testing.T) {
	e := New(WithGridSize(10), WithLevelWidth(300))
	if e.Options().GridSize != 10 {
		t.Errorf("GridSize = %v, want 10", e.Options().GridSize)
	}
	if e.Options().LevelWidth != 300 {
		t.Errorf("LevelWidth = %v, want 300", e.Options().LevelWidth)
	}
	if e.Options().BaseOffset != DefaultBaseOffset {
		t.Errorf("BaseOffset = %v, want default %v", e.Options().BaseOffset, DefaultBaseOffset)
	}
}
