package render

import (
	"strings"
	"testing"

	"github.com/voltlab/sldraw/pkg/sld"
)

func placed(id string, t sld.Type, x, y float64) sld.Component {
	return sld.Component{ID: id, Type: t, X: &x, Y: &y}
}

func testDoc() ([]sld.Component, []sld.Connection) {
	comps := []sld.Component{
		placed("pv", sld.TypePVArray, 100, 160),
		placed("inv", sld.TypeInverter, 320, 160),
	}
	conns := []sld.Connection{
		{From: "pv", To: "inv", Label: "DC 400V", Kind: sld.KindDC},
	}
	return comps, conns
}

func TestSVGContainsNodesAndEdges(t *testing.T) {
	comps, conns := testDoc()
	svg := string(SVG(comps, conns))

	if !strings.HasPrefix(svg, "<svg xmlns=") {
		t.Errorf("output does not start with an svg element: %.60s", svg)
	}
	if !strings.Contains(svg, "<path d=\"M ") {
		t.Error("no connection path in output")
	}
	if strings.Count(svg, "rx=\"8\"") != 2 {
		t.Errorf("want 2 node rects, got %d", strings.Count(svg, "rx=\"8\""))
	}
	if !strings.Contains(svg, "DC 400V") {
		t.Error("edge label missing from output")
	}
	if !strings.Contains(svg, "pv_array") {
		t.Error("component type caption missing from output")
	}
}

func TestSVGSkipsUnplacedComponents(t *testing.T) {
	comps := []sld.Component{
		placed("pv", sld.TypePVArray, 100, 160),
		{ID: "limbo", Type: sld.TypeInverter},
	}
	conns := []sld.Connection{{From: "pv", To: "limbo", Kind: sld.KindDC}}
	svg := string(SVG(comps, conns))

	if strings.Contains(svg, "limbo") {
		t.Error("unplaced component drawn")
	}
	if strings.Contains(svg, "<path d=\"M ") {
		t.Error("edge with unplaced endpoint drawn")
	}
}

func TestSVGEscapesLabels(t *testing.T) {
	comps := []sld.Component{placed("pv", sld.TypePVArray, 100, 160)}
	comps[0].Label = `A<B&"C"`
	svg := string(SVG(comps, nil))

	if strings.Contains(svg, `A<B`) {
		t.Error("label not escaped")
	}
	if !strings.Contains(svg, "A&lt;B&amp;&quot;C&quot;") {
		t.Error("escaped label missing")
	}
}

func TestSVGGridOption(t *testing.T) {
	comps, conns := testDoc()
	plain := string(SVG(comps, conns))
	grid := string(SVG(comps, conns, WithGrid(20)))

	if strings.Contains(plain, "<line ") {
		t.Error("grid drawn without option")
	}
	if !strings.Contains(grid, "<line ") {
		t.Error("grid option produced no lines")
	}
}

func TestToDOT(t *testing.T) {
	comps, conns := testDoc()
	doc := &sld.Document{Components: comps, Connections: conns}
	dot := ToDOT(doc)

	if !strings.HasPrefix(dot, "digraph diagram {") {
		t.Errorf("unexpected DOT prefix: %.40s", dot)
	}
	if !strings.Contains(dot, `"pv" -> "inv"`) {
		t.Error("edge missing from DOT output")
	}
	if !strings.Contains(dot, "rankdir=LR") {
		t.Error("left-to-right rank direction missing")
	}
}

func TestToDOTGroundEdgesDashed(t *testing.T) {
	doc := &sld.Document{
		Components: []sld.Component{
			placed("inv", sld.TypeInverter, 0, 0),
			placed("gnd", sld.TypeGround, 0, 0),
		},
		Connections: []sld.Connection{{From: "inv", To: "gnd", Kind: sld.KindGround}},
	}
	if !strings.Contains(ToDOT(doc), "style=dashed") {
		t.Error("ground edge not dashed")
	}
}
