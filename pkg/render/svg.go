// Package render produces static exports of a laid-out diagram.
//
// Two pipelines are provided: a native SVG writer that draws components
// and Bezier connections exactly as the interactive canvas does, and a
// Graphviz pipeline ([ToDOT], [RenderDOT]) for quick structural exports
// where precise electrical staging does not matter.
package render

import (
	"bytes"
	"fmt"

	"github.com/voltlab/sldraw/pkg/geom"
	"github.com/voltlab/sldraw/pkg/sld"
)

// Options configures SVG rendering.
type Options struct {
	// Padding expands the bounding box on all sides.
	Padding float64

	// Grid draws the snap grid behind the diagram when positive.
	Grid float64
}

// Option mutates Options during [SVG].
type Option func(*Options)

// WithPadding sets the frame padding.
func WithPadding(p float64) Option { return func(o *Options) { o.Padding = p } }

// WithGrid draws the snap grid at the given spacing.
func WithGrid(g float64) Option { return func(o *Options) { o.Grid = g } }

// DefaultPadding frames exports with enough room for node boxes and edge
// labels at the diagram edge.
const DefaultPadding = 120.0

// stroke colors per connection kind. DC runs warm, AC cool, ground
// dashed green, matching common single-line drawing conventions.
var kindStroke = map[sld.LinkKind]string{
	sld.KindDC:     "#d97706",
	sld.KindAC:     "#2563eb",
	sld.KindGround: "#16a34a",
}

// SVG renders components and connections into a standalone SVG document.
// Components without positions and connections with unresolved endpoints
// are skipped silently; run the layout engine first for a complete
// picture.
func SVG(placed []sld.Component, conns []sld.Connection, opts ...Option) []byte {
	o := Options{Padding: DefaultPadding}
	for _, opt := range opts {
		opt(&o)
	}

	frame := geom.Bounds(placed, o.Padding)
	var buf bytes.Buffer
	fmt.Fprintf(&buf,
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f" width="%.0f" height="%.0f" font-family="ui-sans-serif, system-ui, sans-serif">`+"\n",
		frame.X, frame.Y, frame.Width, frame.Height, frame.Width, frame.Height)
	buf.WriteString(`<rect x="` + coord(frame.X) + `" y="` + coord(frame.Y) + `" width="` + coord(frame.Width) + `" height="` + coord(frame.Height) + `" fill="#f8fafc"/>` + "\n")

	if o.Grid > 0 {
		writeGrid(&buf, frame, o.Grid)
	}

	centers := make(map[string]geom.Point, len(placed))
	for i := range placed {
		c := &placed[i]
		if c.Positioned() {
			centers[c.ID] = geom.Point{X: *c.X, Y: *c.Y}
		}
	}

	for _, conn := range conns {
		from, okFrom := centers[conn.From]
		to, okTo := centers[conn.To]
		if !okFrom || !okTo {
			continue
		}
		writeEdge(&buf, conn, from, to)
	}
	for i := range placed {
		if placed[i].Positioned() {
			writeNode(&buf, &placed[i])
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func writeGrid(buf *bytes.Buffer, frame geom.Rect, grid float64) {
	buf.WriteString(`<g stroke="#e2e8f0" stroke-width="1">` + "\n")
	for x := geom.Snap(frame.X, grid); x <= frame.X+frame.Width; x += grid {
		fmt.Fprintf(buf, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n",
			x, frame.Y, x, frame.Y+frame.Height)
	}
	for y := geom.Snap(frame.Y, grid); y <= frame.Y+frame.Height; y += grid {
		fmt.Fprintf(buf, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n",
			frame.X, y, frame.X+frame.Width, y)
	}
	buf.WriteString("</g>\n")
}

func writeEdge(buf *bytes.Buffer, conn sld.Connection, from, to geom.Point) {
	curve := geom.Route(from, to)
	stroke, ok := kindStroke[conn.Kind]
	if !ok {
		stroke = kindStroke[sld.KindDC]
	}
	dash := ""
	if conn.Kind == sld.KindGround {
		dash = ` stroke-dasharray="6 4"`
	}
	fmt.Fprintf(buf,
		`<path d="M %.1f %.1f C %.1f %.1f, %.1f %.1f, %.1f %.1f" fill="none" stroke="%s" stroke-width="2.5"%s/>`+"\n",
		curve.P0.X, curve.P0.Y, curve.C1.X, curve.C1.Y, curve.C2.X, curve.C2.Y, curve.P3.X, curve.P3.Y, stroke, dash)

	if conn.Label == "" {
		return
	}
	anchor := curve.Midpoint()
	box := geom.LabelBox(anchor, conn.Label)
	fmt.Fprintf(buf,
		`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="4" fill="white" stroke="%s" stroke-width="1"/>`+"\n",
		box.X, box.Y, box.Width, box.Height, stroke)
	fmt.Fprintf(buf,
		`<text x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="central" font-size="11" fill="#334155">%s</text>`+"\n",
		anchor.X, anchor.Y, escape(conn.Label))
}

func writeNode(buf *bytes.Buffer, c *sld.Component) {
	box := geom.NodeBox(geom.Point{X: *c.X, Y: *c.Y})
	fmt.Fprintf(buf,
		`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="8" fill="white" stroke="#334155" stroke-width="2"/>`+"\n",
		box.X, box.Y, box.Width, box.Height)

	label := c.Label
	if label == "" {
		label = c.ID
	}
	fmt.Fprintf(buf,
		`<text x="%.1f" y="%.1f" text-anchor="middle" font-size="13" font-weight="600" fill="#0f172a">%s</text>`+"\n",
		*c.X, box.Y+22, escape(label))
	fmt.Fprintf(buf,
		`<text x="%.1f" y="%.1f" text-anchor="middle" font-size="10" fill="#64748b">%s</text>`+"\n",
		*c.X, box.Y+38, escape(string(c.Type)))

	y := box.Y + 56
	for _, spec := range c.Specs {
		fmt.Fprintf(buf,
			`<text x="%.1f" y="%.1f" text-anchor="middle" font-size="10" fill="#475569">%s</text>`+"\n",
			*c.X, y, escape(spec))
		y += 14
	}
}

func coord(v float64) string { return fmt.Sprintf("%.1f", v) }

func escape(s string) string {
	var b bytes.Buffer
	for _, r := range s {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
