package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/voltlab/sldraw/pkg/sld"
)

// ToDOT converts a document to Graphviz DOT format for structural
// export. The resulting DOT string can be rendered with [RenderDOT].
//
// Layout is left entirely to Graphviz; the document's computed positions
// are ignored. Use [SVG] when the export must match the canvas.
func ToDOT(doc *sld.Document) string {
	var buf bytes.Buffer
	buf.WriteString("digraph diagram {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.8;\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	for i := range doc.Components {
		c := &doc.Components[i]
		fmt.Fprintf(&buf, "  %q [label=%q];\n", c.ID, dotLabel(c))
	}

	buf.WriteString("\n")
	for _, conn := range doc.Connections {
		attrs := []string{}
		if conn.Label != "" {
			attrs = append(attrs, fmt.Sprintf("label=%q", conn.Label))
		}
		if conn.Kind == sld.KindGround {
			attrs = append(attrs, "style=dashed")
		}
		if len(attrs) > 0 {
			fmt.Fprintf(&buf, "  %q -> %q [%s];\n", conn.From, conn.To, strings.Join(attrs, ", "))
		} else {
			fmt.Fprintf(&buf, "  %q -> %q;\n", conn.From, conn.To)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func dotLabel(c *sld.Component) string {
	label := c.Label
	if label == "" {
		label = c.ID
	}
	parts := []string{label, string(c.Type)}
	parts = append(parts, c.Specs...)
	return strings.Join(parts, "\n")
}

// RenderDOT renders a DOT graph with Graphviz into the given format
// (graphviz.SVG or graphviz.PNG). SVG output gets a normalized viewBox so
// browsers scale it predictably.
func RenderDOT(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	if format == graphviz.SVG {
		return normalizeViewBox(buf.Bytes()), nil
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
