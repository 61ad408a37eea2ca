package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/planstack/floorplan/pkg/catalog"
	"github.com/planstack/floorplan/pkg/errors"
	"github.com/planstack/floorplan/pkg/layout"
)

// DOT converts a layout to Graphviz DOT format with every object pinned
// at its floor position. The neato engine honors the pins, so standard
// graph tooling reproduces the plan's spatial arrangement.
//
// Graphviz places positions in points with the y axis growing upward,
// so coordinates are flipped against the canvas height.
func DOT(l *layout.Layout) string {
	var buf bytes.Buffer
	buf.WriteString("graph floorplan {\n")
	buf.WriteString("  layout=neato;\n")
	fmt.Fprintf(&buf, "  label=%q;\n", l.Name)
	buf.WriteString("  labelloc=t;\n")
	buf.WriteString("  node [shape=box, style=filled, fixedsize=true, fontsize=10];\n")
	buf.WriteString("\n")

	for i := range l.Objects {
		o := &l.Objects[i]
		rect := o.Rect()
		cx := rect.X + rect.Width/2
		cy := l.CanvasSize.Height - (rect.Y + rect.Height/2)

		fill := "white"
		switch {
		case catalog.IsWall(o.TypeTag()):
			fill = "gray35"
		case o.Walkable():
			fill = "palegreen"
		}

		fmt.Fprintf(&buf, "  %q [pos=\"%.1f,%.1f!\", width=%.3f, height=%.3f, fillcolor=%s];\n",
			o.ID, cx, cy, rect.Width/72, rect.Height/72, fill)
	}

	for i, e := range l.ExitPoints() {
		fmt.Fprintf(&buf, "  \"exit/%d\" [pos=\"%.1f,%.1f!\", shape=diamond, width=0.2, height=0.2, fillcolor=green, label=\"\"];\n",
			i, e.X, l.CanvasSize.Height-e.Y)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// DOTSVG renders DOT text to SVG using the embedded Graphviz engine.
func DOTSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "render DOT")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the Graphviz svg element so the document
// scales to its container instead of a fixed pt size.
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
