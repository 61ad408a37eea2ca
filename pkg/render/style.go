package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"sort"

	"github.com/planstack/floorplan/pkg/catalog"
	"github.com/planstack/floorplan/pkg/errors"
)

// Style defines the visual appearance of a rendered floor plan.
// Implementations control how the canvas, objects, routes and labels
// are drawn.
type Style interface {
	// Name returns the registry key for the style.
	Name() string
	// RenderDefs writes SVG <defs> content (filters, patterns, gradients).
	RenderDefs(buf *bytes.Buffer)
	// RenderCanvas writes the floor background.
	RenderCanvas(buf *bytes.Buffer, w, h float64)
	// RenderGridLine writes one grid overlay line.
	RenderGridLine(buf *bytes.Buffer, x1, y1, x2, y2 float64)
	// RenderObject writes the SVG for a single object footprint.
	RenderObject(buf *bytes.Buffer, s Shape)
	// RenderRoute writes an escape route polyline. The points attribute
	// is prebuilt in canvas pixels.
	RenderRoute(buf *bytes.Buffer, points string)
	// RenderExit writes an exit marker centered on the given pixel.
	RenderExit(buf *bytes.Buffer, x, y, size float64)
	// RenderLabel writes an object's label text.
	RenderLabel(buf *bytes.Buffer, s Shape)
}

// Shape contains all data needed to render a single object. Coordinates
// are in output pixels with margins applied; the wall centerline
// expansion has already happened.
type Shape struct {
	ID         string
	Label      string
	X, Y, W, H float64
	CX, CY     float64
	Category   catalog.Category
	Wall       bool
	Door       bool
	Exit       bool
	Flagged    bool
}

// StyleFor resolves a style by name. An empty name selects [Plan].
func StyleFor(name string) (Style, error) {
	switch name {
	case "", "plan":
		return Plan{}, nil
	case "blueprint":
		return Blueprint{}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidStyle, "unknown style %q, valid styles: %v", name, Styles())
}

// Styles returns the registered style names, sorted.
func Styles() []string {
	names := []string{"plan", "blueprint"}
	sort.Strings(names)
	return names
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// Plan is the default style: a light floor with category-colored
// furniture, solid walls and green escape routes.
type Plan struct{}

func (Plan) Name() string { return "plan" }

func (Plan) RenderDefs(buf *bytes.Buffer) {}

func (Plan) RenderCanvas(buf *bytes.Buffer, w, h float64) {
	fmt.Fprintf(buf, `  <rect class="floor" x="0" y="0" width="%.2f" height="%.2f" fill="#fafaf7" stroke="#333333" stroke-width="1.5"/>`+"\n", w, h)
}

func (Plan) RenderGridLine(buf *bytes.Buffer, x1, y1, x2, y2 float64) {
	fmt.Fprintf(buf, `  <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="#e4e4e4" stroke-width="0.5"/>`+"\n", x1, y1, x2, y2)
}

func (p Plan) RenderObject(buf *bytes.Buffer, s Shape) {
	fill, stroke := p.colors(s)
	width := 1.0
	if s.Wall {
		width = 0
	}
	if s.Flagged {
		stroke = "#c0392b"
		width = 2.5
	}
	dash := ""
	if s.Door {
		dash = ` stroke-dasharray="4 3"`
	}
	fmt.Fprintf(buf, `  <rect id="object-%s" class="object" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" stroke="%s" stroke-width="%.1f"%s/>`+"\n",
		escapeXML(s.ID), s.X, s.Y, s.W, s.H, fill, stroke, width, dash)
}

func (Plan) colors(s Shape) (fill, stroke string) {
	switch {
	case s.Wall:
		return "#4b4b4b", "#4b4b4b"
	case s.Exit:
		return "#b8e0b8", "#2e7d32"
	case s.Door:
		return "#f5f5f5", "#999999"
	}
	switch s.Category {
	case catalog.CategorySeating:
		return "#bcd4e6", "#5b7f99"
	case catalog.CategoryFurniture:
		return "#e0d8c8", "#7a7265"
	case catalog.CategoryDecoration:
		return "#cde0c9", "#6d8f66"
	case catalog.CategoryInfrastructure:
		return "#e6d5e0", "#8f6d85"
	}
	return "#eeeeee", "#888888"
}

func (Plan) RenderRoute(buf *bytes.Buffer, points string) {
	fmt.Fprintf(buf, `  <polyline class="route" points="%s" fill="none" stroke="#2e7d32" stroke-width="2" stroke-dasharray="6 4" stroke-linejoin="round"/>`+"\n", points)
}

func (Plan) RenderExit(buf *bytes.Buffer, x, y, size float64) {
	half := size / 2
	fmt.Fprintf(buf, `  <rect class="exit-marker" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="#2e7d32" stroke="#1b5e20" stroke-width="1"/>`+"\n",
		x-half, y-half, size, size)
}

func (Plan) RenderLabel(buf *bytes.Buffer, s Shape) {
	size := fontSizeFor(s.W, s.H, len(s.Label))
	fmt.Fprintf(buf, `  <text class="label" x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="central" font-family="Helvetica, Arial, sans-serif" font-size="%.1f" fill="#333333">%s</text>`+"\n",
		s.CX, s.CY, size, escapeXML(s.Label))
}

// Blueprint renders white linework on a dark blue ground, in the manner
// of a technical drawing.
type Blueprint struct{}

func (Blueprint) Name() string { return "blueprint" }

func (Blueprint) RenderDefs(buf *bytes.Buffer) {}

func (Blueprint) RenderCanvas(buf *bytes.Buffer, w, h float64) {
	fmt.Fprintf(buf, `  <rect class="floor" x="0" y="0" width="%.2f" height="%.2f" fill="#0d2a4d" stroke="#e8f1ff" stroke-width="2"/>`+"\n", w, h)
}

func (Blueprint) RenderGridLine(buf *bytes.Buffer, x1, y1, x2, y2 float64) {
	fmt.Fprintf(buf, `  <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="#1d3f66" stroke-width="0.5"/>`+"\n", x1, y1, x2, y2)
}

func (Blueprint) RenderObject(buf *bytes.Buffer, s Shape) {
	stroke := "#e8f1ff"
	width := 1.2
	opacity := 0.05
	if s.Wall {
		width = 2.5
		opacity = 0.15
	}
	if s.Exit {
		stroke = "#9fffc8"
	}
	if s.Flagged {
		stroke = "#ffb347"
		width = 2.5
	}
	dash := ""
	if s.Door {
		dash = ` stroke-dasharray="4 3"`
	}
	fmt.Fprintf(buf, `  <rect id="object-%s" class="object" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="#ffffff" fill-opacity="%.2f" stroke="%s" stroke-width="%.1f"%s/>`+"\n",
		escapeXML(s.ID), s.X, s.Y, s.W, s.H, opacity, stroke, width, dash)
}

func (Blueprint) RenderRoute(buf *bytes.Buffer, points string) {
	fmt.Fprintf(buf, `  <polyline class="route" points="%s" fill="none" stroke="#9fd3ff" stroke-width="1.5" stroke-dasharray="5 4"/>`+"\n", points)
}

func (Blueprint) RenderExit(buf *bytes.Buffer, x, y, size float64) {
	half := size / 2
	fmt.Fprintf(buf, `  <path class="exit-marker" d="M %.2f %.2f L %.2f %.2f L %.2f %.2f L %.2f %.2f Z" fill="none" stroke="#9fffc8" stroke-width="1.5"/>`+"\n",
		x, y-half, x+half, y, x, y+half, x-half, y)
}

func (Blueprint) RenderLabel(buf *bytes.Buffer, s Shape) {
	size := fontSizeFor(s.W, s.H, len(s.Label))
	fmt.Fprintf(buf, `  <text class="label" x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="central" font-family="Courier New, monospace" font-size="%.1f" fill="#e8f1ff">%s</text>`+"\n",
		s.CX, s.CY, size, escapeXML(s.Label))
}

const (
	fontHeightRatio = 0.6
	fontWidthRatio  = 0.85
	fontCharWidth   = 0.55
	fontSizeMin     = 6.0
	fontSizeMax     = 18.0
)

func fontSizeFor(availWidth, availHeight float64, textLen int) float64 {
	n := max(1, textLen)
	byHeight := availHeight * fontHeightRatio
	byWidth := (availWidth * fontWidthRatio) / (float64(n) * fontCharWidth)
	return max(fontSizeMin, min(fontSizeMax, min(byHeight, byWidth)))
}
