package render

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/planstack/floorplan/pkg/catalog"
	"github.com/planstack/floorplan/pkg/errors"
	"github.com/planstack/floorplan/pkg/layout"
	"github.com/planstack/floorplan/pkg/route"
	"github.com/planstack/floorplan/pkg/validate"
)

const canvasMargin = 20.0

// Option configures the SVG renderer.
type Option func(*renderer)

type renderer struct {
	style   Style
	scale   float64
	grid    bool
	labels  bool
	routes  []route.Path
	flagged map[string]bool
}

// WithStyle selects the visual style. The default is [Plan].
func WithStyle(s Style) Option { return func(r *renderer) { r.style = s } }

// WithScale sets the canvas-unit to pixel factor (default 1.0).
func WithScale(scale float64) Option {
	return func(r *renderer) {
		if scale > 0 {
			r.scale = scale
		}
	}
}

// WithGrid overlays the snap grid.
func WithGrid() Option { return func(r *renderer) { r.grid = true } }

// WithLabels draws each object's id inside its footprint.
func WithLabels() Option { return func(r *renderer) { r.labels = true } }

// WithRoutes draws escape route polylines on top of the plan.
func WithRoutes(paths ...route.Path) Option {
	return func(r *renderer) { r.routes = append(r.routes, paths...) }
}

// WithIssues highlights the objects named by audit findings.
func WithIssues(issues ...validate.Issue) Option {
	return func(r *renderer) {
		for _, issue := range issues {
			if issue.ObjectID != "" {
				r.flagged[issue.ObjectID] = true
			}
		}
	}
}

// SVG renders the layout as a standalone SVG document.
func SVG(l *layout.Layout, opts ...Option) []byte {
	r := newRenderer(opts...)

	width := l.CanvasSize.Width * r.scale
	height := l.CanvasSize.Height * r.scale
	frameW := width + 2*canvasMargin
	frameH := height + 2*canvasMargin

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		frameW, frameH, frameW, frameH)

	r.style.RenderDefs(&buf)
	fmt.Fprintf(&buf, `  <g transform="translate(%.1f %.1f)">`+"\n", canvasMargin, canvasMargin)

	r.style.RenderCanvas(&buf, width, height)
	if r.grid {
		renderGrid(&buf, &r, l, width, height)
	}

	shapes := buildShapes(l, &r)
	for _, s := range shapes {
		renderShape(&buf, &r, s)
	}

	for _, p := range r.routes {
		if pts := routePoints(p, r.scale); pts != "" {
			r.style.RenderRoute(&buf, pts)
		}
	}
	for _, e := range l.ExitPoints() {
		r.style.RenderExit(&buf, e.X*r.scale, e.Y*r.scale, 10*r.scale)
	}

	if r.labels {
		for _, s := range shapes {
			if s.shape.Wall {
				continue
			}
			r.style.RenderLabel(&buf, s.shape)
		}
	}

	buf.WriteString("  </g>\n</svg>\n")
	return buf.Bytes()
}

// PNG renders the layout as PNG via SVG conversion. A scale of 2.0
// produces a 2x resolution image suitable for high-DPI displays.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func PNG(l *layout.Layout, scale float64, opts ...Option) ([]byte, error) {
	if scale <= 0 {
		scale = 2.0
	}
	return ToPNG(SVG(l, opts...), scale)
}

// PDF renders the layout as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func PDF(l *layout.Layout, opts ...Option) ([]byte, error) {
	return ToPDF(SVG(l, opts...))
}

// JSON renders the layout as its canonical document form.
func JSON(l *layout.Layout) ([]byte, error) {
	return layout.Marshal(l)
}

// Formats returns the supported output format names, sorted.
func Formats() []string {
	names := []string{"svg", "png", "pdf", "json", "dot"}
	sort.Strings(names)
	return names
}

// Render dispatches on a format name. PNG output uses the default 2x
// scale; use [PNG] directly for other resolutions.
func Render(l *layout.Layout, format string, opts ...Option) ([]byte, error) {
	switch format {
	case "svg":
		return SVG(l, opts...), nil
	case "png":
		return PNG(l, 2.0, opts...)
	case "pdf":
		return PDF(l, opts...)
	case "json":
		return JSON(l)
	case "dot":
		return []byte(DOT(l)), nil
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unknown format %q, valid formats: %v", format, Formats())
}

func newRenderer(opts ...Option) renderer {
	r := renderer{
		style:   Plan{},
		scale:   1.0,
		flagged: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// placedShape pairs a shape with its rotation so the renderer can wrap
// rotated objects in a transform group.
type placedShape struct {
	shape    Shape
	rotation float64
}

func buildShapes(l *layout.Layout, r *renderer) []placedShape {
	shapes := make([]placedShape, 0, len(l.Objects))
	for i := range l.Objects {
		o := &l.Objects[i]
		rect := o.Rect()
		tag := o.TypeTag()
		info := catalog.Lookup(tag)

		s := Shape{
			ID:       o.ID,
			Label:    o.ID,
			X:        rect.X * r.scale,
			Y:        rect.Y * r.scale,
			W:        rect.Width * r.scale,
			H:        rect.Height * r.scale,
			Category: info.Category,
			Wall:     catalog.IsWall(tag),
			Door:     catalog.IsDoor(tag),
			Exit:     catalog.IsExit(tag),
			Flagged:  r.flagged[o.ID],
		}
		s.CX = s.X + s.W/2
		s.CY = s.Y + s.H/2
		shapes = append(shapes, placedShape{shape: s, rotation: o.Rotation})
	}
	return shapes
}

func renderShape(buf *bytes.Buffer, r *renderer, p placedShape) {
	if p.rotation != 0 {
		fmt.Fprintf(buf, `  <g transform="rotate(%.1f %.2f %.2f)">`+"\n", p.rotation, p.shape.CX, p.shape.CY)
		r.style.RenderObject(buf, p.shape)
		buf.WriteString("  </g>\n")
		return
	}
	r.style.RenderObject(buf, p.shape)
}

func renderGrid(buf *bytes.Buffer, r *renderer, l *layout.Layout, width, height float64) {
	step := l.Grid() * r.scale
	if step <= 0 {
		return
	}
	for x := step; x < width; x += step {
		r.style.RenderGridLine(buf, x, 0, x, height)
	}
	for y := step; y < height; y += step {
		r.style.RenderGridLine(buf, 0, y, width, y)
	}
}

func routePoints(p route.Path, scale float64) string {
	if len(p.Points) == 0 {
		return ""
	}
	parts := make([]string, 0, len(p.Points))
	for _, pt := range p.Points {
		parts = append(parts, fmt.Sprintf("%.2f,%.2f", pt.X*scale, pt.Y*scale))
	}
	return strings.Join(parts, " ")
}
