// Package render draws floor plans.
//
// # Overview
//
// This package turns a layout document into visual output. It provides:
//
//   - SVG floor plans in configurable styles
//   - Generic format conversion (SVG to PDF/PNG)
//   - Graphviz diagrams with pinned object positions
//
// # Floor Plans
//
// [SVG] is the primary renderer. Options control the style, scale, grid
// overlay, labels, escape routes and issue highlighting:
//
//	svg := render.SVG(l, render.WithStyle(render.Blueprint{}), render.WithGrid())
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats
// using the external rsvg-convert tool (from librsvg). [PDF] and [PNG]
// wrap them for one-call rendering.
//
//	svg := render.SVG(l)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// # Graphviz Diagrams
//
// [DOT] emits a neato graph with every object pinned at its floor
// position, useful for inspecting a plan with standard graph tooling.
// [DOTSVG] renders the DOT text through the embedded Graphviz engine.
//
//	dot := render.DOT(l)
//	svg, err := render.DOTSVG(dot)
package render
