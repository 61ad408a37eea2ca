// Package layout defines the floor plan document format and its codec.
//
// # Document model
//
// A [Layout] describes one office floor: a named canvas with a list of
// placed objects and free-form metadata. Objects are open-ended; the
// type field is a plain string tag ("Desk", "Chair", "Quantum Pod") and
// unknown tags are always legal. The object list is ordered, and that
// order survives every parse/serialize cycle, so it can double as a
// z-order for editors.
//
// # Wire format
//
// Documents are JSON. [Marshal] emits a canonical form: two-space
// indentation and a fixed field order (version, layout_name,
// canvas_size, grid_size, objects, exits, metadata), so the same layout
// always produces byte-identical output and documents diff cleanly
// under version control.
//
//	{
//	  "version": 1,
//	  "layout_name": "Open Space A1",
//	  "canvas_size": { "width": 900, "height": 600 },
//	  "objects": [
//	    { "id": "desk_1", "type": "Desk", "x": 120, "y": 80,
//	      "width": 50, "height": 50, "rotation": 0 }
//	  ],
//	  "metadata": { "author": "...", "created_at": "...", "description": "..." }
//	}
//
// [Unmarshal] ignores unknown fields, so documents written by newer
// tools still load. Round-tripping is lossless: for any valid layout L,
// Unmarshal(Marshal(L)) reproduces L exactly. All numbers are float64.
//
// # Error taxonomy
//
// Parse failures split into two kinds. Syntax errors (truncated input,
// a non-object root, malformed JSON) come back as INVALID_FORMAT with
// the byte offset when one is available. Schema and invariant
// violations on well-formed JSON (a zero-width canvas, a duplicate
// object id) come back as INVALID_LAYOUT naming the failing field.
// Callers route on the distinction with errors.IsFormat and
// errors.IsValidation.
//
// # Files
//
// The codec itself never touches the filesystem; [ReadFile] and
// [WriteFile] are thin wrappers for callers that work with paths.
// Both require the .json extension, and WriteFile replaces the target
// atomically.
package layout
