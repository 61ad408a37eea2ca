package layout

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/planstack/floorplan/pkg/errors"
)

// Unmarshal parses a layout document from JSON.
//
// Malformed JSON and non-object roots are reported as INVALID_FORMAT
// errors with the byte offset where parsing failed. Well-formed JSON
// that violates the schema or one of its invariants is reported as
// INVALID_LAYOUT, naming the offending field. Unknown fields are
// ignored so documents from newer writers still parse.
//
// Parsing applies the format's defaults: a missing version becomes
// [CurrentVersion], missing rotations become 0, and all rotations are
// wrapped into [0, 360).
func Unmarshal(data []byte) (*Layout, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "document is empty")
	}
	if trimmed[0] != '{' {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "document root must be a JSON object")
	}

	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, formatError(err)
	}

	if l.Version == 0 {
		l.Version = CurrentVersion
	}
	l.NormalizeRotations()

	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

// Marshal serializes a layout to canonical JSON: two-space indentation
// and the fixed field order of the document format. The layout is
// validated first, so invalid layouts never serialize. Marshaling the
// same layout twice yields byte-identical output.
func Marshal(l *Layout) ([]byte, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}

	cp := *l
	if cp.Objects == nil {
		cp.Objects = []Object{}
	}

	data, err := json.MarshalIndent(&cp, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "failed to serialize layout")
	}
	return data, nil
}

// Read parses a layout document from a reader.
func Read(r io.Reader) (*Layout, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "failed to read document")
	}
	return Unmarshal(data)
}

// Write serializes a layout to a writer.
func Write(l *Layout, w io.Writer) error {
	data, err := Marshal(l)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "failed to write document")
	}
	return nil
}

// ReadFile loads a layout document from disk. The path must use the
// .json extension; a missing file is reported as FILE_NOT_FOUND so
// callers can distinguish it from a malformed one.
func ReadFile(path string) (*Layout, error) {
	if err := errors.ValidateDocumentPath(path); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "layout file not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "failed to read layout file: %s", path)
	}

	l, err := Unmarshal(data)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "invalid layout file: %s", path)
	}
	return l, nil
}

// WriteFile atomically writes a layout document to disk: the document
// lands in a temporary file first and is renamed into place, so a crash
// mid-write never leaves a truncated layout behind. The path must use
// the .json extension.
func WriteFile(l *Layout, path string) error {
	if err := errors.ValidateDocumentPath(path); err != nil {
		return err
	}

	data, err := Marshal(l)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".layout-*.json.tmp")
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "failed to create temp file in %s", dir)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrCodeStorage, err, "failed to write %s", path)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrCodeStorage, err, "failed to write %s", path)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrCodeStorage, err, "failed to write %s", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrCodeStorage, err, "failed to replace %s", path)
	}
	return nil
}

// formatError maps an encoding/json error to the document error
// taxonomy: syntax problems are INVALID_FORMAT, shape problems on a
// well-formed document are INVALID_LAYOUT.
func formatError(err error) error {
	switch e := err.(type) {
	case *json.SyntaxError:
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "malformed JSON at offset %d", e.Offset)
	case *json.UnmarshalTypeError:
		field := e.Field
		if field == "" {
			return errors.New(errors.ErrCodeInvalidFormat, "document root must be a JSON object, got %s", e.Value)
		}
		return errors.New(errors.ErrCodeInvalidLayout, "%s must be a %s, got %s", field, e.Type, e.Value)
	}
	if err == io.ErrUnexpectedEOF {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "document is truncated")
	}
	return errors.Wrap(errors.ErrCodeInvalidFormat, err, "failed to parse document")
}
