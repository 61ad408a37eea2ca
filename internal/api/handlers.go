package api

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/planstack/floorplan/pkg/catalog"
	"github.com/planstack/floorplan/pkg/errors"
	"github.com/planstack/floorplan/pkg/layout"
	"github.com/planstack/floorplan/pkg/pipeline"
	"github.com/planstack/floorplan/pkg/route"
	"github.com/planstack/floorplan/pkg/validate"
)

// maxBodyBytes caps layout document uploads.
const maxBodyBytes = 4 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalog.Types())
}

func (s *Server) handleRules(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.rules)
}

// handleValidateDocument audits a document from the request body without
// storing it.
func (s *Server) handleValidateDocument(w http.ResponseWriter, r *http.Request) {
	l, err := readDocument(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, validate.Check(l, s.rules))
}

func (s *Server) handleListLayouts(w http.ResponseWriter, r *http.Request) {
	infos, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, infos)
}

func (s *Server) handleCreateLayout(w http.ResponseWriter, r *http.Request) {
	l, err := readDocument(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	id, err := s.store.Put(r.Context(), "", l)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	l, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	data, err := layout.Marshal(l)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handlePutLayout(w http.ResponseWriter, r *http.Request) {
	l, err := readDocument(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	id, err := s.store.Put(r.Context(), chi.URLParam(r, "id"), l)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

func (s *Server) handleDeleteLayout(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleValidateLayout audits a stored layout. The report is cache-backed
// by the document's content hash.
func (s *Server) handleValidateLayout(w http.ResponseWriter, r *http.Request) {
	l, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	report, err := s.runner.Check(r.Context(), l, pipeline.Options{RulesPath: s.cfg.RulesPath})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handleRouteLayout computes the escape path from a named object to the
// nearest exit.
func (s *Server) handleRouteLayout(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	if from == "" {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "query parameter 'from' is required"))
		return
	}

	l, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	p, err := route.FromObject(l, from)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handleRenderLayout renders a stored layout and serves the artifact
// bytes. Artifacts are cache-backed by the document's content hash.
func (s *Server) handleRenderLayout(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		writeError(w, err)
		return
	}

	opts := pipeline.Options{
		Formats:   []string{format},
		Style:     r.URL.Query().Get("style"),
		RulesPath: s.cfg.RulesPath,
		Labels:    true,
	}
	if opts.Style != "" {
		if err := pipeline.ValidateStyle(opts.Style); err != nil {
			writeError(w, err)
			return
		}
	}

	l, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	artifacts, err := s.runner.Render(r.Context(), l, validate.Report{}, nil, opts)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentTypeFor(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

// readDocument parses a layout document from the request body.
func readDocument(w http.ResponseWriter, r *http.Request) (*layout.Layout, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body")
	}
	return layout.Unmarshal(data)
}

func contentTypeFor(format string) string {
	switch format {
	case pipeline.FormatSVG:
		return "image/svg+xml"
	case pipeline.FormatPNG:
		return "image/png"
	case pipeline.FormatPDF:
		return "application/pdf"
	case pipeline.FormatDOT:
		return "text/vnd.graphviz"
	case pipeline.FormatJSON:
		return "application/json"
	default:
		return "application/octet-stream"
	}
}
