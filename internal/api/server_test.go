package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/planstack/floorplan/pkg/cache"
	"github.com/planstack/floorplan/pkg/errors"
	"github.com/planstack/floorplan/pkg/layout"
	"github.com/planstack/floorplan/pkg/pipeline"
	"github.com/planstack/floorplan/pkg/rules"
	"github.com/planstack/floorplan/pkg/store"
)

func testServer(t *testing.T) *Server {
	t.Helper()

	st, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	t.Cleanup(func() { st.Close() })

	logger := log.New(io.Discard)
	return &Server{
		cfg:    Config{},
		logger: logger,
		store:  st,
		runner: pipeline.NewRunner(cache.NewNullCache(), nil, logger),
		rules:  rules.Default(),
	}
}

func sampleDocument(t *testing.T) []byte {
	t.Helper()

	l := layout.New("Test Office", 900, 600)
	l.Objects = []layout.Object{
		{ID: "desk_1", Type: "Desk", X: 100, Y: 100, Width: 120, Height: 60},
		{ID: "chair_1", Type: "Chair", X: 400, Y: 300, Width: 45, Height: 45},
		{ID: "exit_1", Type: "Exit", X: 850, Y: 280, Width: 40, Height: 40},
	}

	data, err := layout.Marshal(l)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	return data
}

func doRequest(t *testing.T, s *Server, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func createLayout(t *testing.T, s *Server) string {
	t.Helper()

	rec := doRequest(t, s, http.MethodPost, "/api/v1/layouts", sampleDocument(t))
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /layouts status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if resp["id"] == "" {
		t.Fatal("create response has empty id")
	}
	return resp["id"]
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body, err)
	}
	return body.Error.Code
}

func TestHealthz(t *testing.T) {
	s := testServer(t)

	rec := doRequest(t, s, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /healthz status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", got)
	}
}

func TestTypesEndpoint(t *testing.T) {
	s := testServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/types", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /types status = %d, want %d", rec.Code, http.StatusOK)
	}

	var types []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &types); err != nil {
		t.Fatalf("decode types: %v", err)
	}
	if len(types) == 0 {
		t.Error("types listing is empty")
	}
}

func TestRulesEndpoint(t *testing.T) {
	s := testServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/rules", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /rules status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "spacing") {
		t.Errorf("rules body missing spacing section: %s", rec.Body)
	}
}

func TestLayoutLifecycle(t *testing.T) {
	s := testServer(t)
	id := createLayout(t, s)

	// Get returns the canonical document.
	rec := doRequest(t, s, http.MethodGet, "/api/v1/layouts/"+id, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET layout status = %d, want %d", rec.Code, http.StatusOK)
	}
	got, err := layout.Unmarshal(rec.Body.Bytes())
	if err != nil {
		t.Fatalf("returned document does not parse: %v", err)
	}
	if got.Name != "Test Office" {
		t.Errorf("layout name = %q, want %q", got.Name, "Test Office")
	}
	if len(got.Objects) != 3 {
		t.Errorf("layout has %d objects, want 3", len(got.Objects))
	}

	// List includes it.
	rec = doRequest(t, s, http.MethodGet, "/api/v1/layouts", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /layouts status = %d, want %d", rec.Code, http.StatusOK)
	}
	var infos []store.Info
	if err := json.Unmarshal(rec.Body.Bytes(), &infos); err != nil {
		t.Fatalf("decode listing: %v", err)
	}
	if len(infos) != 1 || infos[0].ID != id {
		t.Errorf("listing = %+v, want single entry with id %s", infos, id)
	}

	// Delete removes it.
	rec = doRequest(t, s, http.MethodDelete, "/api/v1/layouts/"+id, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("DELETE layout status = %d, want %d", rec.Code, http.StatusNoContent)
	}

	rec = doRequest(t, s, http.MethodGet, "/api/v1/layouts/"+id, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("GET deleted layout status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if code := errorCode(t, rec); code != "LAYOUT_NOT_FOUND" {
		t.Errorf("error code = %q, want LAYOUT_NOT_FOUND", code)
	}
}

func TestPutLayoutReplaces(t *testing.T) {
	s := testServer(t)
	id := createLayout(t, s)

	l := layout.New("Renamed Office", 900, 600)
	data, err := layout.Marshal(l)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	rec := doRequest(t, s, http.MethodPut, "/api/v1/layouts/"+id, data)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT layout status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body)
	}

	rec = doRequest(t, s, http.MethodGet, "/api/v1/layouts/"+id, nil)
	got, err := layout.Unmarshal(rec.Body.Bytes())
	if err != nil {
		t.Fatalf("returned document does not parse: %v", err)
	}
	if got.Name != "Renamed Office" {
		t.Errorf("layout name = %q, want %q", got.Name, "Renamed Office")
	}
}

func TestCreateLayoutRejectsBadJSON(t *testing.T) {
	s := testServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/v1/layouts", []byte("{not json"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("POST bad JSON status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if code := errorCode(t, rec); code != "INVALID_FORMAT" {
		t.Errorf("error code = %q, want INVALID_FORMAT", code)
	}
}

func TestCreateLayoutRejectsSchemaViolation(t *testing.T) {
	s := testServer(t)

	// Well-formed JSON, but duplicate object ids violate the schema.
	doc := `{
		"version": 1,
		"layout_name": "Broken",
		"canvas_size": {"width": 900, "height": 600},
		"objects": [
			{"id": "desk_1", "type": "Desk", "x": 0, "y": 0, "width": 10, "height": 10},
			{"id": "desk_1", "type": "Desk", "x": 50, "y": 50, "width": 10, "height": 10}
		]
	}`
	rec := doRequest(t, s, http.MethodPost, "/api/v1/layouts", []byte(doc))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("POST duplicate ids status = %d, want %d: %s", rec.Code, http.StatusUnprocessableEntity, rec.Body)
	}
	if code := errorCode(t, rec); code != "INVALID_LAYOUT" {
		t.Errorf("error code = %q, want INVALID_LAYOUT", code)
	}
}

func TestValidateDocument(t *testing.T) {
	s := testServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/v1/validate", sampleDocument(t))
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /validate status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body)
	}

	var report struct {
		Issues []json.RawMessage `json:"issues"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
}

func TestValidateStoredLayout(t *testing.T) {
	s := testServer(t)
	id := createLayout(t, s)

	rec := doRequest(t, s, http.MethodPost, "/api/v1/layouts/"+id+"/validate", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST validate status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body)
	}
}

func TestRouteEndpoint(t *testing.T) {
	s := testServer(t)
	id := createLayout(t, s)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/layouts/"+id+"/route?from=chair_1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET route status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body)
	}

	var p struct {
		Points []struct{ X, Y float64 } `json:"points"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode path: %v", err)
	}
	if len(p.Points) < 2 {
		t.Errorf("path has %d points, want at least 2", len(p.Points))
	}
}

func TestRouteEndpointRequiresFrom(t *testing.T) {
	s := testServer(t)
	id := createLayout(t, s)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/layouts/"+id+"/route", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("GET route without from status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if code := errorCode(t, rec); code != "INVALID_INPUT" {
		t.Errorf("error code = %q, want INVALID_INPUT", code)
	}
}

func TestRouteEndpointUnknownObject(t *testing.T) {
	s := testServer(t)
	id := createLayout(t, s)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/layouts/"+id+"/route?from=ghost", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("GET route for ghost status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if code := errorCode(t, rec); code != "OBJECT_NOT_FOUND" {
		t.Errorf("error code = %q, want OBJECT_NOT_FOUND", code)
	}
}

func TestRenderEndpoint(t *testing.T) {
	s := testServer(t)
	id := createLayout(t, s)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/layouts/"+id+"/render?format=svg", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET render status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body)
	}
	if got := rec.Header().Get("Content-Type"); got != "image/svg+xml" {
		t.Errorf("Content-Type = %q, want image/svg+xml", got)
	}
	if !strings.HasPrefix(rec.Body.String(), "<svg") {
		t.Errorf("render body does not start with <svg: %.60s", rec.Body)
	}
}

func TestRenderEndpointRejectsBadFormat(t *testing.T) {
	s := testServer(t)
	id := createLayout(t, s)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/layouts/"+id+"/render?format=bmp", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("GET render bmp status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestRenderEndpointRejectsBadStyle(t *testing.T) {
	s := testServer(t)
	id := createLayout(t, s)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/layouts/"+id+"/render?format=svg&style=vapor", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("GET render bad style status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if code := errorCode(t, rec); code != "INVALID_STYLE" {
		t.Errorf("error code = %q, want INVALID_STYLE", code)
	}
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{"INVALID_LAYOUT", http.StatusUnprocessableEntity},
		{"INVALID_FORMAT", http.StatusBadRequest},
		{"INVALID_INPUT", http.StatusBadRequest},
		{"LAYOUT_NOT_FOUND", http.StatusNotFound},
		{"OBJECT_NOT_FOUND", http.StatusNotFound},
		{"NO_PATH", http.StatusConflict},
		{"STORAGE_ERROR", http.StatusInternalServerError},
		{"", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(errors.Code(tt.code)); got != tt.want {
			t.Errorf("statusFor(%q) = %d, want %d", tt.code, got, tt.want)
		}
	}
}
