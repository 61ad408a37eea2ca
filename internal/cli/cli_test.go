package cli

import (
	"testing"

	"github.com/planstack/floorplan/pkg/errors"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", []string{"svg"}},
		{"png", []string{"png"}},
		{"svg,pdf,dot", []string{"svg", "pdf", "dot"}},
	}
	for _, tt := range tests {
		got := parseFormats(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("parseFormats(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
			}
		}
	}
}

func TestParsePoint(t *testing.T) {
	p, err := parsePoint("120.5, 80")
	if err != nil {
		t.Fatalf("parsePoint() error = %v", err)
	}
	if p.X != 120.5 || p.Y != 80 {
		t.Errorf("parsePoint() = (%g, %g), want (120.5, 80)", p.X, p.Y)
	}
}

func TestParsePointInvalid(t *testing.T) {
	for _, input := range []string{"", "120", "120,80,30", "a,b"} {
		_, err := parsePoint(input)
		if !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("parsePoint(%q) error = %v, want INVALID_INPUT", input, err)
		}
	}
}

func TestParseSize(t *testing.T) {
	w, h, err := parseSize("140x70")
	if err != nil {
		t.Fatalf("parseSize() error = %v", err)
	}
	if w != 140 || h != 70 {
		t.Errorf("parseSize() = %gx%g, want 140x70", w, h)
	}

	// Uppercase separator is accepted.
	if _, _, err := parseSize("140X70"); err != nil {
		t.Errorf("parseSize(140X70) error = %v", err)
	}
}

func TestParseSizeInvalid(t *testing.T) {
	for _, input := range []string{"", "140", "140x70x30", "wxh"} {
		_, _, err := parseSize(input)
		if !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("parseSize(%q) error = %v, want INVALID_INPUT", input, err)
		}
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output string
		input  string
		want   string
	}{
		{"", "office.json", "office"},
		{"", "plans/office.json", "plans/office"},
		{"out.svg", "office.json", "out"},
		{"out.pdf", "office.json", "out"},
		{"out", "office.json", "out"},
		{"out.backup", "office.json", "out.backup"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}
