package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "svg", []string{"svg"}},
		{"multiple formats", "svg,pdf,png", []string{"svg", "pdf", "png"}},
		{"dot only", "dot", []string{"dot"}},
		{"spaces trimmed", " svg , png ", []string{"svg", "png"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if len(got) != len(tt.want) {
				t.Errorf("parseFormats(%q) length = %d, want %d", tt.input, len(got), len(tt.want))
				return
			}
			for i, v := range got {
				if v != tt.want[i] {
					t.Errorf("parseFormats(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
				}
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		want   string
	}{
		{"no output uses input stem", "", "data/Abilene.gml", "Abilene"},
		{"output with format extension stripped", "out/dia.svg", "x.json", "out/dia"},
		{"output with unknown extension kept", "out/dia.result", "x.json", "out/dia.result"},
		{"plain output kept", "figure", "x.json", "figure"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := basePath(tt.output, tt.input); got != tt.want {
				t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
			}
		})
	}
}

func TestBuildDOTGraphJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "triangle.json")
	doc := `{"name":"triangle","nodes":["1","2","3"],"edges":[{"a":"1","b":"2"},{"a":"2","b":"3"},{"a":"1","b":"3"}]}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	dot, name, err := buildDOT(path, nil)
	if err != nil {
		t.Fatalf("buildDOT() error: %v", err)
	}
	if name != "triangle" {
		t.Errorf("name = %q, want %q", name, "triangle")
	}
	if !strings.Contains(dot, "graph") || strings.Contains(dot, "->") {
		t.Error("graph DOT should be undirected")
	}
	if !strings.Contains(dot, `"1" -- "2"`) {
		t.Errorf("DOT missing edge, got:\n%s", dot)
	}
}

func TestBuildDOTDecompositionJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "td.json")
	doc := `{"name":"triangle-td","bags":[{"id":"bag_1","nodes":["1","2","3"]}],"edges":[]}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	dot, name, err := buildDOT(path, nil)
	if err != nil {
		t.Fatalf("buildDOT() error: %v", err)
	}
	if name != "triangle-td" {
		t.Errorf("name = %q, want %q", name, "triangle-td")
	}
	if !strings.Contains(dot, "bag_1") {
		t.Errorf("decomposition DOT should label bags, got:\n%s", dot)
	}
}

func TestBuildDOTGML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Tiny.gml")
	doc := `graph [
  node [ id 1 ]
  node [ id 2 ]
  edge [ source 1 target 2 ]
]`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	dot, name, err := buildDOT(path, nil)
	if err != nil {
		t.Fatalf("buildDOT() error: %v", err)
	}
	if name != "Tiny" {
		t.Errorf("name = %q, want %q", name, "Tiny")
	}
	if !strings.Contains(dot, `"1" -- "2"`) {
		t.Errorf("DOT missing edge, got:\n%s", dot)
	}
}
