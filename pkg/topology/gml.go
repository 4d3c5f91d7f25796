package topology

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/topowidth/pkg/graph"
)

// ErrMalformedGML is returned when a file cannot be read as a GML topology:
// unbalanced blocks, node stanzas without an id, or edge stanzas missing an
// endpoint.
var ErrMalformedGML = errors.New("malformed gml")

// Read parses a GML topology into a graph keyed by the integer node id
// attribute. The parser covers the subset of GML the Topology Zoo dataset
// uses: a graph block with node stanzas carrying "id <int>" and edge
// stanzas carrying "source <int>" and "target <int>"; every other
// attribute, including nested blocks like graphics, is skipped. Directed
// and multigraph markers are accepted, but the result is always an
// undirected simple graph: repeated edges and self-loops are the dataset's
// known anomalies and are logged and dropped by the graph layer.
func Read(r io.Reader, name string, logger *log.Logger) (*graph.Graph[int], error) {
	g := graph.New[int](name, logger)
	p := parser{g: g}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if err := p.line(scanner.Text()); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if p.depth != 0 {
		return nil, fmt.Errorf("%w: %d unclosed blocks", ErrMalformedGML, p.depth)
	}
	return g, nil
}

// ReadFile parses one GML file. The graph is named after the file stem, so
// data/Abilene.gml becomes "Abilene".
func ReadFile(path string, logger *log.Logger) (*graph.Graph[int], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return Read(f, name, logger)
}

// ReadDir parses every *.gml file in dir, sorted by file name. Files that
// fail to parse are logged and skipped rather than failing the whole
// batch; the dataset is large and one bad file should not block the rest.
func ReadDir(dir string, logger *log.Logger) ([]*graph.Graph[int], error) {
	pattern := filepath.Join(dir, "*.gml")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	sort.Strings(files)

	graphs := make([]*graph.Graph[int], 0, len(files))
	for _, file := range files {
		g, err := ReadFile(file, logger)
		if err != nil {
			if logger != nil {
				logger.Warn("skipping topology", "file", file, "err", err)
			}
			continue
		}
		graphs = append(graphs, g)
	}
	return graphs, nil
}

// parser is a line-oriented state machine over GML blocks. It tracks
// bracket depth so that attributes inside nested blocks (graphics, label
// options) can never be mistaken for node ids or edge endpoints.
type parser struct {
	g     *graph.Graph[int]
	depth int

	section      string // "node", "edge" or ""
	sectionDepth int
	id           *int
	source       *int
	target       *int
}

func (p *parser) line(raw string) error {
	line := strings.TrimSpace(stripQuoted(raw))
	if line == "" {
		return nil
	}

	fields := strings.Fields(line)
	for i := 0; i < len(fields); i++ {
		tok := fields[i]

		switch tok {
		case "[":
			p.depth++
			continue
		case "]":
			p.depth--
			if p.depth < 0 {
				return fmt.Errorf("%w: unexpected ]", ErrMalformedGML)
			}
			if p.section != "" && p.depth < p.sectionDepth {
				if err := p.flush(); err != nil {
					return err
				}
			}
			continue
		}

		if p.section == "" && (tok == "node" || tok == "edge") && next(fields, i) == "[" {
			p.section = tok
			p.sectionDepth = p.depth + 1
			continue
		}

		// Attributes only count at the stanza's own level, never inside
		// nested blocks.
		if p.section == "" || p.depth != p.sectionDepth {
			continue
		}

		switch {
		case p.section == "node" && tok == "id":
			v, err := intValue(fields, i)
			if err != nil {
				return err
			}
			p.id = &v
			i++
		case p.section == "edge" && tok == "source":
			v, err := intValue(fields, i)
			if err != nil {
				return err
			}
			p.source = &v
			i++
		case p.section == "edge" && tok == "target":
			v, err := intValue(fields, i)
			if err != nil {
				return err
			}
			p.target = &v
			i++
		}
	}
	return nil
}

// flush closes the current node or edge stanza and applies it to the graph.
func (p *parser) flush() error {
	defer func() {
		p.section = ""
		p.id, p.source, p.target = nil, nil, nil
	}()

	switch p.section {
	case "node":
		if p.id == nil {
			return fmt.Errorf("%w: node without id", ErrMalformedGML)
		}
		if err := p.g.AddNode(*p.id); err != nil {
			return fmt.Errorf("node %d: %w", *p.id, err)
		}
	case "edge":
		if p.source == nil || p.target == nil {
			return fmt.Errorf("%w: edge without source and target", ErrMalformedGML)
		}
		if _, _, err := p.g.AddEdge(*p.source, *p.target); err != nil {
			return fmt.Errorf("edge %d-%d: %w", *p.source, *p.target, err)
		}
	}
	return nil
}

func next(fields []string, i int) string {
	if i+1 < len(fields) {
		return fields[i+1]
	}
	return ""
}

func intValue(fields []string, i int) (int, error) {
	if i+1 >= len(fields) {
		return 0, fmt.Errorf("%w: %s without value", ErrMalformedGML, fields[i])
	}
	v, err := strconv.Atoi(fields[i+1])
	if err != nil {
		return 0, fmt.Errorf("%w: %s value %q is not an integer", ErrMalformedGML, fields[i], fields[i+1])
	}
	return v, nil
}

// stripQuoted blanks out quoted string values so brackets inside labels
// ("Springfield [MO]") cannot unbalance the depth tracking.
func stripQuoted(line string) string {
	var b strings.Builder
	inQuote := false
	for _, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
		case inQuote:
			// dropped
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
