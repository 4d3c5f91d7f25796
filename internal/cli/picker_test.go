package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/topowidth/pkg/graph"
)

func pickerGraphs(t *testing.T, names ...string) []*graph.Graph[string] {
	t.Helper()
	graphs := make([]*graph.Graph[string], len(names))
	for i, name := range names {
		g := graph.New[string](name, nil)
		for _, id := range []string{"1", "2"} {
			if err := g.AddNode(id); err != nil {
				t.Fatal(err)
			}
		}
		if _, _, err := g.AddEdge("1", "2"); err != nil {
			t.Fatal(err)
		}
		graphs[i] = g
	}
	return graphs
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestPickerNavigation(t *testing.T) {
	m := newTopologyPicker(pickerGraphs(t, "Alpha", "Beta", "Gamma"))

	next, _ := m.Update(keyRune('j'))
	m = next.(topologyPicker)
	if m.cursor != 1 {
		t.Errorf("cursor after j = %d, want 1", m.cursor)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(topologyPicker)
	if m.cursor != 0 {
		t.Errorf("cursor after up = %d, want 0", m.cursor)
	}

	// Top of the list, cursor stays put.
	next, _ = m.Update(keyRune('k'))
	m = next.(topologyPicker)
	if m.cursor != 0 {
		t.Errorf("cursor after k at top = %d, want 0", m.cursor)
	}
}

func TestPickerSelect(t *testing.T) {
	m := newTopologyPicker(pickerGraphs(t, "Alpha", "Beta"))

	next, _ := m.Update(keyRune('j'))
	m = next.(topologyPicker)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(topologyPicker)

	if m.selected == nil || m.selected.Name() != "Beta" {
		t.Errorf("selected = %v, want Beta", m.selected)
	}
	if cmd == nil {
		t.Fatal("enter should quit the program")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("enter should produce a quit message")
	}
}

func TestPickerQuitWithoutSelection(t *testing.T) {
	m := newTopologyPicker(pickerGraphs(t, "Alpha"))

	next, cmd := m.Update(keyRune('q'))
	m = next.(topologyPicker)
	if m.selected != nil {
		t.Errorf("selected = %v, want nil", m.selected)
	}
	if cmd == nil {
		t.Fatal("q should quit the program")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should produce a quit message")
	}
}

func TestPickerScrolling(t *testing.T) {
	names := make([]string, 20)
	for i := range names {
		names[i] = "Net" + string(rune('A'+i))
	}
	m := newTopologyPicker(pickerGraphs(t, names...))

	for i := 0; i < 16; i++ {
		next, _ := m.Update(keyRune('j'))
		m = next.(topologyPicker)
	}
	if m.cursor != 16 {
		t.Errorf("cursor = %d, want 16", m.cursor)
	}
	if m.offset != 2 {
		t.Errorf("offset = %d, want 2", m.offset)
	}
}

func TestPickerWindowSize(t *testing.T) {
	m := newTopologyPicker(pickerGraphs(t, "Alpha"))

	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	m = next.(topologyPicker)
	if m.height != 24 {
		t.Errorf("height = %d, want 24", m.height)
	}

	next, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 8})
	m = next.(topologyPicker)
	if m.height != 5 {
		t.Errorf("height = %d, want minimum 5", m.height)
	}
}

func TestPickerView(t *testing.T) {
	m := newTopologyPicker(pickerGraphs(t, "Alpha", "Beta"))

	view := m.View()
	for _, want := range []string{"Select Topology", "Alpha", "Beta", "▸", "[1/2]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}
