package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/inkscene/inkscene/pkg/scenefile"
)

const tuiTestScene = `
[canvas]
width = 200
height = 200

[[surface]]
id = "panel"
x = 10
y = 10
width = 100
height = 100

[[shape]]
id = "box"
kind = "rect"
width = 20
height = 10
surface = "panel"
at = { frame = "panel", fx = 0.5, fy = 0.5 }

[[shape]]
id = "dot"
kind = "circle"
r = 4
at = { x = 150, y = 150 }
`

func tuiTestModel(t *testing.T) ShapeListModel {
	t.Helper()
	canvas, err := scenefile.Parse([]byte(tuiTestScene))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return NewShapeListModel(canvas)
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestShapeListModelRows(t *testing.T) {
	m := tuiTestModel(t)

	if len(m.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(m.Rows))
	}
	if m.Rows[0].id != "box" || m.Rows[1].id != "dot" {
		t.Errorf("row ids = %q, %q", m.Rows[0].id, m.Rows[1].id)
	}
	if m.Rows[0].binding != "relative" {
		t.Errorf("box binding = %q, want relative", m.Rows[0].binding)
	}
	if m.Rows[0].position != "(60.0, 60.0)" {
		t.Errorf("box position = %q, want (60.0, 60.0)", m.Rows[0].position)
	}
	if m.Rows[1].surface != "—" {
		t.Errorf("dot surface = %q, want —", m.Rows[1].surface)
	}
}

func TestShapeListModelNavigation(t *testing.T) {
	m := tuiTestModel(t)

	next, _ := m.Update(keyMsg("j"))
	m = next.(ShapeListModel)
	if m.Cursor != 1 {
		t.Errorf("cursor = %d after j, want 1", m.Cursor)
	}

	// Cursor stops at the last row
	next, _ = m.Update(keyMsg("j"))
	m = next.(ShapeListModel)
	if m.Cursor != 1 {
		t.Errorf("cursor = %d at bottom, want 1", m.Cursor)
	}

	next, _ = m.Update(keyMsg("k"))
	m = next.(ShapeListModel)
	if m.Cursor != 0 {
		t.Errorf("cursor = %d after k, want 0", m.Cursor)
	}
}

func TestShapeListModelSelection(t *testing.T) {
	m := tuiTestModel(t)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(ShapeListModel)
	if m.Selected == nil || m.Selected.ID != "box" {
		t.Errorf("selected = %v, want box", m.Selected)
	}
	if cmd == nil {
		t.Error("enter should quit")
	}
}

func TestShapeListModelView(t *testing.T) {
	m := tuiTestModel(t)

	view := m.View()
	for _, want := range []string{"Scene Shapes", "box", "dot", "circle", "[1/2]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestShapeListModelPlainTable(t *testing.T) {
	m := tuiTestModel(t)

	out := m.Table()
	if strings.Contains(out, "▸") {
		t.Error("plain table should not contain a cursor")
	}
	for _, want := range []string{"Shape", "box", "dot"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q", want)
		}
	}
}
