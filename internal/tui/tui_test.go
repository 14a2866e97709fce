package tui

import (
	"strings"
	"testing"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/pcoview/pkg/graph"
	"github.com/matzehuels/pcoview/pkg/pco"
)

func fixture() []pco.Point {
	return []pco.Point{
		{Number: 1, Code: "10", X: 0, Y: 0},
		{Number: 2, Code: "10..", X: 10, Y: 10},
		{Number: 3, Code: "702", X: 50, Y: 50},
	}
}

func sized(t *testing.T, m Model, w, h int) Model {
	t.Helper()
	next, _ := m.Update(tea.WindowSizeMsg{Width: w, Height: h})
	return next.(Model)
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestCanvas(t *testing.T) {
	c := newCanvas(2, 1)
	c.set(0, 0)
	c.set(1, 3)
	c.set(-1, 0)
	c.set(4, 0)
	if got := c.dots[0][0]; got != 0x01|0x80 {
		t.Errorf("dots = %#x, want %#x", got, 0x81)
	}

	c.line(0, 0, 3, 0)
	rows := c.lines()
	if len(rows) != 1 || utf8.RuneCountInString(rows[0]) != 2 {
		t.Fatalf("rows = %q", rows)
	}
	for _, r := range rows[0] {
		if r < 0x2800 || r > 0x28ff {
			t.Errorf("non-braille rune %q", r)
		}
	}

	c.write(-1, 0, "ab")
	if got := c.lines()[0]; !strings.HasPrefix(got, "b") {
		t.Errorf("text should clip on the left, got %q", got)
	}
}

func TestFloorDiv(t *testing.T) {
	tests := []struct{ a, b, want int }{
		{5, 2, 2},
		{4, 2, 2},
		{-1, 2, -1},
		{-4, 2, -2},
		{-5, 4, -2},
	}
	for _, tt := range tests {
		if got := floorDiv(tt.a, tt.b); got != tt.want {
			t.Errorf("floorDiv(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestAssembleOnResize(t *testing.T) {
	m := New(fixture(), Options{Source: "site.pco"})
	if got := m.View(); got != "loading..." {
		t.Errorf("View before size = %q", got)
	}

	m = sized(t, m, 80, 24)
	if m.err != nil {
		t.Fatalf("assemble: %v", m.err)
	}
	if m.scene.Width != 160 || m.scene.Height != 88 {
		t.Errorf("scene = %vx%v, want 160x88", m.scene.Width, m.scene.Height)
	}
	if len(m.scene.Points) != 2 || m.scene.Hidden != 1 {
		t.Errorf("points = %d hidden = %d", len(m.scene.Points), m.scene.Hidden)
	}

	rows := m.draw()
	if len(rows) != 22 {
		t.Fatalf("rows = %d, want 22", len(rows))
	}
	for i, r := range rows {
		if n := utf8.RuneCountInString(r); n != 80 {
			t.Errorf("row %d width = %d", i, n)
		}
	}

	view := m.View()
	for _, want := range []string{"site.pco", "2 points", "1 hidden", "1 edges", "canonical", "zoom 1.00x"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestLabelsToggle(t *testing.T) {
	m := sized(t, New(fixture(), Options{}), 80, 24)
	hasDigit := func(rows []string) bool {
		return strings.ContainsAny(strings.Join(rows, ""), "0123456789")
	}
	if !hasDigit(m.draw()) {
		t.Error("labels should be drawn by default")
	}
	m = press(m, "t")
	if hasDigit(m.draw()) {
		t.Error("labels should be hidden after toggle")
	}
}

func TestZoomAndPan(t *testing.T) {
	m := sized(t, New(fixture(), Options{Policy: graph.Legacy()}), 80, 24)

	m = press(m, "+", "+")
	if m.zoom != zoomStep*zoomStep {
		t.Errorf("zoom = %v", m.zoom)
	}
	for i := 0; i < 40; i++ {
		m = press(m, "-")
	}
	if m.zoom != zoomMin {
		t.Errorf("zoom = %v, want clamp at %v", m.zoom, zoomMin)
	}

	m = press(m, "left", "up", "h")
	if m.panX != 2*panStep || m.panY != panStep {
		t.Errorf("pan = %d,%d", m.panX, m.panY)
	}

	before := m.scene
	m = press(m, "0")
	if m.zoom != 1 || m.panX != 0 || m.panY != 0 {
		t.Errorf("reset = %v %d %d", m.zoom, m.panX, m.panY)
	}
	if m.scene != before {
		t.Error("view keys must not re-assemble the scene")
	}
	if !strings.Contains(m.View(), "legacy") {
		t.Error("policy missing from status")
	}
}

func TestProjectCentredZoom(t *testing.T) {
	m := sized(t, New(fixture(), Options{}), 80, 24)
	cx, cy := m.scene.Width/2, m.scene.Height/2
	m.zoom = 4
	x, y := m.project(cx, cy)
	if x != 80 || y != 44 {
		t.Errorf("centre moved under zoom: %d,%d", x, y)
	}
	m.panX = 10
	if x, _ := m.project(cx, cy); x != 90 {
		t.Errorf("pan not applied: %d", x)
	}
}

func TestErrors(t *testing.T) {
	m := sized(t, New(fixture(), Options{}), 80, 2)
	if m.err == nil {
		t.Error("expected error for a terminal without map rows")
	}

	hidden := []pco.Point{{Number: 1, Code: "701", X: 0, Y: 0}}
	m = sized(t, New(hidden, Options{}), 80, 24)
	if m.err == nil {
		t.Fatal("expected no-layout error")
	}
	if !strings.Contains(m.View(), "nothing to draw") {
		t.Error("error not shown")
	}
}

func TestQuit(t *testing.T) {
	m := New(fixture(), Options{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should return tea.Quit")
	}
}
