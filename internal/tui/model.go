// Package tui implements the interactive terminal viewer.
//
// The scene is assembled once per window size on a braille micro-pixel grid
// (2×4 dots per cell) with a monospace label metric, so the fit leaves room
// for labels the same way the file renderers do. Zoom and pan only move the
// view; they never re-run the layout.
package tui

import (
	"context"
	"fmt"
	"math"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/pcoview/pkg/code"
	"github.com/matzehuels/pcoview/pkg/fonts"
	"github.com/matzehuels/pcoview/pkg/graph"
	"github.com/matzehuels/pcoview/pkg/layout"
	"github.com/matzehuels/pcoview/pkg/pco"
	"github.com/matzehuels/pcoview/pkg/scene"
)

const (
	zoomStep = 1.25
	zoomMin  = 0.25
	zoomMax  = 64
	panStep  = 8 // micro-pixels
	chrome   = 2 // status and help rows
)

// cellLayout places points and labels on the micro-pixel grid: one text row
// is four dots high and one character two dots wide.
var cellLayout = layout.Config{
	PointRadius:  1,
	LabelOffsetX: 2,
	LabelOffsetY: 0,
	TextSize:     4,
	LineSpacing:  0,
	Margin:       2,
}

var cellMetrics = fonts.Monospace{Advance: 2, Ascent: 4}

// Options configures the viewer.
type Options struct {
	Source string
	Rules  *code.Rules
	Policy graph.Policy
}

// Model is the bubbletea model of the viewer.
type Model struct {
	points []pco.Point
	opts   Options

	width  int
	height int

	scene *scene.Scene
	err   error

	zoom   float64
	panX   int
	panY   int
	labels bool
}

// New creates a viewer for points. The scene is built on the first window
// size message.
func New(points []pco.Point, opts Options) Model {
	if opts.Rules == nil {
		opts.Rules = code.DefaultRules()
	}
	return Model{points: points, opts: opts, zoom: 1, labels: true}
}

// Run opens the viewer on the alternate screen and blocks until the user
// quits or ctx is cancelled.
func Run(ctx context.Context, points []pco.Point, opts Options) error {
	p := tea.NewProgram(New(points, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.assemble()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "+", "=":
			m.zoom = math.Min(m.zoom*zoomStep, zoomMax)
		case "-", "_":
			m.zoom = math.Max(m.zoom/zoomStep, zoomMin)
		case "left", "h":
			m.panX += panStep
		case "right", "l":
			m.panX -= panStep
		case "up", "k":
			m.panY += panStep
		case "down", "j":
			m.panY -= panStep
		case "0":
			m.zoom, m.panX, m.panY = 1, 0, 0
		case "t":
			m.labels = !m.labels
		}
	}
	return m, nil
}

// assemble rebuilds the scene for the current map area.
func (m *Model) assemble() {
	w, h := m.mapSize()
	if w <= 0 || h <= 0 {
		m.scene, m.err = nil, fmt.Errorf("terminal too small")
		return
	}
	m.scene, m.err = scene.Assemble(m.points, float64(w*2), float64(h*4), cellMetrics,
		scene.WithRules(m.opts.Rules),
		scene.WithPolicy(m.opts.Policy),
		scene.WithLayout(cellLayout),
	)
}

// mapSize returns the map area in cells.
func (m Model) mapSize() (int, int) {
	return m.width, m.height - chrome
}

// project maps a scene position to a micro-pixel under the current zoom and
// pan. Zoom is centred on the viewport.
func (m Model) project(x, y float64) (int, int) {
	cx, cy := m.scene.Width/2, m.scene.Height/2
	px := cx + (x-cx)*m.zoom + float64(m.panX)
	py := cy + (y-cy)*m.zoom + float64(m.panY)
	return int(math.Round(px)), int(math.Round(py))
}
