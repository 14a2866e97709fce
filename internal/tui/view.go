package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorCyan = lipgloss.Color("36")
	colorGray = lipgloss.Color("245")
	colorDim  = lipgloss.Color("240")
	colorRed  = lipgloss.Color("167")

	mapStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	statusStyle = lipgloss.NewStyle().Foreground(colorGray)
	titleStyle  = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(colorDim)
	errorStyle  = lipgloss.NewStyle().Foreground(colorRed)
)

const helpText = "+/- zoom  ←↓↑→/hjkl pan  0 reset  t labels  q quit"

func (m Model) View() string {
	if m.width == 0 {
		return "loading..."
	}
	var b strings.Builder
	if m.err != nil {
		b.WriteString(errorStyle.Render("nothing to draw: " + m.err.Error()))
		b.WriteString(strings.Repeat("\n", max(m.height-chrome, 1)))
	} else {
		b.WriteString(mapStyle.Render(strings.Join(m.draw(), "\n")))
		b.WriteString("\n")
	}
	b.WriteString(m.status())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(helpText))
	return b.String()
}

// draw rasterizes the scene into map rows.
func (m Model) draw() []string {
	w, h := m.mapSize()
	c := newCanvas(w, h)
	s := m.scene

	for _, e := range s.Edges {
		x0, y0 := m.project(e.From.X, e.From.Y)
		x1, y1 := m.project(e.To.X, e.To.Y)
		c.line(x0, y0, x1, y1)
	}
	r := int(s.Config.PointRadius)
	for _, p := range s.Points {
		mx, my := m.project(p.X, p.Y)
		c.disc(mx, my, r)
	}
	if m.labels {
		for _, p := range s.Points {
			mx, my := m.project(p.X, p.Y)
			lx := mx + int(s.Config.LabelOffsetX)
			for i, line := range p.Label {
				base := float64(my) + s.Config.Baseline(i)
				c.write(floorDiv(lx, 2), int(math.Floor((base-1)/4)), line)
			}
		}
	}
	return c.lines()
}

func (m Model) status() string {
	name := m.opts.Source
	if name == "" {
		name = "stdin"
	}
	parts := []string{titleStyle.Render(name)}
	if m.scene != nil {
		parts = append(parts,
			fmt.Sprintf("%d points", len(m.scene.Points)),
			fmt.Sprintf("%d hidden", m.scene.Hidden),
			fmt.Sprintf("%d edges", len(m.scene.Edges)),
		)
	}
	parts = append(parts, m.opts.Policy.String(), fmt.Sprintf("zoom %.2fx", m.zoom))
	return statusStyle.Render(strings.Join(parts, "  "))
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
