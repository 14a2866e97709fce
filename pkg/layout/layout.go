// Package layout fits survey points into a fixed-size viewport.
//
// Survey files store easting and northing in the X and Y fields with the
// axes swapped relative to the screen: the plotted horizontal axis is the
// source Y and the plotted vertical axis is the source X. [Fit] applies that
// rotation, scales uniformly so the aspect ratio is preserved, and reserves
// enough padding around the content that every point label stays inside
// the viewport.
//
// Label footprints come from an injected [ExtentsFunc], so the package does
// not depend on any font or rendering technology.
package layout

import (
	"errors"
	"fmt"
	"math"

	"github.com/matzehuels/pcoview/pkg/pco"
)

// minSpan replaces a zero bounding-box span so scaling never divides by zero.
const minSpan = 1e-6

// ErrNoLayout reports that there is nothing to draw for the request. It is
// an expected outcome, not a failure.
var ErrNoLayout = errors.New("no layout")

// Reasons for ErrNoLayout. Each one satisfies errors.Is(err, ErrNoLayout).
var (
	ErrEmptyViewport   = fmt.Errorf("%w: viewport has no area", ErrNoLayout)
	ErrNoVisiblePoints = fmt.Errorf("%w: no visible points", ErrNoLayout)
	ErrNoUsableArea    = fmt.Errorf("%w: labels leave no usable area", ErrNoLayout)
)

// Vec is a position in viewport coordinates, y growing downward.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LineExtent is the measured footprint of one label line relative to its
// baseline origin.
type LineExtent struct {
	Width   float64 `json:"width"`
	Ascent  float64 `json:"ascent"`
	Descent float64 `json:"descent"`
}

// ExtentsFunc returns the measured label lines of a point. Returning no
// lines means the point has no label.
type ExtentsFunc func(pco.Point) []LineExtent

// Config holds the drawing constants the fit must leave room for.
type Config struct {
	PointRadius  float64 `toml:"point_radius" json:"point_radius"`
	LabelOffsetX float64 `toml:"label_offset_x" json:"label_offset_x"`
	LabelOffsetY float64 `toml:"label_offset_y" json:"label_offset_y"`
	TextSize     float64 `toml:"text_size" json:"text_size"`
	LineSpacing  float64 `toml:"line_spacing" json:"line_spacing"`
	Margin       float64 `toml:"margin" json:"margin"`
}

// DefaultConfig returns the standard scheme constants.
func DefaultConfig() Config {
	return Config{
		PointRadius:  4,
		LabelOffsetX: 6,
		LabelOffsetY: 6,
		TextSize:     18,
		LineSpacing:  2,
		Margin:       16,
	}
}

// LineAdvance is the distance between consecutive label baselines.
func (c Config) LineAdvance() float64 { return c.TextSize + c.LineSpacing }

// Baseline returns the vertical offset of label line i from its point.
func (c Config) Baseline(i int) float64 {
	return -c.LabelOffsetY + float64(i)*c.LineAdvance()
}

// Validate rejects negative or non-finite constants.
func (c Config) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"point_radius", c.PointRadius},
		{"text_size", c.TextSize},
		{"line_spacing", c.LineSpacing},
		{"margin", c.Margin},
	} {
		if f.v < 0 || math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("layout %s must be a non-negative number, got %v", f.name, f.v)
		}
	}
	for _, v := range []float64{c.LabelOffsetX, c.LabelOffsetY} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("layout label offsets must be finite")
		}
	}
	return nil
}

// Padding is the space reserved on each side of the content.
type Padding struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// Horizontal returns Left + Right.
func (p Padding) Horizontal() float64 { return p.Left + p.Right }

// Vertical returns Top + Bottom.
func (p Padding) Vertical() float64 { return p.Top + p.Bottom }

// Bounds is the source bounding box of the fitted points, before rotation.
type Bounds struct {
	MinX float64 `json:"min_x"`
	MaxX float64 `json:"max_x"`
	MinY float64 `json:"min_y"`
	MaxY float64 `json:"max_y"`
}

// Result is a successful fit.
type Result struct {
	Positions map[int]Vec `json:"positions"`
	Scale     float64     `json:"scale"`
	Padding   Padding     `json:"padding"`
	Bounds    Bounds      `json:"bounds"`
	Width     float64     `json:"width"`
	Height    float64     `json:"height"`
}

// Project maps a source coordinate through the fitted transform.
func (r Result) Project(x, y float64, origin Vec) Vec {
	return Vec{
		X: origin.X + (y-r.Bounds.MinY)*r.Scale,
		Y: origin.Y + (x-r.Bounds.MinX)*r.Scale,
	}
}

// Fit positions points inside a width × height viewport.
//
// Every given point is treated as visible; callers filter hidden points
// first. A nil extents function means no point has a label. Fit returns an
// error wrapping ErrNoLayout when the viewport has no area, when points is
// empty, or when the label padding consumes the whole viewport.
func Fit(points []pco.Point, width, height float64, extents ExtentsFunc, cfg Config) (Result, error) {
	if !(width > 0) || !(height > 0) {
		return Result{}, ErrEmptyViewport
	}
	if len(points) == 0 {
		return Result{}, ErrNoVisiblePoints
	}

	pad := labelPadding(points, extents, cfg)
	usableW := width - pad.Horizontal()
	usableH := height - pad.Vertical()
	if !(usableW > 0) || !(usableH > 0) {
		return Result{}, ErrNoUsableArea
	}

	b := bounds(points)
	// Plotted X follows source Y and plotted Y follows source X.
	spanW := math.Max(b.MaxY-b.MinY, minSpan)
	spanH := math.Max(b.MaxX-b.MinX, minSpan)
	scale := math.Min(usableW/spanW, usableH/spanH)

	res := Result{
		Positions: make(map[int]Vec, len(points)),
		Scale:     scale,
		Padding:   pad,
		Bounds:    b,
		Width:     width,
		Height:    height,
	}
	origin := Vec{
		X: pad.Left + (usableW-spanW*scale)/2,
		Y: pad.Top + (usableH-spanH*scale)/2,
	}
	for _, p := range points {
		res.Positions[p.Number] = res.Project(p.X, p.Y, origin)
	}
	return res, nil
}

func bounds(points []pco.Point) Bounds {
	b := Bounds{MinX: points[0].X, MaxX: points[0].X, MinY: points[0].Y, MaxY: points[0].Y}
	for _, p := range points[1:] {
		b.MinX = math.Min(b.MinX, p.X)
		b.MaxX = math.Max(b.MaxX, p.X)
		b.MinY = math.Min(b.MinY, p.Y)
		b.MaxY = math.Max(b.MaxY, p.Y)
	}
	return b
}

// labelPadding returns the largest overshoot of the point disc and its label
// lines past the point position on each side, plus the outer margin.
func labelPadding(points []pco.Point, extents ExtentsFunc, cfg Config) Padding {
	r := cfg.PointRadius
	minX, maxX, minY, maxY := -r, r, -r, r

	if extents != nil {
		for _, p := range points {
			lines := extents(p)
			if len(lines) == 0 {
				continue
			}
			var widest float64
			for i, l := range lines {
				widest = math.Max(widest, l.Width)
				base := cfg.Baseline(i)
				minY = math.Min(minY, base-l.Ascent)
				maxY = math.Max(maxY, base+l.Descent)
			}
			startX := cfg.LabelOffsetX
			endX := cfg.LabelOffsetX + widest
			minX = math.Min(minX, math.Min(startX, endX))
			maxX = math.Max(maxX, math.Max(startX, endX))
		}
	}

	return Padding{
		Left:   cfg.Margin - minX,
		Top:    cfg.Margin - minY,
		Right:  cfg.Margin + maxX,
		Bottom: cfg.Margin + maxY,
	}
}
