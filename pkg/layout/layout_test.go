package layout

import (
	"errors"
	"math"
	"testing"

	"github.com/matzehuels/pcoview/pkg/pco"
)

const tol = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) <= 1e-4 }

// fixedExtents gives every point two label lines of the given width.
func fixedExtents(width float64) ExtentsFunc {
	return func(pco.Point) []LineExtent {
		return []LineExtent{
			{Width: width, Ascent: 14, Descent: 4},
			{Width: width / 2, Ascent: 14, Descent: 4},
		}
	}
}

func TestFitNoLayout(t *testing.T) {
	points := []pco.Point{{Number: 1, X: 0, Y: 0}, {Number: 2, X: 10, Y: 10}}

	tests := []struct {
		name   string
		points []pco.Point
		w, h   float64
		want   error
	}{
		{"zero width", points, 0, 100, ErrEmptyViewport},
		{"negative height", points, 100, -5, ErrEmptyViewport},
		{"nan width", points, math.NaN(), 100, ErrEmptyViewport},
		{"no points", nil, 100, 100, ErrNoVisiblePoints},
		{"padding eats viewport", points, 40, 40, ErrNoUsableArea},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Fit(tt.points, tt.w, tt.h, nil, DefaultConfig())
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			if !errors.Is(err, ErrNoLayout) {
				t.Errorf("err = %v should satisfy ErrNoLayout", err)
			}
		})
	}
}

func TestFitRotationAndCentering(t *testing.T) {
	points := []pco.Point{{Number: 1, X: 0, Y: 0}, {Number: 2, X: 0, Y: 100}}
	res, err := Fit(points, 240, 200, nil, DefaultConfig())
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}

	// Radius 4 plus margin 16 on every side leaves 200 × 160.
	if p := res.Padding; p.Left != 20 || p.Right != 20 || p.Top != 20 || p.Bottom != 20 {
		t.Errorf("Padding = %+v, want 20 on every side", p)
	}
	if !near(res.Scale, 2) {
		t.Errorf("Scale = %v, want 2", res.Scale)
	}

	p1, p2 := res.Positions[1], res.Positions[2]
	if !near(p1.X, 20) || !near(p2.X, 220) {
		t.Errorf("source Y should map to plotted X: got %v and %v", p1, p2)
	}
	if !near(p1.Y, 100) || !near(p2.Y, 100) {
		t.Errorf("content should be centered vertically: got %v and %v", p1, p2)
	}
}

func TestFitSourceXIsPlottedY(t *testing.T) {
	points := []pco.Point{{Number: 1, X: 0, Y: 5}, {Number: 2, X: 50, Y: 5}}
	res, err := Fit(points, 300, 300, nil, DefaultConfig())
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	p1, p2 := res.Positions[1], res.Positions[2]
	if !near(p1.X, p2.X) {
		t.Errorf("equal source Y should share plotted X: %v vs %v", p1, p2)
	}
	if !(p2.Y > p1.Y) {
		t.Errorf("larger source X should be lower on screen: %v vs %v", p1, p2)
	}
}

func TestFitSinglePoint(t *testing.T) {
	res, err := Fit([]pco.Point{{Number: 7, X: 3, Y: 4}}, 100, 80, nil, DefaultConfig())
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if math.IsInf(res.Scale, 0) || math.IsNaN(res.Scale) || res.Scale <= 0 {
		t.Fatalf("Scale = %v, want finite and positive", res.Scale)
	}
	p := res.Positions[7]
	pad := res.Padding
	if p.X < pad.Left-1e-6 || p.X > 100-pad.Right+1e-6 || p.Y < pad.Top-1e-6 || p.Y > 80-pad.Bottom+1e-6 {
		t.Errorf("single point %v outside usable area %+v", p, pad)
	}
}

func TestFitUniformScale(t *testing.T) {
	points := []pco.Point{
		{Number: 1, X: 1000.5, Y: 2000.25},
		{Number: 2, X: 1010, Y: 2003},
		{Number: 3, X: 1004, Y: 2040},
		{Number: 4, X: 990, Y: 2001},
		{Number: 5, X: 1002, Y: 1995.75},
	}
	res, err := Fit(points, 800, 500, fixedExtents(40), DefaultConfig())
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}

	var ratio float64
	for i := range points {
		for j := i + 1; j < len(points); j++ {
			a, b := points[i], points[j]
			src := math.Hypot(a.X-b.X, a.Y-b.Y)
			pa, pb := res.Positions[a.Number], res.Positions[b.Number]
			dst := math.Hypot(pa.X-pb.X, pa.Y-pb.Y)
			r := dst / src
			if ratio == 0 {
				ratio = r
				continue
			}
			if math.Abs(r-ratio) > 1e-9*ratio {
				t.Errorf("pair (%d,%d) ratio %v differs from %v", a.Number, b.Number, r, ratio)
			}
		}
	}
	if !near(ratio, res.Scale) {
		t.Errorf("distance ratio %v, want scale %v", ratio, res.Scale)
	}
}

func TestFitKeepsLabelsInside(t *testing.T) {
	cfg := DefaultConfig()
	points := []pco.Point{
		{Number: 1, X: 0, Y: 0},
		{Number: 2, X: 100, Y: 0},
		{Number: 3, X: 0, Y: 300},
		{Number: 4, X: 100, Y: 300},
		{Number: 5, X: 50, Y: 150},
	}
	extents := fixedExtents(120)

	for _, size := range [][2]float64{{400, 300}, {1000, 200}, {250, 900}} {
		w, h := size[0], size[1]
		res, err := Fit(points, w, h, extents, cfg)
		if err != nil {
			t.Fatalf("Fit(%vx%v): %v", w, h, err)
		}
		for _, p := range points {
			pos := res.Positions[p.Number]
			if pos.X-cfg.PointRadius < -tol || pos.X+cfg.PointRadius > w+tol ||
				pos.Y-cfg.PointRadius < -tol || pos.Y+cfg.PointRadius > h+tol {
				t.Errorf("%vx%v: disc of point %d outside viewport at %v", w, h, p.Number, pos)
			}
			for i, l := range extents(p) {
				left := pos.X + cfg.LabelOffsetX
				right := left + l.Width
				top := pos.Y + cfg.Baseline(i) - l.Ascent
				bottom := pos.Y + cfg.Baseline(i) + l.Descent
				if left < -tol || right > w+tol || top < -tol || bottom > h+tol {
					t.Errorf("%vx%v: label line %d of point %d clipped: [%v,%v]x[%v,%v]",
						w, h, i, p.Number, left, right, top, bottom)
				}
			}
		}
	}
}

func TestLabelPadding(t *testing.T) {
	cfg := DefaultConfig()
	points := []pco.Point{{Number: 1}}
	pad := labelPadding(points, fixedExtents(50), cfg)

	// Line 0 baseline -6, top -20; line 1 baseline 14, bottom 18.
	want := Padding{Left: 20, Top: 36, Right: 72, Bottom: 34}
	if pad != want {
		t.Errorf("labelPadding = %+v, want %+v", pad, want)
	}

	if got := labelPadding(points, nil, cfg); got != (Padding{20, 20, 20, 20}) {
		t.Errorf("without labels = %+v", got)
	}
}

func TestFitDeterministic(t *testing.T) {
	points := []pco.Point{{Number: 1, X: 1, Y: 2}, {Number: 2, X: 3, Y: 7}, {Number: 3, X: -4, Y: 0.5}}
	a, errA := Fit(points, 640, 480, fixedExtents(30), DefaultConfig())
	b, errB := Fit(points, 640, 480, fixedExtents(30), DefaultConfig())
	if errA != nil || errB != nil {
		t.Fatalf("Fit: %v, %v", errA, errB)
	}
	for n, pa := range a.Positions {
		if pb := b.Positions[n]; pa != pb {
			t.Errorf("point %d: %v vs %v", n, pa, pb)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
	bad := DefaultConfig()
	bad.Margin = -1
	if bad.Validate() == nil {
		t.Error("negative margin accepted")
	}
	bad = DefaultConfig()
	bad.LabelOffsetX = math.Inf(1)
	if bad.Validate() == nil {
		t.Error("infinite offset accepted")
	}
}
