package sink

import (
	"bytes"
	"fmt"
	"math"

	"github.com/fogleman/gg"

	"github.com/matzehuels/pcoview/pkg/fonts"
	"github.com/matzehuels/pcoview/pkg/render"
	"github.com/matzehuels/pcoview/pkg/scene"
)

// maxPixels bounds the raster size to keep a bad scale factor from
// exhausting memory.
const maxPixels = 100_000_000

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	style render.Style
	scale float64
}

// WithPNGStyle sets the paint settings (default render.DefaultStyle).
func WithPNGStyle(s render.Style) PNGOption { return func(r *pngRenderer) { r.style = s } }

// WithScale sets the PNG scale factor (default 1.0; 2.0 doubles resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// RenderPNG rasterizes the scene.
func RenderPNG(s *scene.Scene, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{style: render.DefaultStyle(), scale: 1}
	for _, opt := range opts {
		opt(&r)
	}
	if !(r.scale > 0) {
		return nil, fmt.Errorf("png scale must be positive, got %v", r.scale)
	}

	w := int(math.Ceil(s.Width * r.scale))
	h := int(math.Ceil(s.Height * r.scale))
	if w <= 0 || h <= 0 || w*h > maxPixels {
		return nil, fmt.Errorf("png size %dx%d out of range", w, h)
	}

	dc := gg.NewContext(w, h)
	dc.Scale(r.scale, r.scale)

	dc.SetColor(render.RGBA(r.style.Background))
	dc.Clear()

	dc.SetColor(render.RGBA(r.style.Line))
	dc.SetLineWidth(r.style.StrokeWidth)
	dc.SetLineCap(gg.LineCapRound)
	for _, e := range s.Edges {
		dc.DrawLine(e.From.X, e.From.Y, e.To.X, e.To.Y)
		dc.Stroke()
	}

	dc.SetColor(render.RGBA(r.style.Point))
	for _, p := range s.Points {
		dc.DrawCircle(p.X, p.Y, s.Config.PointRadius)
		dc.Fill()
	}

	if !r.style.HideLabels {
		face, err := fonts.NewFace(s.Config.TextSize)
		if err != nil {
			return nil, err
		}
		defer face.Close()
		dc.SetFontFace(face)
		dc.SetColor(render.RGBA(r.style.Text))
		for _, p := range s.Points {
			x := p.X + s.Config.LabelOffsetX
			for i, line := range p.Label {
				dc.DrawString(line, x, p.Y+s.Config.Baseline(i))
			}
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
