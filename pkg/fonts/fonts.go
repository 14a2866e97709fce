// Package fonts provides the label font and text measurement.
//
// Labels are set in Go Regular, which ships with golang.org/x/image. The
// same face measures label extents for layout, draws PNG output, and is
// embedded into SVG output, so measured and rendered text agree without
// depending on fonts installed on the host.
package fonts

import (
	"encoding/base64"
	"fmt"
	"sync"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/matzehuels/pcoview/pkg/layout"
)

// FontFamily is the CSS font-family name of the embedded face.
const FontFamily = "Go Regular"

// FallbackFontFamily lists fallbacks for viewers that ignore @font-face.
const FallbackFontFamily = `'Go Regular', 'DejaVu Sans', Arial, sans-serif`

// TTF returns the embedded TrueType data.
func TTF() []byte {
	return goregular.TTF
}

var (
	ttfBase64     string
	ttfBase64Once sync.Once

	parsed     *opentype.Font
	parsedErr  error
	parsedOnce sync.Once
)

// TTFBase64 returns the TrueType data as a base64 string.
// The result is cached after first computation.
func TTFBase64() string {
	ttfBase64Once.Do(func() {
		ttfBase64 = base64.StdEncoding.EncodeToString(goregular.TTF)
	})
	return ttfBase64
}

func regular() (*opentype.Font, error) {
	parsedOnce.Do(func() {
		parsed, parsedErr = opentype.Parse(goregular.TTF)
	})
	return parsed, parsedErr
}

// NewFace returns a Go Regular face at size pixels (72 DPI).
func NewFace(size float64) (font.Face, error) {
	f, err := regular()
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("create face: %w", err)
	}
	return face, nil
}

// =============================================================================
// Measurement
// =============================================================================

// Measurer measures label lines in Go Regular at a fixed size. It is safe
// for concurrent use.
type Measurer struct {
	mu     sync.Mutex
	face   font.Face
	size   float64
	ascent float64
	desc   float64
}

// NewMeasurer returns a measurer for text of the given pixel size.
func NewMeasurer(size float64) (*Measurer, error) {
	face, err := NewFace(size)
	if err != nil {
		return nil, err
	}
	m := face.Metrics()
	return &Measurer{
		face:   face,
		size:   size,
		ascent: fixedToFloat(m.Ascent),
		desc:   fixedToFloat(m.Descent),
	}, nil
}

// Size returns the text size the measurer was built for.
func (m *Measurer) Size() float64 { return m.size }

// Measure returns the extent of every line.
func (m *Measurer) Measure(lines []string) []layout.LineExtent {
	if len(lines) == 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]layout.LineExtent, len(lines))
	for i, s := range lines {
		out[i] = layout.LineExtent{
			Width:   fixedToFloat(font.MeasureString(m.face, s)),
			Ascent:  m.ascent,
			Descent: m.desc,
		}
	}
	return out
}

// Monospace measures text on a fixed character grid, as in a terminal.
type Monospace struct {
	Advance float64 // width of one character
	Ascent  float64
	Descent float64
}

// Measure returns the extent of every line.
func (m Monospace) Measure(lines []string) []layout.LineExtent {
	if len(lines) == 0 {
		return nil
	}
	out := make([]layout.LineExtent, len(lines))
	for i, s := range lines {
		out[i] = layout.LineExtent{
			Width:   float64(utf8.RuneCountInString(s)) * m.Advance,
			Ascent:  m.Ascent,
			Descent: m.Descent,
		}
	}
	return out
}

func fixedToFloat[T ~int32](v T) float64 {
	return float64(v) / 64
}
