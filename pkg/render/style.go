package render

import (
	"image/color"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/pcoview/pkg/errors"
)

// Style preset names.
const (
	StyleScheme = "scheme"
	StylePrint  = "print"
	StyleMono   = "mono"
)

// Style holds the paint settings of a drawing. Colors are "#rgb" or
// "#rrggbb" hex strings.
type Style struct {
	Background  string  `toml:"background" json:"background"`
	Point       string  `toml:"point" json:"point"`
	Line        string  `toml:"line" json:"line"`
	Text        string  `toml:"text" json:"text"`
	StrokeWidth float64 `toml:"stroke_width" json:"stroke_width"`
	HideLabels  bool    `toml:"hide_labels" json:"hide_labels,omitempty"`
}

var presets = map[string]Style{
	StyleScheme: {Background: "#e6e6e6", Point: "#ff0000", Line: "#0000ff", Text: "#444444", StrokeWidth: 2},
	StylePrint:  {Background: "#ffffff", Point: "#d62728", Line: "#1f4e9e", Text: "#222222", StrokeWidth: 1.5},
	StyleMono:   {Background: "#ffffff", Point: "#000000", Line: "#000000", Text: "#000000", StrokeWidth: 1},
}

// DefaultStyle returns the scheme preset.
func DefaultStyle() Style { return presets[StyleScheme] }

// StyleNames returns the preset names in sorted order.
func StyleNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// StyleByName returns a preset. The empty name selects the scheme preset.
func StyleByName(name string) (Style, error) {
	if name == "" {
		return DefaultStyle(), nil
	}
	s, ok := presets[strings.ToLower(name)]
	if !ok {
		return Style{}, errors.New(errors.ErrCodeInvalidStyle, "unknown style %q (want one of %s)", name, strings.Join(StyleNames(), ", "))
	}
	return s, nil
}

// Merge returns s with every non-zero field of o applied on top.
func (s Style) Merge(o Style) Style {
	if o.Background != "" {
		s.Background = o.Background
	}
	if o.Point != "" {
		s.Point = o.Point
	}
	if o.Line != "" {
		s.Line = o.Line
	}
	if o.Text != "" {
		s.Text = o.Text
	}
	if o.StrokeWidth > 0 {
		s.StrokeWidth = o.StrokeWidth
	}
	if o.HideLabels {
		s.HideLabels = true
	}
	return s
}

// Validate checks every color and the stroke width.
func (s Style) Validate() error {
	for _, c := range []string{s.Background, s.Point, s.Line, s.Text} {
		if err := errors.ValidateColor(c); err != nil {
			return err
		}
	}
	if !(s.StrokeWidth > 0) {
		return errors.New(errors.ErrCodeInvalidStyle, "stroke width must be positive")
	}
	return nil
}

// RGBA parses a validated hex color. Invalid input yields opaque black.
func RGBA(hex string) color.RGBA {
	h := strings.TrimPrefix(hex, "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil || len(h) != 6 {
		return color.RGBA{A: 0xff}
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}

// Page is a fixed document size in points.
type Page struct {
	Name   string  `json:"name"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Standard page sizes, portrait.
var (
	PageA4     = Page{Name: "a4", Width: 595, Height: 842}
	PageA3     = Page{Name: "a3", Width: 842, Height: 1191}
	PageLetter = Page{Name: "letter", Width: 612, Height: 792}
)

// PageByName returns a standard page. The empty name selects A4. A
// "-landscape" suffix swaps width and height.
func PageByName(name string) (Page, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	base, landscape := strings.CutSuffix(n, "-landscape")
	var p Page
	switch base {
	case "", PageA4.Name:
		p = PageA4
	case PageA3.Name:
		p = PageA3
	case PageLetter.Name:
		p = PageLetter
	default:
		return Page{}, errors.New(errors.ErrCodeInvalidFormat, "unknown page size %q (want a4, a3 or letter)", name)
	}
	if landscape {
		p.Name += "-landscape"
		p.Width, p.Height = p.Height, p.Width
	}
	return p, nil
}
