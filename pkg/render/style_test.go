package render

import (
	"image/color"
	"testing"

	"github.com/matzehuels/pcoview/pkg/errors"
)

func TestStyleByName(t *testing.T) {
	for _, name := range append(StyleNames(), "") {
		s, err := StyleByName(name)
		if err != nil {
			t.Fatalf("StyleByName(%q): %v", name, err)
		}
		if err := s.Validate(); err != nil {
			t.Errorf("preset %q invalid: %v", name, err)
		}
	}

	if _, err := StyleByName("neon"); !errors.Is(err, errors.ErrCodeInvalidStyle) {
		t.Errorf("unknown style err = %v", err)
	}
	if s, _ := StyleByName("PRINT"); s.Background != "#ffffff" {
		t.Errorf("lookup should ignore case, got %+v", s)
	}
}

func TestStyleMerge(t *testing.T) {
	s := DefaultStyle().Merge(Style{Line: "#00ff00", HideLabels: true})
	if s.Line != "#00ff00" || !s.HideLabels {
		t.Errorf("override not applied: %+v", s)
	}
	if s.Point != DefaultStyle().Point || s.StrokeWidth != DefaultStyle().StrokeWidth {
		t.Errorf("zero fields should keep defaults: %+v", s)
	}
}

func TestStyleValidate(t *testing.T) {
	bad := DefaultStyle()
	bad.Text = "grey"
	if bad.Validate() == nil {
		t.Error("named color accepted")
	}
	bad = DefaultStyle()
	bad.StrokeWidth = 0
	if bad.Validate() == nil {
		t.Error("zero stroke accepted")
	}
}

func TestRGBA(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
	}{
		{"#ff0000", color.RGBA{R: 255, A: 255}},
		{"#0f0", color.RGBA{G: 255, A: 255}},
		{"#E6E6E6", color.RGBA{R: 0xe6, G: 0xe6, B: 0xe6, A: 255}},
		{"bogus", color.RGBA{A: 255}},
	}
	for _, tt := range tests {
		if got := RGBA(tt.in); got != tt.want {
			t.Errorf("RGBA(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPageByName(t *testing.T) {
	tests := []struct {
		in      string
		w, h    float64
		wantErr bool
	}{
		{"", 595, 842, false},
		{"A4", 595, 842, false},
		{"a4-landscape", 842, 595, false},
		{"letter", 612, 792, false},
		{"a3", 842, 1191, false},
		{"tabloid", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			p, err := PageByName(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("PageByName(%q) error = %v", tt.in, err)
			}
			if p.Width != tt.w || p.Height != tt.h {
				t.Errorf("PageByName(%q) = %+v", tt.in, p)
			}
		})
	}
}
