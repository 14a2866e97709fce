package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/pcoview/pkg/fonts"
	"github.com/matzehuels/pcoview/pkg/render"
	"github.com/matzehuels/pcoview/pkg/scene"
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style     render.Style
	embedFont bool
	title     string
}

// WithStyle sets the paint settings (default render.DefaultStyle).
func WithStyle(s render.Style) SVGOption { return func(r *svgRenderer) { r.style = s } }

// WithEmbeddedFont embeds the label font as a data URI so the document
// renders identically on hosts without it.
func WithEmbeddedFont() SVGOption { return func(r *svgRenderer) { r.embedFont = true } }

// WithTitle sets the document title.
func WithTitle(t string) SVGOption { return func(r *svgRenderer) { r.title = t } }

// RenderSVG renders the scene as a standalone SVG document.
func RenderSVG(s *scene.Scene, opts ...SVGOption) []byte {
	r := svgRenderer{style: render.DefaultStyle()}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		s.Width, s.Height, s.Width, s.Height)
	if r.title != "" {
		buf.WriteString("  <title>")
		xml.EscapeText(&buf, []byte(r.title))
		buf.WriteString("</title>\n")
	}
	if r.embedFont && !r.style.HideLabels {
		fmt.Fprintf(&buf, "  <defs><style>@font-face { font-family: '%s'; src: url(data:font/ttf;base64,%s) format('truetype'); }</style></defs>\n",
			fonts.FontFamily, fonts.TTFBase64())
	}
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", r.style.Background)

	renderEdges(&buf, s, r.style)
	renderPoints(&buf, s, r.style)
	if !r.style.HideLabels {
		renderLabels(&buf, s, r.style)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderEdges(buf *bytes.Buffer, s *scene.Scene, st render.Style) {
	if len(s.Edges) == 0 {
		return
	}
	fmt.Fprintf(buf, `  <g id="edges" stroke="%s" stroke-width="%.2f" stroke-linecap="round">`+"\n", st.Line, st.StrokeWidth)
	for _, e := range s.Edges {
		fmt.Fprintf(buf, `    <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" data-a="%d" data-b="%d"/>`+"\n",
			e.From.X, e.From.Y, e.To.X, e.To.Y, e.From.Number, e.To.Number)
	}
	buf.WriteString("  </g>\n")
}

func renderPoints(buf *bytes.Buffer, s *scene.Scene, st render.Style) {
	fmt.Fprintf(buf, `  <g id="points" fill="%s">`+"\n", st.Point)
	for _, p := range s.Points {
		fmt.Fprintf(buf, `    <circle id="pt-%d" cx="%.2f" cy="%.2f" r="%.2f"/>`+"\n", p.Number, p.X, p.Y, s.Config.PointRadius)
	}
	buf.WriteString("  </g>\n")
}

func renderLabels(buf *bytes.Buffer, s *scene.Scene, st render.Style) {
	fmt.Fprintf(buf, `  <g id="labels" fill="%s" font-family="%s" font-size="%.1f">`+"\n",
		st.Text, fonts.FallbackFontFamily, s.Config.TextSize)
	for _, p := range s.Points {
		x := p.X + s.Config.LabelOffsetX
		for i, line := range p.Label {
			fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f">`, x, p.Y+s.Config.Baseline(i))
			xml.EscapeText(buf, []byte(line))
			buf.WriteString("</text>\n")
		}
	}
	buf.WriteString("  </g>\n")
}
