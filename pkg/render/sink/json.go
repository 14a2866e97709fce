package sink

import (
	"encoding/json"

	"github.com/matzehuels/pcoview/pkg/scene"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	style  string
	policy string
	source string
}

// WithJSONStyle records the style name in the output.
func WithJSONStyle(s string) JSONOption { return func(r *jsonRenderer) { r.style = s } }

// WithJSONPolicy records the connection policy the scene was built with.
func WithJSONPolicy(p string) JSONOption { return func(r *jsonRenderer) { r.policy = p } }

// WithJSONSource records the input file name.
func WithJSONSource(name string) JSONOption { return func(r *jsonRenderer) { r.source = name } }

type jsonOutput struct {
	Source    string        `json:"source,omitempty"`
	Width     float64       `json:"width"`
	Height    float64       `json:"height"`
	Scale     float64       `json:"scale"`
	Style     string        `json:"style,omitempty"`
	Policy    string        `json:"policy,omitempty"`
	Hidden    int           `json:"hidden"`
	Points    []jsonPoint   `json:"points"`
	Edges     []jsonEdge    `json:"edges"`
	Adjacency map[int][]int `json:"adjacency"`
}

type jsonPoint struct {
	Number  int      `json:"number"`
	Code    string   `json:"code,omitempty"`
	Base    string   `json:"base,omitempty"`
	X       float64  `json:"x"`
	Y       float64  `json:"y"`
	SourceX float64  `json:"source_x"`
	SourceY float64  `json:"source_y"`
	SourceZ *float64 `json:"source_z,omitempty"`
	Label   []string `json:"label"`
}

type jsonEdge struct {
	A  int     `json:"a"`
	B  int     `json:"b"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// RenderJSON encodes the positioned scene.
func RenderJSON(s *scene.Scene, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Source:    r.source,
		Width:     s.Width,
		Height:    s.Height,
		Scale:     s.Layout.Scale,
		Style:     r.style,
		Policy:    r.policy,
		Hidden:    s.Hidden,
		Points:    make([]jsonPoint, len(s.Points)),
		Edges:     make([]jsonEdge, len(s.Edges)),
		Adjacency: s.Adjacency,
	}
	for i, p := range s.Points {
		out.Points[i] = jsonPoint{
			Number:  p.Number,
			Code:    p.Code,
			Base:    p.Info().Base,
			X:       p.X,
			Y:       p.Y,
			SourceX: p.Point.X,
			SourceY: p.Point.Y,
			SourceZ: p.Z,
			Label:   p.Label,
		}
	}
	for i, e := range s.Edges {
		k := e.Key()
		out.Edges[i] = jsonEdge{A: k.A, B: k.B, X1: e.From.X, Y1: e.From.Y, X2: e.To.X, Y2: e.To.Y}
	}
	return json.MarshalIndent(out, "", "  ")
}
