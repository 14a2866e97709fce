package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/pcoview/pkg/errors"
	"github.com/matzehuels/pcoview/pkg/fonts"
	"github.com/matzehuels/pcoview/pkg/pco"
	"github.com/matzehuels/pcoview/pkg/render/nodelink"
	"github.com/matzehuels/pcoview/pkg/render/sink"
	"github.com/matzehuels/pcoview/pkg/scene"
)

// Read parses the input file.
func Read(opts Options) ([]pco.Point, error) {
	points, err := pco.Parse(bytes.NewReader(opts.Input))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", sourceName(opts))
	}
	return points, nil
}

// Assemble lays out points in a width × height viewport. Labels are
// measured in the embedded font; with labels hidden no room is reserved
// for them.
func Assemble(points []pco.Point, width, height float64, opts Options) (*scene.Scene, error) {
	var m scene.Measurer
	if !opts.style.HideLabels && opts.Layout.TextSize > 0 {
		fm, err := fonts.NewMeasurer(opts.Layout.TextSize)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "load label font")
		}
		m = fm
	}
	return scene.Assemble(points, width, height, m, opts.SceneOptions()...)
}

// Render writes s in every format concurrently. points are the parsed input;
// PDF output re-fits them to the page size.
func Render(ctx context.Context, points []pco.Point, s *scene.Scene, formats []string, opts Options) (map[string][]byte, error) {
	var mu sync.Mutex
	out := make(map[string][]byte, len(formats))

	g, ctx := errgroup.WithContext(ctx)
	for _, format := range formats {
		g.Go(func() error {
			data, err := renderFormat(ctx, points, s, format, opts)
			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}
			mu.Lock()
			out[format] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func renderFormat(ctx context.Context, points []pco.Point, s *scene.Scene, format string, opts Options) ([]byte, error) {
	svgOpts := []sink.SVGOption{sink.WithStyle(opts.style)}
	if opts.Title != "" {
		svgOpts = append(svgOpts, sink.WithTitle(opts.Title))
	}

	switch format {
	case FormatSVG:
		return sink.RenderSVG(s, svgOpts...), nil
	case FormatPNG:
		return sink.RenderPNG(s, sink.WithPNGStyle(opts.style), sink.WithScale(opts.Scale))
	case FormatPDF:
		page, err := Assemble(points, opts.page.Width, opts.page.Height, opts)
		if err != nil {
			return nil, err
		}
		return sink.RenderPDF(ctx, page, sink.WithPDFSVGOptions(svgOpts...))
	case FormatJSON:
		return sink.RenderJSON(s,
			sink.WithJSONStyle(opts.Style),
			sink.WithJSONPolicy(opts.Policy.String()),
			sink.WithJSONSource(opts.Source))
	case FormatDOT:
		return []byte(toDOT(points, s, opts)), nil
	case FormatNodelink:
		return nodelink.RenderSVG(ctx, toDOT(points, s, opts), opts.Engine)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format: %s", format)
	}
}

func toDOT(points []pco.Point, s *scene.Scene, opts Options) string {
	codes := make(map[int]string, len(points))
	for _, p := range points {
		codes[p.Number] = p.Code
	}
	return nodelink.ToDOT(s.Graph, codes, nodelink.Options{Detailed: opts.Detailed, Scene: s})
}

func sourceName(opts Options) string {
	if opts.Source == "" {
		return "input"
	}
	return opts.Source
}
