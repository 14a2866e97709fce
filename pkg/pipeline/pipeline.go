// Package pipeline runs the read → assemble → render pipeline shared by the
// CLI and the HTTP API.
//
// # Stages
//
//  1. Read: parse a .pco file into survey points
//  2. Assemble: build the connection graph and fit the visible points into
//     the viewport (see package scene)
//  3. Render: write the scene in every requested format
//
// Rendered artifacts are cached by the hash of the input bytes plus every
// option that changes the output, so re-rendering an unchanged file is a
// cache lookup.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Source:  "site.pco",
//	    Input:   data,
//	    Formats: []string{"svg", "pdf"},
//	})
//	if errors.Is(err, layout.ErrNoLayout) {
//	    // nothing to draw
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pcoview/pkg/cache"
	"github.com/matzehuels/pcoview/pkg/code"
	"github.com/matzehuels/pcoview/pkg/errors"
	"github.com/matzehuels/pcoview/pkg/graph"
	"github.com/matzehuels/pcoview/pkg/layout"
	"github.com/matzehuels/pcoview/pkg/pco"
	"github.com/matzehuels/pcoview/pkg/render"
	"github.com/matzehuels/pcoview/pkg/render/nodelink"
	"github.com/matzehuels/pcoview/pkg/scene"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the default viewport width in pixels.
	DefaultWidth = 800.0

	// DefaultHeight is the default viewport height in pixels.
	DefaultHeight = 600.0

	// DefaultScale is the default PNG pixel density.
	DefaultScale = 1.0
)

// Output formats.
const (
	FormatSVG      = "svg"
	FormatPNG      = "png"
	FormatPDF      = "pdf"
	FormatJSON     = "json"
	FormatDOT      = "dot"
	FormatNodelink = "nodelink"
)

// Formats lists the supported output formats in display order.
var Formats = []string{FormatSVG, FormatPNG, FormatPDF, FormatJSON, FormatDOT, FormatNodelink}

// Extension returns the file extension for a format.
func Extension(format string) string {
	if format == FormatNodelink {
		return ".graph.svg"
	}
	return "." + format
}

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !slices.Contains(Formats, format) {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(Formats, ", "))
	}
	return nil
}

// ValidateFormats checks every format.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated list, trimming blanks.
func ParseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures one pipeline run. It decodes from JSON for API use.
type Options struct {
	// Source names the input in logs and exported metadata.
	Source string `json:"source,omitempty"`

	// Input is the raw .pco file.
	Input []byte `json:"-"`

	// Viewport
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	// Connection rules. Hidden nil selects the reserved codes.
	Policy graph.Policy `json:"policy"`
	Hidden []string     `json:"hidden,omitempty"`

	// Drawing constants. The zero value selects layout.DefaultConfig.
	Layout layout.Config `json:"layout"`

	// Render options
	Formats  []string     `json:"formats,omitempty"`
	Style    string       `json:"style,omitempty"`
	Paint    render.Style `json:"paint"`
	Page     string       `json:"page,omitempty"`
	Scale    float64      `json:"scale,omitempty"`
	Engine   string       `json:"engine,omitempty"`
	Detailed bool         `json:"detailed,omitempty"`
	Title    string       `json:"title,omitempty"`

	// Refresh bypasses cached artifacts.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
	style     render.Style
	page      render.Page
	rules     *code.Rules
}

// Result is the output of a pipeline run.
type Result struct {
	Points    []pco.Point
	Scene     *scene.Scene
	InputHash string
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats holds sizes and stage timings.
type Stats struct {
	Points       int
	Visible      int
	Hidden       int
	Edges        int
	ReadTime     time.Duration
	AssembleTime time.Duration
	RenderTime   time.Duration
}

// CacheInfo records which artifacts came from the cache.
type CacheInfo struct {
	// RenderHit is true when every requested artifact was cached.
	RenderHit bool

	// Hits lists the formats served from the cache.
	Hits []string
}

// ValidateAndSetDefaults checks the options and fills in defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if err := errors.ValidateViewport(o.Width, o.Height); err != nil {
		return err
	}

	if o.Layout == (layout.Config{}) {
		o.Layout = layout.DefaultConfig()
	}
	if err := o.Layout.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid layout")
	}

	if o.Hidden == nil {
		o.Hidden = slices.Clone(code.ReservedHidden)
	}
	for _, h := range o.Hidden {
		if err := errors.ValidateCodeToken(h); err != nil {
			return err
		}
	}
	o.rules = code.NewRules(o.Hidden...)

	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	o.Formats = dedupe(o.Formats)
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}

	base, err := render.StyleByName(o.Style)
	if err != nil {
		return err
	}
	if o.Style == "" {
		o.Style = render.StyleScheme
	}
	o.style = base.Merge(o.Paint)
	if err := o.style.Validate(); err != nil {
		return err
	}

	if o.page, err = render.PageByName(o.Page); err != nil {
		return err
	}
	o.Page = o.page.Name

	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if !(o.Scale > 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "scale must be positive, got %v", o.Scale)
	}
	o.Engine = strings.ToLower(o.Engine)
	if o.Engine == "" {
		o.Engine = nodelink.EngineNeato
	}
	if !slices.Contains(nodelink.Engines, o.Engine) {
		return errors.New(errors.ErrCodeInvalidConfig, "unsupported layout engine %q", o.Engine)
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ResolvedStyle returns the preset with Paint applied. Valid after
// ValidateAndSetDefaults.
func (o *Options) ResolvedStyle() render.Style { return o.style }

// ResolvedPage returns the PDF page. Valid after ValidateAndSetDefaults.
func (o *Options) ResolvedPage() render.Page { return o.page }

// Rules returns the visibility rules. Valid after ValidateAndSetDefaults.
func (o *Options) Rules() *code.Rules { return o.rules }

// SceneOptions returns the assembly options implied by o.
func (o *Options) SceneOptions() []scene.Option {
	return []scene.Option{
		scene.WithRules(o.rules),
		scene.WithPolicy(o.Policy),
		scene.WithLayout(o.Layout),
	}
}

// GraphKeyOpts returns cache key options for the connection graph.
func (o *Options) GraphKeyOpts() cache.GraphKeyOpts {
	return cache.GraphKeyOpts{
		Policy: o.Policy.String(),
		Hidden: o.rules.Hidden(),
	}
}

// ArtifactKeyOpts returns cache key options for one format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format: format,
		Width:  o.Width,
		Height: o.Height,
		Style:  fmt.Sprintf("%+v", o.style),
		Policy: o.Policy.String(),
		Hidden: o.rules.Hidden(),
		Layout: fmt.Sprintf("%+v", o.Layout),
	}
	switch format {
	case FormatPDF:
		k.Page = o.page.Name
	case FormatPNG:
		k.Scale = o.Scale
	case FormatDOT, FormatNodelink:
		k.Engine = o.Engine
		k.Detail = o.Detailed
	}
	if format == FormatSVG || format == FormatPDF {
		k.Title = o.Title
	}
	if format == FormatJSON {
		k.Source = o.Source
	}
	return k
}

func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}
