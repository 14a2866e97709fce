// Package config loads pcoview settings from a TOML file.
//
// Settings resolve in three layers: built-in defaults, then the config file
// (--config, or $XDG_CONFIG_HOME/pcoview/config.toml when present), then
// command-line flags. This package handles the first two; the CLI applies
// flags on top of the returned [Config].
//
// A complete file:
//
//	[viewport]
//	width = 1200
//	height = 800
//
//	[style]
//	preset = "print"
//	point = "#cc0000"
//
//	[layout]
//	text_size = 14
//	margin = 24
//
//	[codes]
//	hidden = ["701", "702", "703", "704", "705", "706", "999"]
//
//	[graph]
//	policy = "legacy"
//	hidden_anchors = true
//
//	[export]
//	page = "a4-landscape"
//	formats = ["svg", "pdf"]
//
//	[cache]
//	url = "redis://localhost:6379/0"
//
//	[server]
//	addr = ":8080"
//
//	[history]
//	url = "mongodb://localhost:27017"
//	database = "pcoview"
package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/pcoview/pkg/code"
	"github.com/matzehuels/pcoview/pkg/errors"
	"github.com/matzehuels/pcoview/pkg/graph"
	"github.com/matzehuels/pcoview/pkg/layout"
	"github.com/matzehuels/pcoview/pkg/pipeline"
	"github.com/matzehuels/pcoview/pkg/render"
)

const appName = "pcoview"

// Config is the full settings tree.
type Config struct {
	Viewport Viewport      `toml:"viewport"`
	Style    Style         `toml:"style"`
	Layout   layout.Config `toml:"layout"`
	Codes    Codes         `toml:"codes"`
	Graph    Graph         `toml:"graph"`
	Export   Export        `toml:"export"`
	Cache    Cache         `toml:"cache"`
	Server   Server        `toml:"server"`
	History  History       `toml:"history"`
}

// Viewport is the default drawing size in pixels.
type Viewport struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// Style selects a preset and overrides individual fields of it.
type Style struct {
	Preset string `toml:"preset"`
	render.Style
}

// Codes configures classification handling.
type Codes struct {
	// Hidden lists the base codes whose points are never drawn.
	Hidden []string `toml:"hidden"`
}

// Graph selects the connection policy. Toggles left unset keep the
// preset's value.
type Graph struct {
	Policy                    string `toml:"policy"`
	KeepFirstAnchor           *bool  `toml:"keep_first_anchor"`
	ResetOnBackwardTarget     *bool  `toml:"reset_on_backward_target"`
	RequireDeclaredEndpoints  *bool  `toml:"require_declared_endpoints"`
	SuppressAdjacentDuplicate *bool  `toml:"suppress_adjacent_duplicate"`
	HiddenAnchors             *bool  `toml:"hidden_anchors"`
}

// Export holds file output defaults.
type Export struct {
	Page    string   `toml:"page"`
	Formats []string `toml:"formats"`
	Scale   float64  `toml:"scale"`
	Engine  string   `toml:"engine"`
}

// Cache locates the artifact cache; see cache.Open for accepted values.
type Cache struct {
	URL string `toml:"url"`
}

// Server configures `pcoview serve`.
type Server struct {
	Addr string `toml:"addr"`
}

// History locates the export history. An empty URL keeps it in a local
// file; a mongodb:// URL stores it in MongoDB.
type History struct {
	URL        string `toml:"url"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Viewport: Viewport{Width: 800, Height: 600},
		Style:    Style{Preset: render.StyleScheme},
		Layout:   layout.DefaultConfig(),
		Codes:    Codes{Hidden: slices.Clone(code.ReservedHidden)},
		Graph:    Graph{Policy: graph.PolicyCanonical},
		Export:   Export{Page: render.PageA4.Name, Formats: []string{"svg"}, Scale: 1, Engine: "neato"},
		Server:   Server{Addr: ":8080"},
		History:  History{Database: appName, Collection: "exports"},
	}
}

// Load reads path on top of the defaults. Unknown keys are rejected so that
// typos do not pass silently.
func Load(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes TOML text on top of the defaults.
func Parse(text string) (*Config, error) {
	cfg := Default()
	if _, err := toml.Decode(text, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultPath returns $XDG_CONFIG_HOME/pcoview/config.toml, falling back to
// ~/.config/pcoview/config.toml.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Resolve loads path when given. Otherwise it loads the default path if a
// file exists there, or returns the defaults.
func Resolve(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}
	def, err := DefaultPath()
	if err != nil {
		return Default(), nil
	}
	if _, err := os.Stat(def); err != nil {
		return Default(), nil
	}
	return Load(def)
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := errors.ValidateViewport(c.Viewport.Width, c.Viewport.Height); err != nil {
		return err
	}
	if _, err := c.RenderStyle(); err != nil {
		return err
	}
	if err := c.Layout.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid [layout]")
	}
	for _, h := range c.Codes.Hidden {
		if err := errors.ValidateCodeToken(h); err != nil {
			return err
		}
	}
	if _, err := c.Policy(); err != nil {
		return err
	}
	if _, err := render.PageByName(c.Export.Page); err != nil {
		return err
	}
	if !(c.Export.Scale > 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "export scale must be positive, got %v", c.Export.Scale)
	}
	return nil
}

// RenderStyle resolves the preset and applies the overrides.
func (c *Config) RenderStyle() (render.Style, error) {
	base, err := render.StyleByName(c.Style.Preset)
	if err != nil {
		return render.Style{}, err
	}
	s := base.Merge(c.Style.Style)
	if err := s.Validate(); err != nil {
		return render.Style{}, err
	}
	return s, nil
}

// Rules returns the visibility rules for the configured hidden codes.
func (c *Config) Rules() *code.Rules {
	return code.NewRules(c.Codes.Hidden...)
}

// Policy resolves the preset and applies the toggle overrides.
func (c *Config) Policy() (graph.Policy, error) {
	p, err := graph.ParsePolicy(c.Graph.Policy)
	if err != nil {
		return graph.Policy{}, err
	}
	set := func(dst *bool, v *bool) {
		if v != nil {
			*dst = *v
		}
	}
	set(&p.KeepFirstAnchor, c.Graph.KeepFirstAnchor)
	set(&p.ResetOnBackwardTarget, c.Graph.ResetOnBackwardTarget)
	set(&p.RequireDeclaredEndpoints, c.Graph.RequireDeclaredEndpoints)
	set(&p.SuppressAdjacentDuplicate, c.Graph.SuppressAdjacentDuplicate)
	set(&p.HiddenAnchors, c.Graph.HiddenAnchors)
	return p, nil
}

// Page returns the configured PDF page.
func (c *Config) Page() (render.Page, error) {
	return render.PageByName(c.Export.Page)
}

// PipelineOptions returns the run options implied by the settings. The
// caller sets the input and applies flag overrides before running.
func (c *Config) PipelineOptions() (pipeline.Options, error) {
	policy, err := c.Policy()
	if err != nil {
		return pipeline.Options{}, err
	}
	return pipeline.Options{
		Width:   c.Viewport.Width,
		Height:  c.Viewport.Height,
		Policy:  policy,
		Hidden:  slices.Clone(c.Codes.Hidden),
		Layout:  c.Layout,
		Formats: slices.Clone(c.Export.Formats),
		Style:   c.Style.Preset,
		Paint:   c.Style.Style,
		Page:    c.Export.Page,
		Scale:   c.Export.Scale,
		Engine:  c.Export.Engine,
	}, nil
}
