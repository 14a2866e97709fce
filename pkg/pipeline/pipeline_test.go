package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/pcoview/pkg/cache"
	pcoerrors "github.com/matzehuels/pcoview/pkg/errors"
	"github.com/matzehuels/pcoview/pkg/graph"
	"github.com/matzehuels/pcoview/pkg/layout"
	"github.com/matzehuels/pcoview/pkg/render"
)

const site = `
5=1
4=10
37=0
38=0

5=2
4=10..
37=10
38=5

5=3
4=20
37=4
38=20

5=4
4=20..1
37=8
38=8

5=5
4=702
37=100
38=100
`

const onlyHidden = `
5=1
4=701
37=0
38=0
`

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"dot", false},
		{"nodelink", false},
		{"invalid", true},
		{"SVG", true},
		{"", true},
	}
	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestParseFormats(t *testing.T) {
	got := ParseFormats(" SVG, png,,json ")
	want := []string{"svg", "png", "json"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("ParseFormats = %v, want %v", got, want)
	}
	if got := ParseFormats(""); len(got) != 0 {
		t.Errorf("ParseFormats(\"\") = %v", got)
	}
}

func TestExtension(t *testing.T) {
	if Extension(FormatSVG) != ".svg" || Extension(FormatNodelink) != ".graph.svg" {
		t.Error("unexpected extensions")
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("zero options: %v", err)
	}
	if opts.Width != DefaultWidth || opts.Height != DefaultHeight {
		t.Errorf("viewport = %vx%v", opts.Width, opts.Height)
	}
	if opts.Layout != layout.DefaultConfig() {
		t.Errorf("layout = %+v", opts.Layout)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("formats = %v", opts.Formats)
	}
	if opts.Style != render.StyleScheme || opts.ResolvedStyle() != render.DefaultStyle() {
		t.Errorf("style = %q %+v", opts.Style, opts.ResolvedStyle())
	}
	if opts.ResolvedPage() != render.PageA4 || opts.Page != "a4" {
		t.Errorf("page = %+v", opts.ResolvedPage())
	}
	if !opts.Rules().IsHidden("706") {
		t.Error("reserved codes should be hidden by default")
	}
	if opts.Logger == nil {
		t.Error("logger not defaulted")
	}

	// Idempotent
	opts.Width = -1
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second call should be a no-op: %v", err)
	}
}

func TestValidateAndSetDefaultsErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code pcoerrors.Code
	}{
		{"viewport", Options{Width: -5}, pcoerrors.ErrCodeInvalidViewport},
		{"format", Options{Formats: []string{"gif"}}, pcoerrors.ErrCodeInvalidFormat},
		{"style", Options{Style: "neon"}, pcoerrors.ErrCodeInvalidStyle},
		{"paint", Options{Paint: render.Style{Point: "red"}}, pcoerrors.ErrCodeInvalidStyle},
		{"page", Options{Page: "b5"}, pcoerrors.ErrCodeInvalidFormat},
		{"scale", Options{Scale: -1}, pcoerrors.ErrCodeInvalidConfig},
		{"engine", Options{Engine: "dot2"}, pcoerrors.ErrCodeInvalidConfig},
		{"hidden", Options{Hidden: []string{""}}, pcoerrors.ErrCodeInvalidConfig},
		{"layout", Options{Layout: layout.Config{Margin: -1}}, pcoerrors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if got := pcoerrors.GetCode(err); got != tt.code {
				t.Errorf("code = %q, want %q (%v)", got, tt.code, err)
			}
		})
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	a := Options{Formats: []string{"svg", "png"}}
	b := Options{Formats: []string{"svg", "png"}, Policy: graph.Legacy()}
	for _, o := range []*Options{&a, &b} {
		if err := o.ValidateAndSetDefaults(); err != nil {
			t.Fatal(err)
		}
	}
	k := cache.NewDefaultKeyer()
	if k.ArtifactKey("h", a.ArtifactKeyOpts("svg")) == k.ArtifactKey("h", b.ArtifactKeyOpts("svg")) {
		t.Error("policy should change the artifact key")
	}
	if a.ArtifactKeyOpts("svg").Scale != 0 || a.ArtifactKeyOpts("png").Scale != 1 {
		t.Error("scale should only key PNG output")
	}

	a.Source = "north.pco"
	if a.ArtifactKeyOpts("json").Source != "north.pco" {
		t.Error("source should key JSON output")
	}
	if a.ArtifactKeyOpts("svg").Source != "" {
		t.Error("source should not key SVG output")
	}
}

func TestExecute(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	result, err := r.Execute(context.Background(), Options{
		Source:  "site.pco",
		Input:   []byte(site),
		Formats: []string{"svg", "json", "dot", "png"},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.Stats.Points != 5 || result.Stats.Visible != 4 || result.Stats.Hidden != 1 {
		t.Errorf("stats = %+v", result.Stats)
	}
	// 10: {1,2}; 20: 4 chains to 3 and targets 1.
	if result.Stats.Edges != 3 {
		t.Errorf("edges = %d, want 3", result.Stats.Edges)
	}
	for _, f := range []string{"svg", "json", "dot", "png"} {
		if len(result.Artifacts[f]) == 0 {
			t.Errorf("artifact %s missing", f)
		}
	}
	if !strings.HasPrefix(string(result.Artifacts["svg"]), "<svg") {
		t.Error("svg artifact is not SVG")
	}
	if !strings.Contains(string(result.Artifacts["dot"]), "1 -- 2;") {
		t.Errorf("dot artifact:\n%s", result.Artifacts["dot"])
	}

	var doc struct {
		Source string `json:"source"`
		Points []any  `json:"points"`
	}
	if err := json.Unmarshal(result.Artifacts["json"], &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Source != "site.pco" || len(doc.Points) != 4 {
		t.Errorf("json artifact: source %q, %d points", doc.Source, len(doc.Points))
	}
	if result.InputHash != cache.Hash([]byte(site)) {
		t.Error("input hash mismatch")
	}
}

func TestExecuteNoLayout(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	for name, input := range map[string]string{"empty": "", "hidden": onlyHidden} {
		t.Run(name, func(t *testing.T) {
			_, err := r.Execute(context.Background(), Options{Input: []byte(input)})
			if !errors.Is(err, layout.ErrNoLayout) {
				t.Errorf("err = %v, want ErrNoLayout", err)
			}
		})
	}
}

func TestExecuteDuplicateNumbers(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	dup := "5=1\n37=0\n38=0\n5=1\n37=1\n38=1\n"
	_, err := r.Execute(context.Background(), Options{Input: []byte(dup)})
	if !errors.Is(err, graph.ErrDuplicatePoint) {
		t.Errorf("err = %v, want ErrDuplicatePoint", err)
	}
}

func TestExecuteCaching(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	opts := Options{Input: []byte(site), Formats: []string{"svg", "json"}}

	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.RenderHit || len(first.CacheInfo.Hits) != 0 {
		t.Errorf("first run should miss: %+v", first.CacheInfo)
	}

	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.RenderHit {
		t.Errorf("second run should hit: %+v", second.CacheInfo)
	}
	if string(first.Artifacts["svg"]) != string(second.Artifacts["svg"]) {
		t.Error("cached artifact differs")
	}

	// One new format renders only that format.
	opts.Formats = []string{"svg", "dot"}
	third, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.RenderHit || len(third.CacheInfo.Hits) != 1 || third.CacheInfo.Hits[0] != "svg" {
		t.Errorf("partial hit expected: %+v", third.CacheInfo)
	}

	opts.Refresh = true
	fourth, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(fourth.CacheInfo.Hits) != 0 {
		t.Errorf("refresh should bypass the cache: %+v", fourth.CacheInfo)
	}
}

func TestExecuteCachingJSONSource(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)

	sourceOf := func(name string) (string, bool) {
		t.Helper()
		result, err := r.Execute(ctx, Options{Source: name, Input: []byte(site), Formats: []string{"json", "svg"}})
		if err != nil {
			t.Fatal(err)
		}
		var doc struct {
			Source string `json:"source"`
		}
		if err := json.Unmarshal(result.Artifacts["json"], &doc); err != nil {
			t.Fatal(err)
		}
		return doc.Source, slices.Contains(result.CacheInfo.Hits, "svg")
	}

	if got, _ := sourceOf("north.pco"); got != "north.pco" {
		t.Fatalf("source = %q, want north.pco", got)
	}
	got, svgHit := sourceOf("south.pco")
	if got != "south.pco" {
		t.Errorf("same bytes under another name: source = %q, want south.pco", got)
	}
	if !svgHit {
		t.Error("svg does not embed the source name and should still be served from the cache")
	}
}

func TestExecuteConcurrent(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	var wg sync.WaitGroup
	results := make([]string, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := r.Execute(context.Background(), Options{Input: []byte(site)})
			if err != nil {
				t.Error(err)
				return
			}
			results[i] = string(res.Artifacts["svg"])
		}()
	}
	wg.Wait()
	for i := range results {
		if results[i] != results[0] {
			t.Fatalf("run %d differs", i)
		}
	}
}

func TestInspect(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)

	ins, err := r.Inspect(ctx, Options{Source: "site.pco", Input: []byte(site)})
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if len(ins.Points) != 5 || ins.Policy != "canonical" {
		t.Fatalf("inspection = %+v", ins)
	}
	p4 := ins.Points[3]
	if p4.Base != "20" || !p4.ChainsToPrevious || len(p4.Targets) != 1 || len(p4.Resolved) != 1 {
		t.Errorf("point 4 = %+v", p4)
	}
	if !ins.Points[4].Hidden {
		t.Error("point 5 should be hidden")
	}
	if !ins.Graph.Has(1, 4) || !ins.Graph.Has(3, 4) {
		t.Errorf("graph edges = %v", ins.Graph.Edges)
	}

	again, err := r.Inspect(ctx, Options{Input: []byte(site)})
	if err != nil {
		t.Fatal(err)
	}
	if !again.CacheHit {
		t.Error("second inspection should come from the cache")
	}
	if len(again.Points[3].Resolved) != 1 {
		t.Error("resolved targets lost through the cache")
	}

	// Inspection works where layout would not.
	if _, err := r.Inspect(ctx, Options{Input: []byte(onlyHidden)}); err != nil {
		t.Errorf("Inspect(hidden only): %v", err)
	}
}

func TestRenderUnsupported(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	points, _ := Read(Options{Input: []byte(site)})
	s, err := Assemble(points, 100, 100, opts)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := Render(ctx, points, s, []string{"gif"}, opts); !pcoerrors.Is(err, pcoerrors.ErrCodeUnsupported) {
		t.Errorf("err = %v, want UNSUPPORTED", err)
	}
}
