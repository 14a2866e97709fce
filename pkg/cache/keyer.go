package cache

// Keyer derives cache keys. Implementations must be deterministic: equal
// inputs give equal keys across processes.
type Keyer interface {
	// GraphKey identifies the connection graph of an input.
	GraphKey(inputHash string, opts GraphKeyOpts) string

	// ArtifactKey identifies one rendered output of an input.
	ArtifactKey(inputHash string, opts ArtifactKeyOpts) string
}

// GraphKeyOpts lists the options that change a connection graph.
type GraphKeyOpts struct {
	Policy string   `json:"policy"`
	Hidden []string `json:"hidden"`
}

// ArtifactKeyOpts lists the options that change a rendered output.
type ArtifactKeyOpts struct {
	Format string   `json:"format"`
	Width  float64  `json:"width"`
	Height float64  `json:"height"`
	Style  string   `json:"style"`
	Policy string   `json:"policy"`
	Hidden []string `json:"hidden"`
	Layout string   `json:"layout"`
	Page   string   `json:"page,omitempty"`
	Scale  float64  `json:"scale,omitempty"`
	Engine string   `json:"engine,omitempty"`
	Detail bool     `json:"detail,omitempty"`
	Title  string   `json:"title,omitempty"`
	Source string   `json:"source,omitempty"`
}

// DefaultKeyer hashes all options into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// GraphKey returns "graph:<sha256>".
func (DefaultKeyer) GraphKey(inputHash string, opts GraphKeyOpts) string {
	return hashKey("graph", inputHash, opts)
}

// ArtifactKey returns "artifact:<format>:<sha256>".
func (DefaultKeyer) ArtifactKey(inputHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+opts.Format, inputHash, opts)
}

var _ Keyer = DefaultKeyer{}
