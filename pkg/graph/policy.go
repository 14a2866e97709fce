package graph

import (
	"fmt"
	"strings"

	"github.com/matzehuels/pcoview/pkg/errors"
)

// Policy names accepted by ParsePolicy.
const (
	PolicyCanonical = "canonical"
	PolicyLegacy    = "legacy"
)

// Policy selects variants of the connection rule. The zero value is the
// canonical rule: every chain directive links to the latest anchor, every
// resolvable explicit target is honored, and each point becomes the new
// anchor of its classification.
type Policy struct {
	// KeepFirstAnchor keeps the first point of a classification as its
	// anchor instead of moving the anchor forward on every point.
	KeepFirstAnchor bool `toml:"keep_first_anchor" json:"keep_first_anchor,omitempty"`

	// ResetOnBackwardTarget clears the anchor of a point's classification
	// when the point names a target that was scanned before it. The next
	// chain directive of that classification then starts a new polyline.
	ResetOnBackwardTarget bool `toml:"reset_on_backward_target" json:"reset_on_backward_target,omitempty"`

	// RequireDeclaredEndpoints accepts an edge only when both endpoints
	// carry a connection directive in their own code.
	RequireDeclaredEndpoints bool `toml:"require_declared_endpoints" json:"require_declared_endpoints,omitempty"`

	// SuppressAdjacentDuplicate lets explicit targets replace the chain
	// link of the same point, and drops a target naming the point number
	// directly before it.
	SuppressAdjacentDuplicate bool `toml:"suppress_adjacent_duplicate" json:"suppress_adjacent_duplicate,omitempty"`

	// HiddenAnchors lets hidden points update the anchor map. Edges that
	// would touch a hidden point are still discarded.
	HiddenAnchors bool `toml:"hidden_anchors" json:"hidden_anchors,omitempty"`
}

// Canonical returns the default policy.
func Canonical() Policy { return Policy{} }

// Legacy returns the policy where explicit targets replace the chain link
// and a target naming the preceding point number is dropped. Under it
// 1("10"),2("10..1") draws nothing and 1,2("10"),3("10..1") draws only
// {1,3}.
func Legacy() Policy { return Policy{SuppressAdjacentDuplicate: true} }

// ParsePolicy maps a preset name to its Policy. Matching is case-insensitive
// and the empty string selects the canonical preset.
func ParsePolicy(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PolicyCanonical:
		return Canonical(), nil
	case PolicyLegacy:
		return Legacy(), nil
	default:
		return Policy{}, errors.New(errors.ErrCodeInvalidPolicy,
			"unknown graph policy %q (want %s or %s)", name, PolicyCanonical, PolicyLegacy)
	}
}

// String names the policy. Presets report their name; custom combinations
// list the enabled toggles.
func (p Policy) String() string {
	switch p {
	case Canonical():
		return PolicyCanonical
	case Legacy():
		return PolicyLegacy
	}
	var parts []string
	for _, t := range []struct {
		on   bool
		name string
	}{
		{p.KeepFirstAnchor, "keep-first-anchor"},
		{p.ResetOnBackwardTarget, "reset-on-backward-target"},
		{p.RequireDeclaredEndpoints, "require-declared-endpoints"},
		{p.SuppressAdjacentDuplicate, "suppress-adjacent-duplicate"},
		{p.HiddenAnchors, "hidden-anchors"},
	} {
		if t.on {
			parts = append(parts, t.name)
		}
	}
	return fmt.Sprintf("custom(%s)", strings.Join(parts, ","))
}

// Option configures a single Build call.
type Option func(*buildConfig)

type buildConfig struct {
	policy Policy
}

// WithPolicy selects the connection rule variant.
func WithPolicy(p Policy) Option {
	return func(c *buildConfig) { c.policy = p }
}
