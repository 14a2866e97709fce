package code

import (
	"slices"
	"strings"
)

// ReservedHidden lists the classification tokens that are never drawn and
// never take part in the connection graph.
var ReservedHidden = []string{"701", "702", "703", "704", "705", "706"}

// Rules holds the visibility rules for decoded codes. A Rules value is
// immutable after construction and safe for concurrent use.
type Rules struct {
	hidden map[string]struct{}
}

var defaultRules = NewRules(ReservedHidden...)

// DefaultRules returns the rules built from [ReservedHidden].
func DefaultRules() *Rules { return defaultRules }

// NewRules builds rules hiding the given classification tokens. Tokens are
// trimmed; empty tokens are ignored because an absent classification is
// never hidden.
func NewRules(hidden ...string) *Rules {
	r := &Rules{hidden: make(map[string]struct{}, len(hidden))}
	for _, h := range hidden {
		if h = strings.TrimSpace(h); h != "" {
			r.hidden[h] = struct{}{}
		}
	}
	return r
}

// IsHidden reports whether base is a hidden classification.
func (r *Rules) IsHidden(base string) bool {
	if r == nil {
		return defaultRules.IsHidden(base)
	}
	if base == "" {
		return false
	}
	_, ok := r.hidden[base]
	return ok
}

// IsHiddenCode decodes raw and reports whether its classification is hidden.
func (r *Rules) IsHiddenCode(raw string) bool {
	return r.IsHidden(Decode(raw).Base)
}

// Hidden returns the hidden tokens in sorted order.
func (r *Rules) Hidden() []string {
	if r == nil {
		return defaultRules.Hidden()
	}
	out := make([]string, 0, len(r.hidden))
	for h := range r.hidden {
		out = append(out, h)
	}
	slices.Sort(out)
	return out
}

// IsHidden applies the default rules.
func IsHidden(base string) bool { return defaultRules.IsHidden(base) }
