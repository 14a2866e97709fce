// Package code decodes survey point codes and applies the visibility rules
// derived from them.
//
// A point code is a classification token optionally followed by a connection
// directive introduced by "..":
//
//	701          classification "701", no connections
//	701..        connect to the previous point classified "701"
//	701..12.25   connect to previous, and to points 12 and 25
//
// Decoding never fails. Fragments that do not parse are dropped.
package code

import (
	"slices"
	"strconv"
	"strings"
)

// chainToken separates the classification from the connection directive.
const chainToken = ".."

// Info is the decoded form of a raw point code.
type Info struct {
	// Base is the classification token. It may be empty.
	Base string `json:"base"`

	// ChainsToPrevious requests a line to the most recent earlier point
	// sharing Base.
	ChainsToPrevious bool `json:"chains_to_previous"`

	// Targets are explicitly referenced point numbers, distinct, in
	// first-occurrence order.
	Targets []int `json:"targets,omitempty"`
}

// HasDirective reports whether the code declares any connection.
func (i Info) HasDirective() bool {
	return i.ChainsToPrevious || len(i.Targets) > 0
}

// String re-encodes the info in canonical code syntax.
func (i Info) String() string {
	if !i.HasDirective() {
		return i.Base
	}
	var b strings.Builder
	b.WriteString(i.Base)
	b.WriteString(chainToken)
	for n, t := range i.Targets {
		if n > 0 {
			b.WriteByte('.')
		}
		b.WriteString(strconv.Itoa(t))
	}
	return b.String()
}

// Equal reports whether two infos decode to the same directive.
func (i Info) Equal(o Info) bool {
	return i.Base == o.Base && i.ChainsToPrevious == o.ChainsToPrevious && slices.Equal(i.Targets, o.Targets)
}

// Decode parses a raw point code.
func Decode(raw string) Info {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Info{}
	}

	head, suffix, found := strings.Cut(trimmed, chainToken)
	info := Info{Base: strings.TrimRight(strings.TrimSpace(head), ".")}
	if !found {
		return info
	}

	suffix = strings.TrimSpace(suffix)
	info.ChainsToPrevious = true
	if suffix == "" {
		return info
	}
	info.Targets = parseTargets(suffix)
	return info
}

func parseTargets(s string) []int {
	var (
		out  []int
		seen = make(map[int]bool)
	)
	for _, tok := range strings.Split(s, ".") {
		n, err := strconv.Atoi(strings.TrimSpace(tok))
		if err != nil || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
