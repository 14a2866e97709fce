package pco

import (
	"fmt"

	"github.com/matzehuels/pcoview/pkg/code"
)

// Attribute is a raw key/value pair retained from the source file.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Point is a single surveyed point. Values are treated as immutable once
// constructed; the Attributes slice must not be modified by callers.
type Point struct {
	Number     int         `json:"number"`
	Code       string      `json:"code"`
	X          float64     `json:"x"`
	Y          float64     `json:"y"`
	Z          *float64    `json:"z,omitempty"`
	Attributes []Attribute `json:"attributes,omitempty"`
}

// Info decodes the point's raw code.
func (p Point) Info() code.Info { return code.Decode(p.Code) }

// Attr returns the first attribute value stored under key.
func (p Point) Attr(key string) (string, bool) {
	for _, a := range p.Attributes {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// String implements fmt.Stringer.
func (p Point) String() string {
	if p.Z != nil {
		return fmt.Sprintf("#%d %q (%g, %g, %g)", p.Number, p.Code, p.X, p.Y, *p.Z)
	}
	return fmt.Sprintf("#%d %q (%g, %g)", p.Number, p.Code, p.X, p.Y)
}

// DuplicateNumbers reports point numbers that occur more than once, in order
// of their second occurrence.
func DuplicateNumbers(points []Point) []int {
	seen := make(map[int]bool, len(points))
	var dups []int
	for _, p := range points {
		if seen[p.Number] {
			dups = append(dups, p.Number)
			continue
		}
		seen[p.Number] = true
	}
	return dups
}
