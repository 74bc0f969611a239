// Package graph computes the dependency edges between parsed links.
package graph

import (
	"strings"

	"github.com/fortuna-events/weft/internal/models"
)

// Build runs the linking pass over the full node set: for every link A and
// every link B (including A itself), B is appended to A's dependencies iff
// B's name occurs as a substring of A's text. It runs exactly once, after
// all links exist; dependency order follows node-set order, which keeps
// later iteration deterministic. Cost is quadratic in the node count, which
// is fine at the expected scale of tens of links. Cycles are not detected
// here; tolerating or rejecting them is the resolver's concern.
func Build(links []*models.Link) {
	for _, l := range links {
		for _, other := range links {
			if strings.Contains(l.Text, other.Name) {
				l.Deps = append(l.Deps, other)
			}
		}
	}
}

// AmbiguousNames returns every pair of distinct names where one is a
// substring of the other. Such pairs make substring-based dependency
// detection ambiguous: the shorter name matches wherever the longer one
// occurs. Callers surface these to the operator; the linking pass itself is
// left unchanged.
func AmbiguousNames(links []*models.Link) [][2]string {
	var pairs [][2]string
	for i, a := range links {
		for _, b := range links[i+1:] {
			if a.Name == b.Name {
				continue
			}
			switch {
			case strings.Contains(a.Name, b.Name):
				pairs = append(pairs, [2]string{b.Name, a.Name})
			case strings.Contains(b.Name, a.Name):
				pairs = append(pairs, [2]string{a.Name, b.Name})
			}
		}
	}
	return pairs
}
