// Package target holds the static table of destination applications.
//
// A target is identified by its base URI; its separator rune selects it in
// data-file headers and its color is used for both terminal styling and
// preview rendering. The table is an immutable value built once at startup
// and passed explicitly to every consumer.
package target

import (
	"fmt"
	"strings"
)

// SeparatorRun is the exact number of separator repetitions that forms a
// fragment header in the data file.
const SeparatorRun = 5

// Target is one destination application.
type Target struct {
	URI       string
	Separator rune
	Color     string
}

// Name returns the last path segment of the target URI, used as a short
// display name.
func (t Target) Name() string {
	uri := strings.TrimRight(t.URI, "/")
	if i := strings.LastIndexByte(uri, '/'); i >= 0 {
		return uri[i+1:]
	}
	return uri
}

// LinkURL assembles the long URL carrying an encoded payload token.
func (t Target) LinkURL(token string) string {
	return t.URI + "?z=" + token
}

// Table is an ordered set of targets with unique URIs and separators.
type Table []Target

// NewTable builds a table, rejecting duplicate URIs or separator runes.
func NewTable(targets ...Target) (Table, error) {
	seps := make(map[rune]string, len(targets))
	uris := make(map[string]struct{}, len(targets))
	for _, t := range targets {
		if prev, ok := seps[t.Separator]; ok {
			return nil, fmt.Errorf("target: separator %q used by both %s and %s", t.Separator, prev, t.URI)
		}
		if _, ok := uris[t.URI]; ok {
			return nil, fmt.Errorf("target: duplicate URI %s", t.URI)
		}
		seps[t.Separator] = t.URI
		uris[t.URI] = struct{}{}
	}
	return Table(targets), nil
}

// BySeparator returns the target owning the given separator rune.
func (tbl Table) BySeparator(sep rune) (Target, bool) {
	for _, t := range tbl {
		if t.Separator == sep {
			return t, true
		}
	}
	return Target{}, false
}

// Default returns the built-in fortuna-events fleet.
func Default() Table {
	return Table{
		{URI: "https://app.fortuna-events.fr", Separator: '=', Color: "#e6e6e6"},
		{URI: "https://treasure.fortuna-events.fr", Separator: '@', Color: "#a1a1e6"},
		{URI: "https://quizz.fortuna-events.fr", Separator: '?', Color: "#e6a1a1"},
		{URI: "https://roads.fortuna-events.fr", Separator: '+', Color: "#a1e6a1"},
		{URI: "https://dice.fortuna-events.fr", Separator: '%', Color: "#e6a1e6"},
		{URI: "https://quest.fortuna-events.fr", Separator: '$', Color: "#a1e6e6"},
	}
}
