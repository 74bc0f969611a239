// Package models defines the domain types for weft.
package models

import "github.com/fortuna-events/weft/internal/target"

// Link represents one text fragment destined for a target application.
//
// Deps is fixed once by the linking pass and ordered by node-set order; it
// contains the link itself iff the link's own name occurs in its own text.
// ShortURL stays empty until the registry first returns a URL for the link
// (or a previous run's URL is preloaded). Resolved flips to true exactly
// once, after the final substituted content has been written to the
// registry; it is never reset.
type Link struct {
	Target   target.Target
	Name     string
	Text     string
	Deps     []*Link
	ShortURL string
	Resolved bool
}

// Status projects the link's own state; see the package-level Status.
func (l *Link) Status() LinkStatus {
	return Status(l.ShortURL, l.Resolved)
}

// DependsOn reports whether other is among the link's dependencies.
func (l *Link) DependsOn(other *Link) bool {
	for _, d := range l.Deps {
		if d == other {
			return true
		}
	}
	return false
}

// LinkStatus describes where a link is in its publication lifecycle.
type LinkStatus string

const (
	StatusCreating LinkStatus = "creating"
	StatusUpdating LinkStatus = "updating"
	StatusDone     LinkStatus = "done"
)

// Status maps registry state to a display status. It is a pure projection
// consumed by progress reporting; resolution logic never reads it.
func Status(shortURL string, resolved bool) LinkStatus {
	switch {
	case resolved:
		return StatusDone
	case shortURL != "":
		return StatusUpdating
	default:
		return StatusCreating
	}
}
