// Package resolver turns linked fragments into published short URLs.
//
// Two strategies are provided. TwoPhase tolerates arbitrary dependency
// cycles by first creating a placeholder short URL for every link and then
// repointing each one at its final, substituted content, at the cost of two
// registry writes per link. Fast resolves links in dependency order with a
// single write each, but fails when the graph holds a cycle.
//
// Resolution is strictly sequential: every registry call blocks until it
// returns, and that ordering is what makes the two-phase strategy correct —
// no finalization starts before every placeholder exists.
package resolver

import (
	"context"
	"fmt"
	"strings"

	"github.com/fortuna-events/weft/internal/apperr"
	"github.com/fortuna-events/weft/internal/models"
)

// Registry is the short-URL service the resolver drives.
type Registry interface {
	// CreateOrFind obtains a short URL for longURL. With findExisting an
	// already-registered short URL mapping to the same long URL is reused
	// instead of minting a duplicate.
	CreateOrFind(ctx context.Context, longURL string, findExisting bool) (string, error)
	// Update repoints an existing short URL at a new long URL.
	Update(ctx context.Context, shortURL, longURL string) error
}

// Encoder produces the URL-safe payload token for a fragment's text. The
// resolver treats the token as opaque and never decodes it.
type Encoder interface {
	Encode(text string) (string, error)
}

// StepFunc observes progress; it is called after each link is visited.
// Observers read link state only, they never influence resolution.
type StepFunc func()

// Resolver drives registry writes for a set of links.
type Resolver struct {
	reg  Registry
	enc  Encoder
	step StepFunc
}

// New builds a resolver. step may be nil.
func New(reg Registry, enc Encoder, step StepFunc) *Resolver {
	if step == nil {
		step = func() {}
	}
	return &Resolver{reg: reg, enc: enc, step: step}
}

// TwoPhase resolves every link regardless of cycles.
//
// Phase 1 walks the links in order and creates a short URL over each link's
// raw, unsubstituted text; links that already carry a URL (preloaded from a
// previous run) are skipped. After phase 1 every link has a URL, so no
// dependency can be unmet. Phase 2 walks the links in order again,
// substitutes every dependency's short URL into the raw text, and repoints
// the link's short URL at the result. Phase 2 always runs for every link,
// preloaded or not.
func (r *Resolver) TwoPhase(ctx context.Context, links []*models.Link) error {
	for _, l := range links {
		if l.ShortURL == "" {
			longURL, err := r.longURL(l, l.Text)
			if err != nil {
				return err
			}
			short, err := r.reg.CreateOrFind(ctx, longURL, true)
			if err != nil {
				return fmt.Errorf("create %s: %w", l.Name, err)
			}
			l.ShortURL = short
		}
		r.step()
	}

	for _, l := range links {
		longURL, err := r.longURL(l, substitute(l))
		if err != nil {
			return err
		}
		if err := r.reg.Update(ctx, l.ShortURL, longURL); err != nil {
			return fmt.Errorf("finalize %s: %w", l.Name, err)
		}
		l.Resolved = true
		r.step()
	}
	return nil
}

// Fast resolves links in dependency order, one registry write per link.
//
// Each pass scans the links in node-set order and picks the first link that
// is not resolved yet and whose dependencies all are; its final substituted
// content is written in a single call. When a full scan finds no such link
// while unresolved links remain, the unresolved set contains a cycle and
// resolution aborts with no further writes. A link whose own name occurs in
// its own text can never become ready here, so a self-loop is reported as a
// cycle too; use two-phase resolution for such inputs.
func (r *Resolver) Fast(ctx context.Context, links []*models.Link) error {
	remaining := 0
	for _, l := range links {
		if !l.Resolved {
			remaining++
		}
	}

	for remaining > 0 {
		next := ready(links)
		if next == nil {
			return fmt.Errorf("fast resolution stuck on %s: %w", strings.Join(unresolvedNames(links), ", "), apperr.ErrCycle)
		}
		longURL, err := r.longURL(next, substitute(next))
		if err != nil {
			return err
		}
		if next.ShortURL != "" {
			// Preloaded from a previous run; repoint instead of minting a
			// fresh short code.
			if err := r.reg.Update(ctx, next.ShortURL, longURL); err != nil {
				return fmt.Errorf("finalize %s: %w", next.Name, err)
			}
		} else {
			short, err := r.reg.CreateOrFind(ctx, longURL, false)
			if err != nil {
				return fmt.Errorf("create %s: %w", next.Name, err)
			}
			next.ShortURL = short
		}
		next.Resolved = true
		remaining--
		r.step()
	}
	return nil
}

// ready returns the first unresolved link whose dependencies are all
// resolved, or nil when no link qualifies.
func ready(links []*models.Link) *models.Link {
	for _, l := range links {
		if l.Resolved {
			continue
		}
		ok := true
		for _, d := range l.Deps {
			if !d.Resolved {
				ok = false
				break
			}
		}
		if ok {
			return l
		}
	}
	return nil
}

func unresolvedNames(links []*models.Link) []string {
	var names []string
	for _, l := range links {
		if !l.Resolved {
			names = append(names, l.Name)
		}
	}
	return names
}

// substitute replaces every dependency's name in the link's raw text with
// that dependency's short URL.
func substitute(l *models.Link) string {
	text := l.Text
	for _, d := range l.Deps {
		text = strings.ReplaceAll(text, d.Name, d.ShortURL)
	}
	return text
}

func (r *Resolver) longURL(l *models.Link, text string) (string, error) {
	token, err := r.enc.Encode(text)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", l.Name, err)
	}
	return l.Target.LinkURL(token), nil
}
