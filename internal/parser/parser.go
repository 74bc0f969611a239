// Package parser splits a data file into named fragments, one per target
// application.
//
// The grammar: a header line is a target's separator character repeated
// exactly five times, optional spaces or tabs, then a word token naming the
// fragment. Every following line up to the next header is the fragment's raw
// text. Lines before the first header are ignored.
package parser

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/fortuna-events/weft/internal/apperr"
	"github.com/fortuna-events/weft/internal/models"
	"github.com/fortuna-events/weft/internal/target"
)

var nameRe = regexp.MustCompile(`^\w+`)

// Parse splits data into fragments using table to map header separators to
// targets. Fragment names must be unique; an input with no content at all is
// an error.
func Parse(data []byte, table target.Table) ([]*models.Link, error) {
	trimmed := strings.TrimSpace(strings.ReplaceAll(string(data), "\r\n", "\n"))
	if trimmed == "" {
		return nil, fmt.Errorf("parser: %w", apperr.ErrEmptyData)
	}

	var (
		links   []*models.Link
		current *models.Link
		buf     []string
		seen    = make(map[string]struct{})
	)
	flush := func() {
		if current != nil {
			current.Text = strings.Join(buf, "\n")
			links = append(links, current)
		}
		buf = nil
	}

	for _, line := range strings.Split(trimmed, "\n") {
		tgt, name, ok := parseHeader(line, table)
		if !ok {
			if current != nil {
				buf = append(buf, line)
			}
			continue
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("parser: fragment %s: %w", name, apperr.ErrDuplicateName)
		}
		seen[name] = struct{}{}
		flush()
		current = &models.Link{Target: tgt, Name: name}
	}
	flush()

	return links, nil
}

// parseHeader matches one header line: an exact run of SeparatorRun
// repetitions of a known separator, optional spaces/tabs, then the fragment
// name. Anything after the name is ignored. A run of any other length is
// ordinary text.
func parseHeader(line string, table target.Table) (target.Target, string, bool) {
	sep, _ := utf8.DecodeRuneInString(line)
	if sep == utf8.RuneError {
		return target.Target{}, "", false
	}
	tgt, ok := table.BySeparator(sep)
	if !ok {
		return target.Target{}, "", false
	}

	run := 0
	rest := line
	for {
		r, size := utf8.DecodeRuneInString(rest)
		if r != sep {
			break
		}
		run++
		rest = rest[size:]
	}
	if run != target.SeparatorRun {
		return target.Target{}, "", false
	}

	name := nameRe.FindString(strings.TrimLeft(rest, " \t"))
	if name == "" {
		return target.Target{}, "", false
	}
	return tgt, name, true
}

// DebugTarget is the synthetic destination of the fragment added by
// AppendDebug. It points at the project itself rather than a deployed
// application.
var DebugTarget = target.Target{
	URI:   "https://github.com/fortuna-events/weft",
	Color: "#e6e6e6",
}

// AppendDebug appends a synthetic DEBUG fragment enumerating every fragment
// name. Each name appears twice: once literally (which the resolver will
// substitute with the fragment's short URL) and once with a zero-width-space
// entity between characters, so a readable copy of the name survives
// substitution.
func AppendDebug(links []*models.Link) []*models.Link {
	var b strings.Builder
	b.WriteString("Debug")
	for _, l := range links {
		b.WriteByte('\n')
		b.WriteString(l.Name)
		b.WriteByte('\n')
		b.WriteString(zeroWidthJoin(l.Name))
	}
	return append(links, &models.Link{Target: DebugTarget, Name: "DEBUG", Text: b.String()})
}

// zeroWidthJoin interleaves a zero-width-space XML entity between the
// characters of name.
func zeroWidthJoin(name string) string {
	runes := []rune(name)
	parts := make([]string, len(runes))
	for i, r := range runes {
		parts[i] = string(r)
	}
	return strings.Join(parts, "&#x200B;")
}
