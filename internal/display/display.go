// Package display renders resolution progress to the terminal.
//
// It is a pure consumer of link state through the resolver's step callback:
// a line per fragment colored by its target plus a progress bar, redrawn in
// place after every step. Nothing here feeds back into resolution.
package display

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/fortuna-events/weft/internal/models"
)

const barWidth = 30

var (
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	urlStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)
)

// Printer redraws the progress view in place. Quiet mode draws the bar only.
type Printer struct {
	w     io.Writer
	term  *termenv.Output
	quiet bool
	drawn int
}

// NewPrinter builds a printer writing to w.
func NewPrinter(w io.Writer, quiet bool) *Printer {
	return &Printer{w: w, term: termenv.NewOutput(w), quiet: quiet}
}

// Step clears the previous frame and draws the current state of links.
func (p *Printer) Step(links []*models.Link) {
	if p.drawn > 0 {
		p.term.ClearLines(p.drawn)
	}
	frame := p.render(links)
	fmt.Fprint(p.w, frame)
	p.drawn = strings.Count(frame, "\n")
}

func (p *Printer) render(links []*models.Link) string {
	var b strings.Builder
	if !p.quiet {
		for _, l := range links {
			nameStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(l.Target.Color)).Bold(true)
			b.WriteString("* ")
			b.WriteString(nameStyle.Render(l.Name))
			b.WriteString(": ")
			b.WriteString(statusLine(l))
			b.WriteByte('\n')
		}
	}
	resolved, created := fractions(links)
	b.WriteString(bar(resolved, created))
	b.WriteByte('\n')
	return b.String()
}

func statusLine(l *models.Link) string {
	switch l.Status() {
	case models.StatusDone:
		return urlStyle.Render(l.ShortURL) + " " + doneStyle.Render("done")
	case models.StatusUpdating:
		return urlStyle.Render(l.ShortURL) + " " + pendingStyle.Render("updating...")
	default:
		return pendingStyle.Render("creating...")
	}
}

// fractions returns the resolved share and the created-but-unresolved share
// of the link set.
func fractions(links []*models.Link) (resolved, created float64) {
	if len(links) == 0 {
		return 0, 0
	}
	var nResolved, nCreated int
	for _, l := range links {
		switch {
		case l.Resolved:
			nResolved++
		case l.ShortURL != "":
			nCreated++
		}
	}
	n := float64(len(links))
	return float64(nResolved) / n, float64(nCreated) / n
}

// bar renders the progress bar: a green resolved segment, a yellow
// created-but-unresolved segment, dots for the remainder, and percentages.
func bar(resolved, created float64) string {
	greenCells := int(math.Round(resolved * barWidth))
	yellowCells := int(math.Round(created * barWidth))
	if greenCells+yellowCells > barWidth {
		yellowCells = barWidth - greenCells
	}
	rest := barWidth - greenCells - yellowCells

	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(doneStyle.Render(strings.Repeat("#", greenCells)))
	b.WriteString(pendingStyle.Render(strings.Repeat("#", yellowCells)))
	b.WriteString(strings.Repeat("·", rest))
	b.WriteByte(']')
	fmt.Fprintf(&b, " (%.0f%% linked, %.0f%% resolved)", (resolved+created)*100, resolved*100)
	return b.String()
}
