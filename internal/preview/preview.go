// Package preview renders the dependency graph of a link set as a DOT file,
// with an optional PNG render through a local Graphviz binary.
package preview

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"github.com/emicklei/dot"

	"github.com/fortuna-events/weft/internal/models"
)

// DOT builds the directed dependency graph: one node per link filled with
// its target color, one edge per dependency.
func DOT(links []*models.Link) string {
	g := dot.NewGraph(dot.Directed)
	nodes := make(map[string]dot.Node, len(links))
	for _, l := range links {
		nodes[l.Name] = g.Node(l.Name).
			Attr("style", "filled").
			Attr("fillcolor", l.Target.Color)
	}
	for _, l := range links {
		for _, d := range l.Deps {
			g.Edge(nodes[l.Name], nodes[d.Name])
		}
	}
	return g.String()
}

// Write writes the DOT graph to basename.dot and returns the written path.
func Write(links []*models.Link, basename string) (string, error) {
	path := basename + ".dot"
	if err := os.WriteFile(path, []byte(DOT(links)), 0o644); err != nil {
		return "", fmt.Errorf("preview: write %s: %w", path, err)
	}
	return path, nil
}

// Render produces basename.png from the written DOT file using the first
// Graphviz layout binary found on PATH. A missing binary or failed render
// is logged, never fatal.
func Render(dotPath, basename string, logger *slog.Logger) {
	for _, bin := range []string{"sfdp", "dot"} {
		path, err := exec.LookPath(bin)
		if err != nil {
			continue
		}
		cmd := exec.Command(path, "-Tpng", "-o", basename+".png", dotPath)
		if out, err := cmd.CombinedOutput(); err != nil {
			logger.Warn("preview: render failed",
				slog.String("binary", bin),
				slog.String("error", err.Error()),
				slog.String("output", string(out)))
			return
		}
		logger.Info("preview: rendered", slog.String("path", basename+".png"))
		return
	}
	logger.Warn("preview: no graphviz binary on PATH, skipping png render")
}
