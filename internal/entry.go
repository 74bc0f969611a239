// Package internal wires parsing, linking, and resolution into one runnable
// command.
package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/lmittmann/tint"
	"golang.org/x/sync/errgroup"

	"github.com/fortuna-events/weft/internal/checksum"
	"github.com/fortuna-events/weft/internal/display"
	"github.com/fortuna-events/weft/internal/graph"
	"github.com/fortuna-events/weft/internal/ledger"
	"github.com/fortuna-events/weft/internal/models"
	"github.com/fortuna-events/weft/internal/parser"
	"github.com/fortuna-events/weft/internal/payload"
	"github.com/fortuna-events/weft/internal/preview"
	"github.com/fortuna-events/weft/internal/registry"
	"github.com/fortuna-events/weft/internal/resolver"
	"github.com/fortuna-events/weft/internal/target"
	"github.com/fortuna-events/weft/internal/watch"
)

// Run executes weft with the given options: parse the data file into
// fragments, link their dependencies, and publish every fragment as a short
// URL with all cross-references substituted.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{dataPath: "data.txt"}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	cfg := app.config

	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	table, err := cfg.Table()
	if err != nil {
		return fmt.Errorf("build target table: %w", err)
	}

	if !app.dry {
		if err := cfg.Registry.Complete(); err != nil {
			return fmt.Errorf("registry configuration: %w", err)
		}
	}

	var db *ledger.DB
	if cfg.Ledger.Path != "" {
		db, err = ledger.Open(cfg.Ledger.Path)
		if err != nil {
			return fmt.Errorf("open ledger: %w", err)
		}
		defer db.Close()
	}

	if err := app.runOnce(ctx, logger, table, db); err != nil {
		return err
	}
	if !app.watch {
		return nil
	}

	// Watch mode: keep re-running on data-file changes until a shutdown
	// signal arrives. Errors inside an iteration are logged, not fatal.
	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gCtx := errgroup.WithContext(watchCtx)

	g.Go(func() error {
		return watch.File(gCtx, app.dataPath, logger, func() {
			if err := app.runOnce(gCtx, logger, table, db); err != nil {
				logger.Error("run failed", slog.String("error", err.Error()))
			}
		})
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("received shutdown signal", slog.String("signal", sig.String()))
			cancel()
		case <-gCtx.Done():
		}
		return nil
	})

	return g.Wait()
}

// runOnce performs one full parse, link, resolve cycle.
func (app *application) runOnce(ctx context.Context, logger *slog.Logger, table target.Table, db *ledger.DB) error {
	data, err := os.ReadFile(app.dataPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", app.dataPath, err)
	}

	logger.Debug("read data file",
		slog.String("checksum", checksum.Short(data)),
		slog.Int("bytes", len(data)))

	links, err := parser.Parse(data, table)
	if err != nil {
		return err
	}
	if app.withDebug {
		links = parser.AppendDebug(links)
	}

	graph.Build(links)
	for _, pair := range graph.AmbiguousNames(links) {
		logger.Warn("ambiguous fragment names: one is a substring of the other",
			slog.String("name", pair[0]),
			slog.String("within", pair[1]))
	}
	logger.Info("linked fragments", slog.Int("count", len(links)))

	if db != nil {
		if err := preload(links, db, logger); err != nil {
			return err
		}
	}

	if app.preview {
		dotPath, err := preview.Write(links, "preview")
		if err != nil {
			return err
		}
		logger.Info("preview written", slog.String("path", dotPath))
		preview.Render(dotPath, "preview", logger)
	}

	if app.dry {
		logger.Info("dry run, skipping resolution")
		return nil
	}

	client := registry.NewClient(app.config.Registry.BaseURI, app.config.Registry.APIKey, app.config.Registry.Timeout())
	printer := display.NewPrinter(os.Stdout, app.quiet)
	r := resolver.New(client, payload.Encoder{}, func() { printer.Step(links) })

	printer.Step(links)
	var resolveErr error
	if app.fast {
		resolveErr = r.Fast(ctx, links)
	} else {
		resolveErr = r.TwoPhase(ctx, links)
	}

	// Record whatever URLs the run obtained, even when it aborted partway:
	// the next run preloads them and repoints instead of minting anew.
	if db != nil {
		record(links, db, logger)
	}
	if resolveErr != nil {
		return fmt.Errorf("resolve: %w", resolveErr)
	}

	logger.Info("resolved fragments", slog.Int("count", len(links)))
	return nil
}

// preload fills each link's short URL from the ledger so re-runs repoint
// the URLs already published for the same fragment names.
func preload(links []*models.Link, db *ledger.DB, logger *slog.Logger) error {
	for _, l := range links {
		short, sum, err := db.Lookup(l.Name)
		if err != nil {
			return err
		}
		if short == "" {
			continue
		}
		l.ShortURL = short
		if sum != checksum.SumString(l.Text) {
			logger.Debug("fragment content changed since last run", slog.String("name", l.Name))
		}
	}
	return nil
}

func record(links []*models.Link, db *ledger.DB, logger *slog.Logger) {
	for _, l := range links {
		if l.ShortURL == "" {
			continue
		}
		if err := db.Record(l.Name, l.Target.URI, l.ShortURL, checksum.SumString(l.Text)); err != nil {
			logger.Warn("ledger record failed",
				slog.String("name", l.Name),
				slog.String("error", err.Error()))
		}
	}
}
