package internal

// Option is a functional option for configuring a run.
type Option func(*application)

type application struct {
	config    *Config
	dataPath  string
	fast      bool
	dry       bool
	preview   bool
	withDebug bool
	quiet     bool
	watch     bool
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithDataPath sets the input data file path.
func WithDataPath(path string) Option {
	return func(a *application) {
		a.dataPath = path
	}
}

// WithFastMode resolves in dependency order, one registry call per
// fragment. Fails on cyclic dependencies.
func WithFastMode() Option {
	return func(a *application) {
		a.fast = true
	}
}

// WithDryRun parses and links only, skipping resolution entirely.
func WithDryRun() Option {
	return func(a *application) {
		a.dry = true
	}
}

// WithPreview writes a DOT/PNG preview of the dependency graph.
func WithPreview() Option {
	return func(a *application) {
		a.preview = true
	}
}

// WithDebugFragment appends a synthetic fragment enumerating every
// fragment name.
func WithDebugFragment() Option {
	return func(a *application) {
		a.withDebug = true
	}
}

// WithQuiet suppresses per-fragment progress lines.
func WithQuiet() Option {
	return func(a *application) {
		a.quiet = true
	}
}

// WithWatch keeps the process running, re-resolving whenever the data file
// changes.
func WithWatch() Option {
	return func(a *application) {
		a.watch = true
	}
}
