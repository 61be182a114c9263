// Package app provides the application context and dependency management
// for the geomap CLI. It centralizes configuration, logging and the lazily
// built geomap instance that commands share.
package app

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/geomap"
	"github.com/agentstation/geomap/internal/cmd/application"
)

// App represents the geomap application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// Geomap instance (lazy-initialized, singleton)
	mu     sync.Mutex
	geomap geomap.Geomap
}

// Ensure App implements application.Application at compile time.
var _ application.Application = (*App)(nil)

// New creates a new App instance with the given version information.
// Configuration is loaded from the environment, .env files and the config
// file, and can be replaced with functional options.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the output format chosen with -o/--format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Geomap returns the geomap instance, creating it from the configuration
// on first use.
func (a *App) Geomap() (geomap.Geomap, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.geomap != nil {
		return a.geomap, nil
	}

	gm, err := a.GeomapWithOptions()
	if err != nil {
		return nil, err
	}
	a.geomap = gm
	return gm, nil
}

// GeomapWithOptions returns a new geomap instance from the configuration
// with opts applied on top, e.g. values of command specific flags.
func (a *App) GeomapWithOptions(opts ...geomap.Option) (geomap.Geomap, error) {
	if err := a.config.Validate(); err != nil {
		return nil, err
	}
	all := append(a.config.Options(), opts...)
	return geomap.New(all...)
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithGeomap sets a custom geomap instance (useful for testing).
func WithGeomap(gm geomap.Geomap) Option {
	return func(a *App) error {
		a.geomap = gm
		return nil
	}
}
