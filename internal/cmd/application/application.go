// Package application provides the application interface shared by all
// commands. Commands accept this interface rather than the concrete App so
// they can be tested with Mock.
package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/geomap"
)

// Application defines what commands need from the app.
type Application interface {
	// Geomap returns the geomap instance built from the loaded configuration,
	// creating it lazily if needed.
	Geomap() (geomap.Geomap, error)

	// GeomapWithOptions returns a new geomap instance built from the loaded
	// configuration with opts applied on top.
	GeomapWithOptions(opts ...geomap.Option) (geomap.Geomap, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
