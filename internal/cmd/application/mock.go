package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/geomap"
)

// Mock provides a mock implementation of Application for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default/zero value.
//
// Example Usage:
//
//	mock := &application.Mock{
//	    GeomapFunc: func() (geomap.Geomap, error) {
//	        return testGeomap, nil
//	    },
//	}
//	cmd := list.NewCommand(mock)
type Mock struct {
	GeomapFunc            func() (geomap.Geomap, error)
	GeomapWithOptionsFunc func(opts ...geomap.Option) (geomap.Geomap, error)
	LoggerFunc            func() *zerolog.Logger
	OutputFormatFunc      func() string
	VersionFunc           func() string
	CommitFunc            func() string
	DateFunc              func() string
	BuiltByFunc           func() string
}

// Geomap returns a geomap using the mock function or nil.
func (m *Mock) Geomap() (geomap.Geomap, error) {
	if m.GeomapFunc != nil {
		return m.GeomapFunc()
	}
	return nil, nil
}

// GeomapWithOptions returns a geomap using the mock function, falling back
// to GeomapFunc.
func (m *Mock) GeomapWithOptions(opts ...geomap.Option) (geomap.Geomap, error) {
	if m.GeomapWithOptionsFunc != nil {
		return m.GeomapWithOptionsFunc(opts...)
	}
	return m.Geomap()
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns output format using the mock function or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builtBy using the mock function or "test".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "test"
}

// Ensure Mock implements Application at compile time.
var _ Application = (*Mock)(nil)
