package app

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/agentstation/geomap"
	"github.com/agentstation/geomap/pkg/errors"
	"github.com/agentstation/geomap/pkg/logging"
)

func newTestApp(t *testing.T, opts ...Option) *App {
	t.Helper()
	chdirTemp(t)

	logger := zerolog.Nop()
	app, err := New("1.0.0", "abc123", "2024-01-01", "test", append([]Option{WithLogger(&logger)}, opts...)...)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return app
}

// TestApp_New verifies app initialization.
func TestApp_New(t *testing.T) {
	app := newTestApp(t)

	if app.Version() != "1.0.0" {
		t.Errorf("Version() = %s, want 1.0.0", app.Version())
	}
	if app.Commit() != "abc123" {
		t.Errorf("Commit() = %s, want abc123", app.Commit())
	}
	if app.Date() != "2024-01-01" {
		t.Errorf("Date() = %s, want 2024-01-01", app.Date())
	}
	if app.BuiltBy() != "test" {
		t.Errorf("BuiltBy() = %s, want test", app.BuiltBy())
	}
	if app.Logger() == nil {
		t.Error("Logger() returned nil")
	}
	if app.Config() == nil {
		t.Error("Config() returned nil")
	}
}

// TestApp_Geomap_Singleton verifies that Geomap() returns the same instance.
func TestApp_Geomap_Singleton(t *testing.T) {
	app := newTestApp(t)

	gm1, err := app.Geomap()
	if err != nil {
		t.Fatalf("Geomap() failed: %v", err)
	}
	gm2, err := app.Geomap()
	if err != nil {
		t.Fatalf("Geomap() failed on second call: %v", err)
	}
	if gm1 != gm2 {
		t.Error("Geomap() returned different instances, expected singleton")
	}
}

// TestApp_GeomapWithOptions verifies options layer over the configuration.
func TestApp_GeomapWithOptions(t *testing.T) {
	app := newTestApp(t)

	path := filepath.Join(t.TempDir(), "out.yaml")
	gm, err := app.GeomapWithOptions(geomap.WithOutput(path))
	if err != nil {
		t.Fatalf("GeomapWithOptions() failed: %v", err)
	}
	if gm.Store().Path() != path {
		t.Errorf("Store().Path() = %s, want %s", gm.Store().Path(), path)
	}
}

// TestApp_InvalidConfig verifies validation runs before building a geomap.
func TestApp_InvalidConfig(t *testing.T) {
	app := newTestApp(t, WithConfig(&Config{Endpoint: "not a url", GeoURL: "http://ip-api.com", Output: "x.json"}))

	if _, err := app.Geomap(); !errors.IsValidationError(err) {
		t.Errorf("Geomap() error = %v, want validation error", err)
	}
}

// TestApp_WithGeomap verifies an injected instance is returned as is.
func TestApp_WithGeomap(t *testing.T) {
	chdirTemp(t)
	injected, err := geomap.New()
	if err != nil {
		t.Fatalf("geomap.New() failed: %v", err)
	}
	app := newTestApp(t, WithGeomap(injected))

	got, err := app.Geomap()
	if err != nil {
		t.Fatalf("Geomap() failed: %v", err)
	}
	if got != injected {
		t.Error("Geomap() did not return the injected instance")
	}
}

// TestApp_Execute_Version verifies command wiring end to end.
func TestApp_Execute_Version(t *testing.T) {
	app := newTestApp(t)

	root := app.createRootCommand()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"version", "--log-level", "error"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	if !strings.Contains(buf.String(), "geomap 1.0.0") {
		t.Errorf("version output = %q", buf.String())
	}
	if app.Config().LogLevel != "error" {
		t.Errorf("LogLevel = %q, want error", app.Config().LogLevel)
	}
}

// TestApp_Execute_ConfiguresDefaultLogger verifies the resolved log level
// reaches the process default logger used by library packages.
func TestApp_Execute_ConfiguresDefaultLogger(t *testing.T) {
	original := *logging.Default()
	originalLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		logging.SetDefault(original)
		zerolog.SetGlobalLevel(originalLevel)
	})

	app := newTestApp(t)
	app.Config().LogOutput = "discard"

	root := app.createRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"version", "--quiet"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	if got := logging.Default().GetLevel(); got != zerolog.WarnLevel {
		t.Errorf("default logger level = %s, want warn", got)
	}
	if app.Logger() != logging.Default() {
		t.Error("Logger() should return the configured default logger")
	}
}

// TestApp_Execute_Commands verifies every command is registered.
func TestApp_Execute_Commands(t *testing.T) {
	app := newTestApp(t)
	root := app.createRootCommand()

	for _, name := range []string{"generate", "list", "stats", "version"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("command %s not registered", name)
		}
	}
}

// TestApp_Execute_MissingConfigFile verifies an explicit --config must exist.
func TestApp_Execute_MissingConfigFile(t *testing.T) {
	app := newTestApp(t)

	err := app.Execute(context.Background(), []string{"--config", "/nonexistent/geomap.yaml", "version"})
	if err == nil {
		t.Fatal("Execute() with a missing config file should fail")
	}
}
