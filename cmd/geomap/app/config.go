package app

import (
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/geomap"
	"github.com/agentstation/geomap/pkg/constants"
	"github.com/agentstation/geomap/pkg/dataset"
	"github.com/agentstation/geomap/pkg/errors"
)

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Upstream services
	Endpoint string
	RPCToken string
	GeoURL   string
	GeoKey   string

	// Enrichment
	Budget    int
	Delay     time.Duration
	CacheSize int

	// Dataset
	Output        string
	DatasetFormat string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables (GEOMAP_ prefix)
// 3. .env files
// 4. Config file (~/.geomap.yaml or ./.geomap.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	return LoadConfigFile("")
}

// LoadConfigFile is LoadConfig with an explicit config file. Unlike the
// searched locations, an explicit file must exist.
func LoadConfigFile(configFile string) (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	v := newViper()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("config", "cannot read "+configFile, err)
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(constants.ConfigName)

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.NewConfigError("config", "cannot parse config file", err)
			}
		}
	}

	return fromViper(v), nil
}

// newViper returns a viper instance with defaults and environment binding.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("endpoint", constants.DefaultEndpoint)
	v.SetDefault("geo_url", constants.DefaultGeoURL)
	v.SetDefault("budget", constants.DefaultBudget)
	v.SetDefault("cache_size", constants.DefaultLookupCacheSize)
	v.SetDefault("output", constants.DefaultDatasetPath)
	v.SetDefault("log_level", "")
	v.SetDefault("log_format", "auto")
	v.SetDefault("log_output", "stderr")

	return v
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		Endpoint: v.GetString("endpoint"),
		RPCToken: v.GetString("rpc_token"),
		GeoURL:   v.GetString("geo_url"),
		GeoKey:   v.GetString("geo_key"),

		Budget:    v.GetInt("budget"),
		Delay:     delayFrom(v),
		CacheSize: v.GetInt("cache_size"),

		Output:        v.GetString("output"),
		DatasetFormat: v.GetString("dataset_format"),

		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),
		LogOutput: v.GetString("log_output"),
	}
}

// delayFrom reads the inter-call delay as a duration ("250ms") or, failing
// that, as whole milliseconds under delay_ms.
func delayFrom(v *viper.Viper) time.Duration {
	if v.IsSet("delay") {
		return v.GetDuration("delay")
	}
	if v.IsSet("delay_ms") {
		return time.Duration(v.GetInt64("delay_ms")) * time.Millisecond
	}
	return constants.DefaultDelay
}

// UpdateFromFlags updates config values from parsed global flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
// Unset flags leave the loaded values alone.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = c.Verbose || verbose
	c.Quiet = c.Quiet || quiet
	c.NoColor = c.NoColor || noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.Endpoint == "" {
		result = multierror.Append(result, errors.NewValidationError("endpoint", c.Endpoint, "cannot be empty"))
	} else if err := validateURL(c.Endpoint); err != nil {
		result = multierror.Append(result, errors.NewValidationError("endpoint", c.Endpoint, err.Error()))
	}

	if err := validateURL(c.GeoURL); err != nil {
		result = multierror.Append(result, errors.NewValidationError("geo_url", c.GeoURL, err.Error()))
	}

	if c.Delay < 0 {
		result = multierror.Append(result, errors.NewValidationError("delay", c.Delay, "cannot be negative"))
	}

	if c.Output == "" {
		result = multierror.Append(result, errors.NewValidationError("output", c.Output, "cannot be empty"))
	}

	if _, _, err := dataset.ExplicitFormat(c.DatasetFormat); err != nil {
		result = multierror.Append(result, err)
	}

	return result.ErrorOrNil()
}

// Options translates the configuration into geomap options.
func (c *Config) Options() []geomap.Option {
	opts := []geomap.Option{
		geomap.WithEndpoint(c.Endpoint),
		geomap.WithRPCToken(c.RPCToken),
		geomap.WithGeoURL(c.GeoURL),
		geomap.WithGeoKey(c.GeoKey),
		geomap.WithBudget(c.Budget),
		geomap.WithDelay(c.Delay),
		geomap.WithCacheSize(c.CacheSize),
		geomap.WithOutput(c.Output),
	}
	if format, explicit, err := dataset.ExplicitFormat(c.DatasetFormat); err == nil && explicit {
		opts = append(opts, geomap.WithFormat(format))
	}
	return opts
}

func validateURL(raw string) error {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("scheme must be http or https")
	}
	return nil
}

// loadEnvFiles loads environment variables from .env files.
func loadEnvFiles() {
	// godotenv never overrides variables that are already set, so the
	// first file to set a key wins: .env.local takes precedence over .env
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}
