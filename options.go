package geomap

import (
	"net/http"
	"time"

	"github.com/agentstation/geomap/pkg/constants"
	"github.com/agentstation/geomap/pkg/dataset"
	"github.com/agentstation/geomap/pkg/errors"
)

// Option is a function that configures a Geomap instance
type Option func(*config) error

// config holds the settings of a Geomap instance
type config struct {
	endpoint  string
	rpcToken  string
	geoURL    string
	geoKey    string
	output    string
	format    dataset.Format
	formatSet bool
	budget    int
	delay     time.Duration
	cacheSize int

	httpClient *http.Client
}

func defaultConfig() *config {
	return &config{
		endpoint:  constants.DefaultEndpoint,
		geoURL:    constants.DefaultGeoURL,
		output:    constants.DefaultDatasetPath,
		budget:    constants.DefaultBudget,
		delay:     constants.DefaultDelay,
		cacheSize: constants.DefaultLookupCacheSize,
	}
}

func (c *config) apply(opts ...Option) (*config, error) {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// WithEndpoint configures the cluster JSON-RPC endpoint
func WithEndpoint(endpoint string) Option {
	return func(c *config) error {
		if endpoint == "" {
			return errors.NewValidationError("endpoint", endpoint, "cannot be empty")
		}
		c.endpoint = endpoint
		return nil
	}
}

// WithRPCToken configures a bearer token sent to the cluster endpoint
func WithRPCToken(token string) Option {
	return func(c *config) error {
		c.rpcToken = token
		return nil
	}
}

// WithGeoURL configures the base URL of the geolocation service
func WithGeoURL(url string) Option {
	return func(c *config) error {
		if url == "" {
			return errors.NewValidationError("geo_url", url, "cannot be empty")
		}
		c.geoURL = url
		return nil
	}
}

// WithGeoKey configures the key query parameter for paid geolocation plans
func WithGeoKey(key string) Option {
	return func(c *config) error {
		c.geoKey = key
		return nil
	}
}

// WithOutput configures the dataset path
func WithOutput(path string) Option {
	return func(c *config) error {
		if path == "" {
			return errors.NewValidationError("output", path, "cannot be empty")
		}
		c.output = path
		return nil
	}
}

// WithFormat configures the dataset format, overriding the path extension
func WithFormat(f dataset.Format) Option {
	return func(c *config) error {
		if !f.IsValid() {
			return errors.NewValidationError("dataset_format", f, "must be json or yaml")
		}
		c.format = f
		c.formatSet = true
		return nil
	}
}

// WithBudget configures how many geolocation calls one run may make.
// A negative budget is unlimited.
func WithBudget(budget int) Option {
	return func(c *config) error {
		c.budget = budget
		return nil
	}
}

// WithDelay configures the minimum spacing between geolocation calls
func WithDelay(delay time.Duration) Option {
	return func(c *config) error {
		if delay < 0 {
			return errors.NewValidationError("delay", delay, "cannot be negative")
		}
		c.delay = delay
		return nil
	}
}

// WithCacheSize configures the number of addresses the lookup cache keeps
func WithCacheSize(size int) Option {
	return func(c *config) error {
		c.cacheSize = size
		return nil
	}
}

// WithHTTPClient configures the HTTP client used for both upstream services
func WithHTTPClient(hc *http.Client) Option {
	return func(c *config) error {
		c.httpClient = hc
		return nil
	}
}
