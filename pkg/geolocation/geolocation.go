// Package geolocation resolves IP addresses to approximate locations using an
// ip-api.com compatible lookup service.
//
// Locate never returns an error: transport failures, non-success statuses and
// malformed bodies are logged as lookup misses and reported as absence, so a
// single bad address cannot abort a run.
package geolocation

import (
	"context"
	"net/url"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/agentstation/geomap/internal/transport"
	"github.com/agentstation/geomap/pkg/constants"
	"github.com/agentstation/geomap/pkg/errors"
	"github.com/agentstation/geomap/pkg/logging"
	"github.com/agentstation/geomap/pkg/validators"
)

// Fields is the fixed field set requested from the lookup service.
const Fields = "status,country,countryCode,region,city,lat,lon,isp"

// StatusSuccess is the status value reported for a resolved address.
const StatusSuccess = "success"

// Locator resolves a single address.
type Locator interface {
	Locate(ctx context.Context, address string) (*validators.Location, bool)
}

// Response is the lookup service's JSON body.
type Response struct {
	Status      string  `json:"status"`
	Message     string  `json:"message,omitempty"`
	Country     string  `json:"country"`
	CountryCode string  `json:"countryCode"`
	Region      string  `json:"region"`
	City        string  `json:"city"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	ISP         string  `json:"isp"`
}

// Location converts a successful response to a validators.Location.
func (r Response) Location() *validators.Location {
	return &validators.Location{
		Country:     r.Country,
		CountryCode: r.CountryCode,
		Region:      r.Region,
		City:        r.City,
		Latitude:    r.Lat,
		Longitude:   r.Lon,
		ISP:         r.ISP,
	}
}

// Client queries the lookup service one address per request.
type Client struct {
	baseURL   string
	transport *transport.Client
	cache     *lru.Cache[string, validators.Location]
}

var _ Locator = (*Client)(nil)

type options struct {
	baseURL   string
	transport *transport.Client
	cacheSize int
}

// Option configures a Client.
type Option func(*options)

// WithBaseURL sets the lookup service base URL (scheme and host).
func WithBaseURL(baseURL string) Option {
	return func(o *options) {
		o.baseURL = baseURL
	}
}

// WithTransport sets the transport client, e.g. one carrying a paid-tier key.
func WithTransport(t *transport.Client) Option {
	return func(o *options) {
		if t != nil {
			o.transport = t
		}
	}
}

// WithCacheSize sets how many resolved addresses are remembered.
// Zero or less disables the cache.
func WithCacheSize(size int) Option {
	return func(o *options) {
		o.cacheSize = size
	}
}

// New creates a lookup client.
func New(opts ...Option) (*Client, error) {
	o := &options{
		baseURL:   constants.DefaultGeoURL,
		cacheSize: constants.DefaultLookupCacheSize,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.transport == nil {
		o.transport = transport.New()
	}

	if _, err := url.ParseRequestURI(o.baseURL); err != nil {
		return nil, errors.NewConfigError("geolocation", "invalid base URL "+o.baseURL, err)
	}

	c := &Client{
		baseURL:   strings.TrimRight(o.baseURL, "/"),
		transport: o.transport,
	}
	if o.cacheSize > 0 {
		cache, err := lru.New[string, validators.Location](o.cacheSize)
		if err != nil {
			return nil, errors.NewConfigError("geolocation", "cannot create lookup cache", err)
		}
		c.cache = cache
	}
	return c, nil
}

// Locate resolves address. It reports false when the service did not
// return a location, for any reason.
//
// At most one request is sent per call. An address already resolved by this
// client is answered from the cache without a request; callers that pace or
// budget invocations still count such calls.
func (c *Client) Locate(ctx context.Context, address string) (*validators.Location, bool) {
	logger := logging.FromContext(ctx)

	if c.cache != nil {
		if loc, ok := c.cache.Get(address); ok {
			logger.Debug().Str("ip", address).Msg("Using cached location")
			return &loc, true
		}
	}

	loc, err := c.lookup(ctx, address)
	if err != nil {
		logger.Warn().Err(err).Str("ip", address).Msg("Failed to geolocate")
		return nil, false
	}

	if c.cache != nil {
		c.cache.Add(address, *loc)
	}
	return loc, true
}

// URL returns the request URL for address.
func (c *Client) URL(address string) string {
	return c.baseURL + "/json/" + url.PathEscape(address) + "?fields=" + Fields
}

func (c *Client) lookup(ctx context.Context, address string) (*validators.Location, error) {
	resp, err := c.transport.Get(ctx, c.URL(address))
	if err != nil {
		return nil, &errors.LookupError{Address: address, Err: err}
	}

	var body Response
	if err := transport.DecodeResponse(resp, &body); err != nil {
		return nil, &errors.LookupError{Address: address, Err: err}
	}
	if body.Status != StatusSuccess {
		return nil, &errors.LookupError{Address: address, Status: body.Status}
	}
	return body.Location(), nil
}
