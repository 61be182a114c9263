// Package constants provides shared constants used throughout the geomap codebase.
// This includes the default upstream endpoints, the per-run call budget, timeouts
// and file permissions that should be consistent across the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests to upstream APIs
	DefaultHTTPTimeout = 30 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Enrichment defaults
const (
	// DefaultBudget is the number of geolocation calls allowed per run.
	// ip-api.com's free tier allows 45 requests per minute.
	DefaultBudget = 45

	// UnlimitedBudget disables the per-run call cap.
	UnlimitedBudget = -1

	// DefaultDelay is the pause enforced between consecutive geolocation calls
	DefaultDelay = 100 * time.Millisecond

	// DefaultLookupCacheSize is the number of addresses kept by the lookup cache
	DefaultLookupCacheSize = 1024
)

// Endpoint and path defaults
const (
	// DefaultEndpoint is the cluster JSON-RPC endpoint
	DefaultEndpoint = "https://x1-testnet-rpc.surge.sh"

	// DefaultGeoURL is the base URL of the geolocation service
	DefaultGeoURL = "http://ip-api.com"

	// DefaultDatasetPath is where the enriched dataset is persisted
	DefaultDatasetPath = "validator-locations.json"

	// EnvPrefix is the prefix for environment variable configuration
	EnvPrefix = "GEOMAP"

	// ConfigName is the config file base name searched in $HOME and the working directory
	ConfigName = ".geomap"
)

// Format constants
const (
	// TimeFormatISO8601 is the ISO 8601 time format
	TimeFormatISO8601 = time.RFC3339
)
