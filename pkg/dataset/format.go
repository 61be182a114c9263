package dataset

import (
	"path/filepath"
	"strings"

	"github.com/agentstation/geomap/pkg/errors"
)

// Format is a dataset serialization format.
type Format int

// Format constants.
const (
	FormatJSON Format = iota
	FormatYAML
)

// IsValid checks if the format is valid.
func (f Format) IsValid() bool {
	switch f {
	case FormatJSON, FormatYAML:
		return true
	default:
		return false
	}
}

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	}
	return "unknown"
}

// ParseFormat converts a format name to a Format. An empty name infers the
// format from path.
func ParseFormat(name, path string) (Format, error) {
	switch strings.ToLower(name) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "", "auto":
		return FormatFor(path), nil
	default:
		return FormatJSON, errors.NewValidationError("dataset_format", name, "must be one of: json, yaml")
	}
}

// ExplicitFormat parses a format name that overrides extension inference.
// It reports false for an empty or "auto" name.
func ExplicitFormat(name string) (Format, bool, error) {
	if name == "" || strings.EqualFold(name, "auto") {
		return FormatJSON, false, nil
	}
	f, err := ParseFormat(name, "")
	if err != nil {
		return FormatJSON, false, err
	}
	return f, true, nil
}

// FormatFor infers the format from a file extension; anything other than
// .yaml or .yml is JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}
