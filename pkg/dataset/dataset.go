// Package dataset persists the enriched validator collection as a single
// pretty-printed file that is read in full at start and replaced in full at
// the end of a run.
package dataset

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/geomap/pkg/constants"
	"github.com/agentstation/geomap/pkg/errors"
	"github.com/agentstation/geomap/pkg/logging"
	"github.com/agentstation/geomap/pkg/validators"
)

// Store loads and saves the dataset file.
type Store struct {
	path   string
	format Format
}

// Option configures a Store.
type Option func(*Store)

// WithFormat overrides the format inferred from the path.
func WithFormat(f Format) Option {
	return func(s *Store) {
		if f.IsValid() {
			s.format = f
		}
	}
}

// New creates a store for path.
func New(path string, opts ...Option) *Store {
	if path == "" {
		path = constants.DefaultDatasetPath
	}
	s := &Store{path: path, format: FormatFor(path)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the dataset file path.
func (s *Store) Path() string {
	return s.path
}

// Format returns the serialization format.
func (s *Store) Format() Format {
	return s.format
}

// Load returns the persisted records keyed by node identity. A missing or
// unparseable file is a cold start: the problem is logged and an empty map
// is returned.
func (s *Store) Load(ctx context.Context) map[string]validators.Record {
	logger := logging.FromContext(ctx)

	records, err := s.Read()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info().Str("path", s.path).Msg("No existing data found, starting fresh")
		} else {
			logger.Warn().Err(err).Str("path", s.path).Msg("Existing data unreadable, starting fresh")
		}
		return make(map[string]validators.Record)
	}

	existing := validators.Index(records)
	logger.Info().Int("existing", len(existing)).Str("path", s.path).Msg("Loaded existing locations")
	return existing
}

// Read returns the records in file order. Errors are *errors.StoreError.
func (s *Store) Read() ([]validators.Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, &errors.StoreError{Path: s.path, Operation: "read", Err: err}
	}

	records, err := Decode(data, s.format)
	if err != nil {
		return nil, &errors.StoreError{Path: s.path, Operation: "parse", Err: err}
	}
	return records, nil
}

// Save replaces the dataset file with records. The data is written to a
// temporary file in the same directory and renamed into place.
func (s *Store) Save(ctx context.Context, records []validators.Record) error {
	data, err := Encode(records, s.format)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return errors.WrapIO("create", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return errors.WrapIO("create", dir, err)
	}
	tmpName := tmp.Name()
	defer func() {
		// no-op once the rename has succeeded
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.WrapIO("write", tmpName, err)
	}
	if err := tmp.Chmod(constants.FilePermissions); err != nil {
		_ = tmp.Close()
		return errors.WrapIO("chmod", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.WrapIO("close", tmpName, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return errors.WrapIO("rename", s.path, err)
	}

	logging.FromContext(ctx).Info().Int("records", len(records)).Str("path", s.path).Msg("Saved dataset")
	return nil
}

// Encode serializes records with 2-space indentation.
func Encode(records []validators.Record, format Format) ([]byte, error) {
	if records == nil {
		records = []validators.Record{}
	}

	switch format {
	case FormatYAML:
		data, err := yaml.MarshalWithOptions(records, yaml.Indent(2), yaml.IndentSequence(false))
		if err != nil {
			return nil, errors.WrapParse("yaml", "dataset", err)
		}
		return data, nil
	default:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(records); err != nil {
			return nil, errors.WrapParse("json", "dataset", err)
		}
		return bytes.TrimRight(buf.Bytes(), "\n"), nil
	}
}

// Decode parses a serialized dataset.
func Decode(data []byte, format Format) ([]validators.Record, error) {
	var records []validators.Record
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &records); err != nil {
			return nil, errors.WrapParse("yaml", "dataset", err)
		}
	default:
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, errors.WrapParse("json", "dataset", err)
		}
	}
	return records, nil
}
