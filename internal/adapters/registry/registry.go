// Package registry stores registry entries as TOML, YAML or JSON documents.
package registry

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"
	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.Registry = (*FileRegistry)(nil)

type codec struct {
	marshal   func(v any) ([]byte, error)
	unmarshal func(data []byte, v any) error
}

var codecs = map[string]codec{
	".toml": {marshal: toml.Marshal, unmarshal: toml.Unmarshal},
	".yaml": {marshal: yaml.Marshal, unmarshal: yaml.Unmarshal},
	".yml":  {marshal: yaml.Marshal, unmarshal: yaml.Unmarshal},
	".json": {marshal: marshalJSON, unmarshal: json.Unmarshal},
}

func marshalJSON(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// FileRegistry implements ports.Registry on the local file system.
// The document format is chosen by the file extension.
type FileRegistry struct{}

// NewFileRegistry creates a new FileRegistry.
func NewFileRegistry() *FileRegistry {
	return &FileRegistry{}
}

func codecFor(path string) (codec, error) {
	c, ok := codecs[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return codec{}, zerr.With(zerr.Wrap(domain.ErrInvalidRegistryPath, "select registry format"), "path", path)
	}
	return c, nil
}

// Validate checks the extension of path.
func (r *FileRegistry) Validate(path string) error {
	_, err := codecFor(path)
	return err
}

// Write encodes entry and replaces the file at path.
func (r *FileRegistry) Write(path string, entry domain.RegistryEntry) error {
	c, err := codecFor(path)
	if err != nil {
		return err
	}

	data, err := c.marshal(entry)
	if err != nil {
		return writeFailed(err, "encode registry entry", path)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return writeFailed(err, "create registry directory", dir)
	}

	tmp := filepath.Join(dir, domain.HiddenPrefix+filepath.Base(path)+"-"+uuid.NewString())
	if err := os.WriteFile(tmp, data, domain.FilePerm); err != nil {
		return writeFailed(err, "write registry entry", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return writeFailed(err, "replace registry entry", path)
	}
	return nil
}

// Read decodes the entry at path.
func (r *FileRegistry) Read(path string) (*domain.RegistryEntry, error) {
	c, err := codecFor(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path) //nolint:gosec // Path is provided by user
	if err != nil {
		return nil, errors.Join(domain.ErrRegistryReadFailed,
			zerr.With(zerr.Wrap(err, "read registry entry"), "path", path))
	}

	var entry domain.RegistryEntry
	if err := c.unmarshal(data, &entry); err != nil {
		return nil, errors.Join(domain.ErrRegistryDecodeFailed,
			zerr.With(zerr.Wrap(err, "decode registry entry"), "path", path))
	}
	return &entry, nil
}

func writeFailed(err error, msg, path string) error {
	return errors.Join(domain.ErrRegistryWriteFailed, zerr.With(zerr.Wrap(err, msg), "path", path))
}
