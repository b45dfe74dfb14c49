package catalog

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sweetpotato0/intakekit/pkg/logging"
)

// Source supplies the questions a catalog is built from. Implementations
// live where their backing store lives (YAML file here, MongoDB under
// catalog/store).
type Source interface {
	Load() ([]Question, error)
}

type catalogFile struct {
	Catalog []Question `yaml:"catalog"`
}

// LoadFile reads a YAML catalog file and builds a Catalog from it.
// A load failure is fatal to the caller: no catalog means no selection.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Load reads a YAML catalog document from r and builds a Catalog.
func Load(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML catalog bytes and builds a Catalog.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	c, err := New(file.Catalog)
	if err != nil {
		return nil, err
	}

	if skipped := len(file.Catalog) - c.Len(); skipped > 0 {
		logging.WithComponent("catalog").Warn("skipped malformed catalog entries",
			"skipped", skipped, "loaded", c.Len())
	}
	return c, nil
}

// FromSource builds a Catalog from any Source implementation.
func FromSource(src Source) (*Catalog, error) {
	questions, err := src.Load()
	if err != nil {
		return nil, fmt.Errorf("load catalog source: %w", err)
	}
	return New(questions)
}
