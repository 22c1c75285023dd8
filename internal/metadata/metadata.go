// Package metadata loads the static gateway metadata served on
// /api/metadata. The file is read once at startup.
package metadata

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Gateway is the configuration-derived object exposed to clients.
type Gateway struct {
	Service  string   `yaml:"service" json:"service"`
	Version  string   `yaml:"version" json:"version"`
	Provider string   `yaml:"provider" json:"provider"`
	Features []string `yaml:"features" json:"features"`
}

type file struct {
	Gateway *Gateway `yaml:"gateway"`
}

// Load reads the metadata file. A missing file or a file without the
// required gateway section is an error; the caller decides whether that
// is fatal.
func Load(path string) (*Gateway, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata file: %w", err)
	}

	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("failed to parse metadata file %s: %w", path, err)
	}

	if f.Gateway == nil {
		return nil, fmt.Errorf("metadata file %s is missing the gateway section", path)
	}

	return f.Gateway, nil
}
