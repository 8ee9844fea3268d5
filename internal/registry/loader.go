package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"modelcfg/internal/common/fsutil"
	"modelcfg/internal/modelconfig"
)

// LoadDir scans a directory for descriptor files (*.yaml, *.yml, *.json,
// *.toml; extension match is case-insensitive) and decodes one descriptor from
// each. Files are read in name order. Subdirectories and other files are
// ignored.
func LoadDir(dir string) ([]modelconfig.Descriptor, error) {
	base, err := fsutil.ExpandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var descs []modelconfig.Descriptor
	for _, e := range entries {
		if e.IsDir() || !isDescriptorFile(e.Name()) {
			continue
		}
		d, err := LoadFile(filepath.Join(abs, e.Name()))
		if err != nil {
			return nil, err
		}
		descs = append(descs, d)
	}
	return descs, nil
}

// LoadFile decodes a single descriptor file based on its extension. Unknown
// keys are rejected so a typo does not silently fall back to a zero value.
func LoadFile(path string) (modelconfig.Descriptor, error) {
	var d modelconfig.Descriptor
	b, err := os.ReadFile(path)
	if err != nil {
		return d, err
	}
	switch ext := fsutil.Ext(path); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		err = dec.Decode(&d)
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.DisallowUnknownFields()
		err = dec.Decode(&d)
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(b))
		dec.DisallowUnknownFields()
		err = dec.Decode(&d)
	default:
		return d, fmt.Errorf("unsupported descriptor extension: %s", ext)
	}
	if err != nil {
		return d, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return d, nil
}

func isDescriptorFile(name string) bool {
	switch fsutil.Ext(name) {
	case ".yaml", ".yml", ".json", ".toml":
		return true
	}
	return false
}
