package simconf

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// LoadFile reads a configuration document and resolves it through
// FromMap. The format follows the file extension: .yaml/.yml, .json or
// .toml. The decoded document must be a mapping at the top level.
func LoadFile(path string) (Config, error) {
	raw, err := ReadRawFile(path)
	if err != nil {
		return Config{}, err
	}
	return FromMap(raw)
}

// ReadRawFile reads and decodes a configuration document into the raw
// mapping FromMap consumes, without resolving it. Useful when a caller
// needs to inspect the document itself, e.g. whether lj_params were
// given explicitly.
func ReadRawFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("simconf: read %s: %w", path, err)
	}

	raw, err := decodeMapping(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("simconf: decode %s: %w", path, err)
	}

	return raw, nil
}

// decodeMapping decodes a document into the generic mapping FromMap
// consumes.
func decodeMapping(data []byte, ext string) (map[string]any, error) {
	raw := map[string]any{}
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	case ".json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	case ".toml":
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q (want .yaml, .yml, .json or .toml)", ext)
	}
	return raw, nil
}
