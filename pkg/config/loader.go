package config

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parse decodes a JSON or YAML document.
func Parse(data []byte) (*Document, error) {
	return parse(data, "<input>")
}

// LoadFile reads and parses a single configuration file.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return parse(data, path)
}

// LoadFS walks fsys and merges every JSON/YAML document in lexical path
// order, later files overriding earlier ones. A nil fsys yields an empty
// document.
func LoadFS(fsys fs.FS) (*Document, error) {
	doc := New()
	if fsys == nil {
		return doc, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isConfigFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("config: read %s: %w", path, err)
		}

		layer, err := parse(data, path)
		if err != nil {
			return err
		}
		doc = Merge(doc, layer)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadFiles parses each path and merges them in the given order.
func LoadFiles(paths ...string) (*Document, error) {
	doc := New()
	for _, path := range paths {
		layer, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		doc = Merge(doc, layer)
	}
	return doc, nil
}

// MarshalYAML implements yaml.Marshaler using the normalised mapping shape.
func (d *Document) MarshalYAML() (any, error) {
	return d.Map(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Document) UnmarshalYAML(node *yaml.Node) error {
	var raw map[string]any
	if err := node.Decode(&raw); err != nil {
		return fmt.Errorf("config: decode: %w", err)
	}
	parsed, err := FromMap(raw)
	if err != nil {
		return err
	}
	*d = *parsed
	return nil
}

func parse(data []byte, source string) (*Document, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("config: file %s is empty", source)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		raw = nil
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("config: parse %s: invalid JSON or YAML: %w", source, err)
		}
	}

	doc, err := FromMap(raw)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", source, err)
	}
	return doc, nil
}

func isConfigFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
