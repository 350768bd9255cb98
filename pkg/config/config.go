// Package config holds the map/draw defaults every leaflet field starts from.
// Defaults are an explicit value handed to each field at construction; there is
// no package-level mutable state.
package config

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/leafletfield.yaml
var defaultsFS embed.FS

const defaultsPath = "defaults/leafletfield.yaml"

// Config mirrors the `map_options` / `draw_options` keys of the YAML file.
type Config struct {
	MapOptions  map[string]any `yaml:"map_options" json:"map_options"`
	DrawOptions map[string]any `yaml:"draw_options" json:"draw_options"`
}

// Default returns the shipped defaults. A broken embedded file yields an empty
// config rather than a panic so callers always get a usable value.
func Default() Config {
	cfg, err := LoadFS(defaultsFS, defaultsPath)
	if err != nil {
		return Config{MapOptions: map[string]any{}, DrawOptions: map[string]any{}}
	}
	return cfg
}

// Load decodes a YAML (or JSON) document.
func Load(r io.Reader) (Config, error) {
	if r == nil {
		return Config{}, fmt.Errorf("config: missing reader")
	}
	var cfg Config
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	return cfg.normalise(), nil
}

// LoadFile reads the config from disk.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Load(bytes.NewReader(data))
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// LoadFS reads the config from a filesystem.
func LoadFS(fsys fs.FS, path string) (Config, error) {
	if fsys == nil {
		return Config{}, fmt.Errorf("config: missing filesystem")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Load(bytes.NewReader(data))
}

// Merge layers other on top of c, top-level keys only. Neither input is
// mutated.
func (c Config) Merge(other Config) Config {
	out := c.Clone()
	for key, value := range other.MapOptions {
		out.MapOptions[key] = CloneValue(value)
	}
	for key, value := range other.DrawOptions {
		out.DrawOptions[key] = CloneValue(value)
	}
	return out
}

// Clone deep-copies both option maps.
func (c Config) Clone() Config {
	return Config{
		MapOptions:  CloneMap(c.MapOptions),
		DrawOptions: CloneMap(c.DrawOptions),
	}.normalise()
}

func (c Config) normalise() Config {
	if c.MapOptions == nil {
		c.MapOptions = map[string]any{}
	}
	if c.DrawOptions == nil {
		c.DrawOptions = map[string]any{}
	}
	return c
}

// CloneMap deep-copies nested maps and slices; scalar values are shared.
func CloneMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	out := make(map[string]any, len(src))
	for key, value := range src {
		out[key] = CloneValue(value)
	}
	return out
}

// CloneValue deep-copies the container types produced by YAML/JSON decoding.
func CloneValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return CloneMap(v)
	case map[any]any:
		out := make(map[any]any, len(v))
		for key, item := range v {
			out[key] = CloneValue(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for idx, item := range v {
			out[idx] = CloneValue(item)
		}
		return out
	case []string:
		return append([]string(nil), v...)
	default:
		return v
	}
}
