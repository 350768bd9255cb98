package render

import (
	"path"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// Theme keys understood by the leaflet field.
const (
	PartialLeafletField    = "forms.leaflet"
	AssetLeafletScript     = "leafletfield.script"
	AssetLeafletStylesheet = "leafletfield.stylesheet"
)

// ThemeConfig is the renderer-facing projection of a go-theme selection.
type ThemeConfig struct {
	Theme    string
	Variant  string
	Partials map[string]string
	Tokens   map[string]string
	CSSVars  map[string]string
	// AssetURL resolves a manifest asset key to a URL. Nil when the theme
	// ships no assets.
	AssetURL func(key string) string
}

// ThemeFromSelection flattens the selection's manifest and variant. Variant
// values win over the base manifest. fallbacks seed partials the theme does not
// override.
func ThemeFromSelection(selection *theme.Selection, fallbacks map[string]string) *ThemeConfig {
	cfg := &ThemeConfig{
		Partials: map[string]string{},
		Tokens:   map[string]string{},
		CSSVars:  map[string]string{},
	}
	for key, value := range fallbacks {
		cfg.Partials[key] = value
	}
	if selection == nil {
		return cfg
	}
	cfg.Theme = selection.Theme
	cfg.Variant = selection.Variant

	manifest := selection.Manifest
	if manifest == nil {
		return cfg
	}

	prefix := strings.TrimSpace(manifest.Assets.Prefix)
	files := map[string]string{}
	for key, value := range manifest.Assets.Files {
		files[key] = value
	}
	for key, value := range manifest.Templates {
		cfg.Partials[key] = value
	}
	for key, value := range manifest.Tokens {
		cfg.Tokens[key] = value
	}

	if variant, ok := manifest.Variants[selection.Variant]; ok {
		for key, value := range variant.Templates {
			cfg.Partials[key] = value
		}
		for key, value := range variant.Tokens {
			cfg.Tokens[key] = value
		}
		if p := strings.TrimSpace(variant.Assets.Prefix); p != "" {
			prefix = p
		}
		for key, value := range variant.Assets.Files {
			files[key] = value
		}
	}

	for key, value := range cfg.Tokens {
		cfg.CSSVars["--"+key] = value
	}

	if len(files) > 0 {
		cfg.AssetURL = func(key string) string {
			file := strings.TrimSpace(files[key])
			if file == "" {
				return ""
			}
			if strings.Contains(file, "://") || strings.HasPrefix(file, "//") || prefix == "" {
				return file
			}
			return path.Join(prefix, file)
		}
	}
	return cfg
}

// Partial returns the template override for key, or def.
func (c *ThemeConfig) Partial(key, def string) string {
	if c == nil {
		return def
	}
	if candidate := strings.TrimSpace(c.Partials[key]); candidate != "" {
		return candidate
	}
	return def
}

// Asset resolves a manifest asset key, or returns def.
func (c *ThemeConfig) Asset(key, def string) string {
	if c == nil || c.AssetURL == nil {
		return def
	}
	if url := c.AssetURL(key); url != "" {
		return url
	}
	return def
}

// StyleAttr renders the CSS variables as an inline style value, sorted by name.
func (c *ThemeConfig) StyleAttr() string {
	if c == nil || len(c.CSSVars) == 0 {
		return ""
	}
	names := make([]string, 0, len(c.CSSVars))
	for name := range c.CSSVars {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+c.CSSVars[name])
	}
	return strings.Join(parts, "; ")
}
