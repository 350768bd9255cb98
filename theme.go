package leafletfield

import (
	"fmt"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-leafletfield/pkg/field"
	"github.com/goliatone/go-leafletfield/pkg/render"
)

// RenderOptions describes per-request overrides a field render can use to
// surface validation errors or apply a theme.
type RenderOptions = render.RenderOptions

// ThemeConfig aliases render.ThemeConfig for callers that only import the root
// package.
type ThemeConfig = render.ThemeConfig

// ResolveTheme selects a theme/variant through selector and flattens it into
// the configuration the field renders with. The built-in leaflet partial is the
// fallback for forms.leaflet.
func ResolveTheme(selector theme.ThemeSelector, name, variant string, opts ...theme.QueryOption) (*ThemeConfig, error) {
	fallbacks := map[string]string{render.PartialLeafletField: field.DefaultTemplate}
	if selector == nil {
		return render.ThemeFromSelection(nil, fallbacks), nil
	}
	selection, err := selector.Select(name, variant, opts...)
	if err != nil {
		return nil, fmt.Errorf("leafletfield: select theme %q/%q: %w", name, variant, err)
	}
	return render.ThemeFromSelection(selection, fallbacks), nil
}
