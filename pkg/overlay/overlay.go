// Package overlay builds the read-only GeoJSON layers shown next to the
// editable geometry. Overlays are display data only; they never round-trip
// through the field's value or the record.
package overlay

import (
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// FromFeatureCollections converts orb collections into the generic payloads
// the field serialises into data-map-layers. Nil collections are skipped.
func FromFeatureCollections(collections ...*geojson.FeatureCollection) ([]any, error) {
	layers := make([]any, 0, len(collections))
	for idx, fc := range collections {
		if fc == nil {
			continue
		}
		raw, err := fc.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("overlay: marshal collection %d: %w", idx, err)
		}
		var payload map[string]any
		if err := json.Unmarshal(raw, &payload); err != nil {
			return nil, fmt.Errorf("overlay: decode collection %d: %w", idx, err)
		}
		layers = append(layers, payload)
	}
	return layers, nil
}

// Parse decodes a raw GeoJSON FeatureCollection, e.g. one stored alongside a
// record, so it can be shown as an overlay.
func Parse(raw []byte) (*geojson.FeatureCollection, error) {
	fc, err := geojson.UnmarshalFeatureCollection(raw)
	if err != nil {
		return nil, fmt.Errorf("overlay: parse feature collection: %w", err)
	}
	return fc, nil
}

// Collection wraps geometries into a FeatureCollection, attaching the same
// properties to every feature.
func Collection(properties map[string]any, geometries ...orb.Geometry) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, geometry := range geometries {
		if geometry == nil {
			continue
		}
		feature := geojson.NewFeature(geometry)
		for key, value := range properties {
			feature.Properties[key] = value
		}
		fc.Append(feature)
	}
	return fc
}

// Style mirrors the Leaflet path options applied to every overlay layer.
type Style struct {
	Color       string
	Weight      float64
	Opacity     float64
	FillColor   string
	FillOpacity float64
	DashArray   string
}

// Map renders the style with Leaflet's option names, omitting zero values.
func (s Style) Map() map[string]any {
	out := map[string]any{}
	if s.Color != "" {
		out["color"] = s.Color
	}
	if s.Weight != 0 {
		out["weight"] = s.Weight
	}
	if s.Opacity != 0 {
		out["opacity"] = s.Opacity
	}
	if s.FillColor != "" {
		out["fillColor"] = s.FillColor
	}
	if s.FillOpacity != 0 {
		out["fillOpacity"] = s.FillOpacity
	}
	if s.DashArray != "" {
		out["dashArray"] = s.DashArray
	}
	return out
}
