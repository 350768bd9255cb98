// Package field implements the leaflet geometry form field: a map editor
// bound to one string attribute of a record. The field serialises its map and
// draw configuration into data attributes read by the client script, carries
// the drawn geometry in a hidden child input and writes it back into the
// record on save. The geometry is opaque text (WKT or GeoJSON) and is never
// parsed here.
package field

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/paulmach/orb/geojson"

	"github.com/goliatone/go-leafletfield/internal/labels"
	"github.com/goliatone/go-leafletfield/pkg/config"
	"github.com/goliatone/go-leafletfield/pkg/logging"
	"github.com/goliatone/go-leafletfield/pkg/overlay"
	"github.com/goliatone/go-leafletfield/pkg/record"
	"github.com/goliatone/go-leafletfield/pkg/render"
	rendertemplate "github.com/goliatone/go-leafletfield/pkg/render/template"
	"github.com/goliatone/go-leafletfield/pkg/requirements"
)

// Attribute names read by LeafletField.js.
const (
	AttrMapOptions  = "data-map-options"
	AttrDrawOptions = "data-draw-options"
	AttrLayers      = "data-map-layers"
	AttrLayersStyle = "data-map-layers-style"

	// GeometryKey is the sub-key the hidden input submits under.
	GeometryKey = "Geometry"
	// GeometryClass marks the hidden input for the client script.
	GeometryClass = "leafletfield-geometry"
	// LimitOption is the map option holding the maximum feature count.
	LimitOption = "layerLimit"
)

var idPattern = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// LeafletField edits one geometry attribute of a record. Create one per form
// render; the record is borrowed for the duration of the request only.
type LeafletField struct {
	name  string
	title string
	data  record.Record

	mapOptions  map[string]any
	drawOptions map[string]any

	geometryField *render.HiddenField
	children      render.FieldList

	geoJSONLayers      []any
	geoJSONLayersStyle map[string]any

	attributes   render.Attributes
	extraClasses []string

	env          *config.Environment
	requirements *requirements.Backend
	templates    rendertemplate.TemplateRenderer
	logger       logging.Logger
}

// New builds a field for attribute name of rec. An empty title is derived from
// the name. The hidden geometry input starts with rec's current value.
func New(name, title string, rec record.Record, options ...Option) *LeafletField {
	cfg := settings{config: config.Default(), logger: logging.Noop()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.requirements == nil {
		cfg.requirements = requirements.NewBackend()
	}

	name = strings.TrimSpace(name)
	if strings.TrimSpace(title) == "" {
		title = labels.FromName(name)
	}

	defaults := cfg.config.Clone()
	f := &LeafletField{
		name:               name,
		title:              title,
		data:               rec,
		mapOptions:         defaults.MapOptions,
		drawOptions:        defaults.DrawOptions,
		geoJSONLayers:      []any{},
		geoJSONLayersStyle: map[string]any{},
		env:                cfg.env,
		requirements:       cfg.requirements,
		templates:          cfg.templates,
		logger:             cfg.logger.With(logging.String("field", name)),
	}
	f.setupChildren(name)
	return f
}

func (f *LeafletField) setupChildren(name string) render.FieldList {
	var current any
	if f.data != nil {
		current = f.data.Get(name)
	}
	geometry := render.Hidden(name+"["+GeometryKey+"]", current)
	geometry.Title = GeometryKey
	geometry.AddExtraClass(GeometryClass)

	f.geometryField = &geometry
	f.children = render.FieldList{f.geometryField}
	return f.children
}

func (f *LeafletField) Name() string  { return f.name }
func (f *LeafletField) Title() string { return f.title }

// SetTitle replaces the label text.
func (f *LeafletField) SetTitle(title string) *LeafletField {
	f.title = title
	return f
}

// ID is the DOM id of the map container.
func (f *LeafletField) ID() string {
	return strings.Trim(idPattern.ReplaceAllString(f.name, "_"), "_")
}

// Geometry returns the value currently carried by the hidden input.
func (f *LeafletField) Geometry() string {
	return f.geometryField.DataValue()
}

// DataValue is the value SaveInto writes.
func (f *LeafletField) DataValue() string {
	return f.geometryField.DataValue()
}

// RecordGeometry reads the attribute straight from the backing record,
// ignoring any submitted value.
func (f *LeafletField) RecordGeometry() string {
	if f.data == nil || f.name == "" {
		return ""
	}
	return render.Hidden("", f.data.Get(f.name)).DataValue()
}

// ChildFields exposes the hidden inputs for form introspection.
func (f *LeafletField) ChildFields() render.FieldList {
	return f.children
}

// Requirements returns the backend the field declares its assets on.
func (f *LeafletField) Requirements() *requirements.Backend {
	return f.requirements
}

// MapOptions returns the current Leaflet map options.
func (f *LeafletField) MapOptions() map[string]any {
	return config.CloneMap(f.mapOptions)
}

// MapOptionsJS returns the map options as JSON.
func (f *LeafletField) MapOptionsJS() (string, error) {
	return encodeObject(f.mapOptions)
}

// DrawOptions returns the current Leaflet.draw control options.
func (f *LeafletField) DrawOptions() map[string]any {
	return config.CloneMap(f.drawOptions)
}

// DrawOptionsJS returns the draw options as JSON.
func (f *LeafletField) DrawOptionsJS() (string, error) {
	return encodeObject(f.drawOptions)
}

// GeoJSONLayers returns the read-only overlay payloads.
func (f *LeafletField) GeoJSONLayers() []any {
	return f.geoJSONLayers
}

// GeoJSONLayersJS returns the overlays as a JSON array.
func (f *LeafletField) GeoJSONLayersJS() (string, error) {
	layers := f.geoJSONLayers
	if layers == nil {
		layers = []any{}
	}
	data, err := json.Marshal(layers)
	if err != nil {
		return "", fmt.Errorf("leafletfield: encode layers: %w", err)
	}
	return string(data), nil
}

// GeoJSONLayersStyle returns the style applied to the overlays.
func (f *LeafletField) GeoJSONLayersStyle() map[string]any {
	return config.CloneMap(f.geoJSONLayersStyle)
}

// GeoJSONLayersStyleJS returns the overlay style as JSON.
func (f *LeafletField) GeoJSONLayersStyleJS() (string, error) {
	return encodeObject(f.geoJSONLayersStyle)
}

// SetMapOptions merges options over the current map options. Top-level keys
// replace existing ones; nested maps are not merged.
func (f *LeafletField) SetMapOptions(options map[string]any) *LeafletField {
	f.mapOptions = mergeOptions(f.mapOptions, options)
	return f
}

// SetDrawOptions merges options over the current draw options, top level only.
func (f *LeafletField) SetDrawOptions(options map[string]any) *LeafletField {
	f.drawOptions = mergeOptions(f.drawOptions, options)
	return f
}

// SetLimit caps how many layers an editor can draw. Only Go integer values are
// accepted; anything else leaves the options untouched.
func (f *LeafletField) SetLimit(limit any) *LeafletField {
	switch limit.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return f.SetMapOptions(map[string]any{LimitOption: limit})
	default:
		f.logger.Debug(context.Background(), "ignoring non-integer layer limit", logging.String("type", fmt.Sprintf("%T", limit)))
		return f
	}
}

// SetGeoJSONLayers replaces the overlay layers.
func (f *LeafletField) SetGeoJSONLayers(layers []any) *LeafletField {
	f.geoJSONLayers = layers
	return f
}

// SetGeoJSONLayersStyle replaces the overlay style.
func (f *LeafletField) SetGeoJSONLayersStyle(style map[string]any) *LeafletField {
	f.geoJSONLayersStyle = style
	return f
}

// SetOverlayFeatures replaces the overlay layers with typed collections.
func (f *LeafletField) SetOverlayFeatures(collections ...*geojson.FeatureCollection) error {
	layers, err := overlay.FromFeatureCollections(collections...)
	if err != nil {
		return fmt.Errorf("leafletfield: overlay features: %w", err)
	}
	f.geoJSONLayers = layers
	return nil
}

// SetAttribute sets an attribute on the map container.
func (f *LeafletField) SetAttribute(name, value string) *LeafletField {
	f.attributes.Set(name, value)
	return f
}

// Attributes returns the attributes set on the map container so far.
func (f *LeafletField) Attributes() map[string]string {
	return f.attributes.Map()
}

// AddExtraClass appends CSS classes to the map container.
func (f *LeafletField) AddExtraClass(class string) *LeafletField {
	for _, token := range strings.Fields(class) {
		if !containsString(f.extraClasses, token) {
			f.extraClasses = append(f.extraClasses, token)
		}
	}
	return f
}

func mergeOptions(base, overrides map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(overrides))
	for key, value := range base {
		out[key] = value
	}
	for key, value := range overrides {
		out[key] = value
	}
	return out
}

func encodeObject(value map[string]any) (string, error) {
	if value == nil {
		value = map[string]any{}
	}
	data, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("leafletfield: encode options: %w", err)
	}
	return string(data), nil
}

func containsString(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
