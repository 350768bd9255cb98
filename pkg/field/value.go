package field

import (
	"context"
	"fmt"
	"net/url"

	"github.com/goliatone/go-leafletfield/pkg/logging"
	"github.com/goliatone/go-leafletfield/pkg/record"
)

// SetValue assigns the geometry from submitted data. It accepts a bare string
// or a mapping (map[string]any, map[string]string or url.Values) holding a
// string under GeometryKey. Anything else leaves the current value in place.
func (f *LeafletField) SetValue(value any) *LeafletField {
	geometry, ok := geometryFrom(value)
	if !ok {
		f.logger.Debug(context.Background(), "ignoring unsupported geometry value",
			logging.String("type", fmt.Sprintf("%T", value)),
		)
		return f
	}
	f.geometryField.SetValue(geometry)
	return f
}

// DecodeForm reads the field's submission out of a parsed form body. The
// composite key name[Geometry] is preferred; a plain name key is accepted for
// clients posting the geometry directly. Missing keys leave the value alone.
func (f *LeafletField) DecodeForm(values url.Values) *LeafletField {
	if values == nil {
		return f
	}
	if raw, ok := values[f.geometryField.Name]; ok && len(raw) > 0 {
		return f.SetValue(raw[0])
	}
	if raw, ok := values[f.name]; ok && len(raw) > 0 {
		return f.SetValue(raw[0])
	}
	return f
}

// SaveInto writes the geometry onto rec under the field name, going through
// the record's own casting. A field without a name, or a nil record, is a
// no-op. Errors come from the record layer untouched.
func (f *LeafletField) SaveInto(rec record.Record) error {
	if f.name == "" || rec == nil {
		return nil
	}
	if err := rec.SetCastedField(f.name, f.DataValue()); err != nil {
		f.logger.Warn(context.Background(), "record rejected geometry", logging.Any("error", err))
		return err
	}
	f.logger.Debug(context.Background(), "geometry saved")
	return nil
}

func geometryFrom(value any) (string, bool) {
	switch typed := value.(type) {
	case string:
		return typed, true
	case map[string]any:
		geometry, ok := typed[GeometryKey].(string)
		return geometry, ok
	case map[string]string:
		geometry, ok := typed[GeometryKey]
		return geometry, ok
	case url.Values:
		raw, ok := typed[GeometryKey]
		if !ok || len(raw) == 0 {
			return "", false
		}
		return raw[0], true
	default:
		return "", false
	}
}
