package field

import (
	"context"

	"github.com/goliatone/go-leafletfield/pkg/record"
	"github.com/goliatone/go-leafletfield/pkg/render"
)

// FormField is the capability a surrounding form needs from one of its
// fields: render it, push submitted data into it and save it into a record.
type FormField interface {
	Name() string
	Title() string
	Render(ctx context.Context, options render.RenderOptions) (string, error)
	Value() any
	SetSubmittedValue(value any) FormField
	SaveInto(rec record.Record) error
}

var _ FormField = (*LeafletField)(nil)

// Value satisfies FormField with the current geometry.
func (f *LeafletField) Value() any {
	return f.Geometry()
}

// SetSubmittedValue satisfies FormField; it is SetValue behind the interface.
func (f *LeafletField) SetSubmittedValue(value any) FormField {
	return f.SetValue(value)
}
