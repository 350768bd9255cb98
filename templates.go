package leafletfield

import (
	"io/fs"

	"github.com/goliatone/go-leafletfield/pkg/field"
)

// EmbeddedTemplates exposes the built-in field markup so callers can mount it
// next to their own partials in a custom engine.
func EmbeddedTemplates() fs.FS {
	return field.TemplatesFS()
}
