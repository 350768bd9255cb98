package template

import (
	"io"
)

// TemplateRenderer is the engine contract fields render through. The default
// implementation lives in the gotemplate subpackage.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}
