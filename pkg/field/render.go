package field

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/goliatone/go-leafletfield/pkg/config"
	"github.com/goliatone/go-leafletfield/pkg/logging"
	"github.com/goliatone/go-leafletfield/pkg/render"
	rendertemplate "github.com/goliatone/go-leafletfield/pkg/render/template"
	"github.com/goliatone/go-leafletfield/pkg/render/template/gotemplate"
	"github.com/goliatone/go-leafletfield/pkg/requirements"
)

// DefaultTemplate is the partial used when no theme overrides forms.leaflet.
const DefaultTemplate = "templates/leafletfield.tmpl"

//go:embed templates/*.tmpl
var templatesFS embed.FS

// TemplatesFS exposes the built-in markup so custom engines can mount it next
// to their own partials.
func TemplatesFS() fs.FS {
	return templatesFS
}

var (
	defaultEngineOnce sync.Once
	defaultEngine     rendertemplate.TemplateRenderer
	defaultEngineErr  error
)

func defaultRenderer() (rendertemplate.TemplateRenderer, error) {
	defaultEngineOnce.Do(func() {
		engine, err := gotemplate.New(
			gotemplate.WithFS(templatesFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			defaultEngineErr = fmt.Errorf("leafletfield: default template engine: %w", err)
			return
		}
		defaultEngine = engine
	})
	return defaultEngine, defaultEngineErr
}

// Field renders the field with default options.
func (f *LeafletField) Field(ctx context.Context) (string, error) {
	return f.Render(ctx, render.RenderOptions{})
}

// Render serialises the map, draw and overlay configuration onto the map
// container, declares the browser assets on the requirements backend and
// renders the base markup.
func (f *LeafletField) Render(ctx context.Context, options render.RenderOptions) (string, error) {
	if err := f.applyDataAttributes(); err != nil {
		f.logger.Error(ctx, "encode field attributes", logging.Any("error", err))
		return "", err
	}
	f.requireDependencies(ctx, options.Theme)

	renderer := f.templates
	if renderer == nil {
		engine, err := defaultRenderer()
		if err != nil {
			return "", err
		}
		renderer = engine
	}

	name := options.Theme.Partial(render.PartialLeafletField, DefaultTemplate)
	out, err := renderer.RenderTemplate(name, f.templateData(options))
	if err != nil {
		f.logger.Error(ctx, "render field template",
			logging.String("template", name),
			logging.Any("error", err),
		)
		return "", fmt.Errorf("leafletfield: render %q: %w", name, err)
	}
	f.logger.Debug(ctx, "rendered field", logging.String("template", name))
	return out, nil
}

// ErrorsFrom picks this field's messages out of a server error payload keyed
// by the field name, its submitted input name or a JSON pointer to either.
// Pass the result as RenderOptions.Errors.
func (f *LeafletField) ErrorsFrom(payload map[string][]string) []string {
	mapping := render.MapErrorPayload([]string{f.name}, payload)
	return mapping.Fields[f.name]
}

func (f *LeafletField) applyDataAttributes() error {
	encoders := []struct {
		attr   string
		encode func() (string, error)
	}{
		{AttrMapOptions, f.MapOptionsJS},
		{AttrDrawOptions, f.DrawOptionsJS},
		{AttrLayers, f.GeoJSONLayersJS},
		{AttrLayersStyle, f.GeoJSONLayersStyleJS},
	}
	for _, enc := range encoders {
		value, err := enc.encode()
		if err != nil {
			return fmt.Errorf("%s: %w", enc.attr, err)
		}
		f.SetAttribute(enc.attr, value)
	}
	return nil
}

func (f *LeafletField) requireDependencies(ctx context.Context, theme *render.ThemeConfig) {
	env := f.environment(ctx)
	f.requirements.Require(requirements.LeafletDescriptor(requirements.LeafletOptions{
		GoogleMapAPIKey:  env.GoogleMapAPIKey,
		ClientPrefix:     env.ClientPrefix,
		ClientScript:     theme.Asset(render.AssetLeafletScript, ""),
		ClientStylesheet: theme.Asset(render.AssetLeafletStylesheet, ""),
	}))
}

// environment returns the configured environment, or the process one when
// none was given.
func (f *LeafletField) environment(ctx context.Context) config.Environment {
	if f.env != nil {
		return *f.env
	}
	env, err := config.LoadEnvironment()
	if err != nil {
		f.logger.Warn(ctx, "read process environment", logging.Any("error", err))
	}
	return env
}

func (f *LeafletField) templateData(options render.RenderOptions) map[string]any {
	id := strings.TrimSpace(options.ID)
	if id == "" {
		id = f.ID()
	}

	classes := append([]string{"leafletfield"}, f.extraClasses...)
	if options.ReadOnly {
		classes = append(classes, "readonly")
	}

	var attrs render.Attributes
	attrs.Set("id", id)
	attrs.Set("class", strings.Join(classes, " "))
	attrs.Set("name", f.name)
	for _, attr := range f.attributes.List() {
		attrs.Set(attr.Name, attr.Value)
	}
	if options.ReadOnly {
		attrs.Set("data-readonly", "true")
	}

	children := make([]map[string]any, 0, len(f.children))
	for _, child := range f.children {
		if child == nil {
			continue
		}
		children = append(children, map[string]any{
			"name":  child.Name,
			"value": child.DataValue(),
			"class": child.ClassAttr(),
		})
	}

	return map[string]any{
		"id":         id,
		"holder_id":  id + "_Holder",
		"title":      render.SanitizeText(f.title),
		"attributes": attrs.List(),
		"children":   children,
		"errors":     render.MergeFormErrors(options.Errors),
		"style":      options.Theme.StyleAttr(),
	}
}
