package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/paulmach/orb/geojson"

	"github.com/goliatone/go-leafletfield/internal/prompt"
	"github.com/goliatone/go-leafletfield/pkg/config"
	"github.com/goliatone/go-leafletfield/pkg/field"
	"github.com/goliatone/go-leafletfield/pkg/logging"
	"github.com/goliatone/go-leafletfield/pkg/overlay"
	"github.com/goliatone/go-leafletfield/pkg/record"
	"github.com/goliatone/go-leafletfield/pkg/render/template/gotemplate"
	"github.com/goliatone/go-leafletfield/pkg/requirements"
)

const pageTemplate = `<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>{{ title }}</title>
{{ includes|safe }}</head>
<body>
<form method="post">
{{ field|safe }}</form>
</body>
</html>
`

var basemaps = []string{"roadmap", "satellite", "hybrid", "terrain"}

type options struct {
	configPath  string
	name        string
	title       string
	geometry    string
	limit       int
	envFiles    string
	overlayPath string
	output      string
	interactive bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger := logging.NewFromEnv()
	err := run(ctx, os.Args[1:], os.Stdout, prompt.NewSurveyDriver(), logger)
	switch {
	case err == nil:
	case errors.Is(err, prompt.ErrAborted):
		fmt.Fprintln(os.Stderr, "aborted")
		os.Exit(130)
	case errors.Is(err, flag.ErrHelp):
		os.Exit(2)
	default:
		log.Fatalf("leafletfield-preview: %v", err)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer, driver prompt.Driver, logger logging.Logger) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	cfg := config.Default()
	if opts.configPath != "" {
		override, err := config.LoadFile(opts.configPath)
		if err != nil {
			return err
		}
		cfg = cfg.Merge(override)
	}

	env, err := config.LoadEnvironment(splitList(opts.envFiles)...)
	if err != nil {
		return err
	}

	engine, err := gotemplate.New(gotemplate.WithFS(field.TemplatesFS()))
	if err != nil {
		return err
	}

	backend := requirements.NewBackend()
	rec := record.NewMapRecord(map[string]any{opts.name: opts.geometry})
	f := field.New(opts.name, opts.title, rec,
		field.WithConfig(cfg),
		field.WithEnvironment(env),
		field.WithRequirements(backend),
		field.WithTemplateRenderer(engine),
		field.WithLogger(logger),
	)
	if opts.limit > 0 {
		f.SetLimit(opts.limit)
	}

	if opts.overlayPath != "" {
		layers, err := loadOverlays(ctx, splitList(opts.overlayPath))
		if err != nil {
			return err
		}
		f.SetGeoJSONLayers(layers)
	}

	if opts.interactive {
		if err := ask(ctx, driver, f); err != nil {
			return err
		}
		if err := f.SaveInto(rec); err != nil {
			return err
		}
		logger.Info(ctx, "geometry saved", logging.String("field", opts.name), logging.String("geometry", f.DataValue()))
	}

	markup, err := f.Field(ctx)
	if err != nil {
		return err
	}
	page, err := engine.RenderString(pageTemplate, map[string]any{
		"title":    f.Title(),
		"includes": backend.Includes(),
		"field":    markup,
	})
	if err != nil {
		return err
	}

	if opts.output == "" {
		_, err = io.WriteString(stdout, page)
		return err
	}
	if err := os.WriteFile(opts.output, []byte(page), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Fprintf(stdout, "Preview written to %s\n", opts.output)
	return nil
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("leafletfield-preview", flag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", "", "YAML file with map_options/draw_options overrides")
	fs.StringVar(&opts.name, "name", "Location", "record attribute the field edits")
	fs.StringVar(&opts.title, "title", "", "field label (derived from -name when empty)")
	fs.StringVar(&opts.geometry, "geometry", "", "initial geometry (WKT or GeoJSON)")
	fs.IntVar(&opts.limit, "limit", 0, "maximum number of drawn layers (0 for no limit)")
	fs.StringVar(&opts.envFiles, "env", ".env", "comma-separated dotenv files")
	fs.StringVar(&opts.overlayPath, "overlay", "", "comma separated GeoJSON FeatureCollection files shown as read-only overlays")
	fs.StringVar(&opts.output, "output", "", "output file (stdout if empty)")
	fs.BoolVar(&opts.interactive, "interactive", false, "prompt for title, basemap and geometry")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	opts.name = strings.TrimSpace(opts.name)
	if opts.name == "" {
		return options{}, errors.New("-name is required")
	}
	if opts.limit < 0 {
		return options{}, errors.New("-limit must not be negative")
	}
	return opts, nil
}

func ask(ctx context.Context, driver prompt.Driver, f *field.LeafletField) error {
	title, err := driver.Input(ctx, prompt.InputConfig{
		Message: "Field title",
		Default: f.Title(),
	})
	if err != nil {
		return err
	}
	f.SetTitle(title)

	current, _ := f.MapOptions()["basemap"].(string)
	idx, err := driver.Select(ctx, prompt.SelectConfig{
		Message:      "Basemap",
		Options:      basemaps,
		DefaultIndex: indexOf(basemaps, current),
	})
	if err != nil {
		return err
	}
	if idx >= 0 && idx < len(basemaps) {
		f.SetMapOptions(map[string]any{"basemap": basemaps[idx]})
	}

	limit, err := driver.Input(ctx, prompt.InputConfig{
		Message:   "Layer limit (blank for none)",
		Validator: validateLimit,
	})
	if err != nil {
		return err
	}
	if n, err := strconv.Atoi(strings.TrimSpace(limit)); err == nil && n > 0 {
		f.SetLimit(n)
	}

	geometry, err := driver.TextArea(ctx, prompt.TextAreaConfig{
		Message: "Geometry (WKT or GeoJSON)",
		Default: f.Geometry(),
	})
	if err != nil {
		return err
	}
	f.SetValue(strings.TrimSpace(geometry))
	return nil
}

func validateLimit(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return errors.New("enter a whole number")
	}
	return nil
}

func loadOverlays(ctx context.Context, paths []string) ([]any, error) {
	store, err := overlay.NewStore(readOverlayFile, overlay.StoreConfig{MaxLayers: int64(len(paths)) + 1})
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return store.Layers(ctx, paths...)
}

func readOverlayFile(_ context.Context, path string) (*geojson.FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read overlay: %w", err)
	}
	return overlay.Parse(data)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func indexOf(options []string, value string) int {
	for i, option := range options {
		if option == value {
			return i
		}
	}
	return 0
}
