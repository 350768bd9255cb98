package field

import (
	"github.com/goliatone/go-leafletfield/pkg/config"
	"github.com/goliatone/go-leafletfield/pkg/logging"
	rendertemplate "github.com/goliatone/go-leafletfield/pkg/render/template"
	"github.com/goliatone/go-leafletfield/pkg/requirements"
)

// Option configures a field at construction.
type Option func(*settings)

type settings struct {
	config       config.Config
	env          *config.Environment
	requirements *requirements.Backend
	templates    rendertemplate.TemplateRenderer
	logger       logging.Logger
}

// WithConfig supplies the map/draw defaults. The field works on its own deep
// copy, so later mutations never reach cfg.
func WithConfig(cfg config.Config) Option {
	return func(s *settings) {
		s.config = cfg
	}
}

// WithEnvironment supplies the Google Maps key and client asset prefix.
// Without it the field reads the process environment on every render.
func WithEnvironment(env config.Environment) Option {
	return func(s *settings) {
		s.env = &env
	}
}

// WithRequirements collects the field's asset requirements into a shared
// per-request backend.
func WithRequirements(backend *requirements.Backend) Option {
	return func(s *settings) {
		if backend != nil {
			s.requirements = backend
		}
	}
}

// WithTemplateRenderer swaps the engine used for the base markup.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(s *settings) {
		if renderer != nil {
			s.templates = renderer
		}
	}
}

// WithLogger attaches a logger. The default drops everything.
func WithLogger(logger logging.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}
