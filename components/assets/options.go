package assets

import (
	"io/fs"
	"net/http"

	leafletfield "github.com/goliatone/go-leafletfield"
	"github.com/goliatone/go-leafletfield/pkg/requirements"
)

// DefaultMaxAge is the Cache-Control max-age, in seconds, for served files.
const DefaultMaxAge = 3600

type GuardFunc func(r *http.Request) error

type Options struct {
	RoutePath string
	MaxAge    int
	Guard     GuardFunc

	// Files overrides the embedded client bundle.
	Files fs.FS
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		RoutePath: requirements.DefaultClientPrefix,
		MaxAge:    DefaultMaxAge,
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.RoutePath == "" {
		opts.RoutePath = requirements.DefaultClientPrefix
	}
	if opts.MaxAge < 0 {
		opts.MaxAge = 0
	}
	if opts.Files == nil {
		opts.Files = leafletfield.ClientAssetsFS()
	}
	return opts
}

func WithRoutePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RoutePath = path
	}
}

func WithMaxAge(seconds int) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MaxAge = seconds
	}
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Guard = guard
	}
}

func WithFiles(files fs.FS) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Files = files
	}
}
