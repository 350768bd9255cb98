package assets

import (
	"errors"
	"io/fs"
	"net/http"
	"path"
	"strconv"
	"strings"
)

type HTTPError interface {
	error
	StatusCode() int
}

type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

// Handler builds a file handler with default options plus any overrides. The
// request path is resolved relative to the bundle root, so mount it behind
// http.StripPrefix (RegisterRoutes does this).
func Handler(fns ...OptionFn) http.Handler {
	return HandlerWithOptions(NewOptions(fns...))
}

// HandlerWithOptions builds the handler from a pre-constructed Options value.
func HandlerWithOptions(opts Options) http.Handler {
	opts = NewOptions(func(o *Options) { *o = opts })
	files := http.FileServerFS(opts.Files)
	cacheControl := "public, max-age=" + strconv.Itoa(opts.MaxAge)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r == nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", http.MethodGet+", "+http.MethodHead)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		if opts.Guard != nil {
			if err := opts.Guard(r); err != nil {
				WriteGuardError(w, err)
				return
			}
		}

		// Only regular files are served; directory listings stay hidden.
		name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
		info, err := fs.Stat(opts.Files, name)
		if name == "" || err != nil || info.IsDir() {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Cache-Control", cacheControl)
		files.ServeHTTP(w, r)
	})
}

// WriteGuardError maps a guard failure to its HTTP status, defaulting to 403.
func WriteGuardError(w http.ResponseWriter, err error) {
	if w == nil {
		return
	}
	code := GuardStatus(err)
	http.Error(w, http.StatusText(code), code)
}

// GuardStatus returns the status a guard error should produce.
func GuardStatus(err error) int {
	code := http.StatusForbidden
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		if status := httpErr.StatusCode(); status > 0 {
			code = status
		}
	}
	return code
}
