package assets

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
)

func testFiles() fstest.MapFS {
	return fstest.MapFS{
		"javascript/LeafletField.js": {Data: []byte("window.LeafletField = {};")},
		"css/LeafletField.css":       {Data: []byte(".leafletfield {}")},
	}
}

func TestHandler_ServesEmbeddedBundle(t *testing.T) {
	h := Handler()

	req := httptest.NewRequest(http.MethodGet, "/javascript/LeafletField.js", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", res.StatusCode)
	}
	if ct := res.Header.Get("Content-Type"); !strings.Contains(ct, "javascript") {
		t.Fatalf("expected javascript content-type, got %q", ct)
	}
	if cc := res.Header.Get("Cache-Control"); cc != "public, max-age=3600" {
		t.Fatalf("unexpected cache-control %q", cc)
	}
	body, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(body), "data-map-options") {
		t.Fatalf("expected widget script body, got %d bytes", len(body))
	}
}

func TestHandler_CustomFilesAndMaxAge(t *testing.T) {
	h := Handler(WithFiles(testFiles()), WithMaxAge(60))

	req := httptest.NewRequest(http.MethodGet, "/css/LeafletField.css", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if rec.Body.String() != ".leafletfield {}" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "public, max-age=60" {
		t.Fatalf("unexpected cache-control %q", cc)
	}
}

func TestHandler_HeadHasNoBody(t *testing.T) {
	h := Handler(WithFiles(testFiles()))

	req := httptest.NewRequest(http.MethodHead, "/css/LeafletField.css", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("expected empty body for HEAD, got %q", rec.Body.String())
	}
}

func TestHandler_NotFound(t *testing.T) {
	h := Handler(WithFiles(testFiles()))

	for _, target := range []string{"/", "/javascript/", "/missing.js", "/../go.mod"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.URL.Path = target
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("%s: expected status 404, got %d", target, rec.Code)
		}
	}
}

func TestHandler_GuardRejects(t *testing.T) {
	h := Handler(
		WithFiles(testFiles()),
		WithGuard(func(r *http.Request) error {
			return StatusError{Code: http.StatusUnauthorized}
		}),
	)

	req := httptest.NewRequest(http.MethodGet, "/css/LeafletField.css", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	h := Handler(WithFiles(testFiles()))

	req := httptest.NewRequest(http.MethodPost, "/css/LeafletField.css", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow != "GET, HEAD" {
		t.Fatalf("unexpected Allow header %q", allow)
	}
}

func TestGuardStatus(t *testing.T) {
	if got := GuardStatus(io.EOF); got != http.StatusForbidden {
		t.Fatalf("plain errors should map to 403, got %d", got)
	}
	if got := GuardStatus(StatusError{Code: http.StatusTeapot}); got != http.StatusTeapot {
		t.Fatalf("unexpected status %d", got)
	}
}
