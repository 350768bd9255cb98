package assets

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goliatone/go-leafletfield/pkg/requirements"
)

func TestMountPath_JoinsBasePath(t *testing.T) {
	if got := MountPath(""); got != requirements.DefaultClientPrefix {
		t.Fatalf("unexpected mount path: %q", got)
	}
	if got := MountPath("/admin"); got != "/admin/leafletfield/client" {
		t.Fatalf("unexpected mount path: %q", got)
	}
	if got := MountPath("admin/", WithRoutePath("static/map/")); got != "/admin/static/map" {
		t.Fatalf("unexpected mount path: %q", got)
	}
	if got := MountPath("/admin", WithRoutePath("/")); got != "/admin" {
		t.Fatalf("unexpected mount path: %q", got)
	}
}

func TestRegisterRoutes_RegistersHandler(t *testing.T) {
	mux := http.NewServeMux()
	prefix, err := RegisterRoutes(mux, "/admin", WithFiles(testFiles()))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if prefix != "/admin/leafletfield/client" {
		t.Fatalf("unexpected registered prefix: %q", prefix)
	}

	req := httptest.NewRequest(http.MethodGet, prefix+"/"+requirements.ClientStylesheetName, nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestRegisterRoutes_MissingMux(t *testing.T) {
	if _, err := RegisterRoutes(nil, "/admin"); err == nil {
		t.Fatalf("expected error for nil mux")
	}
}

func TestComponent_MatchesRequirementURLs(t *testing.T) {
	component := New(WithRoutePath("/static/leaflet"))
	mux := http.NewServeMux()
	prefix, err := component.RegisterRoutes(mux, "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if prefix != component.MountPath("") {
		t.Fatalf("mount path mismatch: %q vs %q", prefix, component.MountPath(""))
	}

	descriptor := requirements.LeafletDescriptor(requirements.LeafletOptions{ClientPrefix: prefix})
	script := descriptor.Scripts[len(descriptor.Scripts)-1].Src

	req := httptest.NewRequest(http.MethodGet, script, nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected declared script %q to be served, got %d", script, rec.Code)
	}
	if component.Options().MaxAge != DefaultMaxAge {
		t.Fatalf("unexpected default max age %d", component.Options().MaxAge)
	}
}
