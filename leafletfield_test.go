package leafletfield

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/goliatone/go-leafletfield/pkg/requirements"
)

func TestClientAssetsFSContainsWidgetBundle(t *testing.T) {
	fsys := ClientAssetsFS()
	for _, name := range []string{requirements.ClientScriptName, requirements.ClientStylesheetName} {
		if _, err := fs.ReadFile(fsys, name); err != nil {
			t.Fatalf("expected %s to be readable: %v", name, err)
		}
	}
}

func TestClientScriptReadsFieldAttributes(t *testing.T) {
	data, err := fs.ReadFile(ClientAssetsFS(), requirements.ClientScriptName)
	if err != nil {
		t.Fatalf("read script: %v", err)
	}
	for _, attr := range []string{"data-map-options", "data-draw-options", "data-map-layers", "data-map-layers-style", "leafletfield-geometry", "layerLimit"} {
		if !strings.Contains(string(data), attr) {
			t.Fatalf("expected client script to reference %q", attr)
		}
	}
}
