package requirements

import (
	"net/url"
	"strings"
)

// Pinned client library locations.
const (
	LeafletScript         = "//cdnjs.cloudflare.com/ajax/libs/leaflet/1.0.3/leaflet.js"
	LeafletStylesheet     = "//cdnjs.cloudflare.com/ajax/libs/leaflet/1.0.3/leaflet.css"
	LeafletDrawScript     = "//cdnjs.cloudflare.com/ajax/libs/leaflet.draw/0.4.9/leaflet.draw.js"
	LeafletDrawStylesheet = "//cdnjs.cloudflare.com/ajax/libs/leaflet.draw/0.4.9/leaflet.draw.css"
	GoogleMapsScript      = "//maps.googleapis.com/maps/api/js"
	GoogleMutantScript    = "//unpkg.com/leaflet.gridlayer.googlemutant@latest/Leaflet.GoogleMutant.js"

	ClientScriptName     = "javascript/LeafletField.js"
	ClientStylesheetName = "css/LeafletField.css"

	LeafletComponent = "leafletfield"

	// DefaultClientPrefix is where components/assets mounts the client bundle.
	DefaultClientPrefix = "/leafletfield/client"
)

// LeafletOptions locates the widget-specific assets.
type LeafletOptions struct {
	// GoogleMapAPIKey parameterises the Google Maps script URL. An empty key
	// still emits the script, as the browser-side library tolerates it in
	// development mode.
	GoogleMapAPIKey string
	// ClientPrefix is the URL prefix the embedded client bundle is served
	// under. Empty means DefaultClientPrefix.
	ClientPrefix string
	// ClientScript and ClientStylesheet override the computed widget asset
	// URLs (used when a theme ships its own bundle).
	ClientScript     string
	ClientStylesheet string
}

// LeafletDescriptor lists everything the leaflet field needs in the browser,
// in load order: mapping library, drawing tools, basemap provider, basemap
// adapter, then the widget's own script and style.
func LeafletDescriptor(opts LeafletOptions) Descriptor {
	script := strings.TrimSpace(opts.ClientScript)
	if script == "" {
		script = joinURL(opts.ClientPrefix, ClientScriptName)
	}
	stylesheet := strings.TrimSpace(opts.ClientStylesheet)
	if stylesheet == "" {
		stylesheet = joinURL(opts.ClientPrefix, ClientStylesheetName)
	}

	return Descriptor{
		Name: LeafletComponent,
		Stylesheets: []string{
			LeafletStylesheet,
			LeafletDrawStylesheet,
			stylesheet,
		},
		Scripts: []Script{
			{Src: LeafletScript},
			{Src: LeafletDrawScript},
			{Src: GoogleMapsURL(opts.GoogleMapAPIKey)},
			{Src: GoogleMutantScript},
			{Src: script},
		},
	}
}

// GoogleMapsURL returns the Maps JavaScript API URL for key.
func GoogleMapsURL(key string) string {
	return GoogleMapsScript + "?key=" + url.QueryEscape(strings.TrimSpace(key))
}

func joinURL(prefix, name string) string {
	prefix = strings.TrimRight(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		prefix = DefaultClientPrefix
	}
	return prefix + "/" + name
}
