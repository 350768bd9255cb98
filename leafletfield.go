// Package leafletfield ships the browser half of the leaflet geometry field.
// The Go field lives in pkg/field; this package only embeds the client bundle
// its requirements point at.
package leafletfield

import (
	"embed"
	"io/fs"
)

//go:embed client/javascript/*.js client/css/*.css
var embeddedClientAssets embed.FS

// ClientAssetsFS exposes the widget script and stylesheet rooted at client/,
// so javascript/LeafletField.js and css/LeafletField.css resolve relative to
// the prefix the requirements use.
//
// Typical mount:
//
//	mux.Handle("/leafletfield/client/",
//	  http.StripPrefix("/leafletfield/client/",
//	    http.FileServerFS(leafletfield.ClientAssetsFS()),
//	  ),
//	)
func ClientAssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedClientAssets, "client")
	if err != nil {
		return embeddedClientAssets
	}
	return sub
}
