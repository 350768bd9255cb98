// Package assets serves the leaflet field's client bundle (LeafletField.js and
// LeafletField.css) from the module's embedded files.
//
// The handler responds to GET and HEAD requests for files under the mount
// path. Mount it at the same prefix the field's environment uses as
// ClientPrefix so the declared requirements resolve.
package assets
