// Package template defines the seam between form fields and the template
// engine that produces their base markup.
package template
