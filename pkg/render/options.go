package render

// RenderOptions describe per-request data a field can use to customise its
// output without mutating its configuration.
type RenderOptions struct {
	// ID overrides the DOM id of the outer element. Defaults to a value
	// derived from the field name.
	ID string
	// Errors surfaces server-side validation feedback for the field. The
	// markup gains an error message list and a data-validation attribute.
	Errors []string
	// Theme carries resolved partials, tokens and asset locations.
	Theme *ThemeConfig
	// ReadOnly renders the map without drawing controls.
	ReadOnly bool
}
