package render

// RenderOptions describe per-request data that renderers can use to customise
// their output without touching the widget configuration.
type RenderOptions struct {
	// Hidden adds extra hidden inputs next to the ones carried by the
	// metabox. Metabox fields win on name collisions.
	Hidden []HiddenField
	// Fragment skips the metabox chrome (title and wrapper) and emits only
	// the option list, for hosts that draw their own panel.
	Fragment bool
	// Classes overrides CSS class tokens by key (for example "list" or
	// "wrapper"). Theme tokens apply first, then these.
	Classes map[string]string
}
