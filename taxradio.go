// Package taxradio replaces a CMS's multi-select term picker with a
// single-selection radio panel. This package re-exports the common entry
// points; the building blocks live under pkg/.
package taxradio

import (
	"context"
	"io/fs"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-taxradio/pkg/host"
	"github.com/goliatone/go-taxradio/pkg/orchestrator"
	"github.com/goliatone/go-taxradio/pkg/render"
	"github.com/goliatone/go-taxradio/pkg/renderers/vanilla"
	"github.com/goliatone/go-taxradio/pkg/taxonomy"
	widget "github.com/goliatone/go-taxradio/pkg/taxradio"
)

// RenderOptions describes per-request overrides such as extra hidden fields.
type RenderOptions = render.RenderOptions

// Request aliases orchestrator.Request.
type Request = orchestrator.Request

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(h host.Host, options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(h, options...)
}

// NewWidget constructs the radio widget of one taxonomy.
func NewWidget(h host.Host, slug string, options ...widget.OptionFn) (*widget.Widget, error) {
	return widget.New(h, slug, options...)
}

// GenerateHTML renders the panel of slug for item with the vanilla renderer.
// It is the simplest entry point for callers that just want HTML output.
func GenerateHTML(ctx context.Context, h host.Host, slug string, item taxonomy.ItemID, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(h, options...).Generate(ctx, orchestrator.Request{
		Taxonomy: slug,
		Item:     item,
		Renderer: "vanilla",
	})
}

// WithThemeSelector passes a go-theme selector through to the default
// renderer.
func WithThemeSelector(selector theme.ThemeSelector, name, variant string) orchestrator.Option {
	return orchestrator.WithThemeSelector(selector, name, variant)
}

// EmbeddedTemplates exposes the built-in vanilla renderer templates so callers
// can reuse or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}
