package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"

	"github.com/goliatone/go-taxradio/pkg/host"
	"github.com/goliatone/go-taxradio/pkg/render"
	"github.com/goliatone/go-taxradio/pkg/renderers/vanilla"
	"github.com/goliatone/go-taxradio/pkg/taxonomy"
	"github.com/goliatone/go-taxradio/pkg/taxradio"
)

const defaultRendererName = "vanilla"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithWidgetOptions applies fns to every widget the orchestrator creates.
func WithWidgetOptions(fns ...taxradio.OptionFn) Option {
	return func(o *Orchestrator) {
		o.widgetOptions = append(o.widgetOptions, fns...)
	}
}

// WithTaxonomyOptions applies fns to the widget of one taxonomy, after the
// shared widget options.
func WithTaxonomyOptions(slug string, fns ...taxradio.OptionFn) Option {
	return func(o *Orchestrator) {
		if o.taxonomyOptions == nil {
			o.taxonomyOptions = make(map[string][]taxradio.OptionFn)
		}
		o.taxonomyOptions[slug] = append(o.taxonomyOptions[slug], fns...)
	}
}

// WithThemeSelector passes a go-theme selector to the default vanilla
// renderer so class tokens resolve from the selected theme.
func WithThemeSelector(selector theme.ThemeSelector, name, variant string) Option {
	return func(o *Orchestrator) {
		o.themeSelector = selector
		o.themeName = name
		o.themeVariant = variant
	}
}

// WithLogger sets the logger shared with widgets.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// Orchestrator renders taxonomy panels for a host. Widgets are created once
// per taxonomy and reused so their resolved metadata is shared between
// requests.
type Orchestrator struct {
	host            host.Host
	registry        *render.Registry
	defaultRenderer string
	widgetOptions   []taxradio.OptionFn
	taxonomyOptions map[string][]taxradio.OptionFn
	themeSelector   theme.ThemeSelector
	themeName       string
	themeVariant    string
	logger          *zap.Logger
	initialiseErr   error

	mu      sync.Mutex
	widgets map[string]*taxradio.Widget
}

// New constructs an Orchestrator over h applying any provided options. A
// registry holding the vanilla and JSON renderers is created when none is
// supplied.
func New(h host.Host, options ...Option) *Orchestrator {
	o := &Orchestrator{
		host:            h,
		defaultRenderer: defaultRendererName,
		widgets:         make(map[string]*taxradio.Widget),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes one panel render.
type Request struct {
	// Taxonomy is the slug of the taxonomy to render.
	Taxonomy string

	// Item is the item whose assignment is shown.
	Item taxonomy.ItemID

	// Renderer names the renderer to use. If empty, the orchestrator falls back
	// to the configured default renderer.
	Renderer string

	// RenderOptions carries per-request instructions such as extra hidden
	// fields or fragment output.
	RenderOptions render.RenderOptions
}

// Generate renders the panel described by req.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := o.initialiseErr; err != nil {
		return nil, err
	}

	widget, err := o.Widget(req.Taxonomy)
	if err != nil {
		return nil, err
	}
	renderer, err := o.Renderer(req.Renderer)
	if err != nil {
		return nil, err
	}
	return widget.RenderFunc(renderer, req.RenderOptions)(ctx, req.Item)
}

// Widget returns the shared widget of a taxonomy.
func (o *Orchestrator) Widget(slug string) (*taxradio.Widget, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, errors.New("orchestrator: taxonomy is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if w, ok := o.widgets[slug]; ok {
		return w, nil
	}
	fns := append([]taxradio.OptionFn{taxradio.WithLogger(o.logger)}, o.widgetOptions...)
	fns = append(fns, o.taxonomyOptions[slug]...)
	w, err := taxradio.New(o.host, slug, fns...)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: widget %q: %w", slug, err)
	}
	o.widgets[slug] = w
	return w, nil
}

// Attach registers the radio panel of every slug with registrar using the
// default renderer.
func (o *Orchestrator) Attach(ctx context.Context, registrar host.MetaboxRegistrar, slugs ...string) error {
	renderer, err := o.Renderer("")
	if err != nil {
		return err
	}
	for _, slug := range slugs {
		w, err := o.Widget(slug)
		if err != nil {
			return err
		}
		if err := w.Attach(ctx, registrar, renderer); err != nil {
			return fmt.Errorf("orchestrator: attach %q: %w", slug, err)
		}
	}
	return nil
}

// Registry exposes the renderer registry.
func (o *Orchestrator) Registry() *render.Registry {
	return o.registry
}

// Renderer resolves a renderer by name, falling back to the default renderer
// and then to the first registered one.
func (o *Orchestrator) Renderer(name string) (render.Renderer, error) {
	if err := o.initialiseErr; err != nil {
		return nil, err
	}
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}

	renderer, err := o.registry.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", names[0], err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.host == nil {
		o.initialiseErr = errors.New("orchestrator: host is required")
		return
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
	if o.registry != nil {
		return
	}

	o.registry = render.NewRegistry()
	var opts []vanilla.Option
	if o.themeSelector != nil {
		opts = append(opts, vanilla.WithTheme(o.themeSelector, o.themeName, o.themeVariant))
	}
	renderer, err := vanilla.New(opts...)
	if err != nil {
		o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		return
	}
	o.registry.MustRegister(renderer)
	o.registry.MustRegister(render.JSONRenderer{})
}
