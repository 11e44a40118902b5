package metabox

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-taxradio/pkg/host"
	"github.com/goliatone/go-taxradio/pkg/render"
	"github.com/goliatone/go-taxradio/pkg/taxradio"
)

// GuardFunc authorizes a request before it reaches a widget. Errors that
// implement HTTPError choose the status code, others answer 403.
type GuardFunc func(r *http.Request) error

// Options configures the metabox handler.
type Options struct {
	RoutePath   string
	ItemParam   string
	FormatParam string
	Guard       GuardFunc

	Widgets  map[string]*taxradio.Widget
	Renderer render.Renderer
	Writer   host.AssignmentWriter
	Verifier host.NonceVerifier
	Logger   *zap.Logger
}

// OptionFn mutates Options.
type OptionFn func(*Options)

// DefaultOptions returns the defaults: routes under /api/metabox, the item
// id in "item" and the output switch in "format".
func DefaultOptions() Options {
	return Options{
		RoutePath:   "/api/metabox",
		ItemParam:   "item",
		FormatParam: "format",
	}
}

// NewOptions applies fns over DefaultOptions and restores defaults for
// blank values.
func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if strings.TrimSpace(opts.RoutePath) == "" {
		opts.RoutePath = "/api/metabox"
	}
	if opts.ItemParam == "" {
		opts.ItemParam = "item"
	}
	if opts.FormatParam == "" {
		opts.FormatParam = "format"
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	widgets := make(map[string]*taxradio.Widget, len(opts.Widgets))
	for slug, w := range opts.Widgets {
		if w != nil {
			widgets[slug] = w
		}
	}
	opts.Widgets = widgets
	return opts
}

// WithRoutePath sets the path the component mounts under the base path.
func WithRoutePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RoutePath = path
	}
}

// WithItemParam renames the item id parameter.
func WithItemParam(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.ItemParam = name
	}
}

// WithFormatParam renames the parameter that selects JSON output.
func WithFormatParam(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.FormatParam = name
	}
}

// WithGuard installs an authorization hook.
func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Guard = guard
	}
}

// WithWidget serves w under its taxonomy slug.
func WithWidget(w *taxradio.Widget) OptionFn {
	return func(o *Options) {
		if o == nil || w == nil {
			return
		}
		if o.Widgets == nil {
			o.Widgets = make(map[string]*taxradio.Widget)
		}
		o.Widgets[w.Slug()] = w
	}
}

// WithRenderer sets the renderer used for non-JSON responses.
func WithRenderer(renderer render.Renderer) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Renderer = renderer
	}
}

// WithSaver enables POST submissions. Both collaborators are required.
func WithSaver(writer host.AssignmentWriter, verifier host.NonceVerifier) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Writer = writer
		o.Verifier = verifier
	}
}

// WithLogger sets the logger used for rejected and failed requests.
func WithLogger(logger *zap.Logger) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Logger = logger
	}
}

func (o Options) acceptsSubmissions() bool {
	return o.Writer != nil && o.Verifier != nil
}
