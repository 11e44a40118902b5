// Package vanilla renders a metabox as a plain HTML fragment: hidden fields,
// a radio list, and optional panel chrome, from embedded pongo2 templates.
package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-taxradio/pkg/model"
	"github.com/goliatone/go-taxradio/pkg/render"
	rendertemplate "github.com/goliatone/go-taxradio/pkg/render/template"
	gotemplate "github.com/goliatone/go-taxradio/pkg/render/template/gotemplate"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	themeSelector    theme.ThemeSelector
	themeName        string
	themeVariant     string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS. The
// bundle must provide MetaboxTemplate.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithTheme resolves CSS class tokens from a go-theme selection on every
// render. Tokens named ClassTokenPrefix+key override DefaultClasses.
func WithTheme(selector theme.ThemeSelector, name, variant string) Option {
	return func(cfg *config) {
		cfg.themeSelector = selector
		cfg.themeName = name
		cfg.themeVariant = variant
	}
}

// Renderer implements render.Renderer for HTML output.
type Renderer struct {
	templates     rendertemplate.TemplateRenderer
	themeSelector theme.ThemeSelector
	themeName     string
	themeVariant  string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	registerLabelFilter()

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates:     renderer,
		themeSelector: cfg.themeSelector,
		themeName:     cfg.themeName,
		themeVariant:  cfg.themeVariant,
	}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *Renderer) Render(_ context.Context, box model.Metabox, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	classes, err := r.resolveClasses(options.Classes)
	if err != nil {
		return nil, err
	}

	hidden := render.CollectHidden(box.Hidden, options.Hidden)
	if hidden == nil {
		hidden = []render.HiddenField{}
	}

	result, err := r.templates.RenderTemplate(MetaboxTemplate, map[string]any{
		"box":      box,
		"list":     box.List,
		"hidden":   hidden,
		"classes":  classes,
		"fragment": options.Fragment,
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}
