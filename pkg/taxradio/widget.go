package taxradio

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-taxradio/pkg/host"
	"github.com/goliatone/go-taxradio/pkg/model"
	"github.com/goliatone/go-taxradio/pkg/render"
	"github.com/goliatone/go-taxradio/pkg/taxonomy"
)

// Widget is the single-selection picker for one taxonomy. It is safe for
// concurrent renders; derived fields are resolved once and reused.
type Widget struct {
	cfg  Config
	host host.Host

	taxonomy  lazy[taxonomy.Taxonomy]
	postTypes lazy[[]string]
	title     lazy[string]
}

// New constructs a widget for slug reading from h.
func New(h host.Host, slug string, fns ...OptionFn) (*Widget, error) {
	if h == nil {
		return nil, fmt.Errorf("taxradio: host is required")
	}
	cfg := NewConfig(slug, fns...)
	if cfg.Slug == "" {
		return nil, fmt.Errorf("taxradio: taxonomy slug is required")
	}
	return &Widget{cfg: cfg, host: h}, nil
}

// Config returns a copy of the widget configuration.
func (w *Widget) Config() Config {
	cfg := w.cfg
	cfg.PostTypes = append([]string(nil), w.cfg.PostTypes...)
	return cfg
}

// Slug returns the taxonomy slug.
func (w *Widget) Slug() string {
	return w.cfg.Slug
}

// Taxonomy resolves the taxonomy metadata. Unregistered slugs fail with a
// *taxonomy.NotFoundError.
func (w *Widget) Taxonomy(ctx context.Context) (taxonomy.Taxonomy, error) {
	return w.taxonomy.get(func() (taxonomy.Taxonomy, error) {
		tax, err := w.host.Taxonomy(ctx, w.cfg.Slug)
		if err != nil {
			return taxonomy.Taxonomy{}, fmt.Errorf("taxradio: resolve taxonomy %q: %w", w.cfg.Slug, err)
		}
		return tax, nil
	})
}

// PostTypes resolves the item types the widget applies to: the configured
// list, or the taxonomy's own item types.
func (w *Widget) PostTypes(ctx context.Context) ([]string, error) {
	types, err := w.postTypes.get(func() ([]string, error) {
		if len(w.cfg.PostTypes) > 0 {
			return w.cfg.PostTypes, nil
		}
		tax, err := w.Taxonomy(ctx)
		if err != nil {
			return nil, err
		}
		return taxonomy.NormalizeTypes(tax.ObjectTypes...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]string(nil), types...), nil
}

// Title resolves the panel title: the configured title, or the taxonomy's
// plural label.
func (w *Widget) Title(ctx context.Context) (string, error) {
	return w.title.get(func() (string, error) {
		if title := strings.TrimSpace(w.cfg.MetaboxTitle); title != "" {
			return title, nil
		}
		tax, err := w.Taxonomy(ctx)
		if err != nil {
			return "", err
		}
		return tax.PluralLabel(), nil
	})
}

// Attach removes the host's built-in term pickers for every resolved item
// type and registers the radio panel in their place. The panel renders with
// renderer.
func (w *Widget) Attach(ctx context.Context, registrar host.MetaboxRegistrar, renderer render.Renderer) error {
	if registrar == nil {
		return fmt.Errorf("taxradio: metabox registrar is required")
	}
	if renderer == nil {
		return fmt.Errorf("taxradio: renderer is required")
	}
	types, err := w.PostTypes(ctx)
	if err != nil {
		return err
	}
	title, err := w.Title(ctx)
	if err != nil {
		return err
	}

	hierarchicalID, flatID := host.DefaultMetaboxIDs(w.cfg.Slug)
	callback := w.RenderFunc(renderer, render.RenderOptions{})
	for _, itemType := range types {
		registrar.RemoveMetabox(hierarchicalID, itemType, host.ContextSide)
		registrar.RemoveMetabox(flatID, itemType, host.ContextSide)
		registrar.AddMetabox(host.Metabox{
			ID:       MetaboxID(w.cfg.Slug),
			Title:    title,
			ItemType: itemType,
			Context:  w.cfg.Context,
			Priority: w.cfg.Priority,
			Render:   callback,
		})
	}

	w.cfg.Logger.Debug("taxradio attached",
		zap.String("taxonomy", w.cfg.Slug),
		zap.Strings("item_types", types),
		zap.String("renderer", renderer.Name()),
	)
	return nil
}

// Collect gathers everything a render needs for item: the taxonomy, all of
// its terms, the item's assigned terms and a nonce. A failed assignment
// lookup renders as "nothing assigned" instead of blocking the edit screen.
func (w *Widget) Collect(ctx context.Context, item taxonomy.ItemID) (model.Metabox, error) {
	tax, err := w.Taxonomy(ctx)
	if err != nil {
		return model.Metabox{}, err
	}
	title, err := w.Title(ctx)
	if err != nil {
		return model.Metabox{}, err
	}

	terms, err := w.host.Terms(ctx, w.cfg.Slug)
	if err != nil {
		return model.Metabox{}, fmt.Errorf("taxradio: list terms of %q: %w", w.cfg.Slug, err)
	}

	assigned, err := w.host.AssignedTerms(ctx, item, w.cfg.Slug)
	if err != nil {
		w.cfg.Logger.Warn("taxradio: assigned terms unavailable, rendering without selection",
			zap.String("taxonomy", w.cfg.Slug),
			zap.Int64("item", int64(item)),
			zap.Error(err),
		)
		assigned = nil
	}

	nonce, err := w.host.Nonce(ctx, render.NonceAction(w.cfg.Slug))
	if err != nil {
		return model.Metabox{}, fmt.Errorf("taxradio: issue nonce for %q: %w", w.cfg.Slug, err)
	}

	return model.Metabox{
		ID:       MetaboxID(w.cfg.Slug),
		Title:    title,
		Context:  w.cfg.Context,
		Priority: w.cfg.Priority,
		Item:     item,
		List:     BuildOptionList(w.cfg, tax, terms, taxonomy.TermIDs(assigned)),
		Hidden:   render.MergeHiddenFields(nil, render.NonceField(nonce)),
	}, nil
}

// RenderFunc composes Collect with renderer into a host render callback.
func (w *Widget) RenderFunc(renderer render.Renderer, options render.RenderOptions) host.RenderFunc {
	return func(ctx context.Context, item taxonomy.ItemID) ([]byte, error) {
		box, err := w.Collect(ctx, item)
		if err != nil {
			return nil, err
		}
		out, err := renderer.Render(ctx, box, options)
		if err != nil {
			return nil, fmt.Errorf("taxradio: render %q with %s: %w", w.cfg.Slug, renderer.Name(), err)
		}
		return out, nil
	}
}
