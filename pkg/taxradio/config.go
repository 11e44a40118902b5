package taxradio

import (
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-taxradio/pkg/host"
	"github.com/goliatone/go-taxradio/pkg/taxonomy"
)

const (
	// DefaultForcedSlug names the taxonomy that always requires a term unless
	// WithForcedTaxonomy says otherwise.
	DefaultForcedSlug = "category"
	// DefaultNoneLabel formats the "none" option with the singular label.
	DefaultNoneLabel = "No %s"
	// NoneLabelKey is the translation key of the "none" option label.
	NoneLabelKey = "taxradio.none"
)

// Translator localizes widget strings.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// Config is the immutable wiring of one widget.
type Config struct {
	Slug string
	// PostTypes limits the item types the widget replaces the picker on.
	// Empty means every item type the taxonomy applies to.
	PostTypes []string
	// MetaboxTitle overrides the taxonomy's plural label.
	MetaboxTitle string
	Priority     string
	Context      string
	// ForceSelection drops the "none" option.
	ForceSelection bool
	// Forced overrides the forced-taxonomy policy. Nil means the taxonomy is
	// forced when its slug is DefaultForcedSlug.
	Forced *bool

	NoneLabel  string
	Locale     string
	Translator Translator
	Logger     *zap.Logger
}

// OptionFn mutates a Config under construction.
type OptionFn func(*Config)

// DefaultConfig returns the defaults applied to every widget.
func DefaultConfig(slug string) Config {
	return Config{
		Slug:      strings.TrimSpace(slug),
		Priority:  host.PriorityDefault,
		Context:   host.ContextSide,
		NoneLabel: DefaultNoneLabel,
	}
}

// NewConfig builds a Config for slug applying fns over the defaults.
func NewConfig(slug string, fns ...OptionFn) Config {
	cfg := DefaultConfig(slug)
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&cfg)
	}
	cfg.Slug = strings.TrimSpace(cfg.Slug)
	cfg.PostTypes = taxonomy.NormalizeTypes(cfg.PostTypes...)
	if strings.TrimSpace(cfg.Priority) == "" {
		cfg.Priority = host.PriorityDefault
	}
	if strings.TrimSpace(cfg.Context) == "" {
		cfg.Context = host.ContextSide
	}
	if cfg.NoneLabel == "" {
		cfg.NoneLabel = DefaultNoneLabel
	}
	if cfg.Forced != nil {
		forced := *cfg.Forced
		cfg.Forced = &forced
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return cfg
}

// IsForcedTaxonomy reports whether host policy requires a term for this
// taxonomy regardless of ForceSelection.
func (c Config) IsForcedTaxonomy() bool {
	if c.Forced != nil {
		return *c.Forced
	}
	return c.Slug == DefaultForcedSlug
}

// ShowsNone reports whether the option list starts with a "none" option.
func (c Config) ShowsNone() bool {
	return !c.ForceSelection && !c.IsForcedTaxonomy()
}

// WithPostTypes sets the item types the widget replaces the picker on. A
// single value is a one-element list.
func WithPostTypes(types ...string) OptionFn {
	return func(c *Config) {
		c.PostTypes = append([]string(nil), types...)
	}
}

// WithMetaboxTitle overrides the panel title.
func WithMetaboxTitle(title string) OptionFn {
	return func(c *Config) {
		c.MetaboxTitle = title
	}
}

// WithPriority sets the placement priority passed to the host.
func WithPriority(priority string) OptionFn {
	return func(c *Config) {
		c.Priority = priority
	}
}

// WithContext sets the placement context passed to the host.
func WithContext(placement string) OptionFn {
	return func(c *Config) {
		c.Context = placement
	}
}

// WithForceSelection removes the "none" option.
func WithForceSelection(force bool) OptionFn {
	return func(c *Config) {
		c.ForceSelection = force
	}
}

// WithForcedTaxonomy overrides the forced-taxonomy policy for this widget.
func WithForcedTaxonomy(forced bool) OptionFn {
	return func(c *Config) {
		c.Forced = &forced
	}
}

// WithNoneLabel sets the format of the "none" label. A %s verb receives the
// taxonomy's singular label.
func WithNoneLabel(format string) OptionFn {
	return func(c *Config) {
		c.NoneLabel = format
	}
}

// WithTranslator localizes the "none" label through NoneLabelKey.
func WithTranslator(t Translator, locale string) OptionFn {
	return func(c *Config) {
		c.Translator = t
		c.Locale = locale
	}
}

// WithLogger sets the logger used for degraded lookups.
func WithLogger(logger *zap.Logger) OptionFn {
	return func(c *Config) {
		c.Logger = logger
	}
}
