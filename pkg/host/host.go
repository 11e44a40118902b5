package host

import (
	"context"

	"github.com/goliatone/go-taxradio/pkg/taxonomy"
)

// Default metabox contexts and priorities understood by hosts.
const (
	ContextSide     = "side"
	ContextNormal   = "normal"
	ContextAdvanced = "advanced"

	PriorityDefault = "default"
	PriorityHigh    = "high"
	PriorityLow     = "low"
)

// TaxonomyReader resolves taxonomy metadata. Unknown slugs must return an
// error matching taxonomy.ErrNotFound.
type TaxonomyReader interface {
	Taxonomy(ctx context.Context, slug string) (taxonomy.Taxonomy, error)
}

// TermReader lists every term of a taxonomy, including unused ones, in the
// host's display order.
type TermReader interface {
	Terms(ctx context.Context, slug string) ([]taxonomy.Term, error)
}

// AssignmentReader returns the terms of a taxonomy assigned to an item.
type AssignmentReader interface {
	AssignedTerms(ctx context.Context, item taxonomy.ItemID, slug string) ([]taxonomy.Term, error)
}

// AssignmentWriter replaces the terms of a taxonomy assigned to an item. An
// empty termIDs slice clears the assignment.
type AssignmentWriter interface {
	SetAssignedTerms(ctx context.Context, item taxonomy.ItemID, slug string, termIDs []int64) error
}

// NonceIssuer emits an anti-tampering token bound to an action name.
type NonceIssuer interface {
	Nonce(ctx context.Context, action string) (string, error)
}

// NonceVerifier checks tokens produced by a NonceIssuer.
type NonceVerifier interface {
	VerifyNonce(ctx context.Context, action, token string) bool
}

// Host is the read side the widget needs during a render.
type Host interface {
	TaxonomyReader
	TermReader
	AssignmentReader
	NonceIssuer
}

// RenderFunc produces the markup of a metabox for an item.
type RenderFunc func(ctx context.Context, item taxonomy.ItemID) ([]byte, error)

// Metabox is a panel registration on an item editing screen.
type Metabox struct {
	ID       string
	Title    string
	ItemType string
	Context  string
	Priority string
	Render   RenderFunc
}

// MetaboxRegistrar is the metabox table of the host editing screen.
type MetaboxRegistrar interface {
	RemoveMetabox(id, itemType, placement string)
	AddMetabox(box Metabox)
}

// DefaultMetaboxIDs returns the identifiers hosts use for their built-in term
// pickers: "<slug>div" for hierarchical pickers and "tagsdiv-<slug>" for flat
// ones.
func DefaultMetaboxIDs(slug string) (hierarchical, flat string) {
	return slug + "div", "tagsdiv-" + slug
}
