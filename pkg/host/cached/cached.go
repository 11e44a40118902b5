// Package cached wraps a host with a read-through LRU cache of taxonomy
// metadata. Terms and assignments are always read from the wrapped host.
package cached

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/goliatone/go-taxradio/pkg/host"
	"github.com/goliatone/go-taxradio/pkg/taxonomy"
)

// DefaultSize is the number of taxonomies kept when no size is given.
const DefaultSize = 128

// Host caches TaxonomyReader lookups of the embedded host. Lookups that fail
// are not cached.
type Host struct {
	host.Host
	taxonomies *lru.Cache[string, taxonomy.Taxonomy]
}

var _ host.Host = (*Host)(nil)

// New wraps next with a cache of size entries.
func New(next host.Host, size int) (*Host, error) {
	if next == nil {
		return nil, fmt.Errorf("cached: host is required")
	}
	if size <= 0 {
		size = DefaultSize
	}
	cache, err := lru.New[string, taxonomy.Taxonomy](size)
	if err != nil {
		return nil, fmt.Errorf("cached: create cache: %w", err)
	}
	return &Host{Host: next, taxonomies: cache}, nil
}

func (h *Host) Taxonomy(ctx context.Context, slug string) (taxonomy.Taxonomy, error) {
	if tax, ok := h.taxonomies.Get(slug); ok {
		return cloneTaxonomy(tax), nil
	}
	tax, err := h.Host.Taxonomy(ctx, slug)
	if err != nil {
		return taxonomy.Taxonomy{}, err
	}
	h.taxonomies.Add(slug, cloneTaxonomy(tax))
	return tax, nil
}

// Invalidate drops a cached taxonomy, or every taxonomy when slug is empty.
func (h *Host) Invalidate(slug string) {
	if slug == "" {
		h.taxonomies.Purge()
		return
	}
	h.taxonomies.Remove(slug)
}

// Len reports the number of cached taxonomies.
func (h *Host) Len() int {
	return h.taxonomies.Len()
}

func cloneTaxonomy(tax taxonomy.Taxonomy) taxonomy.Taxonomy {
	tax.ObjectTypes = append([]string(nil), tax.ObjectTypes...)
	return tax
}
