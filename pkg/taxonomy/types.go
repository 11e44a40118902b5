package taxonomy

import "strings"

// ItemID identifies the item (post, page, record) terms are assigned to.
type ItemID int64

// Labels carries the display strings of a taxonomy.
type Labels struct {
	Name         string `json:"name" yaml:"name"`
	SingularName string `json:"singular_name" yaml:"singular_name"`
}

// Taxonomy describes a registered classification scheme.
type Taxonomy struct {
	Slug         string   `json:"slug" yaml:"slug"`
	Labels       Labels   `json:"labels" yaml:"labels"`
	Hierarchical bool     `json:"hierarchical" yaml:"hierarchical"`
	ObjectTypes  []string `json:"object_types,omitempty" yaml:"object_types"`
}

// SingularLabel returns the singular label, falling back to the plural label
// and finally the slug.
func (t Taxonomy) SingularLabel() string {
	if label := strings.TrimSpace(t.Labels.SingularName); label != "" {
		return label
	}
	if label := strings.TrimSpace(t.Labels.Name); label != "" {
		return label
	}
	return t.Slug
}

// PluralLabel returns the plural label or the slug when unset.
func (t Taxonomy) PluralLabel() string {
	if label := strings.TrimSpace(t.Labels.Name); label != "" {
		return label
	}
	return t.Slug
}

// Term is a single value within a taxonomy.
type Term struct {
	ID       int64  `json:"id" yaml:"id"`
	Slug     string `json:"slug" yaml:"slug"`
	Name     string `json:"name" yaml:"name"`
	Taxonomy string `json:"taxonomy" yaml:"taxonomy"`
	Parent   int64  `json:"parent,omitempty" yaml:"parent"`
}

// TermIDs plucks the identifiers from terms, preserving order.
func TermIDs(terms []Term) []int64 {
	if len(terms) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(terms))
	for _, term := range terms {
		ids = append(ids, term.ID)
	}
	return ids
}

// NormalizeTypes trims item type names and drops blanks and duplicates while
// preserving order. A nil or empty input returns nil.
func NormalizeTypes(types ...string) []string {
	if len(types) == 0 {
		return nil
	}
	out := make([]string, 0, len(types))
	seen := make(map[string]struct{}, len(types))
	for _, raw := range types {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
