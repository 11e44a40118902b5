// Package yamlhost seeds an in-memory host from YAML or JSON fixture files:
// taxonomies with their terms, item assignments and field groups.
package yamlhost

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-taxradio/pkg/fieldgroups"
	"github.com/goliatone/go-taxradio/pkg/host/memhost"
	"github.com/goliatone/go-taxradio/pkg/taxonomy"
)

// Document is the fixture file layout.
type Document struct {
	Taxonomies  []TaxonomyFile      `json:"taxonomies" yaml:"taxonomies"`
	Assignments []AssignmentFile    `json:"assignments" yaml:"assignments"`
	FieldGroups []fieldgroups.Group `json:"field_groups" yaml:"field_groups"`
}

// TaxonomyFile is a taxonomy with its terms in display order.
type TaxonomyFile struct {
	taxonomy.Taxonomy `yaml:",inline"`
	Terms             []taxonomy.Term `json:"terms" yaml:"terms"`
}

// AssignmentFile assigns terms, by slug, to an item.
type AssignmentFile struct {
	Item     taxonomy.ItemID `json:"item" yaml:"item"`
	Taxonomy string          `json:"taxonomy" yaml:"taxonomy"`
	Terms    []string        `json:"terms" yaml:"terms"`
}

// Loaded is the result of loading fixtures.
type Loaded struct {
	Store       *memhost.Store
	FieldGroups *fieldgroups.Registry
}

// LoadFile loads a single fixture file.
func LoadFile(ctx context.Context, path string, options ...memhost.Option) (Loaded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Loaded{}, fmt.Errorf("yamlhost: read %s: %w", path, err)
	}
	doc, err := Parse(data, path)
	if err != nil {
		return Loaded{}, err
	}
	return Build(ctx, []Document{doc}, options...)
}

// LoadFS walks fsys and loads every .yaml, .yml and .json file in lexical
// order.
func LoadFS(ctx context.Context, fsys fs.FS, options ...memhost.Option) (Loaded, error) {
	if fsys == nil {
		return Build(ctx, nil, options...)
	}
	var docs []Document
	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isFixtureFile(path) {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("yamlhost: read %s: %w", path, err)
		}
		doc, err := Parse(data, path)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return Loaded{}, err
	}
	return Build(ctx, docs, options...)
}

// Parse decodes a fixture document. JSON is tried first, then YAML.
func Parse(data []byte, source string) (Document, error) {
	var doc Document
	if len(strings.TrimSpace(string(data))) == 0 {
		return Document{}, fmt.Errorf("yamlhost: file %s is empty", source)
	}
	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	doc = Document{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("yamlhost: parse %s: %w", source, err)
	}
	return doc, nil
}

// Build seeds a new store from docs. Taxonomies are registered before any
// assignment so documents may reference each other.
func Build(ctx context.Context, docs []Document, options ...memhost.Option) (Loaded, error) {
	store := memhost.New(options...)
	groups := fieldgroups.NewRegistry()

	for _, doc := range docs {
		for _, tf := range doc.Taxonomies {
			if err := store.RegisterTaxonomy(tf.Taxonomy); err != nil {
				return Loaded{}, fmt.Errorf("yamlhost: taxonomy %q: %w", tf.Slug, err)
			}
			for _, term := range tf.Terms {
				term.Taxonomy = tf.Slug
				if _, err := store.AddTerm(term); err != nil {
					return Loaded{}, fmt.Errorf("yamlhost: term %q of %q: %w", term.Name, tf.Slug, err)
				}
			}
		}
		for _, group := range doc.FieldGroups {
			if err := groups.Add(group); err != nil {
				return Loaded{}, fmt.Errorf("yamlhost: %w", err)
			}
		}
	}

	for _, doc := range docs {
		for _, assignment := range doc.Assignments {
			if err := assign(ctx, store, assignment); err != nil {
				return Loaded{}, err
			}
		}
	}

	return Loaded{Store: store, FieldGroups: groups}, nil
}

func assign(ctx context.Context, store *memhost.Store, a AssignmentFile) error {
	terms, err := store.Terms(ctx, a.Taxonomy)
	if err != nil {
		return fmt.Errorf("yamlhost: assignment for item %d: %w", a.Item, err)
	}
	bySlug := make(map[string]int64, len(terms))
	for _, term := range terms {
		bySlug[term.Slug] = term.ID
	}
	ids := make([]int64, 0, len(a.Terms))
	for _, slug := range a.Terms {
		id, ok := bySlug[strings.TrimSpace(slug)]
		if !ok {
			return fmt.Errorf("yamlhost: item %d: unknown term %q in %q", a.Item, slug, a.Taxonomy)
		}
		ids = append(ids, id)
	}
	if err := store.SetAssignedTerms(ctx, a.Item, a.Taxonomy, ids); err != nil {
		return fmt.Errorf("yamlhost: item %d: %w", a.Item, err)
	}
	return nil
}

func isFixtureFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	default:
		return false
	}
}
