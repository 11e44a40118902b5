// Package testsupport holds fixtures and comparison helpers shared by the package
// tests.
package testsupport

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-taxradio/pkg/host/memhost"
	"github.com/goliatone/go-taxradio/pkg/taxonomy"
)

// NonceSecret signs nonces issued by MustStore.
const NonceSecret = "testsupport-secret"

// Genre is a flat taxonomy attached to albums.
func Genre() taxonomy.Taxonomy {
	return taxonomy.Taxonomy{
		Slug:        "genre",
		Labels:      taxonomy.Labels{Name: "Genres", SingularName: "genre"},
		ObjectTypes: []string{"album"},
	}
}

// Category is the hierarchical, forced taxonomy attached to posts.
func Category() taxonomy.Taxonomy {
	return taxonomy.Taxonomy{
		Slug:         "category",
		Labels:       taxonomy.Labels{Name: "Categories", SingularName: "Category"},
		Hierarchical: true,
		ObjectTypes:  []string{"post"},
	}
}

// GenreTerms returns jazz (1) and rock (2).
func GenreTerms() []taxonomy.Term {
	return []taxonomy.Term{
		{ID: 1, Slug: "jazz", Name: "Jazz", Taxonomy: "genre"},
		{ID: 2, Slug: "rock", Name: "Rock", Taxonomy: "genre"},
	}
}

// CategoryTerms returns news (5).
func CategoryTerms() []taxonomy.Term {
	return []taxonomy.Term{
		{ID: 5, Slug: "news", Name: "News", Taxonomy: "category"},
	}
}

// MustStore builds a memhost store seeded with Genre and Category.
func MustStore(t *testing.T) *memhost.Store {
	t.Helper()

	store := memhost.New(memhost.WithNonceSecret(NonceSecret))
	for _, tax := range []taxonomy.Taxonomy{Genre(), Category()} {
		if err := store.RegisterTaxonomy(tax); err != nil {
			t.Fatalf("register %s: %v", tax.Slug, err)
		}
	}
	for _, term := range append(GenreTerms(), CategoryTerms()...) {
		if _, err := store.AddTerm(term); err != nil {
			t.Fatalf("add term %s: %v", term.Slug, err)
		}
	}
	return store
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// Diff returns a go-cmp diff of want and got, empty when equal.
func Diff(want, got any) string {
	return cmp.Diff(want, got)
}

// CaptureTemplateOutput executes a render function that writes to an
// io.Writer, returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}
