package taxradio

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-taxradio/pkg/taxonomy"
)

func TestParseSubmission(t *testing.T) {
	cases := []struct {
		name    string
		tax     taxonomy.Taxonomy
		values  url.Values
		want    taxonomy.Value
		present bool
		wantErr bool
	}{
		{
			name:    "flat slug",
			tax:     genre,
			values:  url.Values{"tax_input[genre]": {"rock"}},
			want:    taxonomy.StringValue("rock"),
			present: true,
		},
		{
			name:    "flat none",
			tax:     genre,
			values:  url.Values{"tax_input[genre]": {""}},
			want:    taxonomy.StringValue(""),
			present: true,
		},
		{
			name:    "hierarchical id",
			tax:     category,
			values:  url.Values{"tax_input[category][]": {"5", "6"}},
			want:    taxonomy.NumericValue(5),
			present: true,
		},
		{
			name:    "hierarchical name does not match flat field",
			tax:     category,
			values:  url.Values{"tax_input[category]": {"5"}},
			present: false,
		},
		{
			name:    "hierarchical garbage",
			tax:     category,
			values:  url.Values{"tax_input[category][]": {"news"}},
			present: true,
			wantErr: true,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, present, err := ParseSubmission(tc.tax, tc.values)
			if (err != nil) != tc.wantErr {
				t.Fatalf("unexpected error state: %v", err)
			}
			if present != tc.present {
				t.Fatalf("present: want %v, got %v", tc.present, present)
			}
			if !tc.wantErr && !got.Equal(tc.want) {
				t.Fatalf("value: want %#v, got %#v", tc.want, got)
			}
		})
	}
}

func TestParseSubmission_RoundTripsRenderedOptions(t *testing.T) {
	for _, tax := range []taxonomy.Taxonomy{genre, category} {
		terms := genreTerms
		if tax.Hierarchical {
			terms = categoryTerms
		}
		list := BuildOptionList(NewConfig(tax.Slug), tax, terms, nil)
		for _, opt := range list.Options {
			values := url.Values{list.FieldName: {opt.FormValue}}
			got, present, err := ParseSubmission(tax, values)
			if err != nil || !present {
				t.Fatalf("%s: parse %q: present=%v err=%v", tax.Slug, opt.FormValue, present, err)
			}
			if !got.Equal(opt.Value) {
				t.Fatalf("%s: round trip: want %#v, got %#v", tax.Slug, opt.Value, got)
			}
		}
	}
}

func TestResolveSelection(t *testing.T) {
	ids, err := ResolveSelection(taxonomy.StringValue("rock"), genreTerms)
	if err != nil {
		t.Fatalf("resolve slug: %v", err)
	}
	if diff := cmp.Diff([]int64{2}, ids); diff != "" {
		t.Fatalf("slug ids mismatch (-want +got):\n%s", diff)
	}

	ids, err = ResolveSelection(taxonomy.NumericValue(5), categoryTerms)
	if err != nil || len(ids) != 1 || ids[0] != 5 {
		t.Fatalf("resolve id: %v (%v)", ids, err)
	}

	for _, empty := range []taxonomy.Value{taxonomy.StringValue(""), taxonomy.NumericValue(0)} {
		ids, err := ResolveSelection(empty, genreTerms)
		if err != nil || ids != nil {
			t.Fatalf("empty value should clear, got %v (%v)", ids, err)
		}
	}

	if _, err := ResolveSelection(taxonomy.StringValue("polka"), genreTerms); !errors.Is(err, ErrUnknownTerm) {
		t.Fatalf("expected ErrUnknownTerm, got %v", err)
	}
	if _, err := ResolveSelection(taxonomy.NumericValue(77), categoryTerms); !errors.Is(err, ErrUnknownTerm) {
		t.Fatalf("expected ErrUnknownTerm, got %v", err)
	}
}

func TestWidget_Save(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	w, err := New(store, "category")
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	saved, err := w.Save(ctx, store, 7, url.Values{"tax_input[category][]": {"5", "9"}})
	if err != nil || !saved {
		t.Fatalf("save: saved=%v err=%v", saved, err)
	}
	assigned, err := store.AssignedTerms(ctx, 7, "category")
	if err != nil {
		t.Fatalf("assigned: %v", err)
	}
	if diff := cmp.Diff([]int64{5}, taxonomy.TermIDs(assigned)); diff != "" {
		t.Fatalf("assignment mismatch (-want +got):\n%s", diff)
	}

	saved, err = w.Save(ctx, store, 7, url.Values{"other": {"x"}})
	if err != nil || saved {
		t.Fatalf("absent field must be a no-op: saved=%v err=%v", saved, err)
	}

	if _, err := w.Save(ctx, store, 7, url.Values{"tax_input[category][]": {"42"}}); !errors.Is(err, ErrUnknownTerm) {
		t.Fatalf("expected ErrUnknownTerm, got %v", err)
	}

	saved, err = w.Save(ctx, store, 7, url.Values{"tax_input[category][]": {"0"}})
	if err != nil || !saved {
		t.Fatalf("clear: saved=%v err=%v", saved, err)
	}
	if assigned, _ := store.AssignedTerms(ctx, 7, "category"); len(assigned) != 0 {
		t.Fatalf("expected cleared assignment, got %+v", assigned)
	}

	if _, err := w.Save(ctx, nil, 7, url.Values{}); err == nil {
		t.Fatalf("expected error for nil writer")
	}
}
