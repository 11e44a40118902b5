package taxradio

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-taxradio/pkg/model"
	"github.com/goliatone/go-taxradio/pkg/taxonomy"
)

var (
	genre = taxonomy.Taxonomy{
		Slug:        "genre",
		Labels:      taxonomy.Labels{Name: "Genres", SingularName: "genre"},
		ObjectTypes: []string{"album"},
	}
	genreTerms = []taxonomy.Term{
		{ID: 1, Slug: "jazz", Name: "Jazz", Taxonomy: "genre"},
		{ID: 2, Slug: "rock", Name: "Rock", Taxonomy: "genre"},
	}
	category = taxonomy.Taxonomy{
		Slug:         "category",
		Labels:       taxonomy.Labels{Name: "Categories", SingularName: "Category"},
		Hierarchical: true,
		ObjectTypes:  []string{"post"},
	}
	categoryTerms = []taxonomy.Term{
		{ID: 5, Slug: "news", Name: "News", Taxonomy: "category"},
	}
)

func TestBuildOptionList_FlatNothingAssigned(t *testing.T) {
	got := BuildOptionList(NewConfig("genre"), genre, genreTerms, nil)

	want := model.OptionList{
		Taxonomy:     "genre",
		FieldName:    "tax_input[genre]",
		DefaultValue: taxonomy.StringValue(""),
		ListID:       "genre_taxradiolist",
		ListKey:      "list:genre_tax",
		Options: []model.Option{
			{Value: taxonomy.StringValue(""), FormValue: "", Label: "No genre", Checked: true, DOMID: "in-genre_tax-0", ItemID: "genre_tax-0", None: true},
			{Value: taxonomy.StringValue("jazz"), FormValue: "jazz", Label: "Jazz", DOMID: "in-genre_tax-1", ItemID: "genre_tax-1", TermID: 1},
			{Value: taxonomy.StringValue("rock"), FormValue: "rock", Label: "Rock", DOMID: "in-genre_tax-2", ItemID: "genre_tax-2", TermID: 2},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("option list mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildOptionList_FlatAssigned(t *testing.T) {
	got := BuildOptionList(NewConfig("genre"), genre, genreTerms, []int64{2})

	if got.Options[0].Checked {
		t.Fatalf("none option must not be checked when a term is assigned")
	}
	checked, ok := got.Checked()
	if !ok || checked.FormValue != "rock" {
		t.Fatalf("expected rock checked, got %#v", checked)
	}
	if got.CheckedCount() != 1 {
		t.Fatalf("expected exactly one checked option, got %d", got.CheckedCount())
	}
}

func TestBuildOptionList_CategoryHasNoNone(t *testing.T) {
	for _, force := range []bool{false, true} {
		got := BuildOptionList(NewConfig("category", WithForceSelection(force)), category, categoryTerms, nil)

		want := []model.Option{
			{Value: taxonomy.NumericValue(5), FormValue: "5", Label: "News", DOMID: "in-category_tax-5", ItemID: "category_tax-5", TermID: 5},
		}
		if diff := cmp.Diff(want, got.Options); diff != "" {
			t.Fatalf("force=%v options mismatch (-want +got):\n%s", force, diff)
		}
		if got.FieldName != "tax_input[category][]" {
			t.Fatalf("unexpected field name %q", got.FieldName)
		}
		if !got.DefaultValue.Equal(taxonomy.NumericValue(0)) {
			t.Fatalf("hierarchical default must be numeric zero, got %#v", got.DefaultValue)
		}
	}
}

func TestBuildOptionList_ForceSelectionDropsNone(t *testing.T) {
	got := BuildOptionList(NewConfig("genre", WithForceSelection(true)), genre, genreTerms, nil)
	if got.HasNone() {
		t.Fatalf("force selection must drop the none option")
	}
	if got.CheckedCount() != 0 {
		t.Fatalf("expected nothing checked, got %d", got.CheckedCount())
	}
}

func TestBuildOptionList_ForcedTaxonomyIsConfigurable(t *testing.T) {
	got := BuildOptionList(NewConfig("category", WithForcedTaxonomy(false)), category, categoryTerms, nil)
	if !got.HasNone() {
		t.Fatalf("expected none option once the forced policy is lifted")
	}
	if got.Options[0].FormValue != "0" {
		t.Fatalf("hierarchical none option submits 0, got %q", got.Options[0].FormValue)
	}

	got = BuildOptionList(NewConfig("genre", WithForcedTaxonomy(true)), genre, genreTerms, nil)
	if got.HasNone() {
		t.Fatalf("expected forced policy to drop the none option")
	}
}

func TestBuildOptionList_ValueEncoding(t *testing.T) {
	hierarchical := genre
	hierarchical.Hierarchical = true

	for _, tc := range []struct {
		name string
		tax  taxonomy.Taxonomy
		kind taxonomy.ValueKind
		want []string
	}{
		{name: "flat uses slugs", tax: genre, kind: taxonomy.KindString, want: []string{"jazz", "rock"}},
		{name: "hierarchical uses ids", tax: hierarchical, kind: taxonomy.KindNumeric, want: []string{"1", "2"}},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := BuildOptionList(NewConfig("genre", WithForceSelection(true)), tc.tax, genreTerms, nil)
			var values []string
			for _, opt := range got.Options {
				if opt.Value.Kind() != tc.kind {
					t.Fatalf("option %q has kind %s, want %s", opt.Label, opt.Value.Kind(), tc.kind)
				}
				values = append(values, opt.FormValue)
			}
			if diff := cmp.Diff(tc.want, values); diff != "" {
				t.Fatalf("values mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildOptionList_EmptyTerms(t *testing.T) {
	got := BuildOptionList(NewConfig("genre"), genre, nil, nil)
	if len(got.Options) != 1 || !got.Options[0].None || !got.Options[0].Checked {
		t.Fatalf("expected only a checked none option, got %#v", got.Options)
	}

	got = BuildOptionList(NewConfig("genre", WithForceSelection(true)), genre, nil, nil)
	if got.Options == nil || len(got.Options) != 0 {
		t.Fatalf("expected an empty, non-nil option slice, got %#v", got.Options)
	}
}

func TestBuildOptionList_UnknownAssignedIgnored(t *testing.T) {
	got := BuildOptionList(NewConfig("genre"), genre, genreTerms, []int64{99})
	if got.CheckedCount() != 0 {
		t.Fatalf("unknown assignment must not check anything, got %d", got.CheckedCount())
	}

	got = BuildOptionList(NewConfig("genre"), genre, genreTerms, []int64{99, 1})
	if checked, ok := got.Checked(); !ok || checked.TermID != 1 || got.CheckedCount() != 1 {
		t.Fatalf("known assignment should still be checked, got %#v", got.Options)
	}
}

func TestBuildOptionList_AtMostOneChecked(t *testing.T) {
	got := BuildOptionList(NewConfig("genre"), genre, genreTerms, []int64{2, 1})
	if got.CheckedCount() != 1 {
		t.Fatalf("expected one checked option, got %d", got.CheckedCount())
	}
	if checked, _ := got.Checked(); checked.TermID != 1 {
		t.Fatalf("first listed term wins, got %d", checked.TermID)
	}
}

func TestBuildOptionList_PreservesHostOrder(t *testing.T) {
	terms := []taxonomy.Term{genreTerms[1], genreTerms[0]}
	got := BuildOptionList(NewConfig("genre", WithForceSelection(true)), genre, terms, nil)
	if got.Options[0].Label != "Rock" || got.Options[1].Label != "Jazz" {
		t.Fatalf("terms were reordered: %#v", got.Options)
	}
}

func TestBuildOptionList_Idempotent(t *testing.T) {
	cfg := NewConfig("genre")
	first := BuildOptionList(cfg, genre, genreTerms, []int64{1})
	second := BuildOptionList(cfg, genre, genreTerms, []int64{1})
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("repeated builds differ (-first +second):\n%s", diff)
	}
}

type mapTranslator map[string]string

func (m mapTranslator) Translate(locale, key string, args ...any) (string, error) {
	msg, ok := m[locale+":"+key]
	if !ok {
		return "", errors.New("missing")
	}
	if len(args) > 0 {
		return msg + " " + args[0].(string), nil
	}
	return msg, nil
}

func TestBuildOptionList_NoneLabel(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		want string
	}{
		{name: "default", cfg: NewConfig("genre"), want: "No genre"},
		{name: "custom format", cfg: NewConfig("genre", WithNoneLabel("Without %s")), want: "Without genre"},
		{name: "verbatim", cfg: NewConfig("genre", WithNoneLabel("Unsorted")), want: "Unsorted"},
		{name: "translated", cfg: NewConfig("genre", WithTranslator(mapTranslator{"es:" + NoneLabelKey: "Sin"}, "es")), want: "Sin genre"},
		{name: "translation missing", cfg: NewConfig("genre", WithTranslator(mapTranslator{}, "fr")), want: "No genre"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := BuildOptionList(tc.cfg, genre, nil, nil)
			if got.Options[0].Label != tc.want {
				t.Fatalf("want %q, got %q", tc.want, got.Options[0].Label)
			}
		})
	}
}

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig(" genre ", WithPostTypes("album"), WithPriority(""), WithContext(""))
	if cfg.Slug != "genre" || cfg.Priority != "default" || cfg.Context != "side" {
		t.Fatalf("unexpected defaults: %#v", cfg)
	}
	if diff := cmp.Diff([]string{"album"}, cfg.PostTypes); diff != "" {
		t.Fatalf("single post type should become a one-element list (-want +got):\n%s", diff)
	}
	if cfg.Logger == nil {
		t.Fatalf("expected a nop logger")
	}
}
