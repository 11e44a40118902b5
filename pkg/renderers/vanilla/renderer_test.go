package vanilla

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-taxradio/pkg/model"
	"github.com/goliatone/go-taxradio/pkg/render"
	"github.com/goliatone/go-taxradio/pkg/taxradio"
	"github.com/goliatone/go-taxradio/pkg/testsupport"
)

func genreBox(t *testing.T, assigned ...int64) model.Metabox {
	t.Helper()

	tax := testsupport.Genre()
	return model.Metabox{
		ID:       taxradio.MetaboxID(tax.Slug),
		Title:    tax.PluralLabel(),
		Context:  "side",
		Priority: "default",
		List:     taxradio.BuildOptionList(taxradio.NewConfig(tax.Slug), tax, testsupport.GenreTerms(), assigned),
		Hidden:   render.MergeHiddenFields(nil, render.NonceField("abc123")),
	}
}

func mustRender(t *testing.T, r *Renderer, box model.Metabox, opts render.RenderOptions) string {
	t.Helper()

	out, err := r.Render(context.Background(), box, opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func TestRenderer_FlatTaxonomyMarkup(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	html := mustRender(t, r, genreBox(t, 2), render.RenderOptions{})

	for _, want := range []string{
		`<div id="genre_radio" class="postbox taxradio"`,
		`<h2 class="hndle">Genres</h2>`,
		`<input type="hidden" name="taxonomy_noncename" value="abc123">`,
		`<ul id="genre_taxradiolist" data-wp-lists="list:genre_tax" class="categorychecklist form-no-clear">`,
		`<li id="genre_tax-0"><label><input value="" type="radio" name="tax_input[genre]" id="in-genre_tax-0"> No genre</label></li>`,
		`<input value="rock" type="radio" name="tax_input[genre]" id="in-genre_tax-2" checked="checked"> Rock`,
		`<input value="jazz" type="radio" name="tax_input[genre]" id="in-genre_tax-1"> Jazz`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected markup to contain %q\n%s", want, html)
		}
	}
	if got := strings.Count(html, `checked="checked"`); got != 1 {
		t.Fatalf("expected exactly one checked input, got %d\n%s", got, html)
	}
}

func TestRenderer_HierarchicalFieldName(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	tax := testsupport.Category()
	box := model.Metabox{
		ID:    taxradio.MetaboxID(tax.Slug),
		Title: tax.PluralLabel(),
		List:  taxradio.BuildOptionList(taxradio.NewConfig(tax.Slug), tax, testsupport.CategoryTerms(), nil),
	}
	html := mustRender(t, r, box, render.RenderOptions{})

	if !strings.Contains(html, `<input value="5" type="radio" name="tax_input[category][]" id="in-category_tax-5">`) {
		t.Fatalf("unexpected hierarchical markup:\n%s", html)
	}
	if strings.Contains(html, "category_tax-0") {
		t.Fatalf("category must not render a none option:\n%s", html)
	}
	if strings.Contains(html, "checked") {
		t.Fatalf("nothing should be checked:\n%s", html)
	}
}

func TestRenderer_SanitizesLabels(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	box := genreBox(t)
	box.List.Options[1].Label = `<em>Jazz</em><script>alert(1)</script>`
	box.List.Options[2].Label = "R&B"
	box.Title = "<b>Genres</b>"

	html := mustRender(t, r, box, render.RenderOptions{})
	if strings.Contains(html, "<script>") || strings.Contains(html, "<em>") || strings.Contains(html, "<b>") {
		t.Fatalf("markup leaked into output:\n%s", html)
	}
	if !strings.Contains(html, "> Jazz</label>") {
		t.Fatalf("expected stripped label:\n%s", html)
	}
	if !strings.Contains(html, "> R&amp;B</label>") {
		t.Fatalf("expected escaped label exactly once:\n%s", html)
	}
	if box.List.Options[2].Label != "R&B" {
		t.Fatalf("render must not mutate the caller's metabox")
	}
}

func TestRenderer_FragmentSkipsChrome(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	html := mustRender(t, r, genreBox(t), render.RenderOptions{
		Fragment: true,
		Hidden:   []render.HiddenField{render.Hidden("_method", "PUT")},
		Classes:  map[string]string{"list": "radio-list"},
	})

	if strings.Contains(html, "hndle") || strings.Contains(html, `id="genre_radio"`) {
		t.Fatalf("fragment should not render chrome:\n%s", html)
	}
	if !strings.Contains(html, `class="radio-list"`) {
		t.Fatalf("class override not applied:\n%s", html)
	}
	if !strings.Contains(html, `name="_method" value="PUT"`) {
		t.Fatalf("extra hidden field missing:\n%s", html)
	}
}

type stubThemeSelector struct {
	selection *theme.Selection
	err       error
}

func (s *stubThemeSelector) Select(string, string, ...theme.QueryOption) (*theme.Selection, error) {
	return s.selection, s.err
}

func TestRenderer_ThemeTokens(t *testing.T) {
	selector := &stubThemeSelector{selection: &theme.Selection{
		Theme:   "acme",
		Variant: "dark",
		Manifest: &theme.Manifest{
			Name: "acme",
			Tokens: map[string]string{
				"taxradio.class.list":    "acme-list",
				"taxradio.class.wrapper": "acme-box",
				"brand":                  "#123456",
			},
			Variants: map[string]theme.Variant{
				"dark": {Tokens: map[string]string{"taxradio.class.wrapper": "acme-box dark"}},
			},
		},
	}}

	r, err := New(WithTheme(selector, "acme", "dark"))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	html := mustRender(t, r, genreBox(t), render.RenderOptions{})
	if !strings.Contains(html, `class="acme-list"`) || !strings.Contains(html, `class="acme-box dark"`) {
		t.Fatalf("theme tokens not applied:\n%s", html)
	}

	selector.err = errors.New("unknown theme")
	if _, err := r.Render(context.Background(), genreBox(t), render.RenderOptions{}); err == nil {
		t.Fatalf("expected theme selection error")
	}
}

func TestRenderer_CustomTemplates(t *testing.T) {
	files := fstest.MapFS{
		MetaboxTemplate: {Data: []byte(`{% for option in list.options %}{{ option.form_value }};{% endfor %}`)},
	}
	r, err := New(WithTemplatesFS(files))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if got := mustRender(t, r, genreBox(t), render.RenderOptions{}); got != ";jazz;rock;" {
		t.Fatalf("unexpected custom output %q", got)
	}
}
