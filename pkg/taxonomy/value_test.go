package taxonomy

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestValue_StringMatchesSubmittedShape(t *testing.T) {
	cases := []struct {
		name  string
		value Value
		want  string
		empty bool
	}{
		{name: "numeric zero", value: NumericValue(0), want: "0", empty: true},
		{name: "numeric id", value: NumericValue(42), want: "42"},
		{name: "empty string", value: StringValue(""), want: "", empty: true},
		{name: "slug", value: StringValue("jazz"), want: "jazz"},
		{name: "zero value", value: Value{}, want: "", empty: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.value.String(); got != tc.want {
				t.Fatalf("String(): want %q, got %q", tc.want, got)
			}
			if got := tc.value.IsEmpty(); got != tc.empty {
				t.Fatalf("IsEmpty(): want %v, got %v", tc.empty, got)
			}
		})
	}
}

func TestValue_JSONKeepsTag(t *testing.T) {
	payload, err := json.Marshal([]Value{NumericValue(5), StringValue("rock"), NumericValue(0), StringValue("")})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if got, want := string(payload), `[5,"rock",0,""]`; got != want {
		t.Fatalf("marshal: want %s, got %s", want, got)
	}

	var decoded []Value
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if n, ok := decoded[0].Int64(); !ok || n != 5 {
		t.Fatalf("expected numeric 5, got %#v", decoded[0])
	}
	if s, ok := decoded[1].Text(); !ok || s != "rock" {
		t.Fatalf("expected string rock, got %#v", decoded[1])
	}
	if decoded[2].Kind() != KindNumeric || decoded[3].Kind() != KindString {
		t.Fatalf("zero-like values lost their tag: %#v", decoded[2:])
	}
}

func TestParseValue(t *testing.T) {
	got, err := ParseValue("12", true)
	if err != nil {
		t.Fatalf("parse hierarchical: %v", err)
	}
	if n, ok := got.Int64(); !ok || n != 12 {
		t.Fatalf("unexpected hierarchical value %#v", got)
	}

	got, err = ParseValue("", true)
	if err != nil || got.Kind() != KindNumeric || !got.IsEmpty() {
		t.Fatalf("empty hierarchical submission should be numeric zero, got %#v (%v)", got, err)
	}

	if _, err := ParseValue("jazz", true); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected error for non-numeric hierarchical submission")
	}

	got, err = ParseValue("12", false)
	if err != nil {
		t.Fatalf("parse flat: %v", err)
	}
	if s, ok := got.Text(); !ok || s != "12" {
		t.Fatalf("flat submissions stay strings, got %#v", got)
	}
}

func TestNotFoundError(t *testing.T) {
	err := fmt.Errorf("wrap: %w", NotFound("genre"))
	if !errors.Is(err, ErrNotFound) || !IsNotFound(err) {
		t.Fatalf("expected wrapped error to match ErrNotFound")
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.Slug != "genre" {
		t.Fatalf("expected NotFoundError for genre, got %#v", nf)
	}
}

func TestNormalizeTypes(t *testing.T) {
	got := NormalizeTypes(" post ", "", "page", "post")
	if diff := cmp.Diff([]string{"post", "page"}, got); diff != "" {
		t.Fatalf("normalize mismatch (-want +got):\n%s", diff)
	}
	if NormalizeTypes("  ") != nil {
		t.Fatalf("blank input should normalize to nil")
	}
}

func TestTaxonomyLabels(t *testing.T) {
	tax := Taxonomy{Slug: "genre", Labels: Labels{Name: "Genres"}}
	if tax.SingularLabel() != "Genres" || tax.PluralLabel() != "Genres" {
		t.Fatalf("unexpected label fallback: %q / %q", tax.SingularLabel(), tax.PluralLabel())
	}
	if (Taxonomy{Slug: "genre"}).SingularLabel() != "genre" {
		t.Fatalf("expected slug fallback")
	}
}
