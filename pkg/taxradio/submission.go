package taxradio

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/goliatone/go-taxradio/pkg/host"
	"github.com/goliatone/go-taxradio/pkg/taxonomy"
)

// ErrUnknownTerm is returned when a submitted value names no term of the
// taxonomy.
var ErrUnknownTerm = errors.New("taxradio: unknown term")

// ParseSubmission reads the widget's field from submitted form values. The
// boolean is false when the field is absent, which hosts treat as "leave the
// assignment alone". When a multi-value field carries several values the
// first wins, matching the radio contract.
func ParseSubmission(tax taxonomy.Taxonomy, values url.Values) (taxonomy.Value, bool, error) {
	raw, ok := values[FieldName(tax.Slug, tax.Hierarchical)]
	if !ok || len(raw) == 0 {
		return taxonomy.Value{}, false, nil
	}
	value, err := taxonomy.ParseValue(raw[0], tax.Hierarchical)
	if err != nil {
		return taxonomy.Value{}, true, err
	}
	return value, true, nil
}

// ResolveSelection maps a submitted value to the term identifiers to store.
// Empty values clear the assignment. Numeric values must name a term id and
// string values a term slug.
func ResolveSelection(value taxonomy.Value, terms []taxonomy.Term) ([]int64, error) {
	if value.IsEmpty() {
		return nil, nil
	}
	if id, ok := value.Int64(); ok {
		for _, term := range terms {
			if term.ID == id {
				return []int64{id}, nil
			}
		}
		return nil, fmt.Errorf("%w: id %d", ErrUnknownTerm, id)
	}
	slug, _ := value.Text()
	for _, term := range terms {
		if term.Slug == slug {
			return []int64{term.ID}, nil
		}
	}
	return nil, fmt.Errorf("%w: slug %q", ErrUnknownTerm, slug)
}

// Save applies a submitted form to item through writer. It reports false and
// leaves the assignment untouched when the form does not carry the field.
func (w *Widget) Save(ctx context.Context, writer host.AssignmentWriter, item taxonomy.ItemID, values url.Values) (bool, error) {
	if writer == nil {
		return false, fmt.Errorf("taxradio: assignment writer is required")
	}
	tax, err := w.Taxonomy(ctx)
	if err != nil {
		return false, err
	}
	value, present, err := ParseSubmission(tax, values)
	if err != nil {
		return false, fmt.Errorf("taxradio: parse %q submission: %w", w.cfg.Slug, err)
	}
	if !present {
		return false, nil
	}
	terms, err := w.host.Terms(ctx, w.cfg.Slug)
	if err != nil {
		return false, fmt.Errorf("taxradio: list terms of %q: %w", w.cfg.Slug, err)
	}
	ids, err := ResolveSelection(value, terms)
	if err != nil {
		return false, err
	}
	if err := writer.SetAssignedTerms(ctx, item, w.cfg.Slug, ids); err != nil {
		return false, fmt.Errorf("taxradio: store %q selection for %d: %w", w.cfg.Slug, item, err)
	}
	w.cfg.Logger.Debug("taxradio selection saved",
		zap.String("taxonomy", w.cfg.Slug),
		zap.Int64("item", int64(item)),
		zap.Int64s("terms", ids),
	)
	return true, nil
}
