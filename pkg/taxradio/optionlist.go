package taxradio

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-taxradio/pkg/model"
	"github.com/goliatone/go-taxradio/pkg/taxonomy"
)

// FieldName returns the input name the host's default save routine reads:
// hierarchical taxonomies use a multi-value name, flat ones a single value.
func FieldName(slug string, hierarchical bool) string {
	if hierarchical {
		return "tax_input[" + slug + "][]"
	}
	return "tax_input[" + slug + "]"
}

// DefaultValue is submitted by the "none" option.
func DefaultValue(hierarchical bool) taxonomy.Value {
	if hierarchical {
		return taxonomy.NumericValue(0)
	}
	return taxonomy.StringValue("")
}

// TermValue is the value a term's option submits.
func TermValue(term taxonomy.Term, hierarchical bool) taxonomy.Value {
	if hierarchical {
		return taxonomy.NumericValue(term.ID)
	}
	return taxonomy.StringValue(term.Slug)
}

// MetaboxID identifies the replacement panel.
func MetaboxID(slug string) string {
	return slug + "_radio"
}

// ListID identifies the option list element.
func ListID(slug string) string {
	return slug + "_taxradiolist"
}

// ItemDOMID identifies the list item of a term; id 0 is the "none" option.
func ItemDOMID(slug string, termID int64) string {
	return slug + "_tax-" + strconv.FormatInt(termID, 10)
}

// InputDOMID identifies the radio input of a term; id 0 is the "none" option.
func InputDOMID(slug string, termID int64) string {
	return "in-" + ItemDOMID(slug, termID)
}

// BuildOptionList computes the radio options for a taxonomy. Terms keep the
// order they were supplied in. An option is checked when its term is in
// assigned; only the first such term stays checked. The "none" option leads
// the list unless cfg suppresses it and is checked when assigned is empty.
// Assigned identifiers without a matching term are ignored.
func BuildOptionList(cfg Config, tax taxonomy.Taxonomy, terms []taxonomy.Term, assigned []int64) model.OptionList {
	slug := cfg.Slug
	if slug == "" {
		slug = tax.Slug
	}
	h := tax.Hierarchical

	list := model.OptionList{
		Taxonomy:     slug,
		Hierarchical: h,
		FieldName:    FieldName(slug, h),
		DefaultValue: DefaultValue(h),
		ListID:       ListID(slug),
		ListKey:      "list:" + slug + "_tax",
		Options:      make([]model.Option, 0, len(terms)+1),
	}

	if cfg.ShowsNone() {
		value := list.DefaultValue
		list.Options = append(list.Options, model.Option{
			Value:     value,
			FormValue: value.String(),
			Label:     noneLabel(cfg, tax),
			Checked:   len(assigned) == 0,
			DOMID:     InputDOMID(slug, 0),
			ItemID:    ItemDOMID(slug, 0),
			None:      true,
		})
	}

	existing := make(map[int64]struct{}, len(assigned))
	for _, id := range assigned {
		existing[id] = struct{}{}
	}

	checked := false
	for _, term := range terms {
		value := TermValue(term, h)
		_, isAssigned := existing[term.ID]
		isChecked := isAssigned && !checked
		if isChecked {
			checked = true
		}
		list.Options = append(list.Options, model.Option{
			Value:     value,
			FormValue: value.String(),
			Label:     term.Name,
			Checked:   isChecked,
			DOMID:     InputDOMID(slug, term.ID),
			ItemID:    ItemDOMID(slug, term.ID),
			TermID:    term.ID,
		})
	}

	return list
}

func noneLabel(cfg Config, tax taxonomy.Taxonomy) string {
	singular := tax.SingularLabel()
	if cfg.Translator != nil {
		msg, err := cfg.Translator.Translate(cfg.Locale, NoneLabelKey, singular)
		if err == nil && strings.TrimSpace(msg) != "" {
			return msg
		}
	}
	format := cfg.NoneLabel
	if format == "" {
		format = DefaultNoneLabel
	}
	if !strings.Contains(format, "%s") {
		return format
	}
	return fmt.Sprintf(format, singular)
}
