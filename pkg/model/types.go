package model

import "github.com/goliatone/go-taxradio/pkg/taxonomy"

// Option is one radio input.
type Option struct {
	Value taxonomy.Value `json:"value"`
	// FormValue is Value rendered exactly as the browser submits it.
	FormValue string `json:"form_value"`
	Label     string `json:"label"`
	Checked   bool   `json:"checked"`
	// DOMID addresses the input element; ItemID addresses its list item.
	DOMID  string `json:"dom_id"`
	ItemID string `json:"item_id"`
	TermID int64  `json:"term_id"`
	// None marks the leading "no term" option.
	None bool `json:"none,omitempty"`
}

// OptionList is the full option set of a single-selection widget.
type OptionList struct {
	Taxonomy     string         `json:"taxonomy"`
	Hierarchical bool           `json:"hierarchical"`
	FieldName    string         `json:"field_name"`
	DefaultValue taxonomy.Value `json:"default_value"`
	ListID       string         `json:"list_id"`
	ListKey      string         `json:"list_key"`
	Options      []Option       `json:"options"`
}

// Checked returns the selected option, if any.
func (l OptionList) Checked() (Option, bool) {
	for _, opt := range l.Options {
		if opt.Checked {
			return opt, true
		}
	}
	return Option{}, false
}

// CheckedCount counts checked options. Well-formed lists return 0 or 1.
func (l OptionList) CheckedCount() int {
	count := 0
	for _, opt := range l.Options {
		if opt.Checked {
			count++
		}
	}
	return count
}

// HasNone reports whether the list carries the "no term" option.
func (l OptionList) HasNone() bool {
	return len(l.Options) > 0 && l.Options[0].None
}

// Metabox is the renderable panel: placement metadata, the option list, and
// the hidden fields (anti-tampering token) submitted with it.
type Metabox struct {
	ID       string            `json:"id"`
	Title    string            `json:"title"`
	Context  string            `json:"context"`
	Priority string            `json:"priority"`
	Item     taxonomy.ItemID   `json:"item"`
	List     OptionList        `json:"list"`
	Hidden   map[string]string `json:"hidden,omitempty"`
}
