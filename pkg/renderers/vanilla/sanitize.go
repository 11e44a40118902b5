package vanilla

import (
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"
)

// LabelFilter is the template filter that emits a sanitized term name.
const LabelFilter = "taxradio_label"

var (
	labelPolicyOnce sync.Once
	labelPolicy     *bluemonday.Policy
	labelFilterOnce sync.Once
)

// sanitizeLabel strips markup from a term name and returns HTML-escaped text
// that is safe to emit verbatim.
func sanitizeLabel(raw string) string {
	return strings.TrimSpace(labelSanitizer().Sanitize(raw))
}

func labelSanitizer() *bluemonday.Policy {
	labelPolicyOnce.Do(func() {
		labelPolicy = bluemonday.StrictPolicy()
	})
	return labelPolicy
}

// registerLabelFilter makes LabelFilter available to every pongo2 template
// set, including ones behind an injected template renderer.
func registerLabelFilter() {
	labelFilterOnce.Do(func() {
		if !pongo2.FilterExists(LabelFilter) {
			_ = pongo2.RegisterFilter(LabelFilter, filterLabel)
		}
	})
}

func filterLabel(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return pongo2.AsSafeValue(sanitizeLabel(in.String())), nil
}
