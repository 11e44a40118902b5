package vanilla

import (
	"fmt"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// ClassTokenPrefix prefixes theme tokens that override CSS classes, for
// example "taxradio.class.list".
const ClassTokenPrefix = "taxradio.class."

// DefaultClasses returns the class tokens used when no theme overrides them.
// They match the markup of host-native term pickers so existing admin styles
// apply.
func DefaultClasses() map[string]string {
	return map[string]string{
		"wrapper":      "postbox taxradio",
		"title":        "hndle",
		"inside":       "inside",
		"list_wrapper": "taxradio-list",
		"list":         "categorychecklist form-no-clear",
	}
}

func (r *Renderer) resolveClasses(overrides map[string]string) (map[string]string, error) {
	classes := DefaultClasses()

	if r.themeSelector != nil {
		selection, err := r.themeSelector.Select(r.themeName, r.themeVariant)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: select theme %q: %w", r.themeName, err)
		}
		applyThemeTokens(classes, selection)
	}

	for key, value := range overrides {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		classes[key] = strings.TrimSpace(value)
	}
	return classes, nil
}

func applyThemeTokens(classes map[string]string, selection *theme.Selection) {
	if selection == nil || selection.Manifest == nil {
		return
	}
	mergeClassTokens(classes, selection.Manifest.Tokens)
	if variant, ok := selection.Manifest.Variants[selection.Variant]; ok {
		mergeClassTokens(classes, variant.Tokens)
	}
}

func mergeClassTokens(classes, tokens map[string]string) {
	for key, value := range tokens {
		if !strings.HasPrefix(key, ClassTokenPrefix) {
			continue
		}
		name := strings.TrimPrefix(key, ClassTokenPrefix)
		if name == "" {
			continue
		}
		classes[name] = strings.TrimSpace(value)
	}
}
