// Package taxradio replaces a host's multi-select term picker with a
// single-selection (radio) picker.
//
// A Widget is built once per taxonomy wiring. Attach swaps the host's
// built-in picker for the widget on every item type the taxonomy applies to;
// the registered render callback then collects terms, the item's current
// assignment and a nonce through the host contracts, builds the option list
// with BuildOptionList, and hands the resulting model.Metabox to a renderer.
//
// Hierarchical taxonomies submit term identifiers under "tax_input[slug][]";
// flat taxonomies submit term slugs under "tax_input[slug]". Both names match
// what default host save routines read, so no dedicated save handler is
// needed. ParseSubmission and ResolveSelection cover hosts that do want one.
package taxradio
