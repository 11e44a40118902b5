// Package metabox serves single-selection taxonomy panels over net/http.
//
// GET <route>/<slug>?item=ID returns the rendered panel for an item, or the
// option list as JSON when format=json is set. POST <route>/<slug> verifies
// the panel nonce and stores the submitted selection. A Guard hook runs before
// every request.
package metabox
