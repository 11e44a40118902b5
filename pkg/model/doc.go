// Package model defines the view model renderers consume: an ordered list of
// mutually exclusive options for one taxonomy, and the metabox that wraps it
// with a title, placement, and hidden fields. The widget in pkg/taxradio
// builds these values; renderers only read them. JSON tags use snake_case so
// template engines that round-trip data through JSON see stable keys.
package model
