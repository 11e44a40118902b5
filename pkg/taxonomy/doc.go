// Package taxonomy defines the classification data the radio widget consumes:
// taxonomies, their terms, the opaque item identifiers terms are assigned to,
// and the tagged Value submitted by a rendered option. Hierarchical
// taxonomies submit numeric term identifiers while flat taxonomies submit
// term slugs; Value keeps the two shapes apart so save routines receive
// exactly what they expect.
package taxonomy
