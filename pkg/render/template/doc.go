// Package template defines the template engine seam renderers depend on. The
// gotemplate subpackage provides the default pongo2-backed engine.
package template
