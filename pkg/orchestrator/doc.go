// Package orchestrator wires a host, the taxonomy widgets and a renderer
// registry into a single entry point: name a taxonomy and an item, get the
// rendered panel back.
package orchestrator
