// Package host declares the contracts the radio widget consumes from the
// content system that embeds it: taxonomy and term lookups, assignment reads
// and writes, anti-tampering tokens, and the metabox table the widget swaps
// itself into. Implementations live in the subpackages (memhost, yamlhost,
// pghost) and cached wraps any of them with an LRU of taxonomy lookups.
package host
