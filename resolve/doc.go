// Package resolve replaces substitutions (${path}) in value trees.
//
// A resolve walks the tree, looking references up in a source object.
// Lookups resolve only what lies on the way to the referenced path, so
// forward references and references into not yet merged layers work.
// Self-references inside merges (a = ${a} [1]) see the layers beneath the
// value being defined.  Cycles are reported as unresolved substitutions
// naming the cycle.
//
// Every top-level call uses a fresh Context; nothing is shared between
// resolves.
package resolve
