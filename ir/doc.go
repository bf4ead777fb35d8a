// Package ir holds the configuration value model: origins, paths, the
// immutable value tree and the merge rules between values.
//
// A tree parsed from a document may contain unresolved values: references
// to other paths (${a.b}), concatenations that include references, and
// merges that had to be delayed because one side was unresolved.  These
// are replaced by the resolve package.
package ir
