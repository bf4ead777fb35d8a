// Package encode renders value trees as HOCON or JSON text.
//
// # Usage
//
//	// HOCON, formatted
//	s, err := encode.Render(cfg.Root())
//
//	// strict JSON on one line
//	err := encode.Encode(v, w, encode.EncodeJSON(true), encode.EncodeFormatted(false))
//
// Resolved trees rendered as JSON parse back to equal trees.  Unresolved
// values render as substitutions and merge layers so that they can be
// inspected, but the result is not always valid input.
package encode
