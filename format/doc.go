// Package format names the source syntaxes understood by go-hocon.
//
// # Usage
//
//	f, err := format.ParseFormat("json")
//	f = format.FromFilename("application.conf") // format.ConfFormat
//
// The zero value, ConfFormat, is the relaxed JSON superset with comments,
// unquoted strings, substitutions and includes.
//
// # Related Packages
//
//   - github.com/signadot/go-hocon/parse - Parse text to values
//   - github.com/signadot/go-hocon/encode - Render values to text
package format
