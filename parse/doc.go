// Package parse parses configuration documents into value trees.
//
// # Usage
//
//	// Parse relaxed syntax
//	obj, err := parse.Parse([]byte(`a { b = 1, c = ${a.b} }`))
//	if err != nil {
//	    return err
//	}
//
//	// Parse a file; the syntax follows the extension
//	obj, err := parse.ParseFile("app.conf")
//
//	// Parse a path expression
//	p, err := parse.ParsePath(`a."b.c".d`)
//
// Files ending in .json parse as strict JSON, .yaml/.yml and .toml as
// plain data without substitutions.  Include statements are handed to an
// [Includer]; the default [FileIncluder] reads files next to the
// including document.
//
// # Related Packages
//
//   - github.com/signadot/go-hocon/ir - value model
//   - github.com/signadot/go-hocon/resolve - substitution resolution
//   - github.com/signadot/go-hocon/token - tokenization
package parse
