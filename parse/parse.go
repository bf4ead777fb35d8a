package parse

import (
	"fmt"
	"io"
	"os"

	"github.com/signadot/go-hocon/debug"
	"github.com/signadot/go-hocon/format"
	"github.com/signadot/go-hocon/ir"
)

// Parse parses a document whose root must be an object.
func Parse(d []byte, opts ...ParseOption) (*ir.Object, error) {
	pOpts := newParseOpts(opts)
	v, err := parseValue(d, pOpts)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(*ir.Object)
	if !ok {
		return nil, &Error{
			Origin: v.Origin(),
			Msg:    fmt.Sprintf("document must have an object at root, not %s", v.Type()),
			Err:    ir.ErrWrongType,
		}
	}
	return obj, nil
}

// ParseValue parses a document whose root is an object or a list.
func ParseValue(d []byte, opts ...ParseOption) (ir.Value, error) {
	return parseValue(d, newParseOpts(opts))
}

func ParseString(s string, opts ...ParseOption) (*ir.Object, error) {
	return Parse([]byte(s), opts...)
}

func ParseReader(r io.Reader, opts ...ParseOption) (*ir.Object, error) {
	d, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(d, opts...)
}

// ParseFile reads and parses a file.  With AllowMissing, a file that
// does not exist parses as an empty object.
func ParseFile(filename string, opts ...ParseOption) (*ir.Object, error) {
	opts = append([]ParseOption{ParseFilename(filename)}, opts...)
	d, err := os.ReadFile(filename)
	if err != nil {
		pOpts := newParseOpts(opts)
		if pOpts.allowMissing && os.IsNotExist(err) {
			return ir.NewObject(pOpts.origin, nil), nil
		}
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return Parse(d, opts...)
}

func parseValue(d []byte, opts *parseOpts) (ir.Value, error) {
	if debug.Parse() {
		debug.Logf("parse %s as %s", opts.origin.Description(), opts.syntax)
	}
	switch opts.syntax {
	case format.YAMLFormat:
		return parseYAML(d, opts.origin)
	case format.TOMLFormat:
		return parseTOML(d, opts.origin)
	}
	return newParser(d, opts).parse()
}
