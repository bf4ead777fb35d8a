package parse

import (
	"github.com/signadot/go-hocon/format"
	"github.com/signadot/go-hocon/ir"
)

type parseOpts struct {
	syntax       format.Format
	syntaxSet    bool
	origin       *ir.Origin
	filename     string
	includer     Includer
	allowMissing bool
	// files being included, outermost first
	chain []string
}

type ParseOption func(*parseOpts)

func ParseSyntax(f format.Format) ParseOption {
	return func(o *parseOpts) {
		o.syntax = f
		o.syntaxSet = true
	}
}

func ParseConf() ParseOption { return ParseSyntax(format.ConfFormat) }
func ParseJSON() ParseOption { return ParseSyntax(format.JSONFormat) }
func ParseYAML() ParseOption { return ParseSyntax(format.YAMLFormat) }
func ParseTOML() ParseOption { return ParseSyntax(format.TOMLFormat) }

// ParseOrigin sets the origin recorded on parsed values.
func ParseOrigin(origin *ir.Origin) ParseOption {
	return func(o *parseOpts) { o.origin = origin }
}

// ParseFilename names the document's file: it becomes the origin, picks
// the syntax from the extension unless set, and anchors relative includes.
func ParseFilename(name string) ParseOption {
	return func(o *parseOpts) { o.filename = name }
}

// ParseIncluder replaces the filesystem includer.  A nil includer makes
// every include statement an error.
func ParseIncluder(inc Includer) ParseOption {
	return func(o *parseOpts) {
		if inc == nil {
			inc = noIncluder{}
		}
		o.includer = inc
	}
}

// AllowMissing makes a missing file parse as an empty object.
func AllowMissing(v bool) ParseOption {
	return func(o *parseOpts) { o.allowMissing = v }
}

func includeChain(chain []string) ParseOption {
	return func(o *parseOpts) { o.chain = chain }
}

func newParseOpts(opts []ParseOption) *parseOpts {
	pOpts := &parseOpts{syntax: format.ConfFormat}
	for _, f := range opts {
		f(pOpts)
	}
	if !pOpts.syntaxSet && pOpts.filename != "" {
		if f, ok := format.FromFilename(pOpts.filename); ok {
			pOpts.syntax = f
		}
	}
	if pOpts.origin == nil {
		if pOpts.filename != "" {
			pOpts.origin = ir.NewFileOrigin(pOpts.filename)
		} else {
			pOpts.origin = ir.NewOrigin("string")
		}
	}
	if pOpts.includer == nil {
		pOpts.includer = FileIncluder{}
	}
	return pOpts
}

// options reconstructs the options for a nested parse.
func (o *parseOpts) options() []ParseOption {
	return []ParseOption{
		ParseIncluder(o.includer),
		includeChain(o.chain),
	}
}
