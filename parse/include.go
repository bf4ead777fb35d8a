package parse

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/signadot/go-hocon/debug"
	"github.com/signadot/go-hocon/format"
	"github.com/signadot/go-hocon/ir"
	"github.com/signadot/go-hocon/token"
)

// MaxIncludeDepth bounds nested includes.
const MaxIncludeDepth = 50

// IncludeRequest describes one include statement.
type IncludeRequest struct {
	// Name is the quoted name in the statement.
	Name string
	// File is set for include file("...").
	File bool
	// Required is set for include required(...); a missing required
	// include is an error, a missing optional one is empty.
	Required bool
	// Base is the file holding the include statement, empty if the
	// document did not come from a file.
	Base string
	// Origin is the origin of the include statement.
	Origin *ir.Origin

	opts *parseOpts
}

// Includer loads the object an include statement refers to.
type Includer interface {
	Include(req *IncludeRequest) (*ir.Object, error)
}

// Chain lists the files being included, outermost first.
func (r *IncludeRequest) Chain() []string {
	return append([]string(nil), r.opts.chain...)
}

func (r *IncludeRequest) nested(name string) ([]ParseOption, error) {
	chain := append(r.Chain(), name)
	if len(chain) > MaxIncludeDepth {
		return nil, &Error{
			Origin: r.Origin,
			Msg:    fmt.Sprintf("include statements nested more than %d times, you probably have a cycle in your includes; trace: %s", MaxIncludeDepth, strings.Join(chain, ", ")),
			Err:    ErrInclude,
		}
	}
	return append(r.opts.options(), includeChain(chain)), nil
}

// ParseFile parses filename as an included document, keeping the includer
// and the include chain of the including document.
func (r *IncludeRequest) ParseFile(filename string, opts ...ParseOption) (*ir.Object, error) {
	nested, err := r.nested(filename)
	if err != nil {
		return nil, err
	}
	return ParseFile(filename, append(nested, opts...)...)
}

// Parse parses d as an included document.
func (r *IncludeRequest) Parse(d []byte, name string, opts ...ParseOption) (*ir.Object, error) {
	nested, err := r.nested(name)
	if err != nil {
		return nil, err
	}
	return Parse(d, append(nested, opts...)...)
}

// FileIncluder resolves includes on the filesystem relative to the
// including file.  Names without a known extension are probed with each
// supported suffix and the results merged, earlier suffixes winning.
type FileIncluder struct{}

func (FileIncluder) Include(req *IncludeRequest) (*ir.Object, error) {
	name := req.Name
	if !filepath.IsAbs(name) && req.Base != "" {
		name = filepath.Join(filepath.Dir(req.Base), name)
	}
	if debug.Include() {
		debug.Logf("include %q as %s from %s", req.Name, name, req.Origin.Description())
	}
	if _, ok := format.FromFilename(name); ok {
		obj, err := req.ParseFile(name)
		if err != nil {
			if !req.Required && errors.Is(err, fs.ErrNotExist) {
				return ir.NewObject(ir.NewFileOrigin(name), nil), nil
			}
			return nil, err
		}
		return obj, nil
	}
	var (
		res  ir.Value
		seen bool
	)
	for _, f := range format.AllFormats() {
		fn := name + f.Suffix()
		if _, err := os.Stat(fn); err != nil {
			continue
		}
		obj, err := req.ParseFile(fn, ParseSyntax(f))
		if err != nil {
			return nil, err
		}
		seen = true
		if res == nil {
			res = obj
		} else {
			res = ir.WithFallback(res, obj)
		}
	}
	if !seen {
		if req.Required {
			return nil, &Error{
				Origin: req.Origin,
				Msg:    fmt.Sprintf("resource not found: %s (tried suffixes %s)", name, suffixes()),
				Err:    errors.Join(ErrInclude, fs.ErrNotExist),
			}
		}
		return ir.NewObject(ir.NewFileOrigin(name), nil), nil
	}
	obj, ok := res.(*ir.Object)
	if !ok {
		return nil, fmt.Errorf("%w: included files merged to %s", ir.ErrBugOrBroken, res.Type())
	}
	return obj, nil
}

func suffixes() string {
	var res []string
	for _, f := range format.AllFormats() {
		res = append(res, f.Suffix())
	}
	return strings.Join(res, ", ")
}

type noIncluder struct{}

func (noIncluder) Include(req *IncludeRequest) (*ir.Object, error) {
	return nil, &Error{Origin: req.Origin, Msg: "include statements are not allowed here", Err: ErrInclude}
}

func isUnquotedWhitespace(t tokenWithComments) bool {
	return t.Type == token.TUnquoted && t.IsWhitespace()
}

func (p *parser) nextNonWhitespace() (tokenWithComments, error) {
	for {
		t, err := p.nextTokenIgnoringNewline()
		if err != nil || !isUnquotedWhitespace(t) {
			return t, err
		}
	}
}

// parseInclude handles
//
//	include "name"
//	include file("name")
//	include required("name")
//	include required(file("name"))
//
// The parenthesized forms tokenize as unquoted text around a quoted
// string, so "required(file(" arrives as one token.
func (p *parser) parseInclude(values map[string]ir.Value) error {
	t, err := p.nextNonWhitespace()
	if err != nil {
		return err
	}
	req := &IncludeRequest{
		Base:   p.opts.filename,
		Origin: p.lineOrigin(),
		opts:   p.opts,
	}
	closing := ""
	if t.Type == token.TUnquoted {
		switch t.Text() {
		case "file(":
			req.File, closing = true, ")"
		case "required(":
			req.Required, closing = true, ")"
		case "required(file(":
			req.Required, req.File, closing = true, true, "))"
		case "url(", "classpath(", "required(url(", "required(classpath(":
			return p.errorf("include %s) is not supported, only files can be included", t.Text())
		default:
			return p.errorf("expecting include parameter to be quoted filename, file() or required(). No spaces are allowed before the open paren. Not expecting: %s", t.String())
		}
		t, err = p.nextNonWhitespace()
		if err != nil {
			return err
		}
		if t.Type == token.TUnquoted && t.Text() == "file(" && req.Required && !req.File {
			req.File, closing = true, "))"
			t, err = p.nextNonWhitespace()
			if err != nil {
				return err
			}
		}
	}
	s, ok := t.Value.(*ir.String)
	if t.Type != token.TValue || !ok {
		return p.errorf("include keyword is not followed by a quoted string, but by: %s", t.String())
	}
	req.Name = s.Value()
	if closing != "" {
		if err := p.expectClosing(closing); err != nil {
			return err
		}
	}
	obj, err := p.opts.includer.Include(req)
	if err != nil {
		var perr *Error
		if errors.As(err, &perr) {
			return err
		}
		return &Error{Origin: req.Origin, Msg: err.Error(), Err: errors.Join(ErrInclude, err)}
	}
	if p.arrayCount > 0 && obj.ResolveStatus() != ir.Resolved {
		return p.errorf("when an include statement is nested inside a list value, ${} substitutions inside the included file cannot be resolved correctly; either move the include outside of the list value or remove the ${} statements from the included file")
	}
	if len(p.pathStack) > 0 {
		obj = obj.Relativized(p.fullCurrentPath()).(*ir.Object)
	}
	for _, key := range obj.Keys() {
		v := obj.Get(key)
		if existing := values[key]; existing != nil {
			values[key] = ir.WithFallback(v, existing)
		} else {
			values[key] = v
		}
	}
	return nil
}

// expectClosing consumes closing parentheses, which may arrive as one
// unquoted token or several.
func (p *parser) expectClosing(closing string) error {
	for closing != "" {
		t, err := p.nextNonWhitespace()
		if err != nil {
			return err
		}
		text := t.Text()
		if t.Type != token.TUnquoted || text == "" || !strings.HasPrefix(closing, text) {
			return p.errorf("expecting a close parentheses ')' here, not: %s", t.String())
		}
		closing = closing[len(text):]
	}
	return nil
}
