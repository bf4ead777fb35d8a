package ir

import (
	"fmt"
	"strings"
)

type OriginKind int

const (
	GenericOrigin OriginKind = iota
	FileOrigin
	EnvOrigin
)

// Origin records where a value came from.  Origins are immutable; the
// With* methods return modified copies.
type Origin struct {
	desc      string
	filename  string
	startLine int
	endLine   int
	kind      OriginKind
	comments  []string
}

func NewOrigin(desc string) *Origin {
	return &Origin{desc: desc, startLine: -1, endLine: -1}
}

func NewFileOrigin(filename string) *Origin {
	return &Origin{
		desc:      filename,
		filename:  filename,
		startLine: -1,
		endLine:   -1,
		kind:      FileOrigin,
	}
}

func NewEnvOrigin(desc string) *Origin {
	return &Origin{desc: desc, startLine: -1, endLine: -1, kind: EnvOrigin}
}

func (o *Origin) clone() *Origin {
	c := *o
	return &c
}

func (o *Origin) WithLine(line int) *Origin {
	if o.startLine == line && o.endLine == line {
		return o
	}
	c := o.clone()
	c.startLine = line
	c.endLine = line
	return c
}

func (o *Origin) WithComments(comments []string) *Origin {
	if equalStrings(comments, o.comments) {
		return o
	}
	c := o.clone()
	c.comments = comments
	return c
}

// PrependComments adds comments ahead of the existing ones.
func (o *Origin) PrependComments(comments []string) *Origin {
	if len(comments) == 0 {
		return o
	}
	all := make([]string, 0, len(comments)+len(o.comments))
	all = append(all, comments...)
	all = append(all, o.comments...)
	return o.WithComments(all)
}

func (o *Origin) Kind() OriginKind { return o.kind }
func (o *Origin) Filename() string { return o.filename }
func (o *Origin) Line() int        { return o.startLine }
func (o *Origin) EndLine() int     { return o.endLine }

func (o *Origin) Comments() []string {
	return append([]string(nil), o.comments...)
}

func (o *Origin) Description() string {
	if o.startLine < 0 {
		return o.desc
	}
	if o.endLine == o.startLine {
		return fmt.Sprintf("%s: %d", o.desc, o.startLine)
	}
	return fmt.Sprintf("%s: %d-%d", o.desc, o.startLine, o.endLine)
}

func (o *Origin) String() string {
	return "Origin(" + o.Description() + ")"
}

func (o *Origin) Equal(other *Origin) bool {
	if o == other {
		return true
	}
	if o == nil || other == nil {
		return false
	}
	return o.desc == other.desc &&
		o.filename == other.filename &&
		o.startLine == other.startLine &&
		o.endLine == other.endLine &&
		o.kind == other.kind &&
		equalStrings(o.comments, other.comments)
}

const mergePrefix = "merge of "

func mergeTwo(a, b *Origin) *Origin {
	var (
		desc       string
		start, end int
		kind       = a.kind
		filename   string
	)
	if a.kind != b.kind {
		kind = GenericOrigin
	}
	aDesc := strings.TrimPrefix(a.desc, mergePrefix)
	bDesc := strings.TrimPrefix(b.desc, mergePrefix)
	if aDesc == bDesc {
		desc = a.desc
		switch {
		case a.startLine < 0:
			start = b.startLine
		case b.startLine < 0:
			start = a.startLine
		default:
			start = min(a.startLine, b.startLine)
		}
		end = max(a.endLine, b.endLine)
		if a.filename == b.filename {
			filename = a.filename
		}
	} else {
		desc = mergePrefix + aDesc + "," + bDesc
		start, end = -1, -1
	}
	var comments []string
	if equalStrings(a.comments, b.comments) {
		comments = a.comments
	} else {
		comments = append(append([]string(nil), a.comments...), b.comments...)
	}
	return &Origin{
		desc:      desc,
		filename:  filename,
		startLine: start,
		endLine:   end,
		kind:      kind,
		comments:  comments,
	}
}

// MergeOrigins folds origins left to right, skipping nils.
func MergeOrigins(origins ...*Origin) *Origin {
	var res *Origin
	for _, o := range origins {
		if o == nil {
			continue
		}
		if res == nil {
			res = o
			continue
		}
		res = mergeTwo(res, o)
	}
	if res == nil {
		return NewOrigin("unknown origin")
	}
	return res
}

// mergeValueOrigins merges the origins of a merge stack.  Empty objects
// contribute nothing when anything else is present.
func mergeValueOrigins(vs []Value) *Origin {
	origins := make([]*Origin, 0, len(vs))
	for _, v := range vs {
		if obj, ok := v.(*Object); ok && obj.Len() == 0 && len(vs) > 1 {
			continue
		}
		origins = append(origins, v.Origin())
	}
	if len(origins) == 0 {
		return vs[0].Origin()
	}
	return MergeOrigins(origins...)
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
