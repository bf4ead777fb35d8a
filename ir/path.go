package ir

import (
	"strings"
	"unicode"
)

// Path is a non-empty, immutable sequence of keys.
type Path struct {
	first     string
	remainder *Path
}

// NewPath builds a path from keys taken literally.  It returns nil when
// no keys are given.
func NewPath(keys ...string) *Path {
	var p *Path
	for i := len(keys) - 1; i >= 0; i-- {
		p = &Path{first: keys[i], remainder: p}
	}
	return p
}

func (p *Path) First() string    { return p.first }
func (p *Path) Remainder() *Path { return p.remainder }

func (p *Path) Len() int {
	n := 0
	for x := p; x != nil; x = x.remainder {
		n++
	}
	return n
}

func (p *Path) Keys() []string {
	keys := make([]string, 0, p.Len())
	for x := p; x != nil; x = x.remainder {
		keys = append(keys, x.first)
	}
	return keys
}

// Parent is the path without its last key, nil for single-key paths.
func (p *Path) Parent() *Path {
	if p.remainder == nil {
		return nil
	}
	keys := p.Keys()
	return NewPath(keys[:len(keys)-1]...)
}

func (p *Path) Last() string {
	x := p
	for x.remainder != nil {
		x = x.remainder
	}
	return x.first
}

func (p *Path) Prepend(prefix *Path) *Path {
	if prefix == nil {
		return p
	}
	return NewPath(append(prefix.Keys(), p.Keys()...)...)
}

// Append returns p followed by keys.
func (p *Path) Append(keys ...string) *Path {
	if p == nil {
		return NewPath(keys...)
	}
	return NewPath(append(p.Keys(), keys...)...)
}

// SubPath returns the keys in [start, end).  A negative end means the
// end of the path.  Empty ranges yield nil.
func (p *Path) SubPath(start, end int) *Path {
	keys := p.Keys()
	if end < 0 || end > len(keys) {
		end = len(keys)
	}
	if start < 0 || start >= end {
		return nil
	}
	return NewPath(keys[start:end]...)
}

func (p *Path) StartsWith(other *Path) bool {
	if other == nil {
		return true
	}
	x, y := p, other
	for y != nil {
		if x == nil || x.first != y.first {
			return false
		}
		x, y = x.remainder, y.remainder
	}
	return true
}

func (p *Path) Equal(other *Path) bool {
	x, y := p, other
	for x != nil && y != nil {
		if x.first != y.first {
			return false
		}
		x, y = x.remainder, y.remainder
	}
	return x == nil && y == nil
}

// Render produces a path expression which parses back to p.  Elements
// that would not survive unquoted are quoted.
func (p *Path) Render() string {
	var sb strings.Builder
	for x := p; x != nil; x = x.remainder {
		if x != p {
			sb.WriteByte('.')
		}
		sb.WriteString(RenderKey(x.first))
	}
	return sb.String()
}

func (p *Path) String() string {
	if p == nil {
		return "<empty path>"
	}
	return p.Render()
}

// RenderKey renders a single key as a path element.
func RenderKey(k string) string {
	if hasFunkyChars(k) || k == "" {
		return Quote(k)
	}
	return k
}

func hasFunkyChars(s string) bool {
	for i, c := range s {
		if i == 0 {
			if !unicode.IsLetter(c) {
				return true
			}
			continue
		}
		if unicode.IsLetter(c) || unicode.IsDigit(c) || c == '-' || c == '_' {
			continue
		}
		return true
	}
	return false
}
