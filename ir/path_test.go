package ir

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPathRender(t *testing.T) {
	tests := []struct {
		keys     []string
		expected string
	}{
		{[]string{"a"}, "a"},
		{[]string{"a", "b-c", "d_e"}, "a.b-c.d_e"},
		{[]string{"a.b"}, `"a.b"`},
		{[]string{""}, `""`},
		{[]string{"1a"}, `"1a"`},
		{[]string{"x", "has space"}, `x."has space"`},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := NewPath(tt.keys...).Render(); got != tt.expected {
				t.Errorf("got %s want %s", got, tt.expected)
			}
		})
	}
}

func TestPathOps(t *testing.T) {
	p := NewPath("a", "b", "c")
	if p.Len() != 3 {
		t.Errorf("len %d", p.Len())
	}
	if diff := cmp.Diff([]string{"a", "b"}, p.Parent().Keys()); diff != "" {
		t.Error(diff)
	}
	if p.Last() != "c" {
		t.Errorf("last %s", p.Last())
	}
	if !p.SubPath(1, -1).Equal(NewPath("b", "c")) {
		t.Errorf("subpath %s", p.SubPath(1, -1))
	}
	if p.SubPath(3, -1) != nil {
		t.Errorf("expected nil subpath")
	}
	if !p.StartsWith(NewPath("a", "b")) || p.StartsWith(NewPath("b")) {
		t.Errorf("startsWith")
	}
	if !NewPath("c").Prepend(NewPath("a", "b")).Equal(p) {
		t.Errorf("prepend")
	}
	if NewPath("a").Parent() != nil {
		t.Errorf("expected nil parent")
	}
}

func TestOriginMerge(t *testing.T) {
	a := NewFileOrigin("a.conf").WithLine(3)
	b := NewFileOrigin("a.conf").WithLine(7)
	if got := MergeOrigins(a, b).Description(); got != "a.conf: 3-7" {
		t.Errorf("got %q", got)
	}
	c := NewFileOrigin("b.conf").WithLine(1)
	if got := MergeOrigins(a, c).Description(); got != "merge of a.conf,b.conf" {
		t.Errorf("got %q", got)
	}
	withComments := a.WithComments([]string{" x"})
	m := MergeOrigins(withComments, b.WithComments([]string{" y"}))
	if diff := cmp.Diff([]string{" x", " y"}, m.Comments()); diff != "" {
		t.Error(diff)
	}
	m = MergeOrigins(withComments, b.WithComments([]string{" x"}))
	if diff := cmp.Diff([]string{" x"}, m.Comments()); diff != "" {
		t.Error(diff)
	}
}
