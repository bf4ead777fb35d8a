package resolve

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/go-hocon/ir"
	"github.com/signadot/go-hocon/parse"
)

func mustParse(t *testing.T, s string) *ir.Object {
	t.Helper()
	obj, err := parse.ParseString(s)
	if err != nil {
		t.Fatal(err)
	}
	return obj
}

func unwrap(t *testing.T, v ir.Value) any {
	t.Helper()
	u, err := ir.Unwrap(v)
	if err != nil {
		t.Fatal(err)
	}
	return u
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		opts     Options
		expected any
	}{
		{
			name:     "simple",
			in:       "a = 1, b = ${a}",
			expected: map[string]any{"a": int64(1), "b": int64(1)},
		},
		{
			name:     "forward",
			in:       "b = ${a}, a = 1",
			expected: map[string]any{"a": int64(1), "b": int64(1)},
		},
		{
			name: "nested path",
			in:   "a { b { c = 3 } }, d = ${a.b.c}",
			expected: map[string]any{
				"a": map[string]any{"b": map[string]any{"c": int64(3)}},
				"d": int64(3),
			},
		},
		{
			name: "chain",
			in:   "a = ${b}, b = ${c}, c = end",
			expected: map[string]any{
				"a": "end", "b": "end", "c": "end",
			},
		},
		{
			name: "object with references",
			in:   "a { x = ${c} }, c = 5, b = ${a}",
			expected: map[string]any{
				"a": map[string]any{"x": int64(5)},
				"b": map[string]any{"x": int64(5)},
				"c": int64(5),
			},
		},
		{
			name: "object extension",
			in:   "a { x = 1 }, b = ${a} { y = 2 }",
			expected: map[string]any{
				"a": map[string]any{"x": int64(1)},
				"b": map[string]any{"x": int64(1), "y": int64(2)},
			},
		},
		{
			name:     "string concatenation",
			in:       "a = foo, b = ${a} bar",
			expected: map[string]any{"a": "foo", "b": "foo bar"},
		},
		{
			name:     "number in string",
			in:       "port = 80, url = \"http://h:\"${port}",
			expected: map[string]any{"port": int64(80), "url": "http://h:80"},
		},
		{
			name:     "list concatenation",
			in:       "a = [1], b = ${a} [2]",
			expected: map[string]any{"a": []any{int64(1)}, "b": []any{int64(1), int64(2)}},
		},
		{
			name:     "list self reference",
			in:       "a = [1]\na = ${a} [2]",
			expected: map[string]any{"a": []any{int64(1), int64(2)}},
		},
		{
			name:     "string self reference",
			in:       "path = a\npath = ${path}\":b\"",
			expected: map[string]any{"path": "a:b"},
		},
		{
			name:     "object self reference",
			in:       "a { x = 1 }\na = ${a} { y = 2 }",
			expected: map[string]any{"a": map[string]any{"x": int64(1), "y": int64(2)}},
		},
		{
			name:     "nested self reference",
			in:       "a { b = [1] }\na { b = ${a.b} [2] }",
			expected: map[string]any{"a": map[string]any{"b": []any{int64(1), int64(2)}}},
		},
		{
			name:     "plus equals",
			in:       "a = [1]\na += 2",
			expected: map[string]any{"a": []any{int64(1), int64(2)}},
		},
		{
			name:     "plus equals undefined",
			in:       "a += 1",
			expected: map[string]any{"a": []any{int64(1)}},
		},
		{
			name:     "overridden reference",
			in:       "a = ${nope}\na = 2",
			expected: map[string]any{"a": int64(2)},
		},
		{
			name:     "optional missing removes field",
			in:       "a = ${?nope}, b = 1",
			expected: map[string]any{"b": int64(1)},
		},
		{
			name:     "optional missing keeps fallback",
			in:       "a = 1\na = ${?nope}",
			expected: map[string]any{"a": int64(1)},
		},
		{
			name:     "optional in concatenation",
			in:       "a = x${?nope}y",
			expected: map[string]any{"a": "xy"},
		},
		{
			name:     "optional list element",
			in:       "a = [1, ${?nope}]",
			expected: map[string]any{"a": []any{int64(1)}},
		},
		{
			name:     "optional self cycle",
			in:       "a = ${?a}, b = 1",
			expected: map[string]any{"b": int64(1)},
		},
		{
			name:     "null value",
			in:       "a = null, b = ${a}",
			expected: map[string]any{"a": nil, "b": nil},
		},
		{
			name:     "env",
			in:       "h = ${HOME_X}",
			opts:     Options{UseEnv: true, Env: EnvObject([]string{"HOME_X=/h"})},
			expected: map[string]any{"h": "/h"},
		},
		{
			name:     "env keys are not paths",
			in:       "h = ${?A.B}",
			opts:     Options{UseEnv: true, Env: EnvObject([]string{"A.B=x"})},
			expected: map[string]any{},
		},
		{
			name:     "source wins over env",
			in:       "HOME_X = here, h = ${HOME_X}",
			opts:     Options{UseEnv: true, Env: EnvObject([]string{"HOME_X=/h"})},
			expected: map[string]any{"HOME_X": "here", "h": "here"},
		},
		{
			name: "fallback resolver",
			in:   "a = ${x.y}",
			opts: Options{Fallback: ResolverFunc(func(p *ir.Path) (ir.Value, bool) {
				if p.Render() != "x.y" {
					return nil, false
				}
				return ir.NewString(ir.NewOrigin("fallback"), "found"), true
			})},
			expected: map[string]any{"a": "found"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Resolve(mustParse(t, tc.in), tc.opts)
			if err != nil {
				t.Fatal(err)
			}
			if res.ResolveStatus() != ir.Resolved {
				t.Fatalf("expected resolved, got %s", res)
			}
			if diff := cmp.Diff(tc.expected, unwrap(t, res)); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		opts  Options
		err   error
		cycle bool
	}{
		{name: "missing", in: "a = ${nope}", err: ErrUnresolvedSubstitution},
		{
			name: "env present but not used",
			in:   "a = ${SOME_VAR}",
			opts: Options{UseEnv: false, Env: EnvObject([]string{"SOME_VAR=x"})},
			err:  ErrUnresolvedSubstitution,
		},
		{name: "missing in object", in: "a { b = ${a.c} }", err: ErrUnresolvedSubstitution},
		{name: "self cycle", in: "a = ${a}", err: ErrUnresolvedSubstitution, cycle: true},
		{name: "two step cycle", in: "a = ${b}, b = ${a}", err: ErrUnresolvedSubstitution, cycle: true},
		{name: "cycle through object", in: "a { x = ${b} }, b = ${a.x}", err: ErrUnresolvedSubstitution, cycle: true},
		{name: "object and string", in: "a { x = 1 }, b = ${a} foo", err: ir.ErrWrongType},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Resolve(mustParse(t, tc.in), tc.opts)
			if !errors.Is(err, tc.err) {
				t.Fatalf("expected %v, got %v", tc.err, err)
			}
			var ue *UnresolvedSubstitutionError
			if !errors.As(err, &ue) {
				return
			}
			if tc.cycle != (len(ue.Cycle) > 0) {
				t.Errorf("cycle: expected %v, got %v", tc.cycle, ue.Cycle)
			}
			if tc.cycle && !strings.Contains(err.Error(), "cycle") {
				t.Errorf("expected cycle in %q", err)
			}
		})
	}
}

func TestResolveAllowUnresolved(t *testing.T) {
	root := mustParse(t, "a = ${nope}, b = 1, c = ${b}")
	res, err := Resolve(root, Options{AllowUnresolved: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.ResolveStatus() != ir.Unresolved {
		t.Fatalf("expected unresolved, got %s", res)
	}
	if _, ok := res.Get("a").(*ir.Reference); !ok {
		t.Errorf("expected a to stay a reference, got %s", res.Get("a"))
	}
	if diff := cmp.Diff(int64(1), unwrap(t, res.Get("c"))); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveResolvedIsIdentity(t *testing.T) {
	root := mustParse(t, "a = 1")
	res, err := Resolve(root, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res != root {
		t.Error("expected the same object back")
	}
}

func TestResolveIncludePrefix(t *testing.T) {
	tests := []struct {
		name     string
		inner    string
		expected any
	}{
		{name: "relative to root", inner: "x = ${y}", expected: int64(7)},
		{name: "relative to include", inner: "x = ${y}, y = 3", expected: int64(3)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			inner := mustParse(t, tc.inner).Relativized(ir.NewPath("inner"))
			root := ir.NewObject(ir.NewOrigin("test"), map[string]ir.Value{
				"inner": inner,
				"y":     ir.NewInt(ir.NewOrigin("test"), 7, "7"),
			})
			res, err := Resolve(root, Options{})
			if err != nil {
				t.Fatal(err)
			}
			got, err := ir.PeekPath(res, ir.NewPath("inner", "x"))
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tc.expected, unwrap(t, got)); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolvePath(t *testing.T) {
	root := mustParse(t, "a = ${nope}, b { c = ${d} }, d = 4")
	v, err := ResolvePath(root, ir.NewPath("b", "c"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(int64(4), unwrap(t, v)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	v, err = ResolvePath(root, ir.NewPath("b", "missing"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if v != nil {
		t.Errorf("expected nothing, got %s", v)
	}
	if _, err := ResolvePath(root, ir.NewPath("a"), Options{}); !errors.Is(err, ErrUnresolvedSubstitution) {
		t.Errorf("expected unresolved substitution, got %v", err)
	}
}

func TestResolveWith(t *testing.T) {
	v := mustParse(t, "a = ${x}")
	source := mustParse(t, "x = 9")
	res, err := ResolveWith(v, source, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(map[string]any{"a": int64(9)}, unwrap(t, res)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestEnvObject(t *testing.T) {
	env := EnvObject([]string{"A=1", "B=x=y", "=skip", "NOEQ"})
	if diff := cmp.Diff(map[string]any{"A": "1", "B": "x=y"}, unwrap(t, env)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if env.Get("A").Origin().Kind() != ir.EnvOrigin {
		t.Error("expected env origin")
	}
}
