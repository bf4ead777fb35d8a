package encode

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/google/go-cmp/cmp"
	"github.com/signadot/go-hocon/ir"
	"github.com/signadot/go-hocon/parse"
	"github.com/signadot/go-hocon/resolve"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		opts     []EncodeOption
		expected string
	}{
		{
			name: "hocon formatted",
			in:   `a = 1, b = "x y", c = [1, 2], d { e = true }, f = null`,
			expected: `a = 1
b = "x y"
c = [
    1,
    2
]
d {
    e = true
}
f = null
`,
		},
		{
			name:     "json compact",
			in:       `a = 1, b = "x y", c = [1, 2], d { e = true }`,
			opts:     []EncodeOption{EncodeJSON(true), EncodeFormatted(false)},
			expected: `{"a":1,"b":"x y","c":[1,2],"d":{"e":true}}`,
		},
		{
			name: "json formatted",
			in:   `a { b = x }`,
			opts: []EncodeOption{EncodeJSON(true), Indent(2)},
			expected: `{
  "a": {
    "b": "x"
  }
}
`,
		},
		{
			name:     "hocon compact",
			in:       `a = 1, b = foo`,
			opts:     []EncodeOption{EncodeFormatted(false)},
			expected: `a=1,b=foo`,
		},
		{
			name:     "keys needing quotes",
			in:       `"a.b" = 1, "1x" = 2, "" = 3, "true-ish" = 4`,
			opts:     []EncodeOption{EncodeFormatted(false)},
			expected: `""=3,"1x"=2,"a.b"=1,"true-ish"=4`,
		},
		{
			name:     "numeric keys first",
			in:       `b = 1, 10 = 2, 9 = 3, a = 4`,
			opts:     []EncodeOption{EncodeFormatted(false)},
			expected: `"9"=3,"10"=2,a=4,b=1`,
		},
		{
			name:     "number text",
			in:       `a = 1.50, b = 1e3`,
			opts:     []EncodeOption{EncodeFormatted(false)},
			expected: `a=1.50,b=1e3`,
		},
		{
			name:     "unresolved",
			in:       `a = ${b}, c = ${?d.e}`,
			opts:     []EncodeOption{EncodeFormatted(false)},
			expected: `a=${b},c=${?d.e}`,
		},
		{
			name:     "comments",
			in:       "# doc\na = 1 # trailing\n",
			opts:     []EncodeOption{EncodeComments(true)},
			expected: "# doc\n# trailing\na = 1\n",
		},
		{
			name:     "origin comments",
			in:       "a = 1",
			opts:     []EncodeOption{EncodeOriginComments(true)},
			expected: "# string: 1\na = 1\n",
		},
		{
			name:     "json drops comments",
			in:       "# doc\na = 1",
			opts:     []EncodeOption{EncodeJSON(true), EncodeComments(true), EncodeFormatted(false)},
			expected: `{"a":1}`,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			obj, err := parse.ParseString(tc.in)
			if err != nil {
				t.Fatal(err)
			}
			got, err := Render(obj, tc.opts...)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tc.expected, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRenderMergeStack(t *testing.T) {
	obj, err := parse.ParseString("a = 1\na = ${b}")
	if err != nil {
		t.Fatal(err)
	}
	got, err := Render(obj, EncodeFormatted(false))
	if err != nil {
		t.Fatal(err)
	}
	// lowest priority first so that reading it back keeps precedence
	if diff := cmp.Diff("a=1,a=${b}", got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	got, err = Render(obj, EncodeComments(true))
	if err != nil {
		t.Fatal(err)
	}
	back, err := parse.ParseString(got)
	if err != nil {
		t.Fatalf("%v parsing\n%s", err, got)
	}
	if _, ok := back.Get("a").(ir.MergeStack); !ok {
		t.Errorf("expected a merge back, got %s", back.Get("a"))
	}
}

func TestJSONRoundTrip(t *testing.T) {
	in := `
a { b = [1, 2.5, "three", null, true], c = "q\"uote\n" }
d = ${a.c} tail
e = [{ x = 1 }, { y = [] }, {}]
f = "\u0001"
`
	obj, err := parse.ParseString(in)
	if err != nil {
		t.Fatal(err)
	}
	res, err := resolve.Resolve(obj, resolve.Options{})
	if err != nil {
		t.Fatal(err)
	}
	for _, formatted := range []bool{true, false} {
		buf := bytes.NewBuffer(nil)
		if err := Encode(res, buf, EncodeJSON(true), EncodeFormatted(formatted)); err != nil {
			t.Fatal(err)
		}
		back, err := parse.Parse(buf.Bytes(), parse.ParseJSON())
		if err != nil {
			t.Fatalf("%v parsing\n%s", err, buf.String())
		}
		if !ir.Equal(res, back) {
			t.Errorf("round trip changed the tree:\n%s\n%s", res, back)
		}
	}
}

func TestHOCONRoundTrip(t *testing.T) {
	obj, err := parse.ParseString(`a { "b.c" = [1, {x = "y z"}], mode = "include" }, n = -3`)
	if err != nil {
		t.Fatal(err)
	}
	s := MustString(obj)
	back, err := parse.ParseString(s)
	if err != nil {
		t.Fatalf("%v parsing\n%s", err, s)
	}
	if !ir.Equal(obj, back) {
		t.Errorf("round trip changed the tree:\n%s\n%s", obj, back)
	}
}

func TestColors(t *testing.T) {
	obj, err := parse.ParseString("a = 1")
	if err != nil {
		t.Fatal(err)
	}
	colors := (&Colors{values: map[ir.Type]*color.Color{}, roles: map[ColorAttr]*color.Color{}}).
		SetValue(ir.NumberType, color.New(color.FgRed))
	got, err := Render(obj, EncodeColors(colors))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff("a = \x1b[31m1\x1b[0m\n", got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}
