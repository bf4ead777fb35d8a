package token

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/go-hocon/format"
)

// describe renders tokens compactly for comparison.
func describe(toks []Token) []string {
	res := make([]string, 0, len(toks))
	for i := range toks {
		tok := &toks[i]
		switch tok.Type {
		case TStart, TEnd:
			continue
		case TValue:
			res = append(res, "V:"+tok.Value.Type().String()+":"+tok.Value.String())
		case TUnquoted:
			res = append(res, "U:"+tok.Text())
		case TComment:
			res = append(res, "C:"+tok.Text())
		case TSubst:
			res = append(res, "S:"+tok.String())
		default:
			res = append(res, tok.Type.String())
		}
	}
	return res
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected []string
	}{
		{
			name:     "punctuation",
			in:       `{}[]:,=+=`,
			expected: []string{"TLCurl", "TRCurl", "TLSquare", "TRSquare", "TColon", "TComma", "TEquals", "TPlusEquals"},
		},
		{
			name:     "field",
			in:       "a = 1\n",
			expected: []string{"U:a", "TEquals", "V:Number:1", "TNewline"},
		},
		{
			name:     "whitespace between values kept",
			in:       "foo bar  10",
			expected: []string{"U:foo", "U: ", "U:bar", "U:  ", "V:Number:10"},
		},
		{
			name:     "keywords",
			in:       "true false null truex",
			expected: []string{"V:Bool:true", "U: ", "V:Bool:false", "U: ", "V:Null:null", "U: ", "V:Bool:true", "U:x"},
		},
		{
			name:     "numbers",
			in:       "-1 1.5 1e3 1.2.3 10s",
			expected: []string{"V:Number:-1", "U: ", "V:Number:1.5", "U: ", "V:Number:1e3", "U: ", "U:1.2.3", "U: ", "V:Number:10", "U:s"},
		},
		{
			name:     "quoted",
			in:       `"a\nbA" "x"`,
			expected: []string{`V:String:"a\nbA"`, "U: ", `V:String:"x"`},
		},
		{
			name:     "surrogate pair",
			in:       `"\ud83d\ude00" "\u00e9"`,
			expected: []string{"V:String:\"\U0001F600\"", "U: ", "V:String:\"\u00e9\""},
		},
		{
			name:     "unpaired surrogates",
			in:       `"\ud83dx" "\ude00\ud83d" "\ud83d\u0041"`,
			expected: []string{"V:String:\"\ufffdx\"", "U: ", "V:String:\"\ufffd\ufffd\"", "U: ", "V:String:\"\ufffdA\""},
		},
		{
			name: "triple quoted",
			in: `"""a "b"
c"""" `,
			expected: []string{`V:String:"a \"b\"\nc\""`},
		},
		{
			name:     "comments",
			in:       "# one\na // two\n",
			expected: []string{"C: one", "TNewline", "U:a", "C: two", "TNewline"},
		},
		{
			name:     "substitutions",
			in:       "${a.b} ${?c}",
			expected: []string{"S:${a.b}", "U: ", "S:${?c}"},
		},
		{
			name:     "url",
			in:       "http://example.com",
			expected: []string{"U:http", "TColon", "C:example.com"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := Tokenize([]byte(tt.in), nil, format.ConfFormat)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.expected, describe(toks)); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestTokenizeProblems(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		syntax format.Format
		err    error
	}{
		{"unterminated string", `"abc`, format.ConfFormat, ErrUnterminated},
		{"unterminated triple", `"""abc`, format.ConfFormat, ErrUnterminated},
		{"bad escape", `"\q"`, format.ConfFormat, ErrBadEscape},
		{"bad unicode", `"\u12"`, format.ConfFormat, ErrBadUnicode},
		{"reserved", `a ^ b`, format.ConfFormat, ErrReserved},
		{"plus", `a + b`, format.ConfFormat, ErrReserved},
		{"dollar", `$a`, format.ConfFormat, ErrReserved},
		{"unclosed substitution", `${a`, format.ConfFormat, ErrUnterminated},
		{"json substitution", `${a}`, format.JSONFormat, ErrNotJSON},
		{"json comment", `# x`, format.JSONFormat, ErrReserved},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize([]byte(tt.in), nil, tt.syntax)
			if !errors.Is(err, tt.err) {
				t.Errorf("expected %v, got %v", tt.err, err)
			}
		})
	}
}

func TestLines(t *testing.T) {
	toks, err := Tokenize([]byte("a\n\nb \"\"\"x\ny\"\"\" c"), nil, format.ConfFormat)
	if err != nil {
		t.Fatal(err)
	}
	lines := map[string]int{}
	for i := range toks {
		if toks[i].Type == TUnquoted {
			lines[toks[i].Text()] = toks[i].Line()
		}
	}
	want := map[string]int{"a": 1, "b": 3, " ": 4, "c": 4}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestLazyNext(t *testing.T) {
	tz := NewTokenizer([]byte("a:1"), nil, format.JSONFormat)
	var types []TokenType
	for {
		tok := tz.Next()
		types = append(types, tok.Type)
		if tok.Type == TEnd {
			break
		}
	}
	want := []TokenType{TStart, TUnquoted, TColon, TValue, TEnd}
	if diff := cmp.Diff(want, types); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}
