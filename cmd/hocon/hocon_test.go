package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/caarlos0/env/v11"
	"github.com/scott-cotton/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signadot/go-hocon/ir"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	f := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(f, []byte(content), 0o644))
	return f
}

func testSettings(t *testing.T, s Settings) Settings {
	t.Helper()
	s.NoEnv = true
	res, err := settingsWith(s, env.Options{Environment: map[string]string{}})
	require.NoError(t, err)
	return res
}

func TestSettings(t *testing.T) {
	s, err := settingsWith(Settings{JSON: true}, env.Options{Environment: map[string]string{
		"HOCON_COMMENTS": "true",
		"HOCON_INDENT":   "2",
		"HOCON_JSON":     "false",
	}})
	require.NoError(t, err)
	assert.True(t, s.JSON)
	assert.True(t, s.Comments)
	assert.False(t, s.Unresolved)
	assert.Equal(t, 2, s.Indent)

	s, err = settingsWith(Settings{}, env.Options{Environment: map[string]string{}})
	require.NoError(t, err)
	assert.Equal(t, 4, s.Indent)

	_, err = settingsWith(Settings{}, env.Options{Environment: map[string]string{"HOCON_INDENT": "wide"}})
	assert.True(t, errors.Is(err, cli.ErrUsage))
}

func TestParseDefine(t *testing.T) {
	d, err := parseDefine("server.port=8080")
	require.NoError(t, err)
	assert.Equal(t, "server.port", d.Path)
	n, ok := d.Value.(*ir.Number)
	require.True(t, ok, "got %T", d.Value)
	assert.Equal(t, int64(8080), n.Int64())

	d, err = parseDefine(`name="a=b"`)
	require.NoError(t, err)
	s, ok := d.Value.(*ir.String)
	require.True(t, ok, "got %T", d.Value)
	assert.Equal(t, "a=b", s.Value())

	for _, bad := range []string{"noequals", "=1", "a={"} {
		_, err := parseDefine(bad)
		assert.True(t, errors.Is(err, cli.ErrUsage), bad)
	}
}

func TestView(t *testing.T) {
	dir := t.TempDir()
	f := writeFile(t, dir, "app.conf", "a = 1\nb = ${a}\n")

	tests := []struct {
		name     string
		cfg      *ViewConfig
		settings Settings
		expected string
	}{
		{
			name:     "resolved",
			cfg:      &ViewConfig{MainConfig: &MainConfig{}},
			expected: "a = 1\nb = 1\n",
		},
		{
			name:     "raw",
			cfg:      &ViewConfig{MainConfig: &MainConfig{}, Raw: true},
			expected: "a = 1\nb = ${a}\n",
		},
		{
			name: "defines",
			cfg: &ViewConfig{MainConfig: &MainConfig{Defines: []Define{
				{Path: "a", Value: ir.NewInt(ir.NewOrigin("-D a"), 2, "")},
			}}},
			expected: "a = 2\nb = 2\n",
		},
		{
			name:     "json",
			cfg:      &ViewConfig{MainConfig: &MainConfig{}},
			settings: Settings{JSON: true, Indent: 2},
			expected: "{\n  \"a\": 1,\n  \"b\": 1\n}\n",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := &bytes.Buffer{}
			err := viewFiles(tc.cfg, testSettings(t, tc.settings), w, nil, []string{f})
			require.NoError(t, err)
			assert.Equal(t, tc.expected, w.String())
		})
	}
}

func TestViewStdin(t *testing.T) {
	cfg := &ViewConfig{MainConfig: &MainConfig{}}
	w := &bytes.Buffer{}
	err := viewFiles(cfg, testSettings(t, Settings{}), w, strings.NewReader("x { y = 1 }"), nil)
	require.NoError(t, err)
	assert.Equal(t, "x {\n    y = 1\n}\n", w.String())
}

func TestGet(t *testing.T) {
	dir := t.TempDir()
	f := writeFile(t, dir, "app.conf", "server { port = 8080, host = localhost }\n")
	cfg := &GetConfig{MainConfig: &MainConfig{}}
	w := &bytes.Buffer{}
	require.NoError(t, getPath(cfg, testSettings(t, Settings{}), w, nil, "server.port", []string{f}))
	assert.Equal(t, "8080\n", w.String())

	err := getPath(cfg, testSettings(t, Settings{}), w, nil, "server.nope", []string{f})
	assert.Error(t, err)
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	ref := writeFile(t, dir, "reference.conf", "a = 1\nb = str\n")
	good := writeFile(t, dir, "good.conf", "a = 2\nb = other\n")
	bad := writeFile(t, dir, "bad.conf", "a = [1]\n")
	cfg := &CheckConfig{MainConfig: &MainConfig{}, Reference: ref}

	w := &bytes.Buffer{}
	ok, err := checkFiles(cfg, testSettings(t, Settings{}), w, nil, []string{good})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, w.String())

	w.Reset()
	ok, err = checkFiles(cfg, testSettings(t, Settings{}), w, nil, []string{bad})
	require.NoError(t, err)
	assert.False(t, ok)
	lines := strings.Split(strings.TrimSpace(w.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, w.String(), "'a'")
	assert.Contains(t, w.String(), "'b'")
}

func TestDiff(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.conf", "a = 1\nb = 2\n")
	b := writeFile(t, dir, "b.conf", "a = 1\nb = ${a}\n")
	cfg := &DiffConfig{MainConfig: &MainConfig{}, Context: 3}

	w := &bytes.Buffer{}
	differs, err := diffFiles(cfg, testSettings(t, Settings{}), w, a, b)
	require.NoError(t, err)
	assert.True(t, differs)
	assert.Contains(t, w.String(), "-b = 2\n+b = 1\n")

	w.Reset()
	differs, err = diffFiles(cfg, testSettings(t, Settings{}), w, a, a)
	require.NoError(t, err)
	assert.False(t, differs)
	assert.Empty(t, w.String())
}

func TestQuery(t *testing.T) {
	dir := t.TempDir()
	f := writeFile(t, dir, "app.conf", "a = 1\nitems = [{n = 1}, {n = 5}]\n")

	cfg := &QueryConfig{MainConfig: &MainConfig{}}
	w := &bytes.Buffer{}
	require.NoError(t, queryFiles(cfg, testSettings(t, Settings{}), w, nil, "a > 0", []string{f}))
	assert.Equal(t, "true\n", w.String())

	cfg.Select = "items"
	w.Reset()
	require.NoError(t, queryFiles(cfg, testSettings(t, Settings{JSON: true}), w, nil, "n > 2", []string{f}))
	assert.Equal(t, "[\n    {\n        \"n\": 5\n    }\n]\n", w.String())
}

func TestPatch(t *testing.T) {
	dir := t.TempDir()
	f := writeFile(t, dir, "app.conf", "a = 1\nb = x\n")
	p := writeFile(t, dir, "patch.json", `[{"op": "replace", "path": "/a", "value": 5}, {"op": "remove", "path": "/b"}]`)
	d, err := readPatch(nil, p)
	require.NoError(t, err)

	cfg := &PatchConfig{MainConfig: &MainConfig{}}
	w := &bytes.Buffer{}
	require.NoError(t, patchFiles(cfg, testSettings(t, Settings{}), w, d, []string{f}))
	assert.Equal(t, "a = 5\n", w.String())
}
