package config

import (
	"testing"
	"time"

	"github.com/signadot/go-hocon/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDoc = `
app {
  name = demo
  port = 8080
  ratio = 0.25
  big = 3000000000
  debug = yes
  verbose = "false"
  count = "42"
  timeout = 10s
  retry = 250
  buffer = 512Ki
  hosts = [a, b, c]
  ports = [80, "443"]
  flags = [true, off]
  waits = [1s, 20]
  sizes = [1k, 2]
  servers = [{ host = x }, { host = y }]
  nothing = null
  indexed { "0" = zero, "1" = one }
}
`

func mustResolve(t *testing.T, s string) *Config {
	t.Helper()
	c, err := ParseString(s)
	require.NoError(t, err)
	c, err = c.Resolve()
	require.NoError(t, err)
	return c
}

func TestGetters(t *testing.T) {
	c := mustResolve(t, testDoc)

	s, err := c.GetString("app.name")
	require.NoError(t, err)
	assert.Equal(t, "demo", s)

	s, err = c.GetString("app.port")
	require.NoError(t, err)
	assert.Equal(t, "8080", s)

	i, err := c.GetInt("app.port")
	require.NoError(t, err)
	assert.Equal(t, 8080, i)

	i, err = c.GetInt("app.count")
	require.NoError(t, err)
	assert.Equal(t, 42, i)

	_, err = c.GetInt("app.big")
	assert.ErrorIs(t, err, ErrWrongType)

	i64, err := c.GetInt64("app.big")
	require.NoError(t, err)
	assert.Equal(t, int64(3000000000), i64)

	f, err := c.GetFloat64("app.ratio")
	require.NoError(t, err)
	assert.Equal(t, 0.25, f)

	b, err := c.GetBool("app.debug")
	require.NoError(t, err)
	assert.True(t, b)

	b, err = c.GetBool("app.verbose")
	require.NoError(t, err)
	assert.False(t, b)

	d, err := c.GetDuration("app.timeout")
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, d)

	ms, err := c.GetMilliseconds("app.retry")
	require.NoError(t, err)
	assert.Equal(t, int64(250), ms)

	ns, err := c.GetNanoseconds("app.timeout")
	require.NoError(t, err)
	assert.Equal(t, int64(10*time.Second), ns)

	n, err := c.GetBytes("app.buffer")
	require.NoError(t, err)
	assert.Equal(t, int64(512*1024), n)

	hosts, err := c.GetStringList("app.hosts")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, hosts)

	ports, err := c.GetIntList("app.ports")
	require.NoError(t, err)
	assert.Equal(t, []int{80, 443}, ports)

	flags, err := c.GetBoolList("app.flags")
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false}, flags)

	waits, err := c.GetDurationList("app.waits")
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{time.Second, 20 * time.Millisecond}, waits)

	wms, err := c.GetMillisecondsList("app.waits")
	require.NoError(t, err)
	assert.Equal(t, []int64{1000, 20}, wms)

	sizes, err := c.GetBytesList("app.sizes")
	require.NoError(t, err)
	assert.Equal(t, []int64{1000, 2}, sizes)

	servers, err := c.GetConfigList("app.servers")
	require.NoError(t, err)
	require.Len(t, servers, 2)
	host, err := servers[1].GetString("host")
	require.NoError(t, err)
	assert.Equal(t, "y", host)

	indexed, err := c.GetStringList("app.indexed")
	require.NoError(t, err)
	assert.Equal(t, []string{"zero", "one"}, indexed)

	sub, err := c.GetConfig("app")
	require.NoError(t, err)
	name, err := sub.GetString("name")
	require.NoError(t, err)
	assert.Equal(t, "demo", name)

	anyList, err := c.GetAnyList("app.ports")
	require.NoError(t, err)
	assert.Equal(t, []any{int64(80), "443"}, anyList)

	isNull, err := c.GetIsNull("app.nothing")
	require.NoError(t, err)
	assert.True(t, isNull)
}

func TestGetterErrors(t *testing.T) {
	c := mustResolve(t, testDoc)
	tests := []struct {
		name string
		get  func() error
		err  error
	}{
		{name: "missing", get: func() error { _, err := c.GetString("app.nope"); return err }, err: ErrMissing},
		{name: "missing parent", get: func() error { _, err := c.GetString("nope.x"); return err }, err: ErrMissing},
		{name: "null", get: func() error { _, err := c.GetString("app.nothing"); return err }, err: ErrNull},
		{name: "null parent", get: func() error { _, err := c.GetString("app.nothing.x"); return err }, err: ErrNull},
		{name: "scalar parent", get: func() error { _, err := c.GetString("app.name.x"); return err }, err: ErrWrongType},
		{name: "string as number", get: func() error { _, err := c.GetInt("app.name"); return err }, err: ErrWrongType},
		{name: "number as bool", get: func() error { _, err := c.GetBool("app.port"); return err }, err: ErrWrongType},
		{name: "list as object", get: func() error { _, err := c.GetObject("app.hosts"); return err }, err: ErrWrongType},
		{name: "object as string", get: func() error { _, err := c.GetString("app"); return err }, err: ErrWrongType},
		{name: "scalar as list", get: func() error { _, err := c.GetList("app.port"); return err }, err: ErrWrongType},
		{name: "bad list element", get: func() error { _, err := c.GetIntList("app.hosts"); return err }, err: ErrWrongType},
		{name: "bad duration", get: func() error { _, err := c.GetDuration("app.name"); return err }, err: ErrBadValue},
		{name: "bad bytes", get: func() error { _, err := c.GetBytes("app.name"); return err }, err: ErrBadValue},
		{name: "duration of list", get: func() error { _, err := c.GetDuration("app.hosts"); return err }, err: ErrWrongType},
		{name: "bad path", get: func() error { _, err := c.GetString("app..name"); return err }, err: ErrBadPath},
		{name: "is null of missing", get: func() error { _, err := c.GetIsNull("app.nope"); return err }, err: ErrMissing},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.get(), tc.err)
		})
	}
}

func TestGetterRange(t *testing.T) {
	c := mustResolve(t, `
big = 1e30
small = -1e30
edge = 9223372036854775807
wide = 3000000000
huge = [1, 1e19]
`)
	tests := []struct {
		name string
		get  func() error
	}{
		{name: "int64 of big float", get: func() error { _, err := c.GetInt64("big"); return err }},
		{name: "int64 of small float", get: func() error { _, err := c.GetInt64("small"); return err }},
		{name: "int of big float", get: func() error { _, err := c.GetInt("big"); return err }},
		{name: "int of wide int", get: func() error { _, err := c.GetInt("wide"); return err }},
		{name: "bytes of big float", get: func() error { _, err := c.GetBytes("big"); return err }},
		{name: "int64 list", get: func() error { _, err := c.GetInt64List("huge"); return err }},
		{name: "bytes list", get: func() error { _, err := c.GetBytesList("huge"); return err }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.get(), ErrWrongType)
		})
	}

	edge, err := c.GetInt64("edge")
	require.NoError(t, err)
	assert.Equal(t, int64(9223372036854775807), edge)
	wide, err := c.GetInt64("wide")
	require.NoError(t, err)
	assert.Equal(t, int64(3000000000), wide)
}

func TestMissingErrorPath(t *testing.T) {
	c := mustResolve(t, "a { b = 1 }")
	_, err := c.GetString("a.x.y")
	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "a.x", cerr.Path)
}

func TestGetUnresolved(t *testing.T) {
	c, err := ParseString("a = ${b}, b = 1, c { d = 2 }")
	require.NoError(t, err)
	_, err = c.GetInt("a")
	assert.ErrorIs(t, err, ErrNotResolved)
	i, err := c.GetInt("c.d")
	require.NoError(t, err)
	assert.Equal(t, 2, i)
}

func TestHasPath(t *testing.T) {
	c, err := ParseString("a { b = 1, n = null }, r = ${a.b}, o = ${?missing}, bad = ${missing}")
	require.NoError(t, err)
	tests := []struct {
		path          string
		has, hasOrNul bool
	}{
		{path: "a", has: true, hasOrNul: true},
		{path: "a.b", has: true, hasOrNul: true},
		{path: "a.n", has: false, hasOrNul: true},
		{path: "a.x", has: false, hasOrNul: false},
		{path: "r", has: true, hasOrNul: true},
		{path: "o", has: false, hasOrNul: false},
		{path: "a.b.c", has: false, hasOrNul: false},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			has, err := c.HasPath(tc.path)
			require.NoError(t, err)
			assert.Equal(t, tc.has, has)
			hasOrNull, err := c.HasPathOrNull(tc.path)
			require.NoError(t, err)
			assert.Equal(t, tc.hasOrNul, hasOrNull)
		})
	}
	_, err = c.HasPath("bad")
	assert.Error(t, err)
	_, err = c.HasPath("a..b")
	assert.ErrorIs(t, err, ErrBadPath)
}

func TestEdits(t *testing.T) {
	c := mustResolve(t, "a { b = 1, c = 2 }, d = 3")

	e, err := c.WithValue("a.x.y", "new")
	require.NoError(t, err)
	s, err := e.GetString("a.x.y")
	require.NoError(t, err)
	assert.Equal(t, "new", s)
	// the original is untouched
	has, err := c.HasPath("a.x")
	require.NoError(t, err)
	assert.False(t, has)

	e, err = c.WithValue("d", map[string]any{"k": []any{1, 2}})
	require.NoError(t, err)
	l, err := e.GetIntList("d.k")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, l)

	e, err = c.WithoutPath("a.b")
	require.NoError(t, err)
	u, err := e.Unwrapped()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": map[string]any{"c": int64(2)}, "d": int64(3)}, u)

	e, err = c.WithOnlyPath("a.c")
	require.NoError(t, err)
	u, err = e.Unwrapped()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": map[string]any{"c": int64(2)}}, u)

	e, err = c.AtPath("x.y")
	require.NoError(t, err)
	i, err := e.GetInt("x.y.a.b")
	require.NoError(t, err)
	assert.Equal(t, 1, i)

	i, err = c.AtKey("k").GetInt("k.d")
	require.NoError(t, err)
	assert.Equal(t, 3, i)

	entries := c.Entries()
	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.Path
	}
	assert.Equal(t, []string{"a.b", "a.c", "d"}, paths)
	assert.False(t, c.IsEmpty())
	assert.True(t, Empty("x").IsEmpty())
}

func TestWithFallback(t *testing.T) {
	a, err := ParseString("x { a = 1 }, y = 1")
	require.NoError(t, err)
	b, err := ParseString("x { a = 2, b = 2 }, y { nested = 2 }, z = ${x.b}")
	require.NoError(t, err)
	c, err := ParseString("x = gone, w = 3")
	require.NoError(t, err)

	merged, err := a.WithFallback(b).WithFallback(c).Resolve()
	require.NoError(t, err)
	u, err := merged.Unwrapped()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"x": map[string]any{"a": int64(1), "b": int64(2)},
		"y": int64(1),
		"z": int64(2),
		"w": int64(3),
	}, u)
}

func TestResolveWith(t *testing.T) {
	c, err := ParseString("a = ${x}")
	require.NoError(t, err)
	src, err := ParseString("x = 1")
	require.NoError(t, err)
	res, err := c.ResolveWith(src)
	require.NoError(t, err)
	assert.True(t, res.IsResolved())
	has, err := res.HasPath("x")
	require.NoError(t, err)
	assert.False(t, has)
	i, err := res.GetInt("a")
	require.NoError(t, err)
	assert.Equal(t, 1, i)
}

func TestFromMap(t *testing.T) {
	c, err := FromMap(map[string]any{"a.b": 1, "t": 2 * time.Second}, "")
	require.NoError(t, err)
	i, err := c.GetInt(`"a.b"`)
	require.NoError(t, err)
	assert.Equal(t, 1, i)
	d, err := c.GetDuration("t")
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, d)
	assert.Equal(t, ir.ObjectType, c.Root().Type())
}
