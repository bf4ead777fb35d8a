package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/signadot/go-hocon/resolve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	app := writeFile(t, dir, "app.conf", `
include "common"
server { port = 9000, url = "http://"${server.host}":"${server.port} }
`)
	writeFile(t, dir, "common.conf", `server { host = localhost }`)
	extra := writeFile(t, dir, "extra.yaml", "server:\n  port: 1\n  tls: true\n")
	defaults := writeFile(t, dir, "reference.toml", "[server]\nport = 80\nworkers = 4\n")
	over, err := ParseString("server.workers = 8")
	require.NoError(t, err)

	c, err := Load(
		WithFiles(app, extra),
		WithDefaultsFile(defaults),
		WithOverrides(over),
		WithEnviron([]string{"HOCON_FORCE_server_host=example.com", "HOCON_FORCE_server_max__conns=10"}),
		WithEnvOverrides(""),
	)
	require.NoError(t, err)

	u, err := c.Unwrapped()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"server": map[string]any{
			"host":      "example.com",
			"port":      int64(9000),
			"url":       "http://example.com:9000",
			"tls":       true,
			"workers":   int64(8),
			"max-conns": "10",
		},
	}, u)

	n, err := c.GetInt("server.max-conns")
	require.NoError(t, err)
	assert.Equal(t, 10, n)
}

func TestLoadConfigFileRedirect(t *testing.T) {
	dir := t.TempDir()
	app := writeFile(t, dir, "app.conf", "a = app")
	other := writeFile(t, dir, "other.conf", "a = other")
	c, err := Load(WithFiles(app), WithEnviron([]string{EnvConfigFile + "=" + other}))
	require.NoError(t, err)
	s, err := c.GetString("a")
	require.NoError(t, err)
	assert.Equal(t, "other", s)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(WithFiles(filepath.Join(dir, "missing.conf")))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := writeFile(t, dir, "bad.conf", "a = ${nope}")
	_, err = Load(WithFiles(bad), WithResolveOptions(resolve.Options{}))
	assert.ErrorIs(t, err, resolve.ErrUnresolvedSubstitution)

	c, err := Load(WithFiles(bad), WithResolveOptions(resolve.Options{AllowUnresolved: true}))
	require.NoError(t, err)
	assert.False(t, c.IsResolved())

	c, err = LoadUnresolved(WithFiles(bad))
	require.NoError(t, err)
	assert.False(t, c.IsResolved())
}

func TestLoadEnvSubstitution(t *testing.T) {
	dir := t.TempDir()
	app := writeFile(t, dir, "app.conf", "home = ${MY_HOME}")
	c, err := Load(WithFiles(app), WithEnviron([]string{"MY_HOME=/home/me"}))
	require.NoError(t, err)
	s, err := c.GetString("home")
	require.NoError(t, err)
	assert.Equal(t, "/home/me", s)

	_, err = Load(WithFiles(app), WithEnviron([]string{"MY_HOME=/home/me"}), WithResolveOptions(resolve.Options{}))
	assert.ErrorIs(t, err, resolve.ErrUnresolvedSubstitution)
}

func TestEnvOverrides(t *testing.T) {
	c, err := EnvOverrides("P_", []string{
		"P_a_b__c___d=1",
		"P_x=2",
		"OTHER=3",
		"P_=4",
	})
	require.NoError(t, err)
	u, err := c.Unwrapped()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"a": map[string]any{"b-c_d": "1"},
		"x": "2",
	}, u)

	_, err = EnvOverrides("P_", []string{"P_a____b=1"})
	assert.ErrorIs(t, err, ErrBadPath)
	_, err = EnvOverrides("P_", []string{"P__a=1"})
	assert.ErrorIs(t, err, ErrBadPath)
}

func TestEnvConfig(t *testing.T) {
	c := EnvConfig()
	assert.Equal(t, resolve.Env(), c.Root())
}
