package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signadot/go-hocon/config"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "app.conf")
	require.NoError(t, os.WriteFile(f, []byte("a = 1\nb = ${a}"), 0o644))
	w, err := New([]string{f}, func(*config.Config, error) {})
	require.NoError(t, err)
	c, err := w.Load()
	require.NoError(t, err)
	b, err := c.GetInt("b")
	require.NoError(t, err)
	assert.Equal(t, 1, b)
}

func TestNewNoFiles(t *testing.T) {
	_, err := New(nil, func(*config.Config, error) {})
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "app.conf")
	require.NoError(t, os.WriteFile(f, []byte("a = 1"), 0o644))

	loads := make(chan *config.Config, 16)
	w, err := New([]string{f}, func(c *config.Config, err error) {
		// partially written files fail to parse and are skipped
		if err == nil {
			loads <- c
		}
	}, WithDebounce(10*time.Millisecond), WithLoadOptions(config.WithEnviron(nil)))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	waitFor := func(want int) {
		t.Helper()
		deadline := time.After(5 * time.Second)
		for {
			select {
			case c := <-loads:
				if a, err := c.GetInt("a"); err == nil && a == want {
					return
				}
			case <-deadline:
				t.Fatalf("no load with a = %d", want)
			}
		}
	}
	waitFor(1)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.conf"), []byte("a = 3"), 0o644))
	require.NoError(t, os.WriteFile(f, []byte("a = 2"), 0o644))
	waitFor(2)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
