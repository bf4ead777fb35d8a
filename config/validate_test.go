package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const referenceDoc = `
app {
  name = "default"
  port = 80
  timeout = 1s
  hosts = [x]
  db { url = "u", pool = 1 }
  optional = null
}
`

func TestCheckValid(t *testing.T) {
	ref := mustResolve(t, referenceDoc)
	tests := []struct {
		name     string
		in       string
		paths    []string
		problems []string
	}{
		{
			name: "matching",
			in:   `app { name = n, port = "8080", timeout = 5, hosts = [a, b], db { url = v, pool = 3 }, optional = {} }, extra = 1`,
		},
		{
			name:     "one missing",
			in:       `app { name = n, port = 1, timeout = 5, hosts = [], db { url = v }, optional = 1 }`,
			problems: []string{"app.db.pool"},
		},
		{
			name:     "every problem reported",
			in:       `app { name = {}, port = [1], timeout = 5, hosts = [{}], db = 3, optional = 1 }`,
			problems: []string{"app.db", "app.hosts", "app.name", "app.port"},
		},
		{
			name:     "null is compatible",
			in:       `app { name = null, port = null, timeout = null, hosts = null, db = null, optional = null }`,
			problems: nil,
		},
		{
			name:     "restricted to paths",
			in:       `app { name = {}, port = 1, db { url = v } }`,
			paths:    []string{"app.db", "app.port", "not.in.reference"},
			problems: []string{"app.db.pool"},
		},
		{
			name:     "missing restricted path",
			in:       `other = 1`,
			paths:    []string{"app.port"},
			problems: []string{"app.port"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := mustResolve(t, tc.in)
			err := c.CheckValid(ref, tc.paths...)
			if len(tc.problems) == 0 {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrValidation)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			var paths []string
			for _, p := range verr.Problems {
				paths = append(paths, p.Path)
				assert.NotEmpty(t, p.Problem)
			}
			assert.Equal(t, tc.problems, paths)
		})
	}
}

func TestCheckValidUnresolved(t *testing.T) {
	ref := mustResolve(t, referenceDoc)
	c, err := ParseString("a = ${b}, b = 1")
	require.NoError(t, err)
	assert.ErrorIs(t, c.CheckValid(ref), ErrNotResolved)
}
