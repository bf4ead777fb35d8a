package resolve

import (
	"os"
	"strings"
	"sync"

	"github.com/signadot/go-hocon/ir"
)

var (
	envOnce sync.Once
	envObj  *ir.Object
)

// Env is a snapshot of the process environment taken on first use.  Each
// variable is a single key, never split on periods.
func Env() *ir.Object {
	envOnce.Do(func() {
		envObj = EnvObject(os.Environ())
	})
	return envObj
}

// EnvObject builds an object from KEY=value pairs.
func EnvObject(environ []string) *ir.Object {
	m := make(map[string]ir.Value, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		m[k] = ir.NewString(ir.NewEnvOrigin("env var "+k), v)
	}
	return ir.NewObject(ir.NewEnvOrigin("env variables"), m)
}
