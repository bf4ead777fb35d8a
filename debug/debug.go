// Package debug provides environment-gated diagnostics for parsing,
// resolution and loading.
//
// Flags are read once from the environment:
//
//	HOCON_DEBUG_PARSE=true HOCON_DEBUG_RESOLVE=1 hocon view app.conf
//
// Output goes to stderr through a zerolog logger.
package debug

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

type debug struct {
	Parse   bool `env:"HOCON_DEBUG_PARSE"`
	Include bool `env:"HOCON_DEBUG_INCLUDE"`
	Resolve bool `env:"HOCON_DEBUG_RESOLVE"`
	Merge   bool `env:"HOCON_DEBUG_MERGE"`
	Load    bool `env:"HOCON_DEBUG_LOAD"`
	Watch   bool `env:"HOCON_DEBUG_WATCH"`
	Eval    bool `env:"HOCON_DEBUG_EVAL"`
}

var (
	d   *debug
	mu  sync.RWMutex
	log zerolog.Logger
)

func init() {
	log = newLogger(os.Stderr)
	if err := Reload(nil); err != nil {
		log.Warn().Err(err).Msg("malformed debug flags are off")
	}
}

func newLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true, PartsExclude: []string{zerolog.TimestampFieldName}}).
		With().
		Str("lib", "hocon").
		Logger()
}

// Reload reads the flags again from environ, or from the process
// environment when environ is nil.  Flags whose values do not parse as
// booleans stay off and are reported in the returned error.
func Reload(environ map[string]string) error {
	nd := &debug{}
	err := env.ParseWithOptions(nd, env.Options{Environment: environ})
	mu.Lock()
	defer mu.Unlock()
	d = nd
	return err
}

// SetOutput redirects debug output, mainly for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	log = newLogger(w)
}

func flags() *debug {
	mu.RLock()
	defer mu.RUnlock()
	return d
}

func Parse() bool {
	return flags().Parse
}
func Include() bool {
	return flags().Include
}
func Resolve() bool {
	return flags().Resolve
}
func Merge() bool {
	return flags().Merge
}
func Load() bool {
	return flags().Load
}
func Watch() bool {
	return flags().Watch
}
func Eval() bool {
	return flags().Eval
}

// Log returns the debug logger.
func Log() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := log
	return &l
}

func Logf(msg string, args ...any) {
	for i := range args {
		switch x := args[i].(type) {
		case map[string]any, []any, json.Number:
			d, err := json.MarshalIndent(x, "   |", "  ")
			if err != nil {
				args[i] = fmt.Sprintf("%v", x)
				continue
			}
			args[i] = string(d)
		}
	}
	Log().Debug().Msgf(msg, args...)
}

func LogAny(v any) {
	d, err := json.Marshal(v)
	if err != nil {
		Log().Debug().Msgf("%v", v)
		return
	}
	Log().Debug().RawJSON("value", d).Send()
}
