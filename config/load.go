package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/signadot/go-hocon/debug"
	"github.com/signadot/go-hocon/ir"
	"github.com/signadot/go-hocon/parse"
	"github.com/signadot/go-hocon/resolve"
)

const (
	// EnvConfigFile replaces the application files given to Load.
	EnvConfigFile = "HOCON_CONFIG_FILE"
	// DefaultEnvOverridePrefix marks environment variables that override
	// settings.
	DefaultEnvOverridePrefix = "HOCON_FORCE_"
)

type LoadOption func(*loadOpts)

type loadOpts struct {
	files         []string
	defaults      []*Config
	defaultsFiles []string
	overrides     []*Config
	envOverrides  bool
	envPrefix     string
	environ       []string
	resolveOpts   resolve.Options
	parseOpts     []parse.ParseOption
}

// WithFiles adds application files.  Earlier files win over later ones.
func WithFiles(files ...string) LoadOption {
	return func(o *loadOpts) { o.files = append(o.files, files...) }
}

// WithDefaults adds a config beneath the application files.
func WithDefaults(c *Config) LoadOption {
	return func(o *loadOpts) { o.defaults = append(o.defaults, c) }
}

// WithDefaultsFile adds a file beneath the application files and the
// configs given to WithDefaults.
func WithDefaultsFile(file string) LoadOption {
	return func(o *loadOpts) { o.defaultsFiles = append(o.defaultsFiles, file) }
}

// WithOverrides adds a config above the application files.
func WithOverrides(c *Config) LoadOption {
	return func(o *loadOpts) { o.overrides = append(o.overrides, c) }
}

// WithEnvOverrides turns environment variables starting with prefix into
// overrides.  After the prefix, _ separates path keys, __ stands for -
// and ___ for _.  An empty prefix means DefaultEnvOverridePrefix.
func WithEnvOverrides(prefix string) LoadOption {
	return func(o *loadOpts) {
		if prefix == "" {
			prefix = DefaultEnvOverridePrefix
		}
		o.envOverrides = true
		o.envPrefix = prefix
	}
}

// WithEnviron replaces the process environment for overrides,
// substitutions and EnvConfigFile.
func WithEnviron(environ []string) LoadOption {
	return func(o *loadOpts) { o.environ = environ }
}

func WithResolveOptions(ro resolve.Options) LoadOption {
	return func(o *loadOpts) { o.resolveOpts = ro }
}

func WithParseOptions(opts ...parse.ParseOption) LoadOption {
	return func(o *loadOpts) { o.parseOpts = append(o.parseOpts, opts...) }
}

func newLoadOpts(opts []LoadOption) *loadOpts {
	o := &loadOpts{resolveOpts: resolve.DefaultOptions()}
	for _, opt := range opts {
		opt(o)
	}
	if o.environ != nil && o.resolveOpts.Env == nil {
		o.resolveOpts.Env = resolve.EnvObject(o.environ)
	}
	return o
}

func (o *loadOpts) getenv(k string) string {
	if o.environ == nil {
		return os.Getenv(k)
	}
	prefix := k + "="
	for _, kv := range o.environ {
		if v, ok := strings.CutPrefix(kv, prefix); ok {
			return v
		}
	}
	return ""
}

func (o *loadOpts) env() []string {
	if o.environ == nil {
		return os.Environ()
	}
	return o.environ
}

// Load merges overrides, environment overrides, application files and
// defaults, in that order of precedence, and resolves the result.
func Load(opts ...LoadOption) (*Config, error) {
	lo := newLoadOpts(opts)
	c, err := lo.load()
	if err != nil {
		return nil, err
	}
	res, err := c.ResolveOptions(lo.resolveOpts)
	if err != nil {
		return nil, fmt.Errorf("could not resolve config: %w", err)
	}
	return res, nil
}

// LoadUnresolved is Load without the final resolve.
func LoadUnresolved(opts ...LoadOption) (*Config, error) {
	return newLoadOpts(opts).load()
}

func (o *loadOpts) load() (*Config, error) {
	var layers []*Config
	layers = append(layers, o.overrides...)
	if o.envOverrides {
		ec, err := EnvOverrides(o.envPrefix, o.env())
		if err != nil {
			return nil, err
		}
		layers = append(layers, ec)
	}
	files := o.files
	if f := o.getenv(EnvConfigFile); f != "" {
		if debug.Load() {
			debug.Logf("$%s redirects application files %v to %s", EnvConfigFile, files, f)
		}
		files = []string{f}
	}
	for _, f := range files {
		c, err := o.parseFile(f)
		if err != nil {
			return nil, err
		}
		layers = append(layers, c)
	}
	layers = append(layers, o.defaults...)
	for _, f := range o.defaultsFiles {
		c, err := o.parseFile(f)
		if err != nil {
			return nil, err
		}
		layers = append(layers, c)
	}
	res := Empty("")
	for i, l := range layers {
		if i == 0 {
			res = l
			continue
		}
		res = res.WithFallback(l)
	}
	if debug.Load() {
		debug.Logf("loaded %d layers: %s", len(layers), res)
	}
	return res, nil
}

func (o *loadOpts) parseFile(f string) (*Config, error) {
	if debug.Load() {
		debug.Logf("loading %s", f)
	}
	c, err := ParseFile(f, o.parseOpts...)
	if err != nil {
		return nil, fmt.Errorf("could not load %s: %w", f, err)
	}
	return c, nil
}

// EnvOverrides builds a config from the variables in environ starting
// with prefix.  Values are strings; getters convert them.
func EnvOverrides(prefix string, environ []string) (*Config, error) {
	root := ir.NewObject(ir.NewEnvOrigin("env overrides"), map[string]ir.Value{})
	var names []string
	vals := map[string]string{}
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(k, prefix) || k == prefix {
			continue
		}
		names = append(names, k)
		vals[k] = v
	}
	slices.Sort(names)
	for _, name := range names {
		keys, err := envOverrideKeys(strings.TrimPrefix(name, prefix))
		if err != nil {
			return nil, fmt.Errorf("%w: environment variable %s: %w", ErrBadPath, name, err)
		}
		root = root.WithValue(ir.NewPath(keys...), ir.NewString(ir.NewEnvOrigin("env var "+name), vals[name]))
	}
	return New(root), nil
}

func envOverrideKeys(s string) ([]string, error) {
	var (
		keys []string
		sb   strings.Builder
		n    int
	)
	flush := func() error {
		switch n {
		case 0:
		case 1:
			keys = append(keys, sb.String())
			sb.Reset()
		case 2:
			sb.WriteByte('-')
		case 3:
			sb.WriteByte('_')
		default:
			return fmt.Errorf("%d underscores in a row have no meaning", n)
		}
		n = 0
		return nil
	}
	for i := 0; i < len(s); i++ {
		if s[i] == '_' {
			n++
			continue
		}
		if err := flush(); err != nil {
			return nil, err
		}
		sb.WriteByte(s[i])
	}
	if err := flush(); err != nil {
		return nil, err
	}
	keys = append(keys, sb.String())
	for _, k := range keys {
		if k == "" {
			return nil, fmt.Errorf("empty key in %q", s)
		}
	}
	return keys, nil
}

// EnvConfig exposes the process environment, one key per variable.
func EnvConfig() *Config {
	return New(resolve.Env())
}
