package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"dario.cat/mergo"
	"github.com/caarlos0/env/v11"
	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"

	"github.com/signadot/go-hocon/config"
	"github.com/signadot/go-hocon/encode"
	"github.com/signadot/go-hocon/ir"
	"github.com/signadot/go-hocon/parse"
	"github.com/signadot/go-hocon/resolve"
)

type MainConfig struct {
	J            bool `cli:"name=j aliases=json desc='output json'"`
	Comments     bool `cli:"name=c desc='include comments'"`
	Origins      bool `cli:"name=origins desc='comment each value with where it came from'"`
	Unresolved   bool `cli:"name=u desc='allow unresolved substitutions'"`
	NoEnv        bool `cli:"name=no-env desc='do not substitute environment variables'"`
	EnvOverrides bool `cli:"name=env-overrides desc='apply HOCON_FORCE_ variables as overrides'"`
	Color        bool `cli:"name=color desc='encode with color'"`

	Defines []Define

	Main *cli.Command
}

// Define is a -D path=value override.
type Define struct {
	Path  string
	Value ir.Value
}

// Settings are the options which may also be defaulted from the
// environment.  Flags given on the command line take precedence.
type Settings struct {
	JSON         bool `env:"HOCON_JSON"`
	Comments     bool `env:"HOCON_COMMENTS"`
	Origins      bool `env:"HOCON_ORIGINS"`
	Unresolved   bool `env:"HOCON_ALLOW_UNRESOLVED"`
	NoEnv        bool `env:"HOCON_NO_ENV"`
	EnvOverrides bool `env:"HOCON_ENV_OVERRIDES"`
	Indent       int  `env:"HOCON_INDENT" envDefault:"4"`
}

func (cfg *MainConfig) flagSettings() Settings {
	return Settings{
		JSON:         cfg.J,
		Comments:     cfg.Comments,
		Origins:      cfg.Origins,
		Unresolved:   cfg.Unresolved,
		NoEnv:        cfg.NoEnv,
		EnvOverrides: cfg.EnvOverrides,
	}
}

func (cfg *MainConfig) settings() (Settings, error) {
	return settingsWith(cfg.flagSettings(), env.Options{})
}

func settingsWith(s Settings, eOpts env.Options) (Settings, error) {
	envS := Settings{}
	if err := env.ParseWithOptions(&envS, eOpts); err != nil {
		return s, fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	if err := mergo.Merge(&s, envS); err != nil {
		return s, fmt.Errorf("error merging settings: %w", err)
	}
	return s, nil
}

func (cfg *MainConfig) defineOpt(_ *cli.Context, a string) (any, error) {
	d, err := parseDefine(a)
	if err != nil {
		return nil, err
	}
	cfg.Defines = append(cfg.Defines, d)
	return d, nil
}

func parseDefine(a string) (Define, error) {
	path, val, ok := strings.Cut(a, "=")
	if !ok || path == "" {
		return Define{}, fmt.Errorf("%w: expected path=value, got %q", cli.ErrUsage, a)
	}
	obj, err := parse.ParseString("v = "+val, parse.ParseOrigin(ir.NewOrigin("-D "+path)))
	if err != nil {
		return Define{}, fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	return Define{Path: path, Value: obj.Get("v")}, nil
}

func (cfg *MainConfig) overrides() (*config.Config, error) {
	if len(cfg.Defines) == 0 {
		return nil, nil
	}
	res := config.Empty("command line")
	for _, d := range cfg.Defines {
		var err error
		res, err = res.WithValue(d.Path, d.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: -D %s: %w", cli.ErrUsage, d.Path, err)
		}
	}
	return res, nil
}

// loadOpts are the load options for the settings, without files.
func (cfg *MainConfig) loadOpts(s Settings) ([]config.LoadOption, error) {
	res := []config.LoadOption{
		config.WithResolveOptions(resolve.Options{
			UseEnv:          !s.NoEnv,
			AllowUnresolved: s.Unresolved,
		}),
	}
	ov, err := cfg.overrides()
	if err != nil {
		return nil, err
	}
	if ov != nil {
		res = append(res, config.WithOverrides(ov))
	}
	if s.EnvOverrides {
		res = append(res, config.WithEnvOverrides(config.DefaultEnvOverridePrefix))
	}
	return res, nil
}

// load loads files, or the document on in when there are none.
func (cfg *MainConfig) load(s Settings, in io.Reader, files []string, resolved bool) (*config.Config, error) {
	opts, err := cfg.loadOpts(s)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 || (len(files) == 1 && files[0] == "-") {
		root, err := parse.ParseReader(in, parse.ParseOrigin(ir.NewOrigin("stdin")))
		if err != nil {
			return nil, fmt.Errorf("error reading stdin: %w", err)
		}
		opts = append(opts, config.WithDefaults(config.New(root)))
	} else {
		opts = append(opts, config.WithFiles(files...))
	}
	if !resolved {
		return config.LoadUnresolved(opts...)
	}
	return config.Load(opts...)
}

func (cfg *MainConfig) encOpts(s Settings, w io.Writer) []encode.EncodeOption {
	res := []encode.EncodeOption{
		encode.EncodeJSON(s.JSON),
		encode.EncodeComments(s.Comments),
		encode.EncodeOriginComments(s.Origins),
		encode.Indent(s.Indent),
	}
	if cfg.Color {
		return append(res, encode.EncodeColors(encode.NewColors()))
	}
	if cfg.Main != nil {
		for _, opt := range cfg.Main.Opts {
			if opt.Name == "color" && opt.Value != nil {
				return res
			}
		}
	}
	f, ok := w.(*os.File)
	if !ok {
		return res
	}
	if isatty.IsTerminal(f.Fd()) {
		res = append(res, encode.EncodeColors(encode.NewColors()))
	}
	return res
}

type ViewConfig struct {
	*MainConfig

	Raw   bool `cli:"name=raw desc='do not resolve substitutions'"`
	Watch bool `cli:"name=w aliases=watch desc='view again whenever a file changes'"`

	View *cli.Command
}

type GetConfig struct {
	*MainConfig

	Get *cli.Command
}

type CheckConfig struct {
	*MainConfig

	Reference string `cli:"name=r aliases=reference desc='reference configuration file'"`

	Check *cli.Command
}

type DiffConfig struct {
	*MainConfig

	Context int `cli:"name=U desc='lines of context'"`

	Diff *cli.Command
}

type QueryConfig struct {
	*MainConfig

	Select string `cli:"name=select desc='path of a list whose matching objects are output'"`

	Query *cli.Command
}

type PatchConfig struct {
	*MainConfig

	Patch *cli.Command
}
