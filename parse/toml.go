package parse

import (
	"github.com/BurntSushi/toml"

	"github.com/signadot/go-hocon/ir"
)

func parseTOML(d []byte, origin *ir.Origin) (ir.Value, error) {
	m := map[string]any{}
	if _, err := toml.Decode(string(d), &m); err != nil {
		return nil, &Error{Origin: origin, Msg: err.Error(), Err: err}
	}
	return ir.FromAny(m, origin)
}
