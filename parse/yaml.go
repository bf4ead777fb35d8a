package parse

import (
	"github.com/goccy/go-yaml"

	"github.com/signadot/go-hocon/ir"
)

// parseYAML reads a YAML document as plain data.  An empty document is
// an empty object.
func parseYAML(d []byte, origin *ir.Origin) (ir.Value, error) {
	var v any
	if err := yaml.Unmarshal(d, &v); err != nil {
		return nil, &Error{Origin: origin, Msg: err.Error(), Err: err}
	}
	if v == nil {
		return ir.NewObject(origin, nil), nil
	}
	res, err := ir.FromAny(v, origin)
	if err != nil {
		return nil, &Error{Origin: origin, Msg: err.Error(), Err: err}
	}
	return res, nil
}
