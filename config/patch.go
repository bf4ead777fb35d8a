package config

import (
	"fmt"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/signadot/go-hocon/encode"
	"github.com/signadot/go-hocon/ir"
	"github.com/signadot/go-hocon/parse"
)

// ApplyJSONPatch applies an RFC 6902 patch to a resolved config.  The
// result loses comments and the origins of the original values.
func (c *Config) ApplyJSONPatch(patch []byte) (*Config, error) {
	if !c.IsResolved() {
		return nil, &Error{Origin: c.Origin(), Msg: "config must be resolved before patching", Err: ErrNotResolved}
	}
	ops, err := jsonpatch.DecodePatch(patch)
	if err != nil {
		return nil, fmt.Errorf("%w: could not decode json patch: %w", ErrBadValue, err)
	}
	d, err := encode.Render(c.root, encode.EncodeJSON(true))
	if err != nil {
		return nil, err
	}
	out, err := ops.Apply([]byte(d))
	if err != nil {
		return nil, fmt.Errorf("%w: could not apply json patch: %w", ErrBadValue, err)
	}
	root, err := parse.Parse(out, parse.ParseJSON(), parse.ParseOrigin(ir.NewOrigin("json patch of "+c.Origin().Description())))
	if err != nil {
		return nil, err
	}
	return New(root), nil
}
