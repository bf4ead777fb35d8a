package encode

import (
	"strings"

	"github.com/signadot/go-hocon/ir"
)

func MustString(v ir.Value, opts ...EncodeOption) string {
	s, err := Render(v, opts...)
	if err != nil {
		panic(err)
	}
	return strings.TrimSpace(s)
}
