package encode

import (
	"github.com/fatih/color"

	"github.com/signadot/go-hocon/ir"
)

// ColorAttr is the role a piece of output text plays.
type ColorAttr int

const (
	CommentColor ColorAttr = iota
	FieldColor
	ValueColor
	SepColor
	MergeColor
)

// Colors paints values by their type and everything else by role.
type Colors struct {
	values map[ir.Type]*color.Color
	roles  map[ColorAttr]*color.Color
}

func NewColors() *Colors {
	c := &Colors{
		values: map[ir.Type]*color.Color{},
		roles:  map[ColorAttr]*color.Color{},
	}
	c.SetRole(CommentColor, color.New(color.FgBlue))
	c.SetRole(FieldColor, color.RGB(128, 168, 196))
	c.SetRole(SepColor, color.RGB(255, 0, 196))
	c.SetRole(MergeColor, color.RGB(196, 168, 128))

	c.SetValue(ir.NumberType, color.RGB(128, 216, 236))
	c.SetValue(ir.NullType, color.RGB(168, 0, 196))
	c.SetValue(ir.BoolType, color.New(color.FgCyan))
	c.SetValue(ir.StringType, color.RGB(8, 196, 16))
	c.SetValue(ir.UnresolvedType, color.RGB(198, 198, 46))
	return c
}

// SetValue sets the color of values of type t.  Colors are forced on:
// callers decide whether the output is a terminal.
func (c *Colors) SetValue(t ir.Type, col *color.Color) *Colors {
	col.EnableColor()
	c.values[t] = col
	return c
}

// SetRole sets the color of non-value text playing role a.
func (c *Colors) SetRole(a ColorAttr, col *color.Color) *Colors {
	col.EnableColor()
	c.roles[a] = col
	return c
}

func (c *Colors) Color(t ir.Type, a ColorAttr, s string) string {
	var col *color.Color
	if a == ValueColor {
		col = c.values[t]
	} else {
		col = c.roles[a]
	}
	if col == nil {
		return s
	}
	return col.Sprint(s)
}
