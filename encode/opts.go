package encode

type EncodeOption func(*EncState)

// EncodeJSON renders strict JSON: quoted keys and strings, no comments.
func EncodeJSON(v bool) EncodeOption {
	return func(es *EncState) { es.json = v }
}

// EncodeFormatted breaks lines and indents.  Unformatted output is a
// single line without comments.
func EncodeFormatted(v bool) EncodeOption {
	return func(es *EncState) { es.formatted = v }
}

// EncodeComments writes the comments attached to values in the source.
func EncodeComments(v bool) EncodeOption {
	return func(es *EncState) { es.comments = v }
}

// EncodeOriginComments writes where each value came from.
func EncodeOriginComments(v bool) EncodeOption {
	return func(es *EncState) { es.originComments = v }
}

func EncodeColors(c *Colors) EncodeOption {
	return func(es *EncState) { es.Color = c.Color }
}

func Indent(n int) EncodeOption {
	return func(es *EncState) { es.indent = n }
}
