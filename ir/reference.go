package ir

// SubstitutionExpression is the path of a ${...} substitution and whether
// it is optional (${?...}).
type SubstitutionExpression struct {
	path     *Path
	optional bool
}

func NewSubstitutionExpression(p *Path, optional bool) SubstitutionExpression {
	return SubstitutionExpression{path: p, optional: optional}
}

func (e SubstitutionExpression) Path() *Path    { return e.path }
func (e SubstitutionExpression) Optional() bool { return e.optional }

func (e SubstitutionExpression) ChangePath(p *Path) SubstitutionExpression {
	return SubstitutionExpression{path: p, optional: e.optional}
}

func (e SubstitutionExpression) Equal(other SubstitutionExpression) bool {
	return e.optional == other.optional && e.path.Equal(other.path)
}

func (e SubstitutionExpression) String() string {
	if e.optional {
		return "${?" + e.path.Render() + "}"
	}
	return "${" + e.path.Render() + "}"
}

// Reference is an unresolved substitution.  The prefix length counts the
// leading keys of the path that were added by relativizing an included
// file; lookups that fail for the full path retry without them.
type Reference struct {
	base
	expr         SubstitutionExpression
	prefixLength int
}

func NewReference(o *Origin, expr SubstitutionExpression) *Reference {
	return &Reference{base: base{o}, expr: expr}
}

func (r *Reference) Type() Type                   { return UnresolvedType }
func (r *Reference) ResolveStatus() ResolveStatus { return Unresolved }
func (r *Reference) IgnoresFallbacks() bool       { return false }
func (r *Reference) UnmergedValues() []Value      { return []Value{r} }

func (r *Reference) Expression() SubstitutionExpression { return r.expr }
func (r *Reference) PrefixLength() int                  { return r.prefixLength }

func (r *Reference) WithOrigin(o *Origin) Value {
	return &Reference{base: base{o}, expr: r.expr, prefixLength: r.prefixLength}
}

func (r *Reference) Relativized(prefix *Path) Value {
	if prefix == nil {
		return r
	}
	return &Reference{
		base:         r.base,
		expr:         r.expr.ChangePath(r.expr.path.Prepend(prefix)),
		prefixLength: r.prefixLength + prefix.Len(),
	}
}

func (r *Reference) String() string { return r.expr.String() }
