package types

import (
	"fmt"
	"strings"
)

// Func represents a function signature.
type Func struct {
	typ
	params []Type
	result Type // nil for void
}

// NewFunc creates a new function type with the given parameter and
// result types. A nil result means the function returns nothing.
func NewFunc(params []Type, result Type) *Func {
	return &Func{params: params, result: result}
}

// NumParams returns the number of parameters.
func (f *Func) NumParams() int {
	return len(f.params)
}

// Param returns the type of parameter i.
func (f *Func) Param(i int) Type {
	return f.params[i]
}

// Result returns the result type, or nil for void functions.
func (f *Func) Result() Type {
	return f.result
}

// Underlying implements Type.
func (f *Func) Underlying() Type {
	return f
}

// String implements Type.
func (f *Func) String() string {
	var sb strings.Builder
	sb.WriteString("func(")
	for i, p := range f.params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.String())
	}
	sb.WriteString(")")
	if f.result != nil {
		fmt.Fprintf(&sb, " %s", f.result)
	}
	return sb.String()
}

// Pointer represents a pointer type *Base.
type Pointer struct {
	typ
	base Type
}

// NewPointer creates a new pointer type with the given base type.
func NewPointer(base Type) *Pointer {
	return &Pointer{base: base}
}

// Base returns the pointed-to type.
func (p *Pointer) Base() Type {
	return p.base
}

// Underlying implements Type.
func (p *Pointer) Underlying() Type {
	return p
}

// String implements Type.
func (p *Pointer) String() string {
	return "*" + p.base.String()
}

// Ref represents a reference type &Base.
type Ref struct {
	typ
	base Type
}

// NewRef creates a new reference type with the given base type.
func NewRef(base Type) *Ref {
	return &Ref{base: base}
}

// Base returns the referenced type.
func (r *Ref) Base() Type {
	return r.base
}

// Underlying implements Type.
func (r *Ref) Underlying() Type {
	return r
}

// String implements Type.
func (r *Ref) String() string {
	return "&" + r.base.String()
}
