// Package types implements the structural type model consumed by the
// signing core. It carries just enough shape to classify the values the
// backend materializes: basic types, function signatures, and the
// pointer/reference representations a function address can travel in.
package types

// Type is the interface implemented by all types.
type Type interface {
	// Underlying returns the underlying type. For all types in this
	// package, that is the receiver itself.
	Underlying() Type

	// String returns a human-readable representation of the type.
	String() string

	// aType is a marker method to restrict implementations to this package.
	aType()
}

// typ is a base struct for all type implementations.
type typ struct{}

func (typ) aType() {}

// BasicKind describes the kind of basic type.
type BasicKind int

const (
	Invalid BasicKind = iota // invalid type

	Void
	Bool
	Int8
	Int16
	Int32
	Int64

	// Ptr is the target's generic, unqualified pointer representation.
	// Address-like constants that do not track a pointee use it.
	Ptr
)

// Basic represents a basic type.
type Basic struct {
	typ
	kind BasicKind
	name string
}

// Kind returns the kind of the basic type.
func (b *Basic) Kind() BasicKind {
	return b.kind
}

// Underlying implements Type.
func (b *Basic) Underlying() Type {
	return b
}

// String implements Type.
func (b *Basic) String() string {
	return b.name
}

// Typ holds the predeclared basic types, indexed by BasicKind.
// Typ[Invalid] is nil, representing an invalid type.
var Typ = []*Basic{
	Invalid: nil,
	Void:    {kind: Void, name: "void"},
	Bool:    {kind: Bool, name: "bool"},
	Int8:    {kind: Int8, name: "i8"},
	Int16:   {kind: Int16, name: "i16"},
	Int32:   {kind: Int32, name: "i32"},
	Int64:   {kind: Int64, name: "i64"},
	Ptr:     {kind: Ptr, name: "ptr"},
}
