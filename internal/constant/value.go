// Package constant provides the canonical constant model shared by the
// backend: symbol addresses, integers, casts, and signed pointers, plus
// the deduplicating pool that guarantees one canonical instance per
// structural value.
//
// Constants are immutable after construction. Structural identity is
// computed via RFC 8785 canonical JSON and SHA-256 with domain
// separation (see fingerprint.go), never via Go pointer identity.
package constant

import (
	"fmt"

	"github.com/roach88/sigil/internal/types"
)

// Value is a sealed interface representing a compile-time constant.
// Only Symbol, Integer, Null, Bitcast, and SignedPointer implement it.
type Value interface {
	// Type returns the representation type of the constant.
	Type() types.Type

	// String returns a human-readable rendering for diagnostics.
	String() string

	aValue() // Sealed - only these types implement it
}

// Symbol is the address of a named function or global at a given
// representation type.
type Symbol struct {
	Name string
	Typ  types.Type
}

func (*Symbol) aValue() {}

// NewSymbol creates a symbol-address constant.
func NewSymbol(name string, typ types.Type) *Symbol {
	return &Symbol{Name: name, Typ: typ}
}

// Type implements Value.
func (s *Symbol) Type() types.Type { return s.Typ }

// String implements Value.
func (s *Symbol) String() string { return "@" + s.Name }

// Integer is an integer constant with an explicit bit width.
type Integer struct {
	Bits  int
	Value int64
}

func (*Integer) aValue() {}

// NewInteger creates an integer constant of the given width.
func NewInteger(bits int, value int64) *Integer {
	return &Integer{Bits: bits, Value: value}
}

// Type implements Value.
func (i *Integer) Type() types.Type {
	switch i.Bits {
	case 8:
		return types.Typ[types.Int8]
	case 16:
		return types.Typ[types.Int16]
	case 32:
		return types.Typ[types.Int32]
	default:
		return types.Typ[types.Int64]
	}
}

// String implements Value.
func (i *Integer) String() string { return fmt.Sprintf("i%d %d", i.Bits, i.Value) }

// Null is the null constant of the generic pointer representation.
type Null struct{}

func (*Null) aValue() {}

// NullPtr returns the generic null pointer constant.
func NullPtr() *Null { return &Null{} }

// Type implements Value.
func (*Null) Type() types.Type { return types.Typ[types.Ptr] }

// String implements Value.
func (*Null) String() string { return "null" }

// Bitcast wraps a constant in a representation cast. Casts carry no
// signature-relevant structure; StripPointerCasts removes them.
type Bitcast struct {
	To types.Type
	X  Value
}

func (*Bitcast) aValue() {}

// NewBitcast wraps v in a cast to the given representation type.
func NewBitcast(to types.Type, v Value) *Bitcast {
	return &Bitcast{To: to, X: v}
}

// Type implements Value.
func (b *Bitcast) Type() types.Type { return b.To }

// String implements Value.
func (b *Bitcast) String() string {
	return fmt.Sprintf("bitcast(%s to %s)", b.X, b.To)
}

// SignedPointer is a pointer constant carrying a pointer-authentication
// signature. Instances are created only by Pool.Intern, which guarantees
// that two structurally equal signed pointers are the same Go value.
type SignedPointer struct {
	Pointer              Value    // cast-stripped base pointer
	Key                  int      // hardware key number
	IntegerDiscriminator *Integer // always 64-bit, 0 when absent
	AddressDiscriminator Value    // generic-pointer-typed, null when absent

	fingerprint string // content-addressed identity, set by the pool
}

func (*SignedPointer) aValue() {}

// Type implements Value. A signed pointer has the generic pointer
// representation regardless of what it points to.
func (*SignedPointer) Type() types.Type { return types.Typ[types.Ptr] }

// String implements Value.
func (p *SignedPointer) String() string {
	return fmt.Sprintf("ptrauth(%s, key %d, %s, %s)",
		p.Pointer, p.Key, p.IntegerDiscriminator, p.AddressDiscriminator)
}

// Fingerprint returns the content-addressed identity of the signed
// pointer, as computed when it was interned.
func (p *SignedPointer) Fingerprint() string { return p.fingerprint }

// StripPointerCasts unwraps all representation-cast wrappers and returns
// the underlying constant. Signing records only the stripped value, so a
// signature never depends on how the pointer was obtained.
func StripPointerCasts(v Value) Value {
	for {
		c, ok := v.(*Bitcast)
		if !ok {
			return v
		}
		v = c.X
	}
}
