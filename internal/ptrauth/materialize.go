package ptrauth

import (
	"github.com/roach88/sigil/internal/abi"
	"github.com/roach88/sigil/internal/constant"
	"github.com/roach88/sigil/internal/types"
)

// DeclRef identifies a function declaration whose address is being
// materialized.
type DeclRef struct {
	Name string
	Type types.Type // the declaration's semantic function type
}

// RawPointerSource supplies the unsigned function-pointer constant for
// a declaration at a requested representation type. It is an external
// collaborator: the materializer queries it but never mutates it.
type RawPointerSource interface {
	RawFunctionPointer(decl DeclRef, at types.Type) constant.Value
}

// Materializer turns raw function-pointer constants into their
// ABI-mandated signed form. All methods are reentrant: the schema
// options are immutable for the session and the pool interns
// atomically, so compilation workers may share one Materializer.
type Materializer struct {
	Auth *abi.PointerAuthOptions
	Pool *constant.Pool
	Raw  RawPointerSource // may be nil if FunctionPointerFor is unused
}

// ConstantSignedPointer builds the canonical signed-pointer constant
// for rawPointer under the given key.
//
// Defaulting rules: a nil storageAddress becomes the generic null
// pointer, a nil otherDiscriminator becomes the 64-bit integer 0. An
// explicit storageAddress must use the generic pointer representation
// and an explicit otherDiscriminator must be exactly 64 bits wide;
// either mismatch is a contract failure.
//
// Signing is referentially transparent: equal inputs always yield the
// identical interned constant.
func (m *Materializer) ConstantSignedPointer(rawPointer constant.Value, key abi.Key, storageAddress, otherDiscriminator constant.Value) constant.Value {
	stripped := constant.StripPointerCasts(rawPointer)

	var addrDisc constant.Value
	if storageAddress != nil {
		if !types.Identical(storageAddress.Type(), types.Typ[types.Ptr]) {
			bug("storage address must use the generic pointer representation, got %s", storageAddress.Type())
		}
		addrDisc = storageAddress
	} else {
		addrDisc = constant.NullPtr()
	}

	var intDisc *constant.Integer
	if otherDiscriminator != nil {
		i, ok := otherDiscriminator.(*constant.Integer)
		if !ok || i.Bits != 64 {
			bug("discriminator must be a 64-bit integer constant, got %s", otherDiscriminator)
		}
		intDisc = i
	} else {
		intDisc = constant.NewInteger(64, 0)
	}

	signed, err := m.Pool.Intern(stripped, int(key), intDisc, addrDisc)
	if err != nil {
		bug("interning signed pointer: %v", err)
	}
	return signed
}

// FunctionPointer signs rawPointer with the ABI rules for functionType,
// if the function-pointer category requests signing, and returns the
// pointer unchanged otherwise. Callers must have classified the value
// already: functionType must be a function, function-pointer, or
// function-reference type.
func (m *Materializer) FunctionPointer(rawPointer constant.Value, functionType types.Type) constant.Value {
	if !types.IsFunctionKind(functionType) {
		bug("cannot sign %s as a function pointer", functionType)
	}

	if info := FunctionPointerAuthInfo(m.Auth, functionType); info.Enabled() {
		return m.ConstantSignedPointer(rawPointer, info.Key, nil, info.Discriminator)
	}
	return rawPointer
}

// FunctionPointerFor resolves decl's semantic function type, obtains
// the raw (possibly cast) function-pointer constant at the requested
// representation type, and signs it if required.
func (m *Materializer) FunctionPointerFor(decl DeclRef, at types.Type) constant.Value {
	raw := m.Raw.RawFunctionPointer(decl, at)
	return m.FunctionPointer(raw, decl.Type)
}
