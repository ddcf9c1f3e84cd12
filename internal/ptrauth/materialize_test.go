package ptrauth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sigil/internal/abi"
	"github.com/roach88/sigil/internal/constant"
	"github.com/roach88/sigil/internal/testutil"
	"github.com/roach88/sigil/internal/types"
)

func newMaterializer(opts *abi.PointerAuthOptions) *Materializer {
	return &Materializer{Auth: opts, Pool: constant.NewPool()}
}

func funcSymbol(name string) *constant.Symbol {
	return constant.NewSymbol(name, types.NewFunc(nil, nil))
}

func TestSignDefaults(t *testing.T) {
	m := newMaterializer(testutil.UnsignedFunctionPointers())

	v := m.ConstantSignedPointer(funcSymbol("_f"), abi.KeyASIA, nil, nil)
	signed, ok := v.(*constant.SignedPointer)
	require.True(t, ok)

	assert.Equal(t, 0, signed.Key)
	assert.Equal(t, int64(0), signed.IntegerDiscriminator.Value)
	assert.Equal(t, 64, signed.IntegerDiscriminator.Bits)
	assert.IsType(t, &constant.Null{}, signed.AddressDiscriminator)
}

func TestSignExplicitStorageAddress(t *testing.T) {
	m := newMaterializer(testutil.UnsignedFunctionPointers())
	addr := constant.NewSymbol("_slot", types.Typ[types.Ptr])

	v := m.ConstantSignedPointer(funcSymbol("_f"), abi.KeyASIB, addr, nil)
	signed := v.(*constant.SignedPointer)

	assert.Same(t, constant.Value(addr), signed.AddressDiscriminator)
	assert.Equal(t, int64(0), signed.IntegerDiscriminator.Value)
}

func TestSignExplicitDiscriminator(t *testing.T) {
	m := newMaterializer(testutil.UnsignedFunctionPointers())
	disc := constant.NewInteger(64, 0xbeef)

	v := m.ConstantSignedPointer(funcSymbol("_f"), abi.KeyASIA, nil, disc)
	signed := v.(*constant.SignedPointer)

	assert.Equal(t, int64(0xbeef), signed.IntegerDiscriminator.Value)
	assert.IsType(t, &constant.Null{}, signed.AddressDiscriminator)
}

func TestSignWrongWidthDiscriminatorAborts(t *testing.T) {
	m := newMaterializer(testutil.UnsignedFunctionPointers())

	assert.Panics(t, func() {
		m.ConstantSignedPointer(funcSymbol("_f"), abi.KeyASIA, nil, constant.NewInteger(32, 1))
	})
}

func TestSignNonIntegerDiscriminatorAborts(t *testing.T) {
	m := newMaterializer(testutil.UnsignedFunctionPointers())

	assert.Panics(t, func() {
		m.ConstantSignedPointer(funcSymbol("_f"), abi.KeyASIA, nil, constant.NullPtr())
	})
}

func TestSignNonGenericStorageAddressAborts(t *testing.T) {
	m := newMaterializer(testutil.UnsignedFunctionPointers())
	badAddr := constant.NewSymbol("_slot", types.Typ[types.Int64])

	assert.Panics(t, func() {
		m.ConstantSignedPointer(funcSymbol("_f"), abi.KeyASIA, badAddr, nil)
	})
}

func TestSignDeduplicates(t *testing.T) {
	m := newMaterializer(testutil.UnsignedFunctionPointers())

	// Structurally equal inputs built independently.
	a := m.ConstantSignedPointer(funcSymbol("_f"), abi.KeyASIA, nil, nil)
	b := m.ConstantSignedPointer(funcSymbol("_f"), abi.KeyASIA, nil, nil)

	assert.Same(t, a, b)
	assert.Equal(t, 1, m.Pool.Len())
}

func TestSignStripsRedundantCasts(t *testing.T) {
	m := newMaterializer(testutil.UnsignedFunctionPointers())
	fn := types.NewFunc(nil, nil)
	sym := constant.NewSymbol("_f", fn)

	direct := m.ConstantSignedPointer(sym, abi.KeyASIA, nil, nil)

	wrapped := constant.NewBitcast(types.Typ[types.Ptr],
		constant.NewBitcast(types.NewPointer(fn), sym))
	viaCasts := m.ConstantSignedPointer(wrapped, abi.KeyASIA, nil, nil)

	assert.Same(t, direct, viaCasts)
	assert.Same(t, constant.Value(sym), viaCasts.(*constant.SignedPointer).Pointer)
}

func TestFunctionPointerDisabledReturnsRaw(t *testing.T) {
	m := newMaterializer(testutil.UnsignedFunctionPointers())
	sym := funcSymbol("_f")

	for _, typ := range functionKinds() {
		assert.Same(t, constant.Value(sym), m.FunctionPointer(sym, typ), "type %s", typ)
	}
	assert.Equal(t, 0, m.Pool.Len())
}

func TestFunctionPointerEnabledSigns(t *testing.T) {
	// Key 2 (asda), sign-only.
	m := newMaterializer(testutil.SignedFunctionPointers(abi.KeyASDA, abi.ModeSign))
	sym := funcSymbol("_f")

	v := m.FunctionPointer(sym, types.NewPointer(types.NewFunc(nil, nil)))
	signed, ok := v.(*constant.SignedPointer)
	require.True(t, ok)

	assert.Equal(t, 2, signed.Key)
	assert.IsType(t, &constant.Null{}, signed.AddressDiscriminator)
	assert.Equal(t, int64(0), signed.IntegerDiscriminator.Value)
}

func TestFunctionPointerNonFunctionTypeAborts(t *testing.T) {
	m := newMaterializer(testutil.SignedFunctionPointers(abi.KeyASIA, abi.ModeSign))

	for _, typ := range []types.Type{
		types.Typ[types.Int64],
		types.Typ[types.Ptr],
		types.NewPointer(types.Typ[types.Int32]),
	} {
		assert.Panics(t, func() { m.FunctionPointer(funcSymbol("_f"), typ) }, "type %s", typ)
	}
}

// castingSource returns the symbol address wrapped in a representation
// cast whenever the requested type differs from the declaration type.
type castingSource struct{}

func (castingSource) RawFunctionPointer(decl DeclRef, at types.Type) constant.Value {
	sym := constant.NewSymbol(decl.Name, decl.Type)
	if types.Identical(at, decl.Type) {
		return sym
	}
	return constant.NewBitcast(at, sym)
}

func TestFunctionPointerForSignsViaRawSource(t *testing.T) {
	m := newMaterializer(testutil.SignedFunctionPointers(abi.KeyASIA, abi.ModeSignAndAuth))
	m.Raw = castingSource{}

	fn := types.NewFunc(nil, nil)
	decl := DeclRef{Name: "_f", Type: fn}

	v := m.FunctionPointerFor(decl, types.Typ[types.Ptr])
	signed, ok := v.(*constant.SignedPointer)
	require.True(t, ok)

	// The cast applied by the source never reaches the signed constant.
	base, ok := signed.Pointer.(*constant.Symbol)
	require.True(t, ok)
	assert.Equal(t, "_f", base.Name)
}

func TestFunctionPointerForDisabledReturnsRaw(t *testing.T) {
	m := newMaterializer(testutil.UnsignedFunctionPointers())
	m.Raw = castingSource{}

	fn := types.NewFunc(nil, nil)
	decl := DeclRef{Name: "_f", Type: fn}

	v := m.FunctionPointerFor(decl, types.Typ[types.Ptr])
	cast, ok := v.(*constant.Bitcast)
	require.True(t, ok)
	assert.Equal(t, "_f", cast.X.(*constant.Symbol).Name)
}

func TestSigningSharedPoolAcrossUnits(t *testing.T) {
	// Two materializers sharing one pool model independent compilation
	// units; equal inputs must converge on one canonical constant.
	pool := constant.NewPool()
	opts := testutil.SignedFunctionPointers(abi.KeyASIA, abi.ModeSign)
	m1 := &Materializer{Auth: opts, Pool: pool}
	m2 := &Materializer{Auth: opts, Pool: pool}

	fn := types.NewFunc(nil, nil)
	a := m1.FunctionPointer(constant.NewSymbol("_f", fn), fn)
	b := m2.FunctionPointer(constant.NewSymbol("_f", fn), fn)

	assert.Same(t, a, b)
	assert.Equal(t, 1, pool.Len())
}
