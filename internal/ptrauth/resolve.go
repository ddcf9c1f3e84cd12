package ptrauth

import (
	"github.com/roach88/sigil/internal/abi"
	"github.com/roach88/sigil/internal/types"
)

// FunctionPointerAuthInfo resolves the signing schema for a pointer to
// the given function type. Returns the zero AuthInfo when the
// function-pointer category is disabled or absent.
//
// The function-pointer rule is monomorphic: the storage location of a
// standalone function-pointer constant is unknown at signing time, so
// the schema must not request address discrimination, and no auxiliary
// discrimination is supported for this category yet. Either flag on an
// enabled schema is a contract failure.
func FunctionPointerAuthInfo(opts *abi.PointerAuthOptions, t types.Type) AuthInfo {
	schema := opts.FunctionPointers
	if !schema.Enabled {
		return AuthInfo{}
	}

	if schema.AddressDiscriminated {
		bug("function pointers cannot use address-specific discrimination")
	}
	if schema.OtherDiscrimination {
		bug("function pointers don't support any discrimination yet")
	}

	return NewAuthInfo(schema.Key, schema.AuthenticationMode,
		false /* isaPointer */, false /* authenticatesNull */, nil /* discriminator */)
}
