// Package ptrauth resolves ABI-mandated pointer-authentication signing
// for function pointers and materializes canonical signed-pointer
// constants. It encodes the ABI contract for the function-pointer
// category: no address discrimination, no auxiliary discrimination.
// Violations of that contract are compiler bugs and abort immediately;
// they are never surfaced as recoverable errors.
package ptrauth

import (
	"fmt"

	"github.com/roach88/sigil/internal/abi"
	"github.com/roach88/sigil/internal/constant"
)

// AuthInfo is the resolved signing descriptor for one pointer. The zero
// value is the "no authentication" sentinel; Enabled reports false for
// it. AuthInfo is created per resolution call and never cached.
type AuthInfo struct {
	Key               abi.Key
	Mode              abi.AuthMode
	IsaPointer        bool
	AuthenticatesNull bool
	Discriminator     constant.Value // nil when no discriminator applies

	enabled bool
}

// NewAuthInfo builds an enabled signing descriptor.
func NewAuthInfo(key abi.Key, mode abi.AuthMode, isaPointer, authenticatesNull bool, discriminator constant.Value) AuthInfo {
	return AuthInfo{
		Key:               key,
		Mode:              mode,
		IsaPointer:        isaPointer,
		AuthenticatesNull: authenticatesNull,
		Discriminator:     discriminator,
		enabled:           true,
	}
}

// Enabled reports whether authentication was requested at all.
func (a AuthInfo) Enabled() bool { return a.enabled }

// bug aborts compilation on an internal contract violation. A malformed
// ABI description or a mistyped discriminator is a build-system bug,
// not a diagnosable input error, so there is no recoverable path.
func bug(format string, args ...any) {
	panic(fmt.Sprintf("ptrauth: internal error: "+format, args...))
}
