package abi

import "fmt"

// Key identifies a hardware pointer-authentication signing key.
// Values match the ARMv8.3 key numbering so they can be emitted
// directly into ptrauth constant operands.
type Key int

const (
	KeyASIA Key = 0 // instruction key A
	KeyASIB Key = 1 // instruction key B
	KeyASDA Key = 2 // data key A
	KeyASDB Key = 3 // data key B
)

// ValidKeys defines the allowed key values.
var ValidKeys = []Key{KeyASIA, KeyASIB, KeyASDA, KeyASDB}

// String implements fmt.Stringer.
func (k Key) String() string {
	switch k {
	case KeyASIA:
		return "asia"
	case KeyASIB:
		return "asib"
	case KeyASDA:
		return "asda"
	case KeyASDB:
		return "asdb"
	default:
		return fmt.Sprintf("key(%d)", int(k))
	}
}

// Valid reports whether k is one of the four hardware keys.
func (k Key) Valid() bool {
	return k >= KeyASIA && k <= KeyASDB
}

// ParseKey parses a key name from a target description.
func ParseKey(s string) (Key, error) {
	switch s {
	case "asia":
		return KeyASIA, nil
	case "asib":
		return KeyASIB, nil
	case "asda":
		return KeyASDA, nil
	case "asdb":
		return KeyASDB, nil
	default:
		return 0, fmt.Errorf("unknown signing key %q: must be one of asia, asib, asda, asdb", s)
	}
}

// AuthMode governs how a signed pointer is treated at its use site.
type AuthMode string

const (
	// ModeSign signs the pointer but performs no authentication on use.
	ModeSign AuthMode = "sign"
	// ModeSignAndAuth signs the pointer and authenticates it on use.
	ModeSignAndAuth AuthMode = "sign-and-auth"
	// ModeStrip removes the signature on use without authenticating.
	ModeStrip AuthMode = "strip"
)

// ValidAuthModes defines the allowed authentication modes.
var ValidAuthModes = []AuthMode{ModeSign, ModeSignAndAuth, ModeStrip}

// Valid reports whether m is a known authentication mode.
func (m AuthMode) Valid() bool {
	for _, v := range ValidAuthModes {
		if m == v {
			return true
		}
	}
	return false
}

// ParseAuthMode parses a mode string from a target description.
func ParseAuthMode(s string) (AuthMode, error) {
	m := AuthMode(s)
	if !m.Valid() {
		return "", fmt.Errorf("unknown authentication mode %q: must be one of %v", s, ValidAuthModes)
	}
	return m, nil
}

// Schema describes whether and how one pointer category must be signed.
// A Schema is immutable once built from the target description.
type Schema struct {
	Enabled              bool     `json:"enabled"`
	Key                  Key      `json:"key"`
	AuthenticationMode   AuthMode `json:"authentication_mode"`
	AddressDiscriminated bool     `json:"address_discriminated"`
	OtherDiscrimination  bool     `json:"other_discrimination"`
}

// PointerAuthOptions holds the per-category signing schemas for a
// compilation session. Set once when the target description is loaded
// and never mutated afterwards, so concurrent resolution needs no
// coordination.
type PointerAuthOptions struct {
	FunctionPointers Schema `json:"function_pointers"`
}

// Target is the resolved target/ABI description for a session.
type Target struct {
	Name        string             `json:"name"`
	PointerAuth PointerAuthOptions `json:"pointer_auth"`
}
