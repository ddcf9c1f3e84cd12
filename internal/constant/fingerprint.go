package constant

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefix for content-addressed identity of signed pointers.
// Version suffix enables future algorithm migration.
const DomainSignedPointer = "sigil/signed-pointer/v1"

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// canonicalValue describes a constant as a canonical-JSON-compatible
// structure. The description covers exactly the structure that is
// signature-relevant, so equal constants always fingerprint equal.
func canonicalValue(v Value) (map[string]any, error) {
	switch c := v.(type) {
	case *Symbol:
		return map[string]any{
			"kind": "symbol",
			"name": c.Name,
			"type": c.Typ.String(),
		}, nil
	case *Integer:
		return map[string]any{
			"kind":  "int",
			"bits":  c.Bits,
			"value": c.Value,
		}, nil
	case *Null:
		return map[string]any{
			"kind": "null",
		}, nil
	case *Bitcast:
		inner, err := canonicalValue(c.X)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"kind": "bitcast",
			"to":   c.To.String(),
			"x":    inner,
		}, nil
	case *SignedPointer:
		return signedPointerDescription(c.Pointer, c.Key, c.IntegerDiscriminator, c.AddressDiscriminator)
	default:
		return nil, fmt.Errorf("unsupported constant for canonical description: %T", v)
	}
}

func signedPointerDescription(ptr Value, key int, intDisc *Integer, addrDisc Value) (map[string]any, error) {
	base, err := canonicalValue(ptr)
	if err != nil {
		return nil, fmt.Errorf("base pointer: %w", err)
	}
	addr, err := canonicalValue(addrDisc)
	if err != nil {
		return nil, fmt.Errorf("address discriminator: %w", err)
	}
	return map[string]any{
		"kind":                  "ptrauth",
		"pointer":               base,
		"key":                   key,
		"integer_discriminator": intDisc.Value,
		"address_discriminator": addr,
	}, nil
}

// FingerprintSignedPointer computes the content-addressed identity of
// the signed-pointer tuple. The pool uses it as the interning key;
// downstream stages use it as a stable cross-unit identity.
func FingerprintSignedPointer(ptr Value, key int, intDisc *Integer, addrDisc Value) (string, error) {
	desc, err := signedPointerDescription(ptr, key, intDisc, addrDisc)
	if err != nil {
		return "", fmt.Errorf("fingerprint signed pointer: %w", err)
	}
	canonical, err := marshalCanonical(desc)
	if err != nil {
		return "", fmt.Errorf("fingerprint signed pointer: %w", err)
	}
	return hashWithDomain(DomainSignedPointer, canonical), nil
}

// MustFingerprintSignedPointer is like FingerprintSignedPointer but
// panics on error. Use only in tests or when inputs are known valid.
func MustFingerprintSignedPointer(ptr Value, key int, intDisc *Integer, addrDisc Value) string {
	fp, err := FingerprintSignedPointer(ptr, key, intDisc, addrDisc)
	if err != nil {
		panic(err)
	}
	return fp
}
