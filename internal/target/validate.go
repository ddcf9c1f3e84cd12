package target

import (
	"fmt"
	"strings"

	"github.com/roach88/sigil/internal/abi"
)

// ValidationError represents a target schema validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate validates a compiled target description against the ABI
// contract rules. Returns all errors found (does not fail-fast).
//
// The function-pointer discrimination rules are enforced here as
// ordinary user-facing diagnostics. The signing core re-checks them as
// hard assertions: a schema that passes this validator and still trips
// the core's checks indicates a compiler bug, not bad input.
func Validate(tgt *abi.Target) []ValidationError {
	var errs []ValidationError

	// E201: name is required
	if strings.TrimSpace(tgt.Name) == "" {
		errs = append(errs, ValidationError{
			Field:   "name",
			Message: "target name is required and must be non-empty",
			Code:    ErrCodeMissingName,
		})
	}

	errs = append(errs, validateFunctionPointerSchema(tgt.PointerAuth.FunctionPointers)...)
	return errs
}

func validateFunctionPointerSchema(schema abi.Schema) []ValidationError {
	if !schema.Enabled {
		return nil
	}

	var errs []ValidationError

	// E202: key must be one of the four hardware keys
	if !schema.Key.Valid() {
		errs = append(errs, ValidationError{
			Field:   "function_pointers.key",
			Message: fmt.Sprintf("invalid signing key %d: must be one of %v", int(schema.Key), abi.ValidKeys),
			Code:    ErrCodeInvalidKey,
		})
	}

	// E203: authentication mode must be known
	if !schema.AuthenticationMode.Valid() {
		errs = append(errs, ValidationError{
			Field:   "function_pointers.authentication_mode",
			Message: fmt.Sprintf("invalid authentication mode %q: must be one of %v", string(schema.AuthenticationMode), abi.ValidAuthModes),
			Code:    ErrCodeInvalidMode,
		})
	}

	// E204: the storage location of a function-pointer constant is not
	// known at signing time, so address discrimination is impossible
	if schema.AddressDiscriminated {
		errs = append(errs, ValidationError{
			Field:   "function_pointers.address_discriminated",
			Message: "function pointers cannot use address-specific discrimination",
			Code:    ErrCodeAddressDisc,
		})
	}

	// E205: no auxiliary discrimination is supported for this category
	if schema.OtherDiscrimination {
		errs = append(errs, ValidationError{
			Field:   "function_pointers.other_discrimination",
			Message: "function pointers do not support auxiliary discrimination",
			Code:    ErrCodeOtherDisc,
		})
	}

	return errs
}
