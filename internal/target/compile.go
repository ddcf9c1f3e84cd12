// Package target loads and validates target/ABI descriptions. A target
// description is a CUE file naming the target and its per-category
// pointer-authentication schemas; it is compiled once at session start
// and the resulting abi.Target is read-only for the rest of the build.
//
// User-level schema problems (unknown keys, illegal discrimination for
// a category) are diagnosed here as ordinary validation errors. By the
// time a schema reaches the signing core, those states are asserted
// impossible.
package target

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/sigil/internal/abi"
)

// CompileTarget parses a CUE value into an abi.Target.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The CUE value should be the target struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`target: { name: "arm64e", ... }`)
//	tgt, err := CompileTarget(v.LookupPath(cue.ParsePath("target")))
func CompileTarget(v cue.Value) (*abi.Target, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	tgt := &abi.Target{}

	// Parse name (required)
	nameVal := v.LookupPath(cue.ParsePath("name"))
	if !nameVal.Exists() {
		return nil, &CompileError{
			Field:   "name",
			Message: "target name is required",
			Pos:     v.Pos(),
		}
	}
	name, err := nameVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	tgt.Name = name

	// Parse pointer_auth (optional - absent means no signing at all)
	paVal := v.LookupPath(cue.ParsePath("pointer_auth"))
	if !paVal.Exists() {
		return tgt, nil
	}

	fpVal := paVal.LookupPath(cue.ParsePath("function_pointers"))
	if fpVal.Exists() {
		schema, err := compileSchema(fpVal)
		if err != nil {
			return nil, err
		}
		tgt.PointerAuth.FunctionPointers = schema
	}

	return tgt, nil
}

// compileSchema parses one per-category signing schema.
func compileSchema(v cue.Value) (abi.Schema, error) {
	var schema abi.Schema

	enabledVal := v.LookupPath(cue.ParsePath("enabled"))
	if enabledVal.Exists() {
		enabled, err := enabledVal.Bool()
		if err != nil {
			return schema, formatCUEError(err)
		}
		schema.Enabled = enabled
	}

	keyVal := v.LookupPath(cue.ParsePath("key"))
	if keyVal.Exists() {
		name, err := keyVal.String()
		if err != nil {
			return schema, formatCUEError(err)
		}
		key, err := abi.ParseKey(name)
		if err != nil {
			return schema, &CompileError{
				Field:   "key",
				Message: err.Error(),
				Pos:     keyVal.Pos(),
			}
		}
		schema.Key = key
	} else if schema.Enabled {
		return schema, &CompileError{
			Field:   "key",
			Message: "key is required for an enabled schema",
			Pos:     v.Pos(),
		}
	}

	modeVal := v.LookupPath(cue.ParsePath("authentication_mode"))
	if modeVal.Exists() {
		name, err := modeVal.String()
		if err != nil {
			return schema, formatCUEError(err)
		}
		mode, err := abi.ParseAuthMode(name)
		if err != nil {
			return schema, &CompileError{
				Field:   "authentication_mode",
				Message: err.Error(),
				Pos:     modeVal.Pos(),
			}
		}
		schema.AuthenticationMode = mode
	} else if schema.Enabled {
		return schema, &CompileError{
			Field:   "authentication_mode",
			Message: "authentication_mode is required for an enabled schema",
			Pos:     v.Pos(),
		}
	}

	for field, dst := range map[string]*bool{
		"address_discriminated": &schema.AddressDiscriminated,
		"other_discrimination":  &schema.OtherDiscrimination,
	} {
		fv := v.LookupPath(cue.ParsePath(field))
		if !fv.Exists() {
			continue
		}
		b, err := fv.Bool()
		if err != nil {
			return schema, formatCUEError(err)
		}
		*dst = b
	}

	return schema, nil
}

// CompileError represents a target compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// Return first error with position info
	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
