package target

import (
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/sigil/internal/abi"
)

// Error code constants - unified across all commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeNoTarget    = "E007" // No target struct in description

	// Schema validation errors
	ErrCodeMissingName = "E201" // Target name missing/empty
	ErrCodeInvalidKey  = "E202" // Unknown signing key
	ErrCodeInvalidMode = "E203" // Unknown authentication mode
	ErrCodeAddressDisc = "E204" // Address discrimination on function pointers
	ErrCodeOtherDisc   = "E205" // Auxiliary discrimination on function pointers
)

// LoadError represents an error that occurred during target loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadResult contains a loaded target description plus load metadata.
type LoadResult struct {
	Target    *abi.Target
	CUEValue  cue.Value // the raw CUE value for additional processing
	FileCount int       // number of CUE files found
}

// Load reads the CUE target description from a directory, compiles it,
// and validates the pointer-authentication schemas. Validation errors
// are collected, not fail-fast, so a user sees every problem at once.
func Load(dir string) (*LoadResult, []error) {
	// Verify directory exists
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("target directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing target directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	// Find CUE files
	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(cueFiles) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}}
	}

	// Load CUE instances
	ctx := cuecontext.New()
	cfg := &load.Config{Dir: dir, Package: "_"}
	instances := load.Instances([]string{"."}, cfg)
	if len(instances) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}}
	}

	inst := instances[0]
	if inst.Err != nil {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, []error{&LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}}
	}

	result := &LoadResult{
		CUEValue:  value,
		FileCount: len(cueFiles),
	}

	targetVal := value.LookupPath(cue.ParsePath("target"))
	if !targetVal.Exists() {
		return result, []error{&LoadError{Code: ErrCodeNoTarget, Message: "no target struct found in description"}}
	}

	tgt, compileErr := CompileTarget(targetVal)
	if compileErr != nil {
		return result, []error{convertCompileError(compileErr)}
	}
	result.Target = tgt

	var errs []error
	for _, verr := range Validate(tgt) {
		errs = append(errs, verr)
	}
	return result, errs
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// convertCompileError converts a compile error to a LoadError with position info.
func convertCompileError(err error) *LoadError {
	if compileErr, ok := err.(*CompileError); ok {
		return &LoadError{
			Code:    mapFieldToErrorCode(compileErr.Field),
			Message: compileErr.Message,
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{
		Code:    ErrCodeGeneric,
		Message: err.Error(),
	}
}

// mapFieldToErrorCode maps a compile error field to an error code.
func mapFieldToErrorCode(field string) string {
	switch field {
	case "name":
		return ErrCodeMissingName
	case "key":
		return ErrCodeInvalidKey
	case "authentication_mode":
		return ErrCodeInvalidMode
	default:
		return ErrCodeGeneric
	}
}
