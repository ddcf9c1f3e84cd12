package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/sigil/internal/target"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool                     `json:"valid"`
	Target string                   `json:"target,omitempty"`
	Errors []target.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <target-dir>",
		Short: "Validate a target description",
		Long: `Validate a CUE target/ABI description without signing anything.

Checks the pointer-authentication schemas against the ABI contract:
known keys, known authentication modes, and no discrimination forms
that are illegal for the function-pointer category.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, targetDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	result, loadErrors := target.Load(targetDir)

	// Handle load errors (directory not found, no files, etc.)
	if (result == nil || result.Target == nil) && len(loadErrors) > 0 {
		var loadErr *target.LoadError
		if errors.As(loadErrors[0], &loadErr) {
			return outputValidateError(formatter, loadErr.Code, loadErr.Message)
		}
		return outputValidateError(formatter, target.ErrCodeGeneric, loadErrors[0].Error())
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", result.FileCount, targetDir)
	formatter.VerboseLog("Validating target: %s", result.Target.Name)

	var validationErrors []target.ValidationError
	for _, err := range loadErrors {
		var verr target.ValidationError
		if errors.As(err, &verr) {
			validationErrors = append(validationErrors, verr)
			continue
		}
		validationErrors = append(validationErrors, target.ValidationError{
			Field:   "load",
			Message: err.Error(),
			Code:    target.ErrCodeGeneric,
		})
	}

	if len(validationErrors) > 0 {
		return outputValidationErrors(formatter, result.Target.Name, validationErrors)
	}

	return outputValidateSuccess(formatter, result.Target.Name)
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, targetName string) error {
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Target: targetName})
	}

	fmt.Fprintf(formatter.Writer, "✓ Target %s valid\n", targetName)
	return nil
}

// outputValidateError outputs a single load-level error.
func outputValidateError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	// Load errors are command-level errors (exit code 2)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, targetName string, errs []target.ValidationError) error {
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data: ValidationResult{
				Valid:  false,
				Target: targetName,
				Errors: errs,
			},
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		// Validation failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	// Text format
	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, err := range errs {
		fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n", err.Code, err.Field, err.Message)
	}

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
