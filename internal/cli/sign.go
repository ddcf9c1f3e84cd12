package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/roach88/sigil/internal/abi"
	"github.com/roach88/sigil/internal/constant"
	"github.com/roach88/sigil/internal/ptrauth"
	"github.com/roach88/sigil/internal/store"
	"github.com/roach88/sigil/internal/target"
	"github.com/roach88/sigil/internal/types"
)

// SignOptions holds flags for the sign command.
type SignOptions struct {
	*RootOptions
	Record string // signing-record database path
	Output string // output file path
}

// SignDecision is the materialization outcome for one symbol.
type SignDecision struct {
	Symbol               string `json:"symbol"`
	Kind                 string `json:"kind"`
	Signed               bool   `json:"signed"`
	Key                  string `json:"key,omitempty"`
	Mode                 string `json:"mode,omitempty"`
	IntegerDiscriminator int64  `json:"integer_discriminator,omitempty"`
	AddressDiscriminator string `json:"address_discriminator,omitempty"`
	Fingerprint          string `json:"fingerprint,omitempty"`
}

// SignResult holds the signing decisions for one unit.
type SignResult struct {
	Target    string         `json:"target"`
	Unit      string         `json:"unit"`
	BuildID   string         `json:"build_id,omitempty"`
	Decisions []SignDecision `json:"decisions"`
}

// NewSignCommand creates the sign command.
func NewSignCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SignOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sign <target-dir> <unit.yaml>",
		Short: "Materialize signed function pointers for a unit",
		Long: `Materialize the signed function-pointer constants for every symbol
in a compilation-unit manifest, under the target's ABI rules.

For each symbol the command reports whether the target requests
signing and, if so, the key, mode, discriminators, and the canonical
fingerprint of the interned signed-pointer constant.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSign(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Record, "record", "", "append signing records to this database")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runSign(opts *SignOptions, targetDir, unitPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	loadResult, loadErrors := target.Load(targetDir)
	if len(loadErrors) > 0 {
		var loadErr *target.LoadError
		if errors.As(loadErrors[0], &loadErr) {
			return outputSignError(formatter, loadErr.Code, loadErr.Message)
		}
		return outputSignError(formatter, target.ErrCodeGeneric, loadErrors[0].Error())
	}
	tgt := loadResult.Target

	manifest, err := LoadUnitManifest(unitPath)
	if err != nil {
		return outputSignError(formatter, target.ErrCodeGeneric, err.Error())
	}

	formatter.VerboseLog("Target: %s", tgt.Name)
	formatter.VerboseLog("Unit: %s (%d symbol(s))", manifest.Unit.Name, len(manifest.Unit.Symbols))

	m := &ptrauth.Materializer{
		Auth: &tgt.PointerAuth,
		Pool: constant.NewPool(),
		Raw:  rawSymbolSource{},
	}

	result := &SignResult{
		Target: tgt.Name,
		Unit:   manifest.Unit.Name,
	}
	for _, sym := range manifest.Unit.Symbols {
		result.Decisions = append(result.Decisions, materializeSymbol(m, sym))
	}

	if opts.Record != "" {
		buildID := uuid.Must(uuid.NewV7()).String()
		result.BuildID = buildID
		if err := recordDecisions(cmd, opts.Record, buildID, result.Decisions); err != nil {
			return outputSignError(formatter, target.ErrCodeGeneric, err.Error())
		}
		formatter.VerboseLog("Recorded build %s to %s", buildID, opts.Record)
	}

	if opts.Output != "" {
		if err := writeResultToFile(result, opts.Output); err != nil {
			return outputSignError(formatter, target.ErrCodeGeneric, fmt.Sprintf("writing output file: %v", err))
		}
	}

	return outputSignSuccess(formatter, result)
}

// materializeSymbol runs one symbol through the materializer and
// flattens the outcome for output.
func materializeSymbol(m *ptrauth.Materializer, sym UnitSymbol) SignDecision {
	declType, err := symbolType(sym.Kind)
	if err != nil {
		// Manifest validation already rejected unknown kinds.
		panic(err)
	}
	decl := ptrauth.DeclRef{Name: sym.Name, Type: declType}

	decision := SignDecision{Symbol: sym.Name, Kind: sym.Kind}

	v := m.FunctionPointerFor(decl, types.Typ[types.Ptr])
	signed, ok := v.(*constant.SignedPointer)
	if !ok {
		return decision
	}

	info := ptrauth.FunctionPointerAuthInfo(m.Auth, declType)
	decision.Signed = true
	decision.Key = info.Key.String()
	decision.Mode = string(info.Mode)
	decision.IntegerDiscriminator = signed.IntegerDiscriminator.Value
	decision.AddressDiscriminator = signed.AddressDiscriminator.String()
	decision.Fingerprint = signed.Fingerprint()
	return decision
}

// rawSymbolSource supplies raw function-pointer constants for manifest
// symbols: the symbol address at its semantic type, cast to the
// requested representation when they differ.
type rawSymbolSource struct{}

func (rawSymbolSource) RawFunctionPointer(decl ptrauth.DeclRef, at types.Type) constant.Value {
	sym := constant.NewSymbol(decl.Name, decl.Type)
	if types.Identical(at, decl.Type) {
		return sym
	}
	return constant.NewBitcast(at, sym)
}

// recordDecisions appends the signed decisions to the signing-record store.
func recordDecisions(cmd *cobra.Command, path, buildID string, decisions []SignDecision) error {
	s, err := store.Open(path)
	if err != nil {
		return fmt.Errorf("opening record store: %w", err)
	}
	defer s.Close()

	seq := int64(0)
	for _, d := range decisions {
		if !d.Signed {
			continue
		}
		key, err := keyNumber(d.Key)
		if err != nil {
			return err
		}
		rec := store.Record{
			ID:                   d.Fingerprint,
			BuildID:              buildID,
			Symbol:               d.Symbol,
			Key:                  key,
			IntegerDiscriminator: d.IntegerDiscriminator,
			AddressDiscriminator: d.AddressDiscriminator,
			Seq:                  seq,
		}
		if err := s.WriteRecord(cmd.Context(), rec); err != nil {
			return err
		}
		seq++
	}
	return nil
}

// keyNumber converts a key name back to its hardware number for storage.
func keyNumber(name string) (int, error) {
	k, err := abi.ParseKey(name)
	if err != nil {
		return 0, err
	}
	return int(k), nil
}

// writeResultToFile writes the sign result as indented JSON.
func writeResultToFile(result *SignResult, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// outputSignError outputs a command-level sign error.
func outputSignError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputSignSuccess outputs the signing decisions.
func outputSignSuccess(formatter *OutputFormatter, result *SignResult) error {
	if formatter.Format == "json" {
		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(CLIResponse{
			Status: "ok",
			Data:   result,
		})
	}

	signedCount := 0
	for _, d := range result.Decisions {
		if d.Signed {
			signedCount++
		}
	}

	fmt.Fprintf(formatter.Writer, "✓ Signed %d of %d symbol(s) for %s\n", signedCount, len(result.Decisions), result.Target)
	fmt.Fprintln(formatter.Writer)
	for _, d := range result.Decisions {
		if d.Signed {
			fmt.Fprintf(formatter.Writer, "  %s (%s): key %s, mode %s, disc %d, addr %s\n",
				d.Symbol, d.Kind, d.Key, d.Mode, d.IntegerDiscriminator, d.AddressDiscriminator)
			fmt.Fprintf(formatter.Writer, "    %s\n", d.Fingerprint)
		} else {
			fmt.Fprintf(formatter.Writer, "  %s (%s): raw\n", d.Symbol, d.Kind)
		}
	}
	return nil
}
