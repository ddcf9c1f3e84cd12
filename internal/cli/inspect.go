package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/sigil/internal/store"
	"github.com/roach88/sigil/internal/target"
)

// InspectOptions holds flags for the inspect command.
type InspectOptions struct {
	*RootOptions
	Symbol string // filter to one symbol
}

// InspectResult holds the records read from a signing-record store.
type InspectResult struct {
	Database string         `json:"database"`
	Records  []store.Record `json:"records"`
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InspectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "inspect <db>",
		Short: "List recorded signing decisions",
		Long: `List the signed-pointer records in a signing-record database,
in deterministic order. Useful for comparing signing decisions across
builds: identical inputs must produce identical fingerprints.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Symbol, "symbol", "", "only show records for this symbol")

	return cmd
}

func runInspect(opts *InspectOptions, dbPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return outputInspectError(formatter, target.ErrCodeNotFound, fmt.Sprintf("database not found: %s", dbPath))
	}

	s, err := store.Open(dbPath)
	if err != nil {
		return outputInspectError(formatter, target.ErrCodeGeneric, err.Error())
	}
	defer s.Close()

	var records []store.Record
	if opts.Symbol != "" {
		records, err = s.ListRecordsForSymbol(cmd.Context(), opts.Symbol)
	} else {
		records, err = s.ListRecords(cmd.Context())
	}
	if err != nil {
		return outputInspectError(formatter, target.ErrCodeGeneric, err.Error())
	}

	result := &InspectResult{Database: dbPath, Records: records}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "%d signing record(s) in %s\n", len(records), dbPath)
	for _, rec := range records {
		fmt.Fprintf(formatter.Writer, "  [%d] %s: key %d, disc %d, addr %s\n",
			rec.Seq, rec.Symbol, rec.Key, rec.IntegerDiscriminator, rec.AddressDiscriminator)
		fmt.Fprintf(formatter.Writer, "      %s (build %s)\n", rec.ID, rec.BuildID)
	}
	return nil
}

// outputInspectError outputs a command-level inspect error.
func outputInspectError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}
