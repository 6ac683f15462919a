package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pavcheck/internal/store"
)

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "import <export.yaml>",
		Short:         "Import certificates from a YAML export",
		Long:          "Import certificates from a YAML export into the database.\n\nThe document is schema-validated before any row is written. Keys already\npresent in the database are left untouched.",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(rootOpts, cmd, args[0])
		},
	}

	return cmd
}

func runImport(opts *RootOptions, cmd *cobra.Command, path string) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	f, err := os.Open(path)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "open import file", err)
	}
	defer f.Close()

	st, err := store.Open(opts.DBPath)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "open store", err)
	}
	defer st.Close()

	if err := st.Import(cmd.Context(), f); err != nil {
		_ = formatter.Error(ErrCodeDocument, err.Error(), nil)
		// Malformed documents are validation failures, not command errors.
		return WrapExitError(ExitFailure, "import", err)
	}

	return formatter.Success(fmt.Sprintf("imported %s", path))
}
