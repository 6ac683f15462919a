package cli

import (
	"os"

	"github.com/spf13/cobra"

	"pavcheck/internal/store"
)

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		outPath string
		key     string
	)

	cmd := &cobra.Command{
		Use:           "export",
		Short:         "Export stored certificates as YAML",
		Long:          "Export the certificate database as a human-readable YAML document.\n\nThe export is lossless: importing it into an empty database reproduces\nthe original rows exactly.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(rootOpts, cmd, outPath, key)
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write to file instead of stdout")
	cmd.Flags().StringVar(&key, "key", "", "export a single certificate by key")

	return cmd
}

func runExport(opts *RootOptions, cmd *cobra.Command, outPath, key string) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := store.Open(opts.DBPath)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "open store", err)
	}
	defer st.Close()

	w := cmd.OutOrStdout()
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
			return WrapExitError(ExitCommandError, "create output file", err)
		}
		defer f.Close()
		w = f
	}

	if key != "" {
		err = st.ExportKey(cmd.Context(), w, key)
	} else {
		err = st.Export(cmd.Context(), w)
	}
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "export", err)
	}
	if outPath != "" {
		formatter.VerboseLog("Exported to %s", outPath)
	}
	return nil
}
