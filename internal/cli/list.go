package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"pavcheck/internal/cert"
	"pavcheck/internal/store"
)

// ListEntry is one certificate in the list output.
type ListEntry struct {
	Key       string `json:"key"`
	N         int    `json:"n"`
	K         int    `json:"k"`
	Committee string `json:"committee"`
	Deviation string `json:"deviation"`
	Kind      string `json:"kind"`
	Claimed   string `json:"claimed,omitempty"`
}

// ListOutput is the list command's payload.
type ListOutput struct {
	Certificates []ListEntry `json:"certificates"`
	Farkas       []ListEntry `json:"farkas"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	var k int

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List stored certificates",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(rootOpts, cmd, k)
		},
	}

	cmd.Flags().IntVar(&k, "k", 0, "only list certificates for this committee size")

	return cmd
}

func runList(opts *RootOptions, cmd *cobra.Command, k int) error {
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

	ctx := cmd.Context()

	records, err := st.ListCertificates(ctx, k)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "list certificates", err)
	}
	farkasRows, err := st.ListFarkas(ctx, k)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "list farkas certificates", err)
	}

	out := ListOutput{Certificates: []ListEntry{}, Farkas: []ListEntry{}}
	for _, rec := range records {
		entry := ListEntry{
			Key:       rec.Key,
			N:         rec.N,
			K:         rec.K,
			Committee: rec.Committee.String(),
			Deviation: rec.Deviation.String(),
			Kind:      rec.Objective.Kind,
		}
		if rec.Claimed != nil {
			entry.Claimed = cert.FormatRat(rec.Claimed)
		}
		out.Certificates = append(out.Certificates, entry)
	}
	for _, fr := range farkasRows {
		out.Farkas = append(out.Farkas, ListEntry{
			Key:  fr.Key,
			N:    fr.N,
			K:    fr.K,
			Kind: "farkas",
		})
	}

	if formatter.Format == "json" {
		return formatter.Success(out)
	}

	for _, e := range out.Certificates {
		line := fmt.Sprintf("%s  n=%d k=%d W=%s T=%s %s", e.Key, e.N, e.K, e.Committee, e.Deviation, e.Kind)
		if e.Claimed != "" {
			line += "  claimed=" + e.Claimed
		}
		fmt.Fprintln(formatter.Writer, line)
	}
	for _, e := range out.Farkas {
		fmt.Fprintf(formatter.Writer, "%s  n=%d k=%d farkas\n", e.Key, e.N, e.K)
	}
	fmt.Fprintf(formatter.Writer, "\n%d certificate(s), %d farkas\n", len(out.Certificates), len(out.Farkas))
	return nil
}
