package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pavcheck/internal/store"
	"pavcheck/internal/verify"
)

// VerifyResult is one certificate's outcome in the verify report.
type VerifyResult struct {
	Key   string `json:"key"`
	OK    bool   `json:"ok"`
	Value string `json:"value,omitempty"`
	Error string `json:"error,omitempty"`
}

// VerifyReport is the full report of a verify run.
type VerifyReport struct {
	RunID   string         `json:"run_id"`
	Total   int            `json:"total"`
	Failed  int            `json:"failed"`
	Results []VerifyResult `json:"results"`
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		key  string
		k    int
		jobs int
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Re-verify stored certificates with exact arithmetic",
		Long: `Re-verify stored certificates against freshly rebuilt LP instances.

Every dual constraint is checked over the full ballot universe in exact
rational arithmetic. Verification failures are reported per key; one bad
certificate never hides another.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(rootOpts, cmd, key, k, jobs)
		},
	}

	cmd.Flags().StringVar(&key, "key", "", "verify a single certificate by key")
	cmd.Flags().IntVar(&k, "k", 0, "only verify certificates for this committee size")
	cmd.Flags().IntVar(&jobs, "jobs", 0, "number of parallel verification workers (0 = all CPUs)")

	return cmd
}

func runVerify(opts *RootOptions, cmd *cobra.Command, key string, k, jobs int) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	logger := newLogger(opts.Verbose)
	defer logger.Sync()

	st, err := store.Open(opts.DBPath)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "open store", err)
	}
	defer st.Close()

	ctx := cmd.Context()

	var batch []verify.Job
	if key != "" {
		rec, err := st.GetCertificate(ctx, key)
		var missing *store.MissingCertificateError
		switch {
		case errors.As(err, &missing):
			// The key may still name a farkas certificate; fall through to
			// the farkas pass with an empty dual batch.
		case err != nil:
			_ = formatter.Error(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitCommandError, "load certificate", err)
		default:
			batch = append(batch, verify.Job{Key: rec.Key, Record: rec})
		}
	} else {
		records, err := st.ListCertificates(ctx, k)
		if err != nil {
			_ = formatter.Error(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitCommandError, "list certificates", err)
		}
		for _, rec := range records {
			batch = append(batch, verify.Job{Key: rec.Key, Record: rec})
		}
	}

	formatter.VerboseLog("Verifying %d certificate(s)", len(batch))

	runner := &verify.Runner{Workers: jobs, Log: logger}
	report, err := runner.Run(ctx, batch)
	if err != nil {
		_ = formatter.Error(ErrCodeVerify, err.Error(), nil)
		return WrapExitError(ExitCommandError, "batch verification", err)
	}

	out := VerifyReport{
		RunID:   report.RunID,
		Total:   len(report.Results),
		Failed:  report.Failed,
		Results: make([]VerifyResult, len(report.Results)),
	}
	for i, res := range report.Results {
		vr := VerifyResult{Key: res.Key, OK: res.Err == nil}
		if res.Err != nil {
			vr.Error = res.Err.Error()
		} else if res.Value != nil {
			vr.Value = res.Value.RatString()
		}
		out.Results[i] = vr
	}

	// Infeasibility certificates are cheap relative to the dual batch and
	// run after it, reusing the same report.
	farkasRows, err := st.ListFarkas(ctx, k)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "list farkas certificates", err)
	}
	for _, fr := range farkasRows {
		if key != "" && fr.Key != key {
			continue
		}
		vr := VerifyResult{Key: fr.Key, OK: true}
		if err := verify.VerifyFarkas(fr.N, fr.K, fr.History, &fr.Farkas); err != nil {
			vr.OK = false
			vr.Error = err.Error()
			out.Failed++
			logger.Warn("farkas certificate rejected", zap.String("key", fr.Key), zap.Error(err))
		}
		out.Total++
		out.Results = append(out.Results, vr)
	}

	if key != "" && out.Total == 0 {
		missing := &store.MissingCertificateError{Key: key}
		_ = formatter.Error(ErrCodeStore, missing.Error(), nil)
		return WrapExitError(ExitCommandError, "load certificate", missing)
	}

	if formatter.Format == "json" {
		if out.Failed > 0 {
			response := CLIResponse{
				Status: "error",
				Data:   out,
				Error: &CLIError{
					Code:    ErrCodeVerify,
					Message: fmt.Sprintf("%d of %d certificates failed verification", out.Failed, out.Total),
				},
			}
			encoder := json.NewEncoder(formatter.Writer)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(response); err != nil {
				return err
			}
			return NewExitError(ExitFailure, fmt.Sprintf("%d certificate(s) failed", out.Failed))
		}
		return formatter.Success(out)
	}

	for _, res := range out.Results {
		if res.OK {
			if res.Value != "" {
				fmt.Fprintf(formatter.Writer, "✓ %s  value=%s\n", res.Key, res.Value)
			} else {
				fmt.Fprintf(formatter.Writer, "✓ %s\n", res.Key)
			}
		} else {
			fmt.Fprintf(formatter.Writer, "✗ %s  %s\n", res.Key, res.Error)
		}
	}
	fmt.Fprintf(formatter.Writer, "\n%d verified, %d failed\n", out.Total-out.Failed, out.Failed)

	if out.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d certificate(s) failed", out.Failed))
	}
	return nil
}
