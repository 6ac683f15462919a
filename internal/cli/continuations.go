package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"pavcheck/internal/pav"
	"pavcheck/internal/wlog"
)

// ContinuationEntry is one symmetry-reduced proof extension.
type ContinuationEntry struct {
	Committee string `json:"committee"`
	Deviation string `json:"deviation"`
}

// ContinuationsOutput is the continuations command's payload.
type ContinuationsOutput struct {
	N     int                 `json:"n"`
	K     int                 `json:"k"`
	Count int                 `json:"count"`
	Steps []ContinuationEntry `json:"steps"`
}

// NewContinuationsCommand creates the continuations command.
func NewContinuationsCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		n       int
		k       int
		history []string
	)

	cmd := &cobra.Command{
		Use:   "continuations",
		Short: "Enumerate symmetry-reduced proof extensions",
		Long: `Enumerate the (committee, deviation) pairs that extend a proof history,
reduced by the symmetry the history leaves intact. Each history step is
given as "committee:deviation" using set notation ("017" = {0,1,7},
"-" = empty).`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runContinuations(rootOpts, cmd, n, k, history)
		},
	}

	cmd.Flags().IntVar(&n, "n", 0, "ground set size")
	cmd.Flags().IntVar(&k, "k", 0, "committee size")
	cmd.Flags().StringArrayVar(&history, "step", nil, "history step as committee:deviation (repeatable)")
	_ = cmd.MarkFlagRequired("n")
	_ = cmd.MarkFlagRequired("k")

	return cmd
}

func runContinuations(opts *RootOptions, cmd *cobra.Command, n, k int, steps []string) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	h, err := parseHistory(steps)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "parse history", err)
	}

	conts, err := wlog.Continuations(n, k, h)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "enumerate continuations", err)
	}

	out := ContinuationsOutput{N: n, K: k, Count: len(conts), Steps: []ContinuationEntry{}}
	for _, c := range conts {
		last := c[len(c)-1]
		out.Steps = append(out.Steps, ContinuationEntry{
			Committee: last.Committee.String(),
			Deviation: last.Deviation.String(),
		})
	}

	if formatter.Format == "json" {
		return formatter.Success(out)
	}

	for _, e := range out.Steps {
		fmt.Fprintf(formatter.Writer, "W=%s T=%s\n", e.Committee, e.Deviation)
	}
	fmt.Fprintf(formatter.Writer, "\n%d continuation(s)\n", out.Count)
	return nil
}

func parseHistory(steps []string) (wlog.History, error) {
	h := make(wlog.History, 0, len(steps))
	for _, s := range steps {
		committeeStr, deviationStr, ok := strings.Cut(s, ":")
		if !ok {
			return nil, fmt.Errorf("step %q: want committee:deviation", s)
		}
		committee, err := pav.ParseSet(committeeStr)
		if err != nil {
			return nil, fmt.Errorf("step %q: %w", s, err)
		}
		deviation, err := pav.ParseSet(deviationStr)
		if err != nil {
			return nil, fmt.Errorf("step %q: %w", s, err)
		}
		h = append(h, wlog.Step{Committee: committee, Deviation: deviation})
	}
	return h, nil
}
