package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/haidx/internal/domain"
	"github.com/aalvaropc/haidx/internal/infra/logger"
	"github.com/aalvaropc/haidx/internal/usecase"
)

func checkCmd(a *app) *cobra.Command {
	var casebook string
	var noSave bool
	var format string
	var parallel int

	c := &cobra.Command{
		Use:   "check",
		Short: "Run a casebook and compare every diagnosis with its expectation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.openSession(false)
			if err != nil {
				return err
			}

			path, err := resolveCasebookPath(s, casebook)
			if err != nil {
				return err
			}

			store := s.store
			if noSave {
				store = nil
			}

			uc := usecase.NewRunCasebook(s.casebooks, s.diagnose, store,
				usecase.WithParallel(parallel),
				usecase.WithRunLogger(logger.Component("check")),
			)

			run, runID, err := uc.Execute(cmd.Context(), path)
			if err != nil {
				// print what completed before returning the error
				_ = printRun(cmd.OutOrStdout(), run, runID, format)
				return err
			}

			if err := printRun(cmd.OutOrStdout(), run, runID, format); err != nil {
				return err
			}

			if fails := run.Failures(); fails > 0 {
				return fmt.Errorf("check failed (%d failed case(s))", fails)
			}
			return nil
		},
	}

	c.Flags().StringVarP(&casebook, "casebook", "c", "", "Casebook name or path (required)")
	c.Flags().BoolVar(&noSave, "no-save", false, "Do not save the run artifact under runs/")
	c.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")
	c.Flags().IntVar(&parallel, "parallel", usecase.DefaultParallel, "Cases diagnosed at once")

	_ = c.MarkFlagRequired("casebook")
	return c
}

func printRun(w io.Writer, run domain.CheckRun, runID string, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		payload := map[string]any{
			"artifact_id": runID,
			"run":         run,
		}
		return enc.Encode(payload)
	case "pretty", "":
		printPrettyRun(w, run, runID)
		return nil
	default:
		return fmt.Errorf("unsupported format %q (expected pretty|json)", format)
	}
}

func printPrettyRun(w io.Writer, run domain.CheckRun, runID string) {
	total := run.EndedAt.Sub(run.StartedAt)
	if run.StartedAt.IsZero() || run.EndedAt.IsZero() {
		total = 0
	}

	fmt.Fprintf(w, "Casebook: %s\n", run.CasebookName)
	fmt.Fprintf(w, "Engine:   %s\n", run.Engine)
	fmt.Fprintf(w, "Started:  %s\n", run.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Duration: %s\n", total)
	if runID != "" {
		fmt.Fprintf(w, "Saved:    %s\n", runID)
	}
	fmt.Fprintln(w)

	for _, r := range run.Results {
		status := "OK"
		if r.Failed() {
			status = "FAIL"
		}
		fmt.Fprintf(w, "- [%s] %s\n", status, r.Name)

		if r.Error != nil {
			fmt.Fprintf(w, "  error: %s (%s)\n", r.Error.Message, r.Error.Kind)
		} else {
			fmt.Fprintf(w, "  %s\n", r.Report.Message)
		}

		if len(r.Assertions) > 0 {
			pass, fail := countAssertionPassFail(r.Assertions)
			fmt.Fprintf(w, "  expectations: %d pass / %d fail\n", pass, fail)
			for _, as := range r.Assertions {
				fmt.Fprintf(w, "    %s %s: %s\n", mark(as.Passed), as.Name, as.Message)
			}
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "%d case(s), %d failed\n", len(run.Results), run.Failures())
}

func countAssertionPassFail(in []domain.AssertionResult) (pass int, fail int) {
	for _, a := range in {
		if a.Passed {
			pass++
		} else {
			fail++
		}
	}
	return pass, fail
}
