package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/haidx/internal/domain"
	"github.com/aalvaropc/haidx/internal/usecase"
)

func diagnoseCmd(a *app) *cobra.Command {
	var in usecase.DiagnoseInput
	var format string

	c := &cobra.Command{
		Use:   "diagnose",
		Short: "Diagnose one patient from symptoms, pathogen and x-ray",
		Example: `  haidx diagnose -s "fever, chills, hypotension" -p "Staphylococcus Aureus" -x Normal
  haidx diagnose -s "fever, cough" -p "Pseudomonas Aeruginosa" -x Abnormal --explain`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.openSession(false)
			if err != nil {
				return err
			}

			report, err := s.diagnose.Execute(cmd.Context(), in)
			if err != nil {
				return err
			}
			return printReport(cmd.OutOrStdout(), report, format)
		},
	}

	c.Flags().StringVarP(&in.Symptoms, "symptoms", "s", "", "Comma-separated symptoms (empty means none reported)")
	c.Flags().StringVarP(&in.Pathogen, "pathogen", "p", "", "Pathogen name, exactly as listed by `haidx pathogens` (required)")
	c.Flags().StringVarP(&in.Xray, "xray", "x", string(domain.XrayNormal), "X-ray result: Normal|Abnormal")
	c.Flags().StringVar(&in.Patient, "patient", "", "Patient label carried into the output")
	c.Flags().BoolVar(&in.Explain, "explain", false, "Show how each profile fared")
	c.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")

	_ = c.MarkFlagRequired("pathogen")
	return c
}

func printReport(w io.Writer, report domain.DiagnosisReport, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "pretty", "":
		printPrettyReport(w, report)
		return nil
	default:
		return fmt.Errorf("unsupported format %q (expected pretty|json)", format)
	}
}

func printPrettyReport(w io.Writer, report domain.DiagnosisReport) {
	if report.Query.Patient != "" {
		fmt.Fprintf(w, "Patient:  %s\n", report.Query.Patient)
	}
	fmt.Fprintln(w, report.Message)

	if len(report.Trace) == 0 {
		return
	}

	fmt.Fprintln(w)
	for _, t := range report.Trace {
		status := "no match"
		if t.Matched() {
			status = "MATCH"
		}
		fmt.Fprintf(w, "- %s: %s\n", t.Profile, status)
		fmt.Fprintf(w, "    symptoms %s", mark(t.SymptomsOK))
		if len(t.UnknownSymptoms) > 0 {
			fmt.Fprintf(w, " (not listed: %s)", strings.Join(t.UnknownSymptoms, ", "))
		}
		fmt.Fprintln(w)
		fmt.Fprintf(w, "    pathogen %s\n", mark(t.PathogenOK))
		fmt.Fprintf(w, "    x-ray    %s\n", mark(t.XrayOK))
	}
}

func mark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}
