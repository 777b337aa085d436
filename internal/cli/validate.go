package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/haidx/internal/usecase"
)

func validateCmd(a *app) *cobra.Command {
	var casebook string

	c := &cobra.Command{
		Use:   "validate",
		Short: "Check a casebook against the knowledge base without diagnosing",
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

			uc := usecase.NewValidateCasebook(s.casebooks, s.kb)
			if err := uc.Execute(cmd.Context(), path); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "OK")
			return nil
		},
	}

	c.Flags().StringVarP(&casebook, "casebook", "c", "", "Casebook name or path (required)")

	_ = c.MarkFlagRequired("casebook")
	return c
}
