package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/haidx/internal/domain"
)

func profilesCmd(a *app) *cobra.Command {
	c := &cobra.Command{
		Use:   "profiles",
		Short: "Inspect the infection profiles",
	}

	c.AddCommand(profilesListCmd(a), profilesShowCmd(a))
	return c
}

func profilesListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List profiles in match order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.openSession(false)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Source: %s\n\n", sourceLabel(s.kbSource))
			for i, p := range s.kb.Profiles() {
				fmt.Fprintf(out, "%d. %s  (x-ray %s, %d symptoms, %d pathogens)\n",
					i+1, p.Name, p.ExpectedXray, len(p.Symptoms), len(p.Pathogens))
			}
			return nil
		},
	}
}

func profilesShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME",
		Short: "Show one profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openSession(false)
			if err != nil {
				return err
			}

			p, ok := s.kb.Lookup(args[0])
			if !ok {
				return &domain.OpError{
					Op:   "cli.profiles.show",
					Kind: domain.KindNotFound,
					Err:  fmt.Errorf("profile %q: %w", args[0], domain.ErrNotFound),
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Name:      %s\n", p.Name)
			fmt.Fprintf(out, "Symptoms:  %s\n", strings.Join(p.Symptoms, ", "))
			fmt.Fprintf(out, "Pathogens: %s\n", strings.Join(p.Pathogens, ", "))
			fmt.Fprintf(out, "X-ray:     %s\n", p.ExpectedXray)
			return nil
		},
	}
}

func pathogensCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pathogens",
		Short: "List the pathogens a diagnosis can name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.openSession(false)
			if err != nil {
				return err
			}
			for _, p := range s.kb.Pathogens() {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
}

func sourceLabel(src domain.ProfileSource) string {
	if src.BuiltIn || src.Path == "" {
		return "built-in profiles"
	}
	return src.Path
}
