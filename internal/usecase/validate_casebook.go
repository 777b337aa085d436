package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aalvaropc/haidx/internal/domain"
	"github.com/aalvaropc/haidx/internal/ports"
)

type ValidateCasebook struct {
	casebooks ports.CasebookLoader
	kb        *domain.KnowledgeBase
}

func NewValidateCasebook(cl ports.CasebookLoader, kb *domain.KnowledgeBase) *ValidateCasebook {
	return &ValidateCasebook{casebooks: cl, kb: kb}
}

// Execute checks a casebook against the knowledge base without diagnosing.
// Every problem is reported, not just the first one.
func (uc *ValidateCasebook) Execute(ctx context.Context, path string) error {
	cb, err := uc.casebooks.LoadCasebook(path)
	if err != nil {
		return err
	}

	var issues []error
	for i, c := range cb.Cases {
		if err := ctx.Err(); err != nil {
			return err
		}
		issues = append(issues, uc.checkCase(i, c)...)
	}

	if len(issues) == 0 {
		return nil
	}
	return &domain.OpError{
		Op:   "usecase.validate_casebook",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  errors.Join(issues...),
	}
}

func (uc *ValidateCasebook) checkCase(i int, c domain.Case) []error {
	field := fmt.Sprintf("cases[%d]", i)
	var out []error

	pathogens := uc.kb.Pathogens()
	if !containsExact(pathogens, c.Query.Pathogen) {
		msg := fmt.Sprintf("unknown pathogen %q", c.Query.Pathogen)
		if alt, ok := foldMatch(pathogens, c.Query.Pathogen); ok {
			msg += fmt.Sprintf(" (pathogens are case-sensitive; did you mean %q?)", alt)
		}
		out = append(out, caseIssue(field+".pathogen", c.Name, msg))
	}

	for j, s := range c.Query.Symptoms {
		if !uc.kb.KnownSymptom(s) {
			out = append(out, caseIssue(fmt.Sprintf("%s.symptoms[%d]", field, j), c.Name,
				fmt.Sprintf("symptom %q is not listed by any profile", s)))
		}
	}

	if c.Query.Xray != domain.XrayNormal && c.Query.Xray != domain.XrayAbnormal {
		out = append(out, caseIssue(field+".xray", c.Name, fmt.Sprintf("unknown x-ray result %q", c.Query.Xray)))
	}

	want := c.Expect.Diagnosis
	if want != "" && !strings.EqualFold(want, domain.NoneLabel) {
		if _, ok := uc.kb.Lookup(want); !ok {
			out = append(out, caseIssue(field+".expect.diagnosis", c.Name,
				fmt.Sprintf("unknown profile %q (expected a profile name or %s)", want, domain.NoneLabel)))
		}
	}

	return out
}

func caseIssue(field, name, msg string) error {
	return fmt.Errorf("field %s (case %q): %s: %w", field, name, msg, domain.ErrInvalidConfig)
}

func containsExact(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

func foldMatch(set []string, s string) (string, bool) {
	for _, v := range set {
		if strings.EqualFold(v, s) {
			return v, true
		}
	}
	return "", false
}
