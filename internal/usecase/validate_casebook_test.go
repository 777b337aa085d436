package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aalvaropc/haidx/internal/domain"
)

func TestValidateCasebook_PassesOnSmoke(t *testing.T) {
	uc := NewValidateCasebook(fakeCasebookLoader{cb: smokeCasebook()}, domain.DefaultKnowledgeBase())
	if err := uc.Execute(context.Background(), "smoke.yaml"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidateCasebook_ReportsEveryIssue(t *testing.T) {
	cb := domain.Casebook{
		Name: "bad",
		Cases: []domain.Case{
			{
				Name: "typo",
				Query: domain.DiagnosisQuery{
					Symptoms: []string{"fever", "rash"},
					Pathogen: "staphylococcus aureus",
					Xray:     domain.XrayNormal,
				},
				Expect: domain.Expectation{Diagnosis: "sepsis"},
			},
		},
	}

	uc := NewValidateCasebook(fakeCasebookLoader{cb: cb}, domain.DefaultKnowledgeBase())
	err := uc.Execute(context.Background(), "bad.yaml")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected invalid_config, got %v", err)
	}
	if !errors.Is(err, domain.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig in chain, got %v", err)
	}

	msg := err.Error()
	for _, want := range []string{
		"cases[0].pathogen",
		`did you mean "Staphylococcus Aureus"`,
		"cases[0].symptoms[1]",
		`"rash"`,
		"cases[0].expect.diagnosis",
		`"sepsis"`,
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected %q in error, got %q", want, msg)
		}
	}
	if strings.Contains(msg, "symptoms[0]") {
		t.Fatalf("fever is a known symptom: %q", msg)
	}
}

func TestValidateCasebook_NoneIsAValidExpectation(t *testing.T) {
	cb := smokeCasebook()
	cb.Cases[2].Expect.Diagnosis = "NONE"

	uc := NewValidateCasebook(fakeCasebookLoader{cb: cb}, domain.DefaultKnowledgeBase())
	if err := uc.Execute(context.Background(), "smoke.yaml"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidateCasebook_LoaderError(t *testing.T) {
	loadErr := &domain.OpError{Op: "test", Kind: domain.KindNotFound, Err: domain.ErrNotFound}
	uc := NewValidateCasebook(fakeCasebookLoader{err: loadErr}, domain.DefaultKnowledgeBase())

	err := uc.Execute(context.Background(), "missing.yaml")
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestValidateCasebook_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	uc := NewValidateCasebook(fakeCasebookLoader{cb: smokeCasebook()}, domain.DefaultKnowledgeBase())
	if err := uc.Execute(ctx, "smoke.yaml"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
