package usecase

import (
	"context"
	"io"
	"log/slog"

	"github.com/aalvaropc/haidx/internal/domain"
	"github.com/aalvaropc/haidx/internal/ports"
)

// DiagnoseInput holds the raw form fields as the user typed or picked them.
type DiagnoseInput struct {
	Patient  string
	Symptoms string
	Pathogen string
	Xray     string

	// Explain attaches one MatchTrace per profile to the report.
	Explain bool
}

type Diagnose struct {
	reasoner ports.Reasoner
	kb       *domain.KnowledgeBase
	log      *slog.Logger
}

type DiagnoseOption func(*Diagnose)

func WithLogger(l *slog.Logger) DiagnoseOption {
	return func(uc *Diagnose) {
		if l != nil {
			uc.log = l
		}
	}
}

func NewDiagnose(r ports.Reasoner, kb *domain.KnowledgeBase, opts ...DiagnoseOption) *Diagnose {
	uc := &Diagnose{
		reasoner: r,
		kb:       kb,
		log:      slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// ParseInput turns raw form fields into a query. Only the x-ray text can fail.
func ParseInput(in DiagnoseInput) (domain.DiagnosisQuery, error) {
	xray, err := domain.ParseXray(in.Xray)
	if err != nil {
		return domain.DiagnosisQuery{}, err
	}
	return domain.DiagnosisQuery{
		Patient:  in.Patient,
		Symptoms: domain.ParseSymptoms(in.Symptoms),
		Pathogen: in.Pathogen,
		Xray:     xray,
	}, nil
}

// Execute parses the form fields and diagnoses them.
func (uc *Diagnose) Execute(ctx context.Context, in DiagnoseInput) (domain.DiagnosisReport, error) {
	q, err := ParseInput(in)
	if err != nil {
		uc.log.Warn("diagnose.invalid_input", "xray", in.Xray, "err", err.Error())
		return domain.DiagnosisReport{}, err
	}
	return uc.Query(ctx, q, in.Explain)
}

// Query diagnoses an already parsed query.
func (uc *Diagnose) Query(ctx context.Context, q domain.DiagnosisQuery, explain bool) (domain.DiagnosisReport, error) {
	d, err := uc.reasoner.Diagnose(ctx, q)
	if err != nil {
		uc.log.Error("diagnose.failed", "engine", string(uc.reasoner.Engine()), "err", err.Error())
		return domain.DiagnosisReport{}, err
	}

	report := domain.NewReport(q, d, uc.reasoner.Engine())
	if explain {
		report.Trace = uc.kb.Explain(q)
	}

	uc.log.Info("diagnose.ok",
		"infection", d.Infection,
		"matched", d.Matched,
		"engine", string(report.Engine),
		"symptoms", len(q.Symptoms),
	)
	return report, nil
}

// KnowledgeBase exposes the profiles the reasoner was built from.
func (uc *Diagnose) KnowledgeBase() *domain.KnowledgeBase { return uc.kb }

// Engine names the reasoner in use.
func (uc *Diagnose) Engine() domain.Engine { return uc.reasoner.Engine() }
