package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aalvaropc/haidx/internal/domain"
	"github.com/aalvaropc/haidx/internal/infra/reasoner"
)

func TestParseInput(t *testing.T) {
	q, err := ParseInput(DiagnoseInput{
		Patient:  "Jane",
		Symptoms: " fever ,chills,, hypotension ",
		Pathogen: "Staphylococcus Aureus",
		Xray:     "normal",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.DiagnosisQuery{
		Patient:  "Jane",
		Symptoms: []string{"fever", "chills", "hypotension"},
		Pathogen: "Staphylococcus Aureus",
		Xray:     domain.XrayNormal,
	}, q)
}

func TestParseInput_RejectsUnknownXray(t *testing.T) {
	_, err := ParseInput(DiagnoseInput{Pathogen: "X", Xray: "Cloudy"})
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindInvalidInput))
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestDiagnose_DisplayMessages(t *testing.T) {
	kb := domain.DefaultKnowledgeBase()
	uc := NewDiagnose(reasoner.NewNative(kb), kb)

	cases := []struct {
		name string
		in   DiagnoseInput
		want string
	}{
		{
			name: "clabsi",
			in:   DiagnoseInput{Symptoms: "fever, chills, hypotension", Pathogen: "Staphylococcus Aureus", Xray: "Normal"},
			want: "The patient is diagnosed with: clabsi",
		},
		{
			name: "vap",
			in:   DiagnoseInput{Symptoms: "fever, cough, purulent sputum", Pathogen: "Pseudomonas Aeruginosa", Xray: "Abnormal"},
			want: "The patient is diagnosed with: vap",
		},
		{
			name: "cauti with abnormal xray",
			in:   DiagnoseInput{Symptoms: "urinary frequency, dysuria, cloudy urine", Pathogen: "Escherichia Coli", Xray: "Abnormal"},
			want: "No matching infection found.",
		},
		{
			name: "empty symptom field",
			in:   DiagnoseInput{Symptoms: "", Pathogen: "Enterococcus Faecalis", Xray: "Normal"},
			want: "The patient is diagnosed with: cauti",
		},
		{
			name: "pathogen is case-sensitive",
			in:   DiagnoseInput{Symptoms: "fever", Pathogen: "staphylococcus aureus", Xray: "Normal"},
			want: "No matching infection found.",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			report, err := uc.Execute(context.Background(), tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, report.Message)
			assert.Equal(t, domain.EngineNative, report.Engine)
			assert.Nil(t, report.Trace)
		})
	}
}

func TestDiagnose_PatientDoesNotAffectResult(t *testing.T) {
	kb := domain.DefaultKnowledgeBase()
	uc := NewDiagnose(reasoner.NewNative(kb), kb)

	in := DiagnoseInput{Symptoms: "fever", Pathogen: "Staphylococcus Aureus", Xray: "Normal"}
	a, err := uc.Execute(context.Background(), in)
	require.NoError(t, err)

	in.Patient = "someone else"
	b, err := uc.Execute(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, a.Diagnosis, b.Diagnosis)
	assert.Equal(t, "someone else", b.Query.Patient)
}

func TestDiagnose_Explain(t *testing.T) {
	kb := domain.DefaultKnowledgeBase()
	uc := NewDiagnose(reasoner.NewNative(kb), kb)

	report, err := uc.Execute(context.Background(), DiagnoseInput{
		Symptoms: "fever, cough",
		Pathogen: "Staphylococcus Aureus",
		Xray:     "Abnormal",
		Explain:  true,
	})
	require.NoError(t, err)
	require.Len(t, report.Trace, kb.Len())

	assert.Equal(t, "vap", report.Diagnosis.Label())

	clabsi := report.Trace[0]
	assert.Equal(t, "clabsi", clabsi.Profile)
	assert.False(t, clabsi.SymptomsOK)
	assert.Equal(t, []string{"cough"}, clabsi.UnknownSymptoms)
	assert.True(t, clabsi.PathogenOK)
	assert.False(t, clabsi.XrayOK)

	assert.True(t, report.Trace[2].Matched())
}

func TestDiagnose_ReasonerError(t *testing.T) {
	kb := domain.DefaultKnowledgeBase()
	boom := errors.New("boom")
	uc := NewDiagnose(&errReasoner{kb: kb, fail: map[string]error{"X": boom}}, kb)

	_, err := uc.Execute(context.Background(), DiagnoseInput{Pathogen: "X", Xray: "Normal"})
	assert.ErrorIs(t, err, boom)
}

func TestDiagnose_MangleEngine(t *testing.T) {
	kb := domain.DefaultKnowledgeBase()
	m, err := reasoner.NewMangle(kb)
	require.NoError(t, err)
	uc := NewDiagnose(m, kb)

	report, err := uc.Execute(context.Background(), DiagnoseInput{
		Symptoms: "fever, chills, hypotension",
		Pathogen: "Staphylococcus Aureus",
		Xray:     "Normal",
	})
	require.NoError(t, err)
	assert.Equal(t, "The patient is diagnosed with: clabsi", report.Message)
	assert.Equal(t, domain.EngineMangle, report.Engine)
}
