package domain

import "testing"

func TestDiagnose_Scenarios(t *testing.T) {
	kb := DefaultKnowledgeBase()

	cases := []struct {
		name     string
		symptoms []string
		pathogen string
		xray     XrayFinding
		want     string
	}{
		{"clabsi classic", []string{"fever", "chills", "hypotension"}, "Staphylococcus Aureus", XrayNormal, "clabsi"},
		{"vap classic", []string{"fever", "cough", "purulent sputum"}, "Pseudomonas Aeruginosa", XrayAbnormal, "vap"},
		{"cauti with abnormal xray", []string{"urinary frequency", "dysuria", "cloudy urine"}, "Escherichia Coli", XrayAbnormal, NoneLabel},
		{"cauti classic", []string{"urinary frequency", "dysuria", "cloudy urine"}, "Escherichia Coli", XrayNormal, "cauti"},
		{"unknown pathogen", []string{"fever"}, "Candida Albicans", XrayNormal, NoneLabel},
		{"unknown symptom", []string{"fever", "rash"}, "Staphylococcus Aureus", XrayNormal, NoneLabel},
		{"pathogen is case-sensitive", []string{"fever"}, "staphylococcus aureus", XrayNormal, NoneLabel},
		{"empty symptoms", nil, "Enterococcus Faecalis", XrayNormal, "cauti"},
		{"subset of symptoms", []string{"cough"}, "Klebsiella Pneumoniae", XrayAbnormal, "vap"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := kb.Diagnose(DiagnosisQuery{Symptoms: c.symptoms, Pathogen: c.pathogen, Xray: c.xray})
			if got.Label() != c.want {
				t.Fatalf("Diagnose() = %q, want %q", got.Label(), c.want)
			}
		})
	}
}

func TestDiagnose_EveryProfileMatchesItsOwnCriteria(t *testing.T) {
	kb := DefaultKnowledgeBase()

	for _, p := range kb.Profiles() {
		for _, pathogen := range p.Pathogens {
			q := DiagnosisQuery{Symptoms: p.Symptoms, Pathogen: pathogen, Xray: p.ExpectedXray}
			got := kb.Diagnose(q)
			if !got.Matched || got.Infection != p.Name {
				t.Fatalf("profile %s with %s: got %+v", p.Name, pathogen, got)
			}
		}
	}
}

func TestDiagnose_EmptySymptomsStillMatchesEachProfile(t *testing.T) {
	kb := DefaultKnowledgeBase()

	for _, p := range kb.Profiles() {
		q := DiagnosisQuery{Pathogen: p.Pathogens[0], Xray: p.ExpectedXray}
		got := kb.Diagnose(q)
		if !got.Matched {
			t.Fatalf("profile %s: expected a match for empty symptoms", p.Name)
		}
	}
}

func TestDiagnose_FirstMatchWinsInDeclarationOrder(t *testing.T) {
	kb, err := NewKnowledgeBase([]InfectionProfile{
		{Name: "first", Symptoms: []string{"fever"}, Pathogens: []string{"X"}, ExpectedXray: XrayNormal},
		{Name: "second", Symptoms: []string{"fever"}, Pathogens: []string{"X"}, ExpectedXray: XrayNormal},
	})
	if err != nil {
		t.Fatalf("NewKnowledgeBase: %v", err)
	}

	got := kb.Diagnose(DiagnosisQuery{Symptoms: []string{"fever"}, Pathogen: "X", Xray: XrayNormal})
	if got.Infection != "first" {
		t.Fatalf("expected first, got %q", got.Infection)
	}
}

func TestDiagnose_NilKnowledgeBase(t *testing.T) {
	var kb *KnowledgeBase
	if kb.Diagnose(DiagnosisQuery{Pathogen: "X", Xray: XrayNormal}).Matched {
		t.Fatalf("nil knowledge base must not match")
	}
}

func TestMatch_XrayAsymmetry(t *testing.T) {
	normal := InfectionProfile{Name: "n", Pathogens: []string{"P"}, ExpectedXray: XrayNormal}
	abnormal := InfectionProfile{Name: "a", Pathogens: []string{"P"}, ExpectedXray: XrayAbnormal}

	cases := []struct {
		profile InfectionProfile
		xray    XrayFinding
		want    bool
	}{
		{normal, XrayNormal, true},
		{normal, XrayAbnormal, false},
		{abnormal, XrayNormal, true},
		{abnormal, XrayAbnormal, true},
	}
	for _, c := range cases {
		tr := Match(c.profile, DiagnosisQuery{Pathogen: "P", Xray: c.xray})
		if tr.XrayOK != c.want {
			t.Errorf("profile=%s xray=%s: XrayOK=%v, want %v", c.profile.ExpectedXray, c.xray, tr.XrayOK, c.want)
		}
	}
}

func TestExplain_ReportsUnknownSymptoms(t *testing.T) {
	kb := DefaultKnowledgeBase()

	traces := kb.Explain(DiagnosisQuery{
		Symptoms: []string{"fever", "dysuria"},
		Pathogen: "Staphylococcus Aureus",
		Xray:     XrayNormal,
	})
	if len(traces) != 3 {
		t.Fatalf("expected 3 traces, got %d", len(traces))
	}

	clabsi := traces[0]
	if clabsi.Profile != "clabsi" {
		t.Fatalf("expected clabsi first, got %q", clabsi.Profile)
	}
	if clabsi.SymptomsOK {
		t.Fatalf("expected symptom check to fail")
	}
	if len(clabsi.UnknownSymptoms) != 1 || clabsi.UnknownSymptoms[0] != "dysuria" {
		t.Fatalf("unexpected unknown symptoms: %v", clabsi.UnknownSymptoms)
	}
	if !clabsi.PathogenOK || !clabsi.XrayOK {
		t.Fatalf("expected pathogen and xray checks to pass: %+v", clabsi)
	}
	if clabsi.Matched() {
		t.Fatalf("expected no match")
	}
}

func TestDiagnosisMessage(t *testing.T) {
	if got := Found("vap").Message(); got != "The patient is diagnosed with: vap" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := NoMatch().Message(); got != "No matching infection found." {
		t.Fatalf("unexpected message %q", got)
	}
}
