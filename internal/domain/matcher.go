package domain

// MatchTrace records how a single profile fared against a query.
type MatchTrace struct {
	Profile string `json:"profile"`

	SymptomsOK bool `json:"symptoms_ok"`
	PathogenOK bool `json:"pathogen_ok"`
	XrayOK     bool `json:"xray_ok"`

	// UnknownSymptoms are query symptoms the profile does not list.
	UnknownSymptoms []string `json:"unknown_symptoms,omitempty"`
}

// Matched reports whether all three criteria hold.
func (t MatchTrace) Matched() bool {
	return t.SymptomsOK && t.PathogenOK && t.XrayOK
}

// Match evaluates one profile against a query:
//   - every query symptom must be listed by the profile (subset test),
//   - the pathogen must be one of the profile's pathogens, case-sensitive,
//   - a Normal x-ray always passes; an Abnormal one needs an Abnormal profile.
func Match(p InfectionProfile, q DiagnosisQuery) MatchTrace {
	t := MatchTrace{Profile: p.Name}

	for _, s := range q.Symptoms {
		if !p.HasSymptom(s) {
			t.UnknownSymptoms = append(t.UnknownSymptoms, s)
		}
	}
	t.SymptomsOK = len(t.UnknownSymptoms) == 0
	t.PathogenOK = p.HasPathogen(q.Pathogen)
	t.XrayOK = q.Xray == XrayNormal || p.ExpectedXray == XrayAbnormal

	return t
}

// Diagnose returns the first profile, in declaration order, that matches q.
func (kb *KnowledgeBase) Diagnose(q DiagnosisQuery) Diagnosis {
	if kb == nil {
		return NoMatch()
	}
	for _, p := range kb.profiles {
		if Match(p, q).Matched() {
			return Found(p.Name)
		}
	}
	return NoMatch()
}

// Explain evaluates every profile and returns one trace per profile, in order.
func (kb *KnowledgeBase) Explain(q DiagnosisQuery) []MatchTrace {
	if kb == nil {
		return nil
	}
	out := make([]MatchTrace, 0, len(kb.profiles))
	for _, p := range kb.profiles {
		out = append(out, Match(p, q))
	}
	return out
}
