package domain

import "strings"

// DiagnosisQuery is one request to the matcher. It is built per call and discarded.
type DiagnosisQuery struct {
	// Patient is a free-form label carried into reports. The matcher never reads it.
	Patient string `json:"patient,omitempty"`

	Symptoms []string    `json:"symptoms"`
	Pathogen string      `json:"pathogen"`
	Xray     XrayFinding `json:"xray"`
}

// ParseSymptoms splits comma-delimited text into trimmed symptoms.
// Empty items are dropped, so an empty field yields an empty set.
func ParseSymptoms(text string) []string {
	out := []string{}
	for _, part := range strings.Split(text, ",") {
		s := strings.TrimSpace(part)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Diagnosis is the matcher's answer: an infection name, or none.
type Diagnosis struct {
	Infection string `json:"infection,omitempty"`
	Matched   bool   `json:"matched"`
}

// NoMatch is the diagnosis returned when no profile fits.
func NoMatch() Diagnosis { return Diagnosis{} }

// Found returns a diagnosis naming infection.
func Found(infection string) Diagnosis {
	return Diagnosis{Infection: infection, Matched: true}
}

// Message is the text shown to the user.
func (d Diagnosis) Message() string {
	if !d.Matched {
		return "No matching infection found."
	}
	return "The patient is diagnosed with: " + d.Infection
}

// Label returns the infection name, or "none" when nothing matched.
func (d Diagnosis) Label() string {
	if !d.Matched {
		return NoneLabel
	}
	return d.Infection
}

// NoneLabel names the absence of a diagnosis in casebooks and reports.
const NoneLabel = "none"
