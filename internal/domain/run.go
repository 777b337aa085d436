package domain

import (
	"errors"
	"time"
)

// DiagnosisReport is the full answer to one query.
type DiagnosisReport struct {
	Query     DiagnosisQuery `json:"query"`
	Diagnosis Diagnosis      `json:"diagnosis"`
	Engine    Engine         `json:"engine"`
	Message   string         `json:"message"`

	Trace []MatchTrace `json:"trace,omitempty"`
}

// NewReport assembles a report and fills the display message.
func NewReport(q DiagnosisQuery, d Diagnosis, engine Engine) DiagnosisReport {
	return DiagnosisReport{
		Query:     q,
		Diagnosis: d,
		Engine:    engine,
		Message:   d.Message(),
	}
}

// AssertionResult is the output of a single expectation check.
type AssertionResult struct {
	Name    string `json:"name"`
	Passed  bool   `json:"passed"`
	Message string `json:"message"`
}

// CaseError is a structured failure to diagnose a case at all.
type CaseError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// NewCaseError classifies err for a case result.
func NewCaseError(err error) *CaseError {
	if err == nil {
		return nil
	}
	kind := KindExecution
	var oe *OpError
	if errors.As(err, &oe) {
		kind = oe.Kind
	}
	return &CaseError{Kind: kind, Message: err.Error()}
}

// CaseResult is the outcome of running one case.
type CaseResult struct {
	Name   string          `json:"name"`
	Report DiagnosisReport `json:"report"`

	Assertions []AssertionResult `json:"assertions"`
	Error      *CaseError        `json:"error,omitempty"`
}

// Failed reports whether the case errored or any assertion failed.
func (r CaseResult) Failed() bool {
	if r.Error != nil {
		return true
	}
	for _, a := range r.Assertions {
		if !a.Passed {
			return true
		}
	}
	return false
}

// CheckRun is the result of running a whole casebook.
type CheckRun struct {
	ID string `json:"id,omitempty"`

	CasebookName string `json:"casebook"`
	CasebookPath string `json:"casebook_path"`
	Engine       Engine `json:"engine"`

	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`

	Results []CaseResult `json:"results"`
}

// Failures counts failed cases.
func (r CheckRun) Failures() int {
	n := 0
	for _, c := range r.Results {
		if c.Failed() {
			n++
		}
	}
	return n
}
