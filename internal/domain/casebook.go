package domain

// JSONPathAssertion defines a JSONPath-based check against a diagnosis report.
type JSONPathAssertion struct {
	Exists   bool
	Eq       *string
	Contains *string
	Matches  *string
	Gt       *float64
	Lt       *float64
}

// Expectation is what a case expects from the reasoner.
type Expectation struct {
	// Diagnosis is an infection name or NoneLabel. Empty means unchecked.
	Diagnosis string

	// JSONPath assertions keyed by expression, evaluated on the report JSON.
	JSONPath map[string]JSONPathAssertion
}

// Case is one named diagnosis scenario.
type Case struct {
	Name  string
	Query DiagnosisQuery

	Expect Expectation
}

// Casebook groups cases under one logical unit (Git-friendly).
type Casebook struct {
	Name  string
	Cases []Case
}

// CasebookRef is a lightweight reference to a casebook file on disk.
type CasebookRef struct {
	Name string
	Path string
}

// ProfileSource describes where the active knowledge base came from.
type ProfileSource struct {
	Path    string // empty for the built-in profiles
	BuiltIn bool
}
