package reasoner

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/mangle/analysis"
	"github.com/google/mangle/ast"
	_ "github.com/google/mangle/builtin"
	"github.com/google/mangle/engine"
	"github.com/google/mangle/factstore"
	"github.com/google/mangle/parse"

	"github.com/aalvaropc/haidx/internal/domain"
	"github.com/aalvaropc/haidx/internal/ports"
)

// rules derives diagnosis(Name, Rank) for every profile that matches the
// asserted query; Rank is the profile's declaration index.
const rules = `
Decl profile(Name, Rank).
Decl profile_symptom(Name, Symptom).
Decl profile_pathogen(Name, Pathogen).
Decl profile_xray(Name, Finding).
Decl query_symptom(Symptom).
Decl query_pathogen(Pathogen).
Decl query_xray(Finding).

foreign_symptom(Name) :-
  profile(Name, _),
  query_symptom(S),
  !profile_symptom(Name, S).

xray_ok(Name) :- profile(Name, _), query_xray(/normal).
xray_ok(Name) :- profile_xray(Name, /abnormal).

diagnosis(Name, Rank) :-
  profile(Name, Rank),
  query_pathogen(P),
  profile_pathogen(Name, P),
  xray_ok(Name),
  !foreign_symptom(Name).
`

var diagnosisSym = ast.PredicateSym{Symbol: "diagnosis", Arity: 2}

// Mangle evaluates the matching rules as a Datalog program.
type Mangle struct {
	program *analysis.ProgramInfo
	kbFacts []ast.Atom

	// evaluation is serialized; the analysed program is shared.
	mu sync.Mutex
}

// NewMangle parses and analyses the rules once and turns kb into base facts.
func NewMangle(kb *domain.KnowledgeBase) (*Mangle, error) {
	unit, err := parse.Unit(strings.NewReader(rules))
	if err != nil {
		return nil, &domain.OpError{Op: "reasoner.mangle.parse", Kind: domain.KindExecution, Err: err}
	}

	program, err := analysis.AnalyzeOneUnit(unit, nil)
	if err != nil {
		return nil, &domain.OpError{Op: "reasoner.mangle.analyze", Kind: domain.KindExecution, Err: err}
	}

	facts, err := profileFacts(kb)
	if err != nil {
		return nil, err
	}

	return &Mangle{program: program, kbFacts: facts}, nil
}

var _ ports.Reasoner = (*Mangle)(nil)

func (m *Mangle) Engine() domain.Engine { return domain.EngineMangle }

func (m *Mangle) Diagnose(ctx context.Context, q domain.DiagnosisQuery) (domain.Diagnosis, error) {
	if err := ctx.Err(); err != nil {
		return domain.NoMatch(), err
	}

	queryFacts, err := queryFacts(q)
	if err != nil {
		return domain.NoMatch(), err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	store := factstore.NewSimpleInMemoryStore()
	for _, a := range m.kbFacts {
		store.Add(a)
	}
	for _, a := range queryFacts {
		store.Add(a)
	}

	if _, err := engine.EvalProgramWithStats(m.program, store); err != nil {
		return domain.NoMatch(), &domain.OpError{Op: "reasoner.mangle.eval", Kind: domain.KindExecution, Err: err}
	}

	best := domain.NoMatch()
	bestRank := int64(-1)
	err = store.GetFacts(ast.NewQuery(diagnosisSym), func(a ast.Atom) error {
		name, rank, err := decodeDiagnosis(a)
		if err != nil {
			return err
		}
		if bestRank < 0 || rank < bestRank {
			best = domain.Found(name)
			bestRank = rank
		}
		return nil
	})
	if err != nil {
		return domain.NoMatch(), &domain.OpError{Op: "reasoner.mangle.query", Kind: domain.KindExecution, Err: err}
	}

	return best, nil
}

func profileFacts(kb *domain.KnowledgeBase) ([]ast.Atom, error) {
	var out []ast.Atom
	for i, p := range kb.Profiles() {
		name := ast.String(p.Name)
		out = append(out, ast.NewAtom("profile", name, ast.Number(int64(i))))

		for _, s := range p.Symptoms {
			out = append(out, ast.NewAtom("profile_symptom", name, ast.String(s)))
		}
		for _, pg := range p.Pathogens {
			out = append(out, ast.NewAtom("profile_pathogen", name, ast.String(pg)))
		}

		finding, err := xrayName(p.ExpectedXray)
		if err != nil {
			return nil, err
		}
		out = append(out, ast.NewAtom("profile_xray", name, finding))
	}
	return out, nil
}

func queryFacts(q domain.DiagnosisQuery) ([]ast.Atom, error) {
	finding, err := xrayName(q.Xray)
	if err != nil {
		return nil, err
	}

	out := []ast.Atom{
		ast.NewAtom("query_pathogen", ast.String(q.Pathogen)),
		ast.NewAtom("query_xray", finding),
	}
	for _, s := range q.Symptoms {
		out = append(out, ast.NewAtom("query_symptom", ast.String(s)))
	}
	return out, nil
}

func xrayName(x domain.XrayFinding) (ast.Constant, error) {
	switch x {
	case domain.XrayNormal:
		return ast.Name("/normal")
	case domain.XrayAbnormal:
		return ast.Name("/abnormal")
	default:
		return ast.Constant{}, &domain.OpError{
			Op:   "reasoner.mangle.xray",
			Kind: domain.KindInvalidInput,
			Err:  fmt.Errorf("unknown x-ray finding %q: %w", x, domain.ErrInvalidInput),
		}
	}
}

func decodeDiagnosis(a ast.Atom) (string, int64, error) {
	if len(a.Args) != 2 {
		return "", 0, fmt.Errorf("diagnosis: expected 2 args, got %d", len(a.Args))
	}
	name, ok := a.Args[0].(ast.Constant)
	if !ok || name.Type != ast.StringType {
		return "", 0, fmt.Errorf("diagnosis: unexpected name term %v", a.Args[0])
	}
	rank, ok := a.Args[1].(ast.Constant)
	if !ok || rank.Type != ast.NumberType {
		return "", 0, fmt.Errorf("diagnosis: unexpected rank term %v", a.Args[1])
	}
	return name.Symbol, rank.NumValue, nil
}
