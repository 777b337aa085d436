package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/aalvaropc/haidx/internal/domain"
	"github.com/aalvaropc/haidx/internal/ports"
	ucassert "github.com/aalvaropc/haidx/internal/usecase/assert"
)

// DefaultParallel bounds concurrent diagnoses when no limit is given.
const DefaultParallel = 4

type RunCasebook struct {
	casebooks ports.CasebookLoader
	diagnose  *Diagnose
	store     ports.ArtifactStore

	parallel int
	log      *slog.Logger
	newID    func() string
	now      func() time.Time
}

type RunOption func(*RunCasebook)

// WithParallel sets the maximum number of cases diagnosed at once.
func WithParallel(n int) RunOption {
	return func(uc *RunCasebook) {
		if n > 0 {
			uc.parallel = n
		}
	}
}

func WithRunLogger(l *slog.Logger) RunOption {
	return func(uc *RunCasebook) {
		if l != nil {
			uc.log = l
		}
	}
}

// WithRunClock is useful for tests.
func WithRunClock(now func() time.Time, newID func() string) RunOption {
	return func(uc *RunCasebook) {
		if now != nil {
			uc.now = now
		}
		if newID != nil {
			uc.newID = newID
		}
	}
}

// NewRunCasebook builds the runner. store may be nil to skip persistence.
func NewRunCasebook(cl ports.CasebookLoader, d *Diagnose, store ports.ArtifactStore, opts ...RunOption) *RunCasebook {
	uc := &RunCasebook{
		casebooks: cl,
		diagnose:  d,
		store:     store,
		parallel:  DefaultParallel,
		log:       slog.New(slog.NewJSONHandler(io.Discard, nil)),
		newID:     uuid.NewString,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Execute runs every case of the casebook at path. Results keep case order.
// On cancellation the completed results are returned with the context error.
func (uc *RunCasebook) Execute(ctx context.Context, path string) (domain.CheckRun, string, error) {
	cb, err := uc.casebooks.LoadCasebook(path)
	if err != nil {
		return domain.CheckRun{}, "", err
	}

	run := domain.CheckRun{
		ID:           uc.newID(),
		CasebookName: cb.Name,
		CasebookPath: path,
		Engine:       uc.diagnose.Engine(),
		StartedAt:    uc.now(),
	}

	results := make([]domain.CaseResult, len(cb.Cases))
	done := make([]bool, len(cb.Cases))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.parallel)

	for i, c := range cb.Cases {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := uc.runCase(gctx, c)
			if err != nil {
				return err
			}
			results[i] = res
			done[i] = true
			return nil
		})
	}

	waitErr := g.Wait()

	run.Results = make([]domain.CaseResult, 0, len(cb.Cases))
	for i := range results {
		if done[i] {
			run.Results = append(run.Results, results[i])
		}
	}
	run.EndedAt = uc.now()

	if err := ctx.Err(); err != nil {
		uc.log.Warn("check.cancelled", "casebook", cb.Name, "completed", len(run.Results))
		return run, "", err
	}
	if waitErr != nil {
		return run, "", waitErr
	}

	uc.log.Info("check.finished",
		"run_id", run.ID,
		"casebook", cb.Name,
		"engine", string(run.Engine),
		"cases", len(run.Results),
		"failures", run.Failures(),
	)

	if uc.store == nil {
		return run, "", nil
	}

	id, err := uc.store.SaveRun(run)
	if err != nil {
		return run, "", fmt.Errorf("save run: %w", err)
	}
	return run, id, nil
}

// runCase only returns an error when the context ended; reasoner failures
// are recorded on the result.
func (uc *RunCasebook) runCase(ctx context.Context, c domain.Case) (domain.CaseResult, error) {
	report, err := uc.diagnose.Query(ctx, c.Query, false)
	if err != nil {
		if ctx.Err() != nil {
			return domain.CaseResult{}, ctx.Err()
		}
		uc.log.Warn("check.case.failed", "case", c.Name, "err", err.Error())
		return domain.CaseResult{
			Name:       c.Name,
			Report:     domain.NewReport(c.Query, domain.NoMatch(), uc.diagnose.Engine()),
			Assertions: []domain.AssertionResult{},
			Error:      domain.NewCaseError(err),
		}, nil
	}

	assertions := ucassert.Evaluate(c.Expect, report)
	if assertions == nil {
		assertions = []domain.AssertionResult{}
	}

	res := domain.CaseResult{
		Name:       c.Name,
		Report:     report,
		Assertions: assertions,
	}
	if res.Failed() {
		uc.log.Info("check.case.failed", "case", c.Name, "diagnosis", report.Diagnosis.Label())
	}
	return res, nil
}
