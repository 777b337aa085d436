package runstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aalvaropc/haidx/internal/domain"
	"github.com/aalvaropc/haidx/internal/ports"
)

const defaultRunsDir = "runs"
const maskValue = "********"

// JSONStore writes one JSON file per casebook run under the runs directory.
type JSONStore struct {
	rootDir        string
	runsDirName    string
	maskingEnabled bool
	writeIndex     bool
	now            func() time.Time
}

type Option func(*JSONStore)

// WithIndex enables a JSONL index: runs/index.jsonl
func WithIndex(enabled bool) Option {
	return func(s *JSONStore) { s.writeIndex = enabled }
}

// WithNow is useful for tests.
func WithNow(now func() time.Time) Option {
	return func(s *JSONStore) { s.now = now }
}

func NewJSONStore(root string, cfg domain.Config, opts ...Option) *JSONStore {
	runsDir := cfg.Paths.RunsDir
	if strings.TrimSpace(runsDir) == "" {
		runsDir = defaultRunsDir
	}

	s := &JSONStore{
		rootDir:        root,
		runsDirName:    runsDir,
		maskingEnabled: cfg.Masking.Enabled,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.ArtifactStore = (*JSONStore)(nil)

// SaveRun returns the artifact id, the file name without extension.
func (s *JSONStore) SaveRun(run domain.CheckRun) (string, error) {
	dir := filepath.Join(s.rootDir, s.runsDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &domain.OpError{Op: "runstore.mkdir", Kind: domain.KindExecution, Path: dir, Err: err}
	}

	ts := run.StartedAt
	if ts.IsZero() {
		ts = s.now()
	}
	ts = ts.UTC()

	toSave := run
	toSave.StartedAt = ts

	namePart := run.CasebookName
	if strings.TrimSpace(namePart) == "" {
		namePart = strings.TrimSuffix(filepath.Base(run.CasebookPath), filepath.Ext(run.CasebookPath))
	}
	slug := slugify(namePart)
	if slug == "" {
		slug = "run"
	}

	base := fmt.Sprintf("%s_%s", ts.Format("20060102T150405Z"), slug)
	if short := shortRunID(run.ID); short != "" {
		base += "_" + short
	}
	id, path := freeName(dir, base)
	filename := filepath.Base(path)

	if s.maskingEnabled {
		toSave = maskRun(toSave)
	}

	b, err := json.MarshalIndent(toSave, "", "  ")
	if err != nil {
		return "", &domain.OpError{Op: "runstore.marshal", Kind: domain.KindExecution, Path: path, Err: err}
	}

	// tmp then rename so readers never see a partial file
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return "", &domain.OpError{Op: "runstore.write", Kind: domain.KindExecution, Path: tmp, Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", &domain.OpError{Op: "runstore.rename", Kind: domain.KindExecution, Path: path, Err: err}
	}

	if s.writeIndex {
		_ = s.appendIndex(dir, id, filename, toSave)
	}

	return id, nil
}

type indexEntry struct {
	ID        string        `json:"id"`
	RunID     string        `json:"run_id,omitempty"`
	File      string        `json:"file"`
	Casebook  string        `json:"casebook"`
	Engine    domain.Engine `json:"engine"`
	Cases     int           `json:"cases"`
	Failures  int           `json:"failures"`
	StartedAt time.Time     `json:"started_at"`
}

func (s *JSONStore) appendIndex(dir, id, filename string, run domain.CheckRun) error {
	line, err := json.Marshal(indexEntry{
		ID:        id,
		RunID:     run.ID,
		File:      filename,
		Casebook:  run.CasebookName,
		Engine:    run.Engine,
		Cases:     len(run.Results),
		Failures:  run.Failures(),
		StartedAt: run.StartedAt,
	})
	if err != nil {
		return err
	}

	indexPath := filepath.Join(dir, "index.jsonl")
	f, err := os.OpenFile(indexPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(append(line, '\n'))
	return err
}

// maskRun returns a copy with patient labels replaced. The input is not mutated.
func maskRun(run domain.CheckRun) domain.CheckRun {
	out := run
	out.Results = make([]domain.CaseResult, 0, len(run.Results))

	for _, cr := range run.Results {
		c := cr
		patient := cr.Report.Query.Patient

		c.Report.Query.Symptoms = append([]string(nil), cr.Report.Query.Symptoms...)
		c.Report.Trace = append([]domain.MatchTrace(nil), cr.Report.Trace...)
		c.Assertions = make([]domain.AssertionResult, len(cr.Assertions))
		copy(c.Assertions, cr.Assertions)

		if strings.TrimSpace(patient) != "" {
			c.Report.Query.Patient = maskValue
			// assertion messages may quote the label back
			for i := range c.Assertions {
				c.Assertions[i].Message = strings.ReplaceAll(c.Assertions[i].Message, patient, maskValue)
			}
		}

		out.Results = append(out.Results, c)
	}

	return out
}

// shortRunID keeps the first 8 filename-safe characters of a run id.
func shortRunID(id string) string {
	s := strings.ReplaceAll(slugify(id), "-", "")
	if len(s) > 8 {
		s = s[:8]
	}
	return s
}

// freeName returns base, or base-2, base-3... when an artifact of that
// name already exists, so runs started in the same second never collide.
func freeName(dir, base string) (id, path string) {
	id = base
	for n := 2; ; n++ {
		path = filepath.Join(dir, id+".json")
		if _, err := os.Stat(path); err != nil {
			return id, path
		}
		id = fmt.Sprintf("%s-%d", base, n)
	}
}

// slugify produces a safe filename component.
func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))

	lastDash := false
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}

	return strings.Trim(b.String(), "-")
}
