package yamlcasebook

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aalvaropc/haidx/internal/domain"
	"github.com/aalvaropc/haidx/internal/ports"
	"gopkg.in/yaml.v3"
)

type Loader struct {
	casebooksDir string
}

func NewLoader(opts ...Option) *Loader {
	l := &Loader{casebooksDir: "casebooks"}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

type Option func(*Loader)

func WithCasebooksDir(dir string) Option {
	return func(l *Loader) { l.casebooksDir = dir }
}

var _ ports.CasebookLoader = (*Loader)(nil)

func (l *Loader) LoadCasebook(path string) (domain.Casebook, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.Casebook{}, &domain.OpError{
			Op:   "yamlcasebook.load",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var yc yamlCasebook
	if err := yaml.Unmarshal(b, &yc); err != nil {
		return domain.Casebook{}, &domain.OpError{
			Op:   "yamlcasebook.load",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	return mapAndValidate(path, yc)
}

func (l *Loader) ListCasebooks(root string) ([]domain.CasebookRef, error) {
	dir := filepath.Join(root, l.casebooksDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "yamlcasebook.list",
			Kind: domain.KindNotFound,
			Path: dir,
			Err:  err,
		}
	}

	var refs []domain.CasebookRef
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}

		p := filepath.Join(dir, name)
		n, _ := readCasebookName(p)
		if strings.TrimSpace(n) == "" {
			n = strings.TrimSuffix(name, filepath.Ext(name))
		}

		refs = append(refs, domain.CasebookRef{Name: n, Path: p})
	}

	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })
	return refs, nil
}

func readCasebookName(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	var v struct {
		Name string `yaml:"name"`
	}
	if err := yaml.Unmarshal(b, &v); err != nil {
		return "", err
	}
	return v.Name, nil
}

type yamlCasebook struct {
	Name  string     `yaml:"name"`
	Cases []yamlCase `yaml:"cases"`
}

type yamlCase struct {
	Name     string      `yaml:"name"`
	Patient  string      `yaml:"patient"`
	Symptoms symptomList `yaml:"symptoms"`
	Pathogen string      `yaml:"pathogen"`
	Xray     string      `yaml:"xray"`

	Expect yamlExpect `yaml:"expect"`
}

type yamlExpect struct {
	Diagnosis string                           `yaml:"diagnosis"`
	JSONPath  map[string]yamlJSONPathAssertion `yaml:"jsonpath"`
}

type yamlJSONPathAssertion struct {
	Exists   bool     `yaml:"exists"`
	Eq       *string  `yaml:"eq"`
	Contains *string  `yaml:"contains"`
	Matches  *string  `yaml:"matches"`
	Gt       *float64 `yaml:"gt"`
	Lt       *float64 `yaml:"lt"`
}

// symptomList accepts either a YAML sequence or the comma-separated text a
// user would type into the form.
type symptomList []string

func (s *symptomList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*s = domain.ParseSymptoms(value.Value)
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := value.Decode(&items); err != nil {
			return err
		}
		out := make([]string, 0, len(items))
		for _, it := range items {
			if t := strings.TrimSpace(it); t != "" {
				out = append(out, t)
			}
		}
		*s = out
		return nil
	default:
		return fmt.Errorf("line %d: symptoms must be a list or comma-separated text", value.Line)
	}
}

func mapAndValidate(path string, yc yamlCasebook) (domain.Casebook, error) {
	if strings.TrimSpace(yc.Name) == "" {
		return domain.Casebook{}, invalidField(path, "name", "casebook name is required")
	}

	cb := domain.Casebook{
		Name:  yc.Name,
		Cases: make([]domain.Case, 0, len(yc.Cases)),
	}

	for i, c := range yc.Cases {
		fieldPrefix := fmt.Sprintf("cases[%d]", i)

		if strings.TrimSpace(c.Name) == "" {
			return domain.Casebook{}, invalidField(path, fieldPrefix+".name", "case name is required")
		}
		if strings.TrimSpace(c.Pathogen) == "" {
			return domain.Casebook{}, invalidField(path, fieldPrefix+".pathogen", "pathogen is required")
		}

		xray := domain.XrayNormal
		if strings.TrimSpace(c.Xray) != "" {
			x, err := domain.ParseXray(c.Xray)
			if err != nil {
				return domain.Casebook{}, invalidField(path, fieldPrefix+".xray", fmt.Sprintf("unknown x-ray result %q", c.Xray))
			}
			xray = x
		}

		symptoms := []string(c.Symptoms)
		if symptoms == nil {
			symptoms = []string{}
		}

		cb.Cases = append(cb.Cases, domain.Case{
			Name: c.Name,
			Query: domain.DiagnosisQuery{
				Patient:  strings.TrimSpace(c.Patient),
				Symptoms: symptoms,
				Pathogen: c.Pathogen,
				Xray:     xray,
			},
			Expect: domain.Expectation{
				Diagnosis: strings.TrimSpace(c.Expect.Diagnosis),
				JSONPath:  mapJSONPath(c.Expect.JSONPath),
			},
		})
	}

	return cb, nil
}

func mapJSONPath(in map[string]yamlJSONPathAssertion) map[string]domain.JSONPathAssertion {
	out := make(map[string]domain.JSONPathAssertion, len(in))
	for k, v := range in {
		out[k] = domain.JSONPathAssertion{
			Exists:   v.Exists,
			Eq:       v.Eq,
			Contains: v.Contains,
			Matches:  v.Matches,
			Gt:       v.Gt,
			Lt:       v.Lt,
		}
	}
	return out
}

func invalidField(path, field, msg string) error {
	return &domain.OpError{
		Op:   "yamlcasebook.validate",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  fmt.Errorf("field %s: %s: %w", field, msg, domain.ErrInvalidConfig),
	}
}
