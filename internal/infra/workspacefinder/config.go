package workspacefinder

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/aalvaropc/haidx/internal/domain"
	"gopkg.in/yaml.v3"
)

// ConfigFile is the file that marks a workspace root.
const ConfigFile = "haidx.yaml"

// LoadConfig loads haidx.yaml from the workspace root and applies defaults.
func LoadConfig(root string) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	path := filepath.Join(root, ConfigFile)
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, &domain.OpError{
			Op:   "workspacefinder.loadconfig",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var y yamlConfig
	if err := yaml.Unmarshal(b, &y); err != nil {
		return cfg, &domain.OpError{
			Op:   "workspacefinder.loadconfig",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	if e := strings.TrimSpace(y.Haidx.Engine); e != "" {
		engine, err := domain.ParseEngine(e)
		if err != nil {
			return cfg, &domain.OpError{
				Op:   "workspacefinder.loadconfig",
				Kind: domain.KindInvalidConfig,
				Path: path,
				Err:  err,
			}
		}
		cfg.Engine = engine
	}
	if kb := strings.TrimSpace(y.Haidx.KnowledgeBase); kb != "" {
		cfg.KnowledgeBase = kb
	}
	if y.Haidx.Masking.Enabled != nil {
		cfg.Masking.Enabled = *y.Haidx.Masking.Enabled
	}
	if y.Haidx.Paths.CasebooksDir != "" {
		cfg.Paths.CasebooksDir = y.Haidx.Paths.CasebooksDir
	}
	if y.Haidx.Paths.RunsDir != "" {
		cfg.Paths.RunsDir = y.Haidx.Paths.RunsDir
	}

	return cfg, nil
}

type yamlConfig struct {
	Haidx struct {
		Engine        string `yaml:"engine"`
		KnowledgeBase string `yaml:"knowledge_base"`

		Masking struct {
			Enabled *bool `yaml:"enabled"`
		} `yaml:"masking"`

		Paths struct {
			CasebooksDir string `yaml:"casebooks_dir"`
			RunsDir      string `yaml:"runs_dir"`
		} `yaml:"paths"`
	} `yaml:"haidx"`
}
