package yamlkb

import (
	"os"

	"github.com/aalvaropc/haidx/internal/domain"
	"github.com/aalvaropc/haidx/internal/ports"
	"gopkg.in/yaml.v3"
)

// Loader reads a knowledge base from a YAML file.
type Loader struct{}

func NewLoader() *Loader { return &Loader{} }

var _ ports.KnowledgeBaseLoader = (*Loader)(nil)

func (l *Loader) LoadKnowledgeBase(path string) (*domain.KnowledgeBase, error) {
	return Load(path)
}

func Load(path string) (*domain.KnowledgeBase, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "yamlkb.load",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var dto YAMLKnowledgeBase
	if err := yaml.Unmarshal(b, &dto); err != nil {
		return nil, &domain.OpError{
			Op:   "yamlkb.load",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	return MapKnowledgeBase(path, dto)
}
