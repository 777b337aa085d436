package ports

import "github.com/aalvaropc/haidx/internal/domain"

// KnowledgeBaseLoader loads infection profiles from a source (e.g., filesystem).
type KnowledgeBaseLoader interface {
	LoadKnowledgeBase(path string) (*domain.KnowledgeBase, error)
}
