package ports

import "github.com/aalvaropc/haidx/internal/domain"

// CasebookLoader loads casebooks from a source (e.g., filesystem).
type CasebookLoader interface {
	LoadCasebook(path string) (domain.Casebook, error)
	ListCasebooks(root string) ([]domain.CasebookRef, error)
}
