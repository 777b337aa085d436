package ports

import "github.com/aalvaropc/haidx/internal/domain"

// ArtifactStore persists casebook runs for reproducibility.
type ArtifactStore interface {
	SaveRun(run domain.CheckRun) (id string, err error)
}
