package ports

import (
	"context"

	"github.com/aalvaropc/haidx/internal/domain"
)

// Reasoner decides which infection, if any, a query describes.
type Reasoner interface {
	Engine() domain.Engine
	Diagnose(ctx context.Context, q domain.DiagnosisQuery) (domain.Diagnosis, error)
}
