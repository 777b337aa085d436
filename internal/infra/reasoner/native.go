package reasoner

import (
	"context"

	"github.com/aalvaropc/haidx/internal/domain"
	"github.com/aalvaropc/haidx/internal/ports"
)

// Native scans the knowledge base in declaration order.
type Native struct {
	kb *domain.KnowledgeBase
}

func NewNative(kb *domain.KnowledgeBase) *Native {
	return &Native{kb: kb}
}

var _ ports.Reasoner = (*Native)(nil)

func (n *Native) Engine() domain.Engine { return domain.EngineNative }

func (n *Native) Diagnose(ctx context.Context, q domain.DiagnosisQuery) (domain.Diagnosis, error) {
	if err := ctx.Err(); err != nil {
		return domain.NoMatch(), err
	}
	return n.kb.Diagnose(q), nil
}
