// Package reasoner provides the diagnosis engines behind ports.Reasoner.
package reasoner

import (
	"github.com/aalvaropc/haidx/internal/domain"
	"github.com/aalvaropc/haidx/internal/ports"
)

// New builds the reasoner for engine over kb.
func New(engine domain.Engine, kb *domain.KnowledgeBase) (ports.Reasoner, error) {
	e, err := domain.ParseEngine(string(engine))
	if err != nil {
		return nil, err
	}
	if e == domain.EngineMangle {
		return NewMangle(kb)
	}
	return NewNative(kb), nil
}
