package usecase

import (
	"github.com/aalvaropc/haidx/internal/domain"
	"github.com/aalvaropc/haidx/internal/ports"
)

// InitWorkspace scaffolds haidx.yaml, a knowledge base and a sample casebook.
type InitWorkspace struct {
	initializer ports.WorkspaceInitializer
}

func NewInitWorkspace(initializer ports.WorkspaceInitializer) *InitWorkspace {
	return &InitWorkspace{initializer: initializer}
}

func (uc *InitWorkspace) Execute(root string, force bool) error {
	if root == "" {
		root = "."
	}
	return uc.initializer.Init(domain.WorkspaceSpec{Root: root}, force)
}
