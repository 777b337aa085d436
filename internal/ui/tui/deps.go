package tui

import (
	"log/slog"

	"github.com/aalvaropc/haidx/internal/domain"
	"github.com/aalvaropc/haidx/internal/infra/kbwatch"
	"github.com/aalvaropc/haidx/internal/usecase"
)

type Deps struct {
	Diagnose *usecase.Diagnose
	KBSource domain.ProfileSource

	// Rebuild makes a new use case when Reloads delivers a knowledge base.
	Rebuild func(*domain.KnowledgeBase) (*usecase.Diagnose, error)
	// Reloads is nil unless the knowledge base file is watched.
	Reloads <-chan kbwatch.Reload

	Logger *slog.Logger
	Debug  bool
}
