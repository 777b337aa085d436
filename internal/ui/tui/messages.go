package tui

import (
	"github.com/aalvaropc/haidx/internal/domain"
	"github.com/aalvaropc/haidx/internal/infra/kbwatch"
)

type diagnosedMsg struct {
	report domain.DiagnosisReport
	err    error
}

type kbReloadedMsg struct {
	reload kbwatch.Reload
	// closed is set once the watcher stops delivering.
	closed bool
}
