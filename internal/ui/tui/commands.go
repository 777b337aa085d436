package tui

import (
	"context"
	"io"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aalvaropc/haidx/internal/infra/kbwatch"
	"github.com/aalvaropc/haidx/internal/usecase"
)

const diagnoseTimeout = 10 * time.Second

// cmdDiagnose runs one diagnosis off the UI loop.
func cmdDiagnose(d *usecase.Diagnose, in usecase.DiagnoseInput, log *slog.Logger, debug bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), diagnoseTimeout)
		defer cancel()

		if debug {
			log.Debug("tui.diagnose.start",
				"symptoms", in.Symptoms,
				"pathogen", in.Pathogen,
				"xray", in.Xray,
				"explain", in.Explain,
			)
		}

		report, err := d.Execute(ctx, in)
		return diagnosedMsg{report: report, err: err}
	}
}

// listenReloads waits for the next knowledge base reload.
func listenReloads(ch <-chan kbwatch.Reload) tea.Cmd {
	return func() tea.Msg {
		r, ok := <-ch
		if !ok {
			return kbReloadedMsg{closed: true}
		}
		return kbReloadedMsg{reload: r}
	}
}

func loggerOrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return l
}
