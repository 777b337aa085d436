package tui

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
)

type safeModel struct {
	m   model
	log *slog.Logger
}

func wrapSafe(m model, log *slog.Logger) safeModel {
	return safeModel{m: m, log: loggerOrDiscard(log)}
}

func (s safeModel) Init() tea.Cmd {
	return s.m.Init()
}

func (s safeModel) Update(msg tea.Msg) (tm tea.Model, cmd tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			s.m.recoverForm()
			s.log.Error("panic.recovered",
				"where", "tui.update",
				"panic", fmt.Sprint(r),
				"pathogen", s.m.selectedPathogen(),
				"xray", string(s.m.xray),
				"profiles", s.m.profileCount(),
				"stack", string(debug.Stack()),
			)
			tm = s
			cmd = nil
		}
	}()

	inner, c := s.m.Update(msg)

	if mm, ok := inner.(model); ok {
		s.m = mm
	} else if sm, ok := inner.(safeModel); ok {
		s = sm
	}

	return s, c
}

func (s safeModel) View() (out string) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("panic.recovered",
				"where", "tui.view",
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()),
			)
			out = "Unexpected error (see logs)"
		}
	}()
	return s.m.View()
}

// recoverForm drops the in-flight diagnosis and puts the cursor back on the
// symptoms field. Typed values and the chosen x-ray are kept.
func (m *model) recoverForm() {
	m.running = false
	m.report = nil
	m.status = ""
	m.toast = "Unexpected error (see logs)"

	if m.pathogenIdx < 0 || m.pathogenIdx >= len(m.pathogens) {
		m.pathogenIdx = 0
	}
	m.focus = fieldSymptoms
	m.patient.Blur()
	m.symptoms.Focus()
}

func (m model) profileCount() int {
	if m.diagnose == nil {
		return 0
	}
	return m.diagnose.KnowledgeBase().Len()
}

var _ tea.Model = (*safeModel)(nil)
