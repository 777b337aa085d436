package tui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aalvaropc/haidx/internal/domain"
	"github.com/aalvaropc/haidx/internal/usecase"
)

type field int

const (
	fieldPatient field = iota
	fieldSymptoms
	fieldPathogen
	fieldXray
	fieldCount
)

type model struct {
	theme Theme
	deps  Deps

	diagnose *usecase.Diagnose

	patient  textinput.Model
	symptoms textinput.Model

	pathogens   []string
	pathogenIdx int
	xray        domain.XrayFinding
	explain     bool

	focus   field
	running bool

	report *domain.DiagnosisReport
	toast  string
	status string
	width  int
}

func Run(deps Deps) error {
	m := newModel(deps)
	p := tea.NewProgram(wrapSafe(m, deps.Logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newModel(deps Deps) model {
	patient := textinput.New()
	patient.Prompt = ""
	patient.Placeholder = "optional label, e.g. bed 4"
	patient.CharLimit = 64

	symptoms := textinput.New()
	symptoms.Prompt = ""
	symptoms.Placeholder = "fever, chills, hypotension"
	symptoms.CharLimit = 256

	m := model{
		theme:    DefaultTheme(),
		deps:     deps,
		diagnose: deps.Diagnose,
		patient:  patient,
		symptoms: symptoms,
		xray:     domain.XrayNormal,
		focus:    fieldSymptoms,
	}
	if deps.Diagnose != nil {
		m.pathogens = deps.Diagnose.KnowledgeBase().Pathogens()
	}
	m.symptoms.Focus()
	return m
}

func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.deps.Reloads != nil {
		cmds = append(cmds, listenReloads(m.deps.Reloads))
	}
	return tea.Batch(cmds...)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.symptoms.Width = max(20, msg.Width-24)
		m.patient.Width = m.symptoms.Width
		return m, nil

	case diagnosedMsg:
		m.running = false
		if msg.err != nil {
			m.report = nil
			m.toast = userMessage(msg.err)
			m.logger().Warn("tui.diagnose.failed", "err", msg.err.Error())
			return m, nil
		}
		r := msg.report
		m.report = &r
		m.toast = ""
		return m, nil

	case kbReloadedMsg:
		if msg.closed {
			m.status = "Knowledge base watcher stopped"
			return m, nil
		}
		m.applyReload(msg)
		return m, listenReloads(m.deps.Reloads)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateFocusedInput(msg)
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit

	case tea.KeyTab, tea.KeyDown:
		return m.setFocus((m.focus + 1) % fieldCount)

	case tea.KeyShiftTab, tea.KeyUp:
		return m.setFocus((m.focus + fieldCount - 1) % fieldCount)

	case tea.KeyCtrlE:
		m.explain = !m.explain
		return m, nil

	case tea.KeyEnter:
		return m.submit()
	}

	switch m.focus {
	case fieldPathogen:
		switch msg.Type {
		case tea.KeyLeft:
			m.cyclePathogen(-1)
		case tea.KeyRight, tea.KeySpace:
			m.cyclePathogen(1)
		}
		return m, nil

	case fieldXray:
		switch msg.Type {
		case tea.KeyLeft, tea.KeyRight, tea.KeySpace:
			m.toggleXray()
		}
		return m, nil
	}

	return m.updateFocusedInput(msg)
}

func (m model) updateFocusedInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case fieldPatient:
		m.patient, cmd = m.patient.Update(msg)
	case fieldSymptoms:
		m.symptoms, cmd = m.symptoms.Update(msg)
	}
	return m, cmd
}

func (m model) setFocus(f field) (tea.Model, tea.Cmd) {
	m.focus = f
	m.patient.Blur()
	m.symptoms.Blur()

	switch f {
	case fieldPatient:
		return m, m.patient.Focus()
	case fieldSymptoms:
		return m, m.symptoms.Focus()
	}
	return m, nil
}

func (m *model) cyclePathogen(step int) {
	n := len(m.pathogens)
	if n == 0 {
		return
	}
	m.pathogenIdx = (m.pathogenIdx + step + n) % n
}

func (m *model) toggleXray() {
	if m.xray == domain.XrayNormal {
		m.xray = domain.XrayAbnormal
		return
	}
	m.xray = domain.XrayNormal
}

func (m model) selectedPathogen() string {
	if len(m.pathogens) == 0 {
		return ""
	}
	return m.pathogens[m.pathogenIdx]
}

func (m model) input() usecase.DiagnoseInput {
	return usecase.DiagnoseInput{
		Patient:  strings.TrimSpace(m.patient.Value()),
		Symptoms: m.symptoms.Value(),
		Pathogen: m.selectedPathogen(),
		Xray:     string(m.xray),
		Explain:  m.explain,
	}
}

func (m model) submit() (tea.Model, tea.Cmd) {
	if m.running {
		return m, nil
	}
	if m.diagnose == nil {
		m.toast = "No knowledge base loaded"
		return m, nil
	}
	m.running = true
	m.toast = ""
	return m, cmdDiagnose(m.diagnose, m.input(), m.logger(), m.deps.Debug)
}

// applyReload swaps in the reloaded knowledge base, keeping the current
// pathogen when the new base still lists it.
func (m *model) applyReload(msg kbReloadedMsg) {
	if msg.reload.Err != nil {
		m.toast = "Reload failed: " + userMessage(msg.reload.Err)
		m.logger().Warn("tui.kb_reload.failed", "path", msg.reload.Path, "err", msg.reload.Err.Error())
		return
	}
	if m.deps.Rebuild == nil {
		return
	}

	d, err := m.deps.Rebuild(msg.reload.KB)
	if err != nil {
		m.toast = "Reload failed: " + userMessage(err)
		m.logger().Warn("tui.kb_reload.rebuild_failed", "err", err.Error())
		return
	}

	current := m.selectedPathogen()
	m.diagnose = d
	m.pathogens = d.KnowledgeBase().Pathogens()
	m.pathogenIdx = 0
	for i, p := range m.pathogens {
		if p == current {
			m.pathogenIdx = i
			break
		}
	}

	m.report = nil
	m.toast = ""
	m.status = fmt.Sprintf("Reloaded %d profile(s) from %s", d.KnowledgeBase().Len(), msg.reload.Path)
	m.logger().Info("tui.kb_reloaded", "path", msg.reload.Path, "profiles", d.KnowledgeBase().Len())
}

func (m model) View() string {
	wrap := lipgloss.NewStyle().Padding(1, 2)
	header := m.theme.Title.Render("haidx") + "\n" +
		m.theme.Subtitle.Render("Hospital-acquired infection diagnosis") + "\n"

	source := "Profiles: built-in"
	if !m.deps.KBSource.BuiltIn && m.deps.KBSource.Path != "" {
		source = "Profiles: " + m.deps.KBSource.Path
	}
	if m.diagnose != nil {
		source += fmt.Sprintf(" (%s engine)", m.diagnose.Engine())
	}

	var form strings.Builder
	form.WriteString(m.row(fieldPatient, "Patient", m.patient.View()))
	form.WriteString(m.row(fieldSymptoms, "Symptoms", m.symptoms.View()))
	form.WriteString(m.row(fieldPathogen, "Pathogen", "‹ "+orDash(m.selectedPathogen())+" ›"))
	form.WriteString(m.row(fieldXray, "X-ray", "‹ "+string(m.xray)+" ›"))
	if m.explain {
		form.WriteString("\n" + m.theme.Help.Render("explain: on"))
	}

	out := header + "\n" + m.theme.Help.Render(source) + "\n\n" + m.theme.Card.Render(strings.TrimRight(form.String(), "\n"))

	if m.running {
		out += "\n\nDiagnosing…"
	} else if m.report != nil {
		out += "\n\n" + m.theme.Card.Render(renderReport(m.theme, *m.report, m.resultWidth()))
	}

	if m.toast != "" {
		out += "\n\n" + m.theme.Toast.Render(m.toast)
	}
	if m.status != "" {
		out += "\n" + m.theme.Help.Render(m.status)
	}

	help := m.theme.Help.Render("tab/↑/↓ move • ←/→ change • enter diagnose • ctrl+e explain • esc quit")
	return wrap.Render(out + "\n\n" + help)
}

func (m model) row(f field, label, value string) string {
	style := m.theme.Label
	cursor := "  "
	if m.focus == f {
		style = m.theme.Focused
		cursor = "> "
	}
	return cursor + style.Render(label) + value + "\n"
}

func (m model) resultWidth() int {
	if m.width <= 0 {
		return 80
	}
	return max(20, m.width-10)
}

func (m model) logger() *slog.Logger {
	return loggerOrDiscard(m.deps.Logger)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
