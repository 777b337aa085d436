package tui

import (
	"strings"
	"unicode/utf8"

	"github.com/aalvaropc/haidx/internal/domain"
)

func clampString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))

	n := 0
	for _, r := range s {
		if n >= maxLen {
			break
		}
		b.WriteRune(r)
		n++
	}
	return b.String() + "…"
}

func renderReport(t Theme, r domain.DiagnosisReport, width int) string {
	var b strings.Builder

	if r.Diagnosis.Matched {
		b.WriteString(t.Match.Render(r.Message))
	} else {
		b.WriteString(t.NoMatch.Render(r.Message))
	}
	b.WriteString("\n")

	if r.Query.Patient != "" {
		b.WriteString("\nPatient: ")
		b.WriteString(clampString(r.Query.Patient, width))
		b.WriteString("\n")
	}

	if len(r.Trace) > 0 {
		b.WriteString("\n")
		b.WriteString(renderTrace(r.Trace, width))
	}

	return strings.TrimRight(b.String(), "\n")
}

func renderTrace(trace []domain.MatchTrace, width int) string {
	var b strings.Builder
	for _, tr := range trace {
		status := "no match"
		if tr.Matched() {
			status = "MATCH"
		}
		b.WriteString(tr.Profile)
		b.WriteString(": ")
		b.WriteString(status)
		b.WriteString("\n  symptoms ")
		b.WriteString(check(tr.SymptomsOK))
		if len(tr.UnknownSymptoms) > 0 {
			b.WriteString(" ")
			b.WriteString(clampString("(not listed: "+strings.Join(tr.UnknownSymptoms, ", ")+")", width))
		}
		b.WriteString("  pathogen ")
		b.WriteString(check(tr.PathogenOK))
		b.WriteString("  x-ray ")
		b.WriteString(check(tr.XrayOK))
		b.WriteString("\n")
	}
	return b.String()
}

func check(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}
