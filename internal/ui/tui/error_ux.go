package tui

import (
	"errors"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/aalvaropc/haidx/internal/domain"
)

var (
	reLine  = regexp.MustCompile(`(?i)\bline\s+(\d+)\b`)
	reField = regexp.MustCompile(`\bfield\s+([A-Za-z0-9_\[\]\.]+)`)
)

// userMessage turns an error into one short line for the status area.
func userMessage(err error) string {
	if err == nil {
		return ""
	}

	var oe *domain.OpError
	if errors.As(err, &oe) {
		switch oe.Kind {

		case domain.KindNotFound:
			if strings.Contains(oe.Op, "yamlkb") {
				return "Knowledge base not found"
			}
			if strings.Contains(oe.Op, "yamlcasebook") {
				return "Casebook not found"
			}
			if strings.Contains(oe.Op, "workspacefinder") {
				return "Workspace not found"
			}
			return "Not found"

		case domain.KindInvalidInput:
			if msg := inputDetail(err); msg != "" {
				return "Invalid input: " + msg
			}
			return "Invalid input"

		case domain.KindInvalidConfig:
			base := "config"
			if strings.TrimSpace(oe.Path) != "" {
				base = filepath.Base(oe.Path)
			}

			if line := extractLine(err.Error()); line != "" {
				return "Invalid YAML at " + base + " line " + line
			}
			if f := extractField(err.Error()); f != "" {
				return "Invalid " + base + ": " + f
			}
			if looksLikeYAMLProblem(err.Error()) {
				return "Invalid YAML at " + base
			}
			return "Invalid config"

		default:
			return "Unexpected error (see logs)"
		}
	}

	if looksLikeYAMLProblem(err.Error()) {
		if line := extractLine(err.Error()); line != "" {
			return "Invalid YAML line " + line
		}
		return "Invalid YAML"
	}

	return "Unexpected error (see logs)"
}

// inputDetail returns the message under the OpError, without the sentinel suffix.
func inputDetail(err error) string {
	for e := err; e != nil; e = errors.Unwrap(e) {
		if _, ok := e.(*domain.OpError); ok {
			continue
		}
		if e == domain.ErrInvalidInput {
			return ""
		}
		return strings.TrimSuffix(e.Error(), ": "+domain.ErrInvalidInput.Error())
	}
	return ""
}

func looksLikeYAMLProblem(s string) bool {
	ls := strings.ToLower(s)
	return strings.Contains(ls, "yaml:") || strings.Contains(ls, "did not find expected") || strings.Contains(ls, "cannot unmarshal")
}

func extractLine(s string) string {
	m := reLine.FindStringSubmatch(s)
	if len(m) == 2 {
		return m[1]
	}
	return ""
}

func extractField(s string) string {
	m := reField.FindStringSubmatch(s)
	if len(m) == 2 {
		return m[1]
	}
	return ""
}
