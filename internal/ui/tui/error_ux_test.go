package tui

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aalvaropc/haidx/internal/domain"
)

func TestUserMessage(t *testing.T) {
	_, xrayErr := domain.ParseXray("Cloudy")

	cases := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"kb not found", &domain.OpError{Op: "yamlkb.load", Kind: domain.KindNotFound, Err: domain.ErrNotFound}, "Knowledge base not found"},
		{"casebook not found", &domain.OpError{Op: "yamlcasebook.load", Kind: domain.KindNotFound, Err: domain.ErrNotFound}, "Casebook not found"},
		{"other not found", &domain.OpError{Op: "cli.profiles.show", Kind: domain.KindNotFound, Err: domain.ErrNotFound}, "Not found"},
		{"bad xray", xrayErr, `Invalid input: unknown x-ray result "Cloudy" (expected Normal|Abnormal)`},
		{"yaml line", &domain.OpError{Op: "yamlkb.load", Kind: domain.KindInvalidConfig, Path: "/ws/knowledge/infections.yaml",
			Err: errors.New("yaml: line 7: did not find expected key")}, "Invalid YAML at infections.yaml line 7"},
		{"field path", &domain.OpError{Op: "yamlkb.load", Kind: domain.KindInvalidConfig, Path: "/ws/kb.yaml",
			Err: fmt.Errorf("field profiles[1].xray: unknown x-ray result: %w", domain.ErrInvalidConfig)}, "Invalid kb.yaml: profiles[1].xray"},
		{"execution", &domain.OpError{Op: "reasoner.mangle", Kind: domain.KindExecution, Err: errors.New("eval")}, "Unexpected error (see logs)"},
		{"bare yaml", errors.New("yaml: line 3: mapping values are not allowed"), "Invalid YAML line 3"},
		{"plain", errors.New("boom"), "Unexpected error (see logs)"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := userMessage(c.err); got != c.want {
				t.Fatalf("userMessage() = %q, want %q", got, c.want)
			}
		})
	}
}

func TestClampString(t *testing.T) {
	if got := clampString("Staphylococcus", 5); got != "Staph…" {
		t.Fatalf("got %q", got)
	}
	if got := clampString("fever", 10); got != "fever" {
		t.Fatalf("got %q", got)
	}
	if got := clampString("fever", 0); got != "" {
		t.Fatalf("got %q", got)
	}
}
