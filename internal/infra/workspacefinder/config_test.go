package workspacefinder

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aalvaropc/haidx/internal/domain"
)

func writeConfig(t *testing.T, root, content string) {
	t.Helper()
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, ConfigFile), []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestLoadConfig_AppliesDefaults(t *testing.T) {
	root := filepath.Join(t.TempDir(), "ws")

	// Partial config (no paths/engine)
	writeConfig(t, root, "haidx:\n  masking:\n    enabled: false\n")

	cfg, err := LoadConfig(root)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}

	if cfg.Masking.Enabled != false {
		t.Fatalf("expected masking=false, got=%v", cfg.Masking.Enabled)
	}
	if cfg.Engine != domain.EngineNative {
		t.Fatalf("expected default engine=native, got=%s", cfg.Engine)
	}
	if cfg.KnowledgeBase != "" {
		t.Fatalf("expected built-in knowledge base, got=%s", cfg.KnowledgeBase)
	}
	if cfg.Paths.CasebooksDir != "casebooks" {
		t.Fatalf("expected casebooks dir=casebooks, got=%s", cfg.Paths.CasebooksDir)
	}
	if cfg.Paths.RunsDir != "runs" {
		t.Fatalf("expected runs dir=runs, got=%s", cfg.Paths.RunsDir)
	}
}

func TestLoadConfig_FullFile(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, `haidx:
  engine: mangle
  knowledge_base: knowledge/infections.yaml
  paths:
    casebooks_dir: cases
    runs_dir: out
`)

	cfg, err := LoadConfig(root)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.Engine != domain.EngineMangle {
		t.Fatalf("expected engine=mangle, got=%s", cfg.Engine)
	}
	if cfg.KnowledgeBase != "knowledge/infections.yaml" {
		t.Fatalf("unexpected knowledge base %q", cfg.KnowledgeBase)
	}
	if !cfg.Masking.Enabled {
		t.Fatalf("expected masking to default to true")
	}
	if cfg.Paths.CasebooksDir != "cases" || cfg.Paths.RunsDir != "out" {
		t.Fatalf("unexpected paths %+v", cfg.Paths)
	}
}

func TestLoadConfig_UnknownEngine(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "haidx:\n  engine: prolog\n")

	_, err := LoadConfig(root)
	if !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected invalid_config, got %v", err)
	}
}

func TestLoadConfig_Malformed(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "haidx: [\n")

	_, err := LoadConfig(root)
	if !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected invalid_config, got %v", err)
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
	if cfg.Paths.RunsDir != "runs" {
		t.Fatalf("expected defaults alongside the error, got %+v", cfg)
	}
}
