package workspacefinder

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aalvaropc/haidx/internal/domain"
)

func TestFindRoot_FindsWorkspaceFromNestedDir(t *testing.T) {
	tmp := t.TempDir()
	root := filepath.Join(tmp, "ws")
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	// haidx.yaml marks the root
	if err := os.WriteFile(filepath.Join(root, ConfigFile), []byte("haidx:\n  masking:\n    enabled: true\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	f := NewFinder()
	got, err := f.FindRoot(nested)
	if err != nil {
		t.Fatalf("FindRoot returned error: %v", err)
	}
	if got != root {
		t.Fatalf("expected root=%s, got=%s", root, got)
	}
}

func TestFindRoot_NotFound(t *testing.T) {
	tmp := t.TempDir()
	_ = os.MkdirAll(filepath.Join(tmp, "a", "b"), 0o755)

	f := NewFinder()
	_, err := f.FindRoot(filepath.Join(tmp, "a", "b"))
	if err == nil {
		t.Fatalf("expected error")
	}

	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected KindNotFound, got: %v", err)
	}
}

func TestFindRoot_StartsFromFileDirectory(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "haidx: {}\n")
	file := filepath.Join(root, "casebooks", "smoke.yaml")
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(file, []byte("name: smoke\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := NewFinder().FindRoot(file)
	if err != nil {
		t.Fatalf("FindRoot returned error: %v", err)
	}
	if got != root {
		t.Fatalf("expected root=%s, got=%s", root, got)
	}
}

func TestFindRoot_EmptyStartDir(t *testing.T) {
	_, err := NewFinder().FindRoot("")
	if !domain.IsKind(err, domain.KindInvalidInput) {
		t.Fatalf("expected KindInvalidInput, got: %v", err)
	}
}

func TestOpen_ResolvesPaths(t *testing.T) {
	root := t.TempDir()
	abs := filepath.Join(t.TempDir(), "elsewhere")
	writeConfig(t, root, "haidx:\n  knowledge_base: knowledge/infections.yaml\n  paths:\n    runs_dir: "+abs+"\n")

	ws, err := NewFinder().Open(root)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if ws.Root != root {
		t.Fatalf("expected root=%s, got=%s", root, ws.Root)
	}
	if ws.KnowledgeBasePath != filepath.Join(root, "knowledge", "infections.yaml") {
		t.Fatalf("unexpected kb path %s", ws.KnowledgeBasePath)
	}
	if ws.CasebooksDir != filepath.Join(root, "casebooks") {
		t.Fatalf("unexpected casebooks dir %s", ws.CasebooksDir)
	}
	if ws.RunsDir != abs {
		t.Fatalf("expected absolute runs dir kept, got %s", ws.RunsDir)
	}
}

func TestOpen_BuiltInKnowledgeBase(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "haidx:\n  engine: native\n")

	ws, err := NewFinder().Open(root)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if ws.KnowledgeBasePath != "" {
		t.Fatalf("expected no kb path, got %s", ws.KnowledgeBasePath)
	}
}
