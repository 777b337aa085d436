package workspacefinder

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/aalvaropc/haidx/internal/domain"
	"github.com/aalvaropc/haidx/internal/ports"
)

// Finder locates a haidx workspace root by searching for haidx.yaml upward.
type Finder struct {
	ConfigFile string // defaults to ConfigFile
}

func NewFinder() *Finder {
	return &Finder{ConfigFile: ConfigFile}
}

var _ ports.WorkspaceLocator = (*Finder)(nil)

func (f *Finder) FindRoot(startDir string) (string, error) {
	if startDir == "" {
		return "", &domain.OpError{
			Op:   "workspacefinder.findroot",
			Kind: domain.KindInvalidInput,
			Err:  errors.New("startDir is empty"),
		}
	}

	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", &domain.OpError{Op: "workspacefinder.findroot", Kind: domain.KindExecution, Err: err}
	}

	// a file path searches from its directory
	if info, statErr := os.Stat(abs); statErr == nil && !info.IsDir() {
		abs = filepath.Dir(abs)
	}

	for cur := filepath.Clean(abs); ; {
		if _, err := os.Stat(filepath.Join(cur, f.ConfigFile)); err == nil {
			return cur, nil
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return "", &domain.OpError{
				Op:   "workspacefinder.findroot",
				Kind: domain.KindNotFound,
				Path: abs,
				Err:  domain.ErrNotFound,
			}
		}
		cur = parent
	}
}

// Workspace is a located root with its config and absolute directories.
type Workspace struct {
	Root   string
	Config domain.Config

	// KnowledgeBasePath is empty when the built-in profiles are configured.
	KnowledgeBasePath string
	CasebooksDir      string
	RunsDir           string
}

// Open finds the workspace containing startDir and loads its config.
func (f *Finder) Open(startDir string) (Workspace, error) {
	root, err := f.FindRoot(startDir)
	if err != nil {
		return Workspace{}, err
	}

	cfg, err := LoadConfig(root)
	if err != nil {
		return Workspace{}, err
	}

	ws := Workspace{
		Root:         root,
		Config:       cfg,
		CasebooksDir: resolve(root, cfg.Paths.CasebooksDir),
		RunsDir:      resolve(root, cfg.Paths.RunsDir),
	}
	if cfg.KnowledgeBase != "" {
		ws.KnowledgeBasePath = resolve(root, cfg.KnowledgeBase)
	}
	return ws, nil
}

func resolve(root, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(root, p)
}
