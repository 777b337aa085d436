package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aalvaropc/haidx/internal/domain"
	"github.com/aalvaropc/haidx/internal/infra/logger"
	"github.com/aalvaropc/haidx/internal/infra/reasoner"
	"github.com/aalvaropc/haidx/internal/infra/runstore"
	"github.com/aalvaropc/haidx/internal/infra/workspacefinder"
	"github.com/aalvaropc/haidx/internal/infra/yamlcasebook"
	"github.com/aalvaropc/haidx/internal/infra/yamlkb"
	"github.com/aalvaropc/haidx/internal/ports"
	"github.com/aalvaropc/haidx/internal/usecase"
)

// session is everything a command needs, resolved from flags and haidx.yaml.
// root is empty when no workspace was found; the built-in profiles are used then.
type session struct {
	root string
	cfg  domain.Config

	kb       *domain.KnowledgeBase
	kbSource domain.ProfileSource

	diagnose  *usecase.Diagnose
	casebooks ports.CasebookLoader
	store     ports.ArtifactStore
}

func (a *app) openSession(requireWorkspace bool) (*session, error) {
	root, err := a.resolveWorkspaceRoot(requireWorkspace)
	if err != nil {
		return nil, err
	}

	s := &session{root: root, cfg: domain.DefaultConfig()}
	kbPath := ""

	if root != "" {
		ws, err := workspacefinder.NewFinder().Open(root)
		if err != nil {
			return nil, err
		}
		s.root = ws.Root
		s.cfg = ws.Config
		kbPath = ws.KnowledgeBasePath
	}

	if strings.TrimSpace(a.engine) != "" {
		engine, err := domain.ParseEngine(a.engine)
		if err != nil {
			return nil, err
		}
		s.cfg.Engine = engine
	}

	if p := strings.TrimSpace(a.kbPath); p != "" {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("invalid knowledge base path: %w", err)
		}
		kbPath = abs
	}

	if kbPath == "" {
		s.kb = domain.DefaultKnowledgeBase()
		s.kbSource = domain.ProfileSource{BuiltIn: true}
	} else {
		kb, err := yamlkb.NewLoader().LoadKnowledgeBase(kbPath)
		if err != nil {
			return nil, err
		}
		s.kb = kb
		s.kbSource = domain.ProfileSource{Path: kbPath}
	}

	r, err := reasoner.New(s.cfg.Engine, s.kb)
	if err != nil {
		return nil, err
	}
	s.diagnose = usecase.NewDiagnose(r, s.kb, usecase.WithLogger(logger.Component("diagnose")))

	s.casebooks = yamlcasebook.NewLoader(yamlcasebook.WithCasebooksDir(s.cfg.Paths.CasebooksDir))
	if s.root != "" {
		s.store = runstore.NewJSONStore(s.root, s.cfg, runstore.WithIndex(true))
	}

	logger.L().Debug("session.opened",
		"root", s.root,
		"engine", string(s.cfg.Engine),
		"kb", kbPath,
		"profiles", s.kb.Len(),
	)
	return s, nil
}

func (a *app) resolveWorkspaceRoot(required bool) (string, error) {
	w := strings.TrimSpace(a.workspace)
	if w != "" {
		abs, err := filepath.Abs(w)
		if err != nil {
			return "", fmt.Errorf("invalid workspace path: %w", err)
		}
		return abs, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	root, err := a.locator.FindRoot(wd)
	if err != nil {
		if !required && domain.IsKind(err, domain.KindNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("workspace not found from %q (tip: run `haidx init`): %w", wd, err)
	}
	return root, nil
}

func resolveCasebookPath(s *session, arg string) (string, error) {
	in := strings.TrimSpace(arg)
	if in == "" {
		return "", fmt.Errorf("casebook is required (use --casebook or -c)")
	}

	// paths resolve against the workspace root
	if looksLikePath(in) {
		p := in
		if !filepath.IsAbs(p) {
			p = filepath.Join(s.root, p)
		}
		return filepath.Clean(p), nil
	}

	dir := filepath.Join(s.root, s.cfg.Paths.CasebooksDir)

	if hasYAMLExt(in) {
		if p := filepath.Join(dir, in); fileExists(p) {
			return p, nil
		}
	}
	for _, ext := range []string{".yaml", ".yml"} {
		if p := filepath.Join(dir, in+ext); fileExists(p) {
			return p, nil
		}
	}

	// last resort: match the casebook's name field
	if refs, err := s.casebooks.ListCasebooks(s.root); err == nil {
		for _, r := range refs {
			if strings.EqualFold(r.Name, in) {
				return r.Path, nil
			}
		}
	}

	return "", &domain.OpError{
		Op:   "cli.resolve_casebook",
		Kind: domain.KindNotFound,
		Path: dir,
		Err:  fmt.Errorf("casebook %q: %w", in, domain.ErrNotFound),
	}
}

func looksLikePath(s string) bool {
	return strings.Contains(s, "/") || strings.Contains(s, string(filepath.Separator))
}

func hasYAMLExt(s string) bool {
	ext := strings.ToLower(filepath.Ext(s))
	return ext == ".yaml" || ext == ".yml"
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
