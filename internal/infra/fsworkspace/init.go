package fsworkspace

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/aalvaropc/haidx/internal/domain"
	"github.com/aalvaropc/haidx/internal/ports"
)

// Initializer scaffolds a workspace from the embedded templates.
type Initializer struct{}

func NewInitializer() *Initializer {
	return &Initializer{}
}

var _ ports.WorkspaceInitializer = (*Initializer)(nil)

// Init creates the workspace layout. Existing files are kept unless force is set.
func (i *Initializer) Init(spec domain.WorkspaceSpec, force bool) error {
	root := filepath.Clean(spec.Root)
	cfg := domain.DefaultConfig()

	dirs := []string{
		filepath.Join(root, cfg.Paths.CasebooksDir),
		filepath.Join(root, cfg.Paths.RunsDir),
		filepath.Join(root, "knowledge"),
		filepath.Join(root, ".haidx", "logs"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return initError(d, err)
		}
	}

	if err := ensureGitignore(root); err != nil {
		return initError(filepath.Join(root, ".gitignore"), err)
	}

	return fs.WalkDir(templatesFS, "templates", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel := strings.TrimPrefix(p, "templates/")
		dst := filepath.Join(root, filepath.FromSlash(rel))

		if !force {
			if _, statErr := os.Stat(dst); statErr == nil {
				return nil
			}
		}

		b, err := fs.ReadFile(templatesFS, p)
		if err != nil {
			return initError(p, err)
		}
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return initError(dst, err)
		}
		if err := os.WriteFile(dst, b, 0o644); err != nil {
			return initError(dst, err)
		}
		return nil
	})
}

func initError(path string, err error) error {
	return &domain.OpError{Op: "fsworkspace.init", Kind: domain.KindExecution, Path: path, Err: err}
}

const gitignoreHeader = "# haidx"

// run artifacts carry patient labels when masking is off
var gitignoreEntries = []string{
	"runs/",
	".haidx/",
}

func ensureGitignore(root string) error {
	path := filepath.Join(root, ".gitignore")
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			lines := append([]string{gitignoreHeader}, gitignoreEntries...)
			lines = append(lines, "")
			return os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644)
		}
		return err
	}

	existing := string(b)
	present := map[string]bool{}
	for _, line := range strings.Split(existing, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			present[trimmed] = true
		}
	}

	var missing []string
	for _, e := range gitignoreEntries {
		if !present[e] {
			missing = append(missing, e)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	var out strings.Builder
	out.WriteString(existing)
	if existing != "" && !strings.HasSuffix(existing, "\n") {
		out.WriteByte('\n')
	}
	out.WriteByte('\n')
	if !present[gitignoreHeader] {
		out.WriteString(gitignoreHeader + "\n")
	}
	for _, e := range missing {
		out.WriteString(e + "\n")
	}

	return os.WriteFile(path, []byte(out.String()), 0o644)
}
